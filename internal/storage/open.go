package storage

import (
	"fmt"

	"ghexplorer/internal/providers"
	"ghexplorer/internal/structures"
)

// NewSubstrate opens the configured backend. The cleanup func flushes and
// closes it.
func NewSubstrate(conf *structures.Config, logger providers.Logger) (Substrate, func(), error) {
	cfg := conf.Storage
	switch cfg.Driver {
	case "", "memory":
		logger.Infof(providers.TypeStorage, "Storage: in-memory")
		return NewMemorySubstrate(cfg.Quota), func() {}, nil

	case "file":
		compressor, err := NewZstdCompressor()
		if err != nil {
			return nil, nil, err
		}
		fs, err := NewFileSubstrate(cfg.Path, cfg.Quota, compressor, logger)
		if err != nil {
			compressor.Close()
			return nil, nil, fmt.Errorf("open file storage %s: %w", cfg.Path, err)
		}
		logger.Infof(providers.TypeStorage, "Storage: snapshot file %s", cfg.Path)
		return fs, func() {
			if err := fs.Close(); err != nil {
				logger.Errorf(providers.TypeStorage, "Error while persisting storage: %s", err)
			}
		}, nil

	case "bolt":
		bs, err := NewBoltSubstrate(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(providers.TypeStorage, "Storage: bbolt %s", cfg.Path)
		return bs, func() { _ = bs.Close() }, nil

	case "sqlite":
		ss, err := NewSQLiteSubstrate(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(providers.TypeStorage, "Storage: sqlite %s", cfg.Path)
		return ss, func() { _ = ss.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// Open builds the application store on the configured substrate. A substrate
// that cannot be opened is replaced by process memory and the store reports
// itself degraded.
func Open(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*Store, func()) {
	sub, cleanup, err := NewSubstrate(conf, logger)
	if err != nil {
		logger.Errorf(providers.TypeStorage, "Unable to open storage: %s", err)
		s := New(NewMemorySubstrate(conf.Storage.Quota), conf.Storage.Prefix, logger, metrics)
		s.degraded = true
		return s, func() {}
	}
	return NewStore(conf, sub, logger, metrics), cleanup
}
