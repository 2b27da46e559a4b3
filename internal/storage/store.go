package storage

import (
	"strings"
	"time"

	apperrors "ghexplorer/internal/errors"
	"ghexplorer/internal/providers"
	"ghexplorer/internal/structures"

	json "github.com/goccy/go-json"
)

const (
	// SchemaVersion is the envelope version written by this build.
	SchemaVersion = 1

	DefaultPrefix = "github-explorer"

	probeKey = "__probe__"
)

// Store is a best-effort typed key-value layer over a Substrate. Every value
// is wrapped in a versioned envelope under "prefix:key". Failures are logged
// and absorbed; callers only ever see booleans and default values.
type Store struct {
	substrate  Substrate
	prefix     string
	version    int
	degraded   bool
	migrations []Migration
	now        func() time.Time
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithSchemaVersion(v int) Option {
	return func(s *Store) { s.version = v }
}

func WithMigrations(m []Migration) Option {
	return func(s *Store) { s.migrations = m }
}

func New(substrate Substrate, prefix string, logger providers.Logger, metrics providers.MetricsProviderInterface, opts ...Option) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	s := &Store{
		substrate:  substrate,
		prefix:     prefix,
		version:    SchemaVersion,
		migrations: DefaultMigrations(),
		now:        time.Now,
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStore builds the application store. When the configured substrate fails
// the availability probe the store falls back to process memory.
func NewStore(conf *structures.Config, substrate Substrate, logger providers.Logger, metrics providers.MetricsProviderInterface) *Store {
	s := New(substrate, conf.Storage.Prefix, logger, metrics)
	if !s.IsAvailable() {
		logger.Warnf(providers.TypeStorage, "Storage driver %q unavailable, keeping data in memory only", conf.Storage.Driver)
		s.substrate = NewMemorySubstrate(conf.Storage.Quota)
		s.degraded = true
	}
	return s
}

func (s *Store) key(key string) string {
	return s.prefix + ":" + key
}

// Degraded reports whether the store fell back to memory at startup.
func (s *Store) Degraded() bool {
	return s.degraded
}

func (s *Store) fail(code apperrors.Code, op, key string, err error) {
	s.metrics.IncStorageFailures(op)
	e := apperrors.Wrap(code, err, op+" "+key)
	if code == apperrors.CodeStorageCorrupt {
		s.logger.Warnf(providers.TypeStorage, "%s", e)
		return
	}
	s.logger.Errorf(providers.TypeStorage, "%s", e)
}

// Set stores value under key. It reports false on any failure.
func Set[T any](s *Store, key string, value T) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.fail(apperrors.CodeStorageCorrupt, "serialize", key, err)
		return false
	}
	return s.setRaw(key, data, s.now())
}

// Get returns the value stored under key, or def when the key is absent,
// unreadable or written with another schema version. Bad entries are deleted.
func Get[T any](s *Store, key string, def T) T {
	data, ok := s.getRaw(key)
	if !ok {
		return def
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		s.fail(apperrors.CodeStorageCorrupt, "decode", key, err)
		s.Remove(key)
		return def
	}
	return out
}

func (s *Store) setRaw(key string, data []byte, writtenAt time.Time) bool {
	payload, err := json.Marshal(record{
		Data:          data,
		SchemaVersion: s.version,
		WrittenAt:     writtenAt.UTC(),
	})
	if err != nil {
		s.fail(apperrors.CodeStorageCorrupt, "serialize", key, err)
		return false
	}
	if err := s.substrate.SetItem(s.key(key), string(payload)); err != nil {
		s.fail(apperrors.CodeStorageUnavailable, "set", key, err)
		return false
	}
	return true
}

func (s *Store) readRecord(key string) (Current, bool) {
	raw, found, err := s.substrate.GetItem(s.key(key))
	if err != nil {
		s.fail(apperrors.CodeStorageUnavailable, "get", key, err)
		return Current{}, false
	}
	if !found {
		return Current{}, false
	}

	switch rec := Decode(raw).(type) {
	case Current:
		if rec.SchemaVersion == s.version {
			return rec, true
		}
		s.logger.Warnf(providers.TypeStorage, "Storage version mismatch for key %s. Expected %d, got %d", key, s.version, rec.SchemaVersion)
	case LegacyV0:
		s.logger.Warnf(providers.TypeStorage, "Legacy envelope (version %d) for key %s discarded", rec.Version, key)
	case Unparseable:
		s.fail(apperrors.CodeStorageCorrupt, "parse", key, rec.Err)
	}
	s.Remove(key)
	return Current{}, false
}

func (s *Store) getRaw(key string) ([]byte, bool) {
	rec, ok := s.readRecord(key)
	if !ok {
		return nil, false
	}
	return rec.Data, true
}

// WrittenAt returns the write time of a readable entry.
func (s *Store) WrittenAt(key string) (time.Time, bool) {
	rec, ok := s.readRecord(key)
	if !ok {
		return time.Time{}, false
	}
	return rec.WrittenAt, true
}

// Remove deletes key. Missing keys and substrate failures are not reported.
func (s *Store) Remove(key string) {
	if err := s.substrate.RemoveItem(s.key(key)); err != nil {
		s.fail(apperrors.CodeStorageUnavailable, "remove", key, err)
	}
}

// IsAvailable probes the substrate with a throwaway write.
func (s *Store) IsAvailable() bool {
	k := s.key(probeKey)
	if err := s.substrate.SetItem(k, "probe"); err != nil {
		s.logger.Debugf(providers.TypeStorage, "Storage probe failed: %s", err)
		return false
	}
	if err := s.substrate.RemoveItem(k); err != nil {
		s.logger.Debugf(providers.TypeStorage, "Storage probe cleanup failed: %s", err)
		return false
	}
	return true
}

// ResetAll deletes every key under the store prefix and leaves the rest alone.
func (s *Store) ResetAll() bool {
	keys, err := s.substrate.Keys()
	if err != nil {
		s.fail(apperrors.CodeStorageUnavailable, "keys", s.prefix, err)
		return false
	}
	ok := true
	ns := s.prefix + ":"
	for _, k := range keys {
		if !strings.HasPrefix(k, ns) {
			continue
		}
		if err := s.substrate.RemoveItem(k); err != nil {
			s.fail(apperrors.CodeStorageUnavailable, "remove", k, err)
			ok = false
		}
	}
	if ok {
		s.logger.Infof(providers.TypeStorage, "All storage under %q has been cleared", s.prefix)
	}
	return ok
}

// Flush persists buffered writes for substrates that buffer them.
func (s *Store) Flush() error {
	if f, ok := s.substrate.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
