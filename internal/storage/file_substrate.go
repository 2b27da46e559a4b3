package storage

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"ghexplorer/internal/providers"

	json "github.com/goccy/go-json"
)

// FileSubstrate serves items from memory and persists them as a
// zstd-compressed JSON object. Writes only mark the substrate dirty; Flush
// writes the snapshot atomically.
type FileSubstrate struct {
	*MemorySubstrate
	path       string
	dirty      atomic.Bool
	compressor Compressor
	logger     providers.Logger
}

func NewFileSubstrate(path string, quota int, compressor Compressor, logger providers.Logger) (*FileSubstrate, error) {
	fs := &FileSubstrate{
		MemorySubstrate: NewMemorySubstrate(quota),
		path:            path,
		compressor:      compressor,
		logger:          logger,
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileSubstrate) SetItem(key, value string) error {
	if err := f.MemorySubstrate.SetItem(key, value); err != nil {
		return err
	}
	f.dirty.Store(true)
	return nil
}

func (f *FileSubstrate) RemoveItem(key string) error {
	if err := f.MemorySubstrate.RemoveItem(key); err != nil {
		return err
	}
	f.dirty.Store(true)
	return nil
}

// Flush writes the current snapshot if anything changed since the last flush.
func (f *FileSubstrate) Flush() error {
	if !f.dirty.Swap(false) {
		return nil
	}
	if err := f.save(); err != nil {
		f.dirty.Store(true)
		return err
	}
	return nil
}

func (f *FileSubstrate) Close() error {
	err := f.Flush()
	f.compressor.Close()
	return err
}

func (f *FileSubstrate) save() error {
	jsonData, err := json.Marshal(f.snapshot())
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

func (f *FileSubstrate) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	items := make(map[string]string)
	decompressed, err := f.compressor.Decompress(data)
	if err == nil {
		if err := json.Unmarshal(decompressed, &items); err != nil {
			return err
		}
		f.replace(items)
		return nil
	}

	// Hand-edited or older snapshots may be plain JSON.
	f.logger.Warnf(providers.TypeStorage, "Snapshot %s is not compressed, trying plain JSON", f.path)
	if err := json.Unmarshal(data, &items); err != nil {
		f.logger.Errorf(providers.TypeStorage, "Snapshot %s is unreadable: %s", f.path, err)
		return err
	}
	f.replace(items)
	f.dirty.Store(true)
	return nil
}
