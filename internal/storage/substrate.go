package storage

import (
	"errors"
	"sort"
	"sync"
)

// ErrQuotaExceeded is returned by substrates that enforce a size budget.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Substrate is a synchronous string-keyed storage backend shared by every
// consumer in the process. Absent keys are reported with ok == false and a nil error.
type Substrate interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Keys() ([]string, error)
}

// Flusher is implemented by substrates that buffer writes in memory.
type Flusher interface {
	Flush() error
}

// MemorySubstrate keeps items in a map. A positive quota caps the summed
// length of keys and values.
type MemorySubstrate struct {
	mu    sync.RWMutex
	items map[string]string
	size  int
	quota int
}

func NewMemorySubstrate(quota int) *MemorySubstrate {
	return &MemorySubstrate{
		items: make(map[string]string),
		quota: quota,
	}
}

func (m *MemorySubstrate) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemorySubstrate) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := m.size + len(value)
	if old, ok := m.items[key]; ok {
		size -= len(old)
	} else {
		size += len(key)
	}
	if m.quota > 0 && size > m.quota {
		return ErrQuotaExceeded
	}
	m.items[key] = value
	m.size = size
	return nil
}

func (m *MemorySubstrate) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.items[key]; ok {
		m.size -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}

func (m *MemorySubstrate) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// snapshot copies the current items.
func (m *MemorySubstrate) snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

// replace swaps in a full item set, ignoring the quota.
func (m *MemorySubstrate) replace(items map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	m.size = 0
	for k, v := range items {
		m.size += len(k) + len(v)
	}
}
