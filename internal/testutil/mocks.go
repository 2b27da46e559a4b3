package testutil

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"ghexplorer/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu              sync.Mutex
	CacheHits       int
	CacheMisses     int
	ListFetches     map[string]int
	ListErrors      map[string]int // key: "resource:code"
	ListCoalesced   map[string]int
	StorageFailures map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		ListFetches:     make(map[string]int),
		ListErrors:      make(map[string]int),
		ListCoalesced:   make(map[string]int),
		StorageFailures: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveUpstreamDuration(_ time.Duration)          {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncListFetches(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListFetches[resource]++
}

func (m *MockMetrics) IncListFetchErrors(resource, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListErrors[resource+":"+code]++
}

func (m *MockMetrics) IncListCoalesced(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCoalesced[resource]++
}

func (m *MockMetrics) IncStorageFailures(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageFailures[op]++
}

func (m *MockMetrics) Failures(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StorageFailures[op]
}

func (m *MockMetrics) Fetches(resource string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListFetches[resource]
}

func (m *MockMetrics) Coalesced(resource string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCoalesced[resource]
}

func (m *MockMetrics) FetchErrors(resource, code string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListErrors[resource+":"+code]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
}

// MockCompressor implements storage.Compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

var ErrSubstrate = errors.New("substrate failure")

// FlakySubstrate is a map-backed storage.Substrate whose operations can be
// switched to fail individually.
type FlakySubstrate struct {
	mu         sync.Mutex
	Items      map[string]string
	FailGet    bool
	FailSet    bool
	FailRemove bool
	FailKeys   bool
	// FailSetKey makes SetItem fail only for keys containing this substring.
	FailSetKey string
}

func NewFlakySubstrate() *FlakySubstrate {
	return &FlakySubstrate{Items: make(map[string]string)}
}

func (f *FlakySubstrate) GetItem(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailGet {
		return "", false, ErrSubstrate
	}
	v, ok := f.Items[key]
	return v, ok, nil
}

func (f *FlakySubstrate) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSet || (f.FailSetKey != "" && strings.Contains(key, f.FailSetKey)) {
		return ErrSubstrate
	}
	f.Items[key] = value
	return nil
}

func (f *FlakySubstrate) RemoveItem(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailRemove {
		return ErrSubstrate
	}
	delete(f.Items, key)
	return nil
}

func (f *FlakySubstrate) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailKeys {
		return nil, ErrSubstrate
	}
	keys := make([]string, 0, len(f.Items))
	for k := range f.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// FakeClock is a manually advanced clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
