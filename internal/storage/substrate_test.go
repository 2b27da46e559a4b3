package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ghexplorer/internal/structures"
	"ghexplorer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySubstrate_Basics(t *testing.T) {
	m := NewMemorySubstrate(0)
	require.NoError(t, m.SetItem("b", "2"))
	require.NoError(t, m.SetItem("a", "1"))

	v, ok, err := m.GetItem("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	keys, _ := m.Keys()
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, m.RemoveItem("a"))
	require.NoError(t, m.RemoveItem("a"))
	_, ok, _ = m.GetItem("a")
	assert.False(t, ok)
}

func TestMemorySubstrate_Quota(t *testing.T) {
	m := NewMemorySubstrate(10)
	require.NoError(t, m.SetItem("k", "12345"))
	require.NoError(t, m.SetItem("k", "123456789"), "overwrite accounts for the old value")
	assert.ErrorIs(t, m.SetItem("x", "1"), ErrQuotaExceeded)

	require.NoError(t, m.RemoveItem("k"))
	assert.NoError(t, m.SetItem("x", "1"))
}

func TestFileSubstrate_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "store.zst")
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)

	fs, err := NewFileSubstrate(path, 0, compressor, &testutil.MockLogger{})
	require.NoError(t, err)

	require.NoError(t, fs.Flush())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "clean substrate writes nothing")

	require.NoError(t, fs.SetItem("k", "v"))
	require.NoError(t, fs.SetItem("gone", "x"))
	require.NoError(t, fs.RemoveItem("gone"))
	require.NoError(t, fs.Close())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	compressor2, err := NewZstdCompressor()
	require.NoError(t, err)
	reopened, err := NewFileSubstrate(path, 0, compressor2, &testutil.MockLogger{})
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.GetItem("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	keys, _ := reopened.Keys()
	assert.Equal(t, []string{"k"}, keys)
}

func TestFileSubstrate_FlushFailureKeepsDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.zst")
	compressor := &testutil.MockCompressor{CompressFn: func([]byte) ([]byte, error) {
		return nil, errors.New("compress failed")
	}}
	fs, err := NewFileSubstrate(path, 0, compressor, &testutil.MockLogger{})
	require.NoError(t, err)

	require.NoError(t, fs.SetItem("k", "v"))
	assert.Error(t, fs.Flush())

	compressor.CompressFn = nil
	require.NoError(t, fs.Flush())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileSubstrate_LoadsPlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"k":"v"}`), 0o644))

	compressor := &testutil.MockCompressor{DecompressFn: func([]byte) ([]byte, error) {
		return nil, errors.New("not zstd")
	}}
	logger := &testutil.MockLogger{}
	fs, err := NewFileSubstrate(path, 0, compressor, logger)
	require.NoError(t, err)

	v, ok, _ := fs.GetItem("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestFileSubstrate_UnreadableSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	compressor := &testutil.MockCompressor{DecompressFn: func([]byte) ([]byte, error) {
		return nil, errors.New("not zstd")
	}}
	_, err := NewFileSubstrate(path, 0, compressor, &testutil.MockLogger{})
	assert.Error(t, err)
}

func TestBoltSubstrate_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	bs, err := NewBoltSubstrate(path)
	require.NoError(t, err)

	require.NoError(t, bs.SetItem("b", "2"))
	require.NoError(t, bs.SetItem("a", "1"))
	require.NoError(t, bs.SetItem("a", "updated"))
	require.NoError(t, bs.RemoveItem("b"))
	require.NoError(t, bs.RemoveItem("missing"))
	require.NoError(t, bs.Close())

	bs, err = NewBoltSubstrate(path)
	require.NoError(t, err)
	defer bs.Close()

	v, ok, err := bs.GetItem("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "updated", v)

	_, ok, err = bs.GetItem("b")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := bs.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)
}

func TestBoltSubstrate_RequiresPath(t *testing.T) {
	_, err := NewBoltSubstrate(" ")
	assert.Error(t, err)
}

func TestSQLiteSubstrate_Basics(t *testing.T) {
	ss, err := NewSQLiteSubstrate(":memory:")
	require.NoError(t, err)
	defer ss.Close()

	require.NoError(t, ss.SetItem("b", "2"))
	require.NoError(t, ss.SetItem("a", "1"))
	require.NoError(t, ss.SetItem("a", "updated"))

	v, ok, err := ss.GetItem("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "updated", v)

	keys, err := ss.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, ss.RemoveItem("a"))
	_, ok, err = ss.GetItem("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_OverEverySubstrate(t *testing.T) {
	dir := t.TempDir()
	logger := &testutil.MockLogger{}
	tests := []struct {
		driver string
		path   string
	}{
		{driver: "memory"},
		{driver: "file", path: filepath.Join(dir, "store.zst")},
		{driver: "bolt", path: filepath.Join(dir, "store.db")},
		{driver: "sqlite", path: filepath.Join(dir, "store.sqlite")},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			conf := &structures.Config{Storage: structures.StorageConfig{Driver: tt.driver, Path: tt.path, Prefix: "test"}}
			sub, cleanup, err := NewSubstrate(conf, logger)
			require.NoError(t, err)
			defer cleanup()

			s := NewStore(conf, sub, logger, testutil.NewMockMetrics())
			require.False(t, s.Degraded())
			require.True(t, s.RunMigrations(t.Context()))

			in := profile{Login: "octocat", Followers: 3}
			require.True(t, Set(s, "profile", in))
			assert.Equal(t, in, Get(s, "profile", profile{}))
			assert.NoError(t, s.Flush())

			assert.True(t, s.ResetAll())
			assert.Equal(t, profile{}, Get(s, "profile", profile{}))
		})
	}
}

func TestNewSubstrate_UnknownDriver(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{Driver: "redis"}}
	_, _, err := NewSubstrate(conf, &testutil.MockLogger{})
	assert.Error(t, err)
}

func TestOpen_FallsBackWhenSubstrateFails(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{Driver: "bolt", Path: " ", Prefix: "test"}}
	logger := &testutil.MockLogger{}

	s, cleanup := Open(conf, logger, testutil.NewMockMetrics())
	defer cleanup()

	assert.True(t, s.Degraded())
	assert.True(t, s.IsAvailable())
	assert.Equal(t, 1, logger.Count("error"))
	assert.True(t, Set(s, "k", 1))
}

func TestOpen_Memory(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{Driver: "memory", Prefix: "test"}}
	s, cleanup := Open(conf, &testutil.MockLogger{}, testutil.NewMockMetrics())
	defer cleanup()
	assert.False(t, s.Degraded())
}
