package services

import (
	"fmt"
	"testing"
	"time"

	"ghexplorer/internal/github"
	"ghexplorer/internal/models"
	"ghexplorer/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistory(t *testing.T) (*HistoryService, *storage.Store, *time.Time) {
	t.Helper()
	store := newMemoryStore()
	hs := NewHistoryService(store)
	now := time.UnixMilli(1_700_000_000_000)
	hs.now = func() time.Time { return now }
	return hs, store, &now
}

func TestHistoryService_CapAndOrdering(t *testing.T) {
	hs, _, now := newHistory(t)

	for i := 0; i < 12; i++ {
		*now = now.Add(time.Second)
		require.True(t, hs.Add(fmt.Sprintf("user%d", i), nil))
	}

	queries := hs.Queries()
	require.Len(t, queries, MaxHistoryItems)
	assert.Equal(t, "user11", queries[0])
	assert.Equal(t, "user2", queries[9])
}

func TestHistoryService_RepeatMovesToFront(t *testing.T) {
	hs, _, now := newHistory(t)
	require.True(t, hs.Add("a", nil))
	require.True(t, hs.Add("b", nil))
	require.True(t, hs.Add("c", nil))

	*now = now.Add(time.Minute)
	require.True(t, hs.Add("a", nil))

	assert.Equal(t, []string{"a", "c", "b"}, hs.Queries())
	assert.Equal(t, now.UnixMilli(), hs.List()[0].Timestamp)
}

func TestHistoryService_StoresUserSummary(t *testing.T) {
	hs, _, _ := newHistory(t)
	require.True(t, hs.Add(" octocat ", &github.User{Login: "octocat", AvatarURL: "https://avatar", Followers: 10}))

	list := hs.List()
	require.Len(t, list, 1)
	assert.Equal(t, "octocat", list[0].Query)
	assert.Equal(t, "https://avatar", list[0].AvatarURL)
	require.NotNil(t, list[0].UserData)
	assert.Equal(t, 10, list[0].UserData.Followers)
}

func TestHistoryService_RejectsBlankQuery(t *testing.T) {
	hs, _, _ := newHistory(t)
	assert.False(t, hs.Add("   ", nil))
	assert.Empty(t, hs.List())
}

func TestHistoryService_FiltersInvalidEntries(t *testing.T) {
	hs, store, _ := newHistory(t)
	require.True(t, storage.Set(store, storage.SearchHistoryKey, []models.SearchHistoryEntry{
		{Query: "ok", Timestamp: 1},
		{Query: "", Timestamp: 1},
		{Query: "zero-ts"},
	}))

	assert.Equal(t, []string{"ok"}, hs.Queries())
}

func TestHistoryService_RemoveAndClear(t *testing.T) {
	hs, _, _ := newHistory(t)
	require.True(t, hs.Add("a", nil))
	require.True(t, hs.Add("b", nil))

	assert.True(t, hs.Remove("a"))
	assert.False(t, hs.Remove("missing"))
	assert.Equal(t, []string{"b"}, hs.Queries())

	assert.True(t, hs.Clear())
	assert.Empty(t, hs.Queries())
}

func TestHistoryService_RemoveMatchesTrimmedQuery(t *testing.T) {
	hs, _, _ := newHistory(t)
	require.True(t, hs.Add("  octocat ", nil))
	require.Equal(t, []string{"octocat"}, hs.Queries())

	assert.True(t, hs.Remove(" octocat  "))
	assert.Empty(t, hs.Queries())
}
