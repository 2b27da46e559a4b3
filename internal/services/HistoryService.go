package services

import (
	"strings"
	"sync"
	"time"

	"ghexplorer/internal/github"
	"ghexplorer/internal/models"
	"ghexplorer/internal/storage"
)

const MaxHistoryItems = 10

type HistoryServiceInterface interface {
	List() []models.SearchHistoryEntry
	Queries() []string
	Add(query string, u *github.User) bool
	Remove(query string) bool
	Clear() bool
}

// HistoryService keeps the most recent searches, newest first. Searching a
// query again moves it to the front.
type HistoryService struct {
	mu    sync.Mutex
	store *storage.Store
	now   func() time.Time
}

func NewHistoryService(store *storage.Store) *HistoryService {
	return &HistoryService{store: store, now: time.Now}
}

// load drops entries with a blank query or an impossible timestamp.
func (hs *HistoryService) load() []models.SearchHistoryEntry {
	raw := storage.Get(hs.store, storage.SearchHistoryKey, []models.SearchHistoryEntry{})
	out := make([]models.SearchHistoryEntry, 0, len(raw))
	for _, e := range raw {
		if e.Valid() {
			out = append(out, e)
		}
	}
	return out
}

func (hs *HistoryService) List() []models.SearchHistoryEntry {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.load()
}

func (hs *HistoryService) Queries() []string {
	list := hs.List()
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Query
	}
	return out
}

func (hs *HistoryService) Add(query string, u *github.User) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()

	list := hs.load()
	next := make([]models.SearchHistoryEntry, 0, MaxHistoryItems)
	next = append(next, models.NewSearchHistoryEntry(query, u, hs.now()))
	for _, e := range list {
		if len(next) == MaxHistoryItems {
			break
		}
		if e.Query != query {
			next = append(next, e)
		}
	}
	return storage.Set(hs.store, storage.SearchHistoryKey, next)
}

func (hs *HistoryService) Remove(query string) bool {
	query = strings.TrimSpace(query)
	hs.mu.Lock()
	defer hs.mu.Unlock()

	list := hs.load()
	out := make([]models.SearchHistoryEntry, 0, len(list))
	for _, e := range list {
		if e.Query != query {
			out = append(out, e)
		}
	}
	if len(out) == len(list) {
		return false
	}
	return storage.Set(hs.store, storage.SearchHistoryKey, out)
}

func (hs *HistoryService) Clear() bool {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return storage.Set(hs.store, storage.SearchHistoryKey, []models.SearchHistoryEntry{})
}
