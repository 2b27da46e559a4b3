package services

import (
	"sync"

	"ghexplorer/internal/models"
	"ghexplorer/internal/storage"
)

type WatchlistServiceInterface interface {
	List() []models.WatchedUser
	Add(u models.WatchedUser) bool
	Update(u models.WatchedUser) bool
	Remove(id int64) bool
	Contains(id int64) bool
	Clear() bool
}

// WatchlistService keeps watched users in insertion order, unique by id.
// Mutators report whether the list changed and was persisted.
type WatchlistService struct {
	mu    sync.Mutex
	store *storage.Store
}

func NewWatchlistService(store *storage.Store) *WatchlistService {
	return &WatchlistService{store: store}
}

func (ws *WatchlistService) load() []models.WatchedUser {
	return storage.Get(ws.store, storage.WatchlistKey, []models.WatchedUser{})
}

func (ws *WatchlistService) save(list []models.WatchedUser) bool {
	return storage.Set(ws.store, storage.WatchlistKey, list)
}

func (ws *WatchlistService) List() []models.WatchedUser {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.load()
}

func (ws *WatchlistService) Add(u models.WatchedUser) bool {
	if u.ID == 0 {
		return false
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	list := ws.load()
	for _, w := range list {
		if w.ID == u.ID {
			return false
		}
	}
	return ws.save(append(list, u))
}

// Update replaces the snapshot of an already watched user in place.
func (ws *WatchlistService) Update(u models.WatchedUser) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	list := ws.load()
	for i := range list {
		if list[i].ID == u.ID {
			list[i] = u
			return ws.save(list)
		}
	}
	return false
}

func (ws *WatchlistService) Remove(id int64) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	list := ws.load()
	out := list[:0]
	for _, w := range list {
		if w.ID != id {
			out = append(out, w)
		}
	}
	if len(out) == len(list) {
		return false
	}
	return ws.save(out)
}

func (ws *WatchlistService) Contains(id int64) bool {
	for _, w := range ws.List() {
		if w.ID == id {
			return true
		}
	}
	return false
}

func (ws *WatchlistService) Clear() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.save([]models.WatchedUser{})
}
