package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"ghexplorer/internal/github"
	"ghexplorer/internal/models"
	"ghexplorer/internal/providers"
	"ghexplorer/internal/services"
	"ghexplorer/internal/storage"

	json "github.com/goccy/go-json"
)

// LibraryController manages the locally persisted watchlist and search history.
type LibraryController struct {
	logger    providers.Logger
	watchlist services.WatchlistServiceInterface
	history   services.HistoryServiceInterface
	explorer  services.ExplorerServiceInterface
	store     *storage.Store
}

func NewLibraryController(logger providers.Logger, watchlist services.WatchlistServiceInterface, history services.HistoryServiceInterface, explorer services.ExplorerServiceInterface, store *storage.Store) *LibraryController {
	return &LibraryController{
		logger:    logger,
		watchlist: watchlist,
		history:   history,
		explorer:  explorer,
		store:     store,
	}
}

type watchRequest struct {
	Login string              `json:"login"`
	User  *models.WatchedUser `json:"user"`
}

type historyRequest struct {
	Query string       `json:"query"`
	User  *github.User `json:"user"`
}

type changeResponse struct {
	Changed bool `json:"changed"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func watchID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (lc *LibraryController) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, lc.watchlist.List())
}

// AddToWatchlist accepts either a full snapshot or a login to look up.
func (lc *LibraryController) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req watchRequest
	if !decode(w, r, &req) {
		return
	}

	var u models.WatchedUser
	switch {
	case req.User != nil && req.User.ID != 0:
		u = *req.User
	case strings.TrimSpace(req.Login) != "":
		gu, err := lc.explorer.User(r.Context(), strings.TrimSpace(req.Login))
		if err != nil {
			writeError(w, err)
			return
		}
		u = models.NewWatchedUser(gu)
	default:
		badRequest(w, "login or user is required")
		return
	}

	if lc.watchlist.Add(u) {
		writeJSON(w, http.StatusCreated, u)
		return
	}
	writeJSON(w, http.StatusOK, changeResponse{Changed: false})
}

func (lc *LibraryController) GetWatched(w http.ResponseWriter, r *http.Request) {
	id, ok := watchID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"watched": lc.watchlist.Contains(id)})
}

// RefreshWatched replaces a watched user's snapshot with the current profile.
func (lc *LibraryController) RefreshWatched(w http.ResponseWriter, r *http.Request) {
	id, ok := watchID(w, r)
	if !ok {
		return
	}
	var current *models.WatchedUser
	for _, u := range lc.watchlist.List() {
		if u.ID == id {
			current = &u
			break
		}
	}
	if current == nil {
		writeJSON(w, http.StatusNotFound, changeResponse{Changed: false})
		return
	}
	gu, err := lc.explorer.User(r.Context(), current.Login)
	if err != nil {
		writeError(w, err)
		return
	}
	fresh := models.NewWatchedUser(gu)
	fresh.ID = id
	writeJSON(w, http.StatusOK, changeResponse{Changed: lc.watchlist.Update(fresh)})
}

func (lc *LibraryController) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	id, ok := watchID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, changeResponse{Changed: lc.watchlist.Remove(id)})
}

func (lc *LibraryController) ClearWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, changeResponse{Changed: lc.watchlist.Clear()})
}

func (lc *LibraryController) ListHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, lc.history.List())
}

func (lc *LibraryController) AddToHistory(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		badRequest(w, "query is required")
		return
	}
	writeJSON(w, http.StatusOK, changeResponse{Changed: lc.history.Add(req.Query, req.User)})
}

// DeleteHistory removes one query when q is given and clears everything otherwise.
func (lc *LibraryController) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		writeJSON(w, http.StatusOK, changeResponse{Changed: lc.history.Remove(q)})
		return
	}
	writeJSON(w, http.StatusOK, changeResponse{Changed: lc.history.Clear()})
}

// ResetStorage wipes every persisted key of this application and the list caches.
func (lc *LibraryController) ResetStorage(w http.ResponseWriter, r *http.Request) {
	ok := lc.store.ResetAll()
	lc.explorer.Reset()
	lc.logger.Infof(providers.TypeApp, "Storage reset requested, success=%t", ok)
	writeJSON(w, http.StatusOK, changeResponse{Changed: ok})
}
