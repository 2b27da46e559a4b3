package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "ghexplorer/internal/errors"
	"ghexplorer/internal/github"
	"ghexplorer/internal/models"
	"ghexplorer/internal/services"
	"ghexplorer/internal/storage"
	"ghexplorer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLibrary(ex *mockExplorer) (*LibraryController, *services.WatchlistService, *services.HistoryService, *storage.Store) {
	store := storage.New(storage.NewMemorySubstrate(0), "test", &testutil.MockLogger{}, testutil.NewMockMetrics())
	wl := services.NewWatchlistService(store)
	hs := services.NewHistoryService(store)
	return NewLibraryController(&mockLogger{}, wl, hs, ex, store), wl, hs, store
}

func send(method, target, body string, pathValues map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}

func TestAddToWatchlist_ByLogin(t *testing.T) {
	ex := &mockExplorer{user: &github.User{Login: "octocat", ID: 42, Followers: 10}}
	lc, wl, _, _ := newLibrary(ex)

	rr := httptest.NewRecorder()
	lc.AddToWatchlist(rr, send(http.MethodPost, "/watchlist", `{"login":"octocat"}`, nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "octocat", ex.lastLogin)
	require.Len(t, wl.List(), 1)
	assert.Equal(t, 10, wl.List()[0].Followers)

	rr = httptest.NewRecorder()
	lc.AddToWatchlist(rr, send(http.MethodPost, "/watchlist", `{"user":{"id":42,"login":"octocat"}}`, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"changed":false}`, rr.Body.String())
}

func TestAddToWatchlist_BadRequests(t *testing.T) {
	lc, _, _, _ := newLibrary(&mockExplorer{})

	rr := httptest.NewRecorder()
	lc.AddToWatchlist(rr, send(http.MethodPost, "/watchlist", `{not json`, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	lc.AddToWatchlist(rr, send(http.MethodPost, "/watchlist", `{}`, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAddToWatchlist_UnknownUser(t *testing.T) {
	lc, wl, _, _ := newLibrary(&mockExplorer{userErr: apperrors.New(apperrors.CodeFetchNotFound, "Not Found")})

	rr := httptest.NewRecorder()
	lc.AddToWatchlist(rr, send(http.MethodPost, "/watchlist", `{"login":"ghost"}`, nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, wl.List())
}

func TestWatchlist_GetRefreshRemoveClear(t *testing.T) {
	ex := &mockExplorer{user: &github.User{Login: "octocat", ID: 42, Followers: 99}}
	lc, wl, _, _ := newLibrary(ex)
	require.True(t, wl.Add(models.WatchedUser{ID: 42, Login: "octocat", Followers: 1}))
	require.True(t, wl.Add(models.WatchedUser{ID: 7, Login: "other"}))
	id := map[string]string{"id": "42"}

	rr := httptest.NewRecorder()
	lc.GetWatched(rr, send(http.MethodGet, "/watchlist/42", "", id))
	assert.JSONEq(t, `{"watched":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	lc.RefreshWatched(rr, send(http.MethodPost, "/watchlist/42/refresh", "", id))
	assert.JSONEq(t, `{"changed":true}`, rr.Body.String())
	assert.Equal(t, 99, wl.List()[0].Followers)

	rr = httptest.NewRecorder()
	lc.RemoveFromWatchlist(rr, send(http.MethodDelete, "/watchlist/42", "", id))
	assert.JSONEq(t, `{"changed":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	lc.RemoveFromWatchlist(rr, send(http.MethodDelete, "/watchlist/abc", "", map[string]string{"id": "abc"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	lc.ClearWatchlist(rr, send(http.MethodDelete, "/watchlist", "", nil))
	assert.JSONEq(t, `{"changed":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	lc.ListWatchlist(rr, send(http.MethodGet, "/watchlist", "", nil))
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestRefreshWatched_NotWatched(t *testing.T) {
	lc, _, _, _ := newLibrary(&mockExplorer{})
	rr := httptest.NewRecorder()
	lc.RefreshWatched(rr, send(http.MethodPost, "/watchlist/5/refresh", "", map[string]string{"id": "5"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	lc, _, hs, _ := newLibrary(&mockExplorer{})

	for _, q := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		lc.AddToHistory(rr, send(http.MethodPost, "/history", `{"query":"`+q+`"}`, nil))
		assert.JSONEq(t, `{"changed":true}`, rr.Body.String())
	}
	assert.Equal(t, []string{"b", "a"}, hs.Queries())

	rr := httptest.NewRecorder()
	lc.AddToHistory(rr, send(http.MethodPost, "/history", `{"query":""}`, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	lc.DeleteHistory(rr, send(http.MethodDelete, "/history?q=a", "", nil))
	assert.Equal(t, []string{"b"}, hs.Queries())

	rr = httptest.NewRecorder()
	lc.ListHistory(rr, send(http.MethodGet, "/history", "", nil))
	assert.Contains(t, rr.Body.String(), `"query":"b"`)

	rr = httptest.NewRecorder()
	lc.DeleteHistory(rr, send(http.MethodDelete, "/history", "", nil))
	assert.Empty(t, hs.Queries())
}

func TestResetStorage(t *testing.T) {
	ex := &mockExplorer{}
	lc, wl, _, _ := newLibrary(ex)
	require.True(t, wl.Add(models.WatchedUser{ID: 1}))

	rr := httptest.NewRecorder()
	lc.ResetStorage(rr, send(http.MethodPost, "/storage/reset", "", nil))

	assert.JSONEq(t, `{"changed":true}`, rr.Body.String())
	assert.Empty(t, wl.List())
	assert.Equal(t, 1, ex.resets)
}
