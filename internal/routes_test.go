package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ghexplorer/internal/controllers"
	"ghexplorer/internal/github"
	"ghexplorer/internal/providers"
	"ghexplorer/internal/services"
	"ghexplorer/internal/storage"
	"ghexplorer/internal/structures"
	"ghexplorer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitHub answers the handful of upstream endpoints the routes touch.
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/users", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_count":1,"items":[{"id":1,"login":"octocat"}]}`))
	})
	mux.HandleFunc("GET /users/octocat", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"login":"octocat","followers":20}`))
	})
	mux.HandleFunc("GET /users/ghost", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestHandler(t *testing.T) (http.Handler, providers.RouterProviderInterface) {
	t.Helper()
	conf := &structures.Config{
		GitHub:  structures.GitHubConfig{BaseURL: fakeGitHub(t).URL},
		Storage: structures.StorageConfig{Driver: "memory", Prefix: "test"},
	}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()

	store := storage.New(storage.NewMemorySubstrate(0), conf.Storage.Prefix, logger, metrics)
	api := github.NewClient(conf, testutil.NewMockCache(), metrics, logger)
	explorer := services.NewExplorerService(conf, api, logger, metrics)

	ac := controllers.NewApiController(logger, explorer, services.NewCompareService(api, logger))
	lc := controllers.NewLibraryController(logger, services.NewWatchlistService(store), services.NewHistoryService(store), explorer, store)
	router := InitRoutes(ac, lc)

	return NewHandler(controllers.NewHealthController(store), conf, logger, router, metrics), router
}

func TestInitRoutes_RegistersRoutes(t *testing.T) {
	_, router := newTestHandler(t)
	routes := router.GetRoutes()

	require.Len(t, routes, 19)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}
	assert.Contains(t, urls, "GET /users/search")
	assert.Contains(t, urls, "GET /users/{login}")
	assert.Contains(t, urls, "GET /users/{login}/contributions")
	assert.Contains(t, urls, "POST /watchlist/{id}/refresh")
	assert.Contains(t, urls, "DELETE /history")
	assert.Contains(t, urls, "POST /storage/reset")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/compare", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/storage/reset", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandler_SearchIsNotALogin(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/search?q=octo", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Items   []github.User `json:"items"`
		HasMore bool          `json:"hasMore"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "octocat", body.Items[0].Login)
	assert.False(t, body.HasMore)
}

func TestHandler_UserAndNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/octocat", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(providers.RequestIDHeader))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"FETCH_NOT_FOUND"`)
}

func TestHandler_WatchlistFlow(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/watchlist", strings.NewReader(`{"login":"octocat"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/watchlist/1", nil))
	assert.JSONEq(t, `{"watched":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/storage/reset", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/watchlist/1", nil))
	assert.JSONEq(t, `{"watched":false}`, rr.Body.String())
}

func TestHandler_Health(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestHandler_MetricsDisabled(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
