package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ghexplorer/internal/storage"
	"ghexplorer/internal/structures"
	"ghexplorer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_ReturnsOK(t *testing.T) {
	store := storage.New(storage.NewMemorySubstrate(0), "test", &testutil.MockLogger{}, testutil.NewMockMetrics())
	hc := NewHealthController(store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "uptime")
	assert.Contains(t, resp, "uptime_seconds")
	assert.Equal(t, true, resp["storage_available"])
	assert.Equal(t, float64(0), resp["migration_version"])
}

func TestHealth_Degraded(t *testing.T) {
	sub := testutil.NewFlakySubstrate()
	sub.FailSet = true
	conf := &structures.Config{Storage: structures.StorageConfig{Driver: "bolt", Prefix: "test"}}
	store := storage.NewStore(conf, sub, &testutil.MockLogger{}, testutil.NewMockMetrics())
	hc := NewHealthController(store)

	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	assert.Equal(t, true, resp["storage_degraded"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(storage.New(storage.NewMemorySubstrate(0), "test", &testutil.MockLogger{}, testutil.NewMockMetrics()))

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h2m3s", formatDuration(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "0h0m0s", formatDuration(0))
}
