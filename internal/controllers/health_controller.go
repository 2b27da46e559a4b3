package controllers

import (
	"fmt"
	"net/http"
	"time"

	"ghexplorer/internal/storage"
)

type HealthController struct {
	store     *storage.Store
	startTime time.Time
}

type healthResponse struct {
	Status           string  `json:"status"`
	Uptime           string  `json:"uptime"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	StorageAvailable bool    `json:"storage_available"`
	StorageDegraded  bool    `json:"storage_degraded"`
	MigrationVersion int     `json:"migration_version"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:           "ok",
		Uptime:           formatDuration(uptime),
		UptimeSeconds:    uptime.Seconds(),
		StorageAvailable: hc.store.IsAvailable(),
		StorageDegraded:  hc.store.Degraded(),
		MigrationVersion: hc.store.MigrationVersion(),
	}
	if !resp.StorageAvailable || resp.StorageDegraded {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store *storage.Store) *HealthController {
	return &HealthController{
		store:     store,
		startTime: time.Now(),
	}
}
