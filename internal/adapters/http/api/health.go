package api

import (
	"net/http"
	"time"
)

// HealthHandler reports process liveness.
type HealthHandler struct {
	started time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

// HandleHealth serves GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}
