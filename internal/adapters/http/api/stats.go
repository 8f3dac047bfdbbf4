package api

import "net/http"

// StatsHandler exposes engine cache statistics for operators.
type StatsHandler struct {
	profiles ProfileSource
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(profiles ProfileSource) *StatsHandler {
	return &StatsHandler{profiles: profiles}
}

// HandleStats serves GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, h.profiles.GetStats())
}
