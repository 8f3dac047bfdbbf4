package api

import (
	"net/http"
	"strings"
	"time"
)

const scheduleDateLayout = "2006-01-02"

// GamesHandler serves schedule, lineup and player search endpoints.
type GamesHandler struct {
	identity Identity
}

// NewGamesHandler creates a games handler.
func NewGamesHandler(identity Identity) *GamesHandler {
	return &GamesHandler{identity: identity}
}

// HandleSchedule serves GET /api/games?date=YYYY-MM-DD. Date defaults
// to today.
func (h *GamesHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse(scheduleDateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	games, err := h.identity.Schedule(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  date.Format(scheduleDateLayout),
		"games": games,
	})
}

// HandleLineups serves GET /api/games/{id}/lineups.
func (h *GamesHandler) HandleLineups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/games/")
	gameID, sub, _ := strings.Cut(rest, "/")
	if gameID == "" || sub != "lineups" {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}

	game, err := h.identity.GameLineups(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}
	if game == nil {
		writeError(w, http.StatusNotFound, "not_found", "game not found")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// HandleSearch serves GET /api/players/search?q=name.
func (h *GamesHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "q parameter is required")
		return
	}

	players, err := h.identity.SearchPlayers(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"players": players,
	})
}
