// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yardwatch/engine/internal/adapters/mlb"
	"github.com/yardwatch/engine/internal/domain/profile"
)

// ProfileSource is the engine surface the HTTP layer depends on.
// A nil profile with a nil error means the player has no data.
type ProfileSource interface {
	PitcherProfile(ctx context.Context, pitcherID, season int) (*profile.PitcherProfile, error)
	BatterProfile(ctx context.Context, batterID, season int) (*profile.BatterProfile, error)
	PitcherProfiles(ctx context.Context, pitcherIDs []int, season int) []*profile.PitcherProfile
	BatterProfiles(ctx context.Context, batterIDs []int, season int) []*profile.BatterProfile
	Season(season int) int
	GetStats() map[string]interface{}
}

// Identity is the authoritative player/schedule source used to overlay
// profile metadata and serve game endpoints.
type Identity interface {
	Player(ctx context.Context, playerID int) (mlb.PlayerInfo, error)
	Players(ctx context.Context, playerIDs []int) (map[int]mlb.PlayerInfo, error)
	SearchPlayers(ctx context.Context, query string) ([]mlb.PlayerInfo, error)
	Schedule(ctx context.Context, date time.Time) ([]mlb.GameSummary, error)
	GameLineups(ctx context.Context, gameID string) (*mlb.Game, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	pitchers *PitchersHandler
	batters  *BattersHandler
	games    *GamesHandler
	health   *HealthHandler
	stats    *StatsHandler
}

// NewServer creates an API server with all handlers.
func NewServer(profiles ProfileSource, identity Identity) *Server {
	return &Server{
		pitchers: NewPitchersHandler(profiles, identity),
		batters:  NewBattersHandler(profiles, identity),
		games:    NewGamesHandler(identity),
		health:   NewHealthHandler(),
		stats:    NewStatsHandler(profiles),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", Instrument(s.health.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", Instrument(s.stats.HandleStats, "stats"))
	mux.HandleFunc("/api/pitchers/", Instrument(s.pitchers.HandleGet, "pitchers"))
	mux.HandleFunc("/api/batters/batch", Instrument(s.batters.HandleBatch, "batters_batch"))
	mux.HandleFunc("/api/batters/", Instrument(s.batters.HandleGet, "batters"))
	mux.HandleFunc("/api/games", Instrument(s.games.HandleSchedule, "games"))
	mux.HandleFunc("/api/games/", Instrument(s.games.HandleLineups, "lineups"))
	mux.HandleFunc("/api/players/search", Instrument(s.games.HandleSearch, "player_search"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
