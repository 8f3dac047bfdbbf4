package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/yardwatch/engine/internal/adapters/statcast"
	"github.com/yardwatch/engine/internal/domain/profile"
)

// attackPitchCandidates is how many of the most-used pitches are
// considered when picking the most exploitable one.
const attackPitchCandidates = 2

// PitchersHandler serves pitcher profile endpoints.
type PitchersHandler struct {
	profiles ProfileSource
	identity Identity
}

// NewPitchersHandler creates a pitchers handler.
func NewPitchersHandler(profiles ProfileSource, identity Identity) *PitchersHandler {
	return &PitchersHandler{profiles: profiles, identity: identity}
}

// HandleGet serves GET /api/pitchers/{id} and
// GET /api/pitchers/{id}/attack-pitch.
func (h *PitchersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/pitchers/")
	idPart, sub, _ := strings.Cut(rest, "/")
	pitcherID, err := strconv.Atoi(idPart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "pitcher id must be an integer")
		return
	}

	season := seasonParam(r)
	p, err := h.profiles.PitcherProfile(r.Context(), pitcherID, season)
	if err != nil {
		writeProviderError(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "not_found",
			fmt.Sprintf("pitcher %d has no data for %d", pitcherID, h.profiles.Season(season)))
		return
	}

	// Overlay identity from the authoritative source; the cached
	// profile keeps its best-effort metadata untouched.
	if info, ierr := h.identity.Player(r.Context(), pitcherID); ierr == nil {
		p = p.WithIdentity(info.Name, info.Team, info.Throws)
	}

	switch sub {
	case "":
		writeJSON(w, http.StatusOK, p)
	case "attack-pitch":
		h.writeAttackPitch(w, pitcherID, p)
	default:
		writeError(w, http.StatusNotFound, "not_found", "")
	}
}

// writeAttackPitch picks the most exploitable pitch: among the top
// most-used pitch types, the one with the worst run value per 100.
func (h *PitchersHandler) writeAttackPitch(w http.ResponseWriter, pitcherID int, p *profile.PitcherProfile) {
	if len(p.Pitches) == 0 {
		writeError(w, http.StatusNotFound, "not_found", "no qualifying pitch data")
		return
	}

	// Pitches are already sorted by usage descending.
	top := p.Pitches
	if len(top) > attackPitchCandidates {
		top = top[:attackPitchCandidates]
	}
	attack := top[0]
	for _, cand := range top[1:] {
		if cand.RunValuePer100 < attack.RunValuePer100 {
			attack = cand
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pitcher_id":        pitcherID,
		"pitcher_name":      p.Name,
		"attack_pitch":      attack.PitchType,
		"attack_pitch_name": attack.PitchName,
		"usage_pct":         attack.UsagePct,
		"run_value":         attack.RunValue,
		"run_value_per_100": attack.RunValuePer100,
		"hr_rate":           attack.HRRate,
	})
}

// BattersHandler serves batter profile endpoints.
type BattersHandler struct {
	profiles ProfileSource
	identity Identity
}

// NewBattersHandler creates a batters handler.
func NewBattersHandler(profiles ProfileSource, identity Identity) *BattersHandler {
	return &BattersHandler{profiles: profiles, identity: identity}
}

// HandleGet serves GET /api/batters/{id}.
func (h *BattersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	idPart := strings.TrimPrefix(r.URL.Path, "/api/batters/")
	batterID, err := strconv.Atoi(idPart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "batter id must be an integer")
		return
	}

	season := seasonParam(r)
	p, err := h.profiles.BatterProfile(r.Context(), batterID, season)
	if err != nil {
		writeProviderError(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "not_found",
			fmt.Sprintf("batter %d has no data for %d", batterID, h.profiles.Season(season)))
		return
	}

	if info, ierr := h.identity.Player(r.Context(), batterID); ierr == nil {
		p = p.WithIdentity(info.Name, info.Team, info.Bats)
	}
	writeJSON(w, http.StatusOK, p)
}

// batchRequest mirrors the POST /api/batters/batch body.
type batchRequest struct {
	BatterIDs []int `json:"batter_ids"`
	Season    int   `json:"season"`
}

// HandleBatch serves POST /api/batters/batch: profiles for a whole
// lineup in one call. Batters with no data are omitted.
func (h *BattersHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if len(req.BatterIDs) == 0 {
		writeJSON(w, http.StatusOK, []*profile.BatterProfile{})
		return
	}

	profiles := h.profiles.BatterProfiles(r.Context(), req.BatterIDs, req.Season)
	if len(profiles) == 0 {
		writeJSON(w, http.StatusOK, profiles)
		return
	}

	// One identity call for the whole batch.
	ids := make([]int, len(profiles))
	for i, p := range profiles {
		ids[i] = p.BatterID
	}
	if infos, err := h.identity.Players(r.Context(), ids); err == nil {
		enriched := make([]*profile.BatterProfile, len(profiles))
		for i, p := range profiles {
			info := infos[p.BatterID]
			enriched[i] = p.WithIdentity(info.Name, info.Team, info.Bats)
		}
		profiles = enriched
	}

	writeJSON(w, http.StatusOK, profiles)
}

// seasonParam reads the optional season query parameter; 0 lets the
// engine substitute its default season.
func seasonParam(r *http.Request) int {
	v := r.URL.Query().Get("season")
	if v == "" {
		return 0
	}
	season, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return season
}

// writeProviderError maps engine failures to response codes: an
// unavailable provider is a bad gateway, everything else is internal.
func writeProviderError(w http.ResponseWriter, err error) {
	if errors.Is(err, statcast.ErrUnavailable) {
		writeError(w, http.StatusBadGateway, "provider_unavailable", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}
