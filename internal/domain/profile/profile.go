// Package profile assembles immutable per-season player profiles from
// raw pitch events.
//
// Builders derive name, team and handedness opportunistically from the
// event rows themselves; callers holding an authoritative identity
// source are expected to overlay those fields afterwards (see
// WithIdentity). Profiles are never mutated once built — a refresh is a
// full replacement.
package profile

import (
	"github.com/yardwatch/engine/internal/domain/aggregate"
	"github.com/yardwatch/engine/internal/domain/model"
)

// PitcherProfile is a pitcher's per-pitch-type breakdown for one season.
type PitcherProfile struct {
	PitcherID    int               `json:"pitcher_id"`
	Name         string            `json:"name"`
	Team         string            `json:"team"`
	Throws       string            `json:"throws"`
	Pitches      []aggregate.Stats `json:"pitches"`
	TotalPitches int               `json:"total_pitches"`
	Season       int               `json:"season"`
}

// BatterProfile is a batter's performance against each pitch type for
// one season.
type BatterProfile struct {
	BatterID         int               `json:"batter_id"`
	Name             string            `json:"name"`
	Team             string            `json:"team"`
	Bats             string            `json:"bats"`
	VsPitchTypes     []aggregate.Stats `json:"vs_pitch_types"`
	TotalPitchesSeen int               `json:"total_pitches_seen"`
	Season           int               `json:"season"`
}

// BuildPitcher builds a pitcher profile from the season's events for one
// pitcher. Returns nil when events is empty: no data, not an error.
// TotalPitches counts every event, including those in pitch-type groups
// dropped for low sample size.
func BuildPitcher(pitcherID, season int, events []model.PitchEvent, minPitches int) *PitcherProfile {
	if len(events) == 0 {
		return nil
	}
	return &PitcherProfile{
		PitcherID:    pitcherID,
		Name:         pitcherName(events),
		Team:         modalString(events, func(e *model.PitchEvent) string { return e.HomeTeam }),
		Throws:       handedness(events, func(e *model.PitchEvent) string { return e.PThrows }),
		Pitches:      aggregate.Aggregate(events, aggregate.RolePitcher, minPitches),
		TotalPitches: len(events),
		Season:       season,
	}
}

// BuildBatter builds a batter profile from the season's events for one
// batter. Returns nil when events is empty. The upstream player_name
// column names the pitcher, so the batter's name is left as "Unknown"
// for an identity source to fill in.
func BuildBatter(batterID, season int, events []model.PitchEvent, minPitches int) *BatterProfile {
	if len(events) == 0 {
		return nil
	}
	return &BatterProfile{
		BatterID:         batterID,
		Name:             "Unknown",
		Team:             batterTeam(events),
		Bats:             handedness(events, func(e *model.PitchEvent) string { return e.Stand }),
		VsPitchTypes:     aggregate.Aggregate(events, aggregate.RoleBatter, minPitches),
		TotalPitchesSeen: len(events),
		Season:           season,
	}
}

// WithIdentity returns a copy of the profile with name, team and hand
// overlaid from an authoritative source. Empty arguments keep the
// derived value.
func (p *PitcherProfile) WithIdentity(name, team, throws string) *PitcherProfile {
	out := *p
	if name != "" {
		out.Name = name
	}
	if team != "" {
		out.Team = team
	}
	if throws != "" {
		out.Throws = throws
	}
	return &out
}

// WithIdentity returns a copy of the profile with name, team and stance
// overlaid from an authoritative source. Empty arguments keep the
// derived value.
func (p *BatterProfile) WithIdentity(name, team, bats string) *BatterProfile {
	out := *p
	if name != "" {
		out.Name = name
	}
	if team != "" {
		out.Team = team
	}
	if bats != "" {
		out.Bats = bats
	}
	return &out
}

// pitcherName takes the first non-empty player_name value.
func pitcherName(events []model.PitchEvent) string {
	for i := range events {
		if events[i].PlayerName != "" {
			return events[i].PlayerName
		}
	}
	return "Unknown"
}

// batterTeam infers the batter's team from where they batted most:
// top halves mean the away team, bottom halves the home team.
func batterTeam(events []model.PitchEvent) string {
	home, away := 0, 0
	for i := range events {
		switch events[i].InningTopBot {
		case "Bot":
			home++
		case "Top":
			away++
		}
	}
	if home > away {
		return modalString(events, func(e *model.PitchEvent) string {
			if e.InningTopBot == "Bot" {
				return e.HomeTeam
			}
			return ""
		})
	}
	return modalString(events, func(e *model.PitchEvent) string {
		if e.InningTopBot == "Top" {
			return e.AwayTeam
		}
		return ""
	})
}

// handedness returns the most frequent non-empty value, defaulting to "R".
func handedness(events []model.PitchEvent, pick func(*model.PitchEvent) string) string {
	v := modalString(events, pick)
	if v == "" {
		return "R"
	}
	return v
}

// modalString returns the most frequent non-empty value produced by
// pick, breaking ties lexicographically for determinism.
func modalString(events []model.PitchEvent, pick func(*model.PitchEvent) string) string {
	counts := make(map[string]int)
	for i := range events {
		if v := pick(&events[i]); v != "" {
			counts[v]++
		}
	}
	best, bestCount := "", 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}
