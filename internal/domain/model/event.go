// Package model contains domain models passed between layers.
package model

import "time"

// PitchEvent is one recorded pitch with its outcome and situational
// context. Rows are validated once at the provider boundary: columns
// missing from the upstream table arrive here as zero values, so every
// field is safe to read without further guarding.
type PitchEvent struct {
	PitchType   string    // Statcast pitch code, e.g. "FF"; empty when unclassified
	Description string    // per-pitch outcome, e.g. "swinging_strike", "ball"
	Event       string    // plate-appearance terminal event; empty mid-PA
	DeltaRunExp float64   // run expectancy change attributed to the pitch
	GameDate    time.Time // date of the game the pitch was thrown in
	PitcherID   int
	BatterID    int
	PlayerName  string // upstream's player_name column (the pitcher's name)
	HomeTeam    string
	AwayTeam    string
	InningTopBot string // "Top" (away batting) or "Bot" (home batting)
	Stand        string // batter stance, "L" or "R"
	PThrows      string // pitcher hand, "L" or "R"
}

// Swing descriptions. Fouls and balls put in play count as swings.
var swingDescriptions = map[string]struct{}{
	"swinging_strike":         {},
	"swinging_strike_blocked": {},
	"foul":                    {},
	"foul_tip":                {},
	"hit_into_play":           {},
	"hit_into_play_score":     {},
	"hit_into_play_no_out":    {},
}

var whiffDescriptions = map[string]struct{}{
	"swinging_strike":         {},
	"swinging_strike_blocked": {},
}

// At-bat terminal events: the closed list of plate-appearance endings
// that count toward the batting-average denominator. Walks, hit-by-pitch
// and non-fly sacrifices are deliberately absent.
var atBatEvents = map[string]struct{}{
	"single":                    {},
	"double":                    {},
	"triple":                    {},
	"home_run":                  {},
	"strikeout":                 {},
	"field_out":                 {},
	"grounded_into_double_play": {},
	"force_out":                 {},
	"fielders_choice":           {},
	"fielders_choice_out":       {},
	"double_play":               {},
	"triple_play":               {},
	"sac_fly":                   {},
	"field_error":               {},
}

// IsSwing reports whether the pitch was swung at.
func (e *PitchEvent) IsSwing() bool {
	_, ok := swingDescriptions[e.Description]
	return ok
}

// IsWhiff reports whether the pitch was swung at and missed.
func (e *PitchEvent) IsWhiff() bool {
	_, ok := whiffDescriptions[e.Description]
	return ok
}

// IsAtBatEnd reports whether the pitch ended a plate appearance with an
// at-bat terminal event.
func (e *PitchEvent) IsAtBatEnd() bool {
	_, ok := atBatEvents[e.Event]
	return ok
}

// TotalBases returns the bases credited for the pitch's terminal event,
// or 0 when it was not a hit.
func (e *PitchEvent) TotalBases() int {
	switch e.Event {
	case "single":
		return 1
	case "double":
		return 2
	case "triple":
		return 3
	case "home_run":
		return 4
	default:
		return 0
	}
}

// IsHit reports whether the terminal event was a base hit.
func (e *PitchEvent) IsHit() bool {
	return e.TotalBases() > 0
}

// IsHomeRun reports whether the terminal event was a home run.
func (e *PitchEvent) IsHomeRun() bool {
	return e.Event == "home_run"
}
