// Package aggregate reduces raw pitch events to per-pitch-type statistics.
package aggregate

import (
	"math"
	"sort"

	"github.com/yardwatch/engine/internal/domain/model"
	"github.com/yardwatch/engine/internal/domain/pitchtype"
)

// Role selects the perspective a set of events is aggregated from.
// The arithmetic is identical for both; the role picks the default
// minimum sample and how run value is read (negative favors the
// pitcher, positive favors the batter).
type Role string

const (
	RolePitcher Role = "pitcher"
	RoleBatter  Role = "batter"
)

// Default minimum samples per pitch type before a group is reported.
const (
	DefaultPitcherMinPitches = 50
	DefaultBatterMinPitches  = 20
)

// MinPitches returns the default minimum sample for the role.
func (r Role) MinPitches() int {
	if r == RoleBatter {
		return DefaultBatterMinPitches
	}
	return DefaultPitcherMinPitches
}

// Stats holds the derived statistics for one (player, pitch type) pair.
// All rate fields carry their final rounding: usage and whiff to one
// decimal (percent), run values to two, BA/SLG to three, HR rate to four.
type Stats struct {
	PitchType      string  `json:"pitch_type"`
	PitchName      string  `json:"pitch_name"`
	Count          int     `json:"count"`
	UsagePct       float64 `json:"usage_pct"`
	RunValue       float64 `json:"run_value"`
	RunValuePer100 float64 `json:"run_value_per_100"`
	BattingAvg     float64 `json:"batting_avg"`
	SlugPct        float64 `json:"slg_pct"`
	WhiffPct       float64 `json:"whiff_pct"`
	HRRate         float64 `json:"hr_rate"`
}

// bucket accumulates raw counts for one pitch type.
type bucket struct {
	count      int
	runValue   float64
	atBats     int
	hits       int
	totalBases int
	swings     int
	whiffs     int
	homeRuns   int
}

// Aggregate groups events by pitch type and derives rate statistics for
// every group with at least minPitches events. Events without a pitch
// classification are excluded before grouping. minPitches <= 0 selects
// the role default.
//
// Ordering: pitcher aggregates sort by usage share descending, batter
// aggregates by raw pitch count descending; ties break on pitch code so
// output is deterministic regardless of input order. The differing
// primary keys match what existing consumers of the two feeds expect.
func Aggregate(events []model.PitchEvent, role Role, minPitches int) []Stats {
	if minPitches <= 0 {
		minPitches = role.MinPitches()
	}

	buckets := make(map[string]*bucket)
	total := 0
	for i := range events {
		e := &events[i]
		if e.PitchType == "" {
			continue
		}
		total++
		b := buckets[e.PitchType]
		if b == nil {
			b = &bucket{}
			buckets[e.PitchType] = b
		}
		b.count++
		b.runValue += e.DeltaRunExp
		if e.IsSwing() {
			b.swings++
		}
		if e.IsWhiff() {
			b.whiffs++
		}
		if e.IsAtBatEnd() {
			b.atBats++
			if e.IsHit() {
				b.hits++
				b.totalBases += e.TotalBases()
			}
		}
		if e.IsHomeRun() {
			b.homeRuns++
		}
	}

	if total == 0 {
		return nil
	}

	out := make([]Stats, 0, len(buckets))
	for code, b := range buckets {
		if b.count < minPitches {
			continue
		}
		out = append(out, Stats{
			PitchType:      code,
			PitchName:      pitchtype.Name(code),
			Count:          b.count,
			UsagePct:       round(float64(b.count)/float64(total)*100, 1),
			RunValue:       round(b.runValue, 2),
			RunValuePer100: round(b.runValue/float64(b.count)*100, 2),
			BattingAvg:     round(ratio(b.hits, b.atBats), 3),
			SlugPct:        round(ratio(b.totalBases, b.atBats), 3),
			WhiffPct:       round(ratio(b.whiffs, b.swings)*100, 1),
			HRRate:         round(ratio(b.homeRuns, b.count), 4),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if role == RoleBatter {
			if out[i].Count != out[j].Count {
				return out[i].Count > out[j].Count
			}
		} else if out[i].UsagePct != out[j].UsagePct {
			return out[i].UsagePct > out[j].UsagePct
		}
		return out[i].PitchType < out[j].PitchType
	})

	return out
}

// ratio divides num by den, returning 0 on a zero denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// round rounds v to the given number of decimal places. Applied exactly
// once per output field; intermediate sums stay unrounded.
func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
