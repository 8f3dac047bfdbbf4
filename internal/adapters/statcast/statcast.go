// Package statcast adapts the Statcast search endpoint into the typed
// pitch-event provider the engine consumes.
package statcast

import (
	"context"
	"time"

	"github.com/yardwatch/engine/internal/domain/aggregate"
	"github.com/yardwatch/engine/internal/domain/model"
)

// Provider supplies raw pitch-event tables. Implementations may be slow
// and may fail transiently; an empty slice with a nil error means the
// player or season simply has no events in range.
type Provider interface {
	// PlayerEvents returns all pitches thrown (pitcher role) or seen
	// (batter role) by one player between start and end inclusive.
	PlayerEvents(ctx context.Context, playerID int, role aggregate.Role, start, end time.Time) ([]model.PitchEvent, error)

	// SeasonEvents returns every recorded pitch between start and end.
	SeasonEvents(ctx context.Context, start, end time.Time) ([]model.PitchEvent, error)
}

// SeasonRange returns the date window for a season: spring training
// through the end of the World Series, with the end clipped to now for
// a season still in progress.
func SeasonRange(season int, now time.Time) (start, end time.Time) {
	start = time.Date(season, time.March, 20, 0, 0, 0, 0, time.UTC)
	end = time.Date(season, time.November, 5, 0, 0, 0, 0, time.UTC)
	if season == now.Year() && now.Before(end) {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return start, end
}
