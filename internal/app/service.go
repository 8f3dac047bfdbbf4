// Package app provides the profile engine service that implements the
// dependencies required by the HTTP API: single and batch profile
// lookups backed by the cache layer and the data provider.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yardwatch/engine/internal/adapters/cache"
	"github.com/yardwatch/engine/internal/adapters/pool"
	"github.com/yardwatch/engine/internal/adapters/statcast"
	"github.com/yardwatch/engine/internal/domain/aggregate"
	"github.com/yardwatch/engine/internal/domain/model"
	"github.com/yardwatch/engine/internal/domain/profile"
	"github.com/yardwatch/engine/pkg/logger"
	"github.com/yardwatch/engine/pkg/metrics"
)

// Default service configuration.
const (
	defaultProfileCacheSize = 500
	defaultSeasonCacheSize  = 2
	defaultProfileTTL       = time.Hour
	defaultSeasonTTL        = 6 * time.Hour
	defaultFetchWorkers     = 3
	defaultSeason           = 2025
)

// Service implements the profile engine. All mutable shared state lives
// in the cache stores; profiles themselves are immutable once built.
type Service struct {
	mu sync.RWMutex

	provider statcast.Provider

	// Core components, created in Start.
	pitcherCache *cache.Store[*profile.PitcherProfile]
	batterCache  *cache.Store[*profile.BatterProfile]
	seasonCache  *cache.Store[[]model.PitchEvent]
	fetchPool    *pool.Pool

	// seasonFlight collapses concurrent fetches of one uncached season
	// into a single provider call.
	seasonFlight singleflight.Group

	// Configuration
	currentSeason     int
	minPitchesPitcher int
	minPitchesBatter  int
	profileCacheSize  int
	seasonCacheSize   int
	pitcherTTL        time.Duration
	batterTTL         time.Duration
	seasonTTL         time.Duration
	fetchWorkers      int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the pitch-event data provider.
func WithProvider(p statcast.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithCurrentSeason sets the season used when callers do not name one.
func WithCurrentSeason(season int) Option {
	return func(s *Service) {
		if season > 0 {
			s.currentSeason = season
		}
	}
}

// WithMinPitches sets the per-role minimum samples per pitch type.
func WithMinPitches(pitcher, batter int) Option {
	return func(s *Service) {
		if pitcher > 0 {
			s.minPitchesPitcher = pitcher
		}
		if batter > 0 {
			s.minPitchesBatter = batter
		}
	}
}

// WithProfileCacheTTLs sets the pitcher and batter profile cache TTLs.
func WithProfileCacheTTLs(pitcher, batter time.Duration) Option {
	return func(s *Service) {
		if pitcher > 0 {
			s.pitcherTTL = pitcher
		}
		if batter > 0 {
			s.batterTTL = batter
		}
	}
}

// WithSeasonCacheTTL sets the season raw-data cache TTL.
func WithSeasonCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.seasonTTL = ttl
		}
	}
}

// WithCacheSizes bounds the profile caches and the season cache.
func WithCacheSizes(profiles, seasons int) Option {
	return func(s *Service) {
		if profiles > 0 {
			s.profileCacheSize = profiles
		}
		if seasons > 0 {
			s.seasonCacheSize = seasons
		}
	}
}

// WithFetchWorkers bounds concurrent provider fetches in batch calls.
func WithFetchWorkers(workers int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.fetchWorkers = workers
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		currentSeason:     defaultSeason,
		minPitchesPitcher: aggregate.DefaultPitcherMinPitches,
		minPitchesBatter:  aggregate.DefaultBatterMinPitches,
		profileCacheSize:  defaultProfileCacheSize,
		seasonCacheSize:   defaultSeasonCacheSize,
		pitcherTTL:        defaultProfileTTL,
		batterTTL:         defaultProfileTTL,
		seasonTTL:         defaultSeasonTTL,
		fetchWorkers:      defaultFetchWorkers,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the cache stores and the fetch pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.provider == nil {
		return ErrNoProvider
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("engine")
	}

	s.pitcherCache = cache.New[*profile.PitcherProfile](
		cache.WithName("pitchers"),
		cache.WithCapacity(s.profileCacheSize),
		cache.WithTTL(s.pitcherTTL),
	)
	s.batterCache = cache.New[*profile.BatterProfile](
		cache.WithName("batters"),
		cache.WithCapacity(s.profileCacheSize),
		cache.WithTTL(s.batterTTL),
	)
	s.seasonCache = cache.New[[]model.PitchEvent](
		cache.WithName("season"),
		cache.WithCapacity(s.seasonCacheSize),
		cache.WithTTL(s.seasonTTL),
	)
	s.fetchPool = pool.New(
		pool.WithWorkers(s.fetchWorkers),
		pool.WithName("profile-fetch"),
		pool.WithLogger(s.logger.Named("fetch")),
	)

	s.started = true
	s.logger.Info(ctx, "profile engine started",
		logger.Int("fetchWorkers", s.fetchWorkers),
		logger.Int("profileCacheSize", s.profileCacheSize),
		logger.Int("currentSeason", s.currentSeason),
	)
	return nil
}

// Stop releases the service. Caches are dropped; there is nothing to
// flush since all state is recomputable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "profile engine stopped")
}

// DefaultSeason returns the season used when a request does not name one.
func (s *Service) DefaultSeason() int {
	return s.currentSeason
}

// Season normalizes a requested season, falling back to the default.
func (s *Service) Season(season int) int {
	if season > 0 {
		return season
	}
	return s.currentSeason
}

// PitcherProfile returns a pitcher's per-pitch-type profile for a
// season. A nil profile with a nil error means the pitcher has no data
// in range; errors are provider failures and propagate unchanged.
func (s *Service) PitcherProfile(ctx context.Context, pitcherID, season int) (*profile.PitcherProfile, error) {
	season = s.Season(season)
	key := pitcherKey(pitcherID, season)
	if p, ok := s.pitcherCache.Get(key); ok {
		return p, nil
	}

	p, err := s.buildPitcher(ctx, pitcherID, season)
	if err != nil {
		return nil, err
	}
	if p != nil {
		s.pitcherCache.Set(key, p)
	}
	return p, nil
}

// BatterProfile returns a batter's vs-pitch-type profile for a season.
// Same absence and error semantics as PitcherProfile.
func (s *Service) BatterProfile(ctx context.Context, batterID, season int) (*profile.BatterProfile, error) {
	season = s.Season(season)
	key := batterKey(batterID, season)
	if p, ok := s.batterCache.Get(key); ok {
		return p, nil
	}

	p, err := s.buildBatter(ctx, batterID, season)
	if err != nil {
		return nil, err
	}
	if p != nil {
		s.batterCache.Set(key, p)
	}
	return p, nil
}

// PitcherProfiles resolves many pitchers at once: cached profiles are
// returned immediately, the rest are fetched with bounded concurrency.
// Players with no data or a failed fetch are omitted; a single player's
// failure never aborts the batch.
func (s *Service) PitcherProfiles(ctx context.Context, pitcherIDs []int, season int) []*profile.PitcherProfile {
	season = s.Season(season)

	profiles := make([]*profile.PitcherProfile, 0, len(pitcherIDs))
	var missing []int
	for _, id := range pitcherIDs {
		if p, ok := s.pitcherCache.Get(pitcherKey(id, season)); ok {
			profiles = append(profiles, p)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return profiles
	}

	s.logger.Info(ctx, "batch fetching pitchers",
		logger.Int("cached", len(profiles)), logger.Int("missing", len(missing)))

	results := pool.Map(ctx, s.fetchPool, missing, func(ctx context.Context, id int) (*profile.PitcherProfile, error) {
		return s.buildPitcher(ctx, id, season)
	})
	for _, r := range results {
		switch {
		case r.Err != nil:
			metrics.RecordProfileOmitted(string(aggregate.RolePitcher), "fetch_failed")
			s.logger.Warn(ctx, "omitting pitcher from batch",
				logger.Int("pitcherID", r.Item), logger.Error(r.Err))
		case r.Value == nil:
			metrics.RecordProfileOmitted(string(aggregate.RolePitcher), "no_data")
		default:
			s.pitcherCache.Set(pitcherKey(r.Item, season), r.Value)
			profiles = append(profiles, r.Value)
		}
	}
	return profiles
}

// BatterProfiles is the batter-side batch lookup; see PitcherProfiles.
func (s *Service) BatterProfiles(ctx context.Context, batterIDs []int, season int) []*profile.BatterProfile {
	season = s.Season(season)

	profiles := make([]*profile.BatterProfile, 0, len(batterIDs))
	var missing []int
	for _, id := range batterIDs {
		if p, ok := s.batterCache.Get(batterKey(id, season)); ok {
			profiles = append(profiles, p)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return profiles
	}

	s.logger.Info(ctx, "batch fetching batters",
		logger.Int("cached", len(profiles)), logger.Int("missing", len(missing)))

	results := pool.Map(ctx, s.fetchPool, missing, func(ctx context.Context, id int) (*profile.BatterProfile, error) {
		return s.buildBatter(ctx, id, season)
	})
	for _, r := range results {
		switch {
		case r.Err != nil:
			metrics.RecordProfileOmitted(string(aggregate.RoleBatter), "fetch_failed")
			s.logger.Warn(ctx, "omitting batter from batch",
				logger.Int("batterID", r.Item), logger.Error(r.Err))
		case r.Value == nil:
			metrics.RecordProfileOmitted(string(aggregate.RoleBatter), "no_data")
		default:
			s.batterCache.Set(batterKey(r.Item, season), r.Value)
			profiles = append(profiles, r.Value)
		}
	}
	return profiles
}

// SeasonEvents returns the full raw pitch table for a season. The
// result is cached for the configured season TTL and concurrent misses
// collapse into one provider call.
func (s *Service) SeasonEvents(ctx context.Context, season int) ([]model.PitchEvent, error) {
	season = s.Season(season)
	key := seasonKey(season)
	if events, ok := s.seasonCache.Get(key); ok {
		return events, nil
	}

	v, err, _ := s.seasonFlight.Do(key, func() (any, error) {
		start, end := statcast.SeasonRange(season, time.Now())
		s.logger.Info(ctx, "fetching season events",
			logger.Int("season", season),
			logger.String("start", start.Format("2006-01-02")),
			logger.String("end", end.Format("2006-01-02")),
		)
		events, err := s.provider.SeasonEvents(ctx, start, end)
		if err != nil {
			return nil, err
		}
		if len(events) > 0 {
			s.seasonCache.Set(key, events)
		}
		return events, nil
	})
	if err != nil {
		return nil, fmt.Errorf("season %d events: %w", season, err)
	}
	return v.([]model.PitchEvent), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"currentSeason": s.currentSeason,
		"fetchWorkers":  s.fetchWorkers,
	}
	if s.started {
		stats["pitcherCache"] = s.pitcherCache.Stats()
		stats["batterCache"] = s.batterCache.Stats()
		stats["seasonCache"] = s.seasonCache.Stats()
	}
	return stats
}

// buildPitcher runs the miss path for one pitcher: provider fetch, then
// aggregation. Aggregation is cheap relative to the network call and
// runs on the calling goroutine.
func (s *Service) buildPitcher(ctx context.Context, pitcherID, season int) (*profile.PitcherProfile, error) {
	start := time.Now()
	rangeStart, rangeEnd := statcast.SeasonRange(season, time.Now())
	events, err := s.provider.PlayerEvents(ctx, pitcherID, aggregate.RolePitcher, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("pitcher %d events: %w", pitcherID, err)
	}
	p := profile.BuildPitcher(pitcherID, season, events, s.minPitchesPitcher)
	if p != nil {
		metrics.RecordProfileBuild(string(aggregate.RolePitcher))
		metrics.RecordProfileBuildLatency(string(aggregate.RolePitcher), float64(time.Since(start).Milliseconds()))
	}
	return p, nil
}

// buildBatter runs the miss path for one batter.
func (s *Service) buildBatter(ctx context.Context, batterID, season int) (*profile.BatterProfile, error) {
	start := time.Now()
	rangeStart, rangeEnd := statcast.SeasonRange(season, time.Now())
	events, err := s.provider.PlayerEvents(ctx, batterID, aggregate.RoleBatter, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("batter %d events: %w", batterID, err)
	}
	p := profile.BuildBatter(batterID, season, events, s.minPitchesBatter)
	if p != nil {
		metrics.RecordProfileBuild(string(aggregate.RoleBatter))
		metrics.RecordProfileBuildLatency(string(aggregate.RoleBatter), float64(time.Since(start).Milliseconds()))
	}
	return p, nil
}

// Cache keys are composite: entity kind, player id, season.

func pitcherKey(pitcherID, season int) string {
	return fmt.Sprintf("pitcher_%d_%d", pitcherID, season)
}

func batterKey(batterID, season int) string {
	return fmt.Sprintf("batter_%d_%d", batterID, season)
}

func seasonKey(season int) string {
	return fmt.Sprintf("season_%d", season)
}
