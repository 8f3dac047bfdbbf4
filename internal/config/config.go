// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CurrentSeason is the season year used when a request does not name one.
	CurrentSeason int `koanf:"current_season"`

	// MinPitchesForPitchType is the pitcher-side minimum sample per pitch type.
	MinPitchesForPitchType int `koanf:"min_pitches_for_pitch_type"`

	// MinPitchesForBatter is the batter-side minimum sample per pitch type.
	MinPitchesForBatter int `koanf:"min_pitches_for_batter"`

	// Cache TTLs in seconds.
	CacheTTLPitchers int `koanf:"cache_ttl_pitchers"`
	CacheTTLBatters  int `koanf:"cache_ttl_batters"`
	CacheTTLLineups  int `koanf:"cache_ttl_lineups"`
	CacheTTLSeason   int `koanf:"cache_ttl_season"`

	// ProfileCacheSize bounds each per-role profile cache.
	ProfileCacheSize int `koanf:"profile_cache_size"`

	// SeasonCacheSize bounds the season raw-data cache.
	SeasonCacheSize int `koanf:"season_cache_size"`

	// FetchWorkers bounds concurrent provider fetches during batch requests.
	FetchWorkers int `koanf:"fetch_workers"`

	// ProviderTimeout bounds a single provider call, in seconds.
	ProviderTimeout int `koanf:"provider_timeout"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8080",
		CurrentSeason:          2025,
		MinPitchesForPitchType: 50,
		MinPitchesForBatter:    20,
		CacheTTLPitchers:       3600,
		CacheTTLBatters:        3600,
		CacheTTLLineups:        300, // lineups change close to game time
		CacheTTLSeason:         21600,
		ProfileCacheSize:       500,
		SeasonCacheSize:        2,
		FetchWorkers:           3,
		ProviderTimeout:        30,
	}
}
