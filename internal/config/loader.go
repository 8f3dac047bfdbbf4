package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if YARDWATCH_CONFIG is set
//  3. env (prefix YARDWATCH_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("YARDWATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: YARDWATCH_ADDR, YARDWATCH_CURRENT_SEASON, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("YARDWATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "yardwatch_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CurrentSeason < 1900:
		return fmt.Errorf("%w: current_season %d is not a season year", ErrInvalidConfig, c.CurrentSeason)
	case c.MinPitchesForPitchType < 1:
		return fmt.Errorf("%w: min_pitches_for_pitch_type must be positive", ErrInvalidConfig)
	case c.MinPitchesForBatter < 1:
		return fmt.Errorf("%w: min_pitches_for_batter must be positive", ErrInvalidConfig)
	case c.CacheTTLPitchers < 1 || c.CacheTTLBatters < 1 || c.CacheTTLLineups < 1 || c.CacheTTLSeason < 1:
		return fmt.Errorf("%w: cache TTLs must be positive", ErrInvalidConfig)
	case c.ProfileCacheSize < 1 || c.SeasonCacheSize < 1:
		return fmt.Errorf("%w: cache sizes must be positive", ErrInvalidConfig)
	case c.FetchWorkers < 1:
		return fmt.Errorf("%w: fetch_workers must be positive", ErrInvalidConfig)
	case c.ProviderTimeout < 1:
		return fmt.Errorf("%w: provider_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
