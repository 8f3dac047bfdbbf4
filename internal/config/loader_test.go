package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yardwatch/engine/internal/config"
)

func TestDefaults(t *testing.T) {
	Convey("Given no overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.CurrentSeason, ShouldEqual, 2025)
			So(cfg.MinPitchesForPitchType, ShouldEqual, 50)
			So(cfg.MinPitchesForBatter, ShouldEqual, 20)
			So(cfg.CacheTTLPitchers, ShouldEqual, 3600)
			So(cfg.CacheTTLLineups, ShouldEqual, 300)
			So(cfg.FetchWorkers, ShouldEqual, 3)
			So(cfg.ProviderTimeout, ShouldEqual, 30)
		})
	})
}

func TestEnvOverrides(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		t.Setenv("YARDWATCH_ADDR", ":9090")
		t.Setenv("YARDWATCH_CURRENT_SEASON", "2024")
		t.Setenv("YARDWATCH_FETCH_WORKERS", "5")
		t.Setenv("YARDWATCH_LOG_LEVEL", "debug")

		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.CurrentSeason, ShouldEqual, 2024)
			So(cfg.FetchWorkers, ShouldEqual, 5)
			So(cfg.LogLevel, ShouldEqual, "debug")
		})
	})
}

func TestFileOverrides(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := "addr: \":7070\"\nmin_pitches_for_batter: 25\n"
		So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)
		t.Setenv("YARDWATCH_CONFIG", path)

		Convey("When loading without env overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then file values win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.MinPitchesForBatter, ShouldEqual, 25)
				So(cfg.CurrentSeason, ShouldEqual, 2025)
			})
		})

		Convey("When env overrides the file", func() {
			t.Setenv("YARDWATCH_ADDR", ":6060")
			cfg, err := config.Load(context.Background())

			Convey("Then env wins", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
			})
		})
	})

	Convey("Given a missing config file", t, func() {
		t.Setenv("YARDWATCH_CONFIG", "/does/not/exist.yaml")
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the load sentinel", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestValidation(t *testing.T) {
	Convey("Given invalid settings", t, func() {
		cases := map[string]string{
			"YARDWATCH_CURRENT_SEASON":             "12",
			"YARDWATCH_FETCH_WORKERS":              "0",
			"YARDWATCH_CACHE_TTL_PITCHERS":         "-1",
			"YARDWATCH_MIN_PITCHES_FOR_PITCH_TYPE": "0",
			"YARDWATCH_PROVIDER_TIMEOUT":           "0",
		}
		for key, val := range cases {
			Convey("Then "+key+"="+val+" is rejected", func() {
				t.Setenv(key, val)
				_, err := config.Load(context.Background())
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		}
	})
}
