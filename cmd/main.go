package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yardwatch/engine/internal/adapters/http/api"
	"github.com/yardwatch/engine/internal/adapters/mlb"
	"github.com/yardwatch/engine/internal/adapters/statcast"
	"github.com/yardwatch/engine/internal/app"
	"github.com/yardwatch/engine/internal/config"
	"github.com/yardwatch/engine/pkg/logger"
	"github.com/yardwatch/engine/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Upstream clients.
	provider := statcast.NewClient(
		statcast.WithTimeout(time.Duration(cfg.ProviderTimeout) * time.Second),
	)
	identity := mlb.NewClient(
		mlb.WithSeason(cfg.CurrentSeason),
		mlb.WithLineupTTL(time.Duration(cfg.CacheTTLLineups)*time.Second),
	)

	// Create and start the profile engine with configuration options.
	svc := app.New(
		app.WithLogger(log),
		app.WithProvider(provider),
		app.WithCurrentSeason(cfg.CurrentSeason),
		app.WithMinPitches(cfg.MinPitchesForPitchType, cfg.MinPitchesForBatter),
		app.WithProfileCacheTTLs(
			time.Duration(cfg.CacheTTLPitchers)*time.Second,
			time.Duration(cfg.CacheTTLBatters)*time.Second,
		),
		app.WithSeasonCacheTTL(time.Duration(cfg.CacheTTLSeason)*time.Second),
		app.WithCacheSizes(cfg.ProfileCacheSize, cfg.SeasonCacheSize),
		app.WithFetchWorkers(cfg.FetchWorkers),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	apiServer := api.NewServer(svc, identity)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater periodically refreshes process-level gauges.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
