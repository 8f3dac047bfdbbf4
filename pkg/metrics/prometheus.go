// Package metrics provides Prometheus metrics for the YardWatch profile engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Profile metrics
	profileBuilds       *prometheus.CounterVec
	profileBuildLatency *prometheus.HistogramVec
	profilesOmitted     *prometheus.CounterVec

	// Provider metrics
	providerFetches      *prometheus.CounterVec
	providerErrors       *prometheus.CounterVec
	providerFetchLatency prometheus.Histogram
	providerRowsFetched  prometheus.Counter

	// Cache metrics
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	cacheSize      *prometheus.GaugeVec

	// Batch pool metrics
	poolJobs       prometheus.Counter
	poolJobErrors  prometheus.Counter
	poolJobLatency prometheus.Histogram
	poolWorkers    prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Registry returns the registry all service metrics are registered on.
func Registry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "yardwatch",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.profileBuilds = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "profile_builds_total",
			Help:      "Total number of player profiles built from raw events",
		},
		[]string{"role"},
	)

	m.profileBuildLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "profile_build_latency_milliseconds",
			Help:      "End-to-end fetch-and-aggregate latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"role"},
	)

	m.profilesOmitted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "profiles_omitted_total",
			Help:      "Players dropped from batch results (no data or fetch failure)",
		},
		[]string{"role", "reason"},
	)

	m.providerFetches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_fetches_total",
			Help:      "Total number of data provider calls by kind",
		},
		[]string{"kind"},
	)

	m.providerErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_errors_total",
			Help:      "Total number of failed data provider calls by kind",
		},
		[]string{"kind"},
	)

	m.providerFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_fetch_latency_milliseconds",
		Help:      "Data provider call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.providerRowsFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_rows_fetched_total",
		Help:      "Total number of pitch event rows returned by the provider",
	})

	m.cacheHits = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_hits_total",
			Help:      "Cache hits by cache name",
		},
		[]string{"cache"},
	)

	m.cacheMisses = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_misses_total",
			Help:      "Cache misses by cache name",
		},
		[]string{"cache"},
	)

	m.cacheEvictions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_evictions_total",
			Help:      "Entries evicted for capacity or TTL by cache name",
		},
		[]string{"cache"},
	)

	m.cacheSize = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_size",
			Help:      "Current number of live entries by cache name",
		},
		[]string{"cache"},
	)

	m.poolJobs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_jobs_total",
		Help:      "Total number of jobs executed by the batch fetch pool",
	})

	m.poolJobErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_job_errors_total",
		Help:      "Total number of batch pool jobs that returned an error",
	})

	m.poolJobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_job_latency_milliseconds",
		Help:      "Batch pool job latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.poolWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_workers",
		Help:      "Configured number of batch pool workers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Package-level helpers operating on the global manager.

func RecordProfileBuild(role string) {
	globalManager.profileBuilds.WithLabelValues(role).Inc()
}

func RecordProfileBuildLatency(role string, latencyMs float64) {
	globalManager.profileBuildLatency.WithLabelValues(role).Observe(latencyMs)
}

func RecordProfileOmitted(role, reason string) {
	globalManager.profilesOmitted.WithLabelValues(role, reason).Inc()
}

func RecordProviderFetch(kind string) {
	globalManager.providerFetches.WithLabelValues(kind).Inc()
}

func RecordProviderError(kind string) {
	globalManager.providerErrors.WithLabelValues(kind).Inc()
}

func RecordProviderFetchLatency(latencyMs float64) {
	globalManager.providerFetchLatency.Observe(latencyMs)
}

func RecordProviderRows(n int) {
	globalManager.providerRowsFetched.Add(float64(n))
}

func RecordCacheHit(cache string) {
	globalManager.cacheHits.WithLabelValues(cache).Inc()
}

func RecordCacheMiss(cache string) {
	globalManager.cacheMisses.WithLabelValues(cache).Inc()
}

func RecordCacheEviction(cache string) {
	globalManager.cacheEvictions.WithLabelValues(cache).Inc()
}

func UpdateCacheSize(cache string, size int) {
	globalManager.cacheSize.WithLabelValues(cache).Set(float64(size))
}

func RecordPoolJob() {
	globalManager.poolJobs.Inc()
}

func RecordPoolJobError() {
	globalManager.poolJobErrors.Inc()
}

func RecordPoolJobLatency(latencyMs float64) {
	globalManager.poolJobLatency.Observe(latencyMs)
}

func UpdatePoolWorkers(count int) {
	globalManager.poolWorkers.Set(float64(count))
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}
