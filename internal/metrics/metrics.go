// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

// Package metrics provides Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Cache efficiency per statistics resource
// - Spotify and Gemini upstream call outcomes
// - Circuit breaker state transitions
// - Refresh fan-out results and ledger growth
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_cache_hits_total",
			Help: "Total number of statistics cache hits",
		},
		[]string{"resource"}, // top-tracks, top-artists, recently-played, listening-time, recommendations, playlists
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_cache_misses_total",
			Help: "Total number of statistics cache misses",
		},
		[]string{"resource"},
	)

	CacheForcedRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_cache_forced_refreshes_total",
			Help: "Total number of force-refresh cache bypasses",
		},
		[]string{"resource"},
	)

	// Upstream Metrics
	SpotifyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotify_requests_total",
			Help: "Total number of Spotify API requests",
		},
		[]string{"endpoint", "result"}, // result: "success", "failure"
	)

	SpotifyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spotify_request_duration_seconds",
			Help:    "Spotify API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	AIGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_generations_total",
			Help: "Total number of AI insight generation attempts",
		},
		[]string{"result"}, // "success", "fallback", "failure"
	)

	AIGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ai_generation_duration_seconds",
			Help:    "AI insight generation duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Refresh Orchestrator Metrics
	RefreshRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_runs_total",
			Help: "Total number of full refresh runs",
		},
	)

	RefreshVariantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_variants_total",
			Help: "Total number of refresh fan-out variant attempts",
		},
		[]string{"resource", "result"}, // result: "success", "failure"
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refresh_duration_seconds",
			Help:    "Full refresh fan-out duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	RefreshKeysDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_keys_deleted_total",
			Help: "Total number of cache keys deleted by the invalidation sweep",
		},
	)

	// Ledger Metrics
	LedgerMergesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_merges_total",
			Help: "Total number of listening-ledger merge operations",
		},
	)

	LedgerDays = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_days",
			Help: "Number of day buckets in the most recently merged ledger",
		},
	)
)

// RecordAPIRequest records a completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSpotifyRequest records the outcome of one Spotify API call.
func RecordSpotifyRequest(endpoint string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	SpotifyRequestsTotal.WithLabelValues(endpoint, result).Inc()
	SpotifyRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCacheRead records a cache hit or miss for one resource.
func RecordCacheRead(resource string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(resource).Inc()
	} else {
		CacheMisses.WithLabelValues(resource).Inc()
	}
}

// RecordAIGeneration records one insight generation attempt.
func RecordAIGeneration(result string, duration time.Duration) {
	AIGenerationsTotal.WithLabelValues(result).Inc()
	AIGenerationDuration.Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
