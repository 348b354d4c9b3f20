// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_operation_duration_seconds",
			Help:    "Duration of MongoDB operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	DBOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_operation_errors_total",
			Help: "Total number of failed MongoDB operations",
		},
		[]string{"operation", "collection", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Ingestion Metrics
	IngestRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Total number of dataset ingestion runs by outcome",
		},
		[]string{"outcome"}, // "ingested", "skipped", "failed"
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Duration of dataset ingestion runs",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	IngestProducts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_products_total",
			Help: "Total number of products written by ingestion",
		},
		[]string{"result"}, // "inserted", "updated", "skipped"
	)

	IngestDuplicatesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_duplicates_dropped_total",
			Help: "Total number of dataset rows dropped as duplicate product ids",
		},
	)

	// Recommendation Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation requests served by strategy",
		},
		[]string{"strategy"}, // "cold_start", "warm_start", "none"
	)

	RecommendationsEmpty = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_empty_total",
			Help: "Total number of recommendation requests that returned no products",
		},
		[]string{"reason"}, // "artifact_unavailable", "scoring_error", "catalog_error", "no_matches", "invalid_top_n"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation scoring",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"strategy"},
	)

	CatalogMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_catalog_misses_total",
			Help: "Total number of ranked products absent from the catalog",
		},
	)

	// Artifact Metrics
	ArtifactLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_loads_total",
			Help: "Total number of model artifact loads by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	ArtifactVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artifact_version",
			Help: "Version of the currently loaded model artifact (0 when none)",
		},
	)

	ArtifactLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artifact_load_duration_seconds",
			Help:    "Duration of model artifact loads",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Interaction Metrics
	InteractionsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_logged_total",
			Help: "Total number of logged user interactions by type",
		},
		[]string{"interaction_type"},
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "memory", "redis"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
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

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Logging Metrics
	LogEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_events_total",
			Help: "Total number of log events written, by level",
		},
		[]string{"level"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// Error type labels for failed operations.
const (
	ErrorTypeTimeout  = "timeout"
	ErrorTypeCanceled = "canceled"
	ErrorTypeOther    = "other"
)

// timeoutError matches driver errors that report a timeout.
type timeoutError interface {
	Timeout() bool
}

// RecordDBOperation records a database operation metric
func RecordDBOperation(operation, collection string, duration time.Duration, err error) {
	DBOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		DBOperationErrors.WithLabelValues(operation, collection, classifyError(err)).Inc()
	}
}

func classifyError(err error) string {
	var te timeoutError
	switch {
	case errors.As(err, &te) && te.Timeout():
		return ErrorTypeTimeout
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.Is(err, context.Canceled):
		return ErrorTypeCanceled
	default:
		return ErrorTypeOther
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordIngestRun records the outcome of one ingestion run.
func RecordIngestRun(outcome string, duration time.Duration, inserted, updated int) {
	IngestRuns.WithLabelValues(outcome).Inc()
	IngestDuration.Observe(duration.Seconds())
	if inserted > 0 {
		IngestProducts.WithLabelValues("inserted").Add(float64(inserted))
	}
	if updated > 0 {
		IngestProducts.WithLabelValues("updated").Add(float64(updated))
	}
}

// RecordRecommendation records a served recommendation request.
func RecordRecommendation(strategy string, duration time.Duration, returned int, emptyReason string) {
	if strategy == "" {
		strategy = "none"
	}
	RecommendationsServed.WithLabelValues(strategy).Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if returned == 0 && emptyReason != "" {
		RecommendationsEmpty.WithLabelValues(emptyReason).Inc()
	}
}

// RecordArtifactLoad records a model artifact load attempt.
func RecordArtifactLoad(version int, duration time.Duration, err error) {
	ArtifactLoadDuration.Observe(duration.Seconds())
	if err != nil {
		ArtifactLoads.WithLabelValues("failure").Inc()
		return
	}
	ArtifactLoads.WithLabelValues("success").Inc()
	ArtifactVersion.Set(float64(version))
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// StatusLabel converts an HTTP status code to a metric label.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}
