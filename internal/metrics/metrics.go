// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

// Package metrics holds the Prometheus collectors exported at /metrics.
//
// Collectors are registered on the default registry through promauto, so
// importing the package is enough to expose them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// maxErrorLabelLength caps the error_type label to keep cardinality bounded.
const maxErrorLabelLength = 50

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_db_query_duration_seconds",
			Help:    "Duration of storage queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_db_query_errors_total",
			Help: "Total number of storage query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBOpenConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filmorate_db_open_connections",
			Help: "Open connections in the SQL pool",
		},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_store_gc_runs_total",
			Help: "Value log garbage collection runs of the key/value store",
		},
		[]string{"result"}, // "success", "failure"
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filmorate_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Domain Metrics
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_likes_total",
			Help: "Likes added and removed",
		},
		[]string{"operation"}, // "ADD", "REMOVE"
	)

	FriendshipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_friendships_total",
			Help: "Friendships added and removed",
		},
		[]string{"operation"},
	)

	FeedEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_feed_events_total",
			Help: "Feed events persisted by the feed recorder",
		},
		[]string{"event_type", "operation"},
	)

	FeedPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmorate_feed_publish_failures_total",
			Help: "Feed events that could not be published",
		},
	)

	FeedDroppedEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmorate_feed_dropped_events_total",
			Help: "Feed messages dropped after retries or because they could not be decoded",
		},
	)

	// Reference data cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_cache_hits_total",
			Help: "Reference data cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_cache_misses_total",
			Help: "Reference data cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filmorate_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filmorate_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > maxErrorLabelLength {
			errorType = errorType[:maxErrorLabelLength]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup counts a cache hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordLike counts a like change. operation is models.OperationAdd or OperationRemove.
func RecordLike(operation string) {
	LikesTotal.WithLabelValues(operation).Inc()
}

// RecordFriendship counts a friendship change.
func RecordFriendship(operation string) {
	FriendshipsTotal.WithLabelValues(operation).Inc()
}

// RecordFeedEvent counts a persisted feed event.
func RecordFeedEvent(eventType, operation string) {
	FeedEventsTotal.WithLabelValues(eventType, operation).Inc()
}

// RecordStoreGC records the outcome of one garbage collection pass.
func RecordStoreGC(err error) {
	if err != nil {
		StoreGCRuns.WithLabelValues("failure").Inc()
		return
	}
	StoreGCRuns.WithLabelValues("success").Inc()
}
