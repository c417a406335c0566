// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package metrics holds the Prometheus collectors for MALWrapped.
//
// Collectors are registered on the default registry through promauto and
// exposed by the /metrics endpoint. Callers use the Record* helpers rather
// than touching the vectors directly so label sets stay consistent.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "malwrapped_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "malwrapped_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Upstream MyAnimeList API
	MALRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_mal_requests_total",
			Help: "Total number of requests sent to the MyAnimeList API",
		},
		[]string{"endpoint", "status"},
	)

	MALRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "malwrapped_mal_request_duration_seconds",
			Help:    "MyAnimeList API request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	MALRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_mal_rate_limited_total",
			Help: "Total number of HTTP 429 responses from the MyAnimeList API",
		},
		[]string{"endpoint"},
	)

	// Circuit breaker
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
		[]string{"name", "result"}, // success, failure, rejected
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

	// Pagination collector
	CollectorPagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_collector_pages_total",
			Help: "Total number of list pages fetched",
		},
		[]string{"list"},
	)

	CollectorItemsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_collector_items_total",
			Help: "Total number of list items received, before de-duplication",
		},
		[]string{"list"},
	)

	CollectorRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_collector_runs_total",
			Help: "Total number of list collections by outcome",
		},
		[]string{"list", "outcome"}, // complete, partial
	)

	CollectorListSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "malwrapped_collector_list_size",
			Help:    "Number of unique entries per collected list",
			Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"list"},
	)

	// Normalizer
	NormalizerSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_normalizer_skipped_total",
			Help: "Total number of raw list records dropped for missing id or title",
		},
		[]string{"list"},
	)

	// Wrapped reports
	WrappedReportGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wrapped_report_generation_duration_seconds",
			Help:    "Time to collect lists and compute a wrapped report",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"year"},
	)

	WrappedReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wrapped_reports_generated_total",
			Help: "Total number of wrapped reports generated",
		},
		[]string{"year", "completeness"}, // complete, partial
	)

	WrappedReportGenerationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wrapped_report_generation_errors_total",
			Help: "Total number of wrapped report generation errors",
		},
		[]string{"year", "error_type"},
	)

	WrappedShareTokensCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wrapped_share_tokens_created_total",
			Help: "Total number of share tokens created for wrapped reports",
		},
	)

	WrappedShareTokenAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wrapped_share_token_access_total",
			Help: "Total number of shared report lookups",
		},
		[]string{"result"}, // found, missing
	)

	// Report store
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_store_operations_total",
			Help: "Total number of report store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	// Third-party enrichment (animethemes.moe, Jikan)
	EnrichmentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_enrichment_lookups_total",
			Help: "Total number of third-party enrichment lookups",
		},
		[]string{"source", "result"}, // result: found, not_found, error
	)

	// Enrichment response caches
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_cache_lookups_total",
			Help: "Total number of in-memory cache lookups",
		},
		[]string{"cache", "result"}, // hit, miss
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malwrapped_cache_evictions_total",
			Help: "Total number of entries evicted for capacity or expiry",
		},
		[]string{"cache"},
	)

	// Progress streaming
	StreamConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "malwrapped_stream_connections",
			Help: "Number of open report progress websocket connections",
		},
	)
)

// RecordAPIRequest records one served API request.
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

// RecordMALRequest records one upstream MAL call. status is 0 when no
// response was received.
func RecordMALRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	MALRequestsTotal.WithLabelValues(endpoint, label).Inc()
	MALRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordMALRateLimited records one HTTP 429 from MAL.
func RecordMALRateLimited(endpoint string) {
	MALRateLimited.WithLabelValues(endpoint).Inc()
}

// RecordCollectorPage records one fetched page.
func RecordCollectorPage(list string, items int) {
	CollectorPagesFetched.WithLabelValues(list).Inc()
	CollectorItemsFetched.WithLabelValues(list).Add(float64(items))
}

// RecordCollectorRun records the outcome of a whole collection.
func RecordCollectorRun(list string, items int, complete bool) {
	outcome := "complete"
	if !complete {
		outcome = "partial"
	}
	CollectorRuns.WithLabelValues(list, outcome).Inc()
	CollectorListSize.WithLabelValues(list).Observe(float64(items))
}

// RecordNormalizerSkipped adds skipped records for a list.
func RecordNormalizerSkipped(list string, skipped int) {
	if skipped > 0 {
		NormalizerSkipped.WithLabelValues(list).Add(float64(skipped))
	}
}

// RecordWrappedGeneration records a report generation attempt.
func RecordWrappedGeneration(year int, duration time.Duration, complete bool, err error) {
	yearStr := strconv.Itoa(year)
	WrappedReportGenerationDuration.WithLabelValues(yearStr).Observe(duration.Seconds())
	if err != nil {
		WrappedReportGenerationErrors.WithLabelValues(yearStr, classifyError(err)).Inc()
		return
	}
	completeness := "complete"
	if !complete {
		completeness = "partial"
	}
	WrappedReportsGenerated.WithLabelValues(yearStr, completeness).Inc()
}

// RecordShareTokenCreated counts a newly persisted shared report.
func RecordShareTokenCreated() {
	WrappedShareTokensCreated.Inc()
}

// RecordShareTokenAccess counts a shared report lookup.
func RecordShareTokenAccess(found bool) {
	result := "found"
	if !found {
		result = "missing"
	}
	WrappedShareTokenAccess.WithLabelValues(result).Inc()
}

// RecordStoreOperation records a report store call.
func RecordStoreOperation(backend, operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(backend, operation, result).Inc()
}

// RecordEnrichmentLookup records an animethemes or Jikan lookup.
func RecordEnrichmentLookup(source string, found bool, err error) {
	result := "found"
	switch {
	case err != nil:
		result = "error"
	case !found:
		result = "not_found"
	}
	EnrichmentLookups.WithLabelValues(source, result).Inc()
}

// RecordCacheLookup counts one cache lookup.
func RecordCacheLookup(cache string, hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordCacheEviction counts one evicted entry.
func RecordCacheEviction(cache string) {
	CacheEvictions.WithLabelValues(cache).Inc()
}

// classifyError buckets an error message into a small label set.
func classifyError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unauthorized"):
		return "unauthorized"
	case strings.Contains(msg, "circuit"):
		return "circuit_open"
	case strings.Contains(msg, "context canceled"), strings.Contains(msg, "deadline exceeded"):
		return "cancelled"
	case strings.Contains(msg, "profile"):
		return "profile_failed"
	case strings.Contains(msg, "save"), strings.Contains(msg, "store"):
		return "save_failed"
	default:
		return "other"
	}
}
