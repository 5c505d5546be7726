package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog query metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songfinder_query_duration_seconds",
			Help:    "Duration of catalog queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songfinder_query_errors_total",
			Help: "Total number of failed catalog queries",
		},
		[]string{"op", "error_type"},
	)

	QueryRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songfinder_query_rejections_total",
			Help: "Catalog queries refused before reaching the database",
		},
		[]string{"op", "reason"}, // "queue_full", "wait_timeout", "circuit_open"
	)

	QueryQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songfinder_query_queue_depth",
			Help: "Catalog queries waiting for a free connection slot",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "songfinder_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// HTTP metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songfinder_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songfinder_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "songfinder_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// RecordQuery records the outcome of one catalog query.
func RecordQuery(op string, duration time.Duration, errorType string) {
	QueryDuration.WithLabelValues(op).Observe(duration.Seconds())
	if errorType != "" {
		QueryErrors.WithLabelValues(op, errorType).Inc()
	}
}

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
