package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RestrictionComputationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restriction_computations_total",
			Help: "Total number of dependent-filter restriction computations (count)",
		},
		[]string{"report", "filter", "result"},
	)

	OptionQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "option_queries_total",
			Help: "Total number of option lookups against the entity store (count)",
		},
		[]string{"entity_type", "source", "status"},
	)

	OptionQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "option_query_duration_ms",
			Help:    "Duration of option lookups in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"entity_type", "source"},
	)

	OptionsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "options_returned",
			Help:    "Number of options returned per lookup (count)",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 500, 1000},
		},
		[]string{"entity_type"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "filter_sessions_active",
			Help: "Number of filter sessions opened and not yet closed through this instance (count)",
		},
	)

	SessionOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_session_operations_total",
			Help: "Total number of session store operations (count)",
		},
		[]string{"store", "operation", "status"},
	)

	SessionEventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_events_published_total",
			Help: "Total number of session events written to the broker (count)",
		},
		[]string{"event_type", "status"},
	)

	KafkaWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_write_duration_ms",
			Help:    "Duration of Kafka write operations in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"topic"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retried operations (count)",
		},
		[]string{"operation"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failed requests through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked by the rate limiter (count)",
		},
		[]string{"endpoint", "status"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served (count)",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"method", "route"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RestrictionComputationsTotal,
			OptionQueriesTotal,
			OptionQueryDuration,
			OptionsReturned,
			SessionsActive,
			SessionOperationsTotal,
			SessionEventsPublishedTotal,
			KafkaWriteDuration,
			RetryAttemptsTotal,
			CircuitBreakerState,
			CircuitBreakerRequests,
			CircuitBreakerFailures,
			RateLimitRequestsTotal,
			HTTPRequestsTotal,
			HTTPRequestDuration,
		)
	})
}

func IncRestrictionComputation(report, filter, result string) {
	RestrictionComputationsTotal.WithLabelValues(report, filter, result).Inc()
}

func IncOptionQuery(entityType, source, status string) {
	OptionQueriesTotal.WithLabelValues(entityType, source, status).Inc()
}

func ObserveOptionQueryDuration(entityType, source string, duration time.Duration) {
	OptionQueryDuration.WithLabelValues(entityType, source).Observe(float64(duration.Milliseconds()))
}

func ObserveOptionsReturned(entityType string, count int) {
	OptionsReturned.WithLabelValues(entityType).Observe(float64(count))
}

func IncSessionsActive() {
	SessionsActive.Inc()
}

func DecSessionsActive() {
	SessionsActive.Dec()
}

func IncSessionOperation(store, operation, status string) {
	SessionOperationsTotal.WithLabelValues(store, operation, status).Inc()
}

func IncSessionEventPublished(eventType, status string) {
	SessionEventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}

func ObserveKafkaWriteDuration(topic string, duration time.Duration) {
	KafkaWriteDuration.WithLabelValues(topic).Observe(float64(duration.Milliseconds()))
}

func IncRetryAttempt(operation string) {
	RetryAttemptsTotal.WithLabelValues(operation).Inc()
}

func IncRateLimitRequest(endpoint, status string) {
	RateLimitRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(float64(duration.Milliseconds()))
}
