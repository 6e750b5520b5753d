package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kjstillabower/krishi-dashboard/internal/overload"
)

var (
	registry *prometheus.Registry

	// Local API request rate. Watch for: consumers polling harder than the refresh interval.
	HTTPRequestsTotal *prometheus.CounterVec

	// Local API latency per request.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent local API requests.
	HTTPRequestsInFlight prometheus.Gauge

	// Backend calls by endpoint template and status class. Watch for: error vs success ratio.
	BackendCallsTotal *prometheus.CounterVec

	// Backend latency per call. Watch for: p95 > 2s (backend degradation).
	BackendCallDuration *prometheus.HistogramVec

	// Backend errors by category (see client.CategorizeError).
	BackendErrorsTotal *prometheus.CounterVec

	// Fetch operation outcomes per domain container. Watch for: failures on the refresh domains.
	FetchOperationsTotal *prometheus.CounterVec

	// Responses dropped because a newer request was issued (policy=latest only).
	StaleResponsesDiscardedTotal *prometheus.CounterVec

	// Per-month outcomes of bulk auto-fill.
	AutoFillTotal *prometheus.CounterVec

	// Periodic refresh runs by job and outcome.
	RefreshRunsTotal *prometheus.CounterVec

	// Duration of one refresh run.
	RefreshDurationSeconds *prometheus.HistogramVec

	// Settings persistence operations by backend op and outcome.
	SettingsOperationsTotal *prometheus.CounterVec

	// Rate limit denials on the local API.
	RateLimitDeniedTotal prometheus.Counter

	// Circuit breaker transitions (from, to).
	CircuitBreakerTransitionsTotal *prometheus.CounterVec

	// Circuit breaker state: 0 closed, 1 open, 2 half-open.
	CircuitBreakerState *prometheus.GaugeVec

	rateLimitGaugesOnce sync.Once
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of local API requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "Local API latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of local API requests currently being served",
		},
	)
	BackendCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backendCallsTotal",
			Help: "Total number of backend REST calls",
		},
		[]string{"endpoint", "status"},
	)
	BackendCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backendCallDurationSeconds",
			Help:    "Backend REST latency in seconds (per call)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "status"},
	)
	BackendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backendErrorsTotal",
			Help: "Backend call failures by error category",
		},
		[]string{"endpoint", "category"},
	)
	FetchOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetchOperationsTotal",
			Help: "Fetch operations by domain container, operation and outcome",
		},
		[]string{"domain", "operation", "outcome"},
	)
	StaleResponsesDiscardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staleResponsesDiscardedTotal",
			Help: "Responses discarded because a newer request was issued for the same container",
		},
		[]string{"domain"},
	)
	AutoFillTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoFillTotal",
			Help: "Month auto-fill outcomes",
		},
		[]string{"outcome"},
	)
	RefreshRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refreshRunsTotal",
			Help: "Periodic refresh runs by job and outcome",
		},
		[]string{"job", "outcome"},
	)
	RefreshDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "refreshDurationSeconds",
			Help:    "Duration of one periodic refresh run",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"job"},
	)
	SettingsOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settingsOperationsTotal",
			Help: "Settings persistence operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of local API requests denied by rate limiter (429)",
		},
	)
	CircuitBreakerTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuitBreakerTransitionsTotal",
			Help: "Circuit breaker state transitions",
		},
		[]string{"component", "from", "to"},
	)
	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuitBreakerState",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"component"},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		BackendCallsTotal, BackendCallDuration, BackendErrorsTotal,
		FetchOperationsTotal, StaleResponsesDiscardedTotal, AutoFillTotal,
		RefreshRunsTotal, RefreshDurationSeconds,
		SettingsOperationsTotal,
		RateLimitDeniedTotal,
		CircuitBreakerTransitionsTotal, CircuitBreakerState,
	)
}

// RegisterRateLimitGauges registers load and rejects gauges for the rate-limited local API.
// Call from main after config load.
func RegisterRateLimitGauges(window time.Duration) {
	rateLimitGaugesOnce.Do(func() {
		registry.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRequestsInWindow",
					Help: "Requests hitting the rate-limited path in sliding window",
				},
				func() float64 { return float64(overload.RequestCount(window)) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRejectsInWindow",
					Help: "429 responses in sliding window",
				},
				func() float64 { return float64(overload.DenialCount(window)) },
			),
		)
	})
}

// RecordFetch records one fetch operation outcome ("success", "failure" or "discarded").
func RecordFetch(domain, operation, outcome string) {
	FetchOperationsTotal.WithLabelValues(domain, operation, outcome).Inc()
	if outcome == "discarded" {
		StaleResponsesDiscardedTotal.WithLabelValues(domain).Inc()
	}
}

// RecordCircuitBreakerTransition counts a breaker state change.
func RecordCircuitBreakerTransition(component, from, to string) {
	CircuitBreakerTransitionsTotal.WithLabelValues(component, from, to).Inc()
}

// SetCircuitBreakerStateGauge publishes the breaker state.
func SetCircuitBreakerStateGauge(component string, state int) {
	CircuitBreakerState.WithLabelValues(component).Set(float64(state))
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
