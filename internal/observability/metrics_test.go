package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetrics_Usable verifies label dimensions match usage in client, store, refresh and http.
func TestMetrics_Usable(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/state/{domain}", "2xx").Inc()
	HTTPRequestDuration.WithLabelValues("GET", "/state/{domain}").Observe(0.01)
	BackendCallsTotal.WithLabelValues("weather/dashboard/", "success").Inc()
	BackendCallDuration.WithLabelValues("weather/dashboard/", "success").Observe(0.1)
	BackendErrorsTotal.WithLabelValues("weather/alerts/", "network").Inc()
	AutoFillTotal.WithLabelValues("success").Inc()
	RefreshRunsTotal.WithLabelValues("dashboard", "success").Inc()
	RefreshDurationSeconds.WithLabelValues("dashboard").Observe(0.2)
	SettingsOperationsTotal.WithLabelValues("get", "success").Inc()
	RecordCircuitBreakerTransition("backend", "closed", "open")
	SetCircuitBreakerStateGauge("backend", 1)
}

func TestRecordFetch_DiscardedCountsStale(t *testing.T) {
	before := testutil.ToFloat64(StaleResponsesDiscardedTotal.WithLabelValues("metrics-test"))
	RecordFetch("metrics-test", "fetch", "success")
	RecordFetch("metrics-test", "fetch", "discarded")
	after := testutil.ToFloat64(StaleResponsesDiscardedTotal.WithLabelValues("metrics-test"))
	if after-before != 1 {
		t.Errorf("stale discards delta = %v, want 1", after-before)
	}
}

// TestMetricsHandler_ServesPrometheusFormat verifies the handler serves text exposition format.
func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/health", "2xx").Inc()
	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "httpRequestsTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
}
