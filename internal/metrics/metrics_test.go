package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getHistogramCount(h prometheus.Histogram) uint64 {
	var m dto.Metric
	if err := h.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_CounterLoadsTotal(t *testing.T) {
	outcomes := []string{OutcomeSuccess, OutcomeUnsuccessfulResponse, OutcomeTransportError, OutcomeMalformedBody}

	for _, outcome := range outcomes {
		before := getCounterVecValue(CounterLoadsTotal, outcome)
		CounterLoadsTotal.WithLabelValues(outcome).Inc()
		after := getCounterVecValue(CounterLoadsTotal, outcome)

		if after != before+1 {
			t.Errorf("Expected %s counter to increment by 1, got diff %.0f", outcome, after-before)
		}
	}
}

func TestMetrics_CounterLoadDuration(t *testing.T) {
	before := getHistogramCount(CounterLoadDuration)
	CounterLoadDuration.Observe(0.25)
	after := getHistogramCount(CounterLoadDuration)

	if after != before+1 {
		t.Errorf("Expected histogram sample count to increment by 1, got diff %d", after-before)
	}
}

func TestMetrics_NewHTTPServer(t *testing.T) {
	srv := NewHTTPServer("localhost", 9090)

	if srv.Addr != "localhost:9090" {
		t.Errorf("Expected address 'localhost:9090', got '%s'", srv.Addr)
	}

	if srv.Handler == nil {
		t.Error("Expected handler to be set")
	}
}

func TestMetrics_NewHTTPServer_DefaultPort(t *testing.T) {
	srv := NewHTTPServer("0.0.0.0", 0)

	if srv.Addr != "0.0.0.0:9090" {
		t.Errorf("Expected address '0.0.0.0:9090', got '%s'", srv.Addr)
	}
}

func TestMetrics_NewHTTPServer_ExposesLoadMetrics(t *testing.T) {
	CounterLoadsTotal.WithLabelValues(OutcomeSuccess).Inc()
	srv := NewHTTPServer("localhost", 9090)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "counter_loads_total") {
		t.Error("Expected /metrics to expose counter_loads_total")
	}
}
