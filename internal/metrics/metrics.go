package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for CounterLoadsTotal
const (
	OutcomeSuccess              = "success"
	OutcomeUnsuccessfulResponse = "unsuccessful_response"
	OutcomeTransportError       = "transport_error"
	OutcomeMalformedBody        = "malformed_body"
)

// Counter load metrics
var (
	CounterLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counter_loads_total",
			Help: "Total number of counter load cycles by outcome.",
		},
		[]string{"outcome"},
	)

	CounterLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "counter_load_duration_seconds",
			Help:    "Duration of counter load cycles, including the fetch.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		CounterLoadsTotal,
		CounterLoadDuration,
	)
}
