package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "criollo"

// Metrics are the adapter's Prometheus collectors.
type Metrics struct {
	// RequestsTotal counts round trips by method, route, and outcome kind
	// ("ok" on success).
	RequestsTotal *prometheus.CounterVec
	// RequestDuration measures round trips by method and route.
	RequestDuration *prometheus.HistogramVec
	// ForcedLogoutsTotal counts sessions torn down after a 401.
	ForcedLogoutsTotal prometheus.Counter
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of requests sent to the remote API.",
			},
			[]string{"method", "route", "outcome"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of requests sent to the remote API.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ForcedLogoutsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "forced_logouts_total",
				Help:      "Total number of sessions torn down after the API rejected the token.",
			},
		),
	}
}
