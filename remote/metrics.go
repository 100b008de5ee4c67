package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// callsTotal counts remote calls per operation and outcome ("ok" or "error").
	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasynth_remote_calls_total",
			Help: "Total number of remote service calls by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	// callDuration observes remote call latency per operation.
	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datasynth_remote_call_duration_seconds",
			Help:    "Remote service call latency by operation",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"op"},
	)
)
