// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anderson_events_received_total",
		Help: "Telemetry events accepted from the bus.",
	})

	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anderson_events_dropped_total",
		Help: "Telemetry events dropped before processing.",
	}, []string{"reason"}) // invalid | overflow

	BatchesMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anderson_batches_malformed_total",
		Help: "Inbound payloads that failed to parse and were dropped whole.",
	})

	Classifications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anderson_classifications_total",
		Help: "Completed classification cycles.",
	})

	Publishes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anderson_publishes_total",
		Help: "Emotion state changes published to the bus.",
	})

	PublishesSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anderson_publishes_suppressed_total",
		Help: "Classification cycles whose result was withheld by publish policy.",
	})

	Refits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anderson_estimator_refits_total",
		Help: "Background anomaly/cluster model refits.",
	})

	RefitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anderson_estimator_refit_failures_total",
		Help: "Refit cycles abandoned due to errors.",
	})

	LiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "anderson_live_sessions",
		Help: "Sessions currently tracked in memory.",
	})

	SessionsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anderson_sessions_evicted_total",
		Help: "Idle sessions removed by the housekeeping sweep.",
	})
)
