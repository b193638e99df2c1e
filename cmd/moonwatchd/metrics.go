package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/moonwatch-io/moonwatch-go/pkg/notifier"
)

// metrics holds the daemon's Prometheus collectors, registered in a private
// registry so only moonwatchd metrics appear on /metrics.
type metrics struct {
	Registry *prometheus.Registry

	EventsReceived *prometheus.CounterVec
	EventsRejected prometheus.Counter
	EventOutcomes  *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()

	m := &metrics{
		Registry: reg,

		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moonwatchd_events_received_total",
			Help: "Total number of identity events accepted for processing.",
		}, []string{"type"}),

		EventsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moonwatchd_events_rejected_total",
			Help: "Total number of event payloads rejected as unreadable.",
		}),

		EventOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moonwatchd_event_outcomes_total",
			Help: "Total number of handled events by notification outcome.",
		}, []string{"type", "outcome"}),
	}

	reg.MustRegister(m.EventsReceived, m.EventsRejected, m.EventOutcomes)
	return m
}

// eventTypeLabel bounds the type label space. Event types arrive from
// clients, so anything but the two known types counts as "other" to keep
// label cardinality fixed.
func eventTypeLabel(t notifier.EventType) string {
	switch t {
	case notifier.EventLogin, notifier.EventLogout:
		return string(t)
	default:
		return "other"
	}
}
