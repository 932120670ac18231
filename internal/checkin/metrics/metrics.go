// Package metrics holds the prometheus collectors for the check-in flow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	outcomes       *prometheus.CounterVec
	verifyDuration prometheus.Histogram
	activeSessions prometheus.Gauge
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkin",
			Name:      "outcomes_total",
			Help:      "Verification outcomes by kind.",
		}, []string{"outcome"}),
		verifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "checkin",
			Name:      "verify_duration_seconds",
			Help:      "Time spent verifying one scanned code.",
			Buckets:   prometheus.DefBuckets,
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "checkin",
			Name:      "active_scan_sessions",
			Help:      "Scan sessions currently open.",
		}),
	}

	reg.MustRegister(m.outcomes, m.verifyDuration, m.activeSessions)
	return m
}

// ObserveOutcome counts one verification. Safe on a nil receiver.
func (m *Metrics) ObserveOutcome(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
	m.verifyDuration.Observe(took.Seconds())
}

// SetActiveSessions records the number of open scan sessions.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
