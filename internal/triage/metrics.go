package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage subsystem.
type Metrics struct {
	EvaluationsTotal     *prometheus.CounterVec
	TransitionsTotal     *prometheus.CounterVec
	StatusConflictsTotal prometheus.Counter
	EvaluateDuration     prometheus.Histogram
	StatsDuration        prometheus.Histogram
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EvaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triaged_evaluations_total",
			Help: "Total evaluations created by assigned triage level.",
		}, []string{"level"}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triaged_status_transitions_total",
			Help: "Total successful disposition status transitions.",
		}, []string{"from", "to"}),
		StatusConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triaged_status_conflicts_total",
			Help: "Status updates that lost a concurrent race and were retried.",
		}),
		EvaluateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triaged_evaluate_duration_seconds",
			Help:    "Duration of evaluation creation including persistence.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		}),
		StatsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triaged_stats_duration_seconds",
			Help:    "Duration of dashboard statistics aggregation.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		}),
	}

	reg.MustRegister(
		m.EvaluationsTotal,
		m.TransitionsTotal,
		m.StatusConflictsTotal,
		m.EvaluateDuration,
		m.StatsDuration,
	)

	return m
}
