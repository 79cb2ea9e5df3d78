package competencysync

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type syncMetrics struct {
	once sync.Once

	changes  *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
}

var metrics syncMetrics

func (m *syncMetrics) init() {
	m.once.Do(func() {
		m.changes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "competency_sync_changes_total",
			Help: "Entities changed by reconciliation runs",
		}, []string{"kind", "action"})
		m.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "competency_sync_runs_total",
			Help: "Reconciliation runs by mode and outcome",
		}, []string{"mode", "outcome"})
		m.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "competency_sync_run_seconds",
			Help:    "Duration of reconciliation runs",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		})

		prometheus.MustRegister(m.changes, m.runs, m.duration)
	})
}

func recordRun(mode Mode, outcome string, elapsed time.Duration, res Result) {
	metrics.init()
	metrics.runs.WithLabelValues(mode.String(), outcome).Inc()
	metrics.duration.Observe(elapsed.Seconds())

	for _, g := range []struct {
		kind string
		c    Counts
	}{
		{"category", res.Categories},
		{"skill", res.Skills},
		{"role", res.Roles},
		{"requirement", res.Requirements},
		{"progression", res.Progressions},
	} {
		addChanges(g.kind, "added", g.c.Added)
		addChanges(g.kind, "updated", g.c.Updated)
		addChanges(g.kind, "deleted", g.c.Deleted)
	}
}

func addChanges(kind, action string, n int) {
	if n > 0 {
		metrics.changes.WithLabelValues(kind, action).Add(float64(n))
	}
}
