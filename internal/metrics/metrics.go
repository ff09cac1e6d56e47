package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK          = "ok"
	OutcomeConfigError = "config_error"
	OutcomeError       = "error"
)

type RecalculationMetrics struct {
	runs     *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration prometheus.Histogram
}

var (
	recalcOnce     sync.Once
	recalcRegistry *RecalculationMetrics
)

// Recalculation returns the process-wide collectors, registering them on first use.
func Recalculation() *RecalculationMetrics {
	recalcOnce.Do(func() {
		recalcRegistry = &RecalculationMetrics{
			runs: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "competition_recalculations_total",
				Help: "Competition recalculations by outcome.",
			}, []string{"outcome"}),
			rows: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "competition_result_rows_total",
				Help: "Competition result rows written by operation.",
			}, []string{"op"}),
			duration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "competition_recalculation_duration_seconds",
				Help:    "Wall time of successful recalculations.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			}),
		}
		prometheus.MustRegister(
			recalcRegistry.runs,
			recalcRegistry.rows,
			recalcRegistry.duration,
		)
	})
	return recalcRegistry
}

func (m *RecalculationMetrics) ObserveRun(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.duration.Observe(elapsed.Seconds())
	}
}

func (m *RecalculationMetrics) ObserveRows(created, updated, deleted int) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues("created").Add(float64(created))
	m.rows.WithLabelValues("updated").Add(float64(updated))
	m.rows.WithLabelValues("deleted").Add(float64(deleted))
}
