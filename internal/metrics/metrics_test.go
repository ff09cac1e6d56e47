package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *RecalculationMetrics
	require.NotPanics(t, func() {
		m.ObserveRun(OutcomeOK, time.Second)
		m.ObserveRows(1, 2, 3)
	})
}

func TestRecalculationCounters(t *testing.T) {
	m := Recalculation()
	require.Same(t, m, Recalculation())

	before := testutil.ToFloat64(m.runs.WithLabelValues(OutcomeConfigError))
	m.ObserveRun(OutcomeConfigError, time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeConfigError)))

	created := testutil.ToFloat64(m.rows.WithLabelValues("created"))
	m.ObserveRows(4, 0, 1)
	require.Equal(t, created+4, testutil.ToFloat64(m.rows.WithLabelValues("created")))
}
