package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCommit(t *testing.T) {
	m := New()

	m.ObserveCommit(0, 135000)
	m.ObserveCommit(2, 45000)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutsTotal.WithLabelValues("complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutsTotal.WithLabelValues("partial")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StockUpdateFailures))
	assert.Equal(t, 180000.0, testutil.ToFloat64(m.SalesAmountTotal))
}

func TestObserveCommit_NonPositiveTotal(t *testing.T) {
	m := New()

	assert.NotPanics(t, func() {
		m.ObserveCommit(0, -10)
		m.ObserveCommit(1, 0)
	})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SalesAmountTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CheckoutsTotal.WithLabelValues("complete"))+testutil.ToFloat64(m.CheckoutsTotal.WithLabelValues("partial")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveCommit(1, 10)
		m.ObserveCatalogDegraded()
		m.ObserveInvoiceRendered()
	})
}
