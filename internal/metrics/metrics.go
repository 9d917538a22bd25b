// Package metrics holds the prometheus collectors of the back office.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bodega"

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	CheckoutsTotal      *prometheus.CounterVec
	StockUpdateFailures prometheus.Counter
	SalesAmountTotal    prometheus.Counter
	CatalogDegraded     prometheus.Counter
	InvoicesRendered    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CheckoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "commits_total",
			Help:      "Checkout commits by result (complete/partial)",
		}, []string{"result"}),
		StockUpdateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "stock_update_failures_total",
			Help:      "Cart lines whose stock decrement failed",
		}),
		SalesAmountTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "sales_amount_total",
			Help:      "Sum of invoice net totals",
		}),
		CatalogDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "degraded_reads_total",
			Help:      "Catalog reads answered with an empty set because the store failed",
		}),
		InvoicesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "invoice",
			Name:      "rendered_total",
			Help:      "Invoice documents rendered",
		}),
	}

	m.registry.MustRegister(
		m.CheckoutsTotal,
		m.StockUpdateFailures,
		m.SalesAmountTotal,
		m.CatalogDegraded,
		m.InvoicesRendered,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCommit(failedLines int, total int64) {
	if m == nil {
		return
	}
	result := "complete"
	if failedLines > 0 {
		result = "partial"
	}
	m.CheckoutsTotal.WithLabelValues(result).Inc()
	m.StockUpdateFailures.Add(float64(failedLines))
	// Counter.Add panics on negatives
	if total > 0 {
		m.SalesAmountTotal.Add(float64(total))
	}
}

func (m *Metrics) ObserveCatalogDegraded() {
	if m == nil {
		return
	}
	m.CatalogDegraded.Inc()
}

func (m *Metrics) ObserveInvoiceRendered() {
	if m == nil {
		return
	}
	m.InvoicesRendered.Inc()
}
