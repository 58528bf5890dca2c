package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StoreMetrics holds the Prometheus collectors for the document store.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewStoreMetrics registers the store collectors on the given registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lending_store_operations_total",
				Help: "Document store operations by kind and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lending_store_latency_seconds",
				Help:    "Document store operation latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.operations, m.latency)
	return m
}

// Observe records one store operation.
func (m *StoreMetrics) Observe(operation string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(seconds)
}

// MetricsHandler returns the HTTP handler for the /metrics endpoint.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
