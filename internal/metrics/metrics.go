// Package metrics exposes prometheus instrumentation for the coefficient
// engine: computation counts and latency, tree sizes, and repository reads.
// Collectors live on a private registry so tests and embedders never collide
// with the global default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the engine's prometheus collectors and the HTTP handler
// that serves them.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	computations    *prometheus.CounterVec
	duration        prometheus.Histogram
	nodesBuilt      prometheus.Counter
	repositoryReads prometheus.Counter
}

// NewMetrics creates the collector set on a fresh registry, including the Go
// runtime collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coicalc_computations_total",
			Help: "Number of COI computations, labeled by outcome status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coicalc_computation_duration_seconds",
			Help:    "Wall-clock duration of COI computations.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		nodesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coicalc_pedigree_nodes_built_total",
			Help: "Total pedigree tree nodes materialized across computations.",
		}),
		repositoryReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coicalc_repository_reads_total",
			Help: "Total ancestry record lookups issued to the repository.",
		}),
	}

	registry.MustRegister(
		m.computations,
		m.duration,
		m.nodesBuilt,
		m.repositoryReads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// ComputationObserved records one finished computation. It implements
// pedigree.Observer.
func (m *Metrics) ComputationObserved(status string, d time.Duration) {
	m.computations.WithLabelValues(status).Inc()
	m.duration.Observe(d.Seconds())
}

// NodesBuilt records the tree size of one computation. It implements
// pedigree.Observer.
func (m *Metrics) NodesBuilt(n int) {
	m.nodesBuilt.Add(float64(n))
}

// IncRepositoryReads counts a single repository lookup. It implements
// store.ReadCounter.
func (m *Metrics) IncRepositoryReads() {
	m.repositoryReads.Inc()
}

// WritePrometheus serves the registry in the prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
