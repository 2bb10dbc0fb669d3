// Package prom records pipeline metrics in a Prometheus registry.
package prom

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.PipelineMetrics = (*Metrics)(nil)

const namespace = "scout"

// Metrics owns a private registry so tests and multiple servers never
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	searches         *prometheus.CounterVec
	records          *prometheus.CounterVec
	dropped          prometheus.Counter
	retrievalSeconds *prometheus.HistogramVec
	retrievalErrors  *prometheus.CounterVec
}

// New creates and registers the pipeline collectors plus the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Pipeline runs by outcome",
	}, []string{"outcome"})
	m.records = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_total",
		Help:      "Event records returned, by category",
	}, []string{"category"})
	m.dropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_dropped_total",
		Help:      "Generator records dropped for missing required fields",
	})
	m.retrievalSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "retrieval_duration_seconds",
		Help:      "Time spent in grounded generation calls",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 90, 120},
	}, []string{"provider"})
	m.retrievalErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retrieval_errors_total",
		Help:      "Failed grounded generation calls",
	}, []string{"provider"})

	m.registry.MustRegister(
		m.searches, m.records, m.dropped, m.retrievalSeconds, m.retrievalErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRetrieval records one generator call.
func (m *Metrics) ObserveRetrieval(provider string, d time.Duration, err error) {
	m.retrievalSeconds.WithLabelValues(provider).Observe(d.Seconds())
	if err != nil {
		m.retrievalErrors.WithLabelValues(provider).Inc()
	}
}

// ObserveSearch records one pipeline outcome.
func (m *Metrics) ObserveSearch(outcome string) {
	m.searches.WithLabelValues(outcome).Inc()
}

// ObserveRecords counts kept records by category and dropped records.
func (m *Metrics) ObserveRecords(records []domain.EventRecord, dropped int) {
	for _, rec := range records {
		m.records.WithLabelValues(rec.Category.String()).Inc()
	}
	if dropped > 0 {
		m.dropped.Add(float64(dropped))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
