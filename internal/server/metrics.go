package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the triage API.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal     prometheus.Counter
	AnalysisDuration  prometheus.Histogram
	BatchesIngested   prometheus.Counter
	SearchesTotal     prometheus.Counter
	RequestsTotal     *prometheus.CounterVec
	RecordsPerAnalyze prometheus.Histogram
}

// NewMetrics creates and registers all instruments on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.AnalysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "triage_analyses_total",
		Help: "Total number of completed threat analyses",
	})
	m.AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_analysis_duration_seconds",
		Help:    "Wall-clock duration of report generation",
		Buckets: prometheus.DefBuckets,
	})
	m.BatchesIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "triage_batches_ingested_total",
		Help: "Total number of evidence batches stored",
	})
	m.SearchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "triage_searches_total",
		Help: "Total number of keyword searches served",
	})
	m.RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "status"})
	m.RecordsPerAnalyze = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_records_per_analysis",
		Help:    "Number of records submitted per analysis",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
	})

	m.registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.BatchesIngested,
		m.SearchesTotal,
		m.RequestsTotal,
		m.RecordsPerAnalyze,
	)
	return m
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
