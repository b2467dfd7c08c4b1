// Package metrics exposes Prometheus collectors for the analysis service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	AnalysesTotal    *prometheus.CounterVec // labels: status
	AnalysisDuration prometheus.Histogram
	FetchErrors      *prometheus.CounterVec // labels: source
	SignalsTotal     *prometheus.CounterVec // labels: signal
	CacheHits        *prometheus.CounterVec // labels: source
	CacheMisses      *prometheus.CounterVec // labels: source
	ScansTotal       prometheus.Counter
	LastScan         prometheus.Gauge
}

// New registers and returns all metrics.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obvsentinel_analyses_total",
			Help: "Ticker analyses by result status",
		}, []string{"status"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "obvsentinel_analysis_duration_seconds",
			Help:    "Per-ticker analysis latency including fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obvsentinel_fetch_errors_total",
			Help: "Failed candle fetches by data source",
		}, []string{"source"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obvsentinel_signals_total",
			Help: "Divergence classifications at the latest bar",
		}, []string{"signal"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obvsentinel_cache_hits_total",
			Help: "Candle cache hits",
		}, []string{"source"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obvsentinel_cache_misses_total",
			Help: "Candle cache misses",
		}, []string{"source"}),
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "obvsentinel_scans_total",
			Help: "Completed watchlist scans",
		}),
		LastScan: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "obvsentinel_last_scan_timestamp_seconds",
			Help: "Unix time of the last completed watchlist scan",
		}),
	}

	m.Registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.FetchErrors,
		m.SignalsTotal,
		m.CacheHits,
		m.CacheMisses,
		m.ScansTotal,
		m.LastScan,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAnalysis(status string, elapsed time.Duration) {
	m.AnalysesTotal.WithLabelValues(status).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSignal(label string) { m.SignalsTotal.WithLabelValues(label).Inc() }
func (m *Metrics) FetchError(source string)   { m.FetchErrors.WithLabelValues(source).Inc() }
func (m *Metrics) CacheHit(source string)     { m.CacheHits.WithLabelValues(source).Inc() }
func (m *Metrics) CacheMiss(source string)    { m.CacheMisses.WithLabelValues(source).Inc() }

// ScanCompleted records the end of a watchlist scan.
func (m *Metrics) ScanCompleted(at time.Time) {
	m.ScansTotal.Inc()
	m.LastScan.Set(float64(at.Unix()))
}
