package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// preprocessing run.
type Metrics struct {
	RowsRead    prometheus.Counter
	RowsCleaned prometheus.Counter

	// Per-dimension exclusions: rows missing the dimension value that were
	// left out of that aggregate only.
	RowsExcluded *prometheus.CounterVec // label: dimension

	LoaderWrites *prometheus.CounterVec // label: sink

	RunDuration prometheus.Histogram
	RunsTotal   *prometheus.CounterVec // label: outcome={success,error}
	RunActive   prometheus.Gauge
}

// NewMetrics creates and registers all run metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_prep",
			Name:      "rows_read_total",
			Help:      "Raw CSV data rows loaded from the input file.",
		}),
		RowsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_prep",
			Name:      "rows_cleaned_total",
			Help:      "Rows retained after cleaning and imputation.",
		}),
		RowsExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_prep",
			Name:      "rows_excluded_total",
			Help:      "Rows excluded from one aggregate for missing that dimension.",
		}, []string{"dimension"}),
		LoaderWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_prep",
			Name:      "loader_writes_total",
			Help:      "Successful dataset writes per output sink.",
		}, []string{"sink"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "accident_prep",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-transform-summarize-load run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_prep",
			Name:      "runs_total",
			Help:      "Completed runs by outcome.",
		}, []string{"outcome"}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_prep",
			Name:      "run_active",
			Help:      "1 while a preprocessing run is in progress.",
		}),
	}

	prometheus.MustRegister(
		m.RowsRead,
		m.RowsCleaned,
		m.RowsExcluded,
		m.LoaderWrites,
		m.RunDuration,
		m.RunsTotal,
		m.RunActive,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsRead:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "accident_prep", Name: "rows_read_total"}),
		RowsCleaned:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "accident_prep", Name: "rows_cleaned_total"}),
		RowsExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "accident_prep", Name: "rows_excluded_total"}, []string{"dimension"}),
		LoaderWrites: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "accident_prep", Name: "loader_writes_total"}, []string{"sink"}),
		RunDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "accident_prep", Name: "run_duration_seconds"}),
		RunsTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "accident_prep", Name: "runs_total"}, []string{"outcome"}),
		RunActive:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "accident_prep", Name: "run_active"}),
	}
}
