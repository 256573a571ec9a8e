package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	RecordsLoaded prometheus.Gauge
	LoadFailures  *prometheus.CounterVec // labels: reason={source_unavailable,missing_column,invalid_date,unknown}
	SnapshotReady prometheus.Gauge
	LoadDuration  prometheus.Histogram

	// Chart metrics.
	ChartBuilds        prometheus.Counter
	ChartCache         *prometheus.CounterVec // labels: result={hit,miss}
	ChartBuildDuration prometheus.Histogram

	// Statistics publishing metrics.
	StatsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_dashboard",
			Name:      "records_loaded",
			Help:      "Number of flow records in the active snapshot.",
		}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_dashboard",
			Name:      "load_failures_total",
			Help:      "Workbook load failures by reason.",
		}, []string{"reason"}),
		SnapshotReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_dashboard",
			Name:      "snapshot_ready",
			Help:      "1 once a snapshot is installed, 0 before.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_dashboard",
			Name:      "load_duration_seconds",
			Help:      "Duration of building a snapshot from the source workbook.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ChartBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_dashboard",
			Name:      "chart_builds_total",
			Help:      "Total chart figures built from the snapshot.",
		}),
		ChartCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_dashboard",
			Name:      "chart_cache_total",
			Help:      "Chart cache lookups by result.",
		}, []string{"result"}),
		ChartBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_dashboard",
			Name:      "chart_build_duration_seconds",
			Help:      "Duration of building one chart figure.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		StatsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_dashboard",
			Name:      "stats_published_total",
			Help:      "Statistics snapshot publish attempts by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.RecordsLoaded,
		m.LoadFailures,
		m.SnapshotReady,
		m.LoadDuration,
		m.ChartBuilds,
		m.ChartCache,
		m.ChartBuildDuration,
		m.StatsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsLoaded:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "flood_dashboard", Name: "records_loaded"}),
		LoadFailures:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_dashboard", Name: "load_failures_total"}, []string{"reason"}),
		SnapshotReady:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "flood_dashboard", Name: "snapshot_ready"}),
		LoadDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_dashboard", Name: "load_duration_seconds"}),
		ChartBuilds:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_dashboard", Name: "chart_builds_total"}),
		ChartCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_dashboard", Name: "chart_cache_total"}, []string{"result"}),
		ChartBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_dashboard", Name: "chart_build_duration_seconds"}),
		StatsPublished:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_dashboard", Name: "stats_published_total"}, []string{"outcome"}),
	}
}
