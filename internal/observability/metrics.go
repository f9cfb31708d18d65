package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// monitoring service.
type Metrics struct {
	// Spreadsheet snapshot metrics.
	SnapshotFetches       *prometheus.CounterVec // labels: outcome={success,error}
	SnapshotFetchDuration prometheus.Histogram
	SnapshotCache         *prometheus.CounterVec // labels: result={hit,miss}

	ReportBuilds       prometheus.Counter
	OrphanMunicipality prometheus.Gauge

	// Reading submission metrics.
	Submissions *prometheus.CounterVec // labels: outcome={success,error}

	// Telemetry scraping metrics.
	ScraperRequests *prometheus.CounterVec // labels: outcome={success,empty,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SnapshotFetches,
		m.SnapshotFetchDuration,
		m.SnapshotCache,
		m.ReportBuilds,
		m.OrphanMunicipality,
		m.Submissions,
		m.ScraperRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SnapshotFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "river_monitor",
			Name:      "snapshot_fetches_total",
			Help:      "Spreadsheet snapshot fetches by outcome.",
		}, []string{"outcome"}),
		SnapshotFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "river_monitor",
			Name:      "snapshot_fetch_duration_seconds",
			Help:      "Duration of a full three-table snapshot fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SnapshotCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "river_monitor",
			Name:      "snapshot_cache_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		ReportBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "river_monitor",
			Name:      "report_builds_total",
			Help:      "Total consolidated report builds.",
		}),
		OrphanMunicipality: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "river_monitor",
			Name:      "orphan_municipalities",
			Help:      "Municipalities referencing an unknown river in the last built report.",
		}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "river_monitor",
			Name:      "submissions_total",
			Help:      "Reading submissions to the form endpoint by outcome.",
		}, []string{"outcome"}),
		ScraperRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "river_monitor",
			Name:      "scraper_requests_total",
			Help:      "Telemetry station scrapes by outcome.",
		}, []string{"outcome"}),
	}
}
