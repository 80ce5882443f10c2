package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flood_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	Refreshes       *prometheus.CounterVec // labels: outcome={success,error}
	ReadingsFetched prometheus.Counter
	RefreshDuration prometheus.Histogram
	StationsByLevel *prometheus.GaugeVec // labels: level
	OnlineSensors   prometheus.Gauge

	// Upstream weather API.
	APIRequests *prometheus.CounterVec // labels: outcome={success,error}
	APIDuration prometheus.Histogram
	APICache    *prometheus.CounterVec // labels: result={hit,miss}

	// Publishers fan the snapshot out to kafka, websocket, and the archive.
	PublishErrors *prometheus.CounterVec // labels: publisher

	HTTPRequests *prometheus.CounterVec // labels: route, code
	WSClients    prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.Refreshes,
		m.ReadingsFetched,
		m.RefreshDuration,
		m.StationsByLevel,
		m.OnlineSensors,
		m.APIRequests,
		m.APIDuration,
		m.APICache,
		m.PublishErrors,
		m.HTTPRequests,
		m.WSClients,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      help("Snapshot refresh cycles by outcome."),
		}, []string{"outcome"}),
		ReadingsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_fetched_total",
			Help:      help("Total readings returned by the weather API."),
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      help("Duration of a complete fetch-aggregate-publish cycle."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StationsByLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stations",
			Help:      help("Stations at each alert level in the current snapshot."),
		}, []string{"level"}),
		OnlineSensors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_sensors",
			Help:      help("Stations reporting in the current snapshot."),
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      help("Weather API requests by outcome."),
		}, []string{"outcome"}),
		APIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_duration_seconds",
			Help:      help("Weather API request duration in seconds."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}),
		APICache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_cache_total",
			Help:      help("Weather API cache lookups by result."),
		}, []string{"result"}),
		PublishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      help("Snapshot publish failures by publisher."),
		}, []string{"publisher"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      help("HTTP requests by route template and status code."),
		}, []string{"route", "code"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      help("Connected websocket clients."),
		}),
	}
}
