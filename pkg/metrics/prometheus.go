// Package metrics provides Prometheus metrics for the ladder service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the ladder service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Business metrics
	matchesSettled   prometheus.Counter
	settleDuplicates prometheus.Counter
	settleRejected   prometheus.Counter
	settleDuration   prometheus.Histogram

	// Scale gauges
	playerCount prometheus.Gauge
	teamCount   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance backed by a custom registry, keeping the
// default Go collectors out of the scrape.
var (
	globalManager  *Manager                 //nolint:gochecknoglobals // singleton metrics manager
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ladder",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesSettled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_settled_total",
		Help:      "Total number of matches settled",
	})

	m.settleDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settle_duplicates_total",
		Help:      "Total number of duplicate settle submissions rejected",
	})

	m.settleRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settle_rejected_total",
		Help:      "Total number of settle submissions rejected for invalid input",
	})

	m.settleDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settle_duration_milliseconds",
		Help:      "Histogram of settle latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.playerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "player_count",
		Help:      "Total number of registered players",
	})

	m.teamCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_count",
		Help:      "Total number of registered teams",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers operating on the global manager.

// RecordMatchSettled increments the settled-match counter.
func RecordMatchSettled() {
	globalManager.matchesSettled.Inc()
}

// RecordSettleDuplicate increments the duplicate-settle counter.
func RecordSettleDuplicate() {
	globalManager.settleDuplicates.Inc()
}

// RecordSettleRejected increments the rejected-settle counter.
func RecordSettleRejected() {
	globalManager.settleRejected.Inc()
}

// RecordSettleDuration records a settle latency observation.
func RecordSettleDuration(latencyMs float64) {
	globalManager.settleDuration.Observe(latencyMs)
}

// UpdatePlayerCount sets the registered-player gauge.
func UpdatePlayerCount(count int) {
	globalManager.playerCount.Set(float64(count))
}

// UpdateTeamCount sets the registered-team gauge.
func UpdateTeamCount(count int) {
	globalManager.teamCount.Set(float64(count))
}

// RecordHTTPRequest increments the request counter for an endpoint.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records a request latency observation.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry exposes the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
