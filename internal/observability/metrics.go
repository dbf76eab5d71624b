// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// History metrics
	HistoryCommits     *prometheus.CounterVec
	HistoryDedupSkips  *prometheus.CounterVec
	HistoryNavigations *prometheus.CounterVec
	EffectsPruned      prometheus.Counter

	// Session metrics
	ActiveSessions    prometheus.Gauge
	SessionActions    *prometheus.CounterVec
	PersistFailures   prometheus.Counter
	PersistDuration   prometheus.Histogram
	StreamSubscribers prometheus.Gauge

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	Migrations      *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fnsretail"
	}

	return &Metrics{
		// History metrics
		HistoryCommits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "commits_total",
			Help:      "Total number of committed history entries by effect type",
		}, []string{"effect_type"}),
		HistoryDedupSkips: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "dedup_skips_total",
			Help:      "Total number of change records skipped because nothing relevant changed",
		}, []string{"effect_type"}),
		HistoryNavigations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "navigations_total",
			Help:      "Total number of undo, redo and jump operations by outcome",
		}, []string{"operation", "status"}),
		EffectsPruned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "effects_pruned_total",
			Help:      "Total number of effects dropped because their products left the snapshot",
		}),

		// Session metrics
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "editor",
			Name:      "active_sessions",
			Help:      "Current number of open editor sessions",
		}),
		SessionActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "editor",
			Name:      "actions_total",
			Help:      "Total number of editor actions by name and outcome",
		}, []string{"action", "status"}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "editor",
			Name:      "persist_failures_total",
			Help:      "Total number of failed best-effort product list saves",
		}),
		PersistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "editor",
			Name:      "persist_duration_seconds",
			Help:      "Product list save latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		StreamSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "editor",
			Name:      "stream_subscribers",
			Help:      "Current number of websocket view subscribers",
		}),

		// HTTP metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
		Migrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "migrations_total",
			Help:      "Total number of migration files by database and outcome",
		}, []string{"database", "status"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordHistoryCommit increments the committed entries counter.
func RecordHistoryCommit(effectType string) {
	DefaultMetrics.HistoryCommits.WithLabelValues(effectType).Inc()
}

// RecordHistoryDedup increments the no-op change counter.
func RecordHistoryDedup(effectType string) {
	DefaultMetrics.HistoryDedupSkips.WithLabelValues(effectType).Inc()
}

// RecordNavigation records an undo, redo or jump and whether it moved the cursor.
func RecordNavigation(operation string, ok bool) {
	status := "ok"
	if !ok {
		status = "unavailable"
	}
	DefaultMetrics.HistoryNavigations.WithLabelValues(operation, status).Inc()
}

// RecordEffectsPruned adds n to the pruned effects counter.
func RecordEffectsPruned(n int) {
	if n > 0 {
		DefaultMetrics.EffectsPruned.Add(float64(n))
	}
}

// RecordSessionOpened increments the active sessions gauge.
func RecordSessionOpened() {
	DefaultMetrics.ActiveSessions.Inc()
}

// RecordSessionClosed decrements the active sessions gauge.
func RecordSessionClosed() {
	DefaultMetrics.ActiveSessions.Dec()
}

// RecordAction records an editor action outcome.
func RecordAction(action string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.SessionActions.WithLabelValues(action, status).Inc()
}

// RecordPersist records a product list save.
func RecordPersist(seconds float64, err error) {
	DefaultMetrics.PersistDuration.Observe(seconds)
	if err != nil {
		DefaultMetrics.PersistFailures.Inc()
	}
}

// UpdateStreamSubscribers adds delta to the websocket subscribers gauge.
func UpdateStreamSubscribers(delta int) {
	DefaultMetrics.StreamSubscribers.Add(float64(delta))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(method, path, status string, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(method, path, status).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordMigration counts one migration file as applied, skipped or failed.
func RecordMigration(database, status string) {
	DefaultMetrics.Migrations.WithLabelValues(database, status).Inc()
}
