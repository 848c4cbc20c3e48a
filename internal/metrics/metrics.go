package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Dialogue metrics
	IntentsTotal        *prometheus.CounterVec
	ResolutionsTotal    *prometheus.CounterVec
	TurnDurationSeconds prometheus.Histogram
	SessionsActive      prometheus.Gauge

	// Catalog metrics
	CatalogIntegrityIssues *prometheus.CounterVec
	CatalogRows            *prometheus.GaugeVec
	CatalogReloadsTotal    *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal    *prometheus.CounterVec
	RateLimitedTotal   prometheus.Counter
	RateLimitedClients prometheus.Gauge
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		IntentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casmate_intents_total",
				Help: "Total number of classified messages by intent",
			},
			[]string{"intent"},
		),

		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casmate_resolutions_total",
				Help: "Total number of course and program resolutions by match type",
			},
			[]string{"kind", "match_type"}, // kind: course, program
		),

		TurnDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "casmate_turn_duration_seconds",
				Help:    "Time to answer one chat message",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "casmate_sessions_active",
				Help: "Chat sessions currently held in memory",
			},
		),

		CatalogIntegrityIssues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casmate_catalog_integrity_issues_total",
				Help: "Integrity issues found while building catalogs, by type",
			},
			[]string{"issue_type"},
		),

		CatalogRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "casmate_catalog_rows",
				Help: "Rows in the active catalog by table",
			},
			[]string{"table"},
		),

		CatalogReloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casmate_catalog_reloads_total",
				Help: "Catalog loads by status",
			},
			[]string{"status"}, // status: success, error
		),

		HTTPErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casmate_http_errors_total",
				Help: "HTTP error responses by error type",
			},
			[]string{"error_type"},
		),

		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "casmate_chat_rate_limited_total",
				Help: "Chat requests refused by the per-client rate limiter",
			},
		),

		RateLimitedClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "casmate_chat_rate_limiter_clients",
				Help: "Clients currently tracked by the chat rate limiter",
			},
		),
	}
}

// RecordIntent counts one classified message.
func (m *Metrics) RecordIntent(intent string) {
	m.IntentsTotal.WithLabelValues(intent).Inc()
}

// RecordResolution counts one resolution. kind is "course" or "program".
func (m *Metrics) RecordResolution(kind, matchType string) {
	m.ResolutionsTotal.WithLabelValues(kind, matchType).Inc()
}

// RecordTurn observes how long one message took to answer.
func (m *Metrics) RecordTurn(seconds float64) {
	m.TurnDurationSeconds.Observe(seconds)
}

// SetSessions sets the active session gauge.
func (m *Metrics) SetSessions(n int) {
	m.SessionsActive.Set(float64(n))
}

// RecordCatalog publishes the row counts and issues of a freshly built catalog.
func (m *Metrics) RecordCatalog(rows map[string]int, issues map[string]int) {
	for table, n := range rows {
		m.CatalogRows.WithLabelValues(table).Set(float64(n))
	}
	for issueType, n := range issues {
		m.CatalogIntegrityIssues.WithLabelValues(issueType).Add(float64(n))
	}
}

// RecordReload counts a catalog load attempt.
func (m *Metrics) RecordReload(status string) {
	m.CatalogReloadsTotal.WithLabelValues(status).Inc()
}

// RecordHTTPError counts an HTTP error response.
func (m *Metrics) RecordHTTPError(errorType string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordRateLimited counts one refused chat request.
func (m *Metrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}

// SetRateLimitedClients sets the tracked client gauge.
func (m *Metrics) SetRateLimitedClients(n int) {
	m.RateLimitedClients.Set(float64(n))
}
