package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Histogram bucket definitions.
var (
	httpDurationBuckets  = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	queryDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
	rowCountBuckets      = []float64{1, 10, 50, 100, 500, 1000, 5000, 10000}
)

// Metrics holds all Prometheus metric instruments for the analytics service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Widget query metrics
	WidgetQueriesTotal  *prometheus.CounterVec
	WidgetQueryDuration *prometheus.HistogramVec
	WidgetQueryRows     *prometheus.HistogramVec

	// Interaction metrics
	DrillTransitionsTotal   *prometheus.CounterVec
	CrossFilterChangesTotal *prometheus.CounterVec
	CrossFiltersActive      *prometheus.GaugeVec

	// System metrics
	DefinitionReloadTotal *prometheus.CounterVec
	DashboardsLoaded      prometheus.Gauge
	DataSourceRecords     *prometheus.GaugeVec
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// HTTP
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mosaiq_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mosaiq_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),

		// Widget queries
		WidgetQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mosaiq_widget_queries_total",
			Help: "Total number of widget data queries.",
		}, []string{"widget_id", "status"}),
		WidgetQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mosaiq_widget_query_duration_seconds",
			Help:    "Widget data pipeline duration in seconds.",
			Buckets: queryDurationBuckets,
		}, []string{"widget_id"}),
		WidgetQueryRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mosaiq_widget_query_rows",
			Help:    "Number of rows returned by widget data queries.",
			Buckets: rowCountBuckets,
		}, []string{"widget_id"}),

		// Interactions
		DrillTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mosaiq_drill_transitions_total",
			Help: "Total number of drill-down state transitions.",
		}, []string{"widget_id", "direction"}),
		CrossFilterChangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mosaiq_cross_filter_changes_total",
			Help: "Total number of cross-filter registry changes.",
		}, []string{"dashboard_id", "action"}),
		CrossFiltersActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mosaiq_cross_filters_active",
			Help: "Number of currently active cross-filter sources.",
		}, []string{"dashboard_id"}),

		// System
		DefinitionReloadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mosaiq_definition_reload_total",
			Help: "Total dashboard definition reloads.",
		}, []string{"status"}),
		DashboardsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mosaiq_dashboards_loaded",
			Help: "Number of loaded dashboard definitions.",
		}),
		DataSourceRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mosaiq_data_source_records",
			Help: "Number of records held per data source.",
		}, []string{"data_source_id"}),
	}

	reg.MustRegister(
		// HTTP
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		// Widget queries
		m.WidgetQueriesTotal,
		m.WidgetQueryDuration,
		m.WidgetQueryRows,
		// Interactions
		m.DrillTransitionsTotal,
		m.CrossFilterChangesTotal,
		m.CrossFiltersActive,
		// System
		m.DefinitionReloadTotal,
		m.DashboardsLoaded,
		m.DataSourceRecords,
	)

	return m
}

// --- Recording helpers ---

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(method, pathPattern string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
}

// RecordWidgetQuery records one widget data query.
func (m *Metrics) RecordWidgetQuery(widgetID, status string, duration time.Duration, rows int) {
	m.WidgetQueriesTotal.WithLabelValues(widgetID, status).Inc()
	m.WidgetQueryDuration.WithLabelValues(widgetID).Observe(duration.Seconds())
	m.WidgetQueryRows.WithLabelValues(widgetID).Observe(float64(rows))
}

// RecordDrillTransition records a drill-down transition. Direction is one of
// "down", "up", "expand", "reset".
func (m *Metrics) RecordDrillTransition(widgetID, direction string) {
	m.DrillTransitionsTotal.WithLabelValues(widgetID, direction).Inc()
}

// RecordCrossFilterChange records a cross-filter registry change and updates
// the active-source gauge. Action is one of "add", "remove", "clear".
func (m *Metrics) RecordCrossFilterChange(dashboardID, action string, active int) {
	m.CrossFilterChangesTotal.WithLabelValues(dashboardID, action).Inc()
	m.CrossFiltersActive.WithLabelValues(dashboardID).Set(float64(active))
}

// RecordDefinitionReload records a definition reload.
func (m *Metrics) RecordDefinitionReload(status string) {
	m.DefinitionReloadTotal.WithLabelValues(status).Inc()
}

// SetDashboardsLoaded sets the number of loaded dashboard definitions.
func (m *Metrics) SetDashboardsLoaded(count float64) {
	m.DashboardsLoaded.Set(count)
}

// SetDataSourceRecords sets the record count gauge for a data source.
func (m *Metrics) SetDataSourceRecords(dataSourceID string, count float64) {
	m.DataSourceRecords.WithLabelValues(dataSourceID).Set(count)
}

// --- HTTP Middleware ---

// MetricsMiddleware returns HTTP middleware that records request metrics using
// chi's route pattern (not the actual URL path) to avoid label cardinality
// explosion.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		m.RecordHTTPRequest(r.Method, routePattern(r), sw.status, time.Since(start))
	})
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// routePattern extracts chi's route pattern from the request context.
// Falls back to the raw URL path if no pattern is found.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	pattern := strings.Join(rctx.RoutePatterns, "")
	// chi route patterns have trailing /*, remove it.
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" {
		return r.URL.Path
	}
	return pattern
}

// metricsResponseWriter wraps http.ResponseWriter to capture status and bytes.
type metricsResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
