package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mosaiq/mosaiq/internal/config"
	"github.com/mosaiq/mosaiq/internal/interaction"
	"github.com/mosaiq/mosaiq/internal/observability"
)

// Dependencies holds all injected dependencies for the HTTP transport layer.
type Dependencies struct {
	Config  *config.Config
	Service *interaction.Service
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Ready   observability.ReadinessChecks
}

// NewRouter creates a chi.Router with the full middleware pipeline and all
// route registrations. Health, readiness, and metrics endpoints bypass the
// request middleware chain.
func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	// Global middleware: applied to all routes including health.
	r.Use(Recovery(deps.Logger))
	r.Use(CORS(deps.Config.Server.CORS))
	r.Use(RequestID)
	r.Use(SecurityHeaders)

	// Operational routes.
	r.Get("/ui/health", observability.HandleHealth())
	r.Get("/ui/ready", observability.HandleReady(deps.Ready))
	if deps.Config.Observability.Metrics.Enabled {
		path := deps.Config.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, observability.Handler())
	}

	// API routes get the full middleware chain.
	r.Group(func(r chi.Router) {
		r.Use(observability.TracingMiddleware)
		if deps.Metrics != nil {
			r.Use(deps.Metrics.MetricsMiddleware)
		}
		r.Use(HandlerTimeout(deps.Config.Server.HandlerTimeout))
		r.Use(RequestLogging(deps.Logger))

		r.Get("/ui/navigation", handleNavigation(deps.Service))
		r.Get("/ui/dashboards/{dashboardId}", handleGetDashboard(deps.Service))
		r.Get("/ui/dashboards/{dashboardId}/state", handleGetDashboardState(deps.Service))
		r.Delete("/ui/dashboards/{dashboardId}/filters", handleClearFilters(deps.Service))
		r.Get("/ui/widgets/{widgetId}/data", handleGetWidgetData(deps.Service))
		r.Post("/ui/widgets/{widgetId}/drill", handleDrill(deps.Service))
		r.Post("/ui/widgets/{widgetId}/select", handleSelect(deps.Service))
	})

	return r
}
