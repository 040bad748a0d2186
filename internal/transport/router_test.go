package transport

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mosaiq/mosaiq/internal/config"
	"github.com/mosaiq/mosaiq/internal/dashboard"
	"github.com/mosaiq/mosaiq/internal/datasource"
	"github.com/mosaiq/mosaiq/internal/drilldown"
	"github.com/mosaiq/mosaiq/internal/interaction"
	"github.com/mosaiq/mosaiq/internal/observability"
	"github.com/mosaiq/mosaiq/model"
)

// testDeps returns Dependencies wired to a small in-memory dashboard.
func testDeps() Dependencies {
	cfg := config.Defaults()
	cfg.Server.CORS.AllowedOrigins = []string{"https://app.example.com"}
	cfg.Server.HandlerTimeout = 5 * time.Second

	sources := datasource.NewMemoryProvider(model.DataSource{
		ID: "sales",
		Schema: []model.Field{
			{Name: "region", Type: model.FieldTypeString},
			{Name: "city", Type: model.FieldTypeString},
			{Name: "revenue", Type: model.FieldTypeNumber},
		},
		Records: []model.Row{
			{"region": "West", "city": "Seattle", "revenue": 100.0},
			{"region": "East", "city": "Boston", "revenue": 70.0},
		},
	})

	registry := dashboard.NewRegistry([]model.DashboardDefinition{{
		Dashboard: "sales",
		Title:     "Sales Overview",
		Version:   "1.0",
		Widgets: []model.Widget{
			{
				ID: "revenue-chart", Kind: model.WidgetChart, DataSourceID: "sales",
				Chart: &model.ChartWidget{
					ChartType: "bar", XAxis: "region", YAxis: []string{"revenue"},
					Aggregation:        model.AggSum,
					DrillDownHierarchy: []string{"region", "city"},
				},
			},
			{
				ID: "region-slicer", Kind: model.WidgetSlicer, DataSourceID: "sales",
				Slicer: &model.SlicerWidget{Field: "region"},
			},
		},
	}})

	logger := zap.NewNop()
	svc := interaction.NewService(registry, sources, drilldown.NewStore(), logger, nil)

	return Dependencies{
		Config:  cfg,
		Service: svc,
		Logger:  logger,
		Ready: observability.ReadinessChecks{
			DefinitionsLoaded: func() bool { return len(registry.AllDashboards()) > 0 },
			DataSourcesLoaded: func() bool { return len(sources.IDs()) > 0 },
		},
	}
}

func TestNewRouter_health(t *testing.T) {
	r := NewRouter(testDeps())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ui/health", nil))

	if w.Code != 200 {
		t.Errorf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestNewRouter_ready(t *testing.T) {
	r := NewRouter(testDeps())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ui/ready", nil))

	if w.Code != 200 {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestNewRouter_metrics(t *testing.T) {
	r := NewRouter(testDeps())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != 200 {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestNewRouter_navigation(t *testing.T) {
	r := NewRouter(testDeps())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ui/navigation", nil))

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var tree model.NavigationTree
	json.NewDecoder(w.Body).Decode(&tree)
	if len(tree.Items) != 1 || tree.Items[0].ID != "sales" {
		t.Errorf("items = %v", tree.Items)
	}
}

func TestNewRouter_dashboard(t *testing.T) {
	r := NewRouter(testDeps())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ui/dashboards/sales", nil))

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var desc model.DashboardDescriptor
	json.NewDecoder(w.Body).Decode(&desc)
	if len(desc.Widgets) != 2 {
		t.Errorf("widgets = %d, want 2", len(desc.Widgets))
	}
}

func TestNewRouter_dashboard_notFound(t *testing.T) {
	r := NewRouter(testDeps())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ui/dashboards/missing", nil))

	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestNewRouter_widgetData(t *testing.T) {
	r := NewRouter(testDeps())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ui/widgets/revenue-chart/data", nil))

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp model.WidgetDataResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(resp.Rows))
	}
}

func TestNewRouter_drill(t *testing.T) {
	r := NewRouter(testDeps())

	body := strings.NewReader(`{"action": "down", "value": "West"}`)
	req := httptest.NewRequest("POST", "/ui/widgets/revenue-chart/drill", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp model.WidgetDataResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.DrillState == nil || resp.DrillState.CurrentLevel != 1 {
		t.Errorf("drill state = %+v, want level 1", resp.DrillState)
	}
	if len(resp.Rows) != 1 {
		t.Errorf("rows = %d, want 1 (West city only)", len(resp.Rows))
	}
}

func TestNewRouter_drill_invalidBody(t *testing.T) {
	r := NewRouter(testDeps())

	req := httptest.NewRequest("POST", "/ui/widgets/revenue-chart/drill", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestNewRouter_selectAndState(t *testing.T) {
	r := NewRouter(testDeps())

	req := httptest.NewRequest("POST", "/ui/widgets/region-slicer/select", strings.NewReader(`{"value": "West"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("select status = %d, want 200: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ui/dashboards/sales/state", nil))
	if w.Code != 200 {
		t.Fatalf("state status = %d, want 200", w.Code)
	}
	var state model.DashboardStateDescriptor
	json.NewDecoder(w.Body).Decode(&state)
	if len(state.CrossFilters) != 1 {
		t.Errorf("cross filters = %d, want 1", len(state.CrossFilters))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/ui/dashboards/sales/filters", nil))
	if w.Code != 204 {
		t.Errorf("clear status = %d, want 204", w.Code)
	}
}

func TestNewRouter_requestIDHeader(t *testing.T) {
	r := NewRouter(testDeps())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ui/navigation", nil))

	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header not set")
	}
}

func TestNewRouter_securityHeaders(t *testing.T) {
	r := NewRouter(testDeps())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ui/health", nil))

	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestNewRouter_cors(t *testing.T) {
	r := NewRouter(testDeps())

	req := httptest.NewRequest("OPTIONS", "/ui/navigation", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 204 {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
