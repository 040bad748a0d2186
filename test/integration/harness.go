// Package integration provides a reusable test harness for end-to-end
// testing of the Mosaiq analytics BFF. It starts a full HTTP server over
// in-memory dashboard definitions and seed data sources.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mosaiq/mosaiq/internal/config"
	"github.com/mosaiq/mosaiq/internal/dashboard"
	"github.com/mosaiq/mosaiq/internal/datasource"
	"github.com/mosaiq/mosaiq/internal/drilldown"
	"github.com/mosaiq/mosaiq/internal/interaction"
	"github.com/mosaiq/mosaiq/internal/observability"
	"github.com/mosaiq/mosaiq/internal/transport"
)

// TestHarness encapsulates a fully wired analytics BFF instance.
type TestHarness struct {
	t      *testing.T
	server *httptest.Server

	// Internal components exposed for advanced test scenarios.
	Dashboards *dashboard.Registry
	Sources    *datasource.MemoryProvider
	Drills     *drilldown.Store
	Service    *interaction.Service
}

// HarnessOption configures the test harness.
type HarnessOption func(*harnessConfig)

type harnessConfig struct {
	dashboardYAML  []string
	seedYAML       []string
	handlerTimeout time.Duration
}

// WithDashboard adds a dashboard definition given as YAML.
func WithDashboard(yamlContent string) HarnessOption {
	return func(c *harnessConfig) {
		c.dashboardYAML = append(c.dashboardYAML, yamlContent)
	}
}

// WithDataSource adds a seed data source given as YAML.
func WithDataSource(yamlContent string) HarnessOption {
	return func(c *harnessConfig) {
		c.seedYAML = append(c.seedYAML, yamlContent)
	}
}

// WithHandlerTimeout sets the per-request handler timeout.
func WithHandlerTimeout(d time.Duration) HarnessOption {
	return func(c *harnessConfig) {
		c.handlerTimeout = d
	}
}

// NewTestHarness creates and starts a full BFF test instance. When no
// fixtures are supplied, the default sales dashboard and data source are
// loaded. The server is cleaned up when the test completes.
func NewTestHarness(t *testing.T, opts ...HarnessOption) *TestHarness {
	t.Helper()

	hc := &harnessConfig{
		handlerTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(hc)
	}
	if len(hc.dashboardYAML) == 0 {
		hc.dashboardYAML = []string{SalesDashboardYAML}
	}
	if len(hc.seedYAML) == 0 {
		hc.seedYAML = []string{SalesSeedYAML}
	}

	// Step 1: Write fixtures to temp directories so the real loaders run.
	dashDir := t.TempDir()
	for i, content := range hc.dashboardYAML {
		writeFixture(t, dashDir, fmt.Sprintf("dashboard-%d.yaml", i), content)
	}
	seedDir := t.TempDir()
	for i, content := range hc.seedYAML {
		writeFixture(t, seedDir, fmt.Sprintf("source-%d.yaml", i), content)
	}

	// Step 2: Load seed data sources.
	sources, err := datasource.LoadSeeds([]string{seedDir})
	if err != nil {
		t.Fatalf("load seed data: %v", err)
	}
	provider := datasource.NewMemoryProvider(sources...)

	// Step 3: Load and validate dashboard definitions.
	loader := dashboard.NewLoader()
	defs, err := loader.LoadAll([]string{dashDir})
	if err != nil {
		t.Fatalf("load dashboard definitions: %v", err)
	}
	if verrs := dashboard.NewValidator().Validate(defs, provider); len(verrs) > 0 {
		t.Fatalf("dashboard validation failed: %v", verrs)
	}
	registry := dashboard.NewRegistry(defs)

	// Step 4: Build the interaction service.
	drills := drilldown.NewStore()
	logger := zap.NewNop()
	metrics := observability.InitMetrics(prometheus.NewRegistry())
	service := interaction.NewService(registry, provider, drills, logger, metrics)

	// Step 5: Build config and router.
	cfg := config.Defaults()
	cfg.Server.HandlerTimeout = hc.handlerTimeout
	cfg.Dashboards.Directories = []string{dashDir}
	cfg.DataSources.Directories = []string{seedDir}

	router := transport.NewRouter(transport.Dependencies{
		Config:  cfg,
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		Ready: observability.ReadinessChecks{
			DefinitionsLoaded: func() bool { return len(registry.AllDashboards()) > 0 },
			DataSourcesLoaded: func() bool { return len(provider.IDs()) > 0 },
		},
	})

	h := &TestHarness{
		t:          t,
		Dashboards: registry,
		Sources:    provider,
		Drills:     drills,
		Service:    service,
	}

	h.server = httptest.NewServer(router)
	t.Cleanup(func() {
		h.server.Close()
	})

	return h
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

// BaseURL returns the test server's base URL.
func (h *TestHarness) BaseURL() string {
	return h.server.URL
}

// --- HTTP client helpers ---

// GET performs a GET request against the test server.
func (h *TestHarness) GET(path string) *http.Response {
	h.t.Helper()
	return h.doRequest(http.MethodGet, path, nil, nil)
}

// POST performs a POST request with a JSON body.
func (h *TestHarness) POST(path string, body any) *http.Response {
	h.t.Helper()
	return h.doRequest(http.MethodPost, path, body, nil)
}

// DELETE performs a DELETE request.
func (h *TestHarness) DELETE(path string) *http.Response {
	h.t.Helper()
	return h.doRequest(http.MethodDelete, path, nil, nil)
}

// GETWithHeaders performs a GET request with additional headers.
func (h *TestHarness) GETWithHeaders(path string, headers map[string]string) *http.Response {
	h.t.Helper()
	return h.doRequest(http.MethodGet, path, nil, headers)
}

func (h *TestHarness) doRequest(method, path string, body any, headers map[string]string) *http.Response {
	h.t.Helper()

	url := h.server.URL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal request body: %v", err)
		}
		bodyReader = strings.NewReader(string(data))
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		h.t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// ParseJSON reads the response body and unmarshals it into the target.
func (h *TestHarness) ParseJSON(resp *http.Response, target any) {
	h.t.Helper()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		h.t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		h.t.Fatalf("unmarshal response body: %v\nbody: %s", err, string(data))
	}
}

// AssertStatus checks that the response has the expected status code.
func (h *TestHarness) AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Errorf("status = %d, want %d\nbody: %s", resp.StatusCode, expected, string(body))
	}
}

// AssertJSON checks that the response has the expected status and parses the body.
func (h *TestHarness) AssertJSON(t *testing.T, resp *http.Response, expected int, target any) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d, want %d\nbody: %s", resp.StatusCode, expected, string(body))
	}
	h.ParseJSON(resp, target)
}

// --- Default fixtures ---

// SalesSeedYAML is the default seed data source: regional sales orders with
// a timestamp column for temporal bucket queries.
const SalesSeedYAML = `
id: sales
name: Regional Sales
schema:
  - name: region
    type: string
  - name: city
    type: string
  - name: revenue
    type: number
  - name: order_date
    type: date
records:
  - region: West
    city: Seattle
    revenue: 100
    order_date: "2024-03-10"
  - region: West
    city: Portland
    revenue: 50
    order_date: "2024-06-21"
  - region: East
    city: Boston
    revenue: 70
    order_date: "2024-03-02"
  - region: East
    city: Augusta
    revenue: 30
    order_date: "2025-01-15"
  - region: null
    city: null
    revenue: 5
    order_date: null
`

// SalesDashboardYAML is the default dashboard: a drillable revenue chart, a
// region slicer, and a raw orders table that opts out of cross-filtering.
const SalesDashboardYAML = `
dashboard: sales
title: Sales Overview
version: "1"
navigation:
  label: Sales
  icon: chart-bar
  order: 1
widgets:
  - id: revenue-chart
    kind: chart
    title: Revenue by Region
    data_source_id: sales
    chart:
      chart_type: bar
      x_axis: region
      y_axis: [revenue]
      aggregation: sum
      drill_down_hierarchy: [region, city]
  - id: region-slicer
    kind: slicer
    title: Region
    data_source_id: sales
    slicer:
      field: region
  - id: orders-table
    kind: table
    title: Raw Orders
    data_source_id: sales
    table:
      cross_filter_disabled: true
      columns:
        - field: region
        - field: city
        - field: revenue
        - field: order_date
`
