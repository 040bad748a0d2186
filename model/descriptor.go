package model

// NavigationTree is the top-level navigation structure returned to the frontend.
type NavigationTree struct {
	Items []NavigationNode `json:"items"`
}

// NavigationNode is a single node in the navigation tree.
type NavigationNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Route string `json:"route,omitempty"`
}

// DashboardDescriptor is the resolved dashboard sent to the frontend.
type DashboardDescriptor struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Widgets []WidgetDescriptor `json:"widgets"`
}

// WidgetDescriptor is the resolved widget metadata sent to the frontend:
// enough for the renderer to bind axes and legend, request data, and decide
// whether drill and cross-filter interactions are available.
type WidgetDescriptor struct {
	ID                 string     `json:"id"`
	Kind               WidgetKind `json:"kind"`
	Title              string     `json:"title,omitempty"`
	ChartType          string     `json:"chart_type,omitempty"`
	XAxisField         string     `json:"x_axis_field,omitempty"`
	YAxisFields        []string   `json:"y_axis_fields,omitempty"`
	LegendField        string     `json:"legend_field,omitempty"`
	DrillCapable       bool       `json:"drill_capable"`
	CrossFilterEnabled bool       `json:"cross_filter_enabled"`
	DataEndpoint       string     `json:"data_endpoint"`
}

// WidgetDataResponse carries freshly aggregated chart-ready rows for one
// widget, together with the fields the rows are currently grouped by.
type WidgetDataResponse struct {
	WidgetID      string          `json:"widget_id"`
	Fields        []string        `json:"fields"`
	LegendField   string          `json:"legend_field,omitempty"`
	Rows          []Row           `json:"rows"`
	DrillState    *DrillDownState `json:"drill_state,omitempty"`
	CrossFiltered bool            `json:"cross_filtered"`
}

// DashboardStateDescriptor is a snapshot of all interaction state on a
// dashboard: active cross-filters and per-widget drill-down state. Plain
// immutable data, safe for undo/redo snapshots by the caller.
type DashboardStateDescriptor struct {
	DashboardID  string                    `json:"dashboard_id"`
	CrossFilters []CrossFilterEntry        `json:"cross_filters"`
	DrillStates  map[string]DrillDownState `json:"drill_states"`
}
