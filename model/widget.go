package model

// WidgetKind discriminates the widget variants. Each variant carries only the
// configuration its kind actually uses; the engine never sees the variant
// itself, only the WidgetQuerySpec projected from it.
type WidgetKind string

const (
	WidgetChart  WidgetKind = "chart"
	WidgetTable  WidgetKind = "table"
	WidgetPivot  WidgetKind = "pivot"
	WidgetSlicer WidgetKind = "slicer"
)

// ValidWidgetKind reports whether k is a recognized widget kind.
func ValidWidgetKind(k WidgetKind) bool {
	switch k {
	case WidgetChart, WidgetTable, WidgetPivot, WidgetSlicer:
		return true
	}
	return false
}

// Widget is a tagged union over the widget variants. Exactly one of the
// variant pointers matching Kind is set.
type Widget struct {
	ID           string     `yaml:"id"             json:"id"`
	Kind         WidgetKind `yaml:"kind"           json:"kind"`
	Title        string     `yaml:"title"          json:"title,omitempty"`
	DataSourceID string     `yaml:"data_source_id" json:"data_source_id"`

	Chart  *ChartWidget  `yaml:"chart,omitempty"  json:"chart,omitempty"`
	Table  *TableWidget  `yaml:"table,omitempty"  json:"table,omitempty"`
	Pivot  *PivotWidget  `yaml:"pivot,omitempty"  json:"pivot,omitempty"`
	Slicer *SlicerWidget `yaml:"slicer,omitempty" json:"slicer,omitempty"`
}

// ChartWidget configures a chart (bar, line, pie, ...) widget.
type ChartWidget struct {
	ChartType           string          `yaml:"chart_type"                      json:"chart_type"`
	XAxis               string          `yaml:"x_axis"                          json:"x_axis"`
	YAxis               []string        `yaml:"y_axis"                          json:"y_axis"`
	Aggregation         AggregationType `yaml:"aggregation"                     json:"aggregation"`
	Filters             []Filter        `yaml:"filters,omitempty"               json:"filters,omitempty"`
	DrillDownHierarchy  []string        `yaml:"drill_down_hierarchy,omitempty"  json:"drill_down_hierarchy,omitempty"`
	LegendHierarchy     []string        `yaml:"legend_hierarchy,omitempty"      json:"legend_hierarchy,omitempty"`
	Legend              string          `yaml:"legend,omitempty"                json:"legend,omitempty"`
	ValueFormat         *FormatSpec     `yaml:"value_format,omitempty"          json:"value_format,omitempty"`
	CrossFilterDisabled bool            `yaml:"cross_filter_disabled,omitempty" json:"cross_filter_disabled,omitempty"`
}

// TableWidget configures a tabular widget. When GroupBy is set the table
// shows aggregated rows; otherwise it shows raw records.
type TableWidget struct {
	Columns             []ColumnSpec    `yaml:"columns"                         json:"columns"`
	GroupBy             string          `yaml:"group_by,omitempty"              json:"group_by,omitempty"`
	Values              []string        `yaml:"values,omitempty"                json:"values,omitempty"`
	Aggregation         AggregationType `yaml:"aggregation,omitempty"           json:"aggregation,omitempty"`
	Filters             []Filter        `yaml:"filters,omitempty"               json:"filters,omitempty"`
	CrossFilterDisabled bool            `yaml:"cross_filter_disabled,omitempty" json:"cross_filter_disabled,omitempty"`
}

// ColumnSpec describes one table column.
type ColumnSpec struct {
	Field  string      `yaml:"field"            json:"field"`
	Label  string      `yaml:"label,omitempty"  json:"label,omitempty"`
	Format *FormatSpec `yaml:"format,omitempty" json:"format,omitempty"`
}

// PivotWidget configures a pivot widget. Rows doubles as the drill-down
// hierarchy when no explicit hierarchy is configured.
type PivotWidget struct {
	Rows                []string        `yaml:"rows"                            json:"rows"`
	Values              []string        `yaml:"values"                          json:"values"`
	Aggregation         AggregationType `yaml:"aggregation"                     json:"aggregation"`
	Filters             []Filter        `yaml:"filters,omitempty"               json:"filters,omitempty"`
	CrossFilterDisabled bool            `yaml:"cross_filter_disabled,omitempty" json:"cross_filter_disabled,omitempty"`
}

// SlicerWidget configures a slicer: a control listing the distinct values of
// one field, emitting cross-filters on selection.
type SlicerWidget struct {
	Field               string `yaml:"field"                           json:"field"`
	CrossFilterDisabled bool   `yaml:"cross_filter_disabled,omitempty" json:"cross_filter_disabled,omitempty"`
}

// FormatSpec configures display formatting for a numeric value.
type FormatSpec struct {
	// Style is one of "number", "currency", "percent".
	Style    string `yaml:"style"              json:"style"`
	Decimals int    `yaml:"decimals"           json:"decimals"`
	Currency string `yaml:"currency,omitempty" json:"currency,omitempty"`
}

// WidgetQuerySpec is the narrowed, kind-independent projection of a widget
// that the engine consumes: which field to group by, which fields to
// aggregate, and which filters to apply.
type WidgetQuerySpec struct {
	WidgetID            string          `json:"widget_id"`
	DataSourceID        string          `json:"data_source_id"`
	XAxis               string          `json:"x_axis,omitempty"`
	YAxis               []string        `json:"y_axis,omitempty"`
	Aggregation         AggregationType `json:"aggregation"`
	Filters             []Filter        `json:"filters,omitempty"`
	DrillDownHierarchy  []string        `json:"drill_down_hierarchy,omitempty"`
	LegendHierarchy     []string        `json:"legend_hierarchy,omitempty"`
	Legend              string          `json:"legend,omitempty"`
	CrossFilterDisabled bool            `json:"cross_filter_disabled,omitempty"`
}

// QuerySpec projects the active variant into the WidgetQuerySpec the engine
// consumes. A pivot's row fields double as its drill-down hierarchy; a
// slicer projects to a countDistinct over its single field.
func (w Widget) QuerySpec() WidgetQuerySpec {
	spec := WidgetQuerySpec{
		WidgetID:     w.ID,
		DataSourceID: w.DataSourceID,
		Aggregation:  AggNone,
	}

	switch w.Kind {
	case WidgetChart:
		if w.Chart == nil {
			return spec
		}
		spec.XAxis = w.Chart.XAxis
		spec.YAxis = append([]string(nil), w.Chart.YAxis...)
		spec.Aggregation = w.Chart.Aggregation
		spec.Filters = append([]Filter(nil), w.Chart.Filters...)
		spec.DrillDownHierarchy = append([]string(nil), w.Chart.DrillDownHierarchy...)
		spec.LegendHierarchy = append([]string(nil), w.Chart.LegendHierarchy...)
		spec.Legend = w.Chart.Legend
		spec.CrossFilterDisabled = w.Chart.CrossFilterDisabled

	case WidgetTable:
		if w.Table == nil {
			return spec
		}
		spec.XAxis = w.Table.GroupBy
		spec.YAxis = append([]string(nil), w.Table.Values...)
		spec.Aggregation = w.Table.Aggregation
		spec.Filters = append([]Filter(nil), w.Table.Filters...)
		spec.CrossFilterDisabled = w.Table.CrossFilterDisabled

	case WidgetPivot:
		if w.Pivot == nil {
			return spec
		}
		if len(w.Pivot.Rows) > 0 {
			spec.XAxis = w.Pivot.Rows[0]
		}
		spec.YAxis = append([]string(nil), w.Pivot.Values...)
		spec.Aggregation = w.Pivot.Aggregation
		spec.Filters = append([]Filter(nil), w.Pivot.Filters...)
		spec.DrillDownHierarchy = append([]string(nil), w.Pivot.Rows...)
		spec.CrossFilterDisabled = w.Pivot.CrossFilterDisabled

	case WidgetSlicer:
		if w.Slicer == nil {
			return spec
		}
		spec.XAxis = w.Slicer.Field
		spec.Aggregation = AggCount
		spec.CrossFilterDisabled = w.Slicer.CrossFilterDisabled
	}

	if spec.Aggregation == "" {
		spec.Aggregation = AggNone
	}
	return spec
}
