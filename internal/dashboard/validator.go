package dashboard

import (
	"fmt"

	"github.com/mosaiq/mosaiq/internal/datasource"
	"github.com/mosaiq/mosaiq/model"
)

// VError describes a single validation error in a definition.
type VError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e VError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validator validates definitions structurally and referentially against
// the loaded data-source schemas.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks all definitions. The provider may be nil to skip
// schema-reference checks.
func (v *Validator) Validate(defs []model.DashboardDefinition, provider *datasource.MemoryProvider) []VError {
	var errs []VError
	seen := make(map[string]bool)
	widgetIDs := make(map[string]bool)

	for i, def := range defs {
		prefix := fmt.Sprintf("definitions[%d]", i)
		if def.Dashboard == "" {
			errs = append(errs, VError{Path: prefix + ".dashboard", Code: "REQUIRED", Message: "dashboard id is required"})
		} else if seen[def.Dashboard] {
			errs = append(errs, VError{Path: prefix + ".dashboard", Code: "DUPLICATE", Message: fmt.Sprintf("dashboard %q defined more than once", def.Dashboard)})
		}
		seen[def.Dashboard] = true

		if def.Version == "" {
			errs = append(errs, VError{Path: prefix + ".version", Code: "REQUIRED", Message: "version is required"})
		}

		for j, w := range def.Widgets {
			wp := fmt.Sprintf("%s.widgets[%d]", prefix, j)
			errs = append(errs, v.validateWidget(wp, w, widgetIDs, provider)...)
		}
	}
	return errs
}

func (v *Validator) validateWidget(prefix string, w model.Widget, widgetIDs map[string]bool, provider *datasource.MemoryProvider) []VError {
	var errs []VError

	if w.ID == "" {
		errs = append(errs, VError{Path: prefix + ".id", Code: "REQUIRED", Message: "widget id is required"})
	} else if widgetIDs[w.ID] {
		errs = append(errs, VError{Path: prefix + ".id", Code: "DUPLICATE", Message: fmt.Sprintf("widget %q defined more than once", w.ID)})
	}
	widgetIDs[w.ID] = true

	if !model.ValidWidgetKind(w.Kind) {
		errs = append(errs, VError{Path: prefix + ".kind", Code: "INVALID", Message: fmt.Sprintf("unknown widget kind %q", w.Kind)})
		return errs
	}

	variants := 0
	for _, set := range []bool{w.Chart != nil, w.Table != nil, w.Pivot != nil, w.Slicer != nil} {
		if set {
			variants++
		}
	}
	if variants != 1 {
		errs = append(errs, VError{Path: prefix, Code: "INVALID", Message: "exactly one widget variant must be configured"})
		return errs
	}

	switch w.Kind {
	case model.WidgetChart:
		if w.Chart == nil {
			errs = append(errs, VError{Path: prefix + ".chart", Code: "REQUIRED", Message: "chart config is required for kind chart"})
		}
	case model.WidgetTable:
		if w.Table == nil {
			errs = append(errs, VError{Path: prefix + ".table", Code: "REQUIRED", Message: "table config is required for kind table"})
		}
	case model.WidgetPivot:
		if w.Pivot == nil {
			errs = append(errs, VError{Path: prefix + ".pivot", Code: "REQUIRED", Message: "pivot config is required for kind pivot"})
		} else if len(w.Pivot.Rows) == 0 {
			errs = append(errs, VError{Path: prefix + ".pivot.rows", Code: "REQUIRED", Message: "pivot rows are required"})
		}
	case model.WidgetSlicer:
		if w.Slicer == nil {
			errs = append(errs, VError{Path: prefix + ".slicer", Code: "REQUIRED", Message: "slicer config is required for kind slicer"})
		} else if w.Slicer.Field == "" {
			errs = append(errs, VError{Path: prefix + ".slicer.field", Code: "REQUIRED", Message: "slicer field is required"})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	spec := w.QuerySpec()

	if spec.Aggregation != "" && !model.ValidAggregation(spec.Aggregation) {
		errs = append(errs, VError{Path: prefix + ".aggregation", Code: "INVALID", Message: fmt.Sprintf("unknown aggregation %q", spec.Aggregation)})
	}
	for i, f := range spec.Filters {
		if f.Field == "" {
			errs = append(errs, VError{Path: fmt.Sprintf("%s.filters[%d].field", prefix, i), Code: "REQUIRED", Message: "filter field is required"})
		}
		if !model.ValidOperator(f.Operator) {
			errs = append(errs, VError{Path: fmt.Sprintf("%s.filters[%d].operator", prefix, i), Code: "INVALID", Message: fmt.Sprintf("unknown operator %q", f.Operator)})
		}
	}

	if provider == nil {
		return errs
	}

	if w.DataSourceID == "" {
		errs = append(errs, VError{Path: prefix + ".data_source_id", Code: "REQUIRED", Message: "data source id is required"})
		return errs
	}
	ix, ok := provider.SchemaIndex(w.DataSourceID)
	if !ok {
		errs = append(errs, VError{Path: prefix + ".data_source_id", Code: "UNKNOWN_REFERENCE", Message: fmt.Sprintf("data source %q is not loaded", w.DataSourceID)})
		return errs
	}

	checkField := func(path, name string) {
		if name == "" {
			return
		}
		if _, ok := ix.Lookup(name); !ok {
			errs = append(errs, VError{Path: path, Code: "UNKNOWN_REFERENCE", Message: fmt.Sprintf("field %q is not in the schema of %q", name, w.DataSourceID)})
		}
	}

	checkField(prefix+".x_axis", spec.XAxis)
	for i, y := range spec.YAxis {
		checkField(fmt.Sprintf("%s.y_axis[%d]", prefix, i), y)
	}
	for i, h := range spec.DrillDownHierarchy {
		checkField(fmt.Sprintf("%s.drill_down_hierarchy[%d]", prefix, i), h)
	}
	for i, h := range spec.LegendHierarchy {
		checkField(fmt.Sprintf("%s.legend_hierarchy[%d]", prefix, i), h)
	}
	checkField(prefix+".legend", spec.Legend)

	return errs
}
