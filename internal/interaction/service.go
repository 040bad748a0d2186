// Package interaction coordinates the interactive behaviors of a dashboard:
// serving aggregated widget data, drill-down navigation, and click-to-filter
// cross-filtering between sibling widgets.
package interaction

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mosaiq/mosaiq/internal/crossfilter"
	"github.com/mosaiq/mosaiq/internal/dashboard"
	"github.com/mosaiq/mosaiq/internal/datasource"
	"github.com/mosaiq/mosaiq/internal/drilldown"
	"github.com/mosaiq/mosaiq/internal/engine"
	"github.com/mosaiq/mosaiq/internal/observability"
	"github.com/mosaiq/mosaiq/model"
)

// Drill actions accepted by Drill.
const (
	ActionDown   = "down"
	ActionUp     = "up"
	ActionExpand = "expand"
	ActionNext   = "next"
	ActionReset  = "reset"
)

// DrillRequest is one drill-down interaction on a widget.
type DrillRequest struct {
	Action string    `json:"action"`
	Value  any       `json:"value,omitempty"`
	Row    model.Row `json:"row,omitempty"`
}

// SelectRequest is one click-to-filter interaction on a widget data point.
type SelectRequest struct {
	Value any       `json:"value"`
	Row   model.Row `json:"row,omitempty"`
}

// Service wires the dashboard registry, data sources, drill-down state, and
// per-dashboard cross-filter registries together behind the interactive
// operations the transport layer exposes.
type Service struct {
	dashboards *dashboard.Registry
	sources    *datasource.MemoryProvider
	drills     *drilldown.Store
	logger     *zap.Logger
	metrics    *observability.Metrics

	mu      sync.Mutex
	filters map[string]*crossfilter.Registry
}

// NewService creates an interaction Service. metrics may be nil.
func NewService(dashboards *dashboard.Registry, sources *datasource.MemoryProvider, drills *drilldown.Store, logger *zap.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		dashboards: dashboards,
		sources:    sources,
		drills:     drills,
		logger:     logger,
		metrics:    metrics,
		filters:    make(map[string]*crossfilter.Registry),
	}
}

// registryFor returns the cross-filter registry scoped to one dashboard,
// creating it on first use.
func (s *Service) registryFor(dashboardID string) *crossfilter.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.filters[dashboardID]
	if !ok {
		reg = crossfilter.NewRegistry()
		s.filters[dashboardID] = reg
	}
	return reg
}

// WidgetData runs the full data pipeline for one widget: drill-down scope,
// inbound cross filters, the widget's own filters, grouping, and
// aggregation.
func (s *Service) WidgetData(ctx context.Context, widgetID string) (model.WidgetDataResponse, error) {
	start := time.Now()

	widget, ok := s.dashboards.GetWidget(widgetID)
	if !ok {
		s.recordQuery(widgetID, "not_found", start, 0)
		return model.WidgetDataResponse{}, model.NewNotFoundError(fmt.Sprintf("widget %q not found", widgetID))
	}
	spec := widget.QuerySpec()
	dashboardID, _ := s.dashboards.DashboardForWidget(widgetID)

	ctx, span := observability.StartSpan(ctx, "widget.data",
		observability.AttrWidgetID.String(widgetID),
		observability.AttrDashboardID.String(dashboardID),
		observability.AttrDataSourceID.String(spec.DataSourceID),
	)

	resp, err := s.buildData(ctx, dashboardID, spec)
	if err != nil {
		s.recordQuery(widgetID, "error", start, 0)
		observability.EndSpanWithError(span, err)
		return model.WidgetDataResponse{}, err
	}

	span.SetAttributes(observability.AttrRowCount.Int(len(resp.Rows)))
	span.End()
	s.recordQuery(widgetID, "ok", start, len(resp.Rows))

	observability.RequestLogger(ctx, s.logger).Debug("widget data served",
		zap.String("widget_id", widgetID),
		zap.Int("rows", len(resp.Rows)),
		zap.Bool("cross_filtered", resp.CrossFiltered),
	)
	return resp, nil
}

// buildData assembles the WidgetDataResponse for a spec: resolves the
// drill-down scope, collects inbound cross filters, and runs the pipeline.
func (s *Service) buildData(_ context.Context, dashboardID string, spec model.WidgetQuerySpec) (model.WidgetDataResponse, error) {
	ds, ok := s.sources.DataSource(spec.DataSourceID)
	if !ok {
		return model.WidgetDataResponse{}, model.NewNotFoundError(fmt.Sprintf("data source %q not found", spec.DataSourceID))
	}

	state := s.resolvedState(spec)
	fields := drilldown.CurrentFields(spec, state)

	var extra []model.Filter
	if state != nil && state.Mode == model.DrillModeDrill {
		extra = append(extra, drilldown.BreadcrumbFilters(*state)...)
	}

	crossFiltered := false
	if !spec.CrossFilterDisabled {
		cf := s.registryFor(dashboardID).FiltersFor(spec.WidgetID)
		crossFiltered = len(cf) > 0
		extra = append(extra, cf...)
	}

	var rows []model.Row
	if len(fields) == 0 {
		// Raw, ungrouped rows: tables without a group-by.
		rows = engine.ApplyFilters(engine.ApplyFilters(ds.Records, extra), spec.Filters)
	} else {
		rows = engine.ProcessWidgetRows(spec, fields, ds, extra)
	}

	return model.WidgetDataResponse{
		WidgetID:      spec.WidgetID,
		Fields:        fields,
		LegendField:   drilldown.LegendField(spec),
		Rows:          rows,
		DrillState:    state,
		CrossFiltered: crossFiltered,
	}, nil
}

// resolvedState returns the widget's current drill-down state, reconciled
// against its present hierarchy, or nil when the widget has none.
func (s *Service) resolvedState(spec model.WidgetQuerySpec) *model.DrillDownState {
	var stored *model.DrillDownState
	if st, ok := s.drills.Get(spec.WidgetID); ok {
		stored = &st
	}
	return drilldown.ResolveState(spec, stored)
}

// Drill applies one drill-down interaction to a widget and returns the
// widget's data under the new state. Transitions that are out of bounds
// (up at the top, down at the deepest level) leave the state unchanged.
func (s *Service) Drill(ctx context.Context, widgetID string, req DrillRequest) (model.WidgetDataResponse, error) {
	widget, ok := s.dashboards.GetWidget(widgetID)
	if !ok {
		return model.WidgetDataResponse{}, model.NewNotFoundError(fmt.Sprintf("widget %q not found", widgetID))
	}
	spec := widget.QuerySpec()
	if len(spec.DrillDownHierarchy) == 0 {
		return model.WidgetDataResponse{}, model.NewBadRequestError(fmt.Sprintf("widget %q has no drill-down hierarchy", widgetID))
	}

	state := s.resolvedState(spec)
	ctx, span := observability.StartSpan(ctx, "widget.drill",
		observability.AttrWidgetID.String(widgetID),
		observability.AttrDrillMode.String(req.Action),
	)
	defer span.End()

	switch req.Action {
	case ActionDown:
		if result := drilldown.DrillDown(spec, state, req.Value, req.Row); result != nil {
			s.drills.Put(result.State)
			s.recordDrill(widgetID, ActionDown)
		}
	case ActionNext:
		if next := drilldown.DrillToNextLevel(state); next != nil {
			s.drills.Put(*next)
			s.recordDrill(widgetID, ActionDown)
		}
	case ActionExpand:
		if next := drilldown.ExpandNextLevel(state); next != nil {
			s.drills.Put(*next)
			s.recordDrill(widgetID, ActionExpand)
		}
	case ActionUp:
		if next := drilldown.DrillUp(state); next != nil {
			s.drills.Put(*next)
			s.recordDrill(widgetID, ActionUp)
		}
	case ActionReset:
		s.drills.Reset(widgetID)
		s.recordDrill(widgetID, ActionReset)
	default:
		return model.WidgetDataResponse{}, model.NewBadRequestError(fmt.Sprintf("unknown drill action %q", req.Action))
	}

	if st := s.resolvedState(spec); st != nil {
		span.SetAttributes(observability.AttrDrillLevel.Int(st.CurrentLevel))
		observability.RequestLogger(ctx, s.logger).Info("drill transition",
			zap.String("widget_id", widgetID),
			zap.String("action", req.Action),
			zap.Int("level", st.CurrentLevel),
		)
	}

	return s.WidgetData(ctx, widgetID)
}

// Select toggles a click-to-filter selection on a widget data point.
// Selecting a value publishes a cross filter from this widget to its
// cross-filter-enabled siblings; selecting the same value again retracts
// it. The drill-down breadcrumb trail travels with the emitted filters so
// siblings see the fully narrowed scope.
func (s *Service) Select(ctx context.Context, widgetID string, req SelectRequest) (model.WidgetDataResponse, error) {
	widget, ok := s.dashboards.GetWidget(widgetID)
	if !ok {
		return model.WidgetDataResponse{}, model.NewNotFoundError(fmt.Sprintf("widget %q not found", widgetID))
	}
	spec := widget.QuerySpec()
	if spec.CrossFilterDisabled {
		return model.WidgetDataResponse{}, model.NewBadRequestError(fmt.Sprintf("cross filtering is disabled for widget %q", widgetID))
	}
	dashboardID, _ := s.dashboards.DashboardForWidget(widgetID)
	reg := s.registryFor(dashboardID)

	emitted := s.selectionFilters(spec, req)

	action := "add"
	if entry, ok := reg.Get(widgetID); ok && sameFilters(entry.Filters, emitted) {
		reg.Remove(widgetID)
		action = "remove"
	} else {
		var affected []string
		for _, sib := range s.dashboards.SiblingWidgets(widgetID) {
			if !sib.QuerySpec().CrossFilterDisabled {
				affected = append(affected, sib.ID)
			}
		}
		reg.Add(widgetID, emitted, affected)
	}

	s.recordCrossFilter(dashboardID, action, len(reg.Entries()))
	observability.RequestLogger(ctx, s.logger).Info("cross filter changed",
		zap.String("dashboard_id", dashboardID),
		zap.String("widget_id", widgetID),
		zap.String("action", action),
		zap.Int("filters", len(emitted)),
	)

	return s.WidgetData(ctx, widgetID)
}

// selectionFilters builds the filter set a selection emits: the widget's
// breadcrumb trail plus an equality (or isNull, for blanks) filter on the
// currently displayed field.
func (s *Service) selectionFilters(spec model.WidgetQuerySpec, req SelectRequest) []model.Filter {
	state := s.resolvedState(spec)

	var filters []model.Filter
	if state != nil && state.Mode == model.DrillModeDrill {
		filters = append(filters, drilldown.BreadcrumbFilters(*state)...)
	}

	fields := drilldown.CurrentFields(spec, state)
	if len(fields) == 0 {
		return filters
	}
	field := fields[len(fields)-1]

	value := req.Value
	if value == nil && req.Row != nil {
		if v, ok := engine.Resolve(req.Row, field); ok {
			value = v
		}
	}

	if _, raw := drilldown.NormalizeValue(value); raw == nil {
		filters = append(filters, model.Filter{Field: field, Operator: model.OpIsNull})
	} else {
		filters = append(filters, model.Filter{Field: field, Operator: model.OpEquals, Value: raw})
	}
	return filters
}

// ClearCrossFilters removes every cross filter on a dashboard.
func (s *Service) ClearCrossFilters(ctx context.Context, dashboardID string) error {
	if _, ok := s.dashboards.GetDashboard(dashboardID); !ok {
		return model.NewNotFoundError(fmt.Sprintf("dashboard %q not found", dashboardID))
	}
	reg := s.registryFor(dashboardID)
	reg.Clear()
	s.recordCrossFilter(dashboardID, "clear", 0)
	observability.RequestLogger(ctx, s.logger).Info("cross filters cleared",
		zap.String("dashboard_id", dashboardID),
	)
	return nil
}

// DashboardState snapshots all interaction state on a dashboard: active
// cross filters and per-widget drill-down states.
func (s *Service) DashboardState(_ context.Context, dashboardID string) (model.DashboardStateDescriptor, error) {
	def, ok := s.dashboards.GetDashboard(dashboardID)
	if !ok {
		return model.DashboardStateDescriptor{}, model.NewNotFoundError(fmt.Sprintf("dashboard %q not found", dashboardID))
	}

	drillStates := make(map[string]model.DrillDownState)
	for _, w := range def.Widgets {
		if st, ok := s.drills.Get(w.ID); ok {
			drillStates[w.ID] = st
		}
	}

	return model.DashboardStateDescriptor{
		DashboardID:  dashboardID,
		CrossFilters: s.registryFor(dashboardID).Entries(),
		DrillStates:  drillStates,
	}, nil
}

func (s *Service) recordQuery(widgetID, status string, start time.Time, rows int) {
	if s.metrics != nil {
		s.metrics.RecordWidgetQuery(widgetID, status, time.Since(start), rows)
	}
}

func (s *Service) recordDrill(widgetID, direction string) {
	if s.metrics != nil {
		s.metrics.RecordDrillTransition(widgetID, direction)
	}
}

func (s *Service) recordCrossFilter(dashboardID, action string, active int) {
	if s.metrics != nil {
		s.metrics.RecordCrossFilterChange(dashboardID, action, active)
	}
}

// sameFilters reports whether two filter sets are equivalent: same fields,
// operators, and values in the same order.
func sameFilters(a, b []model.Filter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Field != b[i].Field || a[i].Operator != b[i].Operator {
			return false
		}
		if engine.DisplayString(a[i].Value) != engine.DisplayString(b[i].Value) {
			return false
		}
	}
	return true
}
