// Package drilldown implements the per-widget hierarchical navigation state
// machine: drilling into a clicked value, advancing or expanding levels,
// drilling back up, and rebuilding breadcrumb trails from partial row
// context. Transitions never mutate their input state; they return fresh
// values, and out-of-bounds transitions return nil rather than failing.
package drilldown

import (
	"strings"

	"github.com/mosaiq/mosaiq/internal/engine"
	"github.com/mosaiq/mosaiq/model"
)

// BlankDisplay is the sentinel display value for null-like clicked values.
const BlankDisplay = "(Blank)"

// Result is the outcome of a successful drill-down: the next state plus
// the filter derived from the clicked value.
type Result struct {
	State  model.DrillDownState
	Filter model.Filter
}

// Init builds the initial navigation state for a widget spec: top level, no
// breadcrumbs. Widgets without a hierarchy have no drill capability and get
// nil.
func Init(spec model.WidgetQuerySpec) *model.DrillDownState {
	if len(spec.DrillDownHierarchy) == 0 {
		return nil
	}
	return &model.DrillDownState{
		WidgetID:     spec.WidgetID,
		Hierarchy:    append([]string(nil), spec.DrillDownHierarchy...),
		CurrentLevel: 0,
		Breadcrumbs:  []model.Breadcrumb{},
		Mode:         model.DrillModeDrill,
	}
}

// ResolveState returns a state valid for the widget's current hierarchy.
// A stale state (the user edited the widget's drill configuration since the
// state was built) is discarded and replaced with a fresh Init result.
func ResolveState(spec model.WidgetQuerySpec, state *model.DrillDownState) *model.DrillDownState {
	if state == nil {
		return Init(spec)
	}
	if !equalHierarchy(spec.DrillDownHierarchy, state.Hierarchy) {
		return Init(spec)
	}
	s := Sanitize(*state, nil)
	return &s
}

// DrillDown descends one level into the clicked value. The clicked level's
// value comes from the explicit argument when given, otherwise from the
// clicked row. Returns nil when the state is already at the deepest level.
func DrillDown(spec model.WidgetQuerySpec, state *model.DrillDownState, value any, clickedRow model.Row) *Result {
	st := ResolveState(spec, state)
	if st == nil || st.AtDeepestLevel() {
		return nil
	}

	field := st.Hierarchy[st.CurrentLevel]
	raw := value
	if raw == nil && clickedRow != nil {
		raw, _ = engine.Resolve(clickedRow, field)
	}
	display, rawValue := NormalizeValue(raw)

	filter := model.Filter{Field: field, Operator: model.OpEquals, Value: rawValue}
	if rawValue == nil {
		filter = model.Filter{Field: field, Operator: model.OpIsNull}
	}

	// Rebuild the full breadcrumb trail 0..currentLevel. Ancestor values
	// come from the clicked row when it carries them; a row from a deep
	// drill can lack ancestor fields, in which case the prior trail's
	// value is kept.
	prior := make(map[int]model.Breadcrumb, len(st.Breadcrumbs))
	for _, b := range st.Breadcrumbs {
		prior[b.Level] = b
	}

	crumbs := make([]model.Breadcrumb, 0, st.CurrentLevel+1)
	for level := 0; level < st.CurrentLevel; level++ {
		ancestor := st.Hierarchy[level]
		if v, ok := engine.Resolve(clickedRow, ancestor); ok {
			d, rv := NormalizeValue(v)
			crumbs = append(crumbs, model.Breadcrumb{Level: level, Value: d, RawValue: rv})
			continue
		}
		if b, ok := prior[level]; ok {
			crumbs = append(crumbs, model.Breadcrumb{Level: level, Value: b.Value, RawValue: b.RawValue})
		}
	}
	crumbs = append(crumbs, model.Breadcrumb{Level: st.CurrentLevel, Value: display, RawValue: rawValue})

	return &Result{
		State: model.DrillDownState{
			WidgetID:     st.WidgetID,
			Hierarchy:    append([]string(nil), st.Hierarchy...),
			CurrentLevel: st.CurrentLevel + 1,
			Breadcrumbs:  crumbs,
			Mode:         model.DrillModeDrill,
		},
		Filter: filter,
	}
}

// DrillToNextLevel advances to the next level with no value filter: a
// "show all" drill that aggregates the whole next level. Breadcrumbs reset.
// Returns nil at the deepest level.
func DrillToNextLevel(state *model.DrillDownState) *model.DrillDownState {
	if state == nil {
		return nil
	}
	st := Sanitize(*state, nil)
	if st.AtDeepestLevel() {
		return nil
	}
	return &model.DrillDownState{
		WidgetID:     st.WidgetID,
		Hierarchy:    append([]string(nil), st.Hierarchy...),
		CurrentLevel: st.CurrentLevel + 1,
		Breadcrumbs:  []model.Breadcrumb{},
		Mode:         model.DrillModeDrill,
	}
}

// ExpandNextLevel advances to the next level in expand mode: all levels from
// the top through the new level are shown simultaneously, and breadcrumbs
// are kept. Returns nil at the deepest level.
func ExpandNextLevel(state *model.DrillDownState) *model.DrillDownState {
	if state == nil {
		return nil
	}
	st := Sanitize(*state, nil)
	if st.AtDeepestLevel() {
		return nil
	}
	next := st.Clone()
	next.CurrentLevel++
	next.Mode = model.DrillModeExpand
	return &next
}

// DrillUp ascends one level, dropping breadcrumbs at or above the new level.
// Returns nil at the top level.
func DrillUp(state *model.DrillDownState) *model.DrillDownState {
	if state == nil {
		return nil
	}
	st := Sanitize(*state, nil)
	if st.CurrentLevel == 0 {
		return nil
	}

	newLevel := st.CurrentLevel - 1
	crumbs := make([]model.Breadcrumb, 0, len(st.Breadcrumbs))
	for _, b := range st.Breadcrumbs {
		if b.Level < newLevel {
			crumbs = append(crumbs, b)
		}
	}

	return &model.DrillDownState{
		WidgetID:     st.WidgetID,
		Hierarchy:    append([]string(nil), st.Hierarchy...),
		CurrentLevel: newLevel,
		Breadcrumbs:  crumbs,
		Mode:         st.Mode,
	}
}

// Sanitize re-derives a valid state from a possibly-stale one: the level is
// clamped into the hierarchy's bounds, breadcrumbs at or above the level or
// with duplicated levels are dropped (last write per level wins), and
// breadcrumb values are re-normalized. hierarchyOverride, when non-nil,
// replaces the state's hierarchy before clamping.
func Sanitize(state model.DrillDownState, hierarchyOverride []string) model.DrillDownState {
	out := state.Clone()
	if hierarchyOverride != nil {
		out.Hierarchy = append([]string(nil), hierarchyOverride...)
	}

	maxLevel := len(out.Hierarchy) - 1
	if maxLevel < 0 {
		maxLevel = 0
	}
	if out.CurrentLevel < 0 {
		out.CurrentLevel = 0
	}
	if out.CurrentLevel > maxLevel {
		out.CurrentLevel = maxLevel
	}

	byLevel := make(map[int]model.Breadcrumb)
	for _, b := range out.Breadcrumbs {
		if b.Level < 0 || b.Level >= out.CurrentLevel {
			continue
		}
		display, raw := NormalizeValue(b.RawValue)
		if b.RawValue == nil && b.Value != "" && b.Value != BlankDisplay {
			// A crumb may carry only the display form; keep it.
			display, raw = NormalizeValue(b.Value)
		}
		byLevel[b.Level] = model.Breadcrumb{Level: b.Level, Value: display, RawValue: raw}
	}

	crumbs := make([]model.Breadcrumb, 0, len(byLevel))
	for level := 0; level < out.CurrentLevel; level++ {
		if b, ok := byLevel[level]; ok {
			crumbs = append(crumbs, b)
		}
	}
	out.Breadcrumbs = crumbs

	if out.Mode != model.DrillModeExpand {
		out.Mode = model.DrillModeDrill
	}
	return out
}

// CurrentFields returns the field(s) the pipeline should group by right now:
// in expand mode every hierarchy level through the current one, in drill
// mode just the current level. Without navigation state the hierarchy's top
// level applies, falling back to the widget's plain x-axis.
func CurrentFields(spec model.WidgetQuerySpec, state *model.DrillDownState) []string {
	st := ResolveState(spec, state)
	if st != nil {
		if st.Mode == model.DrillModeExpand {
			return append([]string(nil), st.Hierarchy[:st.CurrentLevel+1]...)
		}
		return []string{st.Hierarchy[st.CurrentLevel]}
	}
	if spec.XAxis != "" {
		return []string{spec.XAxis}
	}
	return nil
}

// LegendField returns the widget's legend binding: the legend hierarchy's
// top level when present, otherwise the explicit legend field.
func LegendField(spec model.WidgetQuerySpec) string {
	if len(spec.LegendHierarchy) > 0 {
		return spec.LegendHierarchy[0]
	}
	return spec.Legend
}

// BreadcrumbFilters derives one ancestor filter per breadcrumb, using the
// stored raw value: isNull for blanks, equals otherwise. These reconstruct
// the narrowing chain for cross-filter emission.
func BreadcrumbFilters(state model.DrillDownState) []model.Filter {
	filters := make([]model.Filter, 0, len(state.Breadcrumbs))
	for _, b := range state.Breadcrumbs {
		if b.Level >= len(state.Hierarchy) {
			continue
		}
		field := state.Hierarchy[b.Level]
		if b.RawValue == nil {
			filters = append(filters, model.Filter{Field: field, Operator: model.OpIsNull})
			continue
		}
		filters = append(filters, model.Filter{Field: field, Operator: model.OpEquals, Value: b.RawValue})
	}
	return filters
}

// NormalizeValue maps null-like raw values (nil, empty, and the legacy
// "(blank)"/"null"/"undefined"/"nan" magic strings) to the blank sentinel
// with a nil raw value; everything else keeps its raw value and display
// string form.
func NormalizeValue(raw any) (display string, rawValue any) {
	if raw == nil {
		return BlankDisplay, nil
	}
	if s, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "(blank)", "null", "undefined", "nan":
			return BlankDisplay, nil
		}
	}
	return engine.DisplayString(raw), raw
}

func equalHierarchy(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
