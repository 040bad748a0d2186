package model

// DrillMode selects how hierarchy levels are shown while navigating.
type DrillMode string

const (
	// DrillModeDrill shows one hierarchy level at a time, narrowed by the
	// breadcrumb filters above it.
	DrillModeDrill DrillMode = "drill"
	// DrillModeExpand shows every hierarchy level from the top through the
	// current level simultaneously.
	DrillModeExpand DrillMode = "expand"
)

// Breadcrumb records one ancestor-level value chosen during drill-down.
// Value is the display form; RawValue is the underlying value used to build
// the equals/isNull filter for that level (nil for blank values).
type Breadcrumb struct {
	Level    int    `json:"level"`
	Value    string `json:"value"`
	RawValue any    `json:"raw_value"`
}

// DrillDownState is a widget's hierarchical navigation state. It is plain
// data updated only by whole-value replacement; breadcrumb levels are
// strictly below CurrentLevel, unique, and ascending.
type DrillDownState struct {
	WidgetID     string       `json:"widget_id"`
	Hierarchy    []string     `json:"hierarchy"`
	CurrentLevel int          `json:"current_level"`
	Breadcrumbs  []Breadcrumb `json:"breadcrumbs"`
	Mode         DrillMode    `json:"mode"`
}

// Clone returns a deep copy of the state.
func (s DrillDownState) Clone() DrillDownState {
	out := s
	out.Hierarchy = append([]string(nil), s.Hierarchy...)
	out.Breadcrumbs = append([]Breadcrumb(nil), s.Breadcrumbs...)
	return out
}

// AtDeepestLevel reports whether the state sits at the last hierarchy level.
func (s DrillDownState) AtDeepestLevel() bool {
	return len(s.Hierarchy) == 0 || s.CurrentLevel >= len(s.Hierarchy)-1
}
