package model

// CrossFilterEntry is the filter set emitted by one widget's user
// interaction, applied to the widgets in AffectedWidgetIDs. At most one
// entry exists per source widget; re-adding replaces the previous entry
// wholesale.
type CrossFilterEntry struct {
	SourceWidgetID    string          `json:"source_widget_id"`
	Filters           []Filter        `json:"filters"`
	AffectedWidgetIDs map[string]bool `json:"affected_widget_ids"`
}

// Affects reports whether the entry's filters apply to the given widget.
func (e CrossFilterEntry) Affects(widgetID string) bool {
	return e.AffectedWidgetIDs[widgetID]
}

// Clone returns a deep copy of the entry.
func (e CrossFilterEntry) Clone() CrossFilterEntry {
	out := e
	out.Filters = append([]Filter(nil), e.Filters...)
	out.AffectedWidgetIDs = make(map[string]bool, len(e.AffectedWidgetIDs))
	for id, v := range e.AffectedWidgetIDs {
		out.AffectedWidgetIDs[id] = v
	}
	return out
}
