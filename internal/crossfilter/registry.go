// Package crossfilter owns the set of active cross-filters on a dashboard,
// keyed by originating widget, and resolves which filter sets apply to which
// target widgets. Entries are replaced wholesale, never merged, and the
// registry preserves insertion order so concatenated filter lists are
// deterministic.
package crossfilter

import (
	"sync"

	"github.com/mosaiq/mosaiq/model"
)

// Registry is the dashboard-wide cross-filter store. Safe for concurrent
// use; reads return clones.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]model.CrossFilterEntry
}

// NewRegistry creates an empty cross-filter registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]model.CrossFilterEntry)}
}

// Add records the filter set emitted by sourceWidgetID against the given
// target widgets, replacing any prior entry for the same source wholesale.
// A replaced entry keeps its original position in iteration order.
func (r *Registry) Add(sourceWidgetID string, filters []model.Filter, affectedWidgetIDs []string) {
	affected := make(map[string]bool, len(affectedWidgetIDs))
	for _, id := range affectedWidgetIDs {
		affected[id] = true
	}
	entry := model.CrossFilterEntry{
		SourceWidgetID:    sourceWidgetID,
		Filters:           append([]model.Filter(nil), filters...),
		AffectedWidgetIDs: affected,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[sourceWidgetID]; !exists {
		r.order = append(r.order, sourceWidgetID)
	}
	r.entries[sourceWidgetID] = entry
}

// Remove deletes the entry for sourceWidgetID if present.
func (r *Registry) Remove(sourceWidgetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[sourceWidgetID]; !exists {
		return
	}
	delete(r.entries, sourceWidgetID)
	for i, id := range r.order {
		if id == sourceWidgetID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.entries = make(map[string]model.CrossFilterEntry)
}

// Get returns a clone of the entry for sourceWidgetID.
func (r *Registry) Get(sourceWidgetID string) (model.CrossFilterEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[sourceWidgetID]
	if !ok {
		return model.CrossFilterEntry{}, false
	}
	return e.Clone(), true
}

// FiltersFor concatenates, in registry order, the filters of every entry
// that targets the given widget.
func (r *Registry) FiltersFor(widgetID string) []model.Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Filter
	for _, id := range r.order {
		e := r.entries[id]
		if e.Affects(widgetID) {
			out = append(out, e.Filters...)
		}
	}
	return out
}

// IsFiltered reports whether any entry targets the given widget.
func (r *Registry) IsFiltered(widgetID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.Affects(widgetID) {
			return true
		}
	}
	return false
}

// Entries returns a clone of every entry in registry order.
func (r *Registry) Entries() []model.CrossFilterEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.CrossFilterEntry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].Clone())
	}
	return out
}
