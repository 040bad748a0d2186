package drilldown

import (
	"sync"

	"github.com/mosaiq/mosaiq/model"
)

// Store holds per-widget navigation state. All updates are whole-value
// replacements and all reads return clones, so callers can hold snapshots
// for undo/redo without the store mutating them underneath.
type Store struct {
	mu     sync.RWMutex
	states map[string]model.DrillDownState
}

// NewStore creates an empty drill-down state store.
func NewStore() *Store {
	return &Store{states: make(map[string]model.DrillDownState)}
}

// Get returns a clone of the widget's state.
func (s *Store) Get(widgetID string) (model.DrillDownState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[widgetID]
	if !ok {
		return model.DrillDownState{}, false
	}
	return st.Clone(), true
}

// Put replaces the widget's state wholesale.
func (s *Store) Put(state model.DrillDownState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.WidgetID] = state.Clone()
}

// Reset removes the widget's state; the next interaction starts fresh at
// the hierarchy's top level. Removing an absent widget is a no-op.
func (s *Store) Reset(widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, widgetID)
}

// Clear removes all state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[string]model.DrillDownState)
}

// Snapshot returns a clone of every widget's state, keyed by widget id.
func (s *Store) Snapshot() map[string]model.DrillDownState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.DrillDownState, len(s.states))
	for id, st := range s.states {
		out[id] = st.Clone()
	}
	return out
}
