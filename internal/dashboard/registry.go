package dashboard

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/mosaiq/mosaiq/model"
)

// snapshot is an immutable collection of all definitions indexed by ID.
type snapshot struct {
	dashboards map[string]model.DashboardDefinition
	widgets    map[string]model.Widget
	widgetHome map[string]string
	order      []string
	checksum   string
}

// Registry is a read-optimized, thread-safe store of all loaded dashboard
// definitions. It uses atomic pointer swap for lock-free concurrent reads.
type Registry struct {
	snap atomic.Pointer[snapshot]
}

// NewRegistry creates a Registry from the given definitions.
func NewRegistry(defs []model.DashboardDefinition) *Registry {
	r := &Registry{}
	r.Replace(defs)
	return r
}

// Replace atomically swaps the registry contents with a new snapshot built
// from the given definitions.
func (r *Registry) Replace(defs []model.DashboardDefinition) {
	s := &snapshot{
		dashboards: make(map[string]model.DashboardDefinition, len(defs)),
		widgets:    make(map[string]model.Widget),
		widgetHome: make(map[string]string),
	}

	var checksumParts []string

	for _, def := range defs {
		s.dashboards[def.Dashboard] = def
		s.order = append(s.order, def.Dashboard)
		checksumParts = append(checksumParts, def.Checksum)

		for _, w := range def.Widgets {
			s.widgets[w.ID] = w
			s.widgetHome[w.ID] = def.Dashboard
		}
	}

	sort.Strings(checksumParts)
	combined := strings.Join(checksumParts, ":")
	s.checksum = fmt.Sprintf("%x", sha256.Sum256([]byte(combined)))

	r.snap.Store(s)
}

func (r *Registry) current() *snapshot {
	return r.snap.Load()
}

// GetDashboard returns the dashboard definition with the given ID.
func (r *Registry) GetDashboard(dashboardID string) (model.DashboardDefinition, bool) {
	d, ok := r.current().dashboards[dashboardID]
	return d, ok
}

// GetWidget returns the widget with the given ID.
func (r *Registry) GetWidget(widgetID string) (model.Widget, bool) {
	w, ok := r.current().widgets[widgetID]
	return w, ok
}

// DashboardForWidget returns the ID of the dashboard a widget lives on.
func (r *Registry) DashboardForWidget(widgetID string) (string, bool) {
	d, ok := r.current().widgetHome[widgetID]
	return d, ok
}

// AllDashboards returns every dashboard definition in load order.
func (r *Registry) AllDashboards() []model.DashboardDefinition {
	s := r.current()
	out := make([]model.DashboardDefinition, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.dashboards[id])
	}
	return out
}

// SiblingWidgets returns the other widgets on the same dashboard as
// widgetID, in definition order.
func (r *Registry) SiblingWidgets(widgetID string) []model.Widget {
	s := r.current()
	home, ok := s.widgetHome[widgetID]
	if !ok {
		return nil
	}
	def := s.dashboards[home]
	out := make([]model.Widget, 0, len(def.Widgets))
	for _, w := range def.Widgets {
		if w.ID != widgetID {
			out = append(out, w)
		}
	}
	return out
}

// Checksum returns the combined checksum over all loaded definitions.
func (r *Registry) Checksum() string {
	return r.current().checksum
}
