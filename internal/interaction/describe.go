package interaction

import (
	"context"
	"fmt"
	"sort"

	"github.com/mosaiq/mosaiq/model"
)

// Navigation builds the navigation tree from all loaded dashboards, sorted
// by each dashboard's navigation order.
func (s *Service) Navigation(_ context.Context) model.NavigationTree {
	defs := s.dashboards.AllDashboards()

	nodes := make([]model.NavigationNode, 0, len(defs))
	for _, def := range defs {
		label := def.Navigation.Label
		if label == "" {
			label = def.Title
		}
		nodes = append(nodes, model.NavigationNode{
			ID:    def.Dashboard,
			Label: label,
			Icon:  def.Navigation.Icon,
			Route: "/ui/dashboards/" + def.Dashboard,
		})
	}

	order := make(map[string]int, len(defs))
	for _, def := range defs {
		order[def.Dashboard] = def.Navigation.Order
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return order[nodes[i].ID] < order[nodes[j].ID]
	})

	return model.NavigationTree{Items: nodes}
}

// Describe resolves a dashboard definition into the descriptor the frontend
// renders from: widget bindings, drill capability, and data endpoints.
func (s *Service) Describe(_ context.Context, dashboardID string) (model.DashboardDescriptor, error) {
	def, ok := s.dashboards.GetDashboard(dashboardID)
	if !ok {
		return model.DashboardDescriptor{}, model.NewNotFoundError(fmt.Sprintf("dashboard %q not found", dashboardID))
	}

	widgets := make([]model.WidgetDescriptor, 0, len(def.Widgets))
	for _, w := range def.Widgets {
		widgets = append(widgets, describeWidget(w))
	}

	return model.DashboardDescriptor{
		ID:      def.Dashboard,
		Title:   def.Title,
		Widgets: widgets,
	}, nil
}

func describeWidget(w model.Widget) model.WidgetDescriptor {
	spec := w.QuerySpec()

	d := model.WidgetDescriptor{
		ID:                 w.ID,
		Kind:               w.Kind,
		Title:              w.Title,
		XAxisField:         spec.XAxis,
		YAxisFields:        spec.YAxis,
		DrillCapable:       len(spec.DrillDownHierarchy) > 1,
		CrossFilterEnabled: !spec.CrossFilterDisabled,
		DataEndpoint:       "/ui/widgets/" + w.ID + "/data",
	}
	if w.Chart != nil {
		d.ChartType = w.Chart.ChartType
	}
	if len(spec.LegendHierarchy) > 0 {
		d.LegendField = spec.LegendHierarchy[0]
	} else {
		d.LegendField = spec.Legend
	}
	return d
}
