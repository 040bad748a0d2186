package dashboard

import (
	"testing"

	"github.com/mosaiq/mosaiq/model"
)

func testDefs() []model.DashboardDefinition {
	return []model.DashboardDefinition{
		{
			Dashboard: "sales",
			Title:     "Sales Overview",
			Version:   "1.0",
			Checksum:  "aaa",
			Widgets: []model.Widget{
				{
					ID: "revenue-by-region", Kind: model.WidgetChart, DataSourceID: "sales",
					Chart: &model.ChartWidget{
						ChartType: "bar", XAxis: "region", YAxis: []string{"revenue"},
						Aggregation:        model.AggSum,
						DrillDownHierarchy: []string{"region", "city"},
					},
				},
				{
					ID: "region-slicer", Kind: model.WidgetSlicer, DataSourceID: "sales",
					Slicer: &model.SlicerWidget{Field: "region"},
				},
			},
		},
		{
			Dashboard: "inventory",
			Title:     "Inventory",
			Version:   "1.0",
			Checksum:  "bbb",
			Widgets: []model.Widget{
				{
					ID: "stock-by-warehouse", Kind: model.WidgetTable, DataSourceID: "inventory",
					Table: &model.TableWidget{
						Columns: []model.ColumnSpec{{Field: "warehouse"}, {Field: "units"}},
						GroupBy: "warehouse", Values: []string{"units"}, Aggregation: model.AggSum,
					},
				},
			},
		},
	}
}

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry(testDefs())

	if _, ok := r.GetDashboard("sales"); !ok {
		t.Error("GetDashboard(sales) not found")
	}
	if _, ok := r.GetDashboard("missing"); ok {
		t.Error("GetDashboard(missing) found")
	}

	w, ok := r.GetWidget("stock-by-warehouse")
	if !ok {
		t.Fatal("GetWidget(stock-by-warehouse) not found")
	}
	if w.Kind != model.WidgetTable {
		t.Errorf("Kind = %q, want %q", w.Kind, model.WidgetTable)
	}

	home, ok := r.DashboardForWidget("region-slicer")
	if !ok || home != "sales" {
		t.Errorf("DashboardForWidget(region-slicer) = %q, %v; want sales, true", home, ok)
	}
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry(testDefs())

	all := r.AllDashboards()
	if len(all) != 2 {
		t.Fatalf("len(AllDashboards) = %d, want 2", len(all))
	}
	if all[0].Dashboard != "sales" || all[1].Dashboard != "inventory" {
		t.Errorf("order = [%s %s], want [sales inventory]", all[0].Dashboard, all[1].Dashboard)
	}
}

func TestRegistrySiblingWidgets(t *testing.T) {
	r := NewRegistry(testDefs())

	sibs := r.SiblingWidgets("revenue-by-region")
	if len(sibs) != 1 {
		t.Fatalf("len(siblings) = %d, want 1", len(sibs))
	}
	if sibs[0].ID != "region-slicer" {
		t.Errorf("siblings[0].ID = %q, want region-slicer", sibs[0].ID)
	}

	if sibs := r.SiblingWidgets("missing"); sibs != nil {
		t.Errorf("SiblingWidgets(missing) = %v, want nil", sibs)
	}
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry(testDefs())
	before := r.Checksum()

	defs := testDefs()[:1]
	defs[0].Checksum = "ccc"
	r.Replace(defs)

	if _, ok := r.GetDashboard("inventory"); ok {
		t.Error("inventory survived Replace")
	}
	if r.Checksum() == before {
		t.Error("Checksum unchanged after Replace")
	}
}
