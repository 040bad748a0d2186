package engine

import (
	"reflect"
	"testing"

	"github.com/mosaiq/mosaiq/model"
)

func salesSource() *model.DataSource {
	return &model.DataSource{
		ID: "sales",
		Schema: []model.Field{
			{Name: "region", Type: model.FieldTypeString},
			{Name: "sales", Type: model.FieldTypeNumber},
		},
		Records: []model.Row{
			{"region": "East", "sales": 100},
			{"region": "West", "sales": 50},
			{"region": "East", "sales": 20},
		},
	}
}

func TestGroupBy_FirstSeenOrder(t *testing.T) {
	rows := []model.Row{
		{"r": "US"},
		{"r": "EU"},
		{"r": "US"},
	}

	groups := GroupBy(rows, "r")
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].Key != "US" || groups[1].Key != "EU" {
		t.Errorf("group order = [%v %v], want [US EU]", groups[0].Key, groups[1].Key)
	}
	if len(groups[0].Rows) != 2 {
		t.Errorf("len(US rows) = %d, want 2", len(groups[0].Rows))
	}
}

func TestGroupBy_UnresolvedKeysShareNilBucket(t *testing.T) {
	rows := []model.Row{
		{"r": "US"},
		{"other": 1},
		{"r": nil},
		{"r": ""},
	}

	groups := GroupBy(rows, "r")
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2 (US plus one nil bucket)", len(groups))
	}
	if groups[1].Key != nil {
		t.Errorf("second group key = %v, want nil", groups[1].Key)
	}
	if len(groups[1].Rows) != 3 {
		t.Errorf("len(nil-bucket rows) = %d, want 3", len(groups[1].Rows))
	}
}

func TestProcessWidgetData_EndToEnd(t *testing.T) {
	spec := model.WidgetQuerySpec{
		WidgetID:    "w1",
		XAxis:       "region",
		YAxis:       []string{"sales"},
		Aggregation: model.AggSum,
	}

	got := ProcessWidgetData(spec, salesSource(), nil)
	want := []model.Row{
		{"region": "East", "sales": float64(120)},
		{"region": "West", "sales": float64(50)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProcessWidgetData = %v, want %v", got, want)
	}
}

func TestProcessWidgetData_NoXAxisYieldsEmpty(t *testing.T) {
	spec := model.WidgetQuerySpec{WidgetID: "w1", Aggregation: model.AggSum}

	got := ProcessWidgetData(spec, salesSource(), nil)
	if len(got) != 0 {
		t.Errorf("ProcessWidgetData without x-axis = %v, want empty", got)
	}
}

func TestProcessWidgetData_CrossFiltersApplyFirst(t *testing.T) {
	spec := model.WidgetQuerySpec{
		WidgetID:    "w1",
		XAxis:       "region",
		YAxis:       []string{"sales"},
		Aggregation: model.AggSum,
		Filters: []model.Filter{
			{Field: "sales", Operator: model.OpGreaterThan, Value: 10},
		},
	}
	cross := []model.Filter{
		{Field: "region", Operator: model.OpEquals, Value: "East"},
	}

	got := ProcessWidgetData(spec, salesSource(), cross)
	want := []model.Row{{"region": "East", "sales": float64(120)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProcessWidgetData = %v, want %v", got, want)
	}
}

func TestProcessWidgetData_SortedAscendingNilLast(t *testing.T) {
	ds := &model.DataSource{
		ID: "d",
		Records: []model.Row{
			{"region": "West", "sales": 1},
			{"sales": 2},
			{"region": "East", "sales": 3},
		},
	}
	spec := model.WidgetQuerySpec{
		XAxis:       "region",
		YAxis:       []string{"sales"},
		Aggregation: model.AggSum,
	}

	got := ProcessWidgetData(spec, ds, nil)
	if len(got) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(got))
	}
	if got[0]["region"] != "East" || got[1]["region"] != "West" || got[2]["region"] != nil {
		t.Errorf("sort order = [%v %v %v], want [East West <nil>]",
			got[0]["region"], got[1]["region"], got[2]["region"])
	}
}

func TestProcessWidgetData_NumericKeysSortNumerically(t *testing.T) {
	ds := &model.DataSource{
		Records: []model.Row{
			{"month": 10, "v": 1},
			{"month": 2, "v": 1},
			{"month": 1, "v": 1},
		},
	}
	spec := model.WidgetQuerySpec{XAxis: "month", YAxis: []string{"v"}, Aggregation: model.AggSum}

	got := ProcessWidgetData(spec, ds, nil)
	if got[0]["month"] != 1 || got[1]["month"] != 2 || got[2]["month"] != 10 {
		t.Errorf("numeric key order = [%v %v %v], want [1 2 10]",
			got[0]["month"], got[1]["month"], got[2]["month"])
	}
}

func TestProcessWidgetData_LegendFieldCopiedFromFirstRow(t *testing.T) {
	ds := &model.DataSource{
		Records: []model.Row{
			{"city": "NYC", "country": "USA", "sales": 10},
			{"city": "NYC", "country": "USA", "sales": 5},
			{"city": "Paris", "country": "France", "sales": 7},
		},
	}
	spec := model.WidgetQuerySpec{
		XAxis:           "city",
		YAxis:           []string{"sales"},
		Aggregation:     model.AggSum,
		LegendHierarchy: []string{"country"},
	}

	got := ProcessWidgetData(spec, ds, nil)
	if len(got) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(got))
	}
	if got[0]["country"] != "USA" && got[1]["country"] != "USA" {
		t.Errorf("legend field not copied: %v", got)
	}
}

func TestProcessWidgetData_VirtualBucketGrouping(t *testing.T) {
	ds := &model.DataSource{
		Records: []model.Row{
			{"orderDate": "2024-02-01", "sales": 10},
			{"orderDate": "2024-05-17", "sales": 20},
			{"orderDate": "2024-04-02", "sales": 5},
		},
	}
	spec := model.WidgetQuerySpec{
		XAxis:       "orderDate.__quarter",
		YAxis:       []string{"sales"},
		Aggregation: model.AggSum,
	}

	got := ProcessWidgetData(spec, ds, nil)
	want := []model.Row{
		{"orderDate.__quarter": "2024 Q1", "sales": float64(10)},
		{"orderDate.__quarter": "2024 Q2", "sales": float64(25)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bucketed pipeline = %v, want %v", got, want)
	}
}

func TestProcessWidgetData_DoesNotMutateSource(t *testing.T) {
	ds := salesSource()
	original := make([]model.Row, len(ds.Records))
	for i, r := range ds.Records {
		original[i] = r.Clone()
	}

	spec := model.WidgetQuerySpec{XAxis: "region", YAxis: []string{"sales"}, Aggregation: model.AggSum}
	_ = ProcessWidgetData(spec, ds, []model.Filter{{Field: "sales", Operator: model.OpGreaterThan, Value: 10}})

	for i, r := range ds.Records {
		if !reflect.DeepEqual(r, original[i]) {
			t.Fatalf("record %d mutated: %v != %v", i, r, original[i])
		}
	}
}

func TestProcessWidgetData_Deterministic(t *testing.T) {
	spec := model.WidgetQuerySpec{XAxis: "region", YAxis: []string{"sales"}, Aggregation: model.AggAvg}

	a := ProcessWidgetData(spec, salesSource(), nil)
	b := ProcessWidgetData(spec, salesSource(), nil)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different outputs: %v != %v", a, b)
	}
}

func TestGroupByFields_CompositeKeys(t *testing.T) {
	rows := []model.Row{
		{"region": "West", "city": "Seattle", "sales": 10},
		{"region": "West", "city": "Portland", "sales": 20},
		{"region": "East", "city": "Seattle", "sales": 5},
		{"region": "West", "city": "Seattle", "sales": 1},
	}

	groups := GroupByFields(rows, []string{"region", "city"})
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	// Same city under different regions must not merge.
	if groups[0].Keys[0] != "West" || groups[0].Keys[1] != "Seattle" {
		t.Errorf("groups[0].Keys = %v, want [West Seattle]", groups[0].Keys)
	}
	if len(groups[0].Rows) != 2 {
		t.Errorf("len(groups[0].Rows) = %d, want 2", len(groups[0].Rows))
	}
}

func TestProcessWidgetRows_ExpandedHierarchy(t *testing.T) {
	ds := &model.DataSource{
		Records: []model.Row{
			{"region": "West", "city": "Seattle", "sales": 10},
			{"region": "East", "city": "Boston", "sales": 5},
			{"region": "West", "city": "Portland", "sales": 20},
		},
	}
	spec := model.WidgetQuerySpec{
		XAxis:       "region",
		YAxis:       []string{"sales"},
		Aggregation: model.AggSum,
	}

	got := ProcessWidgetRows(spec, []string{"region", "city"}, ds, nil)
	want := []model.Row{
		{"region": "East", "city": "Boston", "sales": float64(5)},
		{"region": "West", "city": "Portland", "sales": float64(20)},
		{"region": "West", "city": "Seattle", "sales": float64(10)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expanded pipeline = %v, want %v", got, want)
	}
}
