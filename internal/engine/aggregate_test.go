package engine

import (
	"testing"

	"github.com/mosaiq/mosaiq/model"
)

func amountRows() []model.Row {
	return []model.Row{
		{"amount": 100},
		{"amount": 200},
		{"amount": 300},
	}
}

func TestAggregate_Sum(t *testing.T) {
	if got := Aggregate(amountRows(), "amount", model.AggSum); got != 600 {
		t.Errorf("sum = %v, want 600", got)
	}
}

func TestAggregate_Avg(t *testing.T) {
	if got := Aggregate(amountRows(), "amount", model.AggAvg); got != 200 {
		t.Errorf("avg = %v, want 200", got)
	}
}

func TestAggregate_EmptyInputIsZero(t *testing.T) {
	for _, typ := range []model.AggregationType{
		model.AggSum, model.AggAvg, model.AggCount, model.AggCountDistinct,
		model.AggMin, model.AggMax, model.AggNone,
	} {
		if got := Aggregate(nil, "amount", typ); got != 0 {
			t.Errorf("Aggregate([], amount, %s) = %v, want 0", typ, got)
		}
	}
}

func TestAggregate_CountSkipsNullValues(t *testing.T) {
	rows := []model.Row{
		{"amount": 100},
		{"amount": nil},
		{"amount": ""},
		{"other": 5},
		{"amount": 200},
	}

	if got := Aggregate(rows, "amount", model.AggCount); got != 2 {
		t.Errorf("count = %v, want 2 (nulls and empties excluded)", got)
	}
}

func TestAggregate_CountDistinct(t *testing.T) {
	rows := []model.Row{
		{"region": "East"},
		{"region": "West"},
		{"region": "East"},
		{"region": nil},
	}

	if got := Aggregate(rows, "region", model.AggCountDistinct); got != 2 {
		t.Errorf("countDistinct = %v, want 2", got)
	}
}

func TestAggregate_MinMax(t *testing.T) {
	rows := []model.Row{
		{"amount": 30},
		{"amount": "10"},
		{"amount": 20.5},
	}

	if got := Aggregate(rows, "amount", model.AggMin); got != 10 {
		t.Errorf("min = %v, want 10", got)
	}
	if got := Aggregate(rows, "amount", model.AggMax); got != 30 {
		t.Errorf("max = %v, want 30", got)
	}
}

func TestAggregate_NoneTakesFirstValue(t *testing.T) {
	rows := []model.Row{
		{"amount": nil},
		{"amount": "42"},
		{"amount": 7},
	}

	if got := Aggregate(rows, "amount", model.AggNone); got != 42 {
		t.Errorf("none = %v, want 42 (first non-null value, coerced)", got)
	}
}
