package model

// Operator identifies a filter predicate.
type Operator string

const (
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "notEquals"
	OpContains       Operator = "contains"
	OpNotContains    Operator = "notContains"
	OpStartsWith     Operator = "startsWith"
	OpEndsWith       Operator = "endsWith"
	OpGreaterThan    Operator = "greaterThan"
	OpLessThan       Operator = "lessThan"
	OpGreaterOrEqual Operator = "greaterOrEqual"
	OpLessOrEqual    Operator = "lessOrEqual"
	OpBetween        Operator = "between"
	OpIn             Operator = "in"
	OpNotIn          Operator = "notIn"
	OpIsNull         Operator = "isNull"
	OpIsNotNull      Operator = "isNotNull"
)

// Filter is a declarative predicate over a single field. Filters are
// immutable once constructed; a changed filter is a new Filter value.
// A zero Disabled means the filter applies.
type Filter struct {
	ID       string   `yaml:"id,omitempty"       json:"id,omitempty"`
	Field    string   `yaml:"field"              json:"field"`
	Operator Operator `yaml:"operator"           json:"operator"`
	Value    any      `yaml:"value,omitempty"    json:"value,omitempty"`
	// Value2 is the upper bound, used only by the between operator.
	Value2   any  `yaml:"value2,omitempty"   json:"value2,omitempty"`
	Disabled bool `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// AggregationType names a reduction applied to a group of rows.
type AggregationType string

const (
	AggSum           AggregationType = "sum"
	AggAvg           AggregationType = "avg"
	AggCount         AggregationType = "count"
	AggCountDistinct AggregationType = "countDistinct"
	AggMin           AggregationType = "min"
	AggMax           AggregationType = "max"
	AggNone          AggregationType = "none"
)

// ValidAggregation reports whether t is a recognized aggregation type.
func ValidAggregation(t AggregationType) bool {
	switch t {
	case AggSum, AggAvg, AggCount, AggCountDistinct, AggMin, AggMax, AggNone:
		return true
	}
	return false
}

// ValidOperator reports whether op is a recognized filter operator.
func ValidOperator(op Operator) bool {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpNotContains, OpStartsWith,
		OpEndsWith, OpGreaterThan, OpLessThan, OpGreaterOrEqual,
		OpLessOrEqual, OpBetween, OpIn, OpNotIn, OpIsNull, OpIsNotNull:
		return true
	}
	return false
}
