package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/mosaiq/mosaiq/model"
)

// Evaluate applies a single filter to a row using type-aware comparison:
// both operands numeric compares numerically, both date-like compares by
// epoch, otherwise lexicographic on the string forms. Unknown operators
// pass the row through; a filter must never make the engine fail.
func Evaluate(row model.Row, f model.Filter) bool {
	value, _ := Resolve(row, f.Field)

	switch f.Operator {
	case model.OpEquals:
		return looseEqual(value, f.Value)
	case model.OpNotEquals:
		return !looseEqual(value, f.Value)
	case model.OpContains:
		return strings.Contains(lowerString(value), lowerString(f.Value))
	case model.OpNotContains:
		return !strings.Contains(lowerString(value), lowerString(f.Value))
	case model.OpStartsWith:
		return strings.HasPrefix(lowerString(value), lowerString(f.Value))
	case model.OpEndsWith:
		return strings.HasSuffix(lowerString(value), lowerString(f.Value))
	case model.OpGreaterThan:
		return compareValues(value, f.Value) > 0
	case model.OpLessThan:
		return compareValues(value, f.Value) < 0
	case model.OpGreaterOrEqual:
		return compareValues(value, f.Value) >= 0
	case model.OpLessOrEqual:
		return compareValues(value, f.Value) <= 0
	case model.OpBetween:
		return compareValues(value, f.Value) >= 0 && compareValues(value, f.Value2) <= 0
	case model.OpIn:
		return isMember(value, f.Value)
	case model.OpNotIn:
		return !isMember(value, f.Value)
	case model.OpIsNull:
		return isNullValue(value)
	case model.OpIsNotNull:
		return !isNullValue(value)
	}

	// Unrecognized operator: permissive pass-through.
	return true
}

// ApplyFilters returns the rows for which every enabled filter evaluates
// true. The empty filter list is the identity; the input slice is never
// mutated.
func ApplyFilters(rows []model.Row, filters []model.Filter) []model.Row {
	active := filters[:0:0]
	for _, f := range filters {
		if !f.Disabled {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return rows
	}

	out := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		pass := true
		for _, f := range active {
			if !Evaluate(row, f) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, row)
		}
	}
	return out
}

// looseEqual compares two values numerically when both coerce, otherwise by
// their string forms.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	an, aok := numericValue(a)
	bn, bok := numericValue(b)
	if aok && bok {
		return an == bn
	}
	return stringValue(a) == stringValue(b)
}

// compareValues returns -1, 0, or 1 ordering a against b. Mode is chosen by
// inspecting both operands: numeric when both coerce to numbers, date when
// both look like dates, lexicographic otherwise.
func compareValues(a, b any) int {
	an, aok := numericValue(a)
	bn, bok := numericValue(b)
	if aok && bok {
		return compareFloat(an, bn)
	}

	if at, ok := dateOperand(a); ok {
		if bt, ok := dateOperand(b); ok {
			return compareFloat(float64(at.UnixMilli()), float64(bt.UnixMilli()))
		}
	}

	return strings.Compare(stringValue(a), stringValue(b))
}

// dateOperand reports whether a value looks like a date: a time.Time, or a
// string containing a date separator that parses as a timestamp.
func dateOperand(v any) (time.Time, bool) {
	switch s := v.(type) {
	case time.Time:
		return s, true
	case string:
		if !strings.ContainsAny(s, "-/") {
			return time.Time{}, false
		}
		return ParseTimestamp(s)
	}
	return time.Time{}, false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// isMember reports whether value occurs in the candidate set. A non-slice
// candidate set has no members.
func isMember(value, set any) bool {
	switch s := set.(type) {
	case []any:
		for _, item := range s {
			if looseEqual(value, item) {
				return true
			}
		}
	case []string:
		for _, item := range s {
			if looseEqual(value, item) {
				return true
			}
		}
	}
	return false
}

// isNullValue treats nil and the empty string as "no value".
func isNullValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := numericValue(v); ok && n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%v", v)
}

func lowerString(v any) string {
	return strings.ToLower(stringValue(v))
}
