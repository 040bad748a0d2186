package engine

import "github.com/mosaiq/mosaiq/model"

// Aggregate reduces a group of rows to a scalar for one field. Rows whose
// field value is nil or empty are skipped first; an empty remainder yields 0
// for every aggregation type.
func Aggregate(rows []model.Row, field string, typ model.AggregationType) float64 {
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		v, _ := Resolve(row, field)
		if isNullValue(v) {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return 0
	}

	switch typ {
	case model.AggSum:
		return sumValues(values)
	case model.AggAvg:
		return sumValues(values) / float64(len(values))
	case model.AggCount:
		return float64(len(values))
	case model.AggCountDistinct:
		seen := make(map[string]bool, len(values))
		for _, v := range values {
			seen[stringValue(v)] = true
		}
		return float64(len(seen))
	case model.AggMin:
		min, ok := numericValue(values[0])
		if !ok {
			min = 0
		}
		for _, v := range values[1:] {
			if n, ok := numericValue(v); ok && n < min {
				min = n
			}
		}
		return min
	case model.AggMax:
		max, ok := numericValue(values[0])
		if !ok {
			max = 0
		}
		for _, v := range values[1:] {
			if n, ok := numericValue(v); ok && n > max {
				max = n
			}
		}
		return max
	case model.AggNone:
		n, _ := numericValue(values[0])
		return n
	}

	n, _ := numericValue(values[0])
	return n
}

func sumValues(values []any) float64 {
	var total float64
	for _, v := range values {
		if n, ok := numericValue(v); ok {
			total += n
		}
	}
	return total
}
