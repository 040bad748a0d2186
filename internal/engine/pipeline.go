// Package engine implements the cross-filter and drill-down analytics core:
// field resolution with virtual temporal buckets, type-aware filter
// evaluation, grouping, aggregation, and value formatting. Every operation
// is a pure function of its inputs, returns a well-defined default instead
// of failing, and never mutates a caller's rows.
package engine

import (
	"sort"
	"strings"

	"github.com/mosaiq/mosaiq/model"
)

// Group is one bucket of rows sharing a group-by key. Key holds the raw
// resolved value; rows whose key did not resolve collect under a nil Key.
type Group struct {
	Key  any
	Rows []model.Row
}

type groupKey struct {
	value string
	null  bool
}

// GroupBy buckets rows by the resolved value of field. Group order follows
// the first-seen order of each distinct key; a single pass over the rows.
func GroupBy(rows []model.Row, field string) []Group {
	index := make(map[groupKey]int)
	groups := make([]Group, 0)

	for _, row := range rows {
		raw, _ := Resolve(row, field)

		key := groupKey{}
		if isNullValue(raw) {
			key.null = true
			raw = nil
		} else {
			key.value = stringValue(raw)
		}

		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: raw})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	return groups
}

// MultiGroup is one bucket of rows sharing a composite group-by key, one
// key per group field.
type MultiGroup struct {
	Keys []any
	Rows []model.Row
}

// GroupByFields buckets rows by the resolved values of all fields at once.
// Group order follows the first-seen order of each distinct key tuple.
func GroupByFields(rows []model.Row, fields []string) []MultiGroup {
	index := make(map[string]int)
	groups := make([]MultiGroup, 0)

	for _, row := range rows {
		keys := make([]any, len(fields))
		var compound strings.Builder
		for i, f := range fields {
			raw, _ := Resolve(row, f)
			if isNullValue(raw) {
				raw = nil
				compound.WriteByte(0x00)
			} else {
				compound.WriteString(stringValue(raw))
			}
			compound.WriteByte(0x1f)
			keys[i] = raw
		}

		k := compound.String()
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, MultiGroup{Keys: keys})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	return groups
}

// ProcessWidgetData runs the full widget-data pipeline: extra filters
// (cross filters, breadcrumb scope), then the widget's own filters, then
// group-by, aggregation, and an ascending sort on the group key. Without an
// x-axis there is nothing to group by and the result is empty. The data
// source's records are never mutated.
func ProcessWidgetData(spec model.WidgetQuerySpec, ds *model.DataSource, extraFilters []model.Filter) []model.Row {
	if spec.XAxis == "" {
		return []model.Row{}
	}
	return ProcessWidgetRows(spec, []string{spec.XAxis}, ds, extraFilters)
}

// ProcessWidgetRows is ProcessWidgetData generalized to a composite set of
// group fields, as produced when a hierarchy level is expanded. Each output
// row carries one column per group field plus the aggregated measures, and
// rows sort ascending by the group fields in order.
func ProcessWidgetRows(spec model.WidgetQuerySpec, groupFields []string, ds *model.DataSource, extraFilters []model.Filter) []model.Row {
	if ds == nil || len(groupFields) == 0 {
		return []model.Row{}
	}

	rows := ApplyFilters(ds.Records, extraFilters)
	rows = ApplyFilters(rows, spec.Filters)

	groups := GroupByFields(rows, groupFields)
	legendField := legendFieldFor(spec)

	out := make([]model.Row, 0, len(groups))
	for _, g := range groups {
		row := model.Row{}
		for i, f := range groupFields {
			row[f] = g.Keys[i]
		}
		for _, y := range spec.YAxis {
			row[y] = Aggregate(g.Rows, y, spec.Aggregation)
		}
		if legendField != "" && legendField != groupFields[0] && len(g.Rows) > 0 {
			if v, ok := Resolve(g.Rows[0], legendField); ok {
				row[legendField] = v
			}
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, f := range groupFields {
			a, b := out[i][f], out[j][f]
			if lessGroupKey(a, b) {
				return true
			}
			if lessGroupKey(b, a) {
				return false
			}
		}
		return false
	})

	return out
}

// legendFieldFor picks the configured legend field: the legend hierarchy's
// top level when present, otherwise the explicit legend field.
func legendFieldFor(spec model.WidgetQuerySpec) string {
	if len(spec.LegendHierarchy) > 0 {
		return spec.LegendHierarchy[0]
	}
	return spec.Legend
}

// lessGroupKey orders group keys ascending, numbers before strings
// numerically when both coerce, nil keys always last.
func lessGroupKey(a, b any) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	an, aok := numericValue(a)
	bn, bok := numericValue(b)
	if aok && bok {
		return an < bn
	}
	return stringValue(a) < stringValue(b)
}
