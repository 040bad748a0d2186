// Package datasource surfaces read-only, already-materialized data sources
// to the engine and normalizes their schemas: source-specific column types
// collapse to the canonical four, field names get a case-folded lookup
// index, and date fields gain precomputed virtual temporal bucket fields.
// Ingestion and sync belong to the data-provisioning subsystem, not here.
package datasource

import (
	"strings"

	"github.com/mosaiq/mosaiq/model"
)

// CanonicalType maps a source-specific column type to the canonical set.
// Unrecognized types normalize to string.
func CanonicalType(sourceType string) model.CanonicalFieldType {
	switch strings.ToUpper(strings.TrimSpace(sourceType)) {
	case "NUMBER", "NUMERIC", "DECIMAL", "FLOAT", "FLOAT64", "DOUBLE",
		"INT", "INTEGER", "INT64", "BIGINT", "SMALLINT", "REAL":
		return model.FieldTypeNumber
	case "DATE", "DATETIME", "TIMESTAMP", "TIME":
		return model.FieldTypeDate
	case "BOOL", "BOOLEAN":
		return model.FieldTypeBoolean
	case "STRING", "TEXT", "VARCHAR", "CHAR":
		return model.FieldTypeString
	}

	switch model.CanonicalFieldType(strings.ToLower(strings.TrimSpace(sourceType))) {
	case model.FieldTypeNumber, model.FieldTypeDate, model.FieldTypeBoolean, model.FieldTypeString:
		return model.CanonicalFieldType(strings.ToLower(strings.TrimSpace(sourceType)))
	}
	return model.FieldTypeString
}

// NormalizeSchema trims field names and collapses source types to canonical
// ones. The input slice is not modified.
func NormalizeSchema(schema []model.Field) []model.Field {
	out := make([]model.Field, len(schema))
	for i, f := range schema {
		out[i] = model.Field{
			Name: strings.TrimSpace(f.Name),
			Type: CanonicalType(string(f.Type)),
		}
	}
	return out
}

// Virtual bucket suffixes available on date fields.
var bucketSuffixes = []string{"__year", "__half", "__quarter", "__month", "__day"}

// SchemaIndex is a normalized lookup table over a schema: case-folded field
// names plus the virtual temporal bucket fields derived from date columns.
// Building it once per schema load keeps per-row lookups off the fuzzy path.
type SchemaIndex struct {
	fields  map[string]model.Field
	virtual map[string]model.Field
	ordered []model.Field
}

// NewSchemaIndex builds an index over an already-normalized schema.
func NewSchemaIndex(schema []model.Field) *SchemaIndex {
	ix := &SchemaIndex{
		fields:  make(map[string]model.Field, len(schema)),
		virtual: make(map[string]model.Field),
		ordered: append([]model.Field(nil), schema...),
	}
	for _, f := range schema {
		ix.fields[foldName(f.Name)] = f
		if f.Type == model.FieldTypeDate {
			for _, suffix := range bucketSuffixes {
				name := f.Name + "." + suffix
				ix.virtual[foldName(name)] = model.Field{Name: name, Type: model.FieldTypeString}
			}
		}
	}
	return ix
}

// Lookup finds a field by name, trying real fields first and then the
// precomputed virtual bucket fields.
func (ix *SchemaIndex) Lookup(name string) (model.Field, bool) {
	key := foldName(name)
	if f, ok := ix.fields[key]; ok {
		return f, true
	}
	if f, ok := ix.virtual[key]; ok {
		return f, true
	}
	return model.Field{}, false
}

// Fields returns the schema in declaration order.
func (ix *SchemaIndex) Fields() []model.Field {
	return append([]model.Field(nil), ix.ordered...)
}

// VirtualFields returns every derivable bucket field.
func (ix *SchemaIndex) VirtualFields() []model.Field {
	out := make([]model.Field, 0, len(ix.virtual))
	for _, f := range ix.ordered {
		if f.Type != model.FieldTypeDate {
			continue
		}
		for _, suffix := range bucketSuffixes {
			name := f.Name + "." + suffix
			out = append(out, model.Field{Name: name, Type: model.FieldTypeString})
		}
	}
	return out
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
