package model

// CanonicalFieldType is the normalized type every data-source field is mapped
// to before entering the engine. Source-specific types (NUMERIC, TIMESTAMP,
// VARCHAR, ...) are collapsed to this set by the schema-normalization step.
type CanonicalFieldType string

const (
	FieldTypeString  CanonicalFieldType = "string"
	FieldTypeNumber  CanonicalFieldType = "number"
	FieldTypeDate    CanonicalFieldType = "date"
	FieldTypeBoolean CanonicalFieldType = "boolean"
)

// Field is a named, canonically-typed column of a data source.
type Field struct {
	Name string             `yaml:"name" json:"name"`
	Type CanonicalFieldType `yaml:"type" json:"type"`
}

// Row is a single data record: a string-keyed map of scalar or nil values.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// DataSource is an already-materialized tabular data set. The engine only
// reads it; loading and sync belong to the data-provisioning subsystem.
type DataSource struct {
	ID      string  `yaml:"id"      json:"id"`
	Name    string  `yaml:"name"    json:"name,omitempty"`
	Schema  []Field `yaml:"schema"  json:"schema"`
	Records []Row   `yaml:"records" json:"records"`

	// Checksum is computed at load time and not part of the YAML.
	Checksum string `yaml:"-" json:"-"`
}

// FieldByName returns the schema field with the given name.
func (d *DataSource) FieldByName(name string) (Field, bool) {
	for _, f := range d.Schema {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
