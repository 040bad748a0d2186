package datasource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mosaiq/mosaiq/model"
)

func TestMemoryProvider(t *testing.T) {
	p := NewMemoryProvider(model.DataSource{
		ID: "sales",
		Schema: []model.Field{
			{Name: "region", Type: "VARCHAR"},
			{Name: "orderDate", Type: "TIMESTAMP"},
		},
		Records: []model.Row{{"region": "East", "orderDate": "2024-05-17"}},
	})

	ds, ok := p.DataSource("sales")
	if !ok {
		t.Fatal("DataSource(sales) not found")
	}
	if ds.Schema[0].Type != model.FieldTypeString {
		t.Errorf("schema not normalized: %+v", ds.Schema[0])
	}

	ix, ok := p.SchemaIndex("sales")
	if !ok {
		t.Fatal("SchemaIndex(sales) not found")
	}
	if _, ok := ix.Lookup("orderDate.__year"); !ok {
		t.Error("index should expose bucket fields for the date column")
	}

	if _, ok := p.DataSource("absent"); ok {
		t.Error("DataSource(absent) should not be found")
	}
}

func TestMemoryProvider_Replace(t *testing.T) {
	p := NewMemoryProvider(model.DataSource{ID: "a"})

	p.Replace([]model.DataSource{{ID: "b"}, {ID: "c"}})

	if _, ok := p.DataSource("a"); ok {
		t.Error("replaced snapshot should not contain a")
	}
	ids := p.IDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "c" {
		t.Errorf("IDs = %v, want [b c]", ids)
	}
}

func TestLoadSeeds(t *testing.T) {
	dir := t.TempDir()
	seed := `
id: sales
name: Sales
schema:
  - name: region
    type: VARCHAR
  - name: amount
    type: NUMERIC
records:
  - region: East
    amount: 100
  - region: West
    amount: 50
`
	if err := os.WriteFile(filepath.Join(dir, "sales.yaml"), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := LoadSeeds([]string{dir})
	if err != nil {
		t.Fatalf("LoadSeeds error: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("len(sources) = %d, want 1", len(sources))
	}
	ds := sources[0]
	if ds.ID != "sales" || len(ds.Records) != 2 {
		t.Errorf("seed = %+v, want sales with 2 records", ds)
	}
	if ds.Checksum == "" {
		t.Error("checksum should be computed at load time")
	}
	if ds.Records[0]["region"] != "East" {
		t.Errorf("record 0 region = %v, want East", ds.Records[0]["region"])
	}
}

func TestLoadSeeds_MissingID(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: no id\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSeeds([]string{dir}); err == nil {
		t.Error("a seed without an id should fail to load")
	}
}
