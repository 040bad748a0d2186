package datasource

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/mosaiq/mosaiq/model"
)

// Provider is the engine's read-only view of the data-provisioning
// subsystem: materialized data sources by id.
type Provider interface {
	DataSource(id string) (*model.DataSource, bool)
	IDs() []string
}

type snapshot struct {
	sources map[string]*model.DataSource
	indexes map[string]*SchemaIndex
	ids     []string
}

// MemoryProvider holds data sources in memory behind an atomic pointer
// swap: readers are lock-free, and Replace installs a whole new snapshot.
type MemoryProvider struct {
	snap atomic.Pointer[snapshot]
}

// NewMemoryProvider creates a provider over the given sources. Schemas are
// normalized on the way in.
func NewMemoryProvider(sources ...model.DataSource) *MemoryProvider {
	p := &MemoryProvider{}
	p.Replace(sources)
	return p
}

// Replace atomically swaps the provider contents.
func (p *MemoryProvider) Replace(sources []model.DataSource) {
	s := &snapshot{
		sources: make(map[string]*model.DataSource, len(sources)),
		indexes: make(map[string]*SchemaIndex, len(sources)),
	}
	for i := range sources {
		ds := sources[i]
		ds.Schema = NormalizeSchema(ds.Schema)
		s.sources[ds.ID] = &ds
		s.indexes[ds.ID] = NewSchemaIndex(ds.Schema)
		s.ids = append(s.ids, ds.ID)
	}
	p.snap.Store(s)
}

// DataSource returns the data source with the given id.
func (p *MemoryProvider) DataSource(id string) (*model.DataSource, bool) {
	ds, ok := p.snap.Load().sources[id]
	return ds, ok
}

// SchemaIndex returns the normalized lookup index for a data source.
func (p *MemoryProvider) SchemaIndex(id string) (*SchemaIndex, bool) {
	ix, ok := p.snap.Load().indexes[id]
	return ix, ok
}

// IDs returns the loaded data source ids in load order.
func (p *MemoryProvider) IDs() []string {
	return append([]string(nil), p.snap.Load().ids...)
}

// LoadSeeds scans directories for *.yaml and *.yml seed files and parses
// each into a DataSource. Seed files exist for demos and tests; production
// rows arrive from the provisioning subsystem already materialized.
func LoadSeeds(directories []string) ([]model.DataSource, error) {
	var sources []model.DataSource

	for _, dir := range directories {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".yaml" && ext != ".yml" {
				return nil
			}

			ds, err := loadSeedFile(path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			sources = append(sources, ds)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning directory %s: %w", dir, err)
		}
	}

	return sources, nil
}

func loadSeedFile(path string) (model.DataSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.DataSource{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var ds model.DataSource
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return model.DataSource{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if ds.ID == "" {
		return model.DataSource{}, fmt.Errorf("%s: data source id is required", path)
	}

	ds.Checksum = fmt.Sprintf("%x", sha256.Sum256(data))

	return ds, nil
}
