package model

// DashboardDefinition is the root structure of a definition file. Each file
// declares one dashboard and the widgets placed on it.
type DashboardDefinition struct {
	Dashboard  string               `yaml:"dashboard"  json:"dashboard"`
	Title      string               `yaml:"title"      json:"title"`
	Version    string               `yaml:"version"    json:"version"`
	Navigation NavigationDefinition `yaml:"navigation" json:"navigation"`
	Widgets    []Widget             `yaml:"widgets"    json:"widgets,omitempty"`

	// Checksum is computed at load time and not part of the YAML.
	Checksum string `yaml:"-" json:"-"`
	// SourceFile records the originating file path.
	SourceFile string `yaml:"-" json:"-"`
}

// NavigationDefinition describes a dashboard's menu entry.
type NavigationDefinition struct {
	Label string `yaml:"label" json:"label"`
	Icon  string `yaml:"icon"  json:"icon"`
	Order int    `yaml:"order" json:"order"`
}
