package resolve

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

// Override is one hand-curated ZIP-to-city mapping.
type Override struct {
	City  string `yaml:"city"`
	State string `yaml:"state"`
}

// Pattern maps a 3-digit ZIP prefix to a state and its preferred cities in
// editorial order.
type Pattern struct {
	State  string   `yaml:"state"`
	Cities []string `yaml:"cities"`
}

// Tables holds the static regional lookup data embedded in the binary.
type Tables struct {
	Overrides  map[string]Override     `yaml:"overrides"`
	Patterns   map[string]Pattern      `yaml:"patterns"`
	Regions2   map[string]string       `yaml:"regions2"`
	Regions1   map[string]string       `yaml:"regions1"`
	CityCoords map[string]*Coordinates `yaml:"city_coords"`
	Default    Override                `yaml:"default"`
}

// LoadTables parses the embedded regions.yaml.
func LoadTables() (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(regionsYAML, &t); err != nil {
		return nil, eris.Wrap(err, "resolve: parse regions.yaml")
	}
	return &t, nil
}

// MustLoadTables panics on a malformed embedded table. The data ships with
// the binary, so a failure here is a build defect.
func MustLoadTables() *Tables {
	t, err := LoadTables()
	if err != nil {
		panic(err)
	}
	return t
}
