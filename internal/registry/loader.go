package registry

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultData embed.FS

// Load returns the registry built from the embedded default data set.
func Load() (*Registry, error) {
	read := func(name string) ([]byte, error) {
		return defaultData.ReadFile("data/" + name)
	}
	return load(read)
}

// LoadFromDir builds a registry from YAML files in dir, allowing the
// reference data to be swapped without a rebuild. The directory must
// contain schools.yaml, cities.yaml, states.yaml and city_aliases.yaml.
func LoadFromDir(dir string) (*Registry, error) {
	read := func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}
	return load(read)
}

func load(read func(string) ([]byte, error)) (*Registry, error) {
	var schools []School
	if err := unmarshalFile(read, "schools.yaml", &schools); err != nil {
		return nil, err
	}

	var cities []City
	if err := unmarshalFile(read, "cities.yaml", &cities); err != nil {
		return nil, err
	}

	var states []State
	if err := unmarshalFile(read, "states.yaml", &states); err != nil {
		return nil, err
	}

	aliases := make(map[string][]string)
	if err := unmarshalFile(read, "city_aliases.yaml", &aliases); err != nil {
		return nil, err
	}

	return New(schools, cities, states, aliases)
}

func unmarshalFile(read func(string) ([]byte, error), name string, out any) error {
	data, err := read(name)
	if err != nil {
		return eris.Wrapf(err, "registry: read %s", name)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "registry: unmarshal %s", name)
	}
	return nil
}
