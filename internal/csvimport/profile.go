package csvimport

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a named, reusable CSV import configuration stored on disk so
// operators don't retype role codes per run.
type Profile struct {
	Columns    string `yaml:"columns"`
	HasHeader  bool   `yaml:"has_header"`
	DateLayout string `yaml:"date_layout"`
}

// LoadProfiles reads a YAML file mapping profile names to profiles.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles %s: %w", path, err)
	}

	profiles := map[string]Profile{}
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing profiles %s: %w", path, err)
	}
	return profiles, nil
}

// Config converts the profile into an import Config.
func (p Profile) Config() (Config, error) {
	roles, err := ParseColumnConfig(p.Columns)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Columns:    roles,
		HasHeader:  p.HasHeader,
		DateLayout: p.DateLayout,
	}, nil
}
