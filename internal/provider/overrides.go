package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overridesFile is the on-disk shape of the team override store this binary
// consumes. The store itself (who writes it, how it is synced) is outside
// this package; we only read and merge.
type overridesFile struct {
	Overrides []Override `yaml:"overrides"`
}

// LoadOverrides reads team overrides from a YAML file. A missing file means
// no overrides (no error), matching how project config loads.
func LoadOverrides(path string) ([]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var f overridesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f.Overrides, nil
}
