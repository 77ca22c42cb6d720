package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTeamFile parses a declarative team plugin bundle from a YAML file.
// Team plugins carry no lifecycle or capability hooks; they contribute a
// provider spec, configs, and catalog entries only. Validation happens at
// registration, not here.
func LoadTeamFile(path string) (*Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Plugin
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if p.Manifest.Type == "" {
		p.Manifest.Type = TypeTeam
	}
	if p.Manifest.Type != TypeTeam {
		return nil, fmt.Errorf("plugin file %s declares type %q, team plugin files must be type team", path, p.Manifest.Type)
	}
	return &p, nil
}

// teamPluginFiles lists the YAML files in dir in name order, so registration
// order is deterministic across runs.
func teamPluginFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}
