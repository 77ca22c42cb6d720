package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handoff-dev/handoff/internal/detect"
)

const configFile = ".handoff/config.yaml"

// DefaultOverridesFile is the relative path of the team override store
// when the config doesn't name one.
const DefaultOverridesFile = ".handoff/overrides.yaml"

// Config holds project-level settings for Handoff.
type Config struct {
	TeamPluginDirs     []string       `yaml:"teamPluginDirs,omitempty"`
	StrictCatalogMatch bool           `yaml:"strictCatalogMatch,omitempty"`
	OverridesFile      string         `yaml:"overridesFile,omitempty"`
	Detector           DetectorConfig `yaml:"detector,omitempty"`
}

// DetectorConfig holds completion-detection tuning. Durations are in
// seconds; zero means the built-in default, negative disables.
type DetectorConfig struct {
	PollIntervalSeconds int `yaml:"pollIntervalSeconds,omitempty"`
	TimeoutSeconds      int `yaml:"timeoutSeconds,omitempty"`
	MaxBufferSize       int `yaml:"maxBufferSize,omitempty"`
}

// Default returns a Config with zero-value defaults.
func Default() *Config {
	return &Config{}
}

// EffectiveOverridesFile returns OverridesFile or the default path,
// resolved against baseDir.
func (c *Config) EffectiveOverridesFile(baseDir string) string {
	if c.OverridesFile != "" {
		if filepath.IsAbs(c.OverridesFile) {
			return c.OverridesFile
		}
		return filepath.Join(baseDir, c.OverridesFile)
	}
	return filepath.Join(baseDir, DefaultOverridesFile)
}

// DetectorOptions converts the config's detector tuning into detect options.
// Unset fields stay zero so the detector applies its own defaults.
func (c *Config) DetectorOptions() detect.Options {
	opts := detect.Options{MaxBufferSize: c.Detector.MaxBufferSize}
	if c.Detector.PollIntervalSeconds != 0 {
		opts.PollInterval = time.Duration(c.Detector.PollIntervalSeconds) * time.Second
	}
	if c.Detector.TimeoutSeconds != 0 {
		opts.Timeout = time.Duration(c.Detector.TimeoutSeconds) * time.Second
	}
	return opts
}

// configPath returns the full path to the config file.
func configPath(baseDir string) string {
	return filepath.Join(baseDir, configFile)
}

// Exists checks if the config file exists.
func Exists(baseDir string) bool {
	_, err := os.Stat(configPath(baseDir))
	return err == nil
}

// Load reads the config from .handoff/config.yaml.
// Returns Default() when the file doesn't exist (no error).
func Load(baseDir string) (*Config, error) {
	path := configPath(baseDir)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to .handoff/config.yaml.
func Save(baseDir string, cfg *Config) error {
	path := configPath(baseDir)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
