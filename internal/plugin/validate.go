package plugin

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	idPattern      = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	// prefix[/variant][:tag]
	agentNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*(/[a-z0-9][a-z0-9-]*)?(:[a-z0-9][a-z0-9.-]*)?$`)
)

// ValidateOptions tunes validation strictness.
type ValidateOptions struct {
	// StrictCatalogMatch promotes "config without catalog entry" from a
	// warning to an error. A usable-but-hidden config is less severe than a
	// catalog entry pointing at nothing, so the default is lenient.
	StrictCatalogMatch bool
}

// Result is the outcome of validating a plugin bundle.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate runs structural and cross-field checks on a candidate plugin.
// It never mutates the candidate.
func Validate(p *Plugin, opts ValidateOptions) Result {
	var errs, warns []string

	errorf := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}
	warnf := func(format string, args ...any) {
		warns = append(warns, fmt.Sprintf(format, args...))
	}

	// Manifest
	if !idPattern.MatchString(p.Manifest.ID) {
		errorf("manifest id %q must match %s", p.Manifest.ID, idPattern)
	}
	if p.Manifest.Name == "" {
		errorf("manifest name must not be empty")
	}
	if !versionPattern.MatchString(p.Manifest.Version) {
		errorf("manifest version %q must be semver major.minor.patch", p.Manifest.Version)
	}
	switch p.Manifest.Type {
	case TypeBuiltin, TypeCommunity, TypeTeam:
	default:
		errorf("manifest type %q must be one of builtin, community, team", p.Manifest.Type)
	}

	// Provider spec
	if p.Provider.ID == "" {
		errorf("provider id must not be empty")
	}
	if u, err := url.Parse(p.Provider.DefaultBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errorf("provider defaultBaseUrl %q is not a valid URL", p.Provider.DefaultBaseURL)
	}
	if len(p.Provider.AuthEnvVars) == 0 {
		errorf("provider authEnvVars must not be empty")
	}
	switch p.Provider.APIFormat {
	case FormatAnthropic, FormatOpenAI, FormatBedrock, FormatVertex, FormatPassthrough:
	default:
		errorf("provider apiFormat %q is not a known format", p.Provider.APIFormat)
	}

	// Agent configs
	if len(p.Configs) == 0 {
		errorf("plugin must define at least one agent config")
	}
	configNames := make(map[string]*AgentConfig, len(p.Configs))
	for i := range p.Configs {
		cfg := &p.Configs[i]
		if cfg.Name == "" {
			errorf("config %d has an empty name", i)
			continue
		}
		if !agentNamePattern.MatchString(cfg.Name) {
			errorf("config name %q must match prefix[/variant][:tag]", cfg.Name)
		}
		if _, dup := configNames[cfg.Name]; dup {
			errorf("duplicate config name %q", cfg.Name)
		}
		configNames[cfg.Name] = cfg
		if cfg.Command == "" {
			errorf("config %q has an empty command", cfg.Name)
		}
		if cfg.Disabled && cfg.DisabledReason == "" {
			warnf("config %q is disabled without a disabledReason", cfg.Name)
		}
		// A prefix matching the plugin's own id is fine: plugins name their
		// agents after themselves.
		prefix := AgentPrefix(cfg.Name)
		if _, known := AgentPrefixProviders[prefix]; !known && prefix != p.Manifest.ID {
			warnf("config %q uses unknown agent prefix %q", cfg.Name, prefix)
		}
	}

	// Catalog
	if len(p.Catalog) == 0 {
		errorf("plugin must define at least one catalog entry")
	}
	catalogNames := make(map[string]bool, len(p.Catalog))
	for i, entry := range p.Catalog {
		if entry.Name == "" {
			errorf("catalog entry %d has an empty name", i)
			continue
		}
		if catalogNames[entry.Name] {
			errorf("duplicate catalog entry %q", entry.Name)
		}
		catalogNames[entry.Name] = true
		switch entry.Tier {
		case TierFree, TierPaid:
		default:
			errorf("catalog entry %q tier %q must be free or paid", entry.Name, entry.Tier)
		}
		// A catalog entry describes a selectable thing; pointing at a config
		// that doesn't exist is always an error.
		if _, ok := configNames[entry.Name]; !ok {
			errorf("catalog entry %q has no matching agent config", entry.Name)
		}
	}

	// The reverse direction is softer: a config that is usable but not shown.
	for _, cfg := range p.Configs {
		if cfg.Name == "" || cfg.Disabled {
			continue
		}
		if !catalogNames[cfg.Name] {
			msg := fmt.Sprintf("config %q has no catalog entry", cfg.Name)
			if opts.StrictCatalogMatch {
				errs = append(errs, msg)
			} else {
				warns = append(warns, msg)
			}
		}
	}

	return Result{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// AssertValid validates the plugin and returns an error joining every
// validation failure, for call sites that want to fail fast.
func AssertValid(p *Plugin, opts ValidateOptions) error {
	result := Validate(p, opts)
	if result.Valid {
		return nil
	}
	return fmt.Errorf("invalid plugin %q: %s", p.Manifest.ID, strings.Join(result.Errors, "; "))
}
