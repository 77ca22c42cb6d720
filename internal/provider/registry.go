// Package provider resolves a provider id, plus an optional per-team
// override, into the connection spec an agent invocation should use. The
// registry only merges; it never persists overrides and never owns the
// override store.
package provider

import (
	"fmt"

	"github.com/handoff-dev/handoff/internal/plugin"
)

// ModelFallback is one entry of a team's substitute-model chain.
type ModelFallback struct {
	ModelName string `yaml:"modelName" json:"modelName"`
	Priority  int    `yaml:"priority" json:"priority"`
}

// Override is a team's partial replacement of a provider's defaults.
// Supplied by an external store; at most one enabled override per provider
// is the store's invariant to keep, not the registry's.
type Override struct {
	ProviderID    string            `yaml:"providerId" json:"providerId"`
	BaseURL       string            `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`
	APIFormat     plugin.APIFormat  `yaml:"apiFormat,omitempty" json:"apiFormat,omitempty"`
	APIKeyEnvVar  string            `yaml:"apiKeyEnvVar,omitempty" json:"apiKeyEnvVar,omitempty"`
	CustomHeaders map[string]string `yaml:"customHeaders,omitempty" json:"customHeaders,omitempty"`
	Fallbacks     []ModelFallback   `yaml:"fallbacks,omitempty" json:"fallbacks,omitempty"`
	Enabled       bool              `yaml:"enabled" json:"enabled"`
}

// Resolved is the ephemeral merge result handed to the agent spawner. It has
// no identity beyond the call that produced it and is never persisted.
type Resolved struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	BaseURL       string                    `json:"baseUrl"`
	APIFormat     plugin.APIFormat          `json:"apiFormat"`
	AuthEnvVars   []string                  `json:"authEnvVars"`
	APIKeys       []plugin.APIKeyDescriptor `json:"apiKeys"`
	CustomHeaders map[string]string         `json:"customHeaders,omitempty"`
	Fallbacks     []ModelFallback           `json:"fallbacks,omitempty"`
	IsOverridden  bool                      `json:"isOverridden"`
}

// Registry resolves provider ids against the loaded base specs.
type Registry struct {
	specs map[string]plugin.ProviderSpec
}

// NewRegistry returns a Registry over the given base specs.
func NewRegistry(specs []plugin.ProviderSpec) *Registry {
	m := make(map[string]plugin.ProviderSpec, len(specs))
	for _, s := range specs {
		m[s.ID] = s
	}
	return &Registry{specs: m}
}

// FromLoader builds a Registry from a plugin loader, loading it if needed.
func FromLoader(l *plugin.Loader) *Registry {
	l.LoadAll()
	return NewRegistry(l.ProviderSpecs())
}

// Resolve merges the base spec for providerID with an optional override.
// With no base spec, an override is required to synthesize an ad hoc custom
// provider; without one the provider is unknown. APIKeys metadata always
// comes from the base spec: only it defines which credential fields exist.
func (r *Registry) Resolve(providerID string, override *Override) (*Resolved, error) {
	base, ok := r.specs[providerID]
	if !ok {
		if override == nil {
			return nil, fmt.Errorf("unknown provider %q", providerID)
		}
		return synthesizeCustom(providerID, override), nil
	}

	resolved := &Resolved{
		ID:          base.ID,
		Name:        base.Name,
		BaseURL:     base.DefaultBaseURL,
		APIFormat:   base.APIFormat,
		AuthEnvVars: base.AuthEnvVars,
		APIKeys:     base.APIKeys,
	}
	if override == nil {
		return resolved, nil
	}

	resolved.IsOverridden = true
	if override.BaseURL != "" {
		resolved.BaseURL = override.BaseURL
	}
	if override.APIFormat != "" {
		resolved.APIFormat = override.APIFormat
	}
	if override.APIKeyEnvVar != "" {
		resolved.AuthEnvVars = []string{override.APIKeyEnvVar}
	}
	if override.CustomHeaders != nil {
		resolved.CustomHeaders = override.CustomHeaders
	}
	if override.Fallbacks != nil {
		resolved.Fallbacks = override.Fallbacks
	}
	return resolved, nil
}

// synthesizeCustom builds a provider that exists only in the override: no
// credential metadata, id doubling as display name.
func synthesizeCustom(providerID string, override *Override) *Resolved {
	format := override.APIFormat
	if format == "" {
		format = plugin.FormatPassthrough
	}
	var authEnvVars []string
	if override.APIKeyEnvVar != "" {
		authEnvVars = []string{override.APIKeyEnvVar}
	}
	return &Resolved{
		ID:            providerID,
		Name:          providerID,
		BaseURL:       override.BaseURL,
		APIFormat:     format,
		AuthEnvVars:   authEnvVars,
		APIKeys:       []plugin.APIKeyDescriptor{},
		CustomHeaders: override.CustomHeaders,
		Fallbacks:     override.Fallbacks,
		IsOverridden:  true,
	}
}

// ResolveForAgent derives the provider id from the agent name's prefix and
// applies the first enabled override for that provider.
func (r *Registry) ResolveForAgent(agentName string, overrides []Override) (*Resolved, error) {
	prefix := plugin.AgentPrefix(agentName)
	providerID, ok := plugin.AgentPrefixProviders[prefix]
	if !ok {
		return nil, fmt.Errorf("agent %q has no provider mapping for prefix %q", agentName, prefix)
	}

	var match *Override
	for i := range overrides {
		if overrides[i].ProviderID == providerID && overrides[i].Enabled {
			match = &overrides[i]
			break
		}
	}
	return r.Resolve(providerID, match)
}
