// Package plugin defines the provider plugin bundle format and the loader
// that aggregates bundles into a process-wide registry. A plugin packages one
// backend provider's connection spec together with the agent configs that
// talk to it and the catalog entries the UI shows for them.
package plugin

import (
	"context"
	"time"
)

// Type identifies where a plugin comes from.
type Type string

const (
	TypeBuiltin   Type = "builtin"
	TypeCommunity Type = "community"
	TypeTeam      Type = "team"
)

// APIFormat is the wire protocol a provider speaks.
type APIFormat string

const (
	FormatAnthropic   APIFormat = "anthropic"
	FormatOpenAI      APIFormat = "openai"
	FormatBedrock     APIFormat = "bedrock"
	FormatVertex      APIFormat = "vertex"
	FormatPassthrough APIFormat = "passthrough"
)

// Manifest identifies a plugin. Immutable after load.
type Manifest struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
	Type    Type   `yaml:"type" json:"type"`
}

// APIKeyDescriptor describes one credential field a provider accepts.
type APIKeyDescriptor struct {
	Name        string `yaml:"name" json:"name"`
	EnvVar      string `yaml:"envVar" json:"envVar"`
	Required    bool   `yaml:"required" json:"required"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ProviderSpec is a provider's default connection spec. One per plugin;
// immutable.
type ProviderSpec struct {
	ID             string             `yaml:"id" json:"id"`
	Name           string             `yaml:"name" json:"name"`
	DefaultBaseURL string             `yaml:"defaultBaseUrl" json:"defaultBaseUrl"`
	APIFormat      APIFormat          `yaml:"apiFormat" json:"apiFormat"`
	AuthEnvVars    []string           `yaml:"authEnvVars" json:"authEnvVars"`
	APIKeys        []APIKeyDescriptor `yaml:"apiKeys,omitempty" json:"apiKeys,omitempty"`
	BaseURLKey     string             `yaml:"baseUrlKey,omitempty" json:"baseUrlKey,omitempty"`
}

// AgentConfig describes one launchable agent. Names follow
// prefix[/variant][:tag], e.g. "claude", "claude/plan", "codex:preview".
//
// The function fields are optional capability hooks; a nil hook means the
// agent does not support that capability.
type AgentConfig struct {
	Name           string   `yaml:"name" json:"name"`
	Command        string   `yaml:"command" json:"command"`
	Args           []string `yaml:"args,omitempty" json:"args,omitempty"`
	APIKeys        []string `yaml:"apiKeys,omitempty" json:"apiKeys,omitempty"`
	Disabled       bool     `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	DisabledReason string   `yaml:"disabledReason,omitempty" json:"disabledReason,omitempty"`

	// Environment returns extra environment variables for the invocation.
	Environment func(ctx context.Context) (map[string]string, error) `yaml:"-" json:"-"`
	// ApplyAPIKeys injects resolved credential values into env.
	ApplyAPIKeys func(keys, env map[string]string) `yaml:"-" json:"-"`
	// CheckRequirements verifies the agent can run on this host.
	CheckRequirements func(ctx context.Context) error `yaml:"-" json:"-"`
	// CompletionDetector blocks until the run identified by taskRunID has
	// finished its turn. This is the sole completion signal for the run.
	CompletionDetector func(ctx context.Context, taskRunID string) error `yaml:"-" json:"-"`
}

// Tier is the catalog pricing tier.
type Tier string

const (
	TierFree Tier = "free"
	TierPaid Tier = "paid"
)

// CatalogEntry is the UI-facing twin of an AgentConfig: display metadata
// without execution logic. Its Name must equal exactly one AgentConfig name
// within the same plugin.
type CatalogEntry struct {
	Name            string   `yaml:"name" json:"name"`
	DisplayName     string   `yaml:"displayName" json:"displayName"`
	Vendor          string   `yaml:"vendor" json:"vendor"`
	RequiredAPIKeys []string `yaml:"requiredApiKeys,omitempty" json:"requiredApiKeys,omitempty"`
	Tier            Tier     `yaml:"tier" json:"tier"`
}

// HealthStatus is the result of a plugin health check.
type HealthStatus struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message"`
}

// Lifecycle holds a plugin's optional lifecycle hooks.
type Lifecycle struct {
	HealthCheck func(ctx context.Context) HealthStatus `yaml:"-" json:"-"`
	Shutdown    func(ctx context.Context) error        `yaml:"-" json:"-"`
}

// Plugin is the bundle a provider exports to join the registry.
type Plugin struct {
	Manifest  Manifest       `yaml:"manifest" json:"manifest"`
	Provider  ProviderSpec   `yaml:"provider" json:"provider"`
	Configs   []AgentConfig  `yaml:"configs" json:"configs"`
	Catalog   []CatalogEntry `yaml:"catalog" json:"catalog"`
	Lifecycle *Lifecycle     `yaml:"-" json:"-"`
}

// LoadedPlugin is a Plugin plus the loader's runtime metadata. Owned
// exclusively by the Loader: created at LoadAll, destroyed at Shutdown.
type LoadedPlugin struct {
	*Plugin
	LoadedFrom  string
	LoadedAt    time.Time
	Initialized bool
	InitError   error
}

// AgentPrefixProviders maps an agent name's slash-prefix to the provider id
// its invocations resolve against. The validator treats these prefixes as the
// known naming convention; the provider registry uses the mapping itself.
var AgentPrefixProviders = map[string]string{
	"claude":   "anthropic",
	"codex":    "openai",
	"opencode": "openrouter",
	"gemini":   "google",
	"qwen":     "qwen",
}

// AgentPrefix returns the provider prefix of an agent name: everything
// before the first "/" or ":".
func AgentPrefix(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '/' || name[i] == ':' {
			return name[:i]
		}
	}
	return name
}
