package builtin

import "github.com/handoff-dev/handoff/internal/plugin"

// OpenRouter returns the builtin plugin for the OpenCode CLI.
func OpenRouter(opts Options) *plugin.Plugin {
	opts = opts.withDefaults()

	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			ID:      "openrouter",
			Name:    "OpenRouter",
			Version: "1.0.0",
			Type:    plugin.TypeBuiltin,
		},
		Provider: plugin.ProviderSpec{
			ID:             "openrouter",
			Name:           "OpenRouter",
			DefaultBaseURL: "https://openrouter.ai/api/v1",
			APIFormat:      plugin.FormatOpenAI,
			AuthEnvVars:    []string{"OPENROUTER_API_KEY"},
			APIKeys: []plugin.APIKeyDescriptor{
				{Name: "apiKey", EnvVar: "OPENROUTER_API_KEY", Required: true, Description: "OpenRouter API key"},
			},
			BaseURLKey: "OPENROUTER_BASE_URL",
		},
		Configs: []plugin.AgentConfig{
			{
				Name:               "opencode",
				Command:            "opencode",
				Args:               []string{"run", "--format", "json"},
				APIKeys:            []string{"apiKey"},
				ApplyAPIKeys:       applyKeysToEnv(map[string]string{"apiKey": "OPENROUTER_API_KEY"}),
				CheckRequirements:  requireBinary("opencode", "Install OpenCode and verify `opencode --version`."),
				CompletionDetector: markerDetector(opts.LifecycleDir, "opencode"),
			},
		},
		Catalog: []plugin.CatalogEntry{
			{
				Name:            "opencode",
				DisplayName:     "OpenCode",
				Vendor:          "OpenRouter",
				RequiredAPIKeys: []string{"apiKey"},
				Tier:            plugin.TierFree,
			},
		},
	}
}
