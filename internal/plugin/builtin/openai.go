package builtin

import "github.com/handoff-dev/handoff/internal/plugin"

// OpenAI returns the builtin plugin for the Codex CLI.
func OpenAI(opts Options) *plugin.Plugin {
	opts = opts.withDefaults()

	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			ID:      "openai",
			Name:    "OpenAI",
			Version: "1.0.0",
			Type:    plugin.TypeBuiltin,
		},
		Provider: plugin.ProviderSpec{
			ID:             "openai",
			Name:           "OpenAI",
			DefaultBaseURL: "https://api.openai.com/v1",
			APIFormat:      plugin.FormatOpenAI,
			AuthEnvVars:    []string{"OPENAI_API_KEY"},
			APIKeys: []plugin.APIKeyDescriptor{
				{Name: "apiKey", EnvVar: "OPENAI_API_KEY", Required: true, Description: "OpenAI API key"},
			},
			BaseURLKey: "OPENAI_BASE_URL",
		},
		Configs: []plugin.AgentConfig{
			{
				Name:               "codex",
				Command:            "codex",
				Args:               []string{"exec", "--json", "--yolo", "-"},
				APIKeys:            []string{"apiKey"},
				ApplyAPIKeys:       applyKeysToEnv(map[string]string{"apiKey": "OPENAI_API_KEY"}),
				CheckRequirements:  requireBinary("codex", "Install Codex and verify `codex --version`."),
				CompletionDetector: markerDetector(opts.LifecycleDir, "codex"),
			},
			{
				Name:           "codex/mini",
				Command:        "codex",
				Args:           []string{"exec", "--json", "--model", "codex-mini-latest", "-"},
				APIKeys:        []string{"apiKey"},
				Disabled:       true,
				DisabledReason: "codex-mini output format is not yet stable enough for unattended runs",
			},
		},
		Catalog: []plugin.CatalogEntry{
			{
				Name:            "codex",
				DisplayName:     "Codex",
				Vendor:          "OpenAI",
				RequiredAPIKeys: []string{"apiKey"},
				Tier:            plugin.TierPaid,
			},
		},
	}
}
