package builtin

import "github.com/handoff-dev/handoff/internal/plugin"

// Anthropic returns the builtin plugin for the Claude Code CLI.
func Anthropic(opts Options) *plugin.Plugin {
	opts = opts.withDefaults()

	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			ID:      "anthropic",
			Name:    "Anthropic",
			Version: "1.0.0",
			Type:    plugin.TypeBuiltin,
		},
		Provider: plugin.ProviderSpec{
			ID:             "anthropic",
			Name:           "Anthropic",
			DefaultBaseURL: "https://api.anthropic.com",
			APIFormat:      plugin.FormatAnthropic,
			AuthEnvVars:    []string{"ANTHROPIC_API_KEY"},
			APIKeys: []plugin.APIKeyDescriptor{
				{Name: "apiKey", EnvVar: "ANTHROPIC_API_KEY", Required: true, Description: "Anthropic API key"},
				{Name: "authToken", EnvVar: "ANTHROPIC_AUTH_TOKEN", Description: "OAuth token, used instead of an API key"},
			},
			BaseURLKey: "ANTHROPIC_BASE_URL",
		},
		Configs: []plugin.AgentConfig{
			{
				Name:    "claude",
				Command: "claude",
				Args: []string{
					"--dangerously-skip-permissions",
					"--output-format", "stream-json",
					"--verbose",
				},
				APIKeys:            []string{"apiKey", "authToken"},
				Environment:        staticEnv(map[string]string{"CLAUDE_CODE_ENTRYPOINT": "handoff"}),
				ApplyAPIKeys:       applyKeysToEnv(map[string]string{"apiKey": "ANTHROPIC_API_KEY", "authToken": "ANTHROPIC_AUTH_TOKEN"}),
				CheckRequirements:  requireBinary("claude", "Install Claude Code and verify `claude --version`."),
				CompletionDetector: markerDetector(opts.LifecycleDir, "claude"),
			},
			{
				Name:    "claude/plan",
				Command: "claude",
				Args: []string{
					"--permission-mode", "plan",
					"--output-format", "stream-json",
					"--verbose",
				},
				APIKeys:            []string{"apiKey", "authToken"},
				ApplyAPIKeys:       applyKeysToEnv(map[string]string{"apiKey": "ANTHROPIC_API_KEY", "authToken": "ANTHROPIC_AUTH_TOKEN"}),
				CheckRequirements:  requireBinary("claude", "Install Claude Code and verify `claude --version`."),
				CompletionDetector: markerDetector(opts.LifecycleDir, "claude"),
			},
		},
		Catalog: []plugin.CatalogEntry{
			{
				Name:            "claude",
				DisplayName:     "Claude Code",
				Vendor:          "Anthropic",
				RequiredAPIKeys: []string{"apiKey"},
				Tier:            plugin.TierPaid,
			},
			{
				Name:            "claude/plan",
				DisplayName:     "Claude Code (plan mode)",
				Vendor:          "Anthropic",
				RequiredAPIKeys: []string{"apiKey"},
				Tier:            plugin.TierPaid,
			},
		},
	}
}
