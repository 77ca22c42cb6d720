package builtin

import (
	"github.com/handoff-dev/handoff/internal/plugin"
	"github.com/handoff-dev/handoff/internal/telemetry"
)

// Google returns the builtin plugin for the Gemini CLI. Gemini signals turn
// completion through its telemetry stream: a next-speaker check that hands
// the turn back to the user.
func Google(opts Options) *plugin.Plugin {
	opts = opts.withDefaults()

	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			ID:      "google",
			Name:    "Google",
			Version: "1.0.0",
			Type:    plugin.TypeBuiltin,
		},
		Provider: plugin.ProviderSpec{
			ID:             "google",
			Name:           "Google",
			DefaultBaseURL: "https://generativelanguage.googleapis.com",
			APIFormat:      plugin.FormatVertex,
			AuthEnvVars:    []string{"GEMINI_API_KEY"},
			APIKeys: []plugin.APIKeyDescriptor{
				{Name: "apiKey", EnvVar: "GEMINI_API_KEY", Required: true, Description: "Gemini API key"},
			},
			BaseURLKey: "GOOGLE_GEMINI_BASE_URL",
		},
		Configs: []plugin.AgentConfig{
			{
				Name:               "gemini",
				Command:            "gemini",
				Args:               []string{"--yolo", "--telemetry", "--telemetry-target", "local"},
				APIKeys:            []string{"apiKey"},
				ApplyAPIKeys:       applyKeysToEnv(map[string]string{"apiKey": "GEMINI_API_KEY"}),
				CheckRequirements:  requireBinary("gemini", "Install the Gemini CLI and verify `gemini --version`."),
				CompletionDetector: telemetryDetector(opts.TelemetryDir, "gemini", telemetry.NextSpeakerUser, opts.Detector),
			},
		},
		Catalog: []plugin.CatalogEntry{
			{
				Name:            "gemini",
				DisplayName:     "Gemini CLI",
				Vendor:          "Google",
				RequiredAPIKeys: []string{"apiKey"},
				Tier:            plugin.TierFree,
			},
		},
	}
}
