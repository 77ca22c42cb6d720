package builtin

import (
	"github.com/handoff-dev/handoff/internal/plugin"
	"github.com/handoff-dev/handoff/internal/telemetry"
)

// Qwen returns the builtin plugin for the Qwen Code CLI. Qwen signals turn
// completion with an explicit complete_task tool call in its telemetry
// stream.
func Qwen(opts Options) *plugin.Plugin {
	opts = opts.withDefaults()

	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			ID:      "qwen",
			Name:    "Qwen",
			Version: "1.0.0",
			Type:    plugin.TypeBuiltin,
		},
		Provider: plugin.ProviderSpec{
			ID:             "qwen",
			Name:           "Qwen",
			DefaultBaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
			APIFormat:      plugin.FormatOpenAI,
			AuthEnvVars:    []string{"DASHSCOPE_API_KEY"},
			APIKeys: []plugin.APIKeyDescriptor{
				{Name: "apiKey", EnvVar: "DASHSCOPE_API_KEY", Required: true, Description: "DashScope API key"},
			},
			BaseURLKey: "DASHSCOPE_BASE_URL",
		},
		Configs: []plugin.AgentConfig{
			{
				Name:               "qwen",
				Command:            "qwen",
				Args:               []string{"--yolo", "--telemetry"},
				APIKeys:            []string{"apiKey"},
				ApplyAPIKeys:       applyKeysToEnv(map[string]string{"apiKey": "DASHSCOPE_API_KEY"}),
				CheckRequirements:  requireBinary("qwen", "Install Qwen Code and verify `qwen --version`."),
				CompletionDetector: telemetryDetector(opts.TelemetryDir, "qwen", telemetry.TaskToolCall, opts.Detector),
			},
		},
		Catalog: []plugin.CatalogEntry{
			{
				Name:            "qwen",
				DisplayName:     "Qwen Code",
				Vendor:          "Alibaba",
				RequiredAPIKeys: []string{"apiKey"},
				Tier:            plugin.TierFree,
			},
		},
	}
}
