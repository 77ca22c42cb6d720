// Package builtin defines the fixed builtin plugin set. Each provider file
// bundles the provider's connection spec with the agent configs that talk to
// it and wires each agent's completion detector to its signal source: marker
// files under the lifecycle directory for CLIs that touch a sentinel on
// exit, telemetry streams for CLIs that log OTLP-ish JSON events.
package builtin

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/handoff-dev/handoff/internal/detect"
	"github.com/handoff-dev/handoff/internal/plugin"
	"github.com/handoff-dev/handoff/internal/telemetry"
)

const (
	// DefaultLifecycleDir is where sandbox agents drop completion markers.
	DefaultLifecycleDir = "/root/lifecycle"
	// DefaultTelemetryDir is where telemetry-logging agents write streams.
	DefaultTelemetryDir = "/tmp"
)

// Options locates the signal sources and tunes detection. Zero values select
// the defaults.
type Options struct {
	LifecycleDir string
	TelemetryDir string
	Detector     detect.Options
}

func (o Options) withDefaults() Options {
	if o.LifecycleDir == "" {
		o.LifecycleDir = DefaultLifecycleDir
	}
	if o.TelemetryDir == "" {
		o.TelemetryDir = DefaultTelemetryDir
	}
	return o
}

// All returns the builtin plugin set in registration order.
func All(opts Options) []*plugin.Plugin {
	return []*plugin.Plugin{
		Anthropic(opts),
		OpenAI(opts),
		OpenRouter(opts),
		Google(opts),
		Qwen(opts),
	}
}

// markerDetector waits for the agent's sentinel file
// <lifecycleDir>/<agent>-complete-<taskRunID>.
func markerDetector(lifecycleDir, agent string) func(ctx context.Context, taskRunID string) error {
	return func(ctx context.Context, taskRunID string) error {
		name := fmt.Sprintf("%s-complete-%s", agent, taskRunID)
		return detect.AwaitMarker(ctx, filepath.Join(lifecycleDir, name), lifecycleDir, name)
	}
}

// telemetryDetector waits for a completion-classified event in
// <telemetryDir>/<agent>-telemetry-<taskRunID>.log.
func telemetryDetector(telemetryDir, agent string, isCompletion telemetry.Predicate, opts detect.Options) func(ctx context.Context, taskRunID string) error {
	return func(ctx context.Context, taskRunID string) error {
		path := filepath.Join(telemetryDir, fmt.Sprintf("%s-telemetry-%s.log", agent, taskRunID))
		return detect.AwaitTelemetry(ctx, path, isCompletion, opts)
	}
}

// requireBinary verifies the agent CLI is installed, in the shape callers
// can surface directly.
func requireBinary(command, installHint string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if _, err := exec.LookPath(command); err != nil {
			return fmt.Errorf("%s CLI not found in PATH. %s", command, installHint)
		}
		return nil
	}
}

// applyKeysToEnv copies resolved credential values into the environment
// under the given mapping of credential name to env var.
func applyKeysToEnv(mapping map[string]string) func(keys, env map[string]string) {
	return func(keys, env map[string]string) {
		for keyName, envVar := range mapping {
			if v, ok := keys[keyName]; ok && v != "" {
				env[envVar] = v
			}
		}
	}
}

func staticEnv(vars map[string]string) func(ctx context.Context) (map[string]string, error) {
	return func(ctx context.Context) (map[string]string, error) {
		out := make(map[string]string, len(vars))
		for k, v := range vars {
			out[k] = v
		}
		return out, nil
	}
}
