package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/handoff-dev/handoff/internal/config"
	"github.com/handoff-dev/handoff/internal/detect"
	"github.com/handoff-dev/handoff/internal/plugin"
	"github.com/handoff-dev/handoff/internal/plugin/builtin"
	"github.com/handoff-dev/handoff/internal/provider"
	"github.com/handoff-dev/handoff/internal/telemetry"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "handoff",
		Short:   "Handoff - Agent provider plugins and completion detection",
		Long:    "Handoff aggregates agent provider plugins, resolves provider connections with team overrides, and detects when a coding agent's turn has completed.",
		Version: Version,
		// Silence Cobra's default error/usage printing so we control output
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetVersionTemplate("handoff version {{.Version}}\n")

	rootCmd.AddCommand(buildAgentsCmd())
	rootCmd.AddCommand(buildValidateCmd())
	rootCmd.AddCommand(buildResolveCmd())
	rootCmd.AddCommand(buildWatchCmd())

	return rootCmd
}

// newLoader builds the plugin loader from project config in the working
// directory.
func newLoader() (*plugin.Loader, *config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	builtins := builtin.All(builtin.Options{Detector: cfg.DetectorOptions()})
	loader := plugin.NewLoader(builtins,
		plugin.WithTeamDirs(cfg.TeamPluginDirs...),
		plugin.WithStrictCatalogMatch(cfg.StrictCatalogMatch),
	)
	return loader, cfg, nil
}

func buildAgentsCmd() *cobra.Command {
	var showCatalog bool

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List agent configurations from all loaded plugins",
		RunE: func(c *cobra.Command, args []string) error {
			loader, _, err := newLoader()
			if err != nil {
				return err
			}
			loader.LoadAll()

			for id, loadErr := range loader.Errors() {
				fmt.Fprintf(c.ErrOrStderr(), "Warning: plugin %s failed to load: %v\n", id, loadErr)
			}

			if showCatalog {
				for _, entry := range loader.GetAllCatalog() {
					fmt.Fprintf(c.OutOrStdout(), "%s\t%s\t%s\t%s\n",
						entry.Name, entry.DisplayName, entry.Vendor, entry.Tier)
				}
				return nil
			}

			for _, agentCfg := range loader.GetAllConfigs() {
				status := ""
				if agentCfg.Disabled {
					status = "\t(disabled"
					if agentCfg.DisabledReason != "" {
						status += ": " + agentCfg.DisabledReason
					}
					status += ")"
				}
				fmt.Fprintf(c.OutOrStdout(), "%s\t%s%s\n", agentCfg.Name, agentCfg.Command, status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCatalog, "catalog", false, "Show catalog entries instead of agent configs")
	return cmd
}

func buildValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [team-plugin.yaml...]",
		Short: "Validate plugin definitions",
		Long:  "Validates the builtin plugins, or the given team plugin YAML files. Exits non-zero when any plugin has validation errors.",
		RunE: func(c *cobra.Command, args []string) error {
			plugins := make(map[string]*plugin.Plugin)
			if len(args) == 0 {
				for _, p := range builtin.All(builtin.Options{}) {
					plugins[p.Manifest.ID] = p
				}
			} else {
				for _, path := range args {
					p, err := plugin.LoadTeamFile(path)
					if err != nil {
						return fmt.Errorf("loading %s: %w", path, err)
					}
					plugins[path] = p
				}
			}

			names := make([]string, 0, len(plugins))
			for name := range plugins {
				names = append(names, name)
			}
			sort.Strings(names)

			invalid := 0
			for _, name := range names {
				result := plugin.Validate(plugins[name], plugin.ValidateOptions{StrictCatalogMatch: strict})
				for _, e := range result.Errors {
					fmt.Fprintf(c.OutOrStdout(), "%s: error: %s\n", name, e)
				}
				for _, w := range result.Warnings {
					fmt.Fprintf(c.OutOrStdout(), "%s: warning: %s\n", name, w)
				}
				if !result.Valid {
					invalid++
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d plugin(s) failed validation", invalid)
			}
			fmt.Fprintf(c.OutOrStdout(), "%d plugin(s) valid\n", len(plugins))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat catalog/config mismatches as errors")
	return cmd
}

func buildResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <agent-name>",
		Short: "Resolve the provider connection for an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			loader, cfg, err := newLoader()
			if err != nil {
				return err
			}
			registry := provider.FromLoader(loader)

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			overrides, err := provider.LoadOverrides(cfg.EffectiveOverridesFile(cwd))
			if err != nil {
				return fmt.Errorf("loading overrides: %w", err)
			}

			resolved, err := registry.ResolveForAgent(args[0], overrides)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(resolved, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), string(out))
			return nil
		},
	}
}

func buildWatchCmd() *cobra.Command {
	var runID string
	var telemetryFile string
	var predicateName string

	cmd := &cobra.Command{
		Use:   "watch [agent-name]",
		Short: "Wait for an agent's turn to complete",
		Long:  "Runs the agent's completion detector and blocks until the agent signals completion, the detector times out, or the process is interrupted. With --telemetry-file, watches an arbitrary telemetry stream for the named completion predicate instead.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			loader, cfg, err := newLoader()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var target string
			var wait func(context.Context) error

			switch {
			case telemetryFile != "":
				pred := telemetry.PredicateByName(predicateName)
				if pred == nil {
					return fmt.Errorf("unknown predicate %q (known: %s)", predicateName, strings.Join(telemetry.PredicateNames(), ", "))
				}
				target = telemetryFile
				wait = func(ctx context.Context) error {
					return detect.AwaitTelemetry(ctx, telemetryFile, pred, cfg.DetectorOptions())
				}

			case len(args) == 1:
				loader.LoadAll()
				agentCfg, ok := loader.FindConfig(args[0])
				if !ok {
					return fmt.Errorf("unknown agent %q", args[0])
				}
				if agentCfg.Disabled {
					return fmt.Errorf("agent %q is disabled: %s", args[0], agentCfg.DisabledReason)
				}
				if agentCfg.CompletionDetector == nil {
					return fmt.Errorf("agent %q has no completion detector", args[0])
				}
				if runID == "" {
					runID = uuid.NewString()
				}
				target = args[0]
				wait = func(ctx context.Context) error {
					return agentCfg.CompletionDetector(ctx, runID)
				}
				fmt.Fprintf(c.OutOrStdout(), "Watching %s (run %s)...\n", target, runID)

			default:
				return fmt.Errorf("an agent name or --telemetry-file is required")
			}

			err = wait(ctx)
			switch {
			case err == nil:
				fmt.Fprintln(c.OutOrStdout(), "Agent completed.")
				return nil
			case detect.IsTimeout(err):
				return fmt.Errorf("timed out waiting for %s: %w", target, err)
			case ctx.Err() != nil:
				return fmt.Errorf("interrupted while waiting for %s", target)
			default:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&runID, "run-id", "", "Task run identifier (default: random UUID)")
	cmd.Flags().StringVar(&telemetryFile, "telemetry-file", "", "Watch this telemetry stream instead of a configured agent")
	cmd.Flags().StringVar(&predicateName, "predicate", "task-tool-call", "Completion predicate for --telemetry-file")
	return cmd
}
