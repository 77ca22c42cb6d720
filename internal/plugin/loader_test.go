package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedPlugin(id string, agents ...string) *Plugin {
	p := &Plugin{
		Manifest: Manifest{ID: id, Name: id, Version: "1.0.0", Type: TypeBuiltin},
		Provider: ProviderSpec{
			ID:             id,
			Name:           id,
			DefaultBaseURL: "https://api." + id + ".example",
			APIFormat:      FormatOpenAI,
			AuthEnvVars:    []string{"KEY"},
		},
	}
	for _, a := range agents {
		p.Configs = append(p.Configs, AgentConfig{Name: a, Command: a})
		p.Catalog = append(p.Catalog, CatalogEntry{
			Name: a, DisplayName: a, Vendor: id, Tier: TierFree,
		})
	}
	return p
}

func configNames(configs []AgentConfig) []string {
	names := make([]string, len(configs))
	for i, c := range configs {
		names[i] = c.Name
	}
	return names
}

func TestLoadAllAggregatesInRegistrationOrder(t *testing.T) {
	l := NewLoader([]*Plugin{
		namedPlugin("alpha", "alpha/one", "alpha/two"),
		namedPlugin("beta", "beta/one"),
	})
	l.LoadAll()

	require.True(t, l.IsLoaded())
	assert.Equal(t,
		[]string{"alpha/one", "alpha/two", "beta/one"},
		configNames(l.GetAllConfigs()))
	assert.Len(t, l.GetAllCatalog(), 3)
}

func TestLoadAllIdempotent(t *testing.T) {
	l := NewLoader([]*Plugin{
		namedPlugin("alpha", "alpha/one"),
		namedPlugin("beta", "beta/one", "beta/two"),
	})

	l.LoadAll()
	first := configNames(l.GetAllConfigs())
	l.LoadAll()
	second := configNames(l.GetAllConfigs())

	assert.Equal(t, first, second, "repeated LoadAll must not change ordering or content")
}

func TestLoadAllFaultIsolation(t *testing.T) {
	broken := namedPlugin("broken", "broken/agent")
	broken.Manifest.Version = "not-semver"

	l := NewLoader([]*Plugin{
		namedPlugin("alpha", "alpha/one"),
		broken,
		namedPlugin("beta", "beta/one"),
	})
	l.LoadAll()

	// The broken plugin is recorded, the others still load.
	assert.True(t, l.IsLoaded())
	assert.Equal(t, []string{"alpha/one", "beta/one"}, configNames(l.GetAllConfigs()))

	errs := l.Errors()
	require.Contains(t, errs, "broken")
	assert.ErrorContains(t, errs["broken"], "version")

	_, ok := l.Get("broken")
	assert.False(t, ok)
}

func TestLoadAllRejectsDuplicateIDs(t *testing.T) {
	l := NewLoader([]*Plugin{
		namedPlugin("alpha", "alpha/one"),
		namedPlugin("alpha", "alpha/two"),
	})
	l.LoadAll()

	assert.Equal(t, []string{"alpha/one"}, configNames(l.GetAllConfigs()))
	assert.NotEmpty(t, l.Errors())
}

func TestFindConfig(t *testing.T) {
	l := NewLoader([]*Plugin{namedPlugin("alpha", "alpha/one", "alpha/two")})
	l.LoadAll()

	cfg, ok := l.FindConfig("alpha/two")
	require.True(t, ok)
	assert.Equal(t, "alpha/two", cfg.Name)

	_, ok = l.FindConfig("missing")
	assert.False(t, ok)
}

func TestHealthCheckAll(t *testing.T) {
	withCheck := namedPlugin("alpha", "alpha/one")
	withCheck.Lifecycle = &Lifecycle{
		HealthCheck: func(ctx context.Context) HealthStatus {
			return HealthStatus{Healthy: false, Message: "credentials expired"}
		},
	}

	l := NewLoader([]*Plugin{withCheck, namedPlugin("beta", "beta/one")})
	l.LoadAll()

	statuses := l.HealthCheckAll(context.Background())
	require.Len(t, statuses, 2)
	assert.False(t, statuses["alpha"].Healthy)
	assert.Equal(t, "credentials expired", statuses["alpha"].Message)
	assert.True(t, statuses["beta"].Healthy)
	assert.Equal(t, "No health check defined", statuses["beta"].Message)
}

func TestShutdownClearsStateForReload(t *testing.T) {
	shutdownCalls := 0
	p := namedPlugin("alpha", "alpha/one")
	p.Lifecycle = &Lifecycle{
		Shutdown: func(ctx context.Context) error {
			shutdownCalls++
			return nil
		},
	}

	l := NewLoader([]*Plugin{p})
	l.LoadAll()
	require.Len(t, l.GetAllConfigs(), 1)

	require.NoError(t, l.Shutdown(context.Background()))
	assert.Equal(t, 1, shutdownCalls)
	assert.False(t, l.IsLoaded())
	assert.Empty(t, l.GetAllConfigs())

	// A subsequent LoadAll fully reconstructs the registry.
	l.LoadAll()
	assert.True(t, l.IsLoaded())
	assert.Equal(t, []string{"alpha/one"}, configNames(l.GetAllConfigs()))
}

func TestShutdownJoinsHookErrors(t *testing.T) {
	p := namedPlugin("alpha", "alpha/one")
	p.Lifecycle = &Lifecycle{
		Shutdown: func(ctx context.Context) error {
			return errors.New("flush failed")
		},
	}

	l := NewLoader([]*Plugin{p})
	l.LoadAll()

	err := l.Shutdown(context.Background())
	assert.ErrorContains(t, err, "flush failed")
	assert.False(t, l.IsLoaded(), "state clears even when hooks fail")
}

const teamPluginYAML = `
manifest:
  id: acme
  name: Acme Internal
  version: 0.1.0
  type: team
provider:
  id: acme
  name: Acme Gateway
  defaultBaseUrl: https://llm.acme.internal
  apiFormat: passthrough
  authEnvVars: [ACME_GATEWAY_TOKEN]
configs:
  - name: acme/router
    command: acme-agent
    args: ["--route", "default"]
catalog:
  - name: acme/router
    displayName: Acme Router
    vendor: Acme
    tier: paid
`

func TestLoadAllDiscoversTeamPlugins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme.yaml"), []byte(teamPluginYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	l := NewLoader([]*Plugin{namedPlugin("alpha", "alpha/one")}, WithTeamDirs(dir))
	l.LoadAll()

	// Builtins first, then team plugins.
	assert.Equal(t, []string{"alpha/one", "acme/router"}, configNames(l.GetAllConfigs()))

	loaded, ok := l.Get("acme")
	require.True(t, ok)
	assert.Equal(t, TypeTeam, loaded.Manifest.Type)
	assert.Equal(t, filepath.Join(dir, "acme.yaml"), loaded.LoadedFrom)
	assert.Equal(t, FormatPassthrough, loaded.Provider.APIFormat)
}

func TestLoadAllRecordsBrokenTeamFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("manifest: [unclosed"), 0o644))

	l := NewLoader([]*Plugin{namedPlugin("alpha", "alpha/one")}, WithTeamDirs(dir))
	l.LoadAll()

	assert.Equal(t, []string{"alpha/one"}, configNames(l.GetAllConfigs()))
	assert.Contains(t, l.Errors(), path)
}

func TestLoadTeamFileRejectsNonTeamType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sneaky.yaml")
	content := "manifest:\n  id: sneaky\n  name: Sneaky\n  version: 1.0.0\n  type: builtin\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadTeamFile(path)
	assert.ErrorContains(t, err, "type")
}

func TestConfigSources(t *testing.T) {
	l := NewLoader([]*Plugin{namedPlugin("alpha", "alpha/one")})
	var src ConfigSource = &LoaderConfigSource{Loader: l}

	// Lazily loads on first use.
	assert.Equal(t, []string{"alpha/one"}, configNames(src.Configs()))
	assert.Len(t, src.Catalog(), 1)

	static := &StaticConfigSource{
		AgentConfigs:   []AgentConfig{{Name: "static/one", Command: "noop"}},
		CatalogEntries: []CatalogEntry{{Name: "static/one", DisplayName: "One", Tier: TierFree}},
	}
	src = static
	assert.Equal(t, []string{"static/one"}, configNames(src.Configs()))
}
