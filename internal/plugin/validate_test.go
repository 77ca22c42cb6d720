package plugin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlugin() *Plugin {
	return &Plugin{
		Manifest: Manifest{
			ID:      "test",
			Name:    "Test Provider",
			Version: "1.0.0",
			Type:    TypeCommunity,
		},
		Provider: ProviderSpec{
			ID:             "test",
			Name:           "Test Provider",
			DefaultBaseURL: "https://api.test.example",
			APIFormat:      FormatOpenAI,
			AuthEnvVars:    []string{"TEST_API_KEY"},
			APIKeys: []APIKeyDescriptor{
				{Name: "apiKey", EnvVar: "TEST_API_KEY", Required: true},
			},
		},
		Configs: []AgentConfig{
			{Name: "test/model-1", Command: "test-cli"},
		},
		Catalog: []CatalogEntry{
			{Name: "test/model-1", DisplayName: "Test Model 1", Vendor: "Test", Tier: TierFree},
		},
	}
}

func TestValidatePassesCleanPlugin(t *testing.T) {
	result := Validate(testPlugin(), ValidateOptions{})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Plugin)
		wantErr string
	}{
		{
			name:    "uppercase manifest id",
			mutate:  func(p *Plugin) { p.Manifest.ID = "Test" },
			wantErr: "manifest id",
		},
		{
			name:    "id starting with digit",
			mutate:  func(p *Plugin) { p.Manifest.ID = "1test" },
			wantErr: "manifest id",
		},
		{
			name:    "non-semver version",
			mutate:  func(p *Plugin) { p.Manifest.Version = "1.0" },
			wantErr: "version",
		},
		{
			name:    "unknown type",
			mutate:  func(p *Plugin) { p.Manifest.Type = "vendor" },
			wantErr: "type",
		},
		{
			name:    "invalid base url",
			mutate:  func(p *Plugin) { p.Provider.DefaultBaseURL = "not a url" },
			wantErr: "defaultBaseUrl",
		},
		{
			name:    "empty auth env vars",
			mutate:  func(p *Plugin) { p.Provider.AuthEnvVars = nil },
			wantErr: "authEnvVars",
		},
		{
			name:    "unknown api format",
			mutate:  func(p *Plugin) { p.Provider.APIFormat = "soap" },
			wantErr: "apiFormat",
		},
		{
			name: "no configs",
			mutate: func(p *Plugin) {
				p.Configs = nil
			},
			wantErr: "at least one agent config",
		},
		{
			name:    "no catalog",
			mutate:  func(p *Plugin) { p.Catalog = nil },
			wantErr: "at least one catalog entry",
		},
		{
			name:    "empty command",
			mutate:  func(p *Plugin) { p.Configs[0].Command = "" },
			wantErr: "empty command",
		},
		{
			name:    "malformed agent name",
			mutate:  func(p *Plugin) { p.Configs[0].Name = "Test//bad" },
			wantErr: "prefix[/variant][:tag]",
		},
		{
			name:    "bad catalog tier",
			mutate:  func(p *Plugin) { p.Catalog[0].Tier = "premium" },
			wantErr: "tier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlugin()
			tt.mutate(p)

			result := Validate(p, ValidateOptions{})

			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, strings.Join(result.Errors, "\n"), tt.wantErr)
		})
	}
}

// Catalog entry without a config is always an error; a config without a
// catalog entry is a warning by default and an error under strict matching.
func TestValidateCatalogAsymmetry(t *testing.T) {
	t.Run("catalog entry without config is an error", func(t *testing.T) {
		p := testPlugin()
		p.Catalog = append(p.Catalog, CatalogEntry{
			Name: "test/ghost", DisplayName: "Ghost", Vendor: "Test", Tier: TierFree,
		})

		result := Validate(p, ValidateOptions{})
		assert.False(t, result.Valid)

		strict := Validate(p, ValidateOptions{StrictCatalogMatch: true})
		assert.False(t, strict.Valid)
	})

	t.Run("config without catalog entry is a warning by default", func(t *testing.T) {
		p := testPlugin()
		p.Configs = append(p.Configs, AgentConfig{Name: "test/hidden", Command: "test-cli"})

		result := Validate(p, ValidateOptions{})
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("config without catalog entry is an error in strict mode", func(t *testing.T) {
		p := testPlugin()
		p.Configs = append(p.Configs, AgentConfig{Name: "test/hidden", Command: "test-cli"})

		result := Validate(p, ValidateOptions{StrictCatalogMatch: true})
		assert.False(t, result.Valid)
	})

	t.Run("disabled config needs no catalog entry", func(t *testing.T) {
		p := testPlugin()
		p.Configs = append(p.Configs, AgentConfig{
			Name: "test/legacy", Command: "test-cli",
			Disabled: true, DisabledReason: "superseded by test/model-1",
		})

		result := Validate(p, ValidateOptions{StrictCatalogMatch: true})
		assert.True(t, result.Valid, "errors: %v", result.Errors)
	})
}

func TestValidateNamingConventionWarning(t *testing.T) {
	p := testPlugin()
	p.Configs = append(p.Configs, AgentConfig{Name: "mystery/model", Command: "mystery"})
	p.Catalog = append(p.Catalog, CatalogEntry{
		Name: "mystery/model", DisplayName: "Mystery", Vendor: "?", Tier: TierPaid,
	})

	result := Validate(p, ValidateOptions{})

	// Non-fatal: the plugin is still valid.
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
}

func TestValidateKnownPrefixesAccepted(t *testing.T) {
	p := testPlugin()
	p.Configs[0].Name = "claude/plan"
	p.Catalog[0].Name = "claude/plan"

	result := Validate(p, ValidateOptions{})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestAssertValidJoinsAllErrors(t *testing.T) {
	p := testPlugin()
	p.Manifest.ID = "BAD"
	p.Manifest.Version = "x"

	err := AssertValid(p, ValidateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest id")
	assert.Contains(t, err.Error(), "version")

	assert.NoError(t, AssertValid(testPlugin(), ValidateOptions{}))
}
