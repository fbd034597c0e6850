package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hercules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitializeAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
llm_providers:
  main:
    provider: openai
    model: gpt-4o
    api_key_env: OPENAI_API_KEY
planner_provider: main
navigator_provider: main
`)

	cfg, err := Initialize(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultPlannerMaxRounds, cfg.PlannerMaxRounds)
	assert.Equal(t, DefaultNavigatorMaxRounds, cfg.NavigatorMaxRounds)
	assert.Equal(t, MemoryModeStatic, cfg.MemoryMode)
	assert.Contains(t, cfg.EnabledNavigators, "browser")
}

func TestInitializeExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
planner_max_rounds: 7
navigator_max_rounds: 3
enabled_navigators: [sql, api]
memory_mode: dynamic
`)

	cfg, err := Initialize(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.PlannerMaxRounds)
	assert.Equal(t, 3, cfg.NavigatorMaxRounds)
	assert.Equal(t, []string{"sql", "api"}, cfg.EnabledNavigators)
	assert.Equal(t, MemoryModeDynamic, cfg.MemoryMode)
}

func TestInitializeExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_DB_DSN", "user:pass@tcp(localhost:3306)/testdb")
	path := writeConfig(t, `
databases:
  main:
    driver: mysql
    dsn: "{{.TEST_DB_DSN}}"
`)

	cfg, err := Initialize(path)
	require.NoError(t, err)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/testdb", cfg.Databases["main"].DSN)
}

func TestInitializeMissingFile(t *testing.T) {
	_, err := Initialize(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestInitializeInvalidYAML(t *testing.T) {
	path := writeConfig(t, "planner_max_rounds: [not a number\n")
	_, err := Initialize(path)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestValidateRejectsUnknownNavigator(t *testing.T) {
	path := writeConfig(t, `
enabled_navigators: [browser, teleport]
`)
	_, err := Initialize(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "navigator", verr.Component)
}

func TestValidateRejectsBadMemoryMode(t *testing.T) {
	path := writeConfig(t, `
memory_mode: holographic
`)
	_, err := Initialize(path)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidateProviderReferences(t *testing.T) {
	path := writeConfig(t, `
llm_providers:
  main:
    provider: openai
    model: gpt-4o
planner_provider: main
navigator_provider: missing
`)
	_, err := Initialize(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLLMProviderNotFound)
}

func TestValidateMCPTransports(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "stdio with command",
			yaml: `
mcp_servers:
  files:
    transport:
      type: stdio
      command: mcp-files
`,
		},
		{
			name: "stdio missing command",
			yaml: `
mcp_servers:
  files:
    transport:
      type: stdio
`,
			wantErr: true,
		},
		{
			name: "http missing url",
			yaml: `
mcp_servers:
  remote:
    transport:
      type: http
`,
			wantErr: true,
		},
		{
			name: "unsupported type",
			yaml: `
mcp_servers:
  remote:
    transport:
      type: carrier-pigeon
`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Initialize(writeConfig(t, tt.yaml))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDatabases(t *testing.T) {
	path := writeConfig(t, `
databases:
  broken:
    driver: oracle
    dsn: ""
`)
	_, err := Initialize(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestProviderLookup(t *testing.T) {
	cfg := &Config{LLMProviders: map[string]LLMProviderConfig{
		"main": {Model: "gpt-4o"},
	}}

	p, err := cfg.Provider("main")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.Model)

	_, err = cfg.Provider("other")
	assert.ErrorIs(t, err, ErrLLMProviderNotFound)
}
