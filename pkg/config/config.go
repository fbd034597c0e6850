// Package config loads and validates the engine configuration from YAML,
// with environment expansion and merged defaults.
package config

import "time"

// Config is the fully-merged, validated engine configuration.
type Config struct {
	// PlannerMaxRounds caps total planner turns per command.
	PlannerMaxRounds int `yaml:"planner_max_rounds"`
	// NavigatorMaxRounds caps proposer turns per navigator step.
	NavigatorMaxRounds int `yaml:"navigator_max_rounds"`

	// EnabledNavigators lists the navigator tags wired at startup
	// (browser, api, sql, sec, time_keeper, mcp, composio, executor).
	EnabledNavigators []string `yaml:"enabled_navigators"`

	// MemoryMode selects static (preloaded) or dynamic (vector) memory.
	MemoryMode MemoryMode `yaml:"memory_mode"`
	// TestDataDir holds the preloaded test-data files for static memory.
	TestDataDir string `yaml:"test_data_dir"`

	// ProofsDir is the root directory for per-run artifacts (chat logs,
	// screenshots, network traces). Empty disables proof writing.
	ProofsDir string `yaml:"proofs_dir"`

	LLMProviders map[string]LLMProviderConfig `yaml:"llm_providers"`
	// PlannerProvider and NavigatorProvider name keys in LLMProviders.
	PlannerProvider   string `yaml:"planner_provider"`
	NavigatorProvider string `yaml:"navigator_provider"`

	Browser    BrowserConfig              `yaml:"browser"`
	Databases  map[string]DatabaseConfig  `yaml:"databases"`
	MCPServers map[string]MCPServerConfig `yaml:"mcp_servers"`
	Scanner    ScannerConfig              `yaml:"scanner"`
	API        APIConfig                  `yaml:"api"`
}

// BrowserConfig controls the playwright-backed browser session.
type BrowserConfig struct {
	Headless bool `yaml:"headless"`
	// TimeoutSeconds bounds individual page operations.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// DatabaseConfig describes one database reachable by the sql navigator.
type DatabaseConfig struct {
	Driver SQLDriver `yaml:"driver"`
	DSN    string    `yaml:"dsn"`
}

// MCPServerConfig describes one MCP server bridged into the tool registry.
type MCPServerConfig struct {
	// Tag is the navigator tag the server's tools are visible to
	// ("mcp" or "composio"). Defaults to "mcp".
	Tag       string             `yaml:"tag"`
	Transport MCPTransportConfig `yaml:"transport"`
}

// MCPTransportConfig selects and parameterizes the MCP transport.
type MCPTransportConfig struct {
	Type    MCPTransportType `yaml:"type"`
	Command string           `yaml:"command,omitempty"` // stdio
	Args    []string         `yaml:"args,omitempty"`    // stdio
	URL     string           `yaml:"url,omitempty"`     // http
}

// ScannerConfig wraps the external security scanner binary.
type ScannerConfig struct {
	Binary         string `yaml:"binary"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// APIConfig configures the optional HTTP surface.
type APIConfig struct {
	Port int `yaml:"port"`
}

// Timeout returns the per-operation browser timeout as a duration.
func (c BrowserConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ScanTimeout returns the scanner completion bound as a duration.
func (c ScannerConfig) ScanTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Provider resolves a provider key against the configured providers.
func (c *Config) Provider(key string) (*LLMProviderConfig, error) {
	p, ok := c.LLMProviders[key]
	if !ok {
		return nil, &ValidationError{Component: "llm_provider", ID: key, Err: ErrLLMProviderNotFound}
	}
	return &p, nil
}
