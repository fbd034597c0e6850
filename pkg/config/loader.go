package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// knownNavigatorTags is the closed set of navigator tags the engine can wire.
var knownNavigatorTags = map[string]bool{
	"browser":     true,
	"api":         true,
	"sql":         true,
	"sec":         true,
	"time_keeper": true,
	"mcp":         true,
	"composio":    true,
	"executor":    true,
}

// Initialize loads, expands, merges, and validates the configuration file.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Read the YAML file
//  2. Expand environment variables ({{.VAR}} syntax)
//  3. Parse YAML into the Config struct
//  4. Merge defaults for unset fields
//  5. Validate the result
func Initialize(path string) (*Config, error) {
	log := slog.With("config_path", path)
	log.Info("Initializing configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	expanded := ExpandEnv(data)

	cfg := &Config{}
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	if err := mergo.Merge(cfg, defaults()); err != nil {
		return nil, fmt.Errorf("failed to merge defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("Configuration loaded",
		"planner_max_rounds", cfg.PlannerMaxRounds,
		"navigator_max_rounds", cfg.NavigatorMaxRounds,
		"navigators", cfg.EnabledNavigators,
		"memory_mode", cfg.MemoryMode)
	return cfg, nil
}

// Validate checks the merged configuration for internal consistency.
func (c *Config) Validate() error {
	var errs []error

	if c.PlannerMaxRounds <= 0 {
		errs = append(errs, &ValidationError{
			Component: "engine", ID: "planner_max_rounds", Err: ErrInvalidValue})
	}
	if c.NavigatorMaxRounds <= 0 {
		errs = append(errs, &ValidationError{
			Component: "engine", ID: "navigator_max_rounds", Err: ErrInvalidValue})
	}
	if !c.MemoryMode.IsValid() {
		errs = append(errs, &ValidationError{
			Component: "engine", ID: string(c.MemoryMode), Field: "memory_mode", Err: ErrInvalidValue})
	}

	for _, tag := range c.EnabledNavigators {
		if !knownNavigatorTags[tag] {
			errs = append(errs, &ValidationError{
				Component: "navigator", ID: tag, Err: ErrInvalidValue})
		}
	}

	for key, p := range c.LLMProviders {
		if p.Model == "" {
			errs = append(errs, &ValidationError{
				Component: "llm_provider", ID: key, Field: "model", Err: ErrInvalidValue})
		}
	}
	// Provider references are only required when providers are configured at
	// all; tests and library callers may inject LLM clients directly.
	if len(c.LLMProviders) > 0 {
		if _, ok := c.LLMProviders[c.PlannerProvider]; !ok {
			errs = append(errs, &ValidationError{
				Component: "llm_provider", ID: c.PlannerProvider, Field: "planner_provider", Err: ErrLLMProviderNotFound})
		}
		if _, ok := c.LLMProviders[c.NavigatorProvider]; !ok {
			errs = append(errs, &ValidationError{
				Component: "llm_provider", ID: c.NavigatorProvider, Field: "navigator_provider", Err: ErrLLMProviderNotFound})
		}
	}

	for id, db := range c.Databases {
		if !db.Driver.IsValid() {
			errs = append(errs, &ValidationError{
				Component: "database", ID: id, Field: "driver", Err: ErrInvalidValue})
		}
		if db.DSN == "" {
			errs = append(errs, &ValidationError{
				Component: "database", ID: id, Field: "dsn", Err: ErrInvalidValue})
		}
	}

	for id, srv := range c.MCPServers {
		if !srv.Transport.Type.IsValid() {
			errs = append(errs, &ValidationError{
				Component: "mcp_server", ID: id, Field: "transport.type", Err: ErrInvalidValue})
			continue
		}
		switch srv.Transport.Type {
		case MCPTransportStdio:
			if srv.Transport.Command == "" {
				errs = append(errs, &ValidationError{
					Component: "mcp_server", ID: id, Field: "transport.command", Err: ErrInvalidValue})
			}
		case MCPTransportHTTP:
			if srv.Transport.URL == "" {
				errs = append(errs, &ValidationError{
					Component: "mcp_server", ID: id, Field: "transport.url", Err: ErrInvalidValue})
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrValidationFailed, errors.Join(errs...))
	}
	return nil
}
