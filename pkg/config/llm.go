package config

import "time"

// LLMProviderConfig is the opaque per-agent LLM configuration blob.
// The engine passes it through to the LLM client unmodified.
type LLMProviderConfig struct {
	// Provider is informational ("openai", "azure", "ollama", ...); any
	// OpenAI-compatible endpoint works through BaseURL.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
	// BaseURL overrides the provider endpoint (empty = provider default).
	BaseURL string `yaml:"base_url,omitempty"`

	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`

	// TimeoutSeconds bounds a single LLM round-trip.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// MaxRetries bounds retries on retryable provider errors (429, 5xx).
	MaxRetries int `yaml:"max_retries"`
}

// RequestTimeout returns the round-trip bound as a duration.
func (c *LLMProviderConfig) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
