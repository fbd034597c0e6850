package agent

import (
	"context"

	"github.com/testzeus/hercules/pkg/config"
	"github.com/testzeus/hercules/pkg/models"
)

// LLMClient is the transport-agnostic interface every LLM-facing agent
// calls through. Implementations live outside the core (pkg/llm provides
// an OpenAI-compatible one); tests use scripted fakes.
type LLMClient interface {
	// Generate sends a conversation and returns the model's reply.
	// The round-trip is bounded by the provider-configured timeout;
	// exceeding it surfaces as a recoverable error to the caller.
	Generate(ctx context.Context, in *GenerateInput) (*LLMResponse, error)

	// Close releases transport resources.
	Close() error
}

// GenerateInput is a single LLM request.
type GenerateInput struct {
	// AgentName identifies the requesting agent for logging and proofs.
	AgentName string
	Messages  []models.Message
	// Tools advertises callable tools; nil means text-only.
	Tools []ToolDefinition
	// Config is the opaque per-agent provider blob.
	Config *config.LLMProviderConfig
}

// LLMResponse is the model's reply to one Generate call.
type LLMResponse struct {
	Text      string
	ToolCalls []models.ToolCall
	Usage     TokenUsage
}

// TokenUsage aggregates token consumption across LLM calls.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Add accumulates another usage sample.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}
