// Package llm provides the OpenAI-compatible LLM client used by the
// planner and the navigator proposers. Any endpoint speaking the OpenAI
// chat-completions protocol works through the provider's BaseURL.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/config"
	"github.com/testzeus/hercules/pkg/models"
)

// retryBaseDelay is the linear backoff unit between retry attempts.
const retryBaseDelay = 2 * time.Second

// Client implements agent.LLMClient over the OpenAI chat-completions API.
// One Client serves all providers; per-provider SDK clients are created
// lazily and cached by endpoint.
type Client struct {
	mu      sync.Mutex
	clients map[clientKey]*openai.Client

	counter *tokenCounter
}

type clientKey struct {
	apiKey  string
	baseURL string
}

// NewClient creates the shared LLM client.
func NewClient() *Client {
	return &Client{
		clients: make(map[clientKey]*openai.Client),
		counter: newTokenCounter(),
	}
}

// Generate sends one conversation to the provider named in in.Config and
// returns the reply. Retryable provider errors (429, 5xx) are retried with
// linear backoff up to the provider's MaxRetries; each attempt is bounded
// by the provider's request timeout.
func (c *Client) Generate(ctx context.Context, in *agent.GenerateInput) (*agent.LLMResponse, error) {
	if in.Config == nil {
		return nil, fmt.Errorf("llm: missing provider config for agent %q", in.AgentName)
	}
	sdk, err := c.sdkFor(in.Config)
	if err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model:       in.Config.Model,
		Messages:    toChatMessages(in.Messages),
		Temperature: in.Config.Temperature,
		MaxTokens:   in.Config.MaxTokens,
		Tools:       toChatTools(in.Tools),
	}

	attempts := in.Config.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * retryBaseDelay
			slog.Warn("retrying LLM request",
				"agent", in.AgentName, "attempt", attempt+1, "delay", delay, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.doRequest(ctx, sdk, in.Config, req)
		if err == nil {
			return c.toResponse(in, resp), nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("llm: request failed after %d attempts: %w", attempts, lastErr)
}

// Close releases transport resources. The OpenAI SDK holds no persistent
// connections beyond the standard HTTP client, so this is a no-op.
func (c *Client) Close() error { return nil }

func (c *Client) doRequest(
	ctx context.Context,
	sdk *openai.Client,
	provider *config.LLMProviderConfig,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, provider.RequestTimeout())
	defer cancel()
	return sdk.CreateChatCompletion(reqCtx, req)
}

func (c *Client) sdkFor(provider *config.LLMProviderConfig) (*openai.Client, error) {
	apiKey := os.Getenv(provider.APIKeyEnv)
	if apiKey == "" && provider.APIKeyEnv != "" {
		return nil, fmt.Errorf("llm: environment variable %s is not set", provider.APIKeyEnv)
	}
	key := clientKey{apiKey: apiKey, baseURL: provider.BaseURL}

	c.mu.Lock()
	defer c.mu.Unlock()
	if sdk, ok := c.clients[key]; ok {
		return sdk, nil
	}
	cfg := openai.DefaultConfig(apiKey)
	if provider.BaseURL != "" {
		cfg.BaseURL = provider.BaseURL
	}
	sdk := openai.NewClientWithConfig(cfg)
	c.clients[key] = sdk
	return sdk, nil
}

// toResponse converts the SDK reply, filling in token usage from the
// local counter when the provider reports none.
func (c *Client) toResponse(in *agent.GenerateInput, resp openai.ChatCompletionResponse) *agent.LLMResponse {
	out := &agent.LLMResponse{}
	if len(resp.Choices) > 0 {
		msg := resp.Choices[0].Message
		out.Text = msg.Content
		for _, tc := range msg.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, models.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}

	out.Usage = agent.TokenUsage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	if out.Usage.TotalTokens == 0 {
		out.Usage = c.counter.estimate(in.Messages, out)
	}
	return out
}

func toChatMessages(msgs []models.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		cm := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

func toChatTools(defs []agent.ToolDefinition) []openai.Tool {
	if len(defs) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		fn := &openai.FunctionDefinition{
			Name:        def.Name,
			Description: def.Description,
		}
		if def.ParametersSchema != "" {
			fn.Parameters = json.RawMessage(def.ParametersSchema)
		}
		out = append(out, openai.Tool{Type: openai.ToolTypeFunction, Function: fn})
	}
	return out
}

// isRetryable reports whether the failure is worth retrying: rate limits
// and server-side errors. Context cancellation and 4xx client errors are
// not.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	// Transport-level failures (connection reset, DNS) are retryable.
	return true
}
