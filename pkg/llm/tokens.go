package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/models"
)

// tokenCounter estimates token usage locally for providers that do not
// report usage (some OpenAI-compatible proxies omit the usage block).
// Uses the cl100k_base encoding as a model-agnostic approximation.
type tokenCounter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
}

func newTokenCounter() *tokenCounter { return &tokenCounter{} }

func (t *tokenCounter) encoding() *tiktoken.Tiktoken {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			t.enc = enc
		}
	})
	return t.enc
}

// estimate counts tokens over the request messages and the reply. Returns
// zeros when the encoding is unavailable (offline without a cached BPE).
func (t *tokenCounter) estimate(msgs []models.Message, resp *agent.LLMResponse) agent.TokenUsage {
	enc := t.encoding()
	if enc == nil {
		return agent.TokenUsage{}
	}

	var usage agent.TokenUsage
	for _, m := range msgs {
		usage.InputTokens += len(enc.Encode(m.Content, nil, nil))
	}
	usage.OutputTokens += len(enc.Encode(resp.Text, nil, nil))
	for _, tc := range resp.ToolCalls {
		usage.OutputTokens += len(enc.Encode(tc.Name, nil, nil))
		usage.OutputTokens += len(enc.Encode(tc.Arguments, nil, nil))
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	return usage
}
