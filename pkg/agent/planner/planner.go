// Package planner implements the single LLM-backed planning agent. One
// turn takes the planner history (seeded with the initial prompt and
// grown by navigator summaries) and yields a parsed envelope.
package planner

import (
	"context"
	"log/slog"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/envelope"
	"github.com/testzeus/hercules/pkg/config"
	"github.com/testzeus/hercules/pkg/models"
)

// SpeakerName is the planner's roster name.
const SpeakerName = "planner"

// Planner directs the session; it never invokes tools.
type Planner struct {
	SystemPrompt string
	LLM          agent.LLMClient
	Provider     *config.LLMProviderConfig
}

// Turn runs one planner round: history in, envelope out. The raw
// assistant message is appended to the planner history before parsing so
// the chat log always reflects what the model actually said.
func (p *Planner) Turn(ctx context.Context, sess *agent.SessionContext) (*envelope.Envelope, agent.TokenUsage, error) {
	messages := make([]models.Message, 0, len(sess.PlannerHistory)+1)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: p.SystemPrompt})
	messages = append(messages, sess.PlannerHistory...)

	resp, err := p.LLM.Generate(ctx, &agent.GenerateInput{
		AgentName: SpeakerName,
		Messages:  messages,
		Config:    p.Provider,
	})
	if err != nil {
		return nil, agent.TokenUsage{}, err
	}

	sess.AppendPlanner(models.Message{
		Role:    models.RoleAssistant,
		Name:    SpeakerName,
		Content: resp.Text,
	})

	env := envelope.Parse(resp.Text)
	if env.Defensive {
		slog.Warn("planner reply not parseable; terminating defensively", "run_id", sess.RunID)
	} else if env.Recovered {
		slog.Debug("planner envelope recovered from malformed JSON", "run_id", sess.RunID)
	}
	return env, resp.Usage, nil
}
