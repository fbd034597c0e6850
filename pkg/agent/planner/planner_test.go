package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/config"
	"github.com/testzeus/hercules/pkg/models"
)

type fakeLLM struct {
	reply string
	err   error
	seen  *agent.GenerateInput
}

func (f *fakeLLM) Generate(ctx context.Context, in *agent.GenerateInput) (*agent.LLMResponse, error) {
	f.seen = in
	if f.err != nil {
		return nil, f.err
	}
	return &agent.LLMResponse{
		Text:  f.reply,
		Usage: agent.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

func (f *fakeLLM) Close() error { return nil }

func newTestPlanner(llm agent.LLMClient) *Planner {
	return &Planner{
		SystemPrompt: "you are the planner",
		LLM:          llm,
		Provider:     &config.LLMProviderConfig{Model: "test"},
	}
}

func TestTurnParsesEnvelopeAndAppendsHistory(t *testing.T) {
	llm := &fakeLLM{reply: `{"plan": ["step 1"], "next_step": "step 1", "terminate": "no", "target_helper": "browser"}`}
	p := newTestPlanner(llm)
	sess := agent.NewSessionContext("run", "cmd", "")
	sess.AppendPlanner(models.Message{Role: models.RoleUser, Name: "user", Content: "do the task"})

	env, usage, err := p.Turn(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, "step 1", env.NextStep)
	assert.Equal(t, "browser", env.TargetHelper)
	assert.Equal(t, 15, usage.TotalTokens)

	// The raw reply lands in planner history under the planner's name.
	require.Len(t, sess.PlannerHistory, 2)
	last := sess.PlannerHistory[1]
	assert.Equal(t, models.RoleAssistant, last.Role)
	assert.Equal(t, SpeakerName, last.Name)
	assert.Equal(t, llm.reply, last.Content)
}

func TestTurnSendsSystemPromptFirst(t *testing.T) {
	llm := &fakeLLM{reply: `{"terminate": "yes", "final_response": "done"}`}
	p := newTestPlanner(llm)
	sess := agent.NewSessionContext("run", "cmd", "")
	sess.AppendPlanner(models.Message{Role: models.RoleUser, Name: "user", Content: "do the task"})

	_, _, err := p.Turn(context.Background(), sess)
	require.NoError(t, err)

	require.NotNil(t, llm.seen)
	require.GreaterOrEqual(t, len(llm.seen.Messages), 2)
	assert.Equal(t, models.RoleSystem, llm.seen.Messages[0].Role)
	assert.Equal(t, "you are the planner", llm.seen.Messages[0].Content)
	assert.Equal(t, "do the task", llm.seen.Messages[1].Content)
	// The planner never advertises tools.
	assert.Nil(t, llm.seen.Tools)
}

func TestTurnUnparseableReplyIsDefensive(t *testing.T) {
	llm := &fakeLLM{reply: "I have no idea."}
	p := newTestPlanner(llm)
	sess := agent.NewSessionContext("run", "cmd", "")

	env, _, err := p.Turn(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, env.Defensive)
	assert.True(t, env.ShouldTerminate())
	assert.Equal(t, "I have no idea.", env.FinalResponse)
}

func TestTurnPropagatesLLMError(t *testing.T) {
	wantErr := errors.New("provider down")
	p := newTestPlanner(&fakeLLM{err: wantErr})
	sess := agent.NewSessionContext("run", "cmd", "")

	_, _, err := p.Turn(context.Background(), sess)
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, sess.PlannerHistory)
}
