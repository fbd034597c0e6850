// Package navigator implements the proposer/executor pair for one
// navigator tag. The LLM-backed proposer emits either tool-call proposals
// or a free-text summary ending in the termination sentinel; the non-LLM
// executor runs proposals strictly sequentially against the tool registry
// and drives the bounded inner dialogue.
package navigator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/loopdetect"
	"github.com/testzeus/hercules/pkg/agent/prompt"
	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/config"
	"github.com/testzeus/hercules/pkg/models"
)

// Pair couples a navigator tag's proposer and executor. Created once per
// orchestrator; per-session state lives in the SessionContext.
type Pair struct {
	Tag          agent.Tag
	SystemPrompt string
	MaxTurns     int

	LLM      agent.LLMClient
	Provider *config.LLMProviderConfig
	Registry *registry.Registry
	Detector loopdetect.Detector
	Prompts  *prompt.Builder

	// CurrentURL reports the browser's location for browser-type tags;
	// nil for every other navigator.
	CurrentURL func() string
}

// StepResult is the outcome of one planner-assigned step.
type StepResult struct {
	// Summary is the string returned to the planner, per the
	// summary-extraction contract.
	Summary   string
	Usage     agent.TokenUsage
	ToolCalls int
	// Stuck is set when the loop detector terminated the dialogue.
	Stuck bool
	// Fatal is set when a tool reported the external resource as
	// permanently gone; the session must not continue.
	Fatal bool
	// BudgetExhausted is set when the proposer turn cap was reached
	// without a termination sentinel.
	BudgetExhausted bool
}

// RunStep executes one inner dialogue for the reflection message and
// returns the summary for the planner. The dialogue ends on the
// termination sentinel, the turn budget, a stuck loop, a fatal tool
// error, or context cancellation (which propagates as an error).
func (p *Pair) RunStep(ctx context.Context, sess *agent.SessionContext, reflection string) (*StepResult, error) {
	log := slog.With("navigator", p.Tag, "run_id", sess.RunID)

	tools := p.Registry.Definitions(p.Tag)
	result := &StepResult{}
	state := &agent.IterationState{MaxTurns: p.MaxTurns}

	sess.AppendNavigator(p.Tag, models.Message{
		Role:    models.RoleUser,
		Name:    p.Tag.ExecutorName(),
		Content: reflection,
	})

	for turn := 0; turn < p.MaxTurns; turn++ {
		state.CurrentTurn = turn + 1

		if state.ShouldAbortOnTimeouts() {
			result.Summary = fmt.Sprintf(
				"The %s helper aborted the step after repeated timeouts: %s",
				p.Tag, state.LastErrorMessage)
			return result, nil
		}

		resp, err := p.LLM.Generate(ctx, &agent.GenerateInput{
			AgentName: p.Tag.ProposerName(),
			Messages:  p.conversation(sess),
			Tools:     tools,
			Config:    p.Provider,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// Recoverable transport error: feed back as an observation
			// and let the proposer retry.
			log.Warn("proposer LLM call failed", "turn", state.CurrentTurn, "error", err)
			state.RecordFailure(err.Error(), isTimeoutError(err))
			sess.AppendNavigator(p.Tag, models.Message{
				Role:    models.RoleUser,
				Name:    p.Tag.ExecutorName(),
				Content: fmt.Sprintf("error: %s: %s. Please try again.", agent.ErrKindTimeout, err),
			})
			continue
		}
		state.RecordSuccess()
		result.Usage.Add(resp.Usage)
		sess.TurnCounters[p.Tag]++

		proposal := models.Message{
			Role:      models.RoleAssistant,
			Name:      p.Tag.ProposerName(),
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		}
		sess.AppendNavigator(p.Tag, proposal)

		if len(resp.ToolCalls) == 0 {
			if agent.ContainsTerminateSentinel(resp.Text) {
				result.Summary = p.extractSummary(resp.Text)
				return result, nil
			}
			// Free text without the sentinel: re-invoke the proposer.
			sess.AppendNavigator(p.Tag, models.Message{
				Role:    models.RoleUser,
				Name:    p.Tag.ExecutorName(),
				Content: p.Prompts.ContinueNudge(),
			})
			continue
		}

		if p.Detector.Stuck(sess.History(p.Tag)) {
			log.Warn("loop detector terminated inner dialogue", "turn", state.CurrentTurn)
			result.Stuck = true
			result.Summary = fmt.Sprintf(
				"The %s helper was stopped: it repeated the tool call %s with identical arguments and made no progress.",
				p.Tag, resp.ToolCalls[0].Name)
			return result, nil
		}

		// Execute proposals strictly sequentially; each observation is
		// appended before the next call begins.
		fatalObs, err := p.executeCalls(ctx, sess, resp.ToolCalls, tools, result)
		if err != nil {
			return nil, err
		}
		if fatalObs != "" {
			result.Fatal = true
			result.Summary = fmt.Sprintf(
				"The %s helper hit a fatal error and cannot continue: %s",
				p.Tag, fatalObs)
			return result, nil
		}
	}

	result.BudgetExhausted = true
	result.Summary = fmt.Sprintf(
		"The %s helper ran out of its %d-turn budget before finishing the step.",
		p.Tag, p.MaxTurns)
	return result, nil
}

// executeCalls runs a proposal's tool calls in emission order. Returns
// the fatal observation text when a tool reported a fatal error; a
// non-nil error only for context cancellation.
func (p *Pair) executeCalls(
	ctx context.Context,
	sess *agent.SessionContext,
	calls []models.ToolCall,
	visible []agent.ToolDefinition,
	result *StepResult,
) (string, error) {
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		result.ToolCalls++

		observation := p.runOneCall(ctx, call, visible)
		sess.AppendNavigator(p.Tag, models.Message{
			Role:       models.RoleTool,
			Name:       call.Name,
			Content:    observation.content,
			ToolCallID: call.ID,
		})
		if observation.fatal {
			return observation.content, nil
		}
	}
	return "", nil
}

type callObservation struct {
	content string
	fatal   bool
}

// runOneCall resolves and invokes a single tool call, converting every
// failure mode into an observation message.
func (p *Pair) runOneCall(
	ctx context.Context,
	call models.ToolCall,
	visible []agent.ToolDefinition,
) callObservation {
	desc, err := p.Registry.Resolve(p.Tag, call.Name)
	if err != nil {
		return callObservation{content: prompt.FormatUnknownTool(call.Name, visible)}
	}

	callID := call.ID
	if callID == "" {
		callID = uuid.NewString()
	}
	toolResult, err := desc.Invoke(ctx, callID, json.RawMessage(call.Arguments))
	if err != nil {
		var toolErr *agent.ToolError
		if errors.As(err, &toolErr) {
			if toolErr.Kind == agent.ErrKindFatal {
				slog.Error("fatal tool error", "navigator", p.Tag, "tool", call.Name, "detail", toolErr.Detail)
				return callObservation{content: prompt.FormatToolError(toolErr), fatal: true}
			}
			return callObservation{content: prompt.FormatToolError(toolErr)}
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Tool timeout is fatal for the current inner turn but the
			// dialogue continues; surface it as a timeout observation.
			return callObservation{content: fmt.Sprintf("error: %s: tool %s did not complete in time", agent.ErrKindTimeout, call.Name)}
		}
		return callObservation{content: fmt.Sprintf("error: %s: %s", agent.ErrKindExecution, err)}
	}
	return callObservation{content: prompt.FormatObservation(toolResult)}
}

// conversation assembles the proposer's view: system prompt plus the full
// inner history for this tag.
func (p *Pair) conversation(sess *agent.SessionContext) []models.Message {
	history := sess.History(p.Tag)
	msgs := make([]models.Message, 0, len(history)+1)
	msgs = append(msgs, models.Message{Role: models.RoleSystem, Content: p.SystemPrompt})
	msgs = append(msgs, history...)
	return msgs
}

func isTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
