// Package orchestrator drives one command through the planner loop: seed
// the planner conversation, alternate planner turns with navigator
// sub-dialogues selected by the scheduler, and reduce the session into a
// ChatResult. One orchestrator serves many sessions; per-run state lives
// in the SessionContext.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/navigator"
	"github.com/testzeus/hercules/pkg/agent/planner"
	"github.com/testzeus/hercules/pkg/agent/prompt"
	"github.com/testzeus/hercules/pkg/agent/scheduler"
	"github.com/testzeus/hercules/pkg/memory"
	"github.com/testzeus/hercules/pkg/models"
	"github.com/testzeus/hercules/pkg/proofs"
)

// Orchestrator owns the planner loop and the navigator roster.
type Orchestrator struct {
	plannerMaxRounds int

	planner *planner.Planner
	pairs   map[agent.Tag]*navigator.Pair
	sched   *scheduler.Scheduler
	prompts *prompt.Builder
	mem     memory.Store
	proofs  *proofs.Writer

	// currentURL reports the live browser location; nil when the browser
	// navigator is not wired.
	currentURL func() string
}

// ProcessCommand executes one test command to completion and returns the
// structured result. The error return is reserved for programming errors;
// every runtime outcome (including cancellation and budget exhaustion) is
// reported in the ChatResult.
func (o *Orchestrator) ProcessCommand(ctx context.Context, command, currentURL string) (*models.ChatResult, error) {
	runID := uuid.NewString()
	log := slog.With("run_id", runID)
	log.Info("processing command", "command", command)
	started := time.Now()

	sess := agent.NewSessionContext(runID, command, currentURL)
	sess.AppendPlanner(models.Message{
		Role:    models.RoleUser,
		Name:    scheduler.SpeakerUser,
		Content: o.prompts.InitialUserPrompt(command, currentURL),
	})

	result := &models.ChatResult{}
	o.runPlannerLoop(ctx, sess, result)

	result.ChatLog = sess.PlannerHistory
	o.writeProofs(sess)

	log.Info("command finished",
		"reason", result.TerminatedReason,
		"rounds", len(sess.PlannerHistory),
		"tokens", result.CostSummary.TokensIn+result.CostSummary.TokensOut,
		"duration", time.Since(started))
	return result, nil
}

// runPlannerLoop is the outer state machine. Every exit path fills
// TerminatedReason and FinalResponse.
func (o *Orchestrator) runPlannerLoop(ctx context.Context, sess *agent.SessionContext, result *models.ChatResult) {
	log := slog.With("run_id", sess.RunID)

	for round := 0; round < o.plannerMaxRounds; round++ {
		if ctx.Err() != nil {
			o.finish(result, models.TerminatedCancelled, "The session was cancelled before completing.")
			return
		}

		env, usage, err := o.planner.Turn(ctx, sess)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				o.finish(result, models.TerminatedCancelled, "The session was cancelled while waiting for the planner.")
				return
			}
			log.Error("planner turn failed", "round", round, "error", err)
			o.finish(result, models.TerminatedFatalExternal, "The planner's LLM provider failed: "+err.Error())
			return
		}
		result.CostSummary.TokensIn += usage.InputTokens
		result.CostSummary.TokensOut += usage.OutputTokens

		if env.IsAssert && env.AssertSummary != "" {
			result.Assertions = append(result.Assertions, models.Assertion{
				Summary: env.AssertSummary,
				Passed:  env.IsPassed,
			})
		}

		if env.Defensive {
			o.finish(result, models.TerminatedParseError, env.FinalResponse)
			return
		}
		if env.ShouldTerminate() {
			o.finish(result, models.TerminatedOK, env.FinalResponse)
			return
		}

		reflection := o.sched.Reflection(env, o.reflectionURL(sess))
		decision := o.sched.Next(scheduler.SpeakerUser, models.Message{Content: reflection})
		if decision.Kind != scheduler.ToProposer {
			log.Warn("planner named no usable navigator", "target", env.TargetHelper)
			o.finish(result, models.TerminatedNoTarget,
				"The planner did not name a usable helper and did not terminate.")
			return
		}
		pair, ok := o.pairs[decision.Tag]
		if !ok {
			log.Warn("planner targeted a disabled navigator", "target", decision.Tag)
			o.finish(result, models.TerminatedNoTarget,
				"The planner targeted a helper that is not enabled: "+string(decision.Tag))
			return
		}

		step, err := pair.RunStep(ctx, sess, reflection)
		if err != nil {
			o.finish(result, models.TerminatedCancelled, "The session was cancelled during a helper step.")
			return
		}
		result.CostSummary.TokensIn += step.Usage.InputTokens
		result.CostSummary.TokensOut += step.Usage.OutputTokens
		result.CostSummary.ToolCalls += step.ToolCalls

		summary := o.absorbSummary(ctx, sess, step.Summary)
		sess.AppendPlanner(models.Message{
			Role:    models.RoleUser,
			Name:    decision.Tag.ExecutorName(),
			Content: summary,
		})
		o.trackBrowserURL(sess, decision.Tag)

		if step.Fatal {
			o.finish(result, models.TerminatedFatalExternal, summary)
			return
		}
		if step.BudgetExhausted {
			o.finish(result, models.TerminatedNavBudget, summary)
			return
		}
	}

	o.finish(result, models.TerminatedRoundBudget,
		"The planner round budget was exhausted before the task completed.")
}

// absorbSummary applies the memory-save marker and accumulates session
// memory; returns the marker-stripped summary handed to the planner.
func (o *Orchestrator) absorbSummary(ctx context.Context, sess *agent.SessionContext, summary string) string {
	save := agent.ContainsSaveInMemMarker(summary)
	stripped := agent.StripSaveInMemMarker(summary)

	sess.AppendMemory(stripped)
	if save {
		if dynamic, ok := o.mem.(memory.DynamicStore); ok {
			if err := dynamic.SaveContent(ctx, stripped); err != nil {
				slog.Warn("saving memory failed", "run_id", sess.RunID, "error", err)
			}
		}
	}
	return stripped
}

// trackBrowserURL refreshes the session's URL after browser steps so the
// next reflection message carries the live location.
func (o *Orchestrator) trackBrowserURL(sess *agent.SessionContext, tag agent.Tag) {
	if !tag.IsBrowser() || o.currentURL == nil {
		return
	}
	if url := o.currentURL(); url != "" {
		sess.CurrentURL = url
	}
}

// reflectionURL prefers the live browser location and falls back to the
// session's last known URL (the caller-supplied one before the browser
// first navigates).
func (o *Orchestrator) reflectionURL(sess *agent.SessionContext) string {
	if o.currentURL != nil {
		if url := o.currentURL(); url != "" {
			return url
		}
	}
	return sess.CurrentURL
}

// finish seals the result; FinalResponse is always non-empty.
func (o *Orchestrator) finish(result *models.ChatResult, reason models.TerminatedReason, response string) {
	if response == "" {
		response = "The session ended without a final response (" + string(reason) + ")."
	}
	result.TerminatedReason = reason
	result.FinalResponse = response
}

// writeProofs persists the planner conversation and every navigator
// dialogue as proof artifacts. Best-effort.
func (o *Orchestrator) writeProofs(sess *agent.SessionContext) {
	if !o.proofs.Enabled() {
		return
	}
	o.proofs.WriteConversation(sess.RunID, planner.SpeakerName, scheduler.SpeakerUser, sess.PlannerHistory)
	for tag, history := range sess.NavigatorHistory {
		o.proofs.WriteConversation(sess.RunID, tag.ProposerName(), tag.ExecutorName(), history)
	}
}
