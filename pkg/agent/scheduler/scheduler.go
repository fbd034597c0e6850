// Package scheduler implements the deterministic speaker-selection
// function over the agent roster (user, planner, proposers, executors)
// and the reflection hook that turns a planner envelope into a navigator
// prompt. Both are pure functions of their inputs; all session state
// stays with the orchestrator.
package scheduler

import (
	"strings"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/envelope"
	"github.com/testzeus/hercules/pkg/agent/prompt"
	"github.com/testzeus/hercules/pkg/models"
)

// SpeakerUser is the roster name of the outer driver seeding reflections.
const SpeakerUser = "user"

// DecisionKind classifies the scheduler's transition choice.
type DecisionKind int

const (
	// Terminal ends the nested dialogue; control returns to the planner
	// loop.
	Terminal DecisionKind = iota
	// ToProposer hands the turn to a navigator's LLM-backed proposer.
	ToProposer
	// ToExecutor hands the turn to a navigator's execution proxy.
	ToExecutor
)

// Decision is one transition choice: who speaks next.
type Decision struct {
	Kind DecisionKind
	Tag  agent.Tag
}

// Scheduler selects speakers over a fixed roster of navigator tags.
type Scheduler struct {
	known map[agent.Tag]bool
}

// New creates a scheduler over the enabled navigator tags.
func New(tags []agent.Tag) *Scheduler {
	known := make(map[agent.Tag]bool, len(tags))
	for _, t := range tags {
		known[t] = true
	}
	return &Scheduler{known: known}
}

// Next is the state-transition function. Given only (lastSpeaker,
// lastMessage) it decides the next speaker:
//
//  1. A message carrying the termination sentinel ends the dialogue.
//  2. After the user: dispatch to the proposer named by the
//     target-helper marker; unknown or absent targets end the dialogue.
//  3. After a proposer: the matching executor.
//  4. After an executor: the matching proposer.
//  5. Otherwise: the proposer whose tag prefixes the speaker's name.
func (s *Scheduler) Next(lastSpeaker string, lastMessage models.Message) Decision {
	if agent.ContainsTerminateSentinel(lastMessage.Content) {
		return Decision{Kind: Terminal}
	}

	if lastSpeaker == SpeakerUser {
		tag, ok := agent.ParseTargetHelper(lastMessage.Content)
		if !ok || !s.known[tag] {
			return Decision{Kind: Terminal}
		}
		return Decision{Kind: ToProposer, Tag: tag}
	}

	if tag, ok := s.speakerTag(lastSpeaker, "_nav"); ok {
		return Decision{Kind: ToExecutor, Tag: tag}
	}
	if tag, ok := s.speakerTag(lastSpeaker, "_executor"); ok {
		return Decision{Kind: ToProposer, Tag: tag}
	}

	// Defensive default: route by tag prefix.
	for tag := range s.known {
		if strings.HasPrefix(lastSpeaker, string(tag)) {
			return Decision{Kind: ToProposer, Tag: tag}
		}
	}
	return Decision{Kind: Terminal}
}

// speakerTag strips a roster suffix and checks the remainder is a known
// tag.
func (s *Scheduler) speakerTag(speaker, suffix string) (agent.Tag, bool) {
	name, ok := strings.CutSuffix(speaker, suffix)
	if !ok {
		return "", false
	}
	tag := agent.Tag(name)
	return tag, s.known[tag]
}

// Reflection composes the navigator prompt from the planner's latest
// envelope: the next_step (or the skip literal when absent), the current
// URL for browser-type targets, and the target-helper marker.
func (s *Scheduler) Reflection(env *envelope.Envelope, currentURL string) string {
	var sb strings.Builder

	step := strings.TrimSpace(env.NextStep)
	if step == "" {
		step = prompt.SkipStepMessage
	}
	sb.WriteString(step)

	tag := agent.Tag(env.TargetHelper)
	if tag.IsBrowser() && currentURL != "" {
		sb.WriteString("\nThe browser is currently at: ")
		sb.WriteString(currentURL)
	}

	sb.WriteString("\n")
	sb.WriteString(agent.FormatTargetHelper(tag))
	return sb.String()
}
