package agent

import (
	"strings"

	"github.com/testzeus/hercules/pkg/models"
)

// SessionContext carries all mutable state for one command run. It is
// created on command receipt, owned exclusively by the orchestrator, and
// discarded after the session terminates. Navigators and the scheduler
// see slices of it but mutate histories only through the appenders here.
type SessionContext struct {
	RunID   string
	Command string

	// CurrentURL tracks the browser's location across turns. Updated by
	// the orchestrator after every browser navigator step.
	CurrentURL string

	// PlannerHistory is the outer conversation (append-only).
	PlannerHistory []models.Message

	// NavigatorHistory holds each navigator's inner dialogue, keyed by
	// tag. Histories are never shared across navigators.
	NavigatorHistory map[Tag][]models.Message

	// TurnCounters counts proposer turns per navigator across the session.
	TurnCounters map[Tag]int

	// accumulated free-text memory, appended from navigator summaries.
	memory strings.Builder

	Terminated bool
	Final      string
}

// NewSessionContext creates the state for one command run.
func NewSessionContext(runID, command, currentURL string) *SessionContext {
	return &SessionContext{
		RunID:            runID,
		Command:          command,
		CurrentURL:       currentURL,
		NavigatorHistory: make(map[Tag][]models.Message),
		TurnCounters:     make(map[Tag]int),
	}
}

// AppendPlanner appends a message to the planner conversation.
func (s *SessionContext) AppendPlanner(msg models.Message) {
	s.PlannerHistory = append(s.PlannerHistory, msg)
}

// AppendNavigator appends a message to one navigator's inner dialogue.
func (s *SessionContext) AppendNavigator(tag Tag, msg models.Message) {
	s.NavigatorHistory[tag] = append(s.NavigatorHistory[tag], msg)
}

// History returns the inner dialogue for a tag. The returned slice must
// be treated as read-only.
func (s *SessionContext) History(tag Tag) []models.Message {
	return s.NavigatorHistory[tag]
}

// AppendMemory adds a line to the session's accumulated memory.
func (s *SessionContext) AppendMemory(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if s.memory.Len() > 0 {
		s.memory.WriteByte('\n')
	}
	s.memory.WriteString(text)
}

// AccumulatedMemory returns the memory gathered so far this session.
func (s *SessionContext) AccumulatedMemory() string {
	return s.memory.String()
}
