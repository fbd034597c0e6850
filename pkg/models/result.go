package models

// TerminatedReason classifies how a session ended.
type TerminatedReason string

const (
	// TerminatedOK means the planner concluded normally (terminate=yes).
	// Assertion failures terminate with TerminatedOK — a failed check is an
	// expected terminal state, not an engine error.
	TerminatedOK TerminatedReason = "ok"
	// TerminatedRoundBudget means the outer planner round cap was exhausted.
	TerminatedRoundBudget TerminatedReason = "round_budget"
	// TerminatedNavBudget means an inner navigator round cap was exhausted.
	TerminatedNavBudget TerminatedReason = "nav_budget"
	// TerminatedNoTarget means the planner named no usable navigator while
	// not terminating.
	TerminatedNoTarget TerminatedReason = "no_target"
	// TerminatedParseError means the planner output was unreadable even
	// after all parser fallbacks.
	TerminatedParseError TerminatedReason = "parse_error"
	// TerminatedCancelled means the session context was cancelled externally.
	TerminatedCancelled TerminatedReason = "cancelled"
	// TerminatedFatalExternal means an external resource is permanently gone
	// (browser crashed, database unreachable). A fresh orchestrator is
	// required for subsequent commands.
	TerminatedFatalExternal TerminatedReason = "fatal_external"
)

// Assertion records the outcome of one planner assertion turn.
type Assertion struct {
	Summary string `json:"summary"`
	Passed  bool   `json:"passed"`
}

// CostSummary aggregates token and tool-call consumption for a session.
type CostSummary struct {
	TokensIn  int `json:"tokens_in"`
	TokensOut int `json:"tokens_out"`
	ToolCalls int `json:"tool_calls"`
}

// ChatResult is the structured outcome of one ProcessCommand run.
// FinalResponse is always non-empty — a diagnostic string on failure paths.
type ChatResult struct {
	FinalResponse    string           `json:"final_response"`
	TerminatedReason TerminatedReason `json:"terminated_reason"`
	Assertions       []Assertion      `json:"assertions"`
	CostSummary      CostSummary      `json:"cost_summary"`
	// ChatLog is the planner-level conversation, kept for debugging.
	ChatLog []Message `json:"chat_log,omitempty"`
}
