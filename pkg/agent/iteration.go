package agent

// MaxConsecutiveTimeouts is the threshold for aborting an inner dialogue.
// After this many consecutive LLM timeout failures the executor gives up
// rather than burning the remaining turn budget on a dead provider.
const MaxConsecutiveTimeouts = 2

// IterationState tracks an inner dialogue's progress and failure streaks.
type IterationState struct {
	CurrentTurn                int
	MaxTurns                   int
	LastErrorMessage           string
	ConsecutiveTimeoutFailures int
}

// ShouldAbortOnTimeouts returns true once consecutive timeout failures
// reach the threshold.
func (s *IterationState) ShouldAbortOnTimeouts() bool {
	return s.ConsecutiveTimeoutFailures >= MaxConsecutiveTimeouts
}

// RecordSuccess resets failure tracking after a successful interaction.
func (s *IterationState) RecordSuccess() {
	s.LastErrorMessage = ""
	s.ConsecutiveTimeoutFailures = 0
}

// RecordFailure records a failed interaction.
func (s *IterationState) RecordFailure(errMsg string, isTimeout bool) {
	s.LastErrorMessage = errMsg
	if isTimeout {
		s.ConsecutiveTimeoutFailures++
	} else {
		s.ConsecutiveTimeoutFailures = 0
	}
}
