// Package envelope defines the planner's structured output record and the
// forgiving parser that recovers it from raw LLM text.
package envelope

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/testzeus/hercules/pkg/agent"
)

// Envelope is the structured record every planner turn produces.
// Exactly one of NextStep / FinalResponse is substantive per turn:
// terminate=yes implies FinalResponse is present and TargetHelper is
// Not_Applicable.
type Envelope struct {
	Plan          StringList `json:"plan,omitempty"`
	NextStep      string     `json:"next_step,omitempty"`
	Terminate     string     `json:"terminate"`
	FinalResponse string     `json:"final_response,omitempty"`
	IsAssert      bool       `json:"is_assert,omitempty"`
	AssertSummary string     `json:"assert_summary,omitempty"`
	IsPassed      bool       `json:"is_passed,omitempty"`
	TargetHelper  string     `json:"target_helper,omitempty"`

	// Recovered is set when the keyword-slicing fallback produced the
	// envelope; Defensive when no anchor was found and the raw text was
	// wrapped in a terminating envelope. Not serialized.
	Recovered bool `json:"-"`
	Defensive bool `json:"-"`
}

// StringList tolerates both a JSON array of strings and a single string,
// which planner models emit interchangeably for the plan field.
type StringList []string

// UnmarshalJSON accepts `"step"` as well as `["step", ...]`.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = StringList{one}
		}
		return nil
	}
	return fmt.Errorf("plan: expected string or list of strings, got %s", string(data))
}

// ShouldTerminate normalizes the terminate field: any value containing
// "yes" (case-insensitive) terminates the session.
func (e *Envelope) ShouldTerminate() bool {
	return strings.Contains(strings.ToLower(e.Terminate), "yes")
}

// Target returns the declared target navigator tag.
func (e *Envelope) Target() agent.Tag {
	return agent.Tag(strings.TrimSpace(e.TargetHelper))
}

// HasTarget reports whether the envelope names a dispatchable navigator.
func (e *Envelope) HasTarget() bool {
	return e.Target().IsDispatchable()
}

// Marshal serializes the envelope as canonical JSON. Together with Parse
// it satisfies the round-trip law for well-formed envelopes.
func (e *Envelope) Marshal() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
