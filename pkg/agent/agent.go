// Package agent provides the core types shared by the test-execution
// engine: navigator tags, inter-agent markers, tool and LLM contracts,
// and per-session state. The iteration loops live in the subpackages
// (planner, navigator, scheduler, orchestrator).
package agent

// Tag identifies a navigator domain. The planner's target_helper field
// names one of these (or Not_Applicable) on every turn.
type Tag string

const (
	TagBrowser    Tag = "browser"
	TagAPI        Tag = "api"
	TagSQL        Tag = "sql"
	TagSec        Tag = "sec"
	TagTimeKeeper Tag = "time_keeper"
	TagMCP        Tag = "mcp"
	TagComposio   Tag = "composio"
	TagExecutor   Tag = "executor"

	// TagNotApplicable is the planner's "no navigator" marker. It is never
	// a dispatch target; the exact spelling is part of the planner prompt
	// contract.
	TagNotApplicable Tag = "Not_Applicable"
)

// KnownTags lists every dispatchable navigator tag in a stable order.
func KnownTags() []Tag {
	return []Tag{TagBrowser, TagAPI, TagSQL, TagSec, TagTimeKeeper, TagMCP, TagComposio, TagExecutor}
}

// IsDispatchable reports whether the tag names a real navigator.
func (t Tag) IsDispatchable() bool {
	switch t {
	case TagBrowser, TagAPI, TagSQL, TagSec, TagTimeKeeper, TagMCP, TagComposio, TagExecutor:
		return true
	default:
		return false
	}
}

// IsBrowser reports whether the tag drives a browser context. Reflection
// messages and navigator summaries carry the current URL only for
// browser-type navigators.
func (t Tag) IsBrowser() bool { return t == TagBrowser }

// ProposerName returns the roster name of the tag's LLM-facing proposer.
func (t Tag) ProposerName() string { return string(t) + "_nav" }

// ExecutorName returns the roster name of the tag's execution proxy.
func (t Tag) ExecutorName() string { return string(t) + "_executor" }
