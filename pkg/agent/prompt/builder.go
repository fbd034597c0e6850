// Package prompt builds all prompt text for the engine's agents. Building
// a prompt is a pure function of (base template, substitutions map); the
// Builder holds no mutable state and is shared across sessions.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/testzeus/hercules/pkg/agent"
)

// Substitutions maps template slot names (with leading $) to values.
// Unfilled slots are replaced with the empty string by Apply.
type Substitutions map[string]string

// knownSlots enumerates every substitution slot used by the templates.
// Apply clears slots absent from the map so no $placeholder leaks into a
// live prompt.
var knownSlots = []string{
	"$helper_catalog",
	"$helper_name",
	"$helper_instructions",
	"$current_datetime",
	"$basic_test_information",
	"$command",
	"$current_url_clause",
	"$current_url",
}

// Apply substitutes slots into a base template. Pure; longest-name-first
// replacement so $current_url_clause is not clobbered by $current_url.
func Apply(base string, subs Substitutions) string {
	out := base
	for _, slot := range knownSlots {
		value := subs[slot]
		out = strings.ReplaceAll(out, slot, value)
	}
	return strings.TrimSpace(out)
}

// Builder composes system and user prompts for the planner and navigators.
type Builder struct{}

// NewBuilder creates a stateless prompt builder.
func NewBuilder() *Builder { return &Builder{} }

// PlannerSystemPrompt builds the planner's fixed system prompt with the
// current timestamp and preloaded long-term memory substituted in.
func (b *Builder) PlannerSystemPrompt(now time.Time, basicTestInformation string) string {
	if basicTestInformation == "" {
		basicTestInformation = "(none)"
	}
	return Apply(plannerSystemTemplate, Substitutions{
		"$helper_catalog":         helperCatalog,
		"$current_datetime":       now.Format(time.RFC1123),
		"$basic_test_information": basicTestInformation,
	})
}

// NavigatorSystemPrompt builds a navigator proposer's system prompt.
func (b *Builder) NavigatorSystemPrompt(tag agent.Tag, basicTestInformation string) string {
	if basicTestInformation == "" {
		basicTestInformation = "(none)"
	}
	instructions := helperInstructions[string(tag)]
	return Apply(navigatorSystemTemplate, Substitutions{
		"$helper_name":            string(tag),
		"$helper_instructions":    instructions,
		"$basic_test_information": basicTestInformation,
	})
}

// InitialUserPrompt builds the message that seeds the planner conversation.
func (b *Builder) InitialUserPrompt(command, currentURL string) string {
	clause := ""
	if currentURL != "" {
		clause = Apply(currentURLClauseTemplate, Substitutions{"$current_url": currentURL})
		// Apply trims; restore the separating blank line.
		clause = "\n\n" + clause
	}
	return Apply(initialUserTemplate, Substitutions{
		"$command":            command,
		"$current_url_clause": clause,
	})
}

// ContinueNudge returns the executor's re-invocation prompt for a proposer
// that produced free text without the termination sentinel.
func (b *Builder) ContinueNudge() string { return continueNudge }

// FormatToolDescriptions renders tool definitions as an LLM-readable list.
// Used in observations when a proposer requests an unknown tool.
func FormatToolDescriptions(defs []agent.ToolDefinition) string {
	var sb strings.Builder
	for _, def := range defs {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", def.Name, def.Description))
	}
	return sb.String()
}

// FormatObservation renders a tool result as an observation message.
func FormatObservation(result *agent.ToolResult) string {
	if result == nil {
		return "error: execution: no tool result available"
	}
	if result.IsError {
		return fmt.Sprintf("error: execution: %s: %s", result.Name, result.Content)
	}
	return result.Content
}

// FormatToolError renders a typed tool failure as an observation message.
func FormatToolError(err *agent.ToolError) string {
	return fmt.Sprintf("error: %s: %s", err.Kind, err.Detail)
}

// FormatUnknownTool renders an unknown-tool miss, including the visible
// tool list so the proposer can self-correct.
func FormatUnknownTool(name string, available []agent.ToolDefinition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error: not_found: tool %q is not available to this helper", name)
	if len(available) > 0 {
		sb.WriteString("\n\nAvailable tools:\n")
		sb.WriteString(FormatToolDescriptions(available))
	} else {
		sb.WriteString("\n\nNo tools are currently available.")
	}
	return sb.String()
}
