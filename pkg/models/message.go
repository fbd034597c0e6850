// Package models defines the wire-level records shared across the engine:
// conversation messages, tool calls, and the per-command chat result.
package models

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is an LLM's request to invoke a registered tool.
// Arguments is the raw JSON text emitted by the model.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"tool_name"`
	Arguments string `json:"arguments"`
}

// Message is a single entry in a planner or navigator conversation.
// Name carries the speaking agent's roster name (e.g. "planner",
// "browser_nav", "browser_executor"); it is what the scheduler's
// transition function keys on.
type Message struct {
	Role      Role       `json:"role"`
	Name      string     `json:"name,omitempty"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID links a tool observation back to the proposal it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// HasToolCalls reports whether the message proposes at least one tool call.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }
