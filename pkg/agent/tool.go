package agent

// ToolDefinition describes a tool as advertised to the proposing LLM.
type ToolDefinition struct {
	Name        string
	Description string
	// ParametersSchema is a JSON Schema document for the arguments object.
	ParametersSchema string
}

// ToolResult is the output of one tool invocation. In-band tool failures
// are reported with IsError=true rather than a Go error, so the inner
// dialogue can continue (ToolError is reserved for typed handler faults).
type ToolResult struct {
	CallID  string
	Name    string
	Content string
	IsError bool
}
