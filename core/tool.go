package core

// ToolSpec declaratively exposes a tool to the model. Parameters is a JSON
// Schema object (draft agnostic, minimal subset expected). Specs are
// registered once at startup and immutable thereafter.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall is a single tool invocation request decoded from a model reply.
// Instances are produced by the plan parser, not hand-constructed.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult is the outcome of exactly one invocation attempt. IsError marks
// both unknown-tool lookups and failures raised inside the tool itself; in
// either case Error carries the message and Output is nil.
type ToolResult struct {
	Name       string `json:"name"`
	Output     any    `json:"output"`
	IsError    bool   `json:"is_error"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}
