// Package tool implements the capability subsystem of the agent loop: named,
// schema-described actions the model may invoke, plus the registry that
// dispatches them with a strict no-throw contract so a single misbehaving
// tool can never abort a run.
package tool

import (
	"context"
	"fmt"

	"github.com/agentloop/agentloop/internal/util"
)

// Tool is an external action an agent may invoke.
//
// Implementations should:
//   - Provide clear, descriptive names (snake_case recommended) and descriptions
//   - Define a proper JSON schema for parameters
//   - Be safe for concurrent use: the registry is shared across runs
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool
	// does. It is advertised to the model to guide invocation.
	Description() string

	// Parameters returns a JSON-schema object describing the expected
	// arguments.
	Parameters() map[string]any

	// Call executes the tool. The returned value must be JSON-serializable;
	// errors are converted to error results at the registry boundary and
	// never reach the loop controller.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError re-exports the argument validation error type.
type ValidationError = util.ValidationError

// ToolError represents a failure during tool execution with a stable code
// for categorization.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// Error codes produced by FunctionTool.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeExecutionError  = "EXECUTION_ERROR"
)

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
