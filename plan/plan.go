// Package plan converts raw model text into a structured decision: an
// ordered list of tool calls, an optional final answer, or neither.
//
// Parsing is deliberately forgiving. A reply that is not a well-formed
// decision object is never an error; it yields an empty Decision and the
// loop controller treats the whole raw text as the answer. The model is
// instructed to emit the decision shape via ToolInstructions.
package plan

import (
	"strings"

	"github.com/agentloop/agentloop/core"
	"github.com/tidwall/gjson"
)

// ToolInstructions is the protocol prompt advertising the decision-object
// shape. It is seeded into every conversation as a system message alongside
// the registered tool specs.
const ToolInstructions = `
If you need to use a tool, respond ONLY with a JSON object in this format:

{
  "tool_calls": [
    {"name": "<tool_name>", "arguments": { ... }},
    ...
  ],
  "final": "<optional final user-facing text if no further tools needed>"
}

Rules:
- If calling tools, include them in tool_calls.
- If no tools are needed, return tool_calls as [] and put the final answer in "final".
- Do not include any other keys.
`

// Decision is the parsed outcome of one model reply. At most one of the two
// fields is acted upon per step: a non-empty ToolCalls list dispatches
// tools, otherwise a non-nil Final finalizes the run. A zero Decision
// signals total fallback: the controller answers with the raw reply text.
type Decision struct {
	ToolCalls []core.ToolCall
	Final     *string
}

// Parse decodes text as a decision object. Any malformed structure or wrong
// shape (non-object root, non-array tool_calls, an entry without a string
// name, non-object arguments, non-string final) degrades to the zero
// Decision rather than an error.
func Parse(text string) Decision {
	trimmed := strings.TrimSpace(text)
	if !gjson.Valid(trimmed) {
		return Decision{}
	}

	root := gjson.Parse(trimmed)
	if !root.IsObject() {
		return Decision{}
	}

	var calls []core.ToolCall
	if tc := root.Get("tool_calls"); tc.Exists() && tc.Type != gjson.Null {
		if !tc.IsArray() {
			return Decision{}
		}
		malformed := false
		tc.ForEach(func(_, entry gjson.Result) bool {
			call, ok := parseCall(entry)
			if !ok {
				malformed = true
				return false
			}
			calls = append(calls, call)
			return true
		})
		if malformed {
			return Decision{}
		}
	}

	var final *string
	if f := root.Get("final"); f.Exists() && f.Type != gjson.Null {
		if f.Type != gjson.String {
			return Decision{}
		}
		s := f.String()
		final = &s
	}

	return Decision{ToolCalls: calls, Final: final}
}

func parseCall(entry gjson.Result) (core.ToolCall, bool) {
	if !entry.IsObject() {
		return core.ToolCall{}, false
	}
	name := entry.Get("name")
	if name.Type != gjson.String || name.String() == "" {
		return core.ToolCall{}, false
	}

	arguments := map[string]any{}
	if args := entry.Get("arguments"); args.Exists() && args.Type != gjson.Null {
		if !args.IsObject() {
			return core.ToolCall{}, false
		}
		m, ok := args.Value().(map[string]any)
		if !ok {
			return core.ToolCall{}, false
		}
		arguments = m
	}

	return core.ToolCall{Name: name.String(), Arguments: arguments}, true
}
