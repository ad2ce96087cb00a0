package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/agentloop/agentloop/core"
	"github.com/agentloop/agentloop/model"
	"github.com/agentloop/agentloop/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptModel returns canned responses in order, repeating the last one when
// the script runs out. It records every request for assertions.
type scriptModel struct {
	responses []string
	requests  []model.Request
	err       error
}

func (m *scriptModel) Generate(_ context.Context, req model.Request) (*core.ModelResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	idx := len(m.requests) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return &core.ModelResponse{Content: m.responses[idx]}, nil
}

func (m *scriptModel) Info() model.Info {
	return model.Info{Name: "script", Provider: "test", SupportsTools: true}
}

func echoRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	type echoArgs struct {
		Text string `json:"text" description:"Text to echo back"`
	}
	echo := tool.NewFunctionToolFromStruct("echo", "Echo the given text", echoArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		})
	reg, err := tool.NewRegistry(echo)
	require.NoError(t, err)
	return reg
}

func emptyRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	reg, err := tool.NewRegistry()
	require.NoError(t, err)
	return reg
}

func decisionActions(tr *core.Trace) []string {
	var actions []string
	for _, ev := range tr.Events() {
		if ev.Kind == core.EventDecision {
			actions = append(actions, ev.Payload["action"].(string))
		}
	}
	return actions
}

// -------------------- Construction --------------------

func TestNew_Validation(t *testing.T) {
	reg := emptyRegistry(t)

	_, err := New(nil, reg)
	assert.Error(t, err)

	_, err = New(&scriptModel{}, nil)
	assert.Error(t, err)

	_, err = New(&scriptModel{}, reg, WithBudget(core.Budget{MaxSteps: 0, MaxToolCalls: 1}))
	assert.Error(t, err)

	_, err = New(&scriptModel{}, reg, WithBudget(core.Budget{MaxSteps: 1, MaxToolCalls: 0}))
	assert.Error(t, err)
}

func TestRun_EmptyInputFailsFast(t *testing.T) {
	a, err := New(&scriptModel{responses: []string{"x"}}, emptyRegistry(t))
	require.NoError(t, err)

	_, _, _, err = a.Run(context.Background(), "   ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

// -------------------- Termination --------------------

func TestRun_FinalizesInOneStep(t *testing.T) {
	m := &scriptModel{responses: []string{`{"tool_calls": [], "final": "done"}`}}
	a, err := New(m, emptyRegistry(t))
	require.NoError(t, err)

	final, state, tr, err := a.Run(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, "done", final)
	assert.True(t, state.Finalized())
	assert.Len(t, m.requests, 1)
	assert.Equal(t, []core.EventKind{core.EventModel, core.EventDecision}, tr.Kinds())
	assert.Equal(t, []string{"finalize"}, decisionActions(tr))
}

func TestRun_StepBudgetBoundsLoop(t *testing.T) {
	// The model always asks for another tool call and never finalizes.
	m := &scriptModel{responses: []string{`{"tool_calls": [{"name": "echo", "arguments": {"text": "again"}}]}`}}
	a, err := New(m, echoRegistry(t), WithBudget(core.Budget{MaxSteps: 3, MaxToolCalls: 100}))
	require.NoError(t, err)

	final, state, tr, err := a.Run(context.Background(), "loop forever")
	require.NoError(t, err)

	assert.Empty(t, final)
	assert.Equal(t, PhasePending, state.Phase())

	modelEvents := 0
	for _, ev := range tr.Events() {
		if ev.Kind == core.EventModel {
			modelEvents++
		}
	}
	assert.Equal(t, 3, modelEvents)
	assert.Len(t, m.requests, 3)
}

func TestRun_ToolCallBudget(t *testing.T) {
	calls := 0
	counting := tool.NewFunctionTool("count", "Counts invocations",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			calls++
			return calls, nil
		})
	reg, err := tool.NewRegistry(counting)
	require.NoError(t, err)

	// A single step requesting max+1 invocations.
	m := &scriptModel{responses: []string{
		`{"tool_calls": [{"name": "count"}, {"name": "count"}, {"name": "count"}]}`,
	}}
	a, err := New(m, reg, WithBudget(core.Budget{MaxSteps: 8, MaxToolCalls: 2}))
	require.NoError(t, err)

	final, state, tr, err := a.Run(context.Background(), "count a lot")
	require.NoError(t, err)

	assert.Equal(t, "Stopped: tool-call budget exceeded.", final)
	assert.True(t, state.Stopped())
	assert.Equal(t, StopToolCalls, state.StopReason())
	// Exactly two dispatched, the third never executed.
	assert.Equal(t, 2, calls)
	assert.Equal(t, []core.EventKind{
		core.EventModel,
		core.EventDecision, core.EventTool,
		core.EventDecision, core.EventTool,
		core.EventStop,
	}, tr.Kinds())
}

func TestRun_WallTimeBudget(t *testing.T) {
	m := &scriptModel{responses: []string{`{"final": "never reached"}`}}
	a, err := New(m, emptyRegistry(t), WithBudget(core.Budget{
		MaxSteps:     8,
		MaxToolCalls: 8,
		MaxWallTime:  time.Nanosecond,
	}))
	require.NoError(t, err)

	final, state, tr, err := a.Run(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, "Stopped: wall-time budget exceeded.", final)
	assert.True(t, state.Stopped())
	assert.Equal(t, StopWallTime, state.StopReason())
	// Stopped before the first generation: no model event at all.
	assert.Equal(t, []core.EventKind{core.EventStop}, tr.Kinds())
	assert.Empty(t, m.requests)
}

// -------------------- Parsing fallbacks --------------------

func TestRun_PlainTextFallback(t *testing.T) {
	m := &scriptModel{responses: []string{"hello"}}
	a, err := New(m, emptyRegistry(t))
	require.NoError(t, err)

	final, state, tr, err := a.Run(context.Background(), "say hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", final)
	assert.True(t, state.Finalized())
	assert.Equal(t, []string{"finalize_fallback"}, decisionActions(tr))
}

func TestRun_EmptyDecisionObjectFallsBackToRawContent(t *testing.T) {
	raw := `{"tool_calls": []}`
	m := &scriptModel{responses: []string{raw}}
	a, err := New(m, emptyRegistry(t))
	require.NoError(t, err)

	final, _, tr, err := a.Run(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, raw, final)
	assert.Equal(t, []string{"finalize_fallback"}, decisionActions(tr))
}

// -------------------- Tool dispatch --------------------

func TestRun_EchoRoundTrip(t *testing.T) {
	m := &scriptModel{responses: []string{
		`{"tool_calls": [{"name": "echo", "arguments": {"text": "abc"}}]}`,
		`{"final": "echoed"}`,
	}}
	a, err := New(m, echoRegistry(t))
	require.NoError(t, err)

	final, state, tr, err := a.Run(context.Background(), "echo abc")
	require.NoError(t, err)

	assert.Equal(t, "echoed", final)
	assert.True(t, state.Finalized())

	// model, decision, tool for step one; model, decision for step two.
	assert.Equal(t, []core.EventKind{
		core.EventModel, core.EventDecision, core.EventTool,
		core.EventModel, core.EventDecision,
	}, tr.Kinds())

	events := tr.Events()
	toolEv := events[2]
	assert.Equal(t, "echo", toolEv.Payload["tool"])
	assert.Equal(t, false, toolEv.Payload["is_error"])
	assert.Equal(t, "abc", toolEv.Payload["output_preview"])

	// The second request must carry the assistant reply and the serialized
	// tool result appended after the seed messages.
	require.Len(t, m.requests, 2)
	msgs := m.requests[1].Messages
	require.Len(t, msgs, 5)
	assert.Equal(t, core.RoleAssistant, msgs[3].Role)
	assert.Equal(t, core.RoleTool, msgs[4].Role)
	assert.Equal(t, "echo", msgs[4].Name)
	assert.Contains(t, msgs[4].Content, `"output":"abc"`)
	assert.Contains(t, msgs[4].Content, `"is_error":false`)
}

func TestRun_UnknownToolDoesNotAbort(t *testing.T) {
	m := &scriptModel{responses: []string{
		`{"tool_calls": [{"name": "ghost", "arguments": {}}]}`,
		`{"final": "recovered"}`,
	}}
	a, err := New(m, emptyRegistry(t))
	require.NoError(t, err)

	final, state, tr, err := a.Run(context.Background(), "use a ghost tool")
	require.NoError(t, err)

	assert.Equal(t, "recovered", final)
	assert.True(t, state.Finalized())

	toolEv := tr.Events()[2]
	assert.Equal(t, core.EventTool, toolEv.Kind)
	assert.Equal(t, true, toolEv.Payload["is_error"])
	assert.Equal(t, "unknown capability: ghost", toolEv.Payload["error"])

	// The failure is folded into context as data for the next step.
	msgs := m.requests[1].Messages
	assert.Contains(t, msgs[4].Content, `"is_error":true`)
	assert.Contains(t, msgs[4].Content, "unknown capability: ghost")
}

func TestRun_FailingToolDoesNotAbort(t *testing.T) {
	failing := tool.NewFunctionTool("boom", "Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("exploded")
		})
	reg, err := tool.NewRegistry(failing)
	require.NoError(t, err)

	m := &scriptModel{responses: []string{
		`{"tool_calls": [{"name": "boom"}]}`,
		`{"final": "moving on"}`,
	}}
	a, err := New(m, reg)
	require.NoError(t, err)

	final, _, tr, err := a.Run(context.Background(), "try the exploding tool")
	require.NoError(t, err)
	assert.Equal(t, "moving on", final)

	toolEv := tr.Events()[2]
	assert.Equal(t, true, toolEv.Payload["is_error"])
	assert.Contains(t, toolEv.Payload["error"], "exploded")
}

// -------------------- Provider contract --------------------

func TestRun_ConversationOnlyGrows(t *testing.T) {
	m := &scriptModel{responses: []string{
		`{"tool_calls": [{"name": "echo", "arguments": {"text": "a"}}]}`,
		`{"tool_calls": [{"name": "echo", "arguments": {"text": "b"}}]}`,
		`{"final": "ok"}`,
	}}
	a, err := New(m, echoRegistry(t))
	require.NoError(t, err)

	_, _, _, err = a.Run(context.Background(), "grow")
	require.NoError(t, err)

	require.Len(t, m.requests, 3)
	prev := 0
	for _, req := range m.requests {
		assert.GreaterOrEqual(t, len(req.Messages), prev)
		prev = len(req.Messages)
	}

	// Seed shape: system prompt, tool protocol prompt with specs metadata, user input.
	seed := m.requests[0].Messages
	require.Len(t, seed, 3)
	assert.Equal(t, core.RoleSystem, seed[0].Role)
	assert.Equal(t, core.RoleSystem, seed[1].Role)
	specs, ok := seed[1].Metadata["tools"].([]core.ToolSpec)
	require.True(t, ok)
	require.Len(t, specs, 1)
	assert.Equal(t, "echo", specs[0].Name)
	assert.Equal(t, core.RoleUser, seed[2].Role)
	assert.Equal(t, "grow", seed[2].Content)
}

func TestRun_GenerationSettingsPropagate(t *testing.T) {
	m := &scriptModel{responses: []string{"hi"}}
	cfg := DefaultConfig()
	cfg.Temperature = 0.7
	cfg.MaxTokens = 123
	a, err := New(m, emptyRegistry(t), WithConfig(cfg))
	require.NoError(t, err)

	_, _, _, err = a.Run(context.Background(), "anything")
	require.NoError(t, err)

	req := m.requests[0]
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 123, req.MaxTokens)
	assert.False(t, req.JSONMode)
}

func TestRun_ModelErrorIsReturned(t *testing.T) {
	m := &scriptModel{err: errors.New("connection refused")}
	a, err := New(m, emptyRegistry(t))
	require.NoError(t, err)

	_, _, tr, err := a.Run(context.Background(), "anything")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	// Nothing was generated, so nothing was traced.
	assert.Equal(t, 0, tr.Len())
}

// -------------------- Trace payloads --------------------

func TestRun_ToolOutputPreviewIsBounded(t *testing.T) {
	big := tool.NewFunctionTool("big", "Returns a large payload",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			out := ""
			for i := 0; i < 200; i++ {
				out += fmt.Sprintf("chunk-%03d ", i)
			}
			return out, nil
		})
	reg, err := tool.NewRegistry(big)
	require.NoError(t, err)

	m := &scriptModel{responses: []string{
		`{"tool_calls": [{"name": "big"}]}`,
		`{"final": "done"}`,
	}}
	a, err := New(m, reg)
	require.NoError(t, err)

	_, _, tr, err := a.Run(context.Background(), "big output")
	require.NoError(t, err)

	preview := tr.Events()[2].Payload["output_preview"].(string)
	assert.Len(t, []rune(preview), 500)
}
