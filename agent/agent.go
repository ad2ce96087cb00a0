package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentloop/agentloop/core"
	"github.com/agentloop/agentloop/logging"
	"github.com/agentloop/agentloop/model"
	"github.com/agentloop/agentloop/plan"
	"github.com/agentloop/agentloop/tool"
	"github.com/tidwall/sjson"
)

// Stop messages returned as the final answer when a budget ends a run.
const (
	stopWallTimeMessage  = "Stopped: wall-time budget exceeded."
	stopToolCallsMessage = "Stopped: tool-call budget exceeded."
)

// outputPreviewLimit bounds the tool output excerpt recorded in trace events.
const outputPreviewLimit = 500

// Options configures an Agent instance. Use functional options with New to
// override defaults.
type Options struct {
	Config Config
	Budget core.Budget
	Logger logging.Logger
}

// WithConfig overrides the generation settings and prompts.
func WithConfig(cfg Config) func(o *Options) {
	return func(o *Options) { o.Config = cfg }
}

// WithBudget overrides the resource budget.
func WithBudget(b core.Budget) func(o *Options) {
	return func(o *Options) { o.Budget = b }
}

// WithLogger overrides the structured logger (default: silent).
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Agent is the loop controller. It is stateless across runs: every Run call
// builds its own conversation, State and Trace, so a single Agent is safe
// for concurrent runs as long as its tools are.
type Agent struct {
	model  model.Model
	tools  *tool.Registry
	config Config
	budget core.Budget
	logger logging.Logger
}

// New constructs an Agent around a model provider and a tool registry.
// Defaults: DefaultConfig, DefaultBudget (8 steps, 8 tool calls, 30s wall
// time), no logging.
func New(m model.Model, tools *tool.Registry, optFns ...func(o *Options)) (*Agent, error) {
	if m == nil {
		return nil, fmt.Errorf("agent: model must not be nil")
	}
	if tools == nil {
		return nil, fmt.Errorf("agent: tool registry must not be nil")
	}

	opts := Options{
		Config: DefaultConfig(),
		Budget: core.DefaultBudget(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Budget.MaxSteps <= 0 {
		return nil, fmt.Errorf("agent: budget max steps must be positive, got %d", opts.Budget.MaxSteps)
	}
	if opts.Budget.MaxToolCalls <= 0 {
		return nil, fmt.Errorf("agent: budget max tool calls must be positive, got %d", opts.Budget.MaxToolCalls)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Agent{
		model:  m,
		tools:  tools,
		config: opts.Config,
		budget: opts.Budget,
		logger: opts.Logger,
	}, nil
}

// Run executes the bounded decision cycle for one user input and returns the
// final answer, the tagged run state and the execution trace.
//
// Run never returns an error for ordinary model or tool failures: tool
// failures become error-flagged trace events and conversation content, and
// unparseable model output degrades to a raw-text answer. The error return
// covers only boundary validation (empty input) and provider transport
// failures surfaced by Generate.
func (a *Agent) Run(ctx context.Context, userInput string) (string, State, *core.Trace, error) {
	if strings.TrimSpace(userInput) == "" {
		return "", State{}, nil, fmt.Errorf("agent: user input must not be empty")
	}

	trace := core.NewTrace()
	var state State

	start := time.Now()
	toolCallsUsed := 0

	toolPrompt := core.NewSystemMessage(a.config.ToolPrompt)
	toolPrompt.Metadata = map[string]any{"tools": a.tools.Specs()}

	messages := []core.Message{
		core.NewSystemMessage(a.config.SystemPrompt),
		toolPrompt,
		core.NewUserMessage(userInput),
	}

	a.logger.Info("agent.run.start", "agent", a.config.Name, "tools", a.tools.Len(), "max_steps", a.budget.MaxSteps)

	for step := 0; !a.budget.StepsExhausted(step); step++ {
		if a.budget.WallTimeExhausted(start, time.Now()) {
			state.stop(StopWallTime, stopWallTimeMessage)
			trace.Add(core.EventStop, map[string]any{"reason": string(StopWallTime)})
			a.logger.Warn("agent.run.stop", "agent", a.config.Name, "reason", string(StopWallTime), "step", step)
			break
		}

		resp, err := a.model.Generate(ctx, model.Request{
			Messages:    messages,
			Temperature: a.config.Temperature,
			MaxTokens:   a.config.MaxTokens,
			JSONMode:    false,
		})
		if err != nil {
			a.logger.Error("agent.model.error", "agent", a.config.Name, "step", step, "error", err.Error())
			return state.Final(), state, trace, fmt.Errorf("model generate (step %d): %w", step, err)
		}
		trace.Add(core.EventModel, map[string]any{"step": step, "content": resp.Content})

		decision := plan.Parse(resp.Content)

		if len(decision.ToolCalls) > 0 {
			for _, call := range decision.ToolCalls {
				if a.budget.ToolCallsExhausted(toolCallsUsed) {
					state.stop(StopToolCalls, stopToolCallsMessage)
					trace.Add(core.EventStop, map[string]any{"reason": string(StopToolCalls)})
					a.logger.Warn("agent.run.stop", "agent", a.config.Name, "reason", string(StopToolCalls), "step", step)
					break
				}
				toolCallsUsed++

				trace.Add(core.EventDecision, map[string]any{
					"action": "tool_call",
					"tool":   call.Name,
					"args":   call.Arguments,
				})

				result := a.tools.Invoke(ctx, call.Name, call.Arguments)
				trace.Add(core.EventTool, map[string]any{
					"tool":           call.Name,
					"is_error":       result.IsError,
					"duration_ms":    result.DurationMS,
					"output_preview": outputPreview(result.Output),
					"error":          result.Error,
				})
				a.logger.Info("agent.tool.executed",
					"agent", a.config.Name,
					"tool", call.Name,
					"duration_ms", result.DurationMS,
					"error", result.IsError,
				)

				// Fold the exchange back into context: what the model said,
				// then what the tool returned.
				messages = append(messages,
					core.NewAssistantMessage(resp.Content),
					core.NewToolMessage(call.Name, toolResultPayload(result)),
				)
			}
			if state.Stopped() {
				break
			}
			continue
		}

		if decision.Final != nil {
			state.finalize(*decision.Final)
			trace.Add(core.EventDecision, map[string]any{"action": "finalize"})
			break
		}

		// The reply was neither tool calls nor a decodable final answer:
		// the raw text is the whole answer.
		state.finalize(resp.Content)
		trace.Add(core.EventDecision, map[string]any{"action": "finalize_fallback"})
		break
	}

	a.logger.Info("agent.run.complete",
		"agent", a.config.Name,
		"phase", state.Phase().String(),
		"tool_calls", toolCallsUsed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return state.Final(), state, trace, nil
}

// toolResultPayload serializes an invocation outcome for the tool-role
// message folded back into the conversation.
func toolResultPayload(result core.ToolResult) string {
	body, _ := sjson.Set("{}", "output", result.Output)
	body, _ = sjson.Set(body, "is_error", result.IsError)
	if result.Error != "" {
		body, _ = sjson.Set(body, "error", result.Error)
	} else {
		body, _ = sjson.SetRaw(body, "error", "null")
	}
	return body
}

// outputPreview renders a bounded excerpt of a tool output for trace events.
func outputPreview(output any) string {
	s := fmt.Sprintf("%v", output)
	runes := []rune(s)
	if len(runes) > outputPreviewLimit {
		return string(runes[:outputPreviewLimit])
	}
	return s
}
