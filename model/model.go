package model

import (
	"context"
	"fmt"
	"time"

	"github.com/agentloop/agentloop/core"
)

// Request captures the normalized model input produced by the loop
// controller. Messages carry the full append-only conversation so far.
// Timeout is a per-call hint for the provider; zero means no limit.
type Request struct {
	Messages    []core.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
	JSONMode    bool           `json:"json_mode"`
	Stop        []string       `json:"stop,omitempty"`
	Timeout     time.Duration  `json:"timeout,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "local", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the loop requires to drive generation.
// Generate is a plain blocking call with no guaranteed idempotence; the loop
// never retries it.
type Model interface {
	Generate(ctx context.Context, req Request) (*core.ModelResponse, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
// Responses can be scripted in order (Enqueue) or keyed by the most recent
// user/tool message content (AddResponse); scripted responses win.
type MockModel struct {
	info      Info
	responses map[string]string
	script    []string
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider, SupportsTools: true},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Enqueue appends responses returned in FIFO order regardless of input.
func (m *MockModel) Enqueue(responses ...string) { m.script = append(m.script, responses...) }

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*core.ModelResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return &core.ModelResponse{Content: next}, nil
	}

	last := req.Messages[len(req.Messages)-1]
	full, ok := m.responses[last.Content]
	if !ok {
		full = fmt.Sprintf("Mock response to: %s", last.Content)
	}
	return &core.ModelResponse{Content: full}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
