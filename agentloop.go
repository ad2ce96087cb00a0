// Package agentloop provides a small facade over the loop controller for the
// common case: one model provider, a handful of tools, default budget and
// generation settings. Most applications interact with this package by:
//  1. Implementing model.Model for their provider (or using model.MockModel
//     in tests and examples)
//  2. Building tools with tool.NewFunctionTool / tool.NewFunctionToolFromStruct
//  3. Calling New and then Run on the returned agent
//
// Anything beyond that (custom budgets, prompts, logging) goes through the
// agent package's functional options directly.
package agentloop

import (
	"github.com/agentloop/agentloop/agent"
	"github.com/agentloop/agentloop/model"
	"github.com/agentloop/agentloop/tool"
)

// New builds an agent with default configuration and budget (8 steps, 8 tool
// calls, 30s wall time, temperature 0.2, 800-token cap) around the given
// model and tools.
func New(m model.Model, tools ...tool.Tool) (*agent.Agent, error) {
	registry, err := tool.NewRegistry(tools...)
	if err != nil {
		return nil, err
	}
	return agent.New(m, registry)
}
