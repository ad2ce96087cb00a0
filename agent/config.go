package agent

import "github.com/agentloop/agentloop/plan"

// Config holds the generation settings and prompts for one agent.
type Config struct {
	// Name identifies the agent in logs.
	Name string
	// SystemPrompt is the first message of every conversation.
	SystemPrompt string
	// ToolPrompt advertises the decision-object protocol; the registered
	// tool specs are attached to its message metadata.
	ToolPrompt string
	// Temperature passed to the model provider on every step.
	Temperature float64
	// MaxTokens passed to the model provider on every step.
	MaxTokens int
}

// DefaultConfig returns the documented defaults: temperature 0.2 and an
// 800-token cap.
func DefaultConfig() Config {
	return Config{
		Name:         "agent",
		SystemPrompt: "You are a helpful agent.",
		ToolPrompt:   plan.ToolInstructions,
		Temperature:  0.2,
		MaxTokens:    800,
	}
}
