package core

import "time"

// Budget holds the hard limits bounding one agent run. It is pure data plus
// yes/no exhaustion checks; the controller tracks the actual counters and
// consults the budget between steps. Exhaustion is detected, never exceeded.
//
// A zero MaxWallTime disables the wall-clock cap.
type Budget struct {
	MaxSteps     int           `json:"max_steps"`
	MaxToolCalls int           `json:"max_tool_calls"`
	MaxWallTime  time.Duration `json:"max_wall_time"`
}

// DefaultBudget returns the documented defaults: 8 steps, 8 tool calls,
// 30 seconds of wall time.
func DefaultBudget() Budget {
	return Budget{
		MaxSteps:     8,
		MaxToolCalls: 8,
		MaxWallTime:  30 * time.Second,
	}
}

// StepsExhausted reports whether the zero-based step index is out of budget.
func (b Budget) StepsExhausted(step int) bool {
	return step >= b.MaxSteps
}

// ToolCallsExhausted reports whether count tool calls have used up the budget.
func (b Budget) ToolCallsExhausted(count int) bool {
	return count >= b.MaxToolCalls
}

// WallTimeExhausted reports whether the elapsed wall time since start has
// exceeded the cap. Always false when no cap is set.
func (b Budget) WallTimeExhausted(start, now time.Time) bool {
	if b.MaxWallTime <= 0 {
		return false
	}
	return now.Sub(start) > b.MaxWallTime
}
