package agent

// Phase is the lifecycle position of one run.
type Phase int

const (
	// PhasePending means no terminating branch has been taken yet. A run
	// that exhausts its step budget ends in this phase with whatever final
	// text is set, possibly none.
	PhasePending Phase = iota
	// PhaseFinalized means the model produced a final answer (directly or
	// via the raw-text fallback).
	PhaseFinalized
	// PhaseStopped means a budget ended the run early.
	PhaseStopped
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseFinalized:
		return "finalized"
	case PhaseStopped:
		return "stopped"
	default:
		return "pending"
	}
}

// StopReason names the budget that ended a stopped run.
type StopReason string

// Budget stop reasons, recorded verbatim in stop trace events.
const (
	StopWallTime  StopReason = "wall_time_budget_exceeded"
	StopToolCalls StopReason = "tool_call_budget_exceeded"
)

// State is the tagged outcome of one run: pending, stopped with a reason, or
// finalized with an answer. It replaces a free-form per-run map keyed by
// convention; exactly one terminating transition can ever apply, after which
// further transitions are ignored.
type State struct {
	phase  Phase
	final  string
	reason StopReason
}

// Phase returns the lifecycle position.
func (s State) Phase() Phase { return s.phase }

// Final returns the run's answer text. Empty while pending with no answer.
func (s State) Final() string { return s.final }

// Finalized reports whether the model finalized the run.
func (s State) Finalized() bool { return s.phase == PhaseFinalized }

// Stopped reports whether a budget ended the run.
func (s State) Stopped() bool { return s.phase == PhaseStopped }

// StopReason returns the stopping budget's reason, empty unless Stopped.
func (s State) StopReason() StopReason { return s.reason }

// finalize transitions to PhaseFinalized. No-op once terminal.
func (s *State) finalize(text string) {
	if s.phase != PhasePending {
		return
	}
	s.phase = PhaseFinalized
	s.final = text
}

// stop transitions to PhaseStopped recording the reason and the user-facing
// stop message. No-op once terminal.
func (s *State) stop(reason StopReason, message string) {
	if s.phase != PhasePending {
		return
	}
	s.phase = PhaseStopped
	s.reason = reason
	s.final = message
}
