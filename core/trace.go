package core

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies entries in an execution trace.
type EventKind string

// Trace event kinds in causal order of a loop step: a model generation, the
// decision derived from it, the tool invocations it triggered, and finally a
// stop when a budget ends the run.
const (
	EventModel    EventKind = "model"
	EventDecision EventKind = "decision"
	EventTool     EventKind = "tool"
	EventStop     EventKind = "stop"
)

// TraceEvent is a single observed loop event. Events are never mutated after
// being appended; Timestamp is UTC.
type TraceEvent struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Kind      EventKind      `json:"kind"`
	Payload   map[string]any `json:"payload"`
}

// NewID returns a process-unique identifier for trace events.
func NewID() string { return uuid.NewString() }

// Trace is the append-only record of everything observed during one run.
// Each run owns its own Trace; it is returned to the caller for inspection
// and never persisted by the loop itself. Run length (and therefore trace
// length) is bounded indirectly by the Budget.
type Trace struct {
	events []TraceEvent
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Add stamps the current time and appends an event. Payload ownership moves
// to the trace; callers must not mutate it afterwards.
func (t *Trace) Add(kind EventKind, payload map[string]any) {
	t.events = append(t.events, TraceEvent{
		ID:        NewID(),
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Payload:   payload,
	})
}

// Events returns a copy of the recorded events in append order.
func (t *Trace) Events() []TraceEvent {
	out := make([]TraceEvent, len(t.events))
	copy(out, t.events)
	return out
}

// Len returns the number of recorded events.
func (t *Trace) Len() int { return len(t.events) }

// Kinds returns the event kinds in append order. Convenient for asserting
// causal ordering in tests and diagnostics.
func (t *Trace) Kinds() []EventKind {
	kinds := make([]EventKind, len(t.events))
	for i, ev := range t.events {
		kinds[i] = ev.Kind
	}
	return kinds
}
