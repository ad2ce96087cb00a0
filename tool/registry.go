package tool

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/agentloop/agentloop/core"
)

// ErrDuplicateTool is returned when registering a tool whose name is taken.
var ErrDuplicateTool = fmt.Errorf("tool name already registered")

// Registry owns the mapping from tool name to implementation and provides
// discovery plus safe dispatch. Registration happens once at startup; after
// that the registry is shared read-only across concurrent runs.
//
// Invoke never returns an error and never panics: unknown names, tool errors
// and tool panics all come back as error-flagged core.ToolResult values.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewRegistry builds a registry from the given tools. Registration order is
// preserved for spec advertisement; a duplicate name fails construction.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Names must be unique and non-empty.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("register: tool must not be nil")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("register: tool name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateTool)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Specs returns the tool specs in registration order, used to advertise the
// available tools to the model.
func (r *Registry) Specs() []core.ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]core.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		specs = append(specs, core.ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return specs
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Invoke looks up name and executes it with args, measuring elapsed time.
// An absent name yields an error result instead of failing; any error or
// panic raised by the tool is caught and converted the same way. The result
// is the single outcome of this invocation attempt.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) core.ToolResult {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return core.ToolResult{
			Name:    name,
			IsError: true,
			Error:   fmt.Sprintf("unknown capability: %s", name),
		}
	}

	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	output, err := safeCall(ctx, t, args)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		return core.ToolResult{Name: name, IsError: true, Error: err.Error(), DurationMS: elapsed}
	}
	return core.ToolResult{Name: name, Output: output, DurationMS: elapsed}
}

// safeCall runs the tool converting panics into errors.
func safeCall(ctx context.Context, t Tool, args map[string]any) (output any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in tool %s: %v\n%s", t.Name(), rec, debug.Stack())
		}
	}()
	return t.Call(ctx, args)
}
