// Package core defines the shared leaf types of the agent loop: conversation
// messages, model responses, tool call/result/spec shapes, the resource
// budget and the append-only execution trace.
//
// Every type here is a plain value with no behavior beyond construction and
// read-only evaluation helpers, so higher layers (model, tool, plan, agent)
// can depend on core without cyclic imports. ToolCall and ToolResult live
// here rather than in the tool package for exactly that reason: both the
// parser and the registry speak in these shapes.
package core
