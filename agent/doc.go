// Package agent contains the bounded execution loop controller.
//
// An Agent repeatedly invokes a model provider, interprets each reply as
// either a set of tool calls or a final answer, dispatches tool calls
// through a registry, folds results back into the conversation and enforces
// hard resource limits (step count, tool-call count, wall-clock time).
//
// Execution model:
//   - One run is single-threaded and synchronous: each step completes fully,
//     including all tool calls it triggered, before the next step starts.
//   - Each run owns its own message sequence, State and core.Trace; only the
//     tool registry is shared across runs (read-only dispatch).
//   - No failure of a single tool or a single malformed model reply ever
//     aborts a run; only budget exhaustion or finalization end it early.
//     Tool failures surface as trace events and conversation content; the
//     model decides on the next step whether to retry.
//
// The package intentionally keeps model specifics, tool dispatch and reply
// parsing in the model, tool and plan packages.
package agent
