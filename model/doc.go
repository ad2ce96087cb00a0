// Package model defines the provider-agnostic abstraction for the language
// model driving the agent loop.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Treat generation as one blocking call the loop cannot interrupt;
//     cancellation is the caller's concern via context
//   - Facilitate lightweight mocking for tests and examples (MockModel)
//
// Concrete providers implement the Model interface from this package so the
// loop controller stays decoupled from vendor SDKs; no provider adapter
// ships with this module.
package model
