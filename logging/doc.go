// Package logging provides a minimal logging interface and adapters for the
// agent loop.
//
// The Logger interface defines the standard structured logging methods
// (Debug, Info, Warn, Error) used across the library. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's log/slog
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LevelDebug, "text")
//	a, _ := agent.New(provider, registry, agent.WithLogger(logger))
//
// The design intentionally keeps the interface minimal so callers can plug
// any structured logger without vendor lock-in.
package logging
