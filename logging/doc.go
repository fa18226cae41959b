// Package logging provides a minimal logging interface and adapters for autodev.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that agents, the task pipeline and the gateway use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - AgentLogger with run / component context
//   - AgentMessage for agent status lines (the console presenter's feed)
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	app := autodev.New(gateway, func(o *autodev.Options) { o.Logger = logger })
package logging
