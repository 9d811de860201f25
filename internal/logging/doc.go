// Package logging assembles structured slog loggers and formatting helpers used
// across steameagle.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so sync code tags log lines with
// the run ID, stage and Steam app ID automatically. A no-op logger is provided
// for tests and wiring code that cannot fail.
package logging
