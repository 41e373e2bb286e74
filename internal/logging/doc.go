// Package logging assembles the structured slog loggers used by grun.
//
// It owns the console and JSON handlers and the level/output plumbing. Logs
// go to stderr by default so the user-facing messages printed by the
// dispatcher stay readable; an optional file sink mirrors them. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
