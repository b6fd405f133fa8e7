// Package logging builds the slog loggers used across vodarc.
//
// Two output formats are supported: a compact console format for interactive
// use and standard slog JSON for machine consumption. Helpers provide typed
// attribute constructors, component-scoped loggers, and a no-op logger for
// tests.
package logging
