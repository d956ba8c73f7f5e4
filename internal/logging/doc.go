// Package logging assembles structured slog loggers used across mvc.
//
// It owns the console and JSON handlers, routes output to the log file (and
// optionally stderr), and exposes small attribute helpers so packages emit
// consistently keyed fields. A no-op logger is provided for tests and wiring
// code that cannot fail.
package logging
