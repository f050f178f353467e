// Package logging assembles structured slog loggers and formatting helpers used
// across srt-translate.
//
// It owns the console/JSON handlers, rotates the log file through lumberjack,
// and exposes context-aware helpers so pipeline code can tag log lines with
// the run identifier and phase. A no-op logger is provided for tests and for
// wiring code that cannot fail.
package logging
