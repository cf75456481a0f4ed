// Package logging assembles the slog loggers used by substudio.
//
// Console output is tinted when attached to a terminal and plain otherwise;
// a persistent session log is appended beneath the configured log directory.
// Context helpers tag lines with the render run ID, stage, and job mode.
package logging
