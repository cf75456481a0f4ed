// Package services defines shared error markers and context helpers.
//
// Errors are tagged with ErrValidation, ErrConfiguration, ErrNotFound, or
// ErrExternalTool so the CLI can map them to exit codes and so the interactive
// session can decide whether to re-prompt or abort. ToolError carries the exit
// status and output tail of a failed ffmpeg or ffprobe invocation.
package services
