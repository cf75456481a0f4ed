// Package encoding turns a subtitle job into an ffmpeg invocation and runs it.
//
// BuildCommand assembles the argument list (filter chain, stream maps, codec
// and subtitle-track options) and fails before anything is executed when the
// request is incomplete. Runner prepares subtitle files, extracts internal
// streams, streams ffmpeg's -progress output as percentages, keeps the last
// output lines for diagnostics, and moves the finished file from its hidden
// partial name to the final one. A lock file in the output directory keeps two
// renders from writing there at the same time.
package encoding
