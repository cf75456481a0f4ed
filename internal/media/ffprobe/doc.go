// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe and returns a Result. Helpers on Result list subtitle
// streams for internal hardsub selection and report the container duration
// used to turn ffmpeg progress into a percentage.
package ffprobe
