// Package job defines the subtitle job request collected by the interactive
// session: the input video, the subtitle source and mode, burn-in styling, and
// the optional scale and watermark settings. A Request is consumed once to
// build an ffmpeg command and then discarded.
package job
