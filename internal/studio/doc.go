// Package studio runs the interactive subtitle session: it walks the user
// through choosing a video, a subtitle source and styling, shows a job
// summary, and hands the finished job.Request to a Renderer.
//
// The session loops until the user declines another video or input ends.
// Rendering, progress display and notifications are injected so that the
// whole flow can be driven from a strings.Reader in tests.
package studio
