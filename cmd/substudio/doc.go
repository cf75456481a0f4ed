// Command substudio is an interactive subtitle studio for ffmpeg.
//
// Run without arguments it walks through choosing a video, a subtitle source
// and styling, then renders the result into the Output directory. The
// config, doctor, probe and test-notify subcommands support setup and
// troubleshooting.
package main
