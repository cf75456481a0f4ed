// Package subtitles prepares subtitle files for ffmpeg.
//
// It decodes legacy encodings to UTF-8, parses and re-renders SRT, drops
// advertisement cues and unsupported markup, reads font family names, and
// builds the force_style override used when burning subtitles. Archive
// helpers let the subtitle menu offer .srt entries from .zip/.rar/.7z files.
package subtitles
