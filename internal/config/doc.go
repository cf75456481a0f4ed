// Package config loads, normalizes, and validates substudio configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SUBSTUDIO_BASE_DIR. The Config type centralizes the studio directory layout,
// the ffmpeg/ffprobe binaries and encoder settings, and notification targets.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors.
package config
