// Package progress displays render progress: a live bar when the console is a
// terminal, sampled plain lines otherwise.
package progress
