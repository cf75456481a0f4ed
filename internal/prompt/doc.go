// Package prompt implements numbered-menu, yes/no and free-text prompts over
// an io.Reader/io.Writer pair. Invalid answers re-prompt; end of input returns
// ErrAborted.
package prompt
