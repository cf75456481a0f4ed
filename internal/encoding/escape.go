package encoding

import "strings"

// EscapeFilterPath prepares a path for use inside a single-quoted filter
// option: backslashes become forward slashes, colons are escaped, and single
// quotes close and reopen the quoted string.
func EscapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.ReplaceAll(path, ":", `\:`)
	return strings.ReplaceAll(path, "'", `'\''`)
}
