package encoding

import "strings"

// TailLines is the number of output lines kept for error reports.
const TailLines = 20

// tailBuffer keeps the most recent non-empty lines of tool output.
type tailBuffer struct {
	limit int
	lines []string
}

func newTailBuffer(limit int) *tailBuffer {
	if limit <= 0 {
		limit = TailLines
	}
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if len(t.lines) == t.limit {
		copy(t.lines, t.lines[1:])
		t.lines = t.lines[:t.limit-1]
	}
	t.lines = append(t.lines, line)
}

func (t *tailBuffer) Lines() []string {
	return append([]string(nil), t.lines...)
}
