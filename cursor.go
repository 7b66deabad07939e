package quartodown

// A Cursor addresses a position in a LineTable as a line index and a
// column offset, both zero-based. Ordering is lexicographic: line first,
// then column.
type Cursor struct {
	Line int
	Col  int
}

// Before reports whether c orders strictly before other.
func (c Cursor) Before(other Cursor) bool {
	if c.Line != other.Line {
		return c.Line < other.Line
	}
	return c.Col < other.Col
}

// AdvanceLine returns a cursor n lines down, at column 0. Block boundaries
// are always whole lines, so the column reset is intentional.
func (c Cursor) AdvanceLine(n int) Cursor {
	return Cursor{Line: c.Line + n}
}

// AdvanceCol returns a cursor n columns right on the same line.
func (c Cursor) AdvanceCol(n int) Cursor {
	return Cursor{Line: c.Line, Col: c.Col + n}
}

// A LineTable holds one document as an ordered sequence of lines without
// trailing newlines. It is read-only for the duration of one transform;
// every invocation owns its own table.
type LineTable struct {
	lines []string
}

// NewLineTable wraps lines in a table. The slice is not copied; callers
// must not mutate it while the table is in use.
func NewLineTable(lines []string) *LineTable {
	return &LineTable{lines: lines}
}

// Len returns the number of lines in the table.
func (t *LineTable) Len() int {
	return len(t.lines)
}

// PastEnd reports whether c addresses a line beyond the last line of the
// table.
func (t *LineTable) PastEnd(c Cursor) bool {
	return c.Line >= len(t.lines)
}

// LineAt returns the text of c's line from c's column to the end of the
// line.
func (t *LineTable) LineAt(c Cursor) string {
	return t.lines[c.Line][c.Col:]
}

// Extract returns the text between two positions as lines. The range is
// half-open: end is the first position not included. A multi-line range
// yields the tail of the start line, every complete line strictly between
// the two line indices, and the head of the end line only when end.Col is
// nonzero. Extract never reads past end.Line.
func (t *LineTable) Extract(start, end Cursor) []string {
	if !start.Before(end) {
		return nil
	}
	if start.Line == end.Line {
		return []string{t.lines[start.Line][start.Col:end.Col]}
	}
	out := make([]string, 0, end.Line-start.Line+1)
	out = append(out, t.lines[start.Line][start.Col:])
	out = append(out, t.lines[start.Line+1:end.Line]...)
	if end.Col > 0 {
		out = append(out, t.lines[end.Line][:end.Col])
	}
	return out
}
