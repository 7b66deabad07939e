package quartodown

// findEnd scans forward from the line after the span's opening line for
// the matching close fence. A line closes the block if, after trimming at
// most one trailing whitespace character, it equals the span's delimiter
// exactly: same character, same width. A 4-colon open is not closed by a
// 3- or 5-colon line. The first match wins; there is no limit on how far
// the close may be from the open.
func findEnd(table *LineTable, s *Span) (Cursor, error) {
	for c := s.Start.AdvanceLine(1); !table.PastEnd(c); c = c.AdvanceLine(1) {
		if isCloseFence(table.LineAt(c), s.Delimiter) {
			return c, nil
		}
	}
	return Cursor{}, &UnterminatedBlockError{
		Kind:      s.Kind,
		Delimiter: s.Delimiter,
		Line:      s.Start.Line,
	}
}

func isCloseFence(line, delim string) bool {
	if n := len(line); n > 0 {
		if c := line[n-1]; c == ' ' || c == '\t' {
			line = line[:n-1]
		}
	}
	return line == delim
}
