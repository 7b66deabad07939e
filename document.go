package quartodown

import "strings"

// TransformDocument rewrites a whole rendered document given as raw
// bytes. It validates the input, preserves a leading front matter block
// verbatim, transforms the body with Transform and rejoins the result.
// Line endings are normalized to bare newlines.
func TransformDocument(src []byte, opts ...Option) ([]byte, error) {
	if err := ValidateInput(src); err != nil {
		return nil, err
	}
	head, body := splitFrontMatter(src)
	out, err := Transform(splitLines(body), opts...)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.Grow(len(src))
	b.Write(head)
	b.WriteString(strings.Join(out, "\n"))
	return []byte(b.String()), nil
}

// splitLines splits src on newlines, stripping one trailing carriage
// return per line.
func splitLines(src []byte) []string {
	parts := strings.Split(string(src), "\n")
	for i, p := range parts {
		if n := len(p); n > 0 && p[n-1] == '\r' {
			parts[i] = p[:n-1]
		}
	}
	return parts
}
