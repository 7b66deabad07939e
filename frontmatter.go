package quartodown

import "bytes"

// Quarto's rendered markdown usually opens with a front matter block. Its
// body is metadata, not markdown; colons inside it must not be mistaken
// for fences, so the block is split off before the transform and put back
// verbatim afterwards.

// splitFrontMatter splits src into a leading front matter block
// (delimiter lines included) and the remaining document body. When no
// front matter is present head is empty and body is all of src.
func splitFrontMatter(src []byte) (head, body []byte) {
	openLine, openNext, ok := nextLine(src, 0)
	if !ok {
		return nil, src
	}
	delim, isFrontMatter := parseOpeningFrontMatterDelimiter(openLine)
	if !isFrontMatter {
		return nil, src
	}
	secondLine, secondNext, ok := nextLine(src, openNext)
	if !ok || !frontMatterMetadataLikely(secondLine) {
		return nil, src
	}
	closeNext, found := findClosingFrontMatterDelimiter(src, secondNext, delim)
	if !found {
		return nil, src
	}
	return src[:closeNext], src[closeNext:]
}

func nextLine(src []byte, start int) ([]byte, int, bool) {
	if start >= len(src) {
		return nil, start, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func parseOpeningFrontMatterDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		return []byte("---"), true
	case bytes.Equal(trimmed, []byte("+++")):
		return []byte("+++"), true
	case bytes.Equal(trimmed, []byte(";;;")):
		return []byte(";;;"), true
	default:
		return nil, false
	}
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	if bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("=")) {
		return true
	}
	return false
}

func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte) (int, bool) {
	for idx := start; idx < len(src); {
		line, next, ok := nextLine(src, idx)
		if !ok {
			return 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return next, true
		}
		if next == idx {
			return 0, false
		}
		idx = next
	}
	return 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
