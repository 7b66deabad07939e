package quartodown

import (
	"fmt"
	"strings"
)

const defaultMaxDepth = 64

type config struct {
	maxDepth int
}

// Option configures a transform.
type Option func(*config)

// WithMaxDepth caps block nesting depth. Exceeding the cap is reported as
// a structural error instead of exhausting the stack on untrusted input.
// Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDepth = n
		}
	}
}

// Transform rewrites one quarto-rendered markdown document, given as
// lines without trailing newlines, into the dialect the target renderer
// expects: cell wrappers are unwrapped, attributed code fences become
// plain language-tagged fences, and cell output sub-blocks become
// collapsed admonitions. Colon fences that are not quarto syntax (such as
// mkdocstrings `::: module.path` directives) are normalized to three
// colons and passed through.
//
// Transform fails on an unterminated block, on output attributes that map
// to no admonition, and on quarto syntax surviving into the output; every
// error carries the offending line numbers. A failed transform yields no
// partial output.
func Transform(lines []string, opts ...Option) ([]string, error) {
	cfg := config{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	table := NewLineTable(lines)
	r := &renderer{table: table, maxDepth: cfg.maxDepth}

	out := make([]string, 0, len(lines))
	for c := (Cursor{}); !table.PastEnd(c); {
		s := classifyLine(table, c)
		if s == nil {
			out = append(out, normalizeColonFence(table.LineAt(c)))
			c = c.AdvanceLine(1)
			continue
		}
		at, err := findEnd(table, s)
		if err != nil {
			return nil, err
		}
		s.End = End{At: at, Resolved: true}
		rendered, err := r.render(s, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered...)
		c = at.AdvanceLine(1)
	}

	if err := checkNoEscapedBlocks(out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeColonFence rewrites a colon-fence lookalike to exactly three
// colons, preserving everything after the colon run. Quarto adds extra
// colons around nested divs when rendering, which breaks mkdocstrings'
// `::: module.path` syntax downstream. Only lines that failed block
// classification reach this point; a line whose trailing text immediately
// opens a brace group is left untouched.
func normalizeColonFence(line string) string {
	n := 0
	for n < len(line) && line[n] == ':' {
		n++
	}
	if n < 3 {
		return line
	}
	rest := line[n:]
	if rest == "" {
		return colonFenceMarker
	}
	if rest[0] != ' ' && rest[0] != '\t' {
		return line
	}
	ws := 1
	for ws < len(rest) && (rest[ws] == ' ' || rest[ws] == '\t') {
		ws++
	}
	if ws == 1 && ws < len(rest) && rest[ws] == '{' {
		return line
	}
	return colonFenceMarker + rest
}

// checkNoEscapedBlocks verifies that no recognized quarto opening pattern
// survived to the final output. Colon fences that match none of the
// patterns are assumed to be unrelated syntax and allowed through.
func checkNoEscapedBlocks(lines []string) error {
	var bad []string
	for i, line := range lines {
		if !strings.HasPrefix(line, colonFenceMarker) {
			continue
		}
		if cellOpenRE.MatchString(line) || cellElementRE.MatchString(line) || cellElementAltRE.MatchString(line) {
			bad = append(bad, fmt.Sprintf("%d: %s", i, line))
		}
	}
	if len(bad) > 0 {
		return &EscapedSyntaxError{Context: bad}
	}
	return nil
}
