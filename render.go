package quartodown

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
)

// indentUnit is the admonition body indent in spaces.
const indentUnit = 4

// admonitionFor maps a cell-output class attribute to the admonition
// opening line the target renderer understands. ???+ is a collapsible
// block rendered open by default.
// https://squidfunk.github.io/mkdocs-material/reference/admonitions/#supported-types
var admonitionFor = map[string]string{
	".cell-output-stdout":  `???+ note "output"`,
	".cell-output-stderr":  `???+ warning "stderr"`,
	".cell-output-error":   `???+ danger "error"`,
	".cell-output-display": `???+ note "Display"`,
	"cell-output-display":  "???+ note",
}

// renderer re-emits bounded blocks in the target dialect. It holds no
// state beyond the table and the depth cap, so recursion over nested
// blocks needs no shared context stack: every nested search starts fresh
// from the enclosing span's bounds.
type renderer struct {
	table    *LineTable
	maxDepth int
}

// render produces the replacement lines for a resolved span. The output
// is checked before it is returned: a colon fence in rendered output
// means an inner structure escaped consumption, which is fatal.
func (r *renderer) render(s *Span, depth int) ([]string, error) {
	if !s.End.Resolved {
		return nil, fmt.Errorf("rendering %s block at line %d before its end was resolved", s.Kind, s.Start.Line)
	}
	if depth > r.maxDepth {
		return nil, &NestingDepthError{Limit: r.maxDepth, Line: s.Start.Line}
	}

	var out []string
	var err error
	switch s.Kind {
	case Cell:
		out, err = r.renderInterior(s, depth)
	case CodeBlock:
		out, err = r.renderCodeBlock(s, depth)
	case CellElement, CellElementAlternate:
		out, err = r.renderCellElement(s, depth)
	default:
		return nil, fmt.Errorf("rendering %s blocks is not supported", s.Kind)
	}
	if err != nil {
		return nil, err
	}
	if err := checkNoColonFences(out); err != nil {
		return nil, err
	}
	return out, nil
}

// renderInterior walks the span's interior left to right, copying plain
// text runs verbatim and substituting the rendered output of every nested
// block. A Cell emits nothing but this: its own fence lines are dropped.
func (r *renderer) renderInterior(s *Span, depth int) ([]string, error) {
	var out []string
	last := s.Start.AdvanceLine(1)
	for {
		inner, err := r.findInner(s, last)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			break
		}
		out = append(out, r.table.Extract(last, inner.Start)...)
		rendered, err := r.render(inner, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered...)
		last = inner.End.At.AdvanceLine(1)
	}
	out = append(out, r.table.Extract(last, s.End.At)...)
	return out, nil
}

// findInner locates the next nested block at or after from, strictly
// inside s. The returned span has its end resolved.
func (r *renderer) findInner(s *Span, from Cursor) (*Span, error) {
	for c := from; c.Before(s.End.At); c = c.AdvanceLine(1) {
		inner := classifyLine(r.table, c)
		if inner == nil {
			continue
		}
		at, err := findEnd(r.table, inner)
		if err != nil {
			return nil, err
		}
		inner.End = End{At: at, Resolved: true}
		return inner, nil
	}
	return nil, nil
}

func (r *renderer) renderCodeBlock(s *Span, depth int) ([]string, error) {
	lang := ""
	if len(s.Attributes) > 0 {
		lang = s.Attributes[0]
	}
	out := []string{s.Delimiter + lang}
	interior, err := r.renderInterior(s, depth)
	if err != nil {
		return nil, err
	}
	out = append(out, interior...)
	out = append(out, s.Delimiter)
	return out, nil
}

func (r *renderer) renderCellElement(s *Span, depth int) ([]string, error) {
	header := ""
	for _, attr := range s.Attributes {
		if h, ok := admonitionFor[attr]; ok {
			header = h
			break
		}
	}
	if header == "" {
		return nil, &UnmappableOutputError{Attributes: s.Attributes, Line: s.Start.Line}
	}

	body, literal := divWrappedHTML(r.table.Extract(s.Start.AdvanceLine(1), s.End.At))
	if !literal {
		var err error
		body, err = r.renderInterior(s, depth)
		if err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(body)+3)
	out = append(out, header, "")
	out = append(out, indentBody(body)...)
	out = append(out, "")
	return out, nil
}

// divWrappedHTML reports whether interior is a raw HTML fragment wrapped
// in a single top-level div. Such fragments are kept literal rather than
// re-scanned for fences; when the line after the open tag carries a style
// attribute the open tag is rewritten so the renderer treats the contents
// as markdown.
func divWrappedHTML(interior []string) ([]string, bool) {
	first, last := -1, -1
	for i, line := range interior {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return nil, false
	}
	if !strings.HasPrefix(interior[first], "<div>") || !strings.HasSuffix(interior[last], "</div>") {
		return nil, false
	}
	body := append([]string(nil), interior...)
	if first+1 < len(body) && strings.Contains(body[first+1], "style") {
		body[first] = `<div markdown="block">`
	}
	return body, true
}

func indentBody(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	indented := indent.String(strings.Join(lines, "\n"), indentUnit)
	return strings.Split(indented, "\n")
}

// checkNoColonFences rejects rendered output that still contains a colon
// fence marker, including a few lines of context around each offender.
func checkNoColonFences(lines []string) error {
	var bad []int
	for i, line := range lines {
		if strings.HasPrefix(line, colonFenceMarker) {
			bad = append(bad, i)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	var ctx []string
	for i, line := range lines {
		for _, b := range bad {
			if i-b < 3 && b-i < 3 {
				ctx = append(ctx, fmt.Sprintf("%d: %s", i, line))
				break
			}
		}
	}
	return &EscapedSyntaxError{Context: ctx}
}

const colonFenceMarker = ":::"
