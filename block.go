package quartodown

import (
	"regexp"
	"strings"
)

// BlockKind identifies one of the fence syntaxes quarto emits in rendered
// markdown.
type BlockKind int

const (
	// Cell is the outer wrapper quarto emits around one executed code
	// unit, e.g. `:::: {.cell execution_count="1"}`.
	Cell BlockKind = iota
	// CellElement is a cell's named output sub-block, e.g.
	// `::: {.cell-output .cell-output-stdout}`.
	CellElement
	// CellElementAlternate is the bare-word spelling quarto sometimes
	// uses for display output: `::::: cell-output-display`.
	CellElementAlternate
	// CodeBlock is a backtick fence with a brace attribute group, e.g.
	// ``` {.python .cell-code}.
	CodeBlock
	// Html is reserved for raw HTML spans. Quarto wraps some display
	// output in HTML, but detecting those spans is not implemented and
	// the transformer never requires it.
	Html
)

func (k BlockKind) String() string {
	switch k {
	case Cell:
		return "cell"
	case CellElement:
		return "cell-element"
	case CellElementAlternate:
		return "cell-element-alternate"
	case CodeBlock:
		return "code-block"
	case Html:
		return "html"
	}
	return "unknown"
}

// Opening-line patterns, tried in this order; first match wins. Delimiter
// runs are captured verbatim: a 5-colon open is remembered as 5 colons,
// never normalized to 3.
var (
	// `:::: {.cell execution_count="1"}`
	// `:::::: {.cell layout-align="default"}` happens in mermaid diagrams
	cellOpenRE = regexp.MustCompile(`^(:{3,}) \{\.cell .*\}\s*$`)

	// `::: {.cell-output .cell-output-stdout}`
	cellElementRE = regexp.MustCompile(`^(:{3,}) \{(\.cell-\w+)\s?(\.cell-[\w-]+)?( execution_count="\d+")?\}$`)

	// `::::: cell-output-display`
	cellElementAltRE = regexp.MustCompile(`^(:{3,})\s*(cell-output-display)\s*$`)

	// ``` {.python .cell-code}
	codeBlockRE = regexp.MustCompile("^(`{3,})\\s?\\{\\.(\\w+) .*\\}")
)

// End is the resolved-or-not terminus of a Span. The zero value is
// unresolved; keeping the flag explicit instead of overloading a cursor
// value makes rendering-before-resolution a checkable bug rather than a
// silent off-by-one.
type End struct {
	At       Cursor
	Resolved bool
}

// A Span is one recognized block: its kind, the exact delimiter run that
// opened it, its attribute strings, and its bounds. A resolved end points
// at the close-fence line, column 0; the interior is the half-open line
// range between the line after Start and End.At.
type Span struct {
	Kind       BlockKind
	Delimiter  string
	Attributes []string
	Start      Cursor
	End        End
}

// classifyLine inspects the text at c and returns the Span opened there,
// or nil when the line opens nothing. Only line-initial fence syntax is
// recognized; patterns are anchored at c's column.
func classifyLine(table *LineTable, c Cursor) *Span {
	line := table.LineAt(c)
	if m := cellOpenRE.FindStringSubmatch(line); m != nil {
		return &Span{Kind: Cell, Delimiter: m[1], Start: Cursor{Line: c.Line}}
	}
	if m := cellElementRE.FindStringSubmatch(line); m != nil {
		return &Span{Kind: CellElement, Delimiter: m[1], Attributes: attrGroups(m[2:]), Start: Cursor{Line: c.Line}}
	}
	if m := cellElementAltRE.FindStringSubmatch(line); m != nil {
		return &Span{Kind: CellElementAlternate, Delimiter: m[1], Attributes: attrGroups(m[2:]), Start: Cursor{Line: c.Line}}
	}
	if m := codeBlockRE.FindStringSubmatch(line); m != nil {
		return &Span{Kind: CodeBlock, Delimiter: m[1], Attributes: []string{m[2]}, Start: c}
	}
	return nil
}

func attrGroups(groups []string) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
