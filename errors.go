package quartodown

import (
	"fmt"
	"strings"
)

// UnterminatedBlockError reports an opening fence whose close line was
// never found before the end of the document.
type UnterminatedBlockError struct {
	Kind      BlockKind
	Delimiter string
	Line      int
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("unterminated %s block opened with %q at line %d", e.Kind, e.Delimiter, e.Line)
}

// UnmappableOutputError reports a cell output block whose class
// attributes match no known output type.
type UnmappableOutputError struct {
	Attributes []string
	Line       int
}

func (e *UnmappableOutputError) Error() string {
	return fmt.Sprintf("no admonition mapping for output attributes %v at line %d", e.Attributes, e.Line)
}

// EscapedSyntaxError reports quarto fence syntax that survived into
// rendered output. This is a consumption bug in the transformer, not a
// problem with the input document.
type EscapedSyntaxError struct {
	Context []string
}

func (e *EscapedSyntaxError) Error() string {
	return "unprocessed quarto syntax in output:\n" + strings.Join(e.Context, "\n")
}

// NestingDepthError reports input nested deeper than the configured cap.
type NestingDepthError struct {
	Limit int
	Line  int
}

func (e *NestingDepthError) Error() string {
	return fmt.Sprintf("block nesting exceeds depth %d at line %d", e.Limit, e.Line)
}
