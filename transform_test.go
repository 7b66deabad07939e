package quartodown

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Fixture rendered by quarto 1.5.56 with --to=markdown.
var quartoCellInput = []string{
	`:::: {.cell execution_count="3"}`,
	"``` {.python .cell-code}",
	"import warnings",
	`warnings.warn("This is a warning")`,
	"```",
	"",
	"::: {.cell-output .cell-output-stderr}",
	"    ... UserWarning: This is a warning",
	`      warnings.warn("This is a warning")`,
	":::",
	"::::",
}

func TestTransformCanonicalCell(t *testing.T) {
	t.Parallel()
	out, err := Transform(quartoCellInput)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := []string{
		"```python",
		"import warnings",
		`warnings.warn("This is a warning")`,
		"```",
		"",
		`???+ warning "stderr"`,
		"",
		"        ... UserWarning: This is a warning",
		`          warnings.warn("This is a warning")`,
		"",
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformOrderingOfNestedBlocks(t *testing.T) {
	t.Parallel()
	out, err := Transform(quartoCellInput)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	joined := strings.Join(out, "\n")
	code := strings.Index(joined, "```python")
	admon := strings.Index(joined, `???+ warning "stderr"`)
	if code < 0 || admon < 0 || code > admon {
		t.Fatalf("code block must precede admonition, got:\n%s", joined)
	}
	if strings.Contains(joined, ":::") {
		t.Fatalf("cell wrapper fences survived:\n%s", joined)
	}
}

func TestTransformMkdocstringsPassThrough(t *testing.T) {
	t.Parallel()
	out, err := Transform([]string{"::: foo.main.hello"})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if diff := cmp.Diff([]string{"::: foo.main.hello"}, out); diff != "" {
		t.Fatalf("mkdocstrings directive altered (-want +got):\n%s", diff)
	}
}

func TestTransformNormalizesWidenedColonFences(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"widened directive", "::::: foo.main.hello", "::: foo.main.hello"},
		{"bare close fence", ":::::", ":::"},
		{"already three colons", "::: foo.main.hello", "::: foo.main.hello"},
		{"trailing whitespace only", "::::   ", ":::   "},
		{"brace group untouched", "::: {.callout-note}", "::: {.callout-note}"},
		{"not a fence", "no colons here", "no colons here"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out, err := Transform([]string{tc.in})
			if err != nil {
				t.Fatalf("Transform: %v", err)
			}
			if out[0] != tc.want {
				t.Fatalf("Transform(%q) = %q, want %q", tc.in, out[0], tc.want)
			}
		})
	}
}

func TestNormalizeColonFenceIdempotent(t *testing.T) {
	t.Parallel()
	for _, line := range []string{":::::: x.y.z", "::: x.y.z", ":::::", "::: {stay}"} {
		once := normalizeColonFence(line)
		if twice := normalizeColonFence(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", line, once, twice)
		}
	}
}

func TestTransformDelimiterWidthFidelity(t *testing.T) {
	t.Parallel()
	// The 5-colon element inside the 6-colon cell closes only on the
	// 5-colon line; neither close is taken early by a narrower fence.
	out, err := Transform([]string{
		`:::::: {.cell execution_count="1"}`,
		"::::: {.cell-output .cell-output-stdout}",
		"inner",
		":::::",
		"::::::",
	})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := []string{`???+ note "output"`, "", "    inner", ""}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformUnterminatedBlock(t *testing.T) {
	t.Parallel()
	_, err := Transform([]string{
		`:::: {.cell execution_count="1"}`,
		"body",
		":::",
	})
	var unterminated *UnterminatedBlockError
	if !errors.As(err, &unterminated) {
		t.Fatalf("expected UnterminatedBlockError, got %v", err)
	}
}

func TestTransformUnmappableAttributes(t *testing.T) {
	t.Parallel()
	_, err := Transform([]string{
		"::: {.cell-output .cell-output-telemetry}",
		"content",
		":::",
	})
	var unmappable *UnmappableOutputError
	if !errors.As(err, &unmappable) {
		t.Fatalf("expected UnmappableOutputError, got %v", err)
	}
}

func TestTransformDepthCap(t *testing.T) {
	t.Parallel()
	lines := []string{
		`:::: {.cell execution_count="1"}`,
		"::: {.cell-output .cell-output-stdout}",
		"``` {.python .cell-code}",
		"code",
		"```",
		":::",
		"::::",
	}
	if _, err := Transform(lines); err != nil {
		t.Fatalf("default depth rejected valid nesting: %v", err)
	}
	_, err := Transform(lines, WithMaxDepth(1))
	var depth *NestingDepthError
	if !errors.As(err, &depth) {
		t.Fatalf("expected NestingDepthError, got %v", err)
	}
}

func TestTransformNoEscapeInvariant(t *testing.T) {
	t.Parallel()
	input := append([]string{"# Title", "", "::::: pathlib.Path", ""}, quartoCellInput...)
	out, err := Transform(input)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	for i, line := range out {
		if cellOpenRE.MatchString(line) || cellElementRE.MatchString(line) || cellElementAltRE.MatchString(line) {
			t.Fatalf("line %d still matches a quarto opening pattern: %q", i, line)
		}
	}
}

func TestCheckNoEscapedBlocksAllowsForeignFences(t *testing.T) {
	t.Parallel()
	if err := checkNoEscapedBlocks([]string{"::: foo.main.hello", ":::"}); err != nil {
		t.Fatalf("foreign colon fences rejected: %v", err)
	}
	err := checkNoEscapedBlocks([]string{`:::: {.cell execution_count="1"}`})
	var escaped *EscapedSyntaxError
	if !errors.As(err, &escaped) {
		t.Fatalf("expected EscapedSyntaxError, got %v", err)
	}
}

func TestTransformColonFenceInsideCellIsFatal(t *testing.T) {
	t.Parallel()
	// Interior text is emitted verbatim, so a colon fence surviving
	// inside a rendered block trips the post-render self-check.
	_, err := Transform([]string{
		`:::: {.cell execution_count="1"}`,
		"::::: pathlib.Path",
		"::::",
	})
	var escaped *EscapedSyntaxError
	if !errors.As(err, &escaped) {
		t.Fatalf("expected EscapedSyntaxError, got %v", err)
	}
}

func TestTransformEmptyAndPlainDocuments(t *testing.T) {
	t.Parallel()
	out, err := Transform(nil)
	if err != nil {
		t.Fatalf("Transform(nil): %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("empty input produced %v", out)
	}
	plain := []string{"# Title", "", "just prose"}
	out, err = Transform(plain)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if diff := cmp.Diff(plain, out); diff != "" {
		t.Fatalf("plain document altered (-want +got):\n%s", diff)
	}
}
