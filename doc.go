// Package quartodown converts quarto-rendered markdown into the dialect
// mkdocs expects.
//
// Quarto executes notebook-style documents and emits each executed cell
// wrapped in colon-fenced div blocks: an outer cell wrapper, attributed
// code fences, and per-output sub-blocks for stdout, stderr, errors and
// display data. mkdocs-material understands none of that; it wants plain
// fenced code blocks and admonitions. The transformer in this package
// unwraps the cell fences, re-emits code fences with a bare language tag,
// and turns each output sub-block into a collapsed admonition.
//
// A second, unrelated colon-fence convention complicates this:
// mkdocstrings directives such as `::: module.path` also open with a run
// of colons. Quarto widens those runs when it renders nested structures,
// so any colon fence that is not quarto cell syntax is normalized back to
// exactly three colons and passed through untouched.
//
// Example:
//
//	out, err := quartodown.Transform(lines)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// The transformer is synchronous and keeps no state across documents;
// separate documents may be processed concurrently by separate calls.
// Malformed structural input (an opened fence with no matching close, an
// output block with unknown attributes) fails the whole document rather
// than producing truncated output.
package quartodown
