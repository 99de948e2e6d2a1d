// Package svfmt formats SystemVerilog source text. It is the public entry
// point over the core pipeline (packages token, cst, partition, annotate,
// transform, align, wrap, emit, verify, rangesel): Format and FormatRange
// are the programmatic entry points, and the error types and style types
// re-exported here let callers depend on a single root package instead of
// reaching into the pipeline's internal packages directly.
package svfmt

import (
	"io"

	"github.com/hdlfmt/svfmt/engine"
	"github.com/hdlfmt/svfmt/ferrors"
	"github.com/hdlfmt/svfmt/frontend"
	"github.com/hdlfmt/svfmt/rangesel"
	"github.com/hdlfmt/svfmt/style"
)

// Re-exported so callers outside this module don't need to import package
// ferrors directly.
type (
	LexError                  = ferrors.LexError
	ParseError                = ferrors.ParseError
	InternalInvariantViolated = ferrors.InternalInvariantViolated
	UnsupportedToken          = ferrors.UnsupportedToken
	ResourceExhausted         = ferrors.ResourceExhausted
	DataLoss                  = ferrors.DataLoss
)

// FormatStyle and ExecutionControl are re-exported the same way.
type (
	FormatStyle      = style.FormatStyle
	ExecutionControl = style.ExecutionControl
)

// LineNumberSet and LineInterval are re-exported from package rangesel.
type (
	LineNumberSet = rangesel.LineNumberSet
	LineInterval  = rangesel.Interval
)

// DefaultStyle returns svfmt's default FormatStyle.
func DefaultStyle() FormatStyle { return style.Default() }

// AllLines returns a LineNumberSet that selects every line of the file.
func AllLines() LineNumberSet { return rangesel.All() }

// Lines builds a LineNumberSet from explicit half-open [first, last)
// intervals of 1-based input line numbers.
func Lines(intervals ...LineInterval) LineNumberSet {
	return rangesel.NewLineNumberSet(intervals...)
}

// newEngine constructs an engine.Engine over the reference frontend.
func newEngine(s FormatStyle, c ExecutionControl) *engine.Engine {
	return engine.New(frontend.New(), s, c)
}

// Format runs the full pipeline over source and writes the result to out.
func Format(source, filename string, style FormatStyle, out io.Writer, selected LineNumberSet, control ExecutionControl) error {
	return newEngine(style, control).Format(source, filename, selected, out)
}

// FormatRange is a range-scoped convenience entry point: it formats only
// [first, last) and returns the whole file.
func FormatRange(source, filename string, style FormatStyle, first, last int) (string, error) {
	return newEngine(style, NewExecutionControl()).FormatRange(source, filename, first, last)
}

// NewExecutionControl returns a safe default ExecutionControl.
func NewExecutionControl() ExecutionControl { return style.NewExecutionControl() }

// DumpTree renders source's partition tree (post-build, post-annotate,
// post-transform, pre-alignment) for the `dump-tree` CLI subcommand and
// ExecutionControl.ShowTokenPartitionTree.
func DumpTree(source, filename string, style FormatStyle) (string, error) {
	return newEngine(style, NewExecutionControl()).DumpTree(source, filename)
}

// DumpTokens renders source's raw lexed token stream as JSON, one object per
// token with its byte offsets and kind (and, if withText is set, its text),
// for the `dump-tokens` CLI subcommand.
func DumpTokens(source, filename string, style FormatStyle, withText bool) (string, error) {
	return newEngine(style, NewExecutionControl()).DumpTokens(source, filename, withText)
}
