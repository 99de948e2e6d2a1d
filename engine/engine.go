// Package engine wires the core pipeline stages into the Format and
// FormatRange entry points.
package engine

import (
	"fmt"
	"io"

	"github.com/hdlfmt/svfmt/align"
	"github.com/hdlfmt/svfmt/annotate"
	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/diagnostics"
	"github.com/hdlfmt/svfmt/emit"
	"github.com/hdlfmt/svfmt/ferrors"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/rangesel"
	"github.com/hdlfmt/svfmt/style"
	"github.com/hdlfmt/svfmt/token"
	"github.com/hdlfmt/svfmt/transform"
	"github.com/hdlfmt/svfmt/verify"
	"github.com/hdlfmt/svfmt/wrap"
)

// Frontend is the out-of-scope lexer+parser collaborator the engine needs to
// turn source text into a (token.Stream, cst.Node) pair and to re-verify
// its own output; package frontend supplies the reference implementation.
type Frontend interface {
	verify.Lexer
	verify.Parser
}

// Engine bundles a Frontend with a FormatStyle/ExecutionControl pair so
// repeated Format calls (e.g. one per file in the CLI) don't re-thread them.
type Engine struct {
	Frontend Frontend
	Style    style.FormatStyle
	Control  style.ExecutionControl
}

func New(fe Frontend, s style.FormatStyle, c style.ExecutionControl) *Engine {
	return &Engine{Frontend: fe, Style: s, Control: c}
}

// Format runs the full pipeline over source and writes the formatted result
// to out. selected restricts rewriting to the given lines (pass
// rangesel.All() for a whole-file format).
func (e *Engine) Format(source, filename string, selected rangesel.LineNumberSet, out io.Writer) error {
	text, err := e.run(source, filename, selected)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}

// FormatRange formats only the half-open line interval [first, last) and
// returns the whole-file result (other lines pass through byte-for-byte).
func (e *Engine) FormatRange(source, filename string, first, last int) (string, error) {
	return e.run(source, filename, rangesel.NewLineNumberSet(rangesel.Interval{First: first, Last: last}))
}

// DumpTree runs the pipeline only as far as the partition transformer (no
// alignment, wrapping, emission, or verification) and renders the resulting
// tree with package diagnostics, for the CLI's `dump-tree` subcommand and
// ExecutionControl.ShowTokenPartitionTree.
func (e *Engine) DumpTree(source, filename string) (string, error) {
	inStream, tree, err := e.lexAndParse(source, filename)
	if err != nil {
		return "", err
	}

	builder := partition.NewBuilder(inStream, e.Style.IndentationSpaces, e.logUnsupported)
	root, err := builder.Build(tree)
	if err != nil {
		return "", e.annotateInternalError(err, root)
	}

	annotator := annotate.New(e.logUnsupported)
	annotator.AnnotateTree(root)

	transform.Apply(root, inStream)

	return diagnostics.ShowTokenPartitionTree(root), nil
}

// DumpTokens lexes source and renders its raw token stream as JSON, for the
// CLI's `dump-tokens` subcommand; unlike DumpTree it never parses, so it
// still produces output for a file the parser would reject.
func (e *Engine) DumpTokens(source, filename string, withText bool) (string, error) {
	inStream, err := e.Frontend.Lex(source, filename)
	if err != nil {
		return "", ferrors.LexError{Pos: token.Pos{File: filename}, Message: err.Error()}
	}
	return diagnostics.ShowTokenStreamJSON(inStream, withText), nil
}

func (e *Engine) lexAndParse(source, filename string) (*token.Stream, *cst.Node, error) {
	inStream, err := e.Frontend.Lex(source, filename)
	if err != nil {
		return nil, nil, ferrors.LexError{Pos: token.Pos{File: filename}, Message: err.Error()}
	}

	tree, err := e.Frontend.Parse(inStream, verify.ParseAutomatic)
	if err != nil {
		return nil, nil, ferrors.ParseError{Pos: token.Pos{File: filename}, Message: err.Error()}
	}
	return inStream, tree, nil
}

func (e *Engine) run(source, filename string, selected rangesel.LineNumberSet) (string, error) {
	inStream, tree, err := e.lexAndParse(source, filename)
	if err != nil {
		return "", err
	}

	builder := partition.NewBuilder(inStream, e.Style.IndentationSpaces, e.logUnsupported)
	root, err := builder.Build(tree)
	if err != nil {
		return "", e.annotateInternalError(err, root)
	}

	annotator := annotate.New(e.logUnsupported)
	annotator.AnnotateTree(root)

	transform.Apply(root, inStream)

	rangesel.New(selected, inStream).Apply(root)

	aligner := align.New(e.Style, e.logFallback)
	aligner.Run(root)

	wrapStyle := e.Style
	if e.Control.MaxSearchStates > 0 {
		wrapStyle.MaxSearchStates = e.Control.MaxSearchStates
	}
	if err := wrap.New(wrapStyle).Run(root); err != nil {
		e.logResourceExhausted(err)
		return "", err
	}

	output := emit.Tree(root)

	outStream := &token.Stream{Source: output, File: filename}
	verifier := verify.New(e.Frontend, e.Frontend)
	if err := verifier.Check(inStream, outStream, filename, verify.ParseAutomatic); err != nil {
		return "", err
	}

	return output, nil
}

func (e *Engine) logUnsupported(u ferrors.UnsupportedToken) {
	if e.Control.Logger != nil {
		e.Control.Logger.WithField("run_id", e.Control.RunID).Warn(u.Error())
	}
}

func (e *Engine) logFallback(groupOrigin string) {
	if e.Control.Logger != nil {
		e.Control.Logger.WithField("run_id", e.Control.RunID).
			Warnf("alignment group %s fell back to FlushLeft: would overflow column_limit", groupOrigin)
	}
}

func (e *Engine) logResourceExhausted(err error) {
	if e.Control.Logger != nil {
		e.Control.Logger.WithField("run_id", e.Control.RunID).Warn(err.Error())
	}
}

func (e *Engine) annotateInternalError(err error, root *partition.Partition) error {
	iv, ok := err.(ferrors.InternalInvariantViolated)
	if !ok {
		return err
	}
	if e.Control.Debug && root != nil {
		iv.TreeDump = fmt.Sprintf("%+v", root)
	}
	return iv
}
