// Package verify implements the round-trip verifier: after emission, it
// re-lexes and re-parses the formatted output through the same out-of-scope
// frontend collaborator that produced the input tree, and checks that the
// code-token multiset is unchanged. Besides a pass/fail verdict, a failed
// check reports which specific tokens went missing or appeared from
// nowhere, the way a parser verifier reports its unmatched leaves rather
// than just a boolean.
package verify

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/ferrors"
	"github.com/hdlfmt/svfmt/token"
)

// Lexer is the collaborator interface a frontend must satisfy to be
// verified against; package frontend provides a reference implementation.
type Lexer interface {
	Lex(source, filename string) (*token.Stream, error)
}

// ParseMode steers which grammar rule the parser enters at, mirroring the
// `verilog_syntax: parse-as-*` steering comments a caller can leave in
// source to disambiguate a fragment that doesn't parse as a full file.
type ParseMode int

const (
	ParseAutomatic ParseMode = iota
	ParseAsModuleBody
	ParseAsStatements
)

// Parser is the collaborator interface for re-parsing verifier output.
type Parser interface {
	Parse(stream *token.Stream, mode ParseMode) (*cst.Node, error)
}

// Verifier runs the round-trip checks: re-lex, re-parse, compare tokens.
type Verifier struct {
	Lexer  Lexer
	Parser Parser
}

func New(lexer Lexer, parser Parser) *Verifier {
	return &Verifier{Lexer: lexer, Parser: parser}
}

// Check re-lexes and re-parses output and compares its code-token sequence
// against input's. filename is used only for diagnostics.
func (v *Verifier) Check(input, output *token.Stream, filename string, mode ParseMode) error {
	outStream, err := v.Lexer.Lex(output.Source, filename)
	if err != nil {
		return ferrors.DataLoss{Reason: "lex error in formatted output", Pos: token.Pos{File: filename}}
	}

	if _, err := v.Parser.Parse(outStream, mode); err != nil {
		return ferrors.DataLoss{Reason: fmt.Sprintf("parse error in formatted output: %v", err), Pos: token.Pos{File: filename}}
	}

	inCode := input.CodeTokens()
	outCode := outStream.CodeTokens()
	if diff, pos, ok := compareCodeTokens(inCode, outCode, input, outStream, filename); !ok {
		missing, extra := unmatchedTokens(inCode, outCode)
		return ferrors.DataLoss{
			Reason:            "lexical difference",
			Pos:               pos,
			Diff:              diff,
			MissingFromOutput: missing,
			ExtraInOutput:     extra,
		}
	}
	return nil
}

// unmatchedTokens compares a and b as multisets of (kind, text) pairs and
// returns the tokens each side has that the other doesn't: onlyInA is the
// input tokens consumed but never matched in the output (rewritten away or
// dropped), onlyInB is the output tokens that have no counterpart in the
// input (fabricated). A token present n times in a and m times in b
// contributes max(n-m, 0) copies to onlyInA and max(m-n, 0) to onlyInB, so a
// token that merely moved keeps zero net contribution on either side.
func unmatchedTokens(a, b []token.Token) (onlyInA, onlyInB []token.Token) {
	remaining := map[pairKey]int{}
	for _, t := range a {
		remaining[keyOf(t)]++
	}
	for _, t := range b {
		if remaining[keyOf(t)] > 0 {
			remaining[keyOf(t)]--
		} else {
			onlyInB = append(onlyInB, t)
		}
	}
	counted := map[pairKey]int{}
	for _, t := range a {
		k := keyOf(t)
		if counted[k] < remaining[k] {
			onlyInA = append(onlyInA, t)
			counted[k]++
		}
	}
	return onlyInA, onlyInB
}

// compareCodeTokens compares two code-token sequences as multisets of
// (kind, text) pairs, and additionally reports the earliest position at
// which the sequences diverge positionally, which is the most useful
// single-point diagnostic even though the check itself is multiset-based.
func compareCodeTokens(a, b []token.Token, inStream, outStream *token.Stream, filename string) (diffText string, pos token.Pos, ok bool) {
	countA := map[pairKey]int{}
	for _, t := range a {
		countA[keyOf(t)]++
	}
	countB := map[pairKey]int{}
	for _, t := range b {
		countB[keyOf(t)]++
	}

	equal := len(countA) == len(countB)
	if equal {
		for k, n := range countA {
			if countB[k] != n {
				equal = false
				break
			}
		}
	}
	if equal {
		return "", token.Pos{}, true
	}

	earliest := earliestDivergence(a, b)
	p := token.Pos{File: filename}
	if earliest < len(a) {
		p = token.Pos{File: filename, Line: a[earliest].Line, Col: a[earliest].Col}
	}

	aLines := linesOf(a)
	bLines := linesOf(b)
	udiff := difflib.UnifiedDiff{
		A:        aLines,
		B:        bLines,
		FromFile: "input code tokens",
		ToFile:   "output code tokens",
		Context:  3,
	}
	text, _ := difflib.GetUnifiedDiffString(udiff)
	return text, p, false
}

type pairKey struct {
	kind token.Kind
	text string
}

func keyOf(t token.Token) pairKey { return pairKey{t.Kind, t.Text} }

func earliestDivergence(a, b []token.Token) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if keyOf(a[i]) != keyOf(b[i]) {
			return i
		}
	}
	return n
}

func linesOf(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return out
}
