// Package ferrors defines the error taxonomy shared by every stage of the
// format engine. It is a separate, dependency-free package so that stages
// below the root package — the partition builder, the wrap search, the
// verifier — can raise these errors themselves without importing the root
// package.
package ferrors

import (
	"fmt"

	"github.com/hdlfmt/svfmt/token"
)

// LexError is raised when the (out-of-scope) lexer rejects the input.
type LexError struct {
	Pos     token.Pos
	Message string
}

func (e LexError) Error() string { return fmt.Sprintf("%s: lex error: %s", e.Pos, e.Message) }

// ParseError is raised when the (out-of-scope) parser rejects the input.
type ParseError struct {
	Pos     token.Pos
	Message string
}

func (e ParseError) Error() string { return fmt.Sprintf("%s: parse error: %s", e.Pos, e.Message) }

// InternalInvariantViolated means a core invariant was broken: a bug in the
// engine itself, not a malformed input. TreeDump is populated in debug mode
// with a partition-tree dump at the point of failure.
type InternalInvariantViolated struct {
	Pos      token.Pos
	Message  string
	TreeDump string
}

func (e InternalInvariantViolated) Error() string {
	if e.TreeDump == "" {
		return fmt.Sprintf("%s: internal invariant violated: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: internal invariant violated: %s\n%s", e.Pos, e.Message, e.TreeDump)
}

// UnsupportedToken is raised for a token kind with no formatting rule. It is
// always recovered internally (the gap defaults to one space) and logged,
// never returned from Format; it is exported as an error type so the
// recovery path can still format and record it for diagnostics.
type UnsupportedToken struct {
	Pos  token.Pos
	Kind token.Kind
}

func (e UnsupportedToken) Error() string {
	return fmt.Sprintf("%s: unsupported token kind %s; defaulting to one space", e.Pos, e.Kind)
}

// ResourceExhausted is raised when the wrap search exceeds
// FormatStyle.MaxSearchStates without reaching a solution.
type ResourceExhausted struct {
	PartitionOrigin string
	StatesExplored  int
	Limit           int
}

func (e ResourceExhausted) Error() string {
	return fmt.Sprintf("wrap search exhausted resources in %s: explored %d states (limit %d)",
		e.PartitionOrigin, e.StatesExplored, e.Limit)
}

// DataLoss is raised by the verifier when the emitted text fails to re-lex,
// fails to re-parse, or its code tokens don't match the input's as a
// multiset. MissingFromOutput and ExtraInOutput are the unmatched tokens on
// each side: MissingFromOutput was consumed from the input and never found
// a counterpart in the output, ExtraInOutput is the reverse.
type DataLoss struct {
	Reason            string
	Pos               token.Pos
	Diff              string // unified diff rendered by package verify, if available
	MissingFromOutput []token.Token
	ExtraInOutput     []token.Token
}

func (e DataLoss) Error() string {
	msg := fmt.Sprintf("%s: data loss: %s", e.Pos, e.Reason)
	if n := len(e.MissingFromOutput) + len(e.ExtraInOutput); n > 0 {
		msg += fmt.Sprintf(" (%d token(s) missing from output, %d extra)", len(e.MissingFromOutput), len(e.ExtraInOutput))
	}
	if e.Diff != "" {
		msg += "\n" + e.Diff
	}
	return msg
}
