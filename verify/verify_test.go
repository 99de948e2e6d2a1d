package verify

import (
	"errors"
	"testing"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/ferrors"
	"github.com/hdlfmt/svfmt/token"
	"github.com/stretchr/testify/assert"
)

type stubLexer struct {
	stream *token.Stream
	err    error
}

func (s stubLexer) Lex(source, filename string) (*token.Stream, error) { return s.stream, s.err }

type stubParser struct {
	node *cst.Node
	err  error
}

func (s stubParser) Parse(stream *token.Stream, mode ParseMode) (*cst.Node, error) {
	return s.node, s.err
}

func codeStream(texts ...string) *token.Stream {
	toks := make([]token.Token, len(texts))
	for i, s := range texts {
		toks[i] = token.Token{Kind: token.Identifier, Text: s, Line: i + 1, Col: 1}
	}
	return &token.Stream{Tokens: toks}
}

func TestCheckPassesOnIdenticalCodeTokens(t *testing.T) {
	in := codeStream("module", "m", ";")
	out := codeStream("module", "m", ";")
	v := New(stubLexer{stream: out}, stubParser{node: &cst.Node{}})
	err := v.Check(in, out, "x.sv", ParseAutomatic)
	assert.NoError(t, err)
}

func TestCheckFailsOnTokenLoss(t *testing.T) {
	in := codeStream("module", "m", ";")
	out := codeStream("module", ";")
	v := New(stubLexer{stream: out}, stubParser{node: &cst.Node{}})
	err := v.Check(in, out, "x.sv", ParseAutomatic)
	var dataLoss ferrors.DataLoss
	assert.ErrorAs(t, err, &dataLoss)
	assert.NotEmpty(t, dataLoss.Diff)
}

func TestCheckFailsOnRelexError(t *testing.T) {
	in := codeStream("a")
	out := codeStream("a")
	v := New(stubLexer{err: errors.New("boom")}, stubParser{node: &cst.Node{}})
	err := v.Check(in, out, "x.sv", ParseAutomatic)
	var dataLoss ferrors.DataLoss
	assert.ErrorAs(t, err, &dataLoss)
	assert.Contains(t, dataLoss.Reason, "lex error")
}

func TestCheckFailsOnReparseError(t *testing.T) {
	in := codeStream("a")
	out := codeStream("a")
	v := New(stubLexer{stream: out}, stubParser{err: errors.New("syntax error")})
	err := v.Check(in, out, "x.sv", ParseAutomatic)
	var dataLoss ferrors.DataLoss
	assert.ErrorAs(t, err, &dataLoss)
	assert.Contains(t, dataLoss.Reason, "parse error")
}
