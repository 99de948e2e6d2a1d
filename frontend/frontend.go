package frontend

import (
	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/token"
	"github.com/hdlfmt/svfmt/verify"
)

// Frontend bundles a Lexer and Parser behind the single collaborator type
// engine.Engine expects: something that satisfies both verify.Lexer and
// verify.Parser.
type Frontend struct {
	lexer  *Lexer
	parser *Parser
}

// New returns the reference Frontend.
func New() *Frontend {
	return &Frontend{lexer: &Lexer{}, parser: &Parser{}}
}

func (f *Frontend) Lex(source, filename string) (*token.Stream, error) {
	return f.lexer.Lex(source, filename)
}

func (f *Frontend) Parse(stream *token.Stream, mode verify.ParseMode) (*cst.Node, error) {
	return f.parser.Parse(stream, mode)
}
