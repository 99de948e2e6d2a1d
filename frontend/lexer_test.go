package frontend

import (
	"testing"

	"github.com/hdlfmt/svfmt/token"
	"github.com/stretchr/testify/assert"
)

func codeKindsAndTexts(t *testing.T, source string) ([]token.Kind, []string) {
	t.Helper()
	stream, err := NewLexer("", "").Lex(source, "x.sv")
	assert.NoError(t, err)
	var kinds []token.Kind
	var texts []string
	for _, tok := range stream.CodeTokens() {
		if tok.Kind == token.EOF {
			continue
		}
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	return kinds, texts
}

func TestLexModuleHeader(t *testing.T) {
	kinds, texts := codeKindsAndTexts(t, "module m(input a, output b);\nendmodule\n")
	assert.Equal(t, []token.Kind{
		token.Keyword, token.Identifier, token.LeftParen,
		token.Keyword, token.Identifier, token.Comma,
		token.Keyword, token.Identifier, token.RightParen, token.Semicolon,
		token.Keyword,
	}, kinds)
	assert.Equal(t, "module", texts[0])
	assert.Equal(t, "endmodule", texts[len(texts)-1])
}

func TestLexRecognisesBitRange(t *testing.T) {
	kinds, _ := codeKindsAndTexts(t, "[7:0]")
	assert.Equal(t, []token.Kind{
		token.LeftBracket, token.Number, token.Colon, token.Number, token.RightBracket,
	}, kinds)
}

func TestLexRecognisesScopeResolutionAndDot(t *testing.T) {
	kinds, _ := codeKindsAndTexts(t, "pkg::T obj.field")
	assert.Equal(t, []token.Kind{
		token.Identifier, token.ColonColon, token.Identifier,
		token.Identifier, token.Dot, token.Identifier,
	}, kinds)
}

func TestLexRecognisesDistWeights(t *testing.T) {
	kinds, _ := codeKindsAndTexts(t, "0 :/ 1 2 := 3")
	assert.Equal(t, []token.Kind{
		token.Number, token.DistWeightColonSlash, token.Number,
		token.Number, token.DistWeightColonEq, token.Number,
	}, kinds)
}

func TestLexLineAndBlockComments(t *testing.T) {
	stream, err := NewLexer("", "").Lex("a // hi\nb /* block */ c\n", "x.sv")
	assert.NoError(t, err)
	var kinds []token.Kind
	for _, tok := range stream.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, token.LineComment)
	assert.Contains(t, kinds, token.BlockComment)
}

func TestLexUnterminatedBlockCommentErrors(t *testing.T) {
	_, err := NewLexer("", "").Lex("/* never closes", "x.sv")
	assert.Error(t, err)
}

func TestLexUnterminatedStringErrors(t *testing.T) {
	_, err := NewLexer("", "").Lex(`"unterminated`, "x.sv")
	assert.Error(t, err)
}

func TestLexDirectiveAndMacroCall(t *testing.T) {
	kinds, texts := codeKindsAndTexts(t, "`ifdef FOO\n`MY_MACRO(a, b)\n`endif\n")
	assert.Equal(t, token.Directive, kinds[0])
	assert.Equal(t, "`ifdef", texts[0])
}

func TestLexOperatorRunsGreedily(t *testing.T) {
	kinds, texts := codeKindsAndTexts(t, "a <= b")
	assert.Equal(t, []token.Kind{token.Identifier, token.Operator, token.Identifier}, kinds)
	assert.Equal(t, "<=", texts[1])
}

func TestLexPreservesLineNumbers(t *testing.T) {
	stream, err := NewLexer("", "").Lex("a\nb\n", "x.sv")
	assert.NoError(t, err)
	code := stream.CodeTokens()
	assert.Equal(t, 1, code[0].Line)
	assert.Equal(t, 2, code[1].Line)
}
