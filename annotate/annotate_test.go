package annotate

import (
	"testing"

	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/token"
	"github.com/stretchr/testify/assert"
)

func tok(kind token.Kind, text string) partition.FormattedToken {
	return partition.FormattedToken{Token: token.Token{Kind: kind, Text: text}}
}

func TestAnnotateLeafFirstTokenHasZeroLeading(t *testing.T) {
	p := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		tok(token.Keyword, "input"),
		tok(token.Identifier, "a"),
	})
	New(nil).AnnotateLeaf(p)
	assert.Equal(t, partition.Space(0), p.Tokens[0].Leading)
}

func TestAnnotateLeafSemicolonEndsLine(t *testing.T) {
	p := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		tok(token.Identifier, "a"),
		tok(token.Semicolon, ";"),
	})
	New(nil).AnnotateLeaf(p)
	assert.Equal(t, partition.BreakSpace, p.Tokens[1].Break)
}

func TestAnnotateLeafNoSpaceBeforeComma(t *testing.T) {
	p := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		tok(token.Identifier, "a"),
		tok(token.Comma, ","),
		tok(token.Identifier, "b"),
	})
	New(nil).AnnotateLeaf(p)
	assert.Equal(t, partition.NoSpace(), p.Tokens[1].Leading)
	assert.Equal(t, partition.Space(1), p.Tokens[2].Leading)
}

func TestAnnotateLeafDotHasNoSpaceAndMustAppend(t *testing.T) {
	p := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		tok(token.Identifier, "pkg"),
		tok(token.Dot, "."),
		tok(token.Identifier, "field"),
	})
	New(nil).AnnotateLeaf(p)
	assert.Equal(t, partition.NoSpace(), p.Tokens[1].Leading)
	assert.Equal(t, partition.BreakMustAppend, p.Tokens[0].Break)
	assert.False(t, p.Tokens[0].MayBreak)
}

func TestAnnotateLeafParenHeadKeywordGetsOneSpace(t *testing.T) {
	p := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		tok(token.Keyword, "if"),
		tok(token.LeftParen, "("),
	})
	New(nil).AnnotateLeaf(p)
	assert.Equal(t, partition.Space(1), p.Tokens[1].Leading)
}

func TestAnnotateLeafAtParenHasNoSpace(t *testing.T) {
	p := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		tok(token.At, "@"),
		tok(token.LeftParen, "("),
	})
	New(nil).AnnotateLeaf(p)
	assert.Equal(t, partition.NoSpace(), p.Tokens[1].Leading)
}

func TestAnnotateLeafTrailingCommentGetsTwoSpacesOnSameLine(t *testing.T) {
	a := tok(token.Identifier, "a")
	a.Token.Line = 1
	c := tok(token.LineComment, "// note")
	c.Token.Line = 1
	p := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{a, c})
	New(nil).AnnotateLeaf(p)
	assert.Equal(t, partition.Space(2), p.Tokens[1].Leading)
}

func TestWrapPenaltyAfterOpenParenIsHigher(t *testing.T) {
	p := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		tok(token.LeftParen, "("),
		tok(token.Identifier, "a"),
		tok(token.Identifier, "b"),
	})
	New(nil).AnnotateLeaf(p)
	assert.Equal(t, penaltyWrapAfterOpenParen, p.Tokens[0].WrapPenalty)
	assert.Equal(t, penaltyWrap, p.Tokens[1].WrapPenalty)
}
