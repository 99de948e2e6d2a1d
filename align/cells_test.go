package align

import (
	"testing"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/token"
	"github.com/stretchr/testify/assert"
)

func tok(kind token.Kind, text string) partition.FormattedToken {
	return partition.FormattedToken{Token: token.Token{Kind: kind, Text: text}}
}

func row(origin cst.Kind, toks ...partition.FormattedToken) *partition.Partition {
	return partition.NewLeaf(0, partition.Origin{NodeKind: origin}, toks)
}

func TestSplitVariableLikePortDeclaration(t *testing.T) {
	r := row(cst.PortDeclaration,
		tok(token.Keyword, "input"),
		tok(token.LeftBracket, "["),
		tok(token.Number, "7"),
		tok(token.Colon, ":"),
		tok(token.Number, "0"),
		tok(token.RightBracket, "]"),
		tok(token.Identifier, "addr"),
		tok(token.Comma, ","),
	)
	cells := splitVariableLike(r, false, false)
	byName := map[string]Cell{}
	for _, c := range cells {
		byName[c.Name] = c
	}
	assert.Equal(t, "input", byName["prefix"].Text)
	assert.Equal(t, "[7:0]", byName["packed"].Text)
	assert.Equal(t, "addr", byName["name"].Text)
	assert.Equal(t, ",", byName["trail"].Text)
}

func TestSplitVariableLikeWithInit(t *testing.T) {
	r := row(cst.DataDeclaration,
		tok(token.Keyword, "logic"),
		tok(token.Identifier, "count"),
		tok(token.Operator, "="),
		tok(token.Number, "0"),
		tok(token.Semicolon, ";"),
	)
	cells := splitVariableLike(r, false, false)
	byName := map[string]Cell{}
	for _, c := range cells {
		byName[c.Name] = c
	}
	assert.Equal(t, "count", byName["name"].Text)
	assert.Equal(t, "= 0", byName["init"].Text)
	assert.Equal(t, ";", byName["trail"].Text)
}

func TestSplitNamedConnection(t *testing.T) {
	r := row(cst.NamedPortConnection,
		tok(token.Dot, "."),
		tok(token.Identifier, "clk"),
		tok(token.LeftParen, "("),
		tok(token.Identifier, "sys_clk"),
		tok(token.RightParen, ")"),
		tok(token.Comma, ","),
	)
	cells := splitNamedConnection(r, false, false)
	assert.Len(t, cells, 3)
	assert.Equal(t, ".clk(", cells[0].Text)
	assert.Equal(t, "sys_clk", cells[1].Text)
	assert.Equal(t, ") ,", cells[2].Text)
}

func TestSplitAssignment(t *testing.T) {
	r := row(cst.ContinuousAssign,
		tok(token.Identifier, "y"),
		tok(token.Operator, "="),
		tok(token.Identifier, "a"),
		tok(token.Semicolon, ";"),
	)
	cells := splitAssignment(r, false, false)
	assert.Equal(t, []Cell{
		{Name: "lhs", Text: "y"},
		{Name: "op", Text: "="},
		{Name: "rhs", Text: "a ;"},
	}, cells)
}

func TestSplitCaseItem(t *testing.T) {
	r := row(cst.CaseItem,
		tok(token.Number, "2"),
		tok(token.ColonColon, "::"), // ensure depth tracking ignores unrelated punctuation
		tok(token.Colon, ":"),
		tok(token.Identifier, "foo"),
		tok(token.Semicolon, ";"),
	)
	cells := splitCaseItem(r, false, false)
	assert.Equal(t, "2 ::", cells[0].Text)
	assert.Equal(t, ":", cells[1].Text)
	assert.Equal(t, "foo ;", cells[2].Text)
}

func TestSplitEnumMemberNoInit(t *testing.T) {
	r := row(cst.EnumMember, tok(token.Identifier, "IDLE"))
	cells := splitEnumMember(r, false, false)
	assert.Equal(t, "IDLE", cells[0].Text)
	assert.Equal(t, "", cells[1].Text)
}

func TestSplitDistItem(t *testing.T) {
	r := row(cst.DistItem,
		tok(token.Number, "0"),
		tok(token.DistWeightColonSlash, ":/"),
		tok(token.Number, "50"),
	)
	cells := splitDistItem(r, false, false)
	assert.Equal(t, "0", cells[0].Text)
	assert.Equal(t, ":/", cells[1].Text)
	assert.Equal(t, "50", cells[2].Text)
}

func TestSplitterForUnregisteredKind(t *testing.T) {
	_, ok := SplitterFor(cst.IfStatement)
	assert.False(t, ok)
}

func TestSplitterForRegisteredKind(t *testing.T) {
	s, ok := SplitterFor(cst.PortDeclaration)
	assert.True(t, ok)
	assert.NotNil(t, s)
}
