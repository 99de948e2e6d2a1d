package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeTokensSkipsWhitespaceAndComments(t *testing.T) {
	s := &Stream{
		File: "x.sv",
		Tokens: []Token{
			{Kind: Keyword, Text: "module"},
			{Kind: Space, Text: " "},
			{Kind: Identifier, Text: "foo"},
			{Kind: LineComment, Text: "// hi"},
			{Kind: Semicolon, Text: ";"},
		},
	}
	got := s.CodeTokens()
	assert.Len(t, got, 3)
	assert.Equal(t, "module", got[0].Text)
	assert.Equal(t, "foo", got[1].Text)
	assert.Equal(t, ";", got[2].Text)
}

func TestPosAtFindsEnclosingToken(t *testing.T) {
	s := &Stream{
		File: "x.sv",
		Tokens: []Token{
			{Kind: Keyword, Text: "module", Offset: ByteRange{0, 6}, Line: 1, Col: 1},
			{Kind: Space, Text: " ", Offset: ByteRange{6, 7}, Line: 1, Col: 7},
			{Kind: Identifier, Text: "foo", Offset: ByteRange{7, 10}, Line: 1, Col: 8},
		},
	}
	pos := s.PosAt(8)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 8, pos.Col)
}

func TestKindStringUnknownFallsBack(t *testing.T) {
	assert.Equal(t, "Identifier", Identifier.String())
	assert.Contains(t, Kind(9999).String(), "Kind(")
}

func TestIsWhitespaceOrComment(t *testing.T) {
	assert.True(t, Space.IsWhitespaceOrComment())
	assert.True(t, BlockComment.IsWhitespaceOrComment())
	assert.False(t, Identifier.IsWhitespaceOrComment())
}
