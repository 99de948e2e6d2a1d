package transform

import (
	"testing"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/token"
	"github.com/stretchr/testify/assert"
)

func leafTok(kind token.Kind, text string, start, end int) partition.FormattedToken {
	return partition.FormattedToken{Token: token.Token{Kind: kind, Text: text, Offset: token.ByteRange{Start: start, End: end}}}
}

func TestMarkFormatOffOpaquesSpan(t *testing.T) {
	source := "// verilog_format: off\na b;\n// verilog_format: on\nc d;\n"
	stream := &token.Stream{Source: source}

	offComment := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		leafTok(token.LineComment, "// verilog_format: off", 0, 22),
	})
	statement := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		leafTok(token.Identifier, "a", 23, 24),
		leafTok(token.Identifier, "b", 25, 26),
		leafTok(token.Semicolon, ";", 26, 27),
	})
	onComment := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		leafTok(token.LineComment, "// verilog_format: on", 28, 49),
	})
	untouched := partition.NewLeaf(0, partition.Origin{}, []partition.FormattedToken{
		leafTok(token.Identifier, "c", 50, 51),
	})
	root := partition.NewInterior(0, partition.Origin{}, partition.AlwaysExpand, offComment, statement, onComment, untouched)

	MarkFormatOff(root, stream)

	assert.True(t, offComment.Opaque)
	assert.True(t, statement.Opaque)
	assert.True(t, onComment.Opaque)
	assert.False(t, untouched.Opaque)
}

func TestStitchIfElseChainsIfAndElse(t *testing.T) {
	ifPart := partition.NewLeaf(0, partition.Origin{NodeKind: cst.IfStatement}, []partition.FormattedToken{
		leafTok(token.Keyword, "if", 0, 2),
	})
	elsePart := partition.NewLeaf(0, partition.Origin{NodeKind: cst.ElseClause}, []partition.FormattedToken{
		leafTok(token.Keyword, "else", 3, 7),
	})
	root := partition.NewInterior(0, partition.Origin{}, partition.AlwaysExpand, ifPart, elsePart)

	StitchIfElse(root)

	assert.Len(t, root.Children, 1)
	assert.False(t, root.Children[0].Leaf)
	assert.Equal(t, partition.FitElseExpand, root.Children[0].Policy)
	assert.Len(t, root.Children[0].Children, 2)
}

func TestStitchIfElseLeavesLoneIfAlone(t *testing.T) {
	ifPart := partition.NewLeaf(0, partition.Origin{NodeKind: cst.IfStatement}, []partition.FormattedToken{
		leafTok(token.Keyword, "if", 0, 2),
	})
	root := partition.NewInterior(0, partition.Origin{}, partition.AlwaysExpand, ifPart)
	StitchIfElse(root)
	assert.Len(t, root.Children, 1)
	assert.True(t, root.Children[0].Leaf)
}

func TestCompactEmptyBlocksCollapsesToLeaf(t *testing.T) {
	begin := partition.NewInterior(0, partition.Origin{NodeKind: cst.BeginEndBlock}, partition.AlwaysExpand)
	begin.Children = nil
	root := partition.NewInterior(0, partition.Origin{}, partition.AlwaysExpand, begin)
	CompactEmptyBlocks(root)
	assert.True(t, begin.Leaf)
}

func TestCompactHeadersWithNoPortsUsesFitElseExpand(t *testing.T) {
	header := partition.NewInterior(0, partition.Origin{NodeKind: cst.ModuleHeader}, partition.AlwaysExpand)
	CompactHeaders(header)
	assert.Equal(t, partition.FitElseExpand, header.Policy)
}

func TestCompactHeadersWithPortsLeavesPolicyAlone(t *testing.T) {
	portList := partition.NewInterior(0, partition.Origin{NodeKind: cst.PortDeclarationList}, partition.AlwaysExpand,
		partition.NewLeaf(0, partition.Origin{NodeKind: cst.PortDeclaration}, []partition.FormattedToken{
			leafTok(token.Identifier, "a", 0, 1),
		}))
	header := partition.NewInterior(0, partition.Origin{NodeKind: cst.ModuleHeader}, partition.AlwaysExpand, portList)
	CompactHeaders(header)
	assert.Equal(t, partition.AlwaysExpand, header.Policy)
}
