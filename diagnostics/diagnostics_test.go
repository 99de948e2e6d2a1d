package diagnostics

import (
	"testing"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/token"
	"github.com/stretchr/testify/assert"
)

func leaf(indent int, kind cst.Kind, texts ...string) *partition.Partition {
	var toks []partition.FormattedToken
	for _, s := range texts {
		toks = append(toks, partition.FormattedToken{Token: token.Token{Kind: token.Identifier, Text: s}})
	}
	return partition.NewLeaf(indent, partition.Origin{NodeKind: kind}, toks)
}

func TestShowTokenPartitionTreeIncludesLeafText(t *testing.T) {
	root := partition.NewInterior(0, partition.Origin{}, partition.AlwaysExpand,
		leaf(2, cst.DataDeclaration, "wire", "a"))
	out := ShowTokenPartitionTree(root)
	assert.Contains(t, out, "wire")
}

func TestShowLargestTokenPartitionsOrdersByTokenCount(t *testing.T) {
	small := leaf(0, cst.DataDeclaration, "a")
	big := leaf(0, cst.ContinuousAssign, "a", "b", "c", "d")
	root := partition.NewInterior(0, partition.Origin{}, partition.AlwaysExpand, small, big)

	sizes := ShowLargestTokenPartitions(root, 0)
	assert.Len(t, sizes, 2)
	assert.Equal(t, 4, sizes[0].TokenCount)
	assert.Equal(t, 1, sizes[1].TokenCount)
}

func TestShowLargestTokenPartitionsRespectsLimit(t *testing.T) {
	root := partition.NewInterior(0, partition.Origin{}, partition.AlwaysExpand,
		leaf(0, cst.DataDeclaration, "a"),
		leaf(0, cst.DataDeclaration, "b", "c"),
		leaf(0, cst.DataDeclaration, "d", "e", "f"))

	sizes := ShowLargestTokenPartitions(root, 1)
	assert.Len(t, sizes, 1)
	assert.Equal(t, 3, sizes[0].TokenCount)
}

func TestShowLargestTokenPartitionsSkipsOpaqueLeaves(t *testing.T) {
	opaque := leaf(0, cst.DataDeclaration, "a", "b", "c")
	opaque.Opaque = true
	root := partition.NewInterior(0, partition.Origin{}, partition.AlwaysExpand, opaque)

	sizes := ShowLargestTokenPartitions(root, 0)
	assert.Empty(t, sizes)
}

func TestFormatLargestTokenPartitionsTruncatesLongText(t *testing.T) {
	sizes := []PartitionSize{{Origin: "DataDeclaration", Indent: 2, TokenCount: 3, Text: string(make([]byte, 90))}}
	out := FormatLargestTokenPartitions(sizes)
	assert.Contains(t, out, "...")
}

func TestFormatEquallyOptimalWrappingsRendersCostAndBreaks(t *testing.T) {
	ws := []EquallyOptimalWrapping{{Origin: "PortDeclarationList", Cost: 12, Breaks: []bool{true, false}}}
	out := FormatEquallyOptimalWrappings(ws)
	assert.Contains(t, out, "cost=12")
	assert.Contains(t, out, "PortDeclarationList")
}
