package align

import (
	"strings"
	"testing"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/style"
	"github.com/hdlfmt/svfmt/token"
	"github.com/stretchr/testify/assert"
)

func portRow(line int, direction, name string) *partition.Partition {
	toks := []partition.FormattedToken{
		{Token: token.Token{Kind: token.Keyword, Text: direction, Line: line}},
		{Token: token.Token{Kind: token.Identifier, Text: name, Line: line}},
		{Token: token.Token{Kind: token.Comma, Text: ",", Line: line}},
	}
	return partition.NewLeaf(2, partition.Origin{NodeKind: cst.PortDeclaration}, toks)
}

func TestAlignChildrenAlignsSameKindRun(t *testing.T) {
	s := style.Default()
	s.PortDeclarationsAlignment = style.Align
	s.ColumnLimit = 100

	a := portRow(1, "input", "a")
	b := portRow(2, "output", "longer_name")
	root := partition.NewInterior(0, partition.Origin{}, partition.TabularAlignment, a, b)

	e := New(s, nil)
	e.Run(root)

	assert.True(t, a.Aligned)
	assert.True(t, b.Aligned)
	// "input" is shorter than "output"; the name column should start at the
	// same offset for both rows once aligned.
	assert.Contains(t, a.AlignedText, "a")
	assert.Contains(t, b.AlignedText, "longer_name")
	assert.Equal(t, strings.Index(a.AlignedText, "a"), strings.Index(b.AlignedText, "longer_name"))
}

func TestAlignChildrenFallsBackOnOverflow(t *testing.T) {
	s := style.Default()
	s.PortDeclarationsAlignment = style.Align
	s.ColumnLimit = 5 // force overflow immediately

	a := portRow(1, "input", "a")
	b := portRow(2, "output", "b")
	root := partition.NewInterior(0, partition.Origin{}, partition.TabularAlignment, a, b)

	var fellBack string
	e := New(s, func(kind string) { fellBack = kind })
	e.Run(root)

	assert.Equal(t, "PortDeclaration", fellBack)
	assert.True(t, a.Aligned)
}

func TestAlignChildrenBreaksGroupOnBlankLine(t *testing.T) {
	s := style.Default()
	s.PortDeclarationsAlignment = style.Align

	a := portRow(1, "input", "a")
	b := portRow(5, "output", "b") // far enough away to count as a blank-line break
	root := partition.NewInterior(0, partition.Origin{}, partition.TabularAlignment, a, b)

	e := New(s, nil)
	e.Run(root)

	assert.True(t, a.Aligned)
	assert.True(t, b.Aligned)
	// In one group "input" would be padded to the width of "output".
	assert.Equal(t, "input a ,", a.AlignedText)
	assert.Equal(t, "output b ,", b.AlignedText)
}

func TestAlignChildrenSkipsOpaqueRows(t *testing.T) {
	s := style.Default()
	s.PortDeclarationsAlignment = style.Align

	a := portRow(1, "input", "a")
	opaque := partition.NewLeaf(2, partition.Origin{}, nil)
	opaque.Opaque = true
	b := portRow(3, "output", "b")

	root := partition.NewInterior(0, partition.Origin{}, partition.TabularAlignment, a, opaque, b)
	e := New(s, nil)
	e.Run(root)

	assert.True(t, a.Aligned)
	assert.False(t, opaque.Aligned)
	assert.True(t, b.Aligned)
}

func TestColumnWidthsTakesMaxPerColumn(t *testing.T) {
	rows := [][]Cell{
		{{Text: "a"}, {Text: "bb"}},
		{{Text: "ccc"}, {Text: "d"}},
	}
	widths := columnWidths(rows)
	assert.Equal(t, []int{3, 2}, widths)
}
