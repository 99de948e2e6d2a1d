package wrap

import (
	"testing"

	"github.com/hdlfmt/svfmt/ferrors"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/style"
	"github.com/hdlfmt/svfmt/token"
	"github.com/stretchr/testify/assert"
)

func longLeaf(n, width int) *partition.Partition {
	toks := make([]partition.FormattedToken, n)
	for i := range toks {
		text := make([]byte, width)
		for j := range text {
			text[j] = 'a'
		}
		toks[i] = partition.FormattedToken{
			Token:       token.Token{Kind: token.Identifier, Text: string(text)},
			Leading:     partition.Space(1),
			MayBreak:    true,
			WrapPenalty: 1,
		}
	}
	return partition.NewLeaf(0, partition.Origin{}, toks)
}

func TestFitsWithinLimit(t *testing.T) {
	p := longLeaf(3, 2)
	assert.True(t, fits(p, 100))
}

func TestFitsZeroLimitAlwaysFits(t *testing.T) {
	p := longLeaf(3, 50)
	assert.True(t, fits(p, 0))
}

func TestRunWrapsOverlongLeaf(t *testing.T) {
	s := style.Default()
	s.ColumnLimit = 10
	s.WrapSpaces = 2
	p := longLeaf(5, 8)

	searcher := New(s)
	err := searcher.Run(p)
	assert.NoError(t, err)

	wrapped := false
	for _, ft := range p.Tokens {
		if ft.Break == partition.BreakMustWrap {
			wrapped = true
		}
	}
	assert.True(t, wrapped)
}

func TestRunSkipsAlignedOrOpaqueLeaves(t *testing.T) {
	s := style.Default()
	s.ColumnLimit = 1
	p := longLeaf(3, 10)
	p.Aligned = true

	searcher := New(s)
	err := searcher.Run(p)
	assert.NoError(t, err)
	for _, ft := range p.Tokens {
		assert.NotEqual(t, partition.BreakMustWrap, ft.Break)
	}
}

func TestWrapLeafExhaustsBudget(t *testing.T) {
	s := style.Default()
	s.ColumnLimit = 10
	s.MaxSearchStates = 1
	p := longLeaf(6, 8)

	searcher := New(s)
	err := searcher.Run(p)
	var exhausted ferrors.ResourceExhausted
	assert.ErrorAs(t, err, &exhausted)
}

func TestSingleTokenLeafNeverWraps(t *testing.T) {
	s := style.Default()
	s.ColumnLimit = 1
	p := longLeaf(1, 50)

	searcher := New(s)
	err := searcher.Run(p)
	assert.NoError(t, err)
}
