// Package wrap implements the line-wrap search: a best-first search over
// break/space decisions for a partition's inter-token gaps, minimising a
// penalty-based cost, used on leaf partitions that the alignment engine did
// not lay out and that exceed the column limit. Aligned rows are not
// wrapped.
package wrap

import (
	"container/heap"

	"github.com/hdlfmt/svfmt/ferrors"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/style"
	"github.com/hdlfmt/svfmt/textwidth"
)

// Searcher runs the wrap search over a tree.
type Searcher struct {
	Style style.FormatStyle
}

func New(s style.FormatStyle) *Searcher {
	return &Searcher{Style: s}
}

// Run walks root and wraps every leaf partition whose emitted width (as
// currently decided) would exceed the column limit.
func (s *Searcher) Run(root *partition.Partition) error {
	var walkErr error
	partition.Walk(root, func(p *partition.Partition, _ int) bool {
		if walkErr != nil {
			return false
		}
		if !p.Leaf || p.Opaque || p.Aligned {
			return true
		}
		if !s.Style.TryWrapLongLines {
			return true
		}
		if fits(p, s.Style.ColumnLimit) {
			return true
		}
		if err := s.wrapLeaf(p); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	return walkErr
}

// fits reports whether p, laid out with its current (all-space) spacing
// decisions, stays within the column limit.
func fits(p *partition.Partition, limit int) bool {
	if limit <= 0 {
		return true
	}
	w := p.IndentationSpaces
	for i, ft := range p.Tokens {
		if i > 0 {
			w += spaceWidth(ft.Leading)
		}
		w += textwidth.String(ft.Token.Text)
	}
	return w <= limit
}

func spaceWidth(sp partition.Spacing) int {
	switch sp.Kind {
	case partition.SpacingNoSpace:
		return 0
	case partition.SpacingSpaceN:
		return sp.N
	default:
		return 1
	}
}

// state is one node of the best-first search: the index of the next
// undecided gap, the column the token just placed ends at, the indentation
// level in effect for the current (possibly wrapped) line, and the
// accumulated cost and break decisions that reached this state.
type state struct {
	gap      int
	col      int
	indent   int
	cost     int
	breaks   []bool // breaks[i] == true means the gap after Tokens[i] is a newline
	indents  []int  // indents[i] is the continuation indent recorded for gap i
	sequence int    // insertion order, used to break cost ties lexicographically
}

// stateHeap orders states by accumulated cost, then by sequence — since
// states are generated in gap-then-space-before-break order, the lowest
// sequence number among equal-cost states corresponds to the
// lexicographically earliest set of breaks.
type stateHeap []*state

func (h stateHeap) Len() int            { return len(h) }
func (h stateHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost || (h[i].cost == h[j].cost && h[i].sequence < h[j].sequence) }
func (h stateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *stateHeap) Push(x interface{}) { *h = append(*h, x.(*state)) }
func (h *stateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type visitKey struct{ gap, col, indent int }

// wrapLeaf runs the best-first search over p's gaps and commits the winning
// break decisions back onto p.Tokens.
func (s *Searcher) wrapLeaf(p *partition.Partition) error {
	n := len(p.Tokens)
	if n < 2 {
		return nil
	}
	limit := s.Style.ColumnLimit
	overPenalty := s.Style.OverColumnLimitPenalty
	if overPenalty <= 0 {
		overPenalty = 100
	}
	budget := s.Style.MaxSearchStates
	if budget <= 0 {
		budget = 200000
	}

	seq := 0
	start := &state{
		gap:      0,
		col:      p.IndentationSpaces + textwidth.String(p.Tokens[0].Token.Text),
		indent:   p.IndentationSpaces,
		breaks:   make([]bool, n-1),
		indents:  make([]int, n-1),
		sequence: seq,
	}
	h := &stateHeap{start}
	heap.Init(h)

	visited := map[visitKey]int{}
	var best *state
	explored := 0

	for h.Len() > 0 {
		cur := heap.Pop(h).(*state)
		if cur.gap == n-1 {
			best = cur
			break
		}
		explored++
		if explored > budget {
			return ferrors.ResourceExhausted{
				PartitionOrigin: p.Origin.NodeKind.String(),
				StatesExplored:  explored,
				Limit:           budget,
			}
		}

		tok := &p.Tokens[cur.gap]
		nextTok := &p.Tokens[cur.gap+1]
		tokWidth := textwidth.String(nextTok.Token.Text)

		// Option 1: emit this gap as space.
		spaceCol := cur.col + spaceWidth(nextTok.Leading) + tokWidth
		spaceCost := 0
		if limit > 0 && spaceCol > limit {
			over := spaceCol - limit
			spaceCost = overPenalty * over * over
		}
		seq++
		tryPush(h, visited, &seq, cur, cur.gap+1, spaceCol, cur.indent, spaceCost, cur.gap, false, cur.indent)

		// Option 2: break this gap, if the annotator permits it.
		if tok.MayBreak {
			newIndent := cur.indent + s.Style.WrapSpaces
			breakCol := newIndent + tokWidth
			seq++
			tryPush(h, visited, &seq, cur, cur.gap+1, breakCol, newIndent, tok.WrapPenalty, cur.gap, true, newIndent)
		}
	}

	if best == nil {
		return ferrors.ResourceExhausted{
			PartitionOrigin: p.Origin.NodeKind.String(),
			StatesExplored:  explored,
			Limit:           budget,
		}
	}

	for i, broke := range best.breaks {
		if broke {
			p.Tokens[i].Break = partition.BreakMustWrap
			p.Tokens[i].WrapIndent = best.indents[i]
		}
	}
	return nil
}

// tryPush expands cur into a successor state, pruning it if an equally cheap
// or cheaper path to the same (gap, col, indent) has already been found.
func tryPush(h *stateHeap, visited map[visitKey]int, seq *int, cur *state, gap, col, indent, addCost int, brokenGapIndex int, broke bool, recordIndent int) {
	k := visitKey{gap, col, indent}
	cost := cur.cost + addCost
	if best, ok := visited[k]; ok && best <= cost {
		return
	}
	visited[k] = cost
	breaks := append([]bool(nil), cur.breaks...)
	breaks[brokenGapIndex] = broke
	indents := append([]int(nil), cur.indents...)
	indents[brokenGapIndex] = recordIndent
	heap.Push(h, &state{
		gap:      gap,
		col:      col,
		indent:   indent,
		cost:     cost,
		breaks:   breaks,
		indents:  indents,
		sequence: *seq,
	})
}
