// Package partition implements the token-partition tree: the substrate the
// rest of the format engine mutates and finally emits, built by the
// unwrapped-line builder from a parsed syntax tree.
package partition

import (
	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/token"
)

// Policy is the closed set of rules by which an interior partition's
// children are combined.
type Policy int

const (
	// Uninitialized is an invariant violation if still present at emission
	// time (§3).
	Uninitialized Policy = iota
	AlwaysExpand
	FitElseExpand
	AppendFittingSubPartitions
	TabularAlignment
)

func (p Policy) String() string {
	switch p {
	case AlwaysExpand:
		return "AlwaysExpand"
	case FitElseExpand:
		return "FitElseExpand"
	case AppendFittingSubPartitions:
		return "AppendFittingSubPartitions"
	case TabularAlignment:
		return "TabularAlignment"
	default:
		return "Uninitialized"
	}
}

// BreakKind is the break decision attached to the gap following a token.
type BreakKind int

const (
	BreakSpace BreakKind = iota
	BreakPreserve
	BreakMustWrap
	BreakMustAppend
	BreakAppendAligned
)

// SpacingKind is the spacing decision attached to the gap preceding a token.
type SpacingKind int

const (
	SpacingUndecided SpacingKind = iota
	SpacingPreserveOriginal
	SpacingSpaceN
	SpacingNoSpace
)

// Spacing is a SpacingKind plus, for SpacingSpaceN, the space count.
type Spacing struct {
	Kind SpacingKind
	N    int
}

func Space(n int) Spacing     { return Spacing{Kind: SpacingSpaceN, N: n} }
func NoSpace() Spacing        { return Spacing{Kind: SpacingNoSpace} }
func Preserve() Spacing       { return Spacing{Kind: SpacingPreserveOriginal} }
func Undecided() Spacing      { return Spacing{Kind: SpacingUndecided} }
func (s Spacing) IsDecided() bool { return s.Kind != SpacingUndecided }

// FormattedToken is a token plus its decided leading spacing and trailing
// break.
type FormattedToken struct {
	Token   token.Token
	Leading Spacing
	Break   BreakKind

	// WrapPenalty is the cost charged by the wrap search (package wrap) if
	// Break is resolved to a newline at this gap instead of a space; it is
	// populated by the annotator (§4.2) and consulted, not re-derived, by
	// the search stage.
	WrapPenalty int

	// MayBreak is false for gaps the annotator marked must-not-break
	// (e.g. around `::`); the wrap search must never choose a newline here.
	MayBreak bool

	// WrapIndent is the indentation the wrap search (package wrap) assigned
	// to the continuation line if Break resolves to BreakMustWrap at this
	// gap; meaningless otherwise.
	WrapIndent int
}

// Origin records where a partition came from in the CST, used for
// diagnostics and by the alignment engine to select a cell-splitter.
type Origin struct {
	NodeKind  cst.Kind
	FirstText string
}

// Partition is a node of the token-partition tree: either a leaf (a
// contiguous token run) or an interior node grouping children under a
// Policy.
type Partition struct {
	IndentationSpaces int
	Origin            Origin

	// Leaf fields.
	Leaf   bool
	Tokens []FormattedToken

	// Interior fields.
	Policy   Policy
	Children []*Partition

	// Opaque marks a format-off span (§4.3 stage 1): its source text is
	// copied verbatim regardless of Policy/Tokens.
	Opaque     bool
	RawText    string
	RawStart   int
	RawEnd     int

	// DirectiveFlush marks a preprocessor-directive leaf, which is always
	// emitted at column zero inside a module/interface/class body
	// regardless of IndentationSpaces (§4.1).
	DirectiveFlush bool

	// Aligned and AlignedText are set by the alignment engine (package
	// align) on a row leaf it has laid out: AlignedText is the row's cell
	// text already joined and padded to its group's column widths, and the
	// emitter prints it verbatim (plus IndentationSpaces of leading
	// indent) instead of walking Tokens/Leading/Break for that leaf.
	Aligned     bool
	AlignedText string
}

// NewLeaf constructs a leaf partition at the given indentation.
func NewLeaf(indent int, origin Origin, tokens []FormattedToken) *Partition {
	return &Partition{IndentationSpaces: indent, Origin: origin, Leaf: true, Tokens: tokens}
}

// NewInterior constructs an interior partition.
func NewInterior(indent int, origin Origin, policy Policy, children ...*Partition) *Partition {
	return &Partition{IndentationSpaces: indent, Origin: origin, Policy: policy, Children: children}
}

// Walk visits p and every descendant, depth first, calling f(node, depth).
// Returning false from f stops descent into that node's children.
func Walk(p *Partition, f func(p *Partition, depth int) bool) {
	walk(p, 0, f)
}

func walk(p *Partition, depth int, f func(p *Partition, depth int) bool) {
	if p == nil {
		return
	}
	if !f(p, depth) {
		return
	}
	for _, c := range p.Children {
		walk(c, depth+1, f)
	}
}

// MinIndentation returns the minimum IndentationSpaces among p and its
// descendant leaves; invariant 3 (§3) requires this equal p's own
// indentation for a well-formed tree.
func MinIndentation(p *Partition) int {
	min := p.IndentationSpaces
	Walk(p, func(c *Partition, _ int) bool {
		if c.Leaf && c.IndentationSpaces < min {
			min = c.IndentationSpaces
		}
		return true
	})
	return min
}

// TokenTexts returns a leaf partition's token texts, in order, with no
// spacing applied.
func (p *Partition) TokenTexts() []string {
	out := make([]string, len(p.Tokens))
	for i, ft := range p.Tokens {
		out[i] = ft.Token.Text
	}
	return out
}
