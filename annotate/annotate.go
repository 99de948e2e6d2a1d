// Package annotate implements the inter-token annotator: for every adjacent
// token pair inside a leaf partition, it decides the spacing and break
// contract between them.
package annotate

import (
	"strings"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/ferrors"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/token"
)

// parenHeadKeywords introduce a parenthesised head with exactly one space
// before '(', except "@" which has none.
var parenHeadKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "case": true,
	"foreach": true, "repeat": true,
}

// Annotator decides spacing/break contracts for the leaf partitions of a
// tree. It is stateless. OnUnsupported is stored but no rule path calls
// it: a token pair that matches no specific rule takes the table's default
// of one space without a report.
type Annotator struct {
	OnUnsupported func(ferrors.UnsupportedToken)
}

// New constructs an Annotator.
func New(onUnsupported func(ferrors.UnsupportedToken)) *Annotator {
	return &Annotator{OnUnsupported: onUnsupported}
}

// AnnotateTree walks every leaf of p and decides spacing/break for its
// tokens in place, then makes a second pass connecting adjacent siblings:
// the gap between one partition's last token and the next partition's first
// token is never inside a single leaf's own token run, so it can't be
// decided by AnnotateLeaf alone.
func (a *Annotator) AnnotateTree(p *partition.Partition) {
	partition.Walk(p, func(node *partition.Partition, _ int) bool {
		if node.Leaf && !node.Opaque {
			a.AnnotateLeaf(node)
		}
		return true
	})
	a.annotateSiblingGaps(p)
}

// annotateSiblingGaps walks every interior node and, for each adjacent pair
// of children, decides the spacing before the second child's first token and
// the break after the first child's last token.
func (a *Annotator) annotateSiblingGaps(p *partition.Partition) {
	partition.Walk(p, func(node *partition.Partition, _ int) bool {
		if node.Leaf || node.Opaque {
			return true
		}
		for i := 1; i < len(node.Children); i++ {
			prevLeaf := lastLeafPartition(node.Children[i-1])
			curLeaf := firstLeafPartition(node.Children[i])
			if prevLeaf == nil || curLeaf == nil {
				continue
			}
			lastFT := &prevLeaf.Tokens[len(prevLeaf.Tokens)-1]
			firstFT := &curLeaf.Tokens[0]
			firstFT.Leading = a.spacing(lastFT, firstFT, &bracketCtx{})
			// A case-item list has no inline form the way an if/for/while
			// body does: the header's closing ')' always opens a fresh line
			// of items, so it's forced here rather than left to endsLine.
			if a.endsLine(prevLeaf, lastFT) || node.Children[i].Origin.NodeKind == cst.CaseItem {
				lastFT.Break = partition.BreakSpace
			} else {
				lastFT.Break = partition.BreakMustAppend
			}
		}
		return true
	})
}

// firstLeafPartition returns the partition's leftmost descendant leaf with
// at least one token, or nil for an empty or opaque subtree.
func firstLeafPartition(p *partition.Partition) *partition.Partition {
	if p == nil || p.Opaque {
		return nil
	}
	if p.Leaf {
		if len(p.Tokens) == 0 {
			return nil
		}
		return p
	}
	for _, c := range p.Children {
		if lp := firstLeafPartition(c); lp != nil {
			return lp
		}
	}
	return nil
}

// lastLeafPartition is firstLeafPartition's mirror image.
func lastLeafPartition(p *partition.Partition) *partition.Partition {
	if p == nil || p.Opaque {
		return nil
	}
	if p.Leaf {
		if len(p.Tokens) == 0 {
			return nil
		}
		return p
	}
	for i := len(p.Children) - 1; i >= 0; i-- {
		if lp := lastLeafPartition(p.Children[i]); lp != nil {
			return lp
		}
	}
	return nil
}

// lineEndingKeywords are the block delimiters that always start a fresh line
// for whatever follows them, even though each is a single raw token glued to
// its header by AnnotateLeaf's default BreakMustAppend.
var lineEndingKeywords = map[string]bool{
	"begin": true, "end": true, "endmodule": true, "endinterface": true,
	"endclass": true, "endpackage": true, "endcase": true,
	"endfunction": true, "endtask": true,
}

// endsLine reports whether ft, the last token of leaf, should be followed by
// a real newline rather than chaining onto whatever partition comes next:
// true for a folded declaration/statement row (identified by leaf's Origin
// not being a raw cst.Token), for any token terminating with ';', and for
// the block-delimiter keywords that always open or close a line of their
// own. Everything else is header/control-flow glue that defaults to
// appending, matching §4.1's "module header... folded" intent for the
// pieces that stay on one line.
func (a *Annotator) endsLine(leaf *partition.Partition, ft *partition.FormattedToken) bool {
	if ft.Token.Kind == token.Semicolon {
		return true
	}
	// '{' always opens a struct/union/enum member list (§4.4): unlike an
	// if/for/while header it has no inline single-item form.
	if ft.Token.Kind == token.LeftBrace {
		return true
	}
	if lineEndingKeywords[strings.ToLower(ft.Token.Text)] {
		return true
	}
	return leaf.Origin.NodeKind != cst.Token
}

// bracketCtx tracks the nesting state needed by context-sensitive rules:
// whether we are directly inside a `[...]` subscript/bit-range (spacing is
// preserved there, §4.2).
type bracketCtx struct {
	subscriptDepth int
}

// AnnotateLeaf decides the Leading spacing of every token but the first,
// and the Break of every token but the last, in a single leaf partition.
func (a *Annotator) AnnotateLeaf(p *partition.Partition) {
	ctx := &bracketCtx{}
	for i := range p.Tokens {
		cur := &p.Tokens[i]
		switch cur.Token.Kind {
		case token.LeftBracket:
			ctx.subscriptDepth++
		case token.RightBracket:
			if ctx.subscriptDepth > 0 {
				ctx.subscriptDepth--
			}
		}

		if i == 0 {
			cur.Leading = partition.Space(0)
			continue
		}
		prev := &p.Tokens[i-1]
		cur.Leading = a.spacing(prev, cur, ctx)
		prev.Break = a.breakKind(prev, cur)
		prev.MayBreak = a.mayBreak(prev, cur)
		prev.WrapPenalty = a.wrapPenalty(prev, cur)
	}
	if n := len(p.Tokens); n > 0 {
		last := &p.Tokens[n-1]
		if a.endsLine(p, last) {
			last.Break = partition.BreakSpace
		} else {
			last.Break = partition.BreakMustAppend
		}
	}
}

func isPunct(k token.Kind, kinds ...token.Kind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func (a *Annotator) spacing(prev, cur *partition.FormattedToken, ctx *bracketCtx) partition.Spacing {
	pk, ck := prev.Token.Kind, cur.Token.Kind
	pt, ct := strings.ToLower(prev.Token.Text), cur.Token.Text

	switch {
	// Trailing end-of-line comment: at least two spaces, unless attached
	// differently upstream.
	case ck == token.LineComment || ck == token.BlockComment:
		if prev.Token.Line == cur.Token.Line {
			return partition.Space(2)
		}
		return partition.Space(1)

	// Around '::' and '.': zero spaces.
	case ck == token.ColonColon || pk == token.ColonColon:
		return partition.NoSpace()
	case ck == token.Dot || pk == token.Dot:
		return partition.NoSpace()

	// '#(' parameter specialisation: zero before '#', zero between '#' and '('.
	case ck == token.Hash:
		return partition.NoSpace()
	case pk == token.Hash && ck == token.LeftParen:
		return partition.NoSpace()

	// '@(' has no space; any other keyword introducing a parenthesised
	// head gets exactly one space before '('.
	case ck == token.LeftParen && pk == token.At:
		return partition.NoSpace()
	case ck == token.LeftParen && pk == token.Keyword && parenHeadKeywords[pt]:
		return partition.Space(1)
	case ck == token.LeftParen && pk == token.At:
		return partition.NoSpace()

	// A module/task/function/macro name immediately heads its port, argument
	// or parameter list with no space: "counter(", "my_task(".
	case ck == token.LeftParen && pk == token.Identifier:
		return partition.NoSpace()

	// Before `,`, `;`, `)`, `]`, `}`: zero spaces.
	case isPunct(ck, token.Comma, token.Semicolon, token.RightParen, token.RightBracket, token.RightBrace):
		if ck == token.RightBracket && ctx.subscriptDepth > 0 {
			return a.bitRangeClose(prev, cur)
		}
		return partition.NoSpace()

	// After `,` and `;`: one space (unless followed by newline, decided by
	// the break, not the spacing, so this is the "if joined" spacing).
	case pk == token.Comma || pk == token.Semicolon:
		return partition.Space(1)

	// Inside a subscript/bit-range, preserve original spacing (normalised
	// symmetrically; see bitRangeColon below for the dedicated rule).
	case ctx.subscriptDepth > 0 && (pk == token.Colon || ck == token.Colon):
		return a.bitRangeColon(prev, cur)
	case ctx.subscriptDepth > 0:
		return partition.Preserve()

	case ck == token.LeftBracket:
		return partition.Space(0)

	case isPunct(ck, token.Operator) || isPunct(pk, token.Operator):
		return partition.Space(1)

	case ck == token.Question || pk == token.Question:
		return partition.Space(1)

	case ck == token.Colon && pk != token.Question:
		// case-item / ternary colon default
		return partition.Space(0)

	default:
		return partition.Space(1)
	}
}

// bitRangeColon implements the "[lo : hi]" vs "[lo:hi]" symmetrisation rule
// (§4.2): zero spaces on both sides if the original had zero on both,
// else exactly one space on both.
func (a *Annotator) bitRangeColon(prev, cur *partition.FormattedToken) partition.Spacing {
	// The original gap width is reconstructed from the token offsets: the
	// caller-facing decision only needs "0 or 1", so any gap > 0 counts as
	// "had a space".
	gap := cur.Token.Offset.Start - prev.Token.Offset.End
	if prev.Token.Kind == token.Colon && (gap > 0 || prev.Leading == partition.Space(1)) {
		// Either side had a space: both sides get one, including the
		// colon's own leading gap decided on the previous step.
		prev.Leading = partition.Space(1)
		return partition.Space(1)
	}
	if gap > 0 {
		return partition.Space(1)
	}
	return partition.Space(0)
}

// bitRangeClose mirrors the colon's symmetrisation for the closing ']',
// keeping the bracket snug against the last bound.
func (a *Annotator) bitRangeClose(prev, cur *partition.FormattedToken) partition.Spacing {
	return partition.NoSpace()
}

func (a *Annotator) breakKind(prev, cur *partition.FormattedToken) partition.BreakKind {
	switch {
	case prev.Token.Kind == token.ColonColon || cur.Token.Kind == token.ColonColon:
		return partition.BreakMustAppend
	case prev.Token.Kind == token.Dot || cur.Token.Kind == token.Dot:
		return partition.BreakMustAppend
	case prev.Token.Kind == token.Hash || cur.Token.Kind == token.LeftParen && prev.Token.Kind == token.Hash:
		return partition.BreakMustAppend
	case prev.Token.Kind == token.Comma:
		return partition.BreakAppendAligned
	default:
		return partition.BreakSpace
	}
}

func (a *Annotator) mayBreak(prev, cur *partition.FormattedToken) bool {
	switch {
	case prev.Token.Kind == token.ColonColon || cur.Token.Kind == token.ColonColon:
		return false
	case prev.Token.Kind == token.Dot || cur.Token.Kind == token.Dot:
		return false
	case prev.Token.Kind == token.Hash || cur.Token.Kind == token.Hash:
		return false
	default:
		return true
	}
}

func (a *Annotator) wrapPenalty(prev, cur *partition.FormattedToken) int {
	if prev.Token.Kind == token.LeftParen {
		// breaking right after any opening paren costs more (§4.5 names the
		// macro-call case); the wrap search charges this value as-is.
		return penaltyWrapAfterOpenParen
	}
	return penaltyWrap
}

const (
	penaltyWrap               = 3
	penaltyWrapAfterOpenParen = 6
)
