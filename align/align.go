// Package align implements the alignment engine: for every TabularAlignment
// partition it groups alignable children into alignment groups and assigns
// per-cell column positions so the n-th cell of every row in a group begins
// at the same column.
package align

import (
	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/style"
	"github.com/hdlfmt/svfmt/textwidth"
)

// Engine runs the alignment pass over a partition tree.
type Engine struct {
	Style  style.FormatStyle
	OnFallback func(groupOrigin string) // called when a group falls back to FlushLeft on overflow
}

func New(s style.FormatStyle, onFallback func(string)) *Engine {
	return &Engine{Style: s, OnFallback: onFallback}
}

// Run walks root and aligns every TabularAlignment partition's children.
func (e *Engine) Run(root *partition.Partition) {
	partition.Walk(root, func(p *partition.Partition, _ int) bool {
		if !p.Leaf && p.Policy == partition.TabularAlignment {
			e.alignChildren(p)
		}
		return true
	})
}

type rowGroup struct {
	kind     cst.Kind
	splitter Splitter
	rows     []*partition.Partition
}

// alignChildren groups p.Children into alignment groups and lays each one
// out.
func (e *Engine) alignChildren(p *partition.Partition) {
	var groups []*rowGroup
	var current *rowGroup
	var prevAlignable *partition.Partition

	finish := func() {
		if current != nil && len(current.rows) > 0 {
			groups = append(groups, current)
		}
		current = nil
	}

	for _, c := range p.Children {
		if c.Opaque {
			finish()
			prevAlignable = nil
			continue
		}
		if c.DirectiveFlush {
			// Directives never break a group unless separated by a blank
			// line from their neighbour.
			if current != nil && prevAlignable != nil && blankLineBetween(prevAlignable, c) {
				finish()
			}
			continue
		}
		if !c.Leaf {
			// A child that itself is an interior partition is either a
			// nested non-tabular construct (boundary ii) or a row that had
			// to wrap (boundary iv); either way it is not alignable.
			finish()
			prevAlignable = nil
			continue
		}
		splitter, ok := SplitterFor(c.Origin.NodeKind)
		if !ok {
			finish()
			prevAlignable = nil
			continue
		}
		blank := prevAlignable != nil && blankLineBetween(prevAlignable, c)
		if current == nil || current.kind != c.Origin.NodeKind || blank {
			finish()
			current = &rowGroup{kind: c.Origin.NodeKind, splitter: splitter}
		}
		current.rows = append(current.rows, c)
		prevAlignable = c
	}
	finish()

	for _, g := range groups {
		e.layoutGroup(g)
	}
}

func blankLineBetween(prev, cur *partition.Partition) bool {
	pt, pok := lastTok(prev)
	ct, cok := firstTok(cur)
	if !pok || !cok {
		return false
	}
	return ct.Line-pt.Line >= 2
}

func firstTok(p *partition.Partition) (tok struct{ Line int }, ok bool) {
	if p.Leaf && len(p.Tokens) > 0 {
		return struct{ Line int }{p.Tokens[0].Token.Line}, true
	}
	return tok, false
}

func lastTok(p *partition.Partition) (tok struct{ Line int }, ok bool) {
	if p.Leaf && len(p.Tokens) > 0 {
		return struct{ Line int }{p.Tokens[len(p.Tokens)-1].Token.Line}, true
	}
	return tok, false
}

// layoutGroup assigns final cell text to every row in g, choosing between
// Align and FlushLeft per the group's configured AlignmentPolicy (applying
// InferUserIntent's decision rule when that is the policy in effect).
func (e *Engine) layoutGroup(g *rowGroup) {
	policy := e.policyFor(g.kind)
	if policy == style.Preserve {
		return
	}

	rightPacked := e.Style.PortDeclarationsRightAlignPackedDimensions
	rightUnpacked := e.Style.PortDeclarationsRightAlignUnpackedDimensions

	rows := make([][]Cell, len(g.rows))
	for i, row := range g.rows {
		rows[i] = g.splitter(row, rightPacked, rightUnpacked)
	}

	effective := policy
	if policy == style.InferUserIntent {
		effective = e.inferIntent(g.rows, rows)
	}

	switch effective {
	case style.FlushLeft:
		applyFlushLeft(g.rows, rows)
	default:
		if !e.applyAligned(g.rows, rows) {
			if e.OnFallback != nil {
				e.OnFallback(g.kind.String())
			}
			applyFlushLeft(g.rows, rows)
		}
	}
}

func (e *Engine) policyFor(kind cst.Kind) style.AlignmentPolicy {
	switch kind {
	case cst.PortDeclaration:
		return e.Style.PortDeclarationsAlignment
	case cst.NamedPortConnection:
		return e.Style.NamedPortAlignment
	case cst.NamedParameterAssignment:
		return e.Style.NamedParameterAlignment
	case cst.ParameterDeclaration:
		return e.Style.FormalParametersAlignment
	case cst.DataDeclaration:
		return e.Style.ModuleNetVariableAlignment
	case cst.CaseItem:
		return e.Style.CaseItemsAlignment
	case cst.ClassMemberDeclaration:
		return e.Style.ClassMemberVariableAlignment
	case cst.StructUnionMember:
		return e.Style.StructUnionMembersAlignment
	case cst.EnumMember:
		return e.Style.EnumAssignmentStatementAlignment
	case cst.DistItem:
		return e.Style.DistributionItemsAlignment
	case cst.ContinuousAssign, cst.ProceduralAssign:
		return e.Style.AssignmentStatementAlignment
	default:
		return style.FlushLeft
	}
}

func columnCount(rows [][]Cell) int {
	max := 0
	for _, r := range rows {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

func columnWidths(rows [][]Cell) []int {
	n := columnCount(rows)
	widths := make([]int, n)
	for _, r := range rows {
		for k, c := range r {
			if w := textwidth.String(c.Text); w > widths[k] {
				widths[k] = w
			}
		}
	}
	return widths
}

// applyAligned lays out every row at the computed column widths, returning
// false (without mutating anything) if any row would overflow the column
// limit, which triggers the group-wide FlushLeft fallback.
func (e *Engine) applyAligned(partitions []*partition.Partition, rows [][]Cell) bool {
	widths := columnWidths(rows)
	rendered := make([]string, len(rows))
	for i, r := range rows {
		rendered[i] = renderRow(r, widths, partitions[i].IndentationSpaces)
		total := partitions[i].IndentationSpaces + textwidth.String(rendered[i])
		if e.Style.ColumnLimit > 0 && total > e.Style.ColumnLimit {
			return false
		}
	}
	for i, p := range partitions {
		setAligned(p, rendered[i])
	}
	return true
}

func applyFlushLeft(partitions []*partition.Partition, rows [][]Cell) {
	for i, r := range rows {
		setAligned(partitions[i], renderRow(r, nil, partitions[i].IndentationSpaces))
	}
}

// renderRow concatenates cells left-to-right, padding each (except the
// last) to its column width with at least one space of inter-column
// padding; widths == nil means FlushLeft (no padding beyond one space).
func renderRow(cells []Cell, widths []int, _ int) string {
	var out []byte
	for i, c := range cells {
		text := c.Text
		if widths != nil && i < len(widths) {
			w := widths[i]
			pad := w - textwidth.String(text)
			if pad > 0 {
				if c.Right {
					text = spaces(pad) + text
				} else if i < len(cells)-1 {
					text = text + spaces(pad)
				}
			}
		}
		if text == "" && i < len(cells)-1 {
			continue
		}
		if len(out) > 0 && text != "" {
			out = append(out, ' ')
		}
		out = append(out, text...)
	}
	return string(out)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func setAligned(p *partition.Partition, text string) {
	p.Aligned = true
	p.AlignedText = text
}

// inferIntent implements the InferUserIntent decision rule: align a group
// only when the original source already padded most of its rows toward
// alignment, otherwise flush left.
func (e *Engine) inferIntent(partitions []*partition.Partition, rows [][]Cell) style.AlignmentPolicy {
	widths := columnWidths(rows)
	cols := columnCount(rows)

	var alignedPadding, flushedPadding, originalPadding int
	for i, r := range rows {
		for k := range r {
			if k >= len(widths) {
				continue
			}
			alignedPadding += widths[k] - textwidth.String(r[k].Text)
		}
		if cols > 1 {
			flushedPadding += cols - 1
		}
		originalPadding += rawExtraSpacing(partitions[i])
	}
	// The aligned and original sums above count only spaces beyond the one
	// separating each pair of cells; add that base so all three totals count
	// every padding space, as flushedPadding does.
	alignedPadding += flushedPadding
	originalPadding += flushedPadding

	if abs(originalPadding-flushedPadding) <= e.Style.ThresholdSmall {
		return style.FlushLeft
	}
	if alignedPadding-flushedPadding <= e.Style.ThresholdFewSpaces {
		return style.Align
	}
	distAligned := abs(alignedPadding - originalPadding)
	distFlushed := abs(flushedPadding - originalPadding)
	if distFlushed < distAligned {
		return style.FlushLeft
	}
	return style.Align
}

// rawExtraSpacing sums the extra (beyond one) source-file spaces between
// consecutive tokens of a row, as a row-level proxy for how generously the
// author spaced this particular line out originally.
func rawExtraSpacing(p *partition.Partition) int {
	total := 0
	for i := 1; i < len(p.Tokens); i++ {
		gap := p.Tokens[i].Token.Offset.Start - p.Tokens[i-1].Token.Offset.End
		if gap > 1 {
			total += gap - 1
		}
	}
	return total
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
