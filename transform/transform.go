// Package transform implements the partition transformer: a fixed sequence
// of tree-rewriting passes applied after the unwrapped-line builder and
// before alignment/wrap search.
package transform

import (
	"strings"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/token"
)

// FormatOffMarker and FormatOnMarker are the steering comments recognised
// verbatim.
const (
	FormatOffMarker = "verilog_format: off"
	FormatOnMarker  = "verilog_format: on"
)

// Apply runs every transformer stage, in a fixed order.
func Apply(root *partition.Partition, src *token.Stream) {
	MarkFormatOff(root, src)
	StitchIfElse(root)
	CompactEmptyBlocks(root)
	CompactHeaders(root)
	HoistMacroCallComments(root)
}

// isPragma reports whether a leaf is a single comment token carrying marker
// as a substring (after trimming the comment syntax and whitespace).
func isPragma(p *partition.Partition, marker string) bool {
	if !p.Leaf || len(p.Tokens) != 1 {
		return false
	}
	k := p.Tokens[0].Token.Kind
	if k != token.LineComment && k != token.BlockComment {
		return false
	}
	text := p.Tokens[0].Token.Text
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	return strings.Contains(text, marker)
}

// MarkFormatOff implements transformer stage 1: every span between a
// matching `verilog_format: off` / `verilog_format: on` pair of leaves is
// marked Opaque and given the verbatim source text.
func MarkFormatOff(root *partition.Partition, src *token.Stream) {
	markFormatOffChildren(root, src)
}

func markFormatOffChildren(p *partition.Partition, src *token.Stream) {
	if p.Leaf {
		return
	}
	children := p.Children
	i := 0
	for i < len(children) {
		if isPragma(children[i], FormatOffMarker) {
			start := i
			end := len(children) - 1
			for j := i + 1; j < len(children); j++ {
				if isPragma(children[j], FormatOnMarker) {
					end = j
					break
				}
			}
			opaqueSpan(children[start:end+1], src)
			i = end + 1
			continue
		}
		markFormatOffChildren(children[i], src)
		i++
	}
}

// opaqueSpan collapses a run of sibling partitions into verbatim,
// byte-identical passthrough text.
func opaqueSpan(span []*partition.Partition, src *token.Stream) {
	if len(span) == 0 {
		return
	}
	startTok, sok := firstToken(span[0])
	endTok, eok := lastToken(span[len(span)-1])
	if !sok || !eok {
		return
	}
	end := endTok.Offset.End
	// Carry the span through the end of its last line, so what follows the
	// closing marker starts on a fresh line as it did in the input.
	if idx := strings.IndexByte(src.Source[end:], '\n'); idx >= 0 {
		end += idx + 1
	}
	for _, p := range span {
		p.Opaque = true
		p.RawStart = startTok.Offset.Start
		p.RawEnd = end
		p.RawText = ""
	}
	// The first partition carries the whole span's text; the rest emit nothing.
	span[0].RawText = src.Source[startTok.Offset.Start:end]
}

func firstToken(p *partition.Partition) (token.Token, bool) {
	if p.Leaf {
		if len(p.Tokens) == 0 {
			return token.Token{}, false
		}
		return p.Tokens[0].Token, true
	}
	for _, c := range p.Children {
		if t, ok := firstToken(c); ok {
			return t, true
		}
	}
	return token.Token{}, false
}

func lastToken(p *partition.Partition) (token.Token, bool) {
	if p.Leaf {
		if len(p.Tokens) == 0 {
			return token.Token{}, false
		}
		return p.Tokens[len(p.Tokens)-1].Token, true
	}
	for i := len(p.Children) - 1; i >= 0; i-- {
		if t, ok := lastToken(p.Children[i]); ok {
			return t, true
		}
	}
	return token.Token{}, false
}

// StitchIfElse implements transformer stage 2: an if/conditional-generate
// partition whose next sibling begins with `else` is linked into one chain
// for wrap-decision purposes, hoisting any interleaved comments onto the
// first partition.
func StitchIfElse(root *partition.Partition) {
	partition.Walk(root, func(p *partition.Partition, _ int) bool {
		if p.Leaf {
			return true
		}
		stitchChildren(p)
		return true
	})
}

func stitchChildren(p *partition.Partition) {
	out := make([]*partition.Partition, 0, len(p.Children))
	for i := 0; i < len(p.Children); i++ {
		c := p.Children[i]
		if c.Origin.NodeKind != cst.IfStatement {
			out = append(out, c)
			continue
		}
		j := i + 1
		var hoisted []*partition.Partition
		for j < len(p.Children) && isCommentLeaf(p.Children[j]) {
			hoisted = append(hoisted, p.Children[j])
			j++
		}
		if j < len(p.Children) && isElseStart(p.Children[j]) {
			chain := partition.NewInterior(c.IndentationSpaces, c.Origin, partition.FitElseExpand,
				append(append([]*partition.Partition{c}, hoisted...), p.Children[j])...)
			out = append(out, chain)
			i = j
			continue
		}
		out = append(out, c)
	}
	p.Children = out
}

func isCommentLeaf(p *partition.Partition) bool {
	return p.Leaf && len(p.Tokens) > 0 &&
		(p.Tokens[0].Token.Kind == token.LineComment || p.Tokens[0].Token.Kind == token.BlockComment)
}

func isElseStart(p *partition.Partition) bool {
	if p.Origin.NodeKind == cst.ElseClause {
		return true
	}
	return strings.EqualFold(p.Origin.FirstText, "else")
}

// CompactEmptyBlocks implements transformer stage 3: a begin/end (or
// brace) partition with no statement children collapses to a single inline
// leaf if its width fits. The actual fit-check happens later in the
// wrap/alignment stages, which treat a collapsed leaf as a single unit;
// this pass only performs the structural collapse.
func CompactEmptyBlocks(root *partition.Partition) {
	partition.Walk(root, func(p *partition.Partition, _ int) bool {
		if p.Leaf || p.Origin.NodeKind != cst.BeginEndBlock {
			return true
		}
		if len(p.Children) != 0 {
			return true
		}
		var toks []partition.FormattedToken
		if t, ok := firstToken(p); ok {
			toks = append(toks, partition.FormattedToken{Token: t})
		}
		p.Leaf = true
		p.Tokens = toks
		p.Children = nil
		return true
	})
}

// CompactHeaders implements transformer stage 4: a module header with no
// port list, or whose port list has no children, gets the FitElseExpand
// policy. Its tokens are not rewritten, and class/task headers are not
// visited.
func CompactHeaders(root *partition.Partition) {
	partition.Walk(root, func(p *partition.Partition, _ int) bool {
		if p.Leaf || p.Origin.NodeKind != cst.ModuleHeader {
			return true
		}
		hasPorts := false
		for _, c := range p.Children {
			if c.Origin.NodeKind == cst.PortDeclarationList && len(c.Children) > 0 {
				hasPorts = true
			}
		}
		if !hasPorts {
			p.Policy = partition.FitElseExpand
		}
		return true
	})
}

// HoistMacroCallComments implements transformer stage 5: a macro-invocation
// partition whose argument list begins with a comment is rewritten to place
// the comment on the same line as `(`, with the remaining arguments indented.
func HoistMacroCallComments(root *partition.Partition) {
	partition.Walk(root, func(p *partition.Partition, _ int) bool {
		if p.Leaf || p.Origin.NodeKind != cst.MacroCall {
			return true
		}
		if len(p.Children) < 2 {
			return true
		}
		// Children[1] is the argument list; its first child is the `(` leaf.
		args := p.Children[1]
		if args.Leaf || len(args.Children) < 2 {
			return true
		}
		first := args.Children[1]
		if !isCommentLeaf(first) {
			return true
		}
		open := args.Children[0]
		if open.Leaf {
			open.Tokens = append(append([]partition.FormattedToken{}, open.Tokens...), first.Tokens...)
		}
		args.Children = append(args.Children[:1], args.Children[2:]...)
		return true
	})
}
