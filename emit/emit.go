// Package emit implements the emitter: a depth-first traversal of the final
// partition tree that writes indentation, decided spacing, and newlines to
// produce the formatted output text.
package emit

import (
	"strings"

	"github.com/hdlfmt/svfmt/partition"
)

// Emitter writes a partition tree to text.
type Emitter struct {
	buf strings.Builder

	// atLineStart is true immediately after a newline (or at the very
	// start of output), so the next leaf knows to emit its own indentation
	// rather than a Leading space.
	atLineStart bool
}

// Tree renders root to its final formatted text.
func Tree(root *partition.Partition) string {
	e := &Emitter{atLineStart: true}
	e.emit(root)
	return e.buf.String()
}

func (e *Emitter) emit(p *partition.Partition) {
	if p.Opaque {
		e.buf.WriteString(p.RawText)
		// An opaque partition with no text (its bytes were reproduced by an
		// earlier one) leaves the line state as it was.
		if p.RawText != "" {
			e.atLineStart = strings.HasSuffix(p.RawText, "\n")
		}
		return
	}
	if p.Leaf {
		e.emitLeaf(p)
		return
	}
	for _, c := range p.Children {
		e.emit(c)
	}
}

func (e *Emitter) emitLeaf(p *partition.Partition) {
	if len(p.Tokens) == 0 {
		return
	}

	indent := p.IndentationSpaces
	if p.DirectiveFlush {
		indent = 0
	}
	if e.atLineStart {
		e.buf.WriteString(spaces(indent))
	} else {
		// Continuing straight on from the previous sibling's last token
		// (BreakMustAppend): the gap between them was decided by the
		// sibling pass of the annotator, not by this leaf's own tokens.
		e.writeLeading(p.Tokens[0].Leading)
	}
	e.atLineStart = false

	if p.Aligned {
		e.buf.WriteString(p.AlignedText)
	} else {
		wrapped := false
		for i, ft := range p.Tokens {
			switch {
			case i == 0 || wrapped:
				// A continuation line starts right at its wrap indent.
			case ft.Leading.Kind == partition.SpacingPreserveOriginal:
				// Preserved gaps keep the source's choice of no space or one.
				if ft.Token.Offset.Start > p.Tokens[i-1].Token.Offset.End {
					e.buf.WriteByte(' ')
				}
			default:
				e.writeLeading(ft.Leading)
			}
			wrapped = false
			e.buf.WriteString(ft.Token.Text)
			if ft.Break == partition.BreakMustWrap {
				e.buf.WriteByte('\n')
				e.buf.WriteString(spaces(ft.WrapIndent))
				e.atLineStart = false // indentation for the continuation already written
				wrapped = true
			}
		}
	}

	last := p.Tokens[len(p.Tokens)-1]
	if last.Break != partition.BreakMustAppend {
		e.buf.WriteByte('\n')
		e.atLineStart = true
	}
}

func (e *Emitter) writeLeading(sp partition.Spacing) {
	switch sp.Kind {
	case partition.SpacingNoSpace:
	case partition.SpacingSpaceN:
		e.buf.WriteString(spaces(sp.N))
	default:
		e.buf.WriteByte(' ')
	}
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
