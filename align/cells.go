package align

import (
	"strings"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/token"
)

// Cell is one labelled sub-range of a row, already rendered to text. Right
// is set for cells the column layout right-justifies (bit-range brackets).
type Cell struct {
	Name  string
	Text  string
	Right bool
}

// Splitter is the cell-splitter contract: it returns an ordered,
// non-overlapping sequence of cells covering a row, minus any trailing
// comment.
type Splitter func(row *partition.Partition, rightAlignPacked, rightAlignUnpacked bool) []Cell

// splitters is the registry of cell-splitters keyed by row origin, one
// entry per supported tabular construct.
var splitters = map[cst.Kind]Splitter{
	cst.PortDeclaration:          splitVariableLike,
	cst.ParameterDeclaration:     splitVariableLike,
	cst.DataDeclaration:          splitVariableLike,
	cst.ClassMemberDeclaration:   splitVariableLike,
	cst.StructUnionMember:        splitVariableLike,
	cst.NamedParameterAssignment: splitNamedConnection,
	cst.NamedPortConnection:      splitNamedConnection,
	cst.ContinuousAssign:         splitAssignment,
	cst.ProceduralAssign:         splitAssignment,
	cst.CaseItem:                 splitCaseItem,
	cst.EnumMember:                splitEnumMember,
	cst.DistItem:                 splitDistItem,
}

// SplitterFor returns the registered splitter for a row's origin kind, and
// whether the row is alignable at all. Rows with no registered splitter are
// not alignable and act as group boundaries.
func SplitterFor(kind cst.Kind) (Splitter, bool) {
	s, ok := splitters[kind]
	return s, ok
}

func trailingCommentText(toks []partition.FormattedToken) (body []partition.FormattedToken, comment string) {
	if n := len(toks); n > 0 {
		k := toks[n-1].Token.Kind
		if k == token.LineComment || k == token.BlockComment {
			return toks[:n-1], toks[n-1].Token.Text
		}
	}
	return toks, ""
}

// joinText joins token texts with one space between tokens, except where
// the annotator decided no space (before ',', ';', ')' and the like).
func joinText(toks []partition.FormattedToken) string {
	var b strings.Builder
	for i, ft := range toks {
		sp := ft.Leading
		noSpace := sp.Kind == partition.SpacingNoSpace || (sp.Kind == partition.SpacingSpaceN && sp.N == 0)
		if i > 0 && !noSpace {
			b.WriteByte(' ')
		}
		b.WriteString(ft.Token.Text)
	}
	return b.String()
}

// splitVariableLike handles the shared shape of ports, formal parameters,
// module/class data declarations, and struct/union members:
//
//	[direction/type prefix] [packed dims] name [unpacked dims] [= init] [,]
func splitVariableLike(row *partition.Partition, rightAlignPacked, rightAlignUnpacked bool) []Cell {
	toks, _ := trailingCommentText(row.Tokens)
	if len(toks) == 0 {
		return nil
	}

	depth := 0
	nameIdx := -1
	eqIdx := -1
	for i, ft := range toks {
		switch ft.Token.Kind {
		case token.LeftBracket, token.LeftParen:
			depth++
		case token.RightBracket, token.RightParen:
			if depth > 0 {
				depth--
			}
		case token.Operator:
			if depth == 0 && ft.Token.Text == "=" && eqIdx == -1 {
				eqIdx = i
			}
		}
		if depth == 0 && ft.Token.Kind == token.Identifier {
			limit := len(toks)
			if eqIdx != -1 {
				limit = eqIdx
			}
			if i < limit {
				nameIdx = i
			}
		}
	}
	if nameIdx == -1 {
		// Can't find a plausible variable name; fall back to one flush cell.
		return []Cell{{Name: "body", Text: joinText(toks)}}
	}

	trailEnd := len(toks)
	trailStart := trailEnd
	for trailStart > nameIdx+1 {
		k := toks[trailStart-1].Token.Kind
		if k == token.Comma || k == token.Semicolon {
			trailStart--
			continue
		}
		break
	}

	initStart := trailStart
	if eqIdx != -1 {
		initStart = eqIdx
	}

	// Split the prefix (before name) into a type/direction part and a
	// packed-dimension part: the packed dims are one or more consecutive
	// bracketed groups immediately preceding the name at depth 0.
	prefixEnd := nameIdx
	packedStart := prefixEnd
	k := prefixEnd - 1
	for k >= 0 && toks[k].Token.Kind == token.RightBracket {
		d := 1
		k--
		for k >= 0 && d > 0 {
			switch toks[k].Token.Kind {
			case token.RightBracket:
				d++
			case token.LeftBracket:
				d--
			}
			k--
		}
		if d != 0 {
			// Unbalanced; bail out without claiming a packed range.
			break
		}
		packedStart = k + 1
	}

	var cells []Cell
	if packedStart > 0 {
		cells = append(cells, Cell{Name: "prefix", Text: joinText(toks[:packedStart])})
	} else {
		cells = append(cells, Cell{Name: "prefix", Text: ""})
	}
	if packedStart < prefixEnd {
		cells = append(cells, Cell{Name: "packed", Text: joinTight(toks[packedStart:prefixEnd]), Right: rightAlignPacked})
	} else {
		cells = append(cells, Cell{Name: "packed", Text: ""})
	}
	cells = append(cells, Cell{Name: "name", Text: toks[nameIdx].Token.Text})

	if nameIdx+1 < initStart {
		cells = append(cells, Cell{Name: "unpacked", Text: joinTight(toks[nameIdx+1 : initStart]), Right: rightAlignUnpacked})
	} else {
		cells = append(cells, Cell{Name: "unpacked", Text: ""})
	}

	if initStart < trailStart {
		cells = append(cells, Cell{Name: "init", Text: joinText(toks[initStart:trailStart])})
	} else {
		cells = append(cells, Cell{Name: "init", Text: ""})
	}

	cells = append(cells, Cell{Name: "trail", Text: joinText(toks[trailStart:])})
	return cells
}

// joinTight concatenates tokens with no inter-token space, used for bracket
// groups like "[7:0]" where the contract calls for a single dense field.
func joinTight(toks []partition.FormattedToken) string {
	var b strings.Builder
	for _, ft := range toks {
		b.WriteString(ft.Token.Text)
	}
	return b.String()
}

// splitNamedConnection handles `.name(expr)` and `.name(expr),`.
func splitNamedConnection(row *partition.Partition, _, _ bool) []Cell {
	toks, _ := trailingCommentText(row.Tokens)
	openIdx := -1
	for i, ft := range toks {
		if ft.Token.Kind == token.LeftParen {
			openIdx = i
			break
		}
	}
	if openIdx == -1 {
		return []Cell{{Name: "body", Text: joinText(toks)}}
	}
	closeIdx := len(toks) - 1
	for closeIdx > openIdx && toks[closeIdx].Token.Kind != token.RightParen {
		closeIdx--
	}
	name := joinTight(toks[:openIdx+1])
	expr := joinText(toks[openIdx+1 : closeIdx])
	trail := joinText(toks[closeIdx:])
	return []Cell{
		{Name: "name", Text: name},
		{Name: "expr", Text: expr},
		{Name: "trail", Text: trail},
	}
}

// splitAssignment handles `[assign] lhs = rhs;` and `lhs <= rhs;`.
func splitAssignment(row *partition.Partition, _, _ bool) []Cell {
	toks, _ := trailingCommentText(row.Tokens)
	opIdx := -1
	for i, ft := range toks {
		if ft.Token.Kind == token.Operator && (ft.Token.Text == "=" || ft.Token.Text == "<=") {
			opIdx = i
			break
		}
	}
	if opIdx == -1 {
		return []Cell{{Name: "body", Text: joinText(toks)}}
	}
	return []Cell{
		{Name: "lhs", Text: joinText(toks[:opIdx])},
		{Name: "op", Text: toks[opIdx].Token.Text},
		{Name: "rhs", Text: joinText(toks[opIdx+1:])},
	}
}

// splitCaseItem handles `expr, expr : statement;` and `default: statement;`.
func splitCaseItem(row *partition.Partition, _, _ bool) []Cell {
	toks, _ := trailingCommentText(row.Tokens)
	depth := 0
	colonIdx := -1
	for i, ft := range toks {
		switch ft.Token.Kind {
		case token.LeftParen, token.LeftBracket, token.LeftBrace:
			depth++
		case token.RightParen, token.RightBracket, token.RightBrace:
			depth--
		case token.Colon:
			if depth == 0 {
				colonIdx = i
			}
		}
		if colonIdx != -1 {
			break
		}
	}
	if colonIdx == -1 {
		return []Cell{{Name: "body", Text: joinText(toks)}}
	}
	return []Cell{
		{Name: "expr", Text: joinText(toks[:colonIdx])},
		{Name: "colon", Text: ":"},
		{Name: "stmt", Text: joinText(toks[colonIdx+1:])},
	}
}

// splitEnumMember handles `NAME [= expr][,]`.
func splitEnumMember(row *partition.Partition, _, _ bool) []Cell {
	toks, _ := trailingCommentText(row.Tokens)
	if len(toks) == 0 {
		return nil
	}
	eqIdx := -1
	for i, ft := range toks {
		if ft.Token.Kind == token.Operator && ft.Token.Text == "=" {
			eqIdx = i
			break
		}
	}
	if eqIdx == -1 {
		return []Cell{{Name: "name", Text: toks[0].Token.Text}, {Name: "init", Text: ""}}
	}
	return []Cell{
		{Name: "name", Text: joinText(toks[:eqIdx])},
		{Name: "op", Text: "="},
		{Name: "init", Text: joinText(toks[eqIdx+1:])},
	}
}

// splitDistItem handles `expr :/ weight` and `expr := weight`.
func splitDistItem(row *partition.Partition, _, _ bool) []Cell {
	toks, _ := trailingCommentText(row.Tokens)
	opIdx := -1
	for i, ft := range toks {
		if ft.Token.Kind == token.DistWeightColonSlash || ft.Token.Kind == token.DistWeightColonEq {
			opIdx = i
			break
		}
	}
	if opIdx == -1 {
		return []Cell{{Name: "body", Text: joinText(toks)}}
	}
	return []Cell{
		{Name: "expr", Text: joinText(toks[:opIdx])},
		{Name: "op", Text: toks[opIdx].Token.Text},
		{Name: "weight", Text: joinText(toks[opIdx+1:])},
	}
}
