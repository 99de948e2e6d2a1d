package partition

import (
	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/ferrors"
	"github.com/hdlfmt/svfmt/token"
)

// dispatch is a table keyed on the node's NodeEnum that chooses a
// PartitionPolicy. It is data, not code, so adding a construct is a table
// entry rather than a new branch.
var dispatch = map[cst.Kind]Policy{
	cst.SourceFile:           AlwaysExpand,
	cst.ModuleDeclaration:    AlwaysExpand,
	cst.InterfaceDeclaration: AlwaysExpand,
	cst.ClassDeclaration:     AlwaysExpand,
	cst.PackageDeclaration:   AlwaysExpand,
	cst.ModuleHeader:         FitElseExpand,

	cst.PortDeclarationList: TabularAlignment,
	cst.ParameterPortList:   TabularAlignment,
	cst.ArgumentList:        TabularAlignment,

	cst.StructUnionDeclaration: TabularAlignment,
	cst.EnumDeclaration:        TabularAlignment,
	cst.BeginEndBlock:          TabularAlignment,
	cst.DistList:                TabularAlignment,

	cst.CaseStatement: AlwaysExpand,

	cst.IfStatement:       FitElseExpand,
	cst.ForStatement:      FitElseExpand,
	cst.WhileStatement:    FitElseExpand,
	cst.ForeachStatement:  FitElseExpand,
	cst.RepeatStatement:   FitElseExpand,
	cst.ForeverStatement:  FitElseExpand,

	cst.FunctionDeclaration: AlwaysExpand,
	cst.TaskDeclaration:     AlwaysExpand,

	cst.MacroCall: AppendFittingSubPartitions,

	// Grammar constructs whose body may itself hold a full statement (an
	// "else" body, a case branch): these must stay interior nodes so the
	// builder recurses into that body instead of folding it, CST-token by
	// CST-token, into a single row leaf.
	cst.ElseClause: AppendFittingSubPartitions,
	cst.CaseItem:   AppendFittingSubPartitions,
}

// flatContainers are interior node kinds whose children sit at the SAME
// indentation as the container: either the container is a same-line
// structural subdivision of a header (ModuleHeader, a port/parameter/
// argument list), or its body is a single nested construct that carries its
// own indentation recursively once it is itself built (an if/for/while
// head's condition and then/else body, a case item's label and statement, a
// macro call's arguments).
var flatContainers = map[cst.Kind]bool{
	cst.SourceFile:           true,
	cst.ModuleHeader:         true,
	cst.PortDeclarationList:  true,
	cst.ParameterPortList:    true,
	cst.ArgumentList:         true,
	cst.IfStatement:          true,
	cst.ForStatement:         true,
	cst.WhileStatement:       true,
	cst.ForeachStatement:     true,
	cst.RepeatStatement:      true,
	cst.ForeverStatement:     true,
	cst.ElseClause:           true,
	cst.CaseItem:             true,
	cst.MacroCall:            true,
}

// rowIndentedContainers are interior node kinds whose glue tokens (the
// header keyword, an opening/closing brace or begin/end) sit at the
// container's own indentation while its row/member/statement children step
// in one level, e.g. a module body relative to "module ... ;", or a case
// item relative to "case (sel)".
var rowIndentedContainers = map[cst.Kind]bool{
	cst.ModuleDeclaration:      true,
	cst.InterfaceDeclaration:   true,
	cst.ClassDeclaration:       true,
	cst.PackageDeclaration:     true,
	cst.FunctionDeclaration:    true,
	cst.TaskDeclaration:        true,
	cst.CaseStatement:          true,
	cst.BeginEndBlock:          true,
	cst.StructUnionDeclaration: true,
	cst.EnumDeclaration:        true,
	cst.DistList:               true,
}

// leafKinds are node kinds that the builder always folds into a single leaf
// partition: port and parameter declarations, named parameter or port
// connections, data and class member declarations, struct/union and enum
// members, continuous and procedural assignments, dist items, preprocessor
// directives, and comments. Headers, case items and begin/end blocks are
// not in this table; dispatch builds them as interior partitions.
var leafKinds = map[cst.Kind]bool{
	cst.PortDeclaration:          true,
	cst.ParameterDeclaration:     true,
	cst.NamedParameterAssignment: true,
	cst.NamedPortConnection:      true,
	cst.DataDeclaration:          true,
	cst.ClassMemberDeclaration:   true,
	cst.StructUnionMember:        true,
	cst.EnumMember:               true,
	cst.ContinuousAssign:         true,
	cst.ProceduralAssign:         true,
	cst.DistItem:                 true,
	cst.PreprocessorDirective:    true,
	cst.LineComment:              true,
	cst.BlockComment:             true,
}

// Builder converts a (TokenStream, CST) pair into a root Partition.
type Builder struct {
	Stream        *token.Stream
	IndentSpaces  int // FormatStyle.IndentationSpaces
	onUnsupported func(ferrors.UnsupportedToken)
}

// NewBuilder constructs a Builder. onUnsupported is stored on the Builder,
// but the build never calls it: token kinds are not checked, and a node of
// unknown kind is folded into a leaf without a report.
func NewBuilder(stream *token.Stream, indentSpaces int, onUnsupported func(ferrors.UnsupportedToken)) *Builder {
	return &Builder{Stream: stream, IndentSpaces: indentSpaces, onUnsupported: onUnsupported}
}

// Build walks root top-down and returns the partition tree covering it.
func (b *Builder) Build(root *cst.Node) (*Partition, error) {
	return b.build(root, 0)
}

func (b *Builder) build(n *cst.Node, depth int) (*Partition, error) {
	if n == nil {
		return nil, ferrors.InternalInvariantViolated{Message: "nil CST node reached by builder"}
	}

	origin := Origin{NodeKind: n.Kind}
	if t, ok := cst.FirstToken(n, b.Stream); ok {
		origin.FirstText = t.Text
	}

	indent := depth * b.IndentSpaces

	if n.Kind == cst.Token {
		tok, ok := b.Stream.At(n.TokenIndex)
		if !ok {
			return nil, ferrors.InternalInvariantViolated{
				Message: "CST leaf references a token index outside the token stream",
			}
		}
		return NewLeaf(indent, origin, []FormattedToken{{Token: tok}}), nil
	}

	if n.Kind == cst.PreprocessorDirective {
		p, err := b.foldLeaf(n, 0)
		if err != nil {
			return nil, err
		}
		p.DirectiveFlush = true
		p.IndentationSpaces = 0
		return p, nil
	}

	if leafKinds[n.Kind] {
		return b.foldLeaf(n, indent)
	}

	policy, known := dispatch[n.Kind]
	if !known {
		// No rule-table entry: treat as an opaque pass-through leaf rather
		// than aborting, matching the "recoverable warning" posture given
		// to unknown token kinds in §4.2; an unknown *node* kind is
		// likewise folded rather than failing the whole file.
		return b.foldLeaf(n, indent)
	}

	children := make([]*Partition, 0, len(n.Children))
	for _, c := range n.Children {
		cd := depth
		switch {
		case flatContainers[n.Kind]:
			cd = depth
		case rowIndentedContainers[n.Kind]:
			// A module/interface's header is its own declaration line, not
			// a body row, even though it is a sub-interior rather than a
			// bare token; everything else non-token-kind here is a genuine
			// member/statement row.
			if c.Kind != cst.Token && c.Kind != cst.ModuleHeader {
				cd = depth + 1
			}
		default:
			cd = depth + 1
		}
		cp, err := b.build(c, cd)
		if err != nil {
			return nil, err
		}
		children = append(children, cp)
	}

	return NewInterior(indent, origin, policy, coalesceGlueRuns(children)...), nil
}

// coalesceGlueRuns merges consecutive raw single-token children (the
// "module", name, "begin", "(", condition, ")" style glue produced by direct
// parser leaf() calls) into one leaf partition, the same way foldLeaf merges
// a whole declaration row. Without this, the annotator never sees adjacent
// glue tokens as one token run and can't compute the spacing or the
// must-append break between them (§4.2 only annotates within a leaf).
func coalesceGlueRuns(children []*Partition) []*Partition {
	out := make([]*Partition, 0, len(children))
	for _, c := range children {
		if n := len(out); n > 0 && isGlueLeaf(out[n-1]) && isGlueLeaf(c) {
			out[n-1].Tokens = append(out[n-1].Tokens, c.Tokens...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// isGlueLeaf reports whether p is a raw single-token leaf built directly from
// a cst.Token node, as opposed to a folded declaration/statement row.
func isGlueLeaf(p *Partition) bool {
	return p.Leaf && !p.Opaque && p.Origin.NodeKind == cst.Token
}

// foldLeaf flattens every token under n (in order) into a single leaf
// partition, the way the builder folds e.g. a whole PortDeclaration or
// ContinuousAssign into one row.
func (b *Builder) foldLeaf(n *cst.Node, indent int) (*Partition, error) {
	var toks []FormattedToken
	var walkErr error
	cst.Inspect(n, func(node *cst.Node, _ *cst.Node) bool {
		if walkErr != nil {
			return false
		}
		if node.Kind != cst.Token {
			return true
		}
		t, ok := b.Stream.At(node.TokenIndex)
		if !ok {
			walkErr = ferrors.InternalInvariantViolated{
				Message: "CST leaf references a token index outside the token stream",
			}
			return false
		}
		toks = append(toks, FormattedToken{Token: t})
		return false
	})
	if walkErr != nil {
		return nil, walkErr
	}

	origin := Origin{NodeKind: n.Kind}
	if len(toks) > 0 {
		origin.FirstText = toks[0].Token.Text
	}
	return NewLeaf(indent, origin, toks), nil
}
