// Package cst defines the concrete-syntax-tree data model the format engine
// walks. The lexer/parser that produces a tree of *Node from source text is
// out of scope for this package (see package frontend for a minimal
// reference implementation); cst only owns the tree shape and the walking
// utilities built on top of it.
package cst

import "github.com/hdlfmt/svfmt/token"

// Kind is the grammar-role tag of an interior Node. The set is closed: the
// unwrapped-line builder's dispatch table (package partition) is keyed on
// exactly these values, so a frontend must translate whatever grammar it
// implements into this vocabulary.
type Kind int

const (
	Invalid Kind = iota

	// Tokens are leaf nodes; the unwrapped-line builder folds a run of
	// leaf nodes into a single partition's FormattedToken slice.
	Token

	SourceFile
	ModuleDeclaration
	InterfaceDeclaration
	ClassDeclaration
	PackageDeclaration
	ModuleHeader // name + port list, before the first item
	PortDeclarationList
	PortDeclaration
	ParameterPortList // #( ... ) on a module/class header
	ParameterDeclaration
	NamedParameterAssignment // .P(x) in an instantiation
	NamedPortConnection      // .p(x) in an instantiation
	ArgumentList             // wraps a list of NamedParameterAssignment/NamedPortConnection children

	DataDeclaration // net/variable declaration at module or class scope
	ClassMemberDeclaration
	StructUnionDeclaration
	StructUnionMember
	EnumDeclaration
	EnumMember
	TypedefDeclaration

	ContinuousAssign
	ProceduralAssign // blocking or non-blocking, inside a begin/end
	BeginEndBlock
	Statement
	IfStatement
	ElseClause
	CaseStatement
	CaseItem
	ForStatement
	WhileStatement
	ForeachStatement
	RepeatStatement
	ForeverStatement

	DistList
	DistItem

	FunctionDeclaration
	TaskDeclaration

	MacroCall
	PreprocessorDirective

	LineComment
	BlockComment
)

//go:generate stringer -type=Kind

var kindNames = map[Kind]string{
	Invalid:                  "Invalid",
	Token:                    "Token",
	SourceFile:               "SourceFile",
	ModuleDeclaration:        "ModuleDeclaration",
	InterfaceDeclaration:     "InterfaceDeclaration",
	ClassDeclaration:         "ClassDeclaration",
	PackageDeclaration:       "PackageDeclaration",
	ModuleHeader:             "ModuleHeader",
	PortDeclarationList:      "PortDeclarationList",
	PortDeclaration:          "PortDeclaration",
	ParameterPortList:        "ParameterPortList",
	ParameterDeclaration:     "ParameterDeclaration",
	NamedParameterAssignment: "NamedParameterAssignment",
	NamedPortConnection:      "NamedPortConnection",
	ArgumentList:             "ArgumentList",
	DataDeclaration:          "DataDeclaration",
	ClassMemberDeclaration:   "ClassMemberDeclaration",
	StructUnionDeclaration:   "StructUnionDeclaration",
	StructUnionMember:        "StructUnionMember",
	EnumDeclaration:          "EnumDeclaration",
	EnumMember:               "EnumMember",
	TypedefDeclaration:       "TypedefDeclaration",
	ContinuousAssign:         "ContinuousAssign",
	ProceduralAssign:         "ProceduralAssign",
	BeginEndBlock:            "BeginEndBlock",
	Statement:                "Statement",
	IfStatement:              "IfStatement",
	ElseClause:               "ElseClause",
	CaseStatement:            "CaseStatement",
	CaseItem:                 "CaseItem",
	ForStatement:             "ForStatement",
	WhileStatement:           "WhileStatement",
	ForeachStatement:         "ForeachStatement",
	RepeatStatement:          "RepeatStatement",
	ForeverStatement:         "ForeverStatement",
	DistList:                 "DistList",
	DistItem:                 "DistItem",
	FunctionDeclaration:      "FunctionDeclaration",
	TaskDeclaration:          "TaskDeclaration",
	MacroCall:                "MacroCall",
	PreprocessorDirective:    "PreprocessorDirective",
	LineComment:              "LineComment",
	BlockComment:             "BlockComment",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}

// Node is a tagged tree node. A leaf (Kind == Token) references a single
// index into the TokenStream the tree was built alongside; an interior node
// carries an ordered list of Children and no direct token reference.
type Node struct {
	Kind Kind

	// TokenIndex is meaningful only when Kind == Token: the index into the
	// sibling TokenStream.Tokens this leaf refers to.
	TokenIndex int

	Children []*Node

	// Start/End are byte offsets spanned by this node. The unwrapped-line
	// builder does not read them; it raises InternalInvariantViolated only
	// for a leaf whose TokenIndex lies outside the token stream.
	Start, End int
}

// Leaf constructs a Token-kind leaf node referencing tokenIndex.
func Leaf(tokenIndex int, start, end int) *Node {
	return &Node{Kind: Token, TokenIndex: tokenIndex, Start: start, End: end}
}

// NewNode constructs an interior node of the given kind over children,
// computing Start/End as the span of its children.
func NewNode(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind, Children: children}
	for i, c := range children {
		if i == 0 {
			n.Start = c.Start
		}
		n.End = c.End
	}
	return n
}

// Visitor is called once per node during Walk, in the style of go/ast's
// ast.Visitor: returning nil stops descent into n's children; any non-nil
// Visitor continues the walk using that visitor (which may be v itself).
type Visitor interface {
	Visit(n *Node, parent *Node) Visitor
}

// VisitorFunc adapts a plain function to a Visitor, mirroring
// ast.Inspect's closure-based walking convenience.
type VisitorFunc func(n *Node, parent *Node) bool

func (f VisitorFunc) Visit(n *Node, parent *Node) Visitor {
	if f(n, parent) {
		return f
	}
	return nil
}

// Walk traverses the tree rooted at n in source order, depth first,
// tracking the immediate parent of each visited node the same way the
// teacher's goparser.CallVisitor built a parentMap while walking a Go AST.
func Walk(v Visitor, n *Node) {
	walk(v, n, nil)
}

func walk(v Visitor, n *Node, parent *Node) {
	if n == nil {
		return
	}
	v2 := v.Visit(n, parent)
	if v2 == nil {
		return
	}
	for _, c := range n.Children {
		walk(v2, c, n)
	}
}

// Inspect is the ast.Inspect-style convenience: f is called for n and
// recursively for each child as long as f returns true.
func Inspect(n *Node, f func(n *Node, parent *Node) bool) {
	Walk(VisitorFunc(f), n)
}

// FirstToken returns the first leaf token under n, and false if n has none.
func FirstToken(n *Node, stream *token.Stream) (token.Token, bool) {
	var found token.Token
	ok := false
	Inspect(n, func(node *Node, _ *Node) bool {
		if ok {
			return false
		}
		if node.Kind == Token {
			if t, present := stream.At(node.TokenIndex); present {
				found, ok = t, true
			}
			return false
		}
		return true
	})
	return found, ok
}
