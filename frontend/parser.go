package frontend

import (
	"fmt"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/token"
	"github.com/hdlfmt/svfmt/verify"
)

// Parser is a recursive-descent parser over a token.Stream, producing the
// cst.Node vocabulary package cst defines.
type Parser struct {
	toks []token.Token
	idx  []int // indices into toks of non-whitespace, non-comment tokens
	pos  int   // cursor into idx
}

// NewParser returns a stateless Parser ready for repeated Parse calls; each
// call builds its own cursor state internally.
func NewParser() *Parser { return &Parser{} }

// Parse implements verify.Parser.
func (p *Parser) Parse(stream *token.Stream, mode verify.ParseMode) (*cst.Node, error) {
	pp := newParser(stream)
	switch mode {
	case verify.ParseAsStatements:
		return pp.parseStatementList()
	case verify.ParseAsModuleBody:
		return pp.parseModuleBodyOnly()
	default:
		return pp.parseSourceFile()
	}
}

func newParser(stream *token.Stream) *Parser {
	p := &Parser{toks: stream.Tokens}
	for i, t := range stream.Tokens {
		if !t.Kind.IsWhitespaceOrComment() {
			p.idx = append(p.idx, i)
		} else if t.Kind == token.LineComment || t.Kind == token.BlockComment {
			p.idx = append(p.idx, i)
		}
	}
	return p
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.idx) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.idx[p.pos]]
}

func (p *Parser) curTokenIndex() int {
	if p.pos >= len(p.idx) {
		return len(p.toks) - 1
	}
	return p.idx[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.idx) {
		p.pos++
	}
	return t
}

func (p *Parser) leaf() *cst.Node {
	i := p.curTokenIndex()
	t := p.toks[i]
	n := cst.Leaf(i, t.Offset.Start, t.Offset.End)
	p.advance()
	return n
}

func (p *Parser) is(kind token.Kind) bool { return p.cur().Kind == kind }
func (p *Parser) isText(text string) bool { return p.cur().Text == text }
func (p *Parser) isKeyword(kw string) bool {
	return p.cur().Kind == token.Keyword && p.cur().Text == kw
}

func (p *Parser) expect(kind token.Kind) (*cst.Node, error) {
	if !p.is(kind) {
		return nil, fmt.Errorf("%s: expected %s, got %s %q", p.posStr(), kind, p.cur().Kind, p.cur().Text)
	}
	return p.leaf(), nil
}

func (p *Parser) posStr() string {
	t := p.cur()
	return fmt.Sprintf("%d:%d", t.Line, t.Col)
}

func (p *Parser) isComment() bool {
	return p.is(token.LineComment) || p.is(token.BlockComment)
}

// collectComments consumes any run of comment tokens, wrapping each in its
// own leaf node (they are leaf kinds in the builder's leafKinds table).
func (p *Parser) collectComments() []*cst.Node {
	var out []*cst.Node
	for p.isComment() {
		kind := cst.LineComment
		if p.is(token.BlockComment) {
			kind = cst.BlockComment
		}
		i := p.curTokenIndex()
		t := p.toks[i]
		out = append(out, cst.NewNode(kind, cst.Leaf(i, t.Offset.Start, t.Offset.End)))
		p.advance()
	}
	return out
}

// parseSourceFile parses zero or more top-level declarations until EOF.
func (p *Parser) parseSourceFile() (*cst.Node, error) {
	var children []*cst.Node
	for !p.is(token.EOF) {
		children = append(children, p.collectComments()...)
		if p.is(token.EOF) {
			break
		}
		n, err := p.parseTopLevelItem()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return cst.NewNode(cst.SourceFile, children...), nil
}

func (p *Parser) parseModuleBodyOnly() (*cst.Node, error) {
	var children []*cst.Node
	for !p.is(token.EOF) {
		children = append(children, p.collectComments()...)
		if p.is(token.EOF) {
			break
		}
		n, err := p.parseModuleItem()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return cst.NewNode(cst.SourceFile, children...), nil
}

func (p *Parser) parseStatementList() (*cst.Node, error) {
	var children []*cst.Node
	for !p.is(token.EOF) {
		children = append(children, p.collectComments()...)
		if p.is(token.EOF) {
			break
		}
		n, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return cst.NewNode(cst.SourceFile, children...), nil
}

func (p *Parser) parseTopLevelItem() (*cst.Node, error) {
	switch {
	case p.isKeyword("module") || p.isKeyword("interface"):
		return p.parseModuleLike()
	case p.isKeyword("class"):
		return p.parseClass()
	case p.isKeyword("package"):
		return p.parsePackage()
	case p.is(token.Directive):
		return p.parsePreprocessorOrMacro()
	default:
		return p.parseModuleItem()
	}
}

// parseModuleLike handles both `module` and `interface` declarations, which
// share a header/body/endX shape.
func (p *Parser) parseModuleLike() (*cst.Node, error) {
	isInterface := p.isKeyword("interface")
	header, err := p.parseModuleHeader()
	if err != nil {
		return nil, err
	}
	var body []*cst.Node
	endKw := "endmodule"
	if isInterface {
		endKw = "endinterface"
	}
	for !p.isKeyword(endKw) && !p.is(token.EOF) {
		body = append(body, p.collectComments()...)
		if p.isKeyword(endKw) || p.is(token.EOF) {
			break
		}
		item, err := p.parseModuleItem()
		if err != nil {
			return nil, err
		}
		body = append(body, item)
	}
	endLeaf, err := p.expect(token.Keyword)
	if err != nil {
		return nil, err
	}
	kind := cst.ModuleDeclaration
	if isInterface {
		kind = cst.InterfaceDeclaration
	}
	children := append([]*cst.Node{header}, body...)
	children = append(children, endLeaf)
	return cst.NewNode(kind, children...), nil
}

// parseModuleHeader parses `module NAME #(params) (ports);` (or
// `interface NAME ...`), folding the whole header into one ModuleHeader
// node — except the port list and parameter list, which stay structured so
// the alignment engine can find their rows.
func (p *Parser) parseModuleHeader() (*cst.Node, error) {
	kw := p.leaf() // module/interface
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	children := []*cst.Node{kw, name}

	if p.is(token.Hash) {
		hash := p.leaf()
		paramList, err := p.parseParenList(cst.ParameterPortList, p.parseParameterDeclaration)
		if err != nil {
			return nil, err
		}
		children = append(children, hash, paramList)
	}

	if p.is(token.LeftParen) {
		portList, err := p.parseParenList(cst.PortDeclarationList, p.parsePortDeclaration)
		if err != nil {
			return nil, err
		}
		children = append(children, portList)
	}

	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	children = append(children, semi)
	return cst.NewNode(cst.ModuleHeader, children...), nil
}

// parseParenList parses `( item, item, ... )` generically: each item is
// produced by itemFn, which must stop before the following ',' or ')'.
func (p *Parser) parseParenList(kind cst.Kind, itemFn func() (*cst.Node, error)) (*cst.Node, error) {
	open, err := p.expect(token.LeftParen)
	if err != nil {
		return nil, err
	}
	children := []*cst.Node{open}
	for !p.is(token.RightParen) && !p.is(token.EOF) {
		children = append(children, p.collectComments()...)
		if p.is(token.RightParen) {
			break
		}
		item, err := itemFn()
		if err != nil {
			return nil, err
		}
		if p.is(token.Comma) {
			item.Children = append(item.Children, p.leaf())
		}
		children = append(children, item)
	}
	close, err := p.expect(token.RightParen)
	if err != nil {
		return nil, err
	}
	children = append(children, close)
	return cst.NewNode(kind, children...), nil
}

// collectRowUntil folds tokens into leaves up to (not including) a comma or
// the given closing kind, used by the several "fold everything into one row
// leaf" constructs (ports, params, data decls, ...).
func (p *Parser) collectRowUntil(closers ...token.Kind) []*cst.Node {
	var leaves []*cst.Node
	depth := 0
	for !p.is(token.EOF) {
		if depth == 0 {
			if p.is(token.Comma) {
				break
			}
			stop := false
			for _, c := range closers {
				if p.is(c) {
					stop = true
					break
				}
			}
			if stop {
				break
			}
		}
		switch p.cur().Kind {
		case token.LeftParen, token.LeftBracket, token.LeftBrace:
			depth++
		case token.RightParen, token.RightBracket, token.RightBrace:
			if depth > 0 {
				depth--
			}
		}
		leaves = append(leaves, p.leaf())
	}
	return leaves
}

func (p *Parser) parsePortDeclaration() (*cst.Node, error) {
	row := p.collectRowUntil(token.RightParen)
	return cst.NewNode(cst.PortDeclaration, row...), nil
}

func (p *Parser) parseParameterDeclaration() (*cst.Node, error) {
	row := p.collectRowUntil(token.RightParen)
	return cst.NewNode(cst.ParameterDeclaration, row...), nil
}

func (p *Parser) parseModuleItem() (*cst.Node, error) {
	switch {
	case p.isKeyword("parameter") || p.isKeyword("localparam"):
		return p.parseDataDeclarationLike(cst.DataDeclaration)
	case p.isKeyword("assign"):
		return p.parseContinuousAssign()
	case p.isKeyword("always") || p.isKeyword("always_comb") || p.isKeyword("always_ff") || p.isKeyword("always_latch") || p.isKeyword("initial") || p.isKeyword("final"):
		return p.parseProceduralBlockHeaderAndBody()
	case p.isKeyword("typedef") && p.peekIsKeyword(1, "struct"):
		return p.parseStructUnion(true)
	case p.isKeyword("typedef") && p.peekIsKeyword(1, "union"):
		return p.parseStructUnion(true)
	case p.isKeyword("typedef") && p.peekIsKeyword(1, "enum"):
		return p.parseEnum(true)
	case p.isKeyword("struct") || p.isKeyword("union"):
		return p.parseStructUnion(false)
	case p.isKeyword("enum"):
		return p.parseEnum(false)
	case p.is(token.Directive):
		return p.parsePreprocessorOrMacro()
	default:
		return p.parseDataDeclarationLike(cst.DataDeclaration)
	}
}

func (p *Parser) peekIsKeyword(offset int, kw string) bool {
	if p.pos+offset >= len(p.idx) {
		return false
	}
	t := p.toks[p.idx[p.pos+offset]]
	return t.Kind == token.Keyword && t.Text == kw
}

// parseDataDeclarationLike folds a net/variable/parameter declaration
// statement into one row leaf, up to and including its terminating `;`.
func (p *Parser) parseDataDeclarationLike(kind cst.Kind) (*cst.Node, error) {
	row := p.collectRowUntil(token.Semicolon)
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	row = append(row, semi)
	return cst.NewNode(kind, row...), nil
}

func (p *Parser) parseContinuousAssign() (*cst.Node, error) {
	row := p.collectRowUntil(token.Semicolon)
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	row = append(row, semi)
	return cst.NewNode(cst.ContinuousAssign, row...), nil
}

// parseProceduralBlockHeaderAndBody handles `always[_comb|_ff|_latch] @(...)
// begin ... end` and `initial begin ... end`, folding the header (keyword
// plus optional sensitivity list) as leading leaves of a BeginEndBlock.
func (p *Parser) parseProceduralBlockHeaderAndBody() (*cst.Node, error) {
	var header []*cst.Node
	header = append(header, p.leaf()) // always*/initial/final
	if p.is(token.At) {
		header = append(header, p.leaf())
		if p.is(token.LeftParen) {
			for !p.is(token.RightParen) && !p.is(token.EOF) {
				header = append(header, p.leaf())
			}
			if p.is(token.RightParen) {
				header = append(header, p.leaf())
			}
		}
	}
	if !p.isKeyword("begin") {
		// Single statement body with no begin/end.
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return cst.NewNode(cst.BeginEndBlock, append(header, stmt)...), nil
	}
	block, err := p.parseBeginEnd()
	if err != nil {
		return nil, err
	}
	block.Children = append(header, block.Children...)
	return block, nil
}

func (p *Parser) parseBeginEnd() (*cst.Node, error) {
	beginKw, err := expectKeyword(p, "begin")
	if err != nil {
		return nil, err
	}
	children := []*cst.Node{beginKw}
	for !p.isKeyword("end") && !p.is(token.EOF) {
		children = append(children, p.collectComments()...)
		if p.isKeyword("end") || p.is(token.EOF) {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		children = append(children, stmt)
	}
	endKw, err := expectKeyword(p, "end")
	if err != nil {
		return nil, err
	}
	children = append(children, endKw)
	return cst.NewNode(cst.BeginEndBlock, children...), nil
}

func expectKeyword(p *Parser, kw string) (*cst.Node, error) {
	if !p.isKeyword(kw) {
		return nil, fmt.Errorf("%s: expected keyword %q, got %q", p.posStr(), kw, p.cur().Text)
	}
	return p.leaf(), nil
}

func (p *Parser) parseStatement() (*cst.Node, error) {
	switch {
	case p.isKeyword("if"):
		return p.parseIfStatement()
	case p.isKeyword("case") || p.isKeyword("casex") || p.isKeyword("casez"):
		return p.parseCaseStatement()
	case p.isKeyword("begin"):
		return p.parseBeginEnd()
	case p.is(token.Directive):
		return p.parsePreprocessorOrMacro()
	default:
		return p.parseProceduralAssignOrExpr()
	}
}

func (p *Parser) parseIfStatement() (*cst.Node, error) {
	ifKw := p.leaf()
	children := []*cst.Node{ifKw}
	open, err := p.expect(token.LeftParen)
	if err != nil {
		return nil, err
	}
	children = append(children, open)
	for !p.is(token.RightParen) && !p.is(token.EOF) {
		children = append(children, p.leaf())
	}
	close, err := p.expect(token.RightParen)
	if err != nil {
		return nil, err
	}
	children = append(children, close)

	thenStmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	children = append(children, thenStmt)

	if p.isKeyword("else") {
		elseKw := p.leaf()
		var elseBody *cst.Node
		if p.isKeyword("if") {
			elseBody, err = p.parseIfStatement()
		} else {
			elseBody, err = p.parseStatement()
		}
		if err != nil {
			return nil, err
		}
		elseClause := cst.NewNode(cst.ElseClause, elseKw, elseBody)
		children = append(children, elseClause)
	}
	return cst.NewNode(cst.IfStatement, children...), nil
}

func (p *Parser) parseCaseStatement() (*cst.Node, error) {
	caseKw := p.leaf()
	children := []*cst.Node{caseKw}
	open, err := p.expect(token.LeftParen)
	if err != nil {
		return nil, err
	}
	children = append(children, open)
	for !p.is(token.RightParen) && !p.is(token.EOF) {
		children = append(children, p.leaf())
	}
	close, err := p.expect(token.RightParen)
	if err != nil {
		return nil, err
	}
	children = append(children, close)

	for !p.isKeyword("endcase") && !p.is(token.EOF) {
		children = append(children, p.collectComments()...)
		if p.isKeyword("endcase") || p.is(token.EOF) {
			break
		}
		item, err := p.parseCaseItem()
		if err != nil {
			return nil, err
		}
		children = append(children, item)
	}
	endKw, err := expectKeyword(p, "endcase")
	if err != nil {
		return nil, err
	}
	children = append(children, endKw)
	return cst.NewNode(cst.CaseStatement, children...), nil
}

func (p *Parser) parseCaseItem() (*cst.Node, error) {
	var left []*cst.Node
	for !p.is(token.Colon) && !p.is(token.EOF) {
		left = append(left, p.leaf())
	}
	colon, err := p.expect(token.Colon)
	if err != nil {
		return nil, err
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	children := append(left, colon, stmt)
	return cst.NewNode(cst.CaseItem, children...), nil
}

func (p *Parser) parseProceduralAssignOrExpr() (*cst.Node, error) {
	row := p.collectRowUntil(token.Semicolon)
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	row = append(row, semi)
	return cst.NewNode(cst.ProceduralAssign, row...), nil
}

// parseStructUnion parses `[typedef] struct|union packed? { member; ... }
// [name];`.
func (p *Parser) parseStructUnion(isTypedef bool) (*cst.Node, error) {
	var children []*cst.Node
	if isTypedef {
		children = append(children, p.leaf())
	}
	children = append(children, p.leaf()) // struct/union
	if p.isKeyword("packed") {
		children = append(children, p.leaf())
	}
	if p.isKeyword("signed") || p.isKeyword("unsigned") {
		children = append(children, p.leaf())
	}
	open, err := p.expect(token.LeftBrace)
	if err != nil {
		return nil, err
	}
	members := []*cst.Node{open}
	for !p.is(token.RightBrace) && !p.is(token.EOF) {
		members = append(members, p.collectComments()...)
		if p.is(token.RightBrace) {
			break
		}
		m, err := p.parseStructMember()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	close, err := p.expect(token.RightBrace)
	if err != nil {
		return nil, err
	}
	members = append(members, close)
	children = append(children, members...)

	for !p.is(token.Semicolon) && !p.is(token.EOF) {
		children = append(children, p.leaf())
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	children = append(children, semi)
	return cst.NewNode(cst.StructUnionDeclaration, children...), nil
}

func (p *Parser) parseStructMember() (*cst.Node, error) {
	row := p.collectRowUntil(token.Semicolon)
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	row = append(row, semi)
	return cst.NewNode(cst.StructUnionMember, row...), nil
}

// parseEnum parses `[typedef] enum [base_type] { member, ... } [name];`.
func (p *Parser) parseEnum(isTypedef bool) (*cst.Node, error) {
	var children []*cst.Node
	if isTypedef {
		children = append(children, p.leaf())
	}
	children = append(children, p.leaf()) // enum
	for !p.is(token.LeftBrace) && !p.is(token.EOF) {
		children = append(children, p.leaf())
	}
	open, err := p.expect(token.LeftBrace)
	if err != nil {
		return nil, err
	}
	members := []*cst.Node{open}
	for !p.is(token.RightBrace) && !p.is(token.EOF) {
		members = append(members, p.collectComments()...)
		if p.is(token.RightBrace) {
			break
		}
		m, err := p.parseEnumMember()
		if err != nil {
			return nil, err
		}
		if p.is(token.Comma) {
			m.Children = append(m.Children, p.leaf())
		}
		members = append(members, m)
	}
	close, err := p.expect(token.RightBrace)
	if err != nil {
		return nil, err
	}
	members = append(members, close)
	children = append(children, members...)

	for !p.is(token.Semicolon) && !p.is(token.EOF) {
		children = append(children, p.leaf())
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	children = append(children, semi)
	return cst.NewNode(cst.EnumDeclaration, children...), nil
}

func (p *Parser) parseEnumMember() (*cst.Node, error) {
	row := p.collectRowUntil(token.RightBrace)
	return cst.NewNode(cst.EnumMember, row...), nil
}

// parseDistItem parses one `expr :/ weight` or `expr := weight` entry of a
// `dist { ... }` list.
func (p *Parser) parseDistItem() (*cst.Node, error) {
	row := p.collectRowUntil(token.RightBrace)
	return cst.NewNode(cst.DistItem, row...), nil
}

// parseClass parses a minimal `class NAME ... endclass` body of data/member
// declarations, reusing parseModuleItem's dispatch for the member list.
func (p *Parser) parseClass() (*cst.Node, error) {
	kw := p.leaf()
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	semiOrBody := []*cst.Node{kw, name}
	if p.is(token.Semicolon) {
		semiOrBody = append(semiOrBody, p.leaf())
	}
	var body []*cst.Node
	for !p.isKeyword("endclass") && !p.is(token.EOF) {
		body = append(body, p.collectComments()...)
		if p.isKeyword("endclass") || p.is(token.EOF) {
			break
		}
		item, err := p.parseClassMember()
		if err != nil {
			return nil, err
		}
		body = append(body, item)
	}
	endKw, err := expectKeyword(p, "endclass")
	if err != nil {
		return nil, err
	}
	children := append(semiOrBody, body...)
	children = append(children, endKw)
	return cst.NewNode(cst.ClassDeclaration, children...), nil
}

func (p *Parser) parseClassMember() (*cst.Node, error) {
	row := p.collectRowUntil(token.Semicolon)
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	row = append(row, semi)
	return cst.NewNode(cst.ClassMemberDeclaration, row...), nil
}

func (p *Parser) parsePackage() (*cst.Node, error) {
	kw := p.leaf()
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return nil, err
	}
	children := []*cst.Node{kw, name, semi}
	for !p.isKeyword("endpackage") && !p.is(token.EOF) {
		children = append(children, p.collectComments()...)
		if p.isKeyword("endpackage") || p.is(token.EOF) {
			break
		}
		item, err := p.parseModuleItem()
		if err != nil {
			return nil, err
		}
		children = append(children, item)
	}
	endKw, err := expectKeyword(p, "endpackage")
	if err != nil {
		return nil, err
	}
	children = append(children, endKw)
	return cst.NewNode(cst.PackageDeclaration, children...), nil
}

// parsePreprocessorOrMacro distinguishes a bare directive (`ifdef, `define,
// ... up to end of line) from a macro call (`NAME(args...)`) by whether a
// '(' immediately follows the directive token.
func (p *Parser) parsePreprocessorOrMacro() (*cst.Node, error) {
	nameTok := p.cur()
	dirLeaf := p.leaf()
	if p.is(token.LeftParen) {
		args, err := p.parseParenList(cst.ArgumentList, p.parseMacroArg)
		if err != nil {
			return nil, err
		}
		var trailingSemi *cst.Node
		if p.is(token.Semicolon) {
			trailingSemi = p.leaf()
		}
		children := []*cst.Node{dirLeaf, args}
		if trailingSemi != nil {
			children = append(children, trailingSemi)
		}
		return cst.NewNode(cst.MacroCall, children...), nil
	}
	// Bare directive: consume the rest of its logical line as one
	// PreprocessorDirective row.
	var rest []*cst.Node
	startLine := nameTok.Line
	for !p.is(token.EOF) && p.cur().Line == startLine {
		rest = append(rest, p.leaf())
	}
	return cst.NewNode(cst.PreprocessorDirective, append([]*cst.Node{dirLeaf}, rest...)...), nil
}

func (p *Parser) parseMacroArg() (*cst.Node, error) {
	row := p.collectRowUntil(token.RightParen)
	return cst.NewNode(cst.NamedParameterAssignment, row...), nil
}
