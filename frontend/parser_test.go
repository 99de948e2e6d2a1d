package frontend

import (
	"testing"

	"github.com/hdlfmt/svfmt/cst"
	"github.com/hdlfmt/svfmt/verify"
	"github.com/stretchr/testify/assert"
)

func parseSource(t *testing.T, source string) *cst.Node {
	t.Helper()
	lx := NewLexer(source, "x.sv")
	stream, err := lx.Lex(source, "x.sv")
	assert.NoError(t, err)
	n, err := NewParser().Parse(stream, verify.ParseAutomatic)
	assert.NoError(t, err)
	return n
}

func TestParseEmptyModule(t *testing.T) {
	root := parseSource(t, "module m();\nendmodule\n")
	assert.Equal(t, cst.SourceFile, root.Kind)
	assert.Len(t, root.Children, 1)
	assert.Equal(t, cst.ModuleDeclaration, root.Children[0].Kind)
}

func TestParseModuleWithPortsAndDataDecl(t *testing.T) {
	root := parseSource(t, "module m(input a, output b);\n  wire c;\nendmodule\n")
	mod := root.Children[0]
	header := mod.Children[0]
	assert.Equal(t, cst.ModuleHeader, header.Kind)

	var dataDecl *cst.Node
	for _, c := range mod.Children {
		if c.Kind == cst.DataDeclaration {
			dataDecl = c
		}
	}
	assert.NotNil(t, dataDecl)
}

func TestParseContinuousAssign(t *testing.T) {
	root := parseSource(t, "module m();\n  assign y = a;\nendmodule\n")
	mod := root.Children[0]
	var assign *cst.Node
	for _, c := range mod.Children {
		if c.Kind == cst.ContinuousAssign {
			assign = c
		}
	}
	assert.NotNil(t, assign)
}

func TestParseIfElse(t *testing.T) {
	root := parseSource(t, "module m();\n  always_comb begin\n    if (a) b = 1;\n    else b = 0;\n  end\nendmodule\n")
	mod := root.Children[0]
	var block *cst.Node
	for _, c := range mod.Children {
		if c.Kind == cst.BeginEndBlock {
			block = c
		}
	}
	assert.NotNil(t, block)
	var ifStmt *cst.Node
	for _, c := range block.Children {
		if c.Kind == cst.IfStatement {
			ifStmt = c
		}
	}
	assert.NotNil(t, ifStmt)
	hasElse := false
	for _, c := range ifStmt.Children {
		if c.Kind == cst.ElseClause {
			hasElse = true
		}
	}
	assert.True(t, hasElse)
}

func TestParseCaseStatement(t *testing.T) {
	root := parseSource(t, "module m();\n  always_comb begin\n    case (s)\n      0: y = a;\n      default: y = b;\n    endcase\n  end\nendmodule\n")
	mod := root.Children[0]
	block := mod.Children[1]
	var caseStmt *cst.Node
	for _, c := range block.Children {
		if c.Kind == cst.CaseStatement {
			caseStmt = c
		}
	}
	assert.NotNil(t, caseStmt)
	items := 0
	for _, c := range caseStmt.Children {
		if c.Kind == cst.CaseItem {
			items++
		}
	}
	assert.Equal(t, 2, items)
}

func TestParseEnum(t *testing.T) {
	root := parseSource(t, "module m();\n  typedef enum {IDLE, RUN = 1} state_t;\nendmodule\n")
	mod := root.Children[0]
	var enumDecl *cst.Node
	for _, c := range mod.Children {
		if c.Kind == cst.EnumDeclaration {
			enumDecl = c
		}
	}
	assert.NotNil(t, enumDecl)
	members := 0
	for _, c := range enumDecl.Children {
		if c.Kind == cst.EnumMember {
			members++
		}
	}
	assert.Equal(t, 2, members)
}

func TestParseClass(t *testing.T) {
	root := parseSource(t, "class foo;\n  int x;\nendclass\n")
	assert.Equal(t, cst.ClassDeclaration, root.Children[0].Kind)
}

func TestParseMacroCall(t *testing.T) {
	root := parseSource(t, "module m();\n  `uvm_info(\"tag\", \"msg\", 0)\nendmodule\n")
	mod := root.Children[0]
	var macro *cst.Node
	for _, c := range mod.Children {
		if c.Kind == cst.MacroCall {
			macro = c
		}
	}
	assert.NotNil(t, macro)
}

func TestParseErrorOnMalformedHeader(t *testing.T) {
	lx := NewLexer("", "")
	stream, err := lx.Lex("module m(\nendmodule\n", "x.sv")
	assert.NoError(t, err)
	_, err = NewParser().Parse(stream, verify.ParseAutomatic)
	assert.Error(t, err)
}
