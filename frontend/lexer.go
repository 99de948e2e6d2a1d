// Package frontend is a reference SystemVerilog lexer and recursive-descent
// parser: a stand-in for a production frontend (e.g. slang or Verible's own
// parser), just complete enough to exercise every partition role and
// tabular construct the core pipeline knows about — module/interface/class
// headers, port declarations, parameter lists, data declarations,
// continuous assignments, procedural begin/end blocks with blocking and
// non-blocking assignments, if/else, case/endcase with case items including
// default, struct/union member lists, enum value lists, and macro
// calls/preprocessor directives. Distribution-weight operators are lexed,
// but no parse path reaches a `dist { ... }` list. It implements the verify.Lexer
// and verify.Parser collaborator interfaces the core pipeline needs to
// re-lex and re-parse its own output.
package frontend

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"

	"github.com/hdlfmt/svfmt/token"
)

// Lexer scans SystemVerilog source into a token.Stream. It is a cursor into
// the input buffer rather than a stream consumer: next advances the
// cursor and returns the token just scanned.
type Lexer struct {
	input string
	file  string

	startIndex int
	curIndex   int

	startLine, stopLine             int
	indexAtStartLine, indexAtStopLine int

	kind token.Kind
}

// NewLexer constructs a Lexer over input, ready to scan from the start.
func NewLexer(input, file string) *Lexer {
	return &Lexer{input: input, file: file}
}

// Lex implements verify.Lexer: it scans source in full and returns the
// resulting token.Stream, or an error if a byte sequence cannot be
// classified as any recognised token (e.g. invalid UTF-8).
func (l *Lexer) Lex(source, filename string) (*token.Stream, error) {
	lx := NewLexer(source, filename)
	var toks []token.Token
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return &token.Stream{Tokens: toks, Source: source, File: filename}, nil
}

func (l *Lexer) pos() token.Pos {
	return token.Pos{File: l.file, Line: l.startLine + 1, Col: l.startIndex - l.indexAtStartLine + 1}
}

func (l *Lexer) bumpLine(offsetFromCur int) {
	l.stopLine++
	l.indexAtStopLine = l.curIndex + offsetFromCur + 1
}

func (l *Lexer) emit(kind token.Kind) token.Token {
	t := token.Token{
		Kind:   kind,
		Text:   l.input[l.startIndex:l.curIndex],
		Offset: token.ByteRange{Start: l.startIndex, End: l.curIndex},
		Line:   l.startLine + 1,
		Col:    l.startIndex - l.indexAtStartLine + 1,
	}
	return t
}

// next scans and returns one token, advancing the cursor.
func (l *Lexer) next() (token.Token, error) {
	l.startIndex = l.curIndex
	l.startLine = l.stopLine
	l.indexAtStartLine = l.indexAtStopLine

	r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
	switch {
	case w == 0:
		return l.emit(token.EOF), nil
	case r == utf8.RuneError && w == 1:
		return token.Token{}, fmt.Errorf("%s: invalid UTF-8 byte", l.pos())
	case unicode.IsSpace(r):
		return l.scanSpace(), nil
	case r == '/' && l.peekIs(w, '/'):
		return l.scanLineComment(w), nil
	case r == '/' && l.peekIs(w, '*'):
		return l.scanBlockComment(w)
	case r == '`':
		return l.scanDirectiveOrMacro(), nil
	case r == '"':
		return l.scanStringLiteral()
	case r >= '0' && r <= '9':
		return l.scanNumber(), nil
	case r == '_' || xid.Start(r):
		return l.scanIdentifierOrKeyword(), nil
	default:
		return l.scanPunctuationOrOperator(r, w), nil
	}
}

func (l *Lexer) peekIs(afterWidth int, want rune) bool {
	r, _ := utf8.DecodeRuneInString(l.input[l.curIndex+afterWidth:])
	return r == want
}

func (l *Lexer) scanSpace() token.Token {
	for {
		r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
		if w == 0 || !unicode.IsSpace(r) {
			break
		}
		if r == '\n' {
			l.bumpLine(0)
		}
		l.curIndex += w
	}
	return l.emit(token.Space)
}

func (l *Lexer) scanLineComment(w int) token.Token {
	l.curIndex += w + 1 // consume "//"
	if idx := strings.IndexByte(l.input[l.curIndex:], '\n'); idx >= 0 {
		l.curIndex += idx
	} else {
		l.curIndex = len(l.input)
	}
	return l.emit(token.LineComment)
}

func (l *Lexer) scanBlockComment(w int) (token.Token, error) {
	l.curIndex += w + 1 // consume "/*"
	for {
		idx := strings.IndexAny(l.input[l.curIndex:], "*\n")
		if idx < 0 {
			return token.Token{}, fmt.Errorf("%s: unterminated block comment", l.pos())
		}
		if l.input[l.curIndex+idx] == '\n' {
			l.bumpLine(idx)
			l.curIndex += idx + 1
			continue
		}
		l.curIndex += idx
		if strings.HasPrefix(l.input[l.curIndex:], "*/") {
			l.curIndex += 2
			return l.emit(token.BlockComment), nil
		}
		l.curIndex++
	}
}

// scanDirectiveOrMacro handles both preprocessor directives (`ifdef,
// `define, `include, ...) and macro-call invocations (`NAME(...)): both
// start with a backtick followed by an identifier; the parser disambiguates
// by what follows.
func (l *Lexer) scanDirectiveOrMacro() token.Token {
	l.curIndex++ // consume '`'
	for {
		r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
		if w == 0 || !(r == '_' || xid.Continue(r)) {
			break
		}
		l.curIndex += w
	}
	return l.emit(token.Directive)
}

func (l *Lexer) scanStringLiteral() (token.Token, error) {
	l.curIndex++ // consume opening quote
	for {
		r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
		if w == 0 {
			return token.Token{}, fmt.Errorf("%s: unterminated string literal", l.pos())
		}
		if r == '\\' {
			l.curIndex += w
			_, w2 := utf8.DecodeRuneInString(l.input[l.curIndex:])
			l.curIndex += w2
			continue
		}
		l.curIndex += w
		if r == '"' {
			return l.emit(token.StringLiteral), nil
		}
	}
}

func (l *Lexer) scanNumber() token.Token {
	for {
		r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
		if w == 0 {
			break
		}
		if r >= '0' && r <= '9' || r == '_' || r == '.' ||
			r == 'x' || r == 'X' || r == 'z' || r == 'Z' ||
			r == 'b' || r == 'B' || r == 'o' || r == 'O' || r == 'd' || r == 'D' || r == 'h' || r == 'H' ||
			r == '\'' || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') {
			l.curIndex += w
			continue
		}
		break
	}
	return l.emit(token.Number)
}

func (l *Lexer) scanIdentifierOrKeyword() token.Token {
	for {
		r, w := utf8.DecodeRuneInString(l.input[l.curIndex:])
		if w == 0 || !(r == '_' || r == '$' || xid.Continue(r)) {
			break
		}
		l.curIndex += w
	}
	t := l.emit(token.Identifier)
	if keywords[t.Text] {
		t.Kind = token.Keyword
	}
	return t
}

var keywords = map[string]bool{
	"module": true, "endmodule": true, "interface": true, "endinterface": true,
	"class": true, "endclass": true, "package": true, "endpackage": true,
	"function": true, "endfunction": true, "task": true, "endtask": true,
	"input": true, "output": true, "inout": true, "ref": true,
	"wire": true, "reg": true, "logic": true, "bit": true, "byte": true,
	"int": true, "integer": true, "shortint": true, "longint": true, "real": true,
	"parameter": true, "localparam": true, "typedef": true, "enum": true,
	"struct": true, "union": true, "packed": true, "signed": true, "unsigned": true,
	"begin": true, "end": true, "if": true, "else": true, "case": true, "endcase": true,
	"casex": true, "casez": true, "default": true,
	"for": true, "while": true, "foreach": true, "repeat": true, "forever": true,
	"assign": true, "always": true, "always_comb": true, "always_ff": true, "always_latch": true,
	"initial": true, "final": true, "generate": true, "endgenerate": true,
	"dist": true,
}

func (l *Lexer) scanPunctuationOrOperator(r rune, w int) token.Token {
	two := l.input[l.curIndex:min(l.curIndex+w+4, len(l.input))]
	switch {
	case strings.HasPrefix(two, "::"):
		l.curIndex += w + runeLen(two, w)
		return l.emit(token.ColonColon)
	case strings.HasPrefix(two, ":/"):
		l.curIndex += w + runeLen(two, w)
		return l.emit(token.DistWeightColonSlash)
	case strings.HasPrefix(two, ":="):
		l.curIndex += w + runeLen(two, w)
		return l.emit(token.DistWeightColonEq)
	}
	switch r {
	case '(':
		l.curIndex += w
		return l.emit(token.LeftParen)
	case ')':
		l.curIndex += w
		return l.emit(token.RightParen)
	case '[':
		l.curIndex += w
		return l.emit(token.LeftBracket)
	case ']':
		l.curIndex += w
		return l.emit(token.RightBracket)
	case '{':
		l.curIndex += w
		return l.emit(token.LeftBrace)
	case '}':
		l.curIndex += w
		return l.emit(token.RightBrace)
	case ',':
		l.curIndex += w
		return l.emit(token.Comma)
	case ';':
		l.curIndex += w
		return l.emit(token.Semicolon)
	case ':':
		l.curIndex += w
		return l.emit(token.Colon)
	case '.':
		l.curIndex += w
		return l.emit(token.Dot)
	case '#':
		l.curIndex += w
		return l.emit(token.Hash)
	case '@':
		l.curIndex += w
		return l.emit(token.At)
	case '?':
		l.curIndex += w
		return l.emit(token.Question)
	default:
		l.curIndex += w
		// Greedily absorb a run of further operator-ish runes so that e.g.
		// "<=" or "==" or "+=" lexes as one Operator token.
		for {
			r2, w2 := utf8.DecodeRuneInString(l.input[l.curIndex:])
			if w2 == 0 || !isOperatorRune(r2) {
				break
			}
			l.curIndex += w2
		}
		return l.emit(token.Operator)
	}
}

func isOperatorRune(r rune) bool {
	switch r {
	case '=', '<', '>', '+', '-', '*', '/', '%', '&', '|', '^', '~', '!':
		return true
	default:
		return false
	}
}

func runeLen(s string, w int) int {
	_, w2 := utf8.DecodeRuneInString(s[w:])
	return w2
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
