// Package parser turns a token stream from package lexer into the AST
// shapes package ast defines: a top-level source file is a sequence of
// word (function) definitions and import statements; a definition's body
// and a quotation's body are both a word sequence that may contain
// bind (`->`) and let/in/end forms.
//
// Adapted from the teacher repository's recursive-descent/Pratt parser
// (parser/parser.go) — same "collect errors into a slice rather than
// panicking, advance past the bad token, keep going" recovery strategy —
// rewritten for alma's concatenative grammar, which has no operator
// precedence to speak of: a word sequence is just tokens read until a
// closing delimiter. A definition's `[ ... ]` is one such delimiter pair,
// not a nested quotation literal.
package parser

import (
	"fmt"

	"github.com/cassowary2/alma/ast"
	"github.com/cassowary2/alma/lexer"
	"github.com/cassowary2/alma/token"
)

// Parser holds a lexer and the two-token lookahead buffer the grammar
// below needs.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []string
}

// New creates a Parser over the tokens lexer.New(input) would produce.
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.next()
	p.next()
	return p
}

// Parse lexes and parses input into a top-level declaration sequence. It
// never panics: syntax errors are collected and returned alongside
// whatever partial tree was recovered.
func Parse(input string) (*ast.DeclSeq, []string) {
	p := New(input)
	seq := p.ParseDeclSeq()
	return seq, p.Errors()
}

// ParseWordSeq lexes and parses input as a single bare word sequence (no
// enclosing `name = [ ... ]`), the form a REPL line takes: words read
// until EOF. Used by package repl/interp for interactive evaluation,
// where each line is a sequence to run against the live stack rather
// than a declaration to compile.
func ParseWordSeq(input string) (*ast.WordSeq, []string) {
	p := New(input)
	seq := p.parseWordSeqUntil(token.EOF)
	return seq, p.Errors()
}

// Errors returns every syntax error collected during parsing.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.cur.Line, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(t token.Type) bool {
	if p.cur.Type != t {
		p.errorf("expected %s, got %s %q", t, p.cur.Type, p.cur.Literal)
		return false
	}
	return true
}

// ParseDeclSeq parses a whole file/REPL chunk: a run of function
// definitions and import statements up to EOF.
func (p *Parser) ParseDeclSeq() *ast.DeclSeq {
	seq := &ast.DeclSeq{}
	for p.cur.Type != token.EOF {
		d := p.parseDecl()
		if d != nil {
			seq.Decls = append(seq.Decls, d)
		} else {
			p.next() // error recovery: skip the offending token
		}
	}
	return seq
}

func (p *Parser) parseDecl() ast.Decl {
	switch p.cur.Type {
	case token.IMPORT:
		return p.parseImportDecl()
	case token.IDENT:
		return p.parseFuncDecl()
	default:
		p.errorf("expected a word definition or import, got %s %q", p.cur.Type, p.cur.Literal)
		return nil
	}
}

// parseFuncDecl parses `name = [ body ]`. The brackets are a structural
// part of a definition, not a quotation literal: a defined word's body
// runs directly against the call site's stack (spec §4.6, "User-defined:
// evaluate its stored word sequence"), unlike a `[ ... ]` appearing
// inside a body, which pushes a Quotation value.
func (p *Parser) parseFuncDecl() ast.Decl {
	line := p.cur.Line
	name := p.cur.Literal
	p.next()
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.next()
	if !p.expect(token.LBRACKET) {
		return nil
	}
	p.next()

	body := p.parseBracketedBody(line, token.RBRACKET)
	if !p.expect(token.RBRACKET) {
		return nil
	}
	p.next()

	return &ast.FuncDecl{LineNo: line, Name: name, Body: body}
}

// parseBracketedBody parses the contents of a `[ ... ]` body up to
// closer: if it opens with a bind-arrow form `name... -> rest`, the
// whole body becomes a single ast.Bind node (spec §4.6/§4.7's argument
// binding, e.g. `double = [ a -> a a + ]`); otherwise it is a plain word
// sequence. Shared between a definition's own body and a `[ ... ]`
// quotation literal appearing inside one, since both admit the same
// bind-arrow prefix (spec example 5 nests one inside the other).
func (p *Parser) parseBracketedBody(line int, closer token.Type) *ast.WordSeq {
	if names, ok := p.tryParseBindNames(); ok {
		body := p.parseWordSeqUntil(closer)
		bind := &ast.Bind{LineNo: line, Names: names, Body: body}
		return &ast.WordSeq{Nodes: []ast.Node{bind}}
	}
	return p.parseWordSeqUntil(closer)
}

// parseWordSeqUntil parses words until the current token is one of the
// given closers (not consumed), used inside quotations/bind/let bodies
// which DO have an explicit closing token.
func (p *Parser) parseWordSeqUntil(closers ...token.Type) *ast.WordSeq {
	seq := &ast.WordSeq{}
	for !p.atAny(closers...) && p.cur.Type != token.EOF {
		n := p.parseWord()
		if n == nil {
			p.next()
			continue
		}
		seq.Nodes = append(seq.Nodes, n)
	}
	return seq
}

func (p *Parser) atAny(types ...token.Type) bool {
	for _, t := range types {
		if p.cur.Type == t {
			return true
		}
	}
	return false
}

// parseWord parses one element of a word sequence: a literal, a
// quotation, a let form, or a plain bareword reference.
func (p *Parser) parseWord() ast.Node {
	line := p.cur.Line
	switch p.cur.Type {
	case token.INT:
		return p.parseIntLit()
	case token.FLOAT:
		return p.parseFloatLit()
	case token.STRING:
		lit := p.cur.Literal
		p.next()
		return &ast.ValueLit{LineNo: line, Kind: ast.StringLit, StringRaw: lit}
	case token.CHAR:
		lit := p.cur.Literal
		p.next()
		return &ast.ValueLit{LineNo: line, Kind: ast.CharLit, StringRaw: lit}
	case token.SYMBOL:
		lit := p.cur.Literal
		p.next()
		return &ast.ValueLit{LineNo: line, Kind: ast.SymLit, SymName: lit}
	case token.LBRACKET:
		return p.parseQuotation()
	case token.LET:
		return p.parseLet()
	case token.IDENT:
		name := p.cur.Literal
		p.next()
		return &ast.Ref{LineNo: line, Name: name, Kind: ast.RefUnresolved}
	default:
		p.errorf("unexpected token %s %q in word sequence", p.cur.Type, p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseIntLit() ast.Node {
	line, lit := p.cur.Line, p.cur.Literal
	var v int64
	_, err := fmt.Sscanf(lit, "%d", &v)
	if err != nil {
		p.errorf("invalid integer literal %q", lit)
	}
	p.next()
	return &ast.ValueLit{LineNo: line, Kind: ast.IntLit, IntVal: v}
}

func (p *Parser) parseFloatLit() ast.Node {
	line, lit := p.cur.Line, p.cur.Literal
	var v float64
	_, err := fmt.Sscanf(lit, "%g", &v)
	if err != nil {
		p.errorf("invalid float literal %q", lit)
	}
	p.next()
	return &ast.ValueLit{LineNo: line, Kind: ast.FloatLit, FloatVal: v}
}

// parseQuotation parses `[ body ]`, where body may open with a bind arrow
// form `name... -> rest`, detected via a speculative lookahead that
// rewinds the parser if no ARROW follows the leading run of idents.
func (p *Parser) parseQuotation() ast.Node {
	line := p.cur.Line
	p.next() // consume '['

	body := p.parseBracketedBody(line, token.RBRACKET)
	if !p.expect(token.RBRACKET) {
		return nil
	}
	p.next()
	return &ast.QuotationLit{LineNo: line, Body: body}
}

// tryParseBindNames looks for a leading `name... ->` inside the current
// definition or quotation body. It only commits to consuming tokens once
// it has confirmed an ARROW terminates the run; otherwise the parser is
// rewound to exactly where it started.
func (p *Parser) tryParseBindNames() ([]string, bool) {
	var names []string
	save := *p
	saveLexer := *p.l
	for p.cur.Type == token.IDENT {
		names = append(names, p.cur.Literal)
		p.next()
	}
	if len(names) > 0 && p.cur.Type == token.ARROW {
		p.next() // consume '->'
		return names, true
	}
	*p = save
	*p.l = saveLexer
	return nil, false
}

// parseLet parses `let name... = def in cont end`.
func (p *Parser) parseLet() ast.Node {
	line := p.cur.Line
	p.next() // consume 'let'

	var names []string
	for p.cur.Type == token.IDENT {
		names = append(names, p.cur.Literal)
		p.next()
	}
	if len(names) == 0 {
		p.errorf("expected at least one name after 'let'")
	}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.next()

	def := p.parseWordSeqUntil(token.IN)
	if !p.expect(token.IN) {
		return nil
	}
	p.next()

	cont := p.parseWordSeqUntil(token.END)
	if !p.expect(token.END) {
		return nil
	}
	p.next()

	return &ast.Let{LineNo: line, Names: names, Def: def, Cont: cont}
}

// parseImportDecl parses `import module [as alias] [(name, name, ...)]`.
func (p *Parser) parseImportDecl() ast.Decl {
	line := p.cur.Line
	p.next() // consume 'import'

	decl := &ast.ImportDecl{LineNo: line}
	switch p.cur.Type {
	case token.STRING:
		decl.Module = p.cur.Literal
		decl.JustString = true
	case token.IDENT:
		decl.Module = p.cur.Literal
	default:
		p.errorf("expected a module name after 'import', got %s %q", p.cur.Type, p.cur.Literal)
		return nil
	}
	p.next()

	if p.cur.Type == token.AS {
		p.next()
		if !p.expect(token.IDENT) {
			return nil
		}
		decl.As = p.cur.Literal
		p.next()
	}

	if p.cur.Type == token.LPAREN {
		p.next()
		for p.cur.Type != token.RPAREN {
			if !p.expect(token.IDENT) {
				return nil
			}
			decl.Names = append(decl.Names, p.cur.Literal)
			p.next()
			if p.cur.Type == token.COMMA {
				p.next()
			}
		}
		p.next() // consume ')'
	}

	return decl
}
