// Package parser turns a token stream into an AST. It is a hand-written
// recursive-descent parser; expressions are parsed by precedence climbing
// (a Pratt parser in the tradition this project calls the same thing).
//
// The parser never aborts on a malformed construct: it records a diagnostic,
// synthesizes an error placeholder node, and resynchronizes at a statement
// or declaration boundary so the rest of the file is still parsed.
package parser

import (
	"fmt"

	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/report"
	"github.com/darragh-downey/goo/token"
)

// Parser holds the state for parsing a single compilation unit.
type Parser struct {
	lx  tokenSource
	ctx *ast.Context
	rep *report.Report

	tok      token.Token
	peekTok  token.Token
	havePeek bool

	// noCompositeLit suppresses bare `Name{...}` composite-literal parsing
	// while parsing the header expression of if/for/while/switch, mirroring
	// the classic resolution to the "is `{` a block or a literal" ambiguity.
	noCompositeLit int
}

// tokenSource is the subset of *lexer.Lexer the parser needs; tests can
// substitute a canned token sequence.
type tokenSource interface {
	NextToken() token.Token
}

// New constructs a Parser reading tokens from lx and recording diagnostics
// into rep. It owns ctx, the arena every produced node is allocated from.
func New(lx tokenSource, ctx *ast.Context, rep *report.Report) *Parser {
	p := &Parser{lx: lx, ctx: ctx, rep: rep}
	p.tok = p.lx.NextToken()
	return p
}

// ParseUnit parses a full compilation unit: package clause, imports, and
// top-level declarations.
func (p *Parser) ParseUnit() *ast.Unit {
	pos := p.tok.Pos

	// A ';' after the package clause and after each import is accepted but
	// not required.
	var pkg string
	if p.expect(token.KwPackage, "a package clause") {
		pkg = p.parseIdentName()
		if p.tok.Kind == token.Semicolon {
			p.next()
		}
	}

	var imports []string
	for p.tok.Kind == token.KwImport {
		p.next()
		imports = append(imports, p.parseImportPath())
		if p.tok.Kind == token.Semicolon {
			p.next()
		}
	}

	var decls []ast.Decl
	for p.tok.Kind != token.EOF {
		decls = append(decls, p.parseDecl())
	}

	return p.ctx.NewUnit(pos, pkg, imports, decls)
}

// parseImportPath accepts either a bare dotted identifier path
// (std/io, a single ident) or a string literal, matching the Go-style
// surface's import clause.
func (p *Parser) parseImportPath() string {
	if p.tok.Kind == token.StringLiteral {
		s := p.tok.Value.Str
		p.next()
		return s
	}
	name := p.parseIdentName()
	for p.tok.Kind == token.Slash {
		p.next()
		name += "/" + p.parseIdentName()
	}
	return name
}

// --- token stream plumbing ---

func (p *Parser) next() {
	if p.havePeek {
		p.tok = p.peekTok
		p.havePeek = false
		return
	}
	p.tok = p.lx.NextToken()
}

func (p *Parser) peek() token.Token {
	if !p.havePeek {
		p.peekTok = p.lx.NextToken()
		p.havePeek = true
	}
	return p.peekTok
}

// expect reports an error and returns false if the current token is not
// kind k; otherwise it consumes it and returns true.
func (p *Parser) expect(k token.Kind, what string) bool {
	if p.tok.Kind != k {
		p.errorf("expected %s, found %s", what, p.tok.String())
		return false
	}
	p.next()
	return true
}

// expectSemi consumes a trailing semicolon if present. Semicolons are
// optional at block and declaration boundaries before `}` or EOF.
func (p *Parser) expectSemi() {
	if p.tok.Kind == token.Semicolon {
		p.next()
		return
	}
	if p.tok.Kind == token.RBrace || p.tok.Kind == token.EOF {
		return
	}
	p.errorf("expected ';', found %s", p.tok.String())
}

func (p *Parser) parseIdentName() string {
	if p.tok.Kind != token.Ident {
		p.errorf("expected identifier, found %s", p.tok.String())
		return ""
	}
	name := p.tok.Lexeme
	p.next()
	return name
}

func (p *Parser) errorf(format string, args ...any) {
	pos := report.Position{File: p.tok.Pos.File, Line: p.tok.Pos.Line, Column: p.tok.Pos.Column}
	p.rep.Error(report.ParseError, fmt.Sprintf(format, args...), report.At(pos))
}

// synchronize advances past tokens until it finds one that plausibly starts
// a new statement or declaration, so one malformed construct does not
// cascade into spurious diagnostics for everything after it.
func (p *Parser) synchronize() {
	for {
		switch p.tok.Kind {
		case token.EOF, token.Semicolon, token.RBrace:
			return
		case token.KwFn, token.KwVar, token.KwConst, token.KwType, token.KwStruct,
			token.KwEnum, token.KwInterface, token.KwModule, token.KwAllocator,
			token.KwChannel, token.KwComptime, token.KwCapability,
			token.KwIf, token.KwFor, token.KwWhile, token.KwReturn, token.KwBreak,
			token.KwContinue, token.KwSwitch, token.KwMatch, token.KwSelect,
			token.KwDefer, token.KwGo, token.KwSupervise, token.KwTry, token.KwPanic,
			token.KwScope:
			return
		}
		p.next()
	}
}
