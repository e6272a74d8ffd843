package parser

import (
	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/token"
)

// parseDecl parses one top-level (or module-nested) declaration, dispatched
// by its leading keyword.
func (p *Parser) parseDecl() ast.Decl {
	switch p.tok.Kind {
	case token.KwFn:
		return p.parseFuncOrMethodDecl()
	case token.KwVar:
		return p.parseVarDecl()
	case token.KwConst:
		return p.parseConstDecl()
	case token.KwType:
		return p.parseTypeAliasDecl()
	case token.KwStruct:
		return p.parseStructDecl()
	case token.KwEnum:
		return p.parseEnumDecl()
	case token.KwInterface:
		return p.parseInterfaceDecl()
	case token.KwModule:
		return p.parseModuleDecl()
	case token.KwAllocator:
		return p.parseAllocatorDecl()
	case token.KwChannel:
		return p.parseChannelDecl()
	case token.KwComptime:
		return p.parseComptimeBlock()
	case token.KwCapability:
		return p.parseCapabilityDecl()
	default:
		pos := p.tok.Pos
		p.errorf("expected a declaration, found %s", p.tok.String())
		p.synchronize()
		return p.ctx.NewErrorDecl(pos, "expected a declaration")
	}
}

// parseFuncOrMethodDecl parses `fn name(...) -> R { ... }` or, when a
// parenthesized receiver clause follows `fn`, a method declaration
// `fn (recv: Type) name(...) -> R { ... }`.
func (p *Parser) parseFuncOrMethodDecl() ast.Decl {
	pos := p.tok.Pos
	p.next() // 'fn'

	if p.tok.Kind == token.LParen {
		p.next()
		recvName := p.parseIdentName()
		p.expect(token.Colon, "':'")
		recvType := p.parseTypeExpr()
		p.expect(token.RParen, "')'")

		name := p.parseIdentName()
		params := p.parseParamList()
		result := p.parseOptionalResult()
		body := p.parseBlockStmt()
		return p.ctx.NewMethodDecl(pos, recvName, recvType, name, params, result, body)
	}

	name := p.parseIdentName()
	typeParams := p.parseGenericParams()
	params := p.parseParamList()
	result := p.parseOptionalResult()
	body := p.parseBlockStmt()
	return p.ctx.NewFuncDecl(pos, name, typeParams, params, result, body)
}

func (p *Parser) parseVarDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()

	var typ ast.TypeExpr
	if p.tok.Kind == token.Colon {
		p.next()
		typ = p.parseTypeExpr()
	}

	var init ast.Expr
	if p.tok.Kind == token.Assign {
		p.next()
		init = p.parseExpr()
	}
	p.expectSemi()
	return p.ctx.NewVarDecl(pos, name, typ, init)
}

func (p *Parser) parseConstDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()

	var typ ast.TypeExpr
	if p.tok.Kind == token.Colon {
		p.next()
		typ = p.parseTypeExpr()
	}
	p.expect(token.Assign, "'='")
	value := p.parseExpr()
	p.expectSemi()
	return p.ctx.NewConstDecl(pos, name, typ, value)
}

func (p *Parser) parseTypeAliasDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()
	p.expect(token.Assign, "'='")
	target := p.parseTypeExpr()
	p.expectSemi()
	return p.ctx.NewTypeAliasDecl(pos, name, target)
}

func (p *Parser) parseStructDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()
	typeParams := p.parseGenericParams()
	p.expect(token.LBrace, "'{'")

	var fields []*ast.FieldDecl
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		fname := p.parseIdentName()
		p.expect(token.Colon, "':'")
		ftype := p.parseTypeExpr()
		fields = append(fields, &ast.FieldDecl{Name: fname, Type: ftype})
		p.expectSemi()
	}
	p.expect(token.RBrace, "'}'")
	return p.ctx.NewStructDecl(pos, name, typeParams, fields)
}

func (p *Parser) parseEnumDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()
	p.expect(token.LBrace, "'{'")

	var variants []*ast.EnumVariantDecl
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		vname := p.parseIdentName()
		var payload ast.TypeExpr
		if p.tok.Kind == token.LParen {
			p.next()
			payload = p.parseTypeExpr()
			p.expect(token.RParen, "')'")
		}
		variants = append(variants, &ast.EnumVariantDecl{Name: vname, Payload: payload})
		if p.tok.Kind != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.RBrace, "'}'")
	return p.ctx.NewEnumDecl(pos, name, variants)
}

func (p *Parser) parseInterfaceDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()
	p.expect(token.LBrace, "'{'")

	var methods []*ast.InterfaceMethodDecl
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		mname := p.parseIdentName()
		params := p.parseParamList()
		result := p.parseOptionalResult()
		methods = append(methods, &ast.InterfaceMethodDecl{Name: mname, Params: params, Result: result})
		p.expectSemi()
	}
	p.expect(token.RBrace, "'}'")
	return p.ctx.NewInterfaceDecl(pos, name, methods)
}

func (p *Parser) parseModuleDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()
	p.expect(token.LBrace, "'{'")

	var decls []ast.Decl
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		decls = append(decls, p.parseDecl())
	}
	p.expect(token.RBrace, "'}'")
	return p.ctx.NewModuleDecl(pos, name, decls)
}

func (p *Parser) parseAllocatorDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()
	p.expect(token.Assign, "'='")
	variant := p.parseIdentName()

	var args []ast.Expr
	if p.tok.Kind == token.LParen {
		p.next()
		for p.tok.Kind != token.RParen && p.tok.Kind != token.EOF {
			args = append(args, p.parseExpr())
			if p.tok.Kind != token.Comma {
				break
			}
			p.next()
		}
		p.expect(token.RParen, "')'")
	}
	p.expectSemi()
	return p.ctx.NewAllocatorDecl(pos, name, variant, args)
}

// parseChannelDecl parses `channel name (pattern) ElemType [cap: Expr]`.
func (p *Parser) parseChannelDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()
	p.expect(token.LParen, "'('")
	pattern := p.parseIdentName()
	p.expect(token.RParen, "')'")
	elem := p.parseTypeExpr()

	var capacity ast.Expr
	if p.tok.Kind == token.Ident && p.tok.Lexeme == "cap" {
		p.next()
		p.expect(token.Colon, "':'")
		capacity = p.parseExpr()
	}
	p.expectSemi()
	return p.ctx.NewChannelDecl(pos, name, elem, pattern, capacity)
}

func (p *Parser) parseComptimeBlock() ast.Decl {
	pos := p.tok.Pos
	p.next()
	body := p.parseBlockStmt()
	return p.ctx.NewComptimeBlock(pos, body)
}

// parseCapabilityDecl parses `capability name [requires a, b];`.
func (p *Parser) parseCapabilityDecl() ast.Decl {
	pos := p.tok.Pos
	p.next()
	name := p.parseIdentName()

	var requires []string
	if p.tok.Kind == token.KwRequires {
		p.next()
		requires = append(requires, p.parseIdentName())
		for p.tok.Kind == token.Comma {
			p.next()
			requires = append(requires, p.parseIdentName())
		}
	}
	p.expectSemi()
	return p.ctx.NewCapabilityDecl(pos, name, requires)
}
