package parser

import (
	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/token"
)

// parseTypeExpr parses a syntactic type reference.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch p.tok.Kind {
	case token.LBracket:
		pos := p.tok.Pos
		p.next()
		if p.tok.Kind == token.RBracket {
			p.next()
			return p.ctx.NewSliceTypeExpr(pos, p.parseTypeExpr())
		}
		length := p.parseExpr()
		p.expect(token.RBracket, "']'")
		return p.ctx.NewArrayTypeExpr(pos, p.parseTypeExpr(), length)

	case token.Star:
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewPointerTypeExpr(pos, p.parseTypeExpr())

	case token.KwFn:
		pos := p.tok.Pos
		p.next()
		p.expect(token.LParen, "'('")
		var params []ast.TypeExpr
		for p.tok.Kind != token.RParen && p.tok.Kind != token.EOF {
			params = append(params, p.parseTypeExpr())
			if p.tok.Kind != token.Comma {
				break
			}
			p.next()
		}
		p.expect(token.RParen, "')'")
		var result ast.TypeExpr
		if p.tok.Kind == token.Arrow {
			p.next()
			result = p.parseTypeExpr()
		}
		return p.ctx.NewFuncTypeExpr(pos, params, result)

	case token.KwChannel:
		pos := p.tok.Pos
		p.next()
		p.expect(token.LParen, "'('")
		pattern := p.parseIdentName()
		p.expect(token.RParen, "')'")
		elem := p.parseTypeExpr()
		return p.ctx.NewChannelTypeExpr(pos, elem, pattern)

	case token.Ident:
		pos := p.tok.Pos
		name := p.tok.Lexeme
		p.next()
		base := p.ctx.NewNamedTypeExpr(pos, name)
		if p.tok.Kind != token.LBracket {
			return base
		}
		// Generic instantiation: Name[Args...]. Distinguished from an
		// array/slice type (which starts a type, not follows one) because
		// we only get here once a named base type has already been parsed.
		p.next()
		var args []ast.TypeExpr
		for p.tok.Kind != token.RBracket && p.tok.Kind != token.EOF {
			args = append(args, p.parseTypeExpr())
			if p.tok.Kind != token.Comma {
				break
			}
			p.next()
		}
		p.expect(token.RBracket, "']'")
		return p.ctx.NewGenericTypeExpr(pos, base, args)

	default:
		pos := p.tok.Pos
		p.errorf("expected a type, found %s", p.tok.String())
		return p.ctx.NewNamedTypeExpr(pos, "<error>")
	}
}

// parseGenericParams parses an optional `[T, U: Bound, ...]` type-parameter
// list attached to a function or struct declaration.
func (p *Parser) parseGenericParams() []*ast.GenericParam {
	if p.tok.Kind != token.LBracket {
		return nil
	}
	p.next()
	var params []*ast.GenericParam
	for p.tok.Kind != token.RBracket && p.tok.Kind != token.EOF {
		name := p.parseIdentName()
		var constraint ast.TypeExpr
		if p.tok.Kind == token.Colon {
			p.next()
			constraint = p.parseTypeExpr()
		}
		params = append(params, &ast.GenericParam{Name: name, Constraint: constraint})
		if p.tok.Kind != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.RBracket, "']'")
	return params
}

// parseParamList parses a `(name: Type, ...)` parameter list.
func (p *Parser) parseParamList() []*ast.Param {
	p.expect(token.LParen, "'('")
	var params []*ast.Param
	for p.tok.Kind != token.RParen && p.tok.Kind != token.EOF {
		name := p.parseIdentName()
		p.expect(token.Colon, "':'")
		typ := p.parseTypeExpr()
		params = append(params, &ast.Param{Name: name, Type: typ})
		if p.tok.Kind != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.RParen, "')'")
	return params
}

// parseOptionalResult parses an optional `-> Type` result clause.
func (p *Parser) parseOptionalResult() ast.TypeExpr {
	if p.tok.Kind != token.Arrow {
		return nil
	}
	p.next()
	return p.parseTypeExpr()
}
