package parser

import (
	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/token"
)

// Precedence levels, low to high, per the grammar's Pratt table. Range sits
// below additive as the grammar specifies; gaps leave room between tiers
// without renumbering everything if a future operator needs to be inserted.
const (
	precLowest   = 0
	precOr       = 10 // ||
	precAnd      = 20 // &&
	precCompare  = 30 // == != < <= > >=
	precBitOr    = 40 // |
	precBitXor   = 50 // ^
	precBitAnd   = 60 // &
	precShift    = 70 // << >>
	precRange    = 75 // .. ..=
	precAdditive = 80 // + -
	precMul      = 90 // * / %
)

func binaryPrecedence(k token.Kind) (int, bool) {
	switch k {
	case token.PipePipe:
		return precOr, true
	case token.AmpAmp:
		return precAnd, true
	case token.Eq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precCompare, true
	case token.Pipe:
		return precBitOr, true
	case token.Caret:
		return precBitXor, true
	case token.Amp:
		return precBitAnd, true
	case token.Shl, token.Shr:
		return precShift, true
	case token.DotDot, token.DotDotEq:
		return precRange, true
	case token.Plus, token.Minus:
		return precAdditive, true
	case token.Star, token.Slash, token.Percent:
		return precMul, true
	default:
		return 0, false
	}
}

// parseExpr parses a full expression at the lowest precedence.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinaryExpr(precLowest + 1)
}

// parseBinaryExpr implements precedence climbing: it parses a unary
// operand, then repeatedly folds in following binary operators whose
// precedence is at least minPrec, recursing with minPrec+1 for the
// right-hand side so that equal-precedence operators associate left.
func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	left := p.parseUnaryExpr()
	for {
		op := p.tok.Kind
		prec, ok := binaryPrecedence(op)
		if !ok || prec < minPrec {
			return left
		}
		opPos := p.tok.Pos
		p.next()
		right := p.parseBinaryExpr(prec + 1)

		if op == token.DotDot || op == token.DotDotEq {
			left = p.ctx.NewRangeLit(opPos, left, right, op == token.DotDotEq)
		} else {
			left = p.ctx.NewBinaryExpr(opPos, op, left, right)
		}
	}
}

// parseUnaryExpr parses a prefix operator applied to another unary
// expression, a channel receive, an error-propagation `try`, or falls
// through to postfix/primary parsing.
func (p *Parser) parseUnaryExpr() ast.Expr {
	switch p.tok.Kind {
	case token.Bang, token.Minus, token.Plus, token.Tilde, token.Star, token.Amp:
		op, pos := p.tok.Kind, p.tok.Pos
		p.next()
		return p.ctx.NewUnaryExpr(pos, op, p.parseUnaryExpr())

	case token.ChanSend:
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewChanRecvExpr(pos, p.parseUnaryExpr(), false)

	case token.KwTry:
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewTryExpr(pos, p.parseUnaryExpr())

	default:
		return p.parsePostfixExpr()
	}
}

// parsePostfixExpr parses a primary expression followed by any number of
// call, index, slice, selector, or type-assert suffixes.
func (p *Parser) parsePostfixExpr() ast.Expr {
	x := p.parsePrimaryExpr()
	for {
		switch p.tok.Kind {
		case token.LParen:
			pos := p.tok.Pos
			p.next()
			var args []ast.Expr
			for p.tok.Kind != token.RParen && p.tok.Kind != token.EOF {
				args = append(args, p.parseExpr())
				if p.tok.Kind != token.Comma {
					break
				}
				p.next()
			}
			p.expect(token.RParen, "')'")
			x = p.ctx.NewCallExpr(pos, x, args)

		case token.Dot:
			pos := p.tok.Pos
			p.next()
			if p.tok.Kind == token.LParen {
				p.next()
				typ := p.parseTypeExpr()
				p.expect(token.RParen, "')'")
				x = p.ctx.NewTypeAssertExpr(pos, x, typ)
				continue
			}
			name := p.parseIdentName()
			x = p.ctx.NewSelectorExpr(pos, x, name)

		case token.LBracket:
			pos := p.tok.Pos
			p.next()
			var low, high ast.Expr
			isSlice := false
			if p.tok.Kind != token.Colon {
				low = p.parseExpr()
			}
			if p.tok.Kind == token.Colon {
				isSlice = true
				p.next()
				if p.tok.Kind != token.RBracket {
					high = p.parseExpr()
				}
			}
			p.expect(token.RBracket, "']'")
			if isSlice {
				x = p.ctx.NewSliceExpr(pos, x, low, high)
			} else {
				x = p.ctx.NewIndexExpr(pos, x, low)
			}

		default:
			return x
		}
	}
}

// parsePrimaryExpr parses the irreducible core of an expression: literals,
// identifiers (with optional composite-literal suffix), parenthesized
// expressions, function literals, alloc/free forms, and super.
func (p *Parser) parsePrimaryExpr() ast.Expr {
	switch p.tok.Kind {
	case token.IntLiteral:
		v := p.tok.Value.Int
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewIntLit(pos, v)

	case token.FloatLiteral:
		v := p.tok.Value.Float
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewFloatLit(pos, v)

	case token.StringLiteral:
		v := p.tok.Value.Str
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewStringLit(pos, v)

	case token.BoolLiteral:
		v := p.tok.Value.Bool
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewBoolLit(pos, v)

	case token.KwNull:
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewNullLit(pos)

	case token.KwSuper:
		pos := p.tok.Pos
		p.next()
		var args []ast.Expr
		if p.expect(token.LParen, "'('") {
			for p.tok.Kind != token.RParen && p.tok.Kind != token.EOF {
				args = append(args, p.parseExpr())
				if p.tok.Kind != token.Comma {
					break
				}
				p.next()
			}
			p.expect(token.RParen, "')'")
		}
		return p.ctx.NewSuperExpr(pos, args)

	case token.KwAlloc:
		return p.parseAllocExpr()

	case token.KwFree:
		return p.parseFreeExpr()

	case token.KwFn:
		return p.parseFuncLitExpr()

	case token.LParen:
		p.next()
		p.noCompositeLit++
		x := p.parseExpr()
		p.noCompositeLit--
		p.expect(token.RParen, "')'")
		return x

	case token.Ident:
		name := p.tok.Lexeme
		pos := p.tok.Pos
		p.next()
		if p.noCompositeLit == 0 && p.tok.Kind == token.LBrace {
			return p.parseCompositeLitBody(p.ctx.NewNamedTypeExpr(pos, name))
		}
		return p.ctx.NewIdentExpr(pos, name)

	case token.LBracket, token.KwChannel:
		// A type expression appearing where a value is expected is only
		// valid as the explicit type of a composite literal, e.g.
		// `[]i32{1, 2, 3}`.
		typ := p.parseTypeExpr()
		return p.parseCompositeLitBody(typ)

	default:
		pos := p.tok.Pos
		p.errorf("expected expression, found %s", p.tok.String())
		p.next()
		return p.ctx.NewErrorExpr(pos, "expected expression")
	}
}

// parseCompositeLitBody parses the `{ ... }` body of a composite literal
// whose type (possibly nil, for a bare literal) has already been parsed.
func (p *Parser) parseCompositeLitBody(typ ast.TypeExpr) ast.Expr {
	pos := p.tok.Pos
	p.expect(token.LBrace, "'{'")

	var keys []string
	var elems []ast.Expr
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		if p.tok.Kind == token.Ident && p.peek().Kind == token.Colon {
			keys = append(keys, p.tok.Lexeme)
			p.next()
			p.next()
		} else if len(keys) > 0 {
			keys = append(keys, "")
		}
		elems = append(elems, p.parseExpr())
		if p.tok.Kind != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.RBrace, "'}'")
	return p.ctx.NewCompositeLit(pos, typ, keys, elems)
}

// parseAllocExpr parses `alloc Type[Size] [allocator: Name]`.
func (p *Parser) parseAllocExpr() ast.Expr {
	pos := p.tok.Pos
	p.next()

	// A type name directly followed by `[` is the element type and its
	// size, not a generic instantiation.
	var typ ast.TypeExpr
	if p.tok.Kind == token.Ident && p.peek().Kind == token.LBracket {
		typ = p.ctx.NewNamedTypeExpr(p.tok.Pos, p.tok.Lexeme)
		p.next()
	} else {
		typ = p.parseTypeExpr()
	}

	var size ast.Expr
	if p.tok.Kind == token.LBracket {
		p.next()
		size = p.parseExpr()
		p.expect(token.RBracket, "']'")
	}

	var allocator string
	if p.tok.Kind == token.KwAllocator {
		p.next()
		p.expect(token.Colon, "':'")
		allocator = p.parseIdentName()
	}

	return p.ctx.NewAllocExpr(pos, typ, size, allocator)
}

// parseFreeExpr parses `free(Value) [allocator: Name]`.
func (p *Parser) parseFreeExpr() ast.Expr {
	pos := p.tok.Pos
	p.next()
	p.expect(token.LParen, "'('")
	value := p.parseExpr()
	p.expect(token.RParen, "')'")

	var allocator string
	if p.tok.Kind == token.KwAllocator {
		p.next()
		p.expect(token.Colon, "':'")
		allocator = p.parseIdentName()
	}

	return p.ctx.NewFreeExpr(pos, value, allocator)
}

// parseFuncLitExpr parses an anonymous function value: `fn(Params) -> Result { ... }`.
func (p *Parser) parseFuncLitExpr() ast.Expr {
	pos := p.tok.Pos
	p.next()
	params := p.parseParamList()
	result := p.parseOptionalResult()
	body := p.parseBlockStmt()
	return p.ctx.NewFuncLitExpr(pos, params, result, body)
}
