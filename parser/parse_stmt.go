package parser

import (
	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/token"
)

// parseBlockStmt parses a `{ stmt* }` block.
func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	pos := p.tok.Pos
	p.expect(token.LBrace, "'{'")
	var stmts []ast.Stmt
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(token.RBrace, "'}'")
	return p.ctx.NewBlockStmt(pos, stmts)
}

// parseStmt parses one statement, dispatched by its leading token.
func (p *Parser) parseStmt() ast.Stmt {
	switch p.tok.Kind {
	case token.KwVar:
		d := p.parseVarDecl()
		return p.declAsStmt(d)
	case token.KwConst:
		d := p.parseConstDecl()
		return p.declAsStmt(d)
	case token.LBrace:
		return p.parseBlockStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwBreak:
		return p.parseBreakStmt()
	case token.KwContinue:
		return p.parseContinueStmt()
	case token.KwSwitch, token.KwMatch:
		return p.parseSwitchStmt()
	case token.KwSelect:
		return p.parseSelectStmt()
	case token.KwDefer:
		return p.parseDeferStmt()
	case token.KwGo:
		return p.parseGoStmt()
	case token.KwSupervise:
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewSuperviseStmt(pos, p.parseBlockStmt())
	case token.KwTry:
		return p.parseTryStmt()
	case token.KwPanic:
		return p.parsePanicStmt()
	case token.KwScope:
		return p.parseScopeStmt()
	case token.Semicolon:
		pos := p.tok.Pos
		p.next()
		return p.ctx.NewBlockStmt(pos, nil)
	default:
		return p.parseSimpleStmt()
	}
}

// declAsStmt wraps a declaration produced inside a block (var/const) so it
// satisfies the Stmt interface; the checker treats it as introducing a
// binding in the enclosing block scope.
func (p *Parser) declAsStmt(d ast.Decl) ast.Stmt {
	return p.ctx.NewDeclStmt(d.Pos(), d)
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	pos := p.tok.Pos
	p.next()
	p.noCompositeLit++
	cond := p.parseExpr()
	p.noCompositeLit--
	then := p.parseBlockStmt()

	var els ast.Stmt
	if p.tok.Kind == token.KwElse {
		p.next()
		if p.tok.Kind == token.KwIf {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlockStmt()
		}
	}
	return p.ctx.NewIfStmt(pos, cond, then, els)
}

// parseForStmt parses either the range form `for v in expr { }` (optionally
// `for i, v in expr { }`) or the C-style three-clause form
// `for init; cond; post { }`.
func (p *Parser) parseForStmt() ast.Stmt {
	pos := p.tok.Pos
	p.next()

	if p.tok.Kind == token.Ident && (p.peek().Kind == token.KwIn || p.peek().Kind == token.Comma) {
		first := p.parseIdentName()
		indexName, valueName := "", first
		if p.tok.Kind == token.Comma {
			p.next()
			valueName = p.parseIdentName()
			indexName = first
		}
		p.expect(token.KwIn, "'in'")
		p.noCompositeLit++
		iterable := p.parseExpr()
		p.noCompositeLit--
		body := p.parseBlockStmt()
		return p.ctx.NewForRangeStmt(pos, indexName, valueName, iterable, body)
	}

	var init ast.Stmt
	if p.tok.Kind != token.Semicolon {
		init = p.parseSimpleStmtNoSemi()
	}
	p.expect(token.Semicolon, "';'")

	var cond ast.Expr
	if p.tok.Kind != token.Semicolon {
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon, "';'")

	var post ast.Stmt
	if p.tok.Kind != token.LBrace {
		post = p.parseSimpleStmtNoSemi()
	}
	body := p.parseBlockStmt()
	return p.ctx.NewForStmt(pos, init, cond, post, body)
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	pos := p.tok.Pos
	p.next()
	p.noCompositeLit++
	cond := p.parseExpr()
	p.noCompositeLit--
	body := p.parseBlockStmt()
	return p.ctx.NewWhileStmt(pos, cond, body)
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	pos := p.tok.Pos
	p.next()
	var value ast.Expr
	if p.tok.Kind != token.Semicolon && p.tok.Kind != token.RBrace {
		value = p.parseExpr()
	}
	p.expectSemi()
	return p.ctx.NewReturnStmt(pos, value)
}

func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	pos := p.tok.Pos
	p.next()
	var label string
	if p.tok.Kind == token.Ident {
		label = p.parseIdentName()
	}
	p.expectSemi()
	return p.ctx.NewBreakStmt(pos, label)
}

func (p *Parser) parseContinueStmt() *ast.ContinueStmt {
	pos := p.tok.Pos
	p.next()
	var label string
	if p.tok.Kind == token.Ident {
		label = p.parseIdentName()
	}
	p.expectSemi()
	return p.ctx.NewContinueStmt(pos, label)
}

// parseSwitchStmt parses both the `switch` (condition-list) and `match`
// (scrutinee) surface forms, which share the SwitchStmt node.
func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	pos := p.tok.Pos
	isMatch := p.tok.Kind == token.KwMatch
	p.next()

	var tag ast.Expr
	if isMatch || p.tok.Kind != token.LBrace {
		p.noCompositeLit++
		tag = p.parseExpr()
		p.noCompositeLit--
	}
	p.expect(token.LBrace, "'{'")

	var cases []*ast.CaseClause
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		cases = append(cases, p.parseCaseClause())
	}
	p.expect(token.RBrace, "'}'")
	return p.ctx.NewSwitchStmt(pos, tag, cases)
}

func (p *Parser) parseCaseClause() *ast.CaseClause {
	pos := p.tok.Pos
	cc := &ast.CaseClause{Pos: pos}
	if p.tok.Kind == token.KwDefault {
		p.next()
		cc.IsDefault = true
	} else {
		p.expect(token.KwCase, "'case'")
		cc.Values = append(cc.Values, p.parseExpr())
		for p.tok.Kind == token.Comma {
			p.next()
			cc.Values = append(cc.Values, p.parseExpr())
		}
	}
	p.expect(token.Colon, "':'")
	for p.tok.Kind != token.KwCase && p.tok.Kind != token.KwDefault &&
		p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		cc.Body = append(cc.Body, p.parseStmt())
	}
	return cc
}

func (p *Parser) parseSelectStmt() *ast.SelectStmt {
	pos := p.tok.Pos
	p.next()
	p.expect(token.LBrace, "'{'")

	var cases []*ast.CommClause
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		cases = append(cases, p.parseCommClause())
	}
	p.expect(token.RBrace, "'}'")
	return p.ctx.NewSelectStmt(pos, cases)
}

func (p *Parser) parseCommClause() *ast.CommClause {
	pos := p.tok.Pos
	cc := &ast.CommClause{Pos: pos}
	if p.tok.Kind == token.KwDefault {
		p.next()
	} else {
		p.expect(token.KwCase, "'case'")
		cc.Comm = p.parseSimpleStmtNoSemi()
	}
	p.expect(token.Colon, "':'")
	for p.tok.Kind != token.KwCase && p.tok.Kind != token.KwDefault &&
		p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		cc.Body = append(cc.Body, p.parseStmt())
	}
	cc.IsDefault = cc.Comm == nil
	return cc
}

func (p *Parser) parseDeferStmt() *ast.DeferStmt {
	pos := p.tok.Pos
	p.next()
	call := p.parseCallOperand()
	p.expectSemi()
	return p.ctx.NewDeferStmt(pos, call)
}

func (p *Parser) parseGoStmt() *ast.GoStmt {
	pos := p.tok.Pos
	p.next()
	call := p.parseCallOperand()
	p.expectSemi()
	return p.ctx.NewGoStmt(pos, call)
}

// parseCallOperand parses an expression that must syntactically be a call,
// as required by `defer` and `go`, reporting a diagnostic (but still
// returning usable AST) if it is not.
func (p *Parser) parseCallOperand() *ast.CallExpr {
	pos := p.tok.Pos
	x := p.parseExpr()
	if call, ok := x.(*ast.CallExpr); ok {
		return call
	}
	p.errorf("expected a call expression")
	return p.ctx.NewCallExpr(pos, x, nil)
}

// parseTryStmt parses either `try { ... } recover(name) { ... }` (the
// recovery-frame statement form) or, when no block follows, delegates to
// expression-statement parsing so that `try expr` is parsed as an
// error-propagation expression (see parseUnaryExpr).
func (p *Parser) parseTryStmt() ast.Stmt {
	pos := p.tok.Pos
	if p.peek().Kind != token.LBrace {
		return p.parseSimpleStmt()
	}
	p.next() // 'try'
	body := p.parseBlockStmt()

	var recoverName string
	var recoverBody *ast.BlockStmt
	if p.tok.Kind == token.KwRecover {
		p.next()
		p.expect(token.LParen, "'('")
		recoverName = p.parseIdentName()
		p.expect(token.RParen, "')'")
		recoverBody = p.parseBlockStmt()
	}
	return p.ctx.NewTryStmt(pos, body, recoverName, recoverBody)
}

func (p *Parser) parsePanicStmt() *ast.PanicStmt {
	pos := p.tok.Pos
	p.next()
	value := p.parseExpr()
	p.expectSemi()
	return p.ctx.NewPanicStmt(pos, value)
}

// parseScopeStmt parses `scope(A) { ... }`.
func (p *Parser) parseScopeStmt() *ast.ScopeStmt {
	pos := p.tok.Pos
	p.next()
	p.expect(token.LParen, "'('")
	allocator := p.parseIdentName()
	p.expect(token.RParen, "')'")
	body := p.parseBlockStmt()
	return p.ctx.NewScopeStmt(pos, allocator, body)
}

// parseSimpleStmt parses a parseSimpleStmtNoSemi and consumes its trailing
// semicolon; this is the form used at ordinary statement position.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	s := p.parseSimpleStmtNoSemi()
	p.expectSemi()
	return s
}

// parseSimpleStmtNoSemi parses an expression statement, channel-send
// statement, or (possibly multi-target, possibly compound) assignment,
// without consuming a trailing semicolon — the form needed in for-loop
// init/post position and in select comm-clauses, neither of which is
// semicolon-terminated.
func (p *Parser) parseSimpleStmtNoSemi() ast.Stmt {
	pos := p.tok.Pos
	exprs := []ast.Expr{p.parseExpr()}
	for p.tok.Kind == token.Comma {
		p.next()
		exprs = append(exprs, p.parseExpr())
	}

	if op, ok := assignOp(p.tok.Kind); ok {
		p.next()
		values := []ast.Expr{p.parseExpr()}
		for p.tok.Kind == token.Comma {
			p.next()
			values = append(values, p.parseExpr())
		}
		// `v, ok = <-ch` is the closed-aware two-result receive form.
		if len(exprs) == 2 && len(values) == 1 {
			if recv, ok := values[0].(*ast.ChanRecvExpr); ok {
				recv.CommaOk = true
			}
		}
		return p.ctx.NewAssignStmt(pos, exprs, op, values)
	}

	if p.tok.Kind == token.ChanSend {
		p.next()
		value := p.parseExpr()
		send := p.ctx.NewChanSendExpr(pos, exprs[0], value)
		return p.ctx.NewExprStmt(pos, send)
	}

	if len(exprs) != 1 {
		p.errorf("unexpected ',' in expression statement")
	}
	return p.ctx.NewExprStmt(pos, exprs[0])
}

func assignOp(k token.Kind) (token.Kind, bool) {
	switch k {
	case token.Assign, token.PlusEq, token.MinusEq, token.StarEq, token.SlashEq, token.PercentEq:
		return k, true
	default:
		return 0, false
	}
}
