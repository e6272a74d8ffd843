package check

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/token"
	"github.com/darragh-downey/goo/types"
)

// checkBlock checks every statement in block against scope, which the
// caller has already prepared (a fresh child scope for a nested block, or
// the function's own parameter scope for a function body).
func (c *Checker) checkBlock(block *ast.BlockStmt, scope *types.Scope) {
	if block == nil {
		return
	}
	for _, s := range block.Stmts {
		c.checkStmt(s, scope)
	}
}

// childBlock pushes a fresh child of scope and checks block against it —
// the common case for if/for/while/switch/select/try/scope bodies, each of
// which introduces its own lexical scope.
func (c *Checker) childBlock(block *ast.BlockStmt, scope *types.Scope) *types.Scope {
	child := c.syms.PushScope(scope)
	c.checkBlock(block, child)
	return child
}

func (c *Checker) checkStmt(s ast.Stmt, scope *types.Scope) {
	switch s := s.(type) {
	case *ast.BlockStmt:
		c.childBlock(s, scope)

	case *ast.DeclStmt:
		c.checkLocalDecl(s.D, scope)

	case *ast.ExprStmt:
		c.checkExpr(s.X, scope)

	case *ast.AssignStmt:
		c.checkAssignStmt(s, scope)

	case *ast.IfStmt:
		c.checkIfStmt(s, scope)

	case *ast.ForStmt:
		c.checkForStmt(s, scope)

	case *ast.ForRangeStmt:
		c.checkForRangeStmt(s, scope)

	case *ast.WhileStmt:
		c.checkExprBool(s.Cond, scope, "while condition")
		c.loopDepth++
		c.childBlock(s.Body, scope)
		c.loopDepth--

	case *ast.ReturnStmt:
		c.checkReturnStmt(s, scope)

	case *ast.BreakStmt:
		if c.loopDepth == 0 && c.switchDepth == 0 {
			c.errorf(s.Pos(), "break outside a loop or switch")
		}

	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.errorf(s.Pos(), "continue outside a loop")
		}

	case *ast.SwitchStmt:
		c.checkSwitchStmt(s, scope)

	case *ast.SelectStmt:
		c.checkSelectStmt(s, scope)

	case *ast.DeferStmt:
		c.checkExpr(s.Call, scope)

	case *ast.GoStmt:
		c.checkExpr(s.Call, scope)

	case *ast.SuperviseStmt:
		c.childBlock(s.Body, scope)

	case *ast.TryStmt:
		c.checkTryStmt(s, scope)

	case *ast.PanicStmt:
		if s.Value != nil {
			c.checkExpr(s.Value, scope)
		}

	case *ast.ScopeStmt:
		c.checkAllocatorRef(s.Allocator, s.Pos(), scope)
		c.childBlock(s.Body, scope)

	case *ast.ErrorStmt:
		// Already diagnosed during parsing; nothing further to check.

	default:
		c.log.Warn("check: unhandled statement kind", zap.String("kind", fmt.Sprintf("%T", s)))
	}
}

func (c *Checker) checkExprBool(e ast.Expr, scope *types.Scope, what string) *types.Type {
	t := c.checkExpr(e, scope)
	if !types.IsError(t) && !types.Identical(types.Underlying(t), c.types.Primitive(types.Bool)) {
		c.errorf(e.Pos(), "%s must be bool, got %s", what, t)
	}
	return t
}

func (c *Checker) checkIfStmt(s *ast.IfStmt, scope *types.Scope) {
	c.checkExprBool(s.Cond, scope, "if condition")
	c.childBlock(s.Then, scope)
	switch els := s.Else.(type) {
	case nil:
	case *ast.BlockStmt:
		c.childBlock(els, scope)
	default:
		c.checkStmt(els, scope)
	}
}

func (c *Checker) checkForStmt(s *ast.ForStmt, scope *types.Scope) {
	loopScope := c.syms.PushScope(scope)
	if s.Init != nil {
		c.checkStmt(s.Init, loopScope)
	}
	if s.Cond != nil {
		c.checkExprBool(s.Cond, loopScope, "for condition")
	}
	if s.Post != nil {
		c.checkStmt(s.Post, loopScope)
	}
	c.loopDepth++
	c.childBlock(s.Body, loopScope)
	c.loopDepth--
}

func (c *Checker) checkForRangeStmt(s *ast.ForRangeStmt, scope *types.Scope) {
	iterT := c.checkExpr(s.Iterable, scope)
	var elemT *types.Type
	uit := types.Underlying(iterT)
	switch {
	case types.IsError(iterT):
		elemT = c.types.Error()
	case uit.Kind() == types.SliceKind || uit.Kind() == types.ArrayKind:
		elemT = uit.Elem()
	case types.IsNumeric(iterT):
		elemT = iterT
	default:
		c.errorf(s.Iterable.Pos(), "cannot range over type %s", iterT)
		elemT = c.types.Error()
	}

	loopScope := c.syms.PushScope(scope)
	if s.IndexName != "" {
		if _, err := loopScope.Declare(s.IndexName, types.VariableSymbol, c.types.Primitive(types.Int64), s.Pos()); err != nil {
			c.errorf(s.Pos(), "%s", err)
		}
	}
	if _, err := loopScope.Declare(s.ValueName, types.VariableSymbol, elemT, s.Pos()); err != nil {
		c.errorf(s.Pos(), "%s", err)
	}

	c.loopDepth++
	c.childBlock(s.Body, loopScope)
	c.loopDepth--
}

func (c *Checker) checkReturnStmt(s *ast.ReturnStmt, scope *types.Scope) {
	result := c.funcResult
	if result == nil {
		result = c.unitResult()
	}
	isUnit := types.Identical(result, c.unitResult())

	if s.Value == nil {
		if !isUnit {
			c.errorf(s.Pos(), "missing return value of type %s", result)
		}
		return
	}
	if isUnit {
		c.errorf(s.Value.Pos(), "function does not return a value")
		c.checkExpr(s.Value, scope)
		return
	}
	vt := c.checkExpr(s.Value, scope)
	if !c.isAssignable(vt, result) {
		c.errorf(s.Value.Pos(), "cannot return %s as %s", vt, result)
	}
}

func (c *Checker) checkSwitchStmt(s *ast.SwitchStmt, scope *types.Scope) {
	var tagType *types.Type
	if s.Tag != nil {
		tagType = c.checkExpr(s.Tag, scope)
	} else {
		tagType = c.types.Primitive(types.Bool)
	}

	c.switchDepth++
	defer func() { c.switchDepth-- }()

	for _, cl := range s.Cases {
		for _, v := range cl.Values {
			vt := c.checkExpr(v, scope)
			if !c.isAssignable(vt, tagType) {
				c.errorf(v.Pos(), "case value of type %s is not assignable to %s", vt, tagType)
			}
		}
		caseScope := c.syms.PushScope(scope)
		for _, st := range cl.Body {
			c.checkStmt(st, caseScope)
		}
	}
}

func (c *Checker) checkSelectStmt(s *ast.SelectStmt, scope *types.Scope) {
	for _, cl := range s.Cases {
		caseScope := c.syms.PushScope(scope)
		if cl.Comm != nil {
			c.checkStmt(cl.Comm, caseScope)
		}
		for _, st := range cl.Body {
			c.checkStmt(st, caseScope)
		}
	}
}

func (c *Checker) checkTryStmt(s *ast.TryStmt, scope *types.Scope) {
	c.childBlock(s.Body, scope)
	if s.RecoverBody == nil {
		return
	}
	recoverScope := c.syms.PushScope(scope)
	if s.RecoverName != "" {
		if _, err := recoverScope.Declare(s.RecoverName, types.VariableSymbol, c.types.Primitive(types.Any), s.Pos()); err != nil {
			c.errorf(s.Pos(), "%s", err)
		}
	}
	c.checkBlock(s.RecoverBody, recoverScope)
}

func (c *Checker) checkAssignStmt(s *ast.AssignStmt, scope *types.Scope) {
	// The two-result closed-aware channel receive (`v, ok = <-ch`) is the
	// one assignment shape whose right-hand side arity (one) legitimately
	// differs from its left-hand side arity (two).
	if len(s.Targets) == 2 && len(s.Values) == 1 {
		if recv, ok := s.Values[0].(*ast.ChanRecvExpr); ok && recv.CommaOk {
			elemT := c.checkExpr(recv, scope)
			c.checkAssignTarget(s.Targets[0], elemT, scope)
			c.checkAssignTarget(s.Targets[1], c.types.Primitive(types.Bool), scope)
			return
		}
	}

	if len(s.Targets) != len(s.Values) {
		c.errorf(s.Pos(), "assignment mismatch: %d targets, %d values", len(s.Targets), len(s.Values))
	}
	for i, target := range s.Targets {
		if i >= len(s.Values) {
			break
		}
		vt := c.checkExpr(s.Values[i], scope)
		if s.Op != token.Assign {
			// checkCompoundOp has already checked the target, so its
			// resolved type is read back instead of checking it again.
			vt = c.checkCompoundOp(s.Op, target, vt, scope)
			if targetT := target.ResolvedType(); !c.isAssignable(vt, targetT) {
				c.errorf(target.Pos(), "cannot assign %s to %s", vt, targetT)
			}
			continue
		}
		c.checkAssignTarget(target, vt, scope)
	}
}

// checkCompoundOp validates a compound-assignment operator (+=, -=, etc.)
// against the target's current type and returns the promoted result type
// that must then be assignable back into the target.
func (c *Checker) checkCompoundOp(op token.Kind, target ast.Expr, valueT *types.Type, scope *types.Scope) *types.Type {
	targetT := c.checkExpr(target, scope)
	if types.IsError(targetT) || types.IsError(valueT) {
		return c.types.Error()
	}
	if !types.IsNumeric(targetT) || !types.IsNumeric(valueT) || !types.SameCategory(targetT, valueT) {
		c.errorf(target.Pos(), "compound assignment %s requires matching numeric operands, got %s and %s", op, targetT, valueT)
		return c.types.Error()
	}
	promoted, _ := types.Promote(targetT, valueT)
	return promoted
}

func (c *Checker) checkAssignTarget(target ast.Expr, valueT *types.Type, scope *types.Scope) {
	targetT := c.checkExpr(target, scope)
	if !c.isAssignable(valueT, targetT) {
		c.errorf(target.Pos(), "cannot assign %s to %s", valueT, targetT)
	}
}

// checkLocalDecl checks a var/const declaration appearing inside a block
// and declares its symbol in scope.
func (c *Checker) checkLocalDecl(d ast.Decl, scope *types.Scope) {
	switch d := d.(type) {
	case *ast.VarDecl:
		t := c.checkVarLike(d.Type, d.Init, scope, "var "+d.Name)
		if _, err := scope.Declare(d.Name, types.VariableSymbol, t, d.Pos()); err != nil {
			c.errorf(d.Pos(), "%s", err)
		}
	case *ast.ConstDecl:
		t := c.checkVarLike(d.Type, d.Value, scope, "const "+d.Name)
		if _, err := scope.Declare(d.Name, types.VariableSymbol, t, d.Pos()); err != nil {
			c.errorf(d.Pos(), "%s", err)
		}
	case *ast.ErrorDecl:
		// Already diagnosed during parsing.
	default:
		c.log.Warn("check: unhandled local declaration kind")
	}
}

// checkVarLike implements the shared variable/constant-initializer rule:
// if the type annotation is absent, infer from the initializer; if both
// are present, the initializer's type must be assignable to the annotation.
func (c *Checker) checkVarLike(declared ast.TypeExpr, init ast.Expr, scope *types.Scope, what string) *types.Type {
	var declaredT *types.Type
	if declared != nil {
		declaredT = c.resolveTypeExpr(declared, scope)
	}
	var initT *types.Type
	if init != nil {
		initT = c.checkExpr(init, scope)
	}
	switch {
	case declaredT != nil && initT != nil:
		if !c.isAssignable(initT, declaredT) {
			c.errorf(init.Pos(), "cannot assign initializer of type %s to %s of declared type %s", initT, what, declaredT)
		}
		return declaredT
	case declaredT != nil:
		return declaredT
	case initT != nil:
		return initT
	default:
		return c.types.Error()
	}
}
