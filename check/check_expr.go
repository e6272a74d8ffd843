package check

import (
	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/token"
	"github.com/darragh-downey/goo/types"
)

// checkExpr resolves e's type, validating it against scope, and sets e's
// resolved-type slot exactly once before returning the resolved type.
func (c *Checker) checkExpr(e ast.Expr, scope *types.Scope) *types.Type {
	t := c.checkExprNoSet(e, scope)
	e.SetResolvedType(t)
	return t
}

func (c *Checker) checkExprNoSet(e ast.Expr, scope *types.Scope) *types.Type {
	switch e := e.(type) {
	case *ast.IntLit:
		return c.types.Primitive(types.Int32)
	case *ast.FloatLit:
		return c.types.Primitive(types.Float64)
	case *ast.StringLit:
		return c.types.Primitive(types.String)
	case *ast.BoolLit:
		return c.types.Primitive(types.Bool)
	case *ast.NullLit:
		return c.types.Primitive(types.Any)
	case *ast.RangeLit:
		return c.checkRangeLit(e, scope)
	case *ast.CompositeLit:
		return c.checkCompositeLit(e, scope)
	case *ast.IdentExpr:
		return c.checkIdentExpr(e, scope)
	case *ast.BinaryExpr:
		return c.checkBinaryExpr(e, scope)
	case *ast.UnaryExpr:
		return c.checkUnaryExpr(e, scope)
	case *ast.CallExpr:
		return c.checkCallExpr(e, scope)
	case *ast.SelectorExpr:
		return c.checkSelectorExpr(e, scope)
	case *ast.IndexExpr:
		return c.checkIndexExpr(e, scope)
	case *ast.SliceExpr:
		return c.checkSliceExpr(e, scope)
	case *ast.ChanSendExpr:
		return c.checkChanSendExpr(e, scope)
	case *ast.ChanRecvExpr:
		return c.checkChanRecvExpr(e, scope)
	case *ast.TypeAssertExpr:
		xt := c.checkExpr(e.X, scope)
		_ = xt
		return c.resolveTypeExpr(e.Type, scope)
	case *ast.FuncLitExpr:
		return c.checkFuncLitExpr(e, scope)
	case *ast.AllocExpr:
		return c.checkAllocExpr(e, scope)
	case *ast.FreeExpr:
		return c.checkFreeExpr(e, scope)
	case *ast.TryExpr:
		return c.checkExpr(e.X, scope)
	case *ast.SuperExpr:
		for _, a := range e.Args {
			c.checkExpr(a, scope)
		}
		return c.unitResult()
	case *ast.ErrorExpr:
		return c.types.Error()
	default:
		c.errorf(e.Pos(), "unresolvable expression")
		return c.types.Error()
	}
}

func (c *Checker) checkRangeLit(e *ast.RangeLit, scope *types.Scope) *types.Type {
	lo := c.checkExpr(e.Lo, scope)
	hi := c.checkExpr(e.Hi, scope)
	if types.IsError(lo) || types.IsError(hi) {
		return c.types.Error()
	}
	promoted, ok := types.Promote(lo, hi)
	if !ok {
		c.errorf(e.Pos(), "range bounds must be numeric of the same category, got %s and %s", lo, hi)
		return c.types.Error()
	}
	return promoted
}

func (c *Checker) checkIdentExpr(e *ast.IdentExpr, scope *types.Scope) *types.Type {
	sym, ok := scope.Lookup(e.Name)
	if !ok {
		c.errorf(e.Pos(), "undefined: %s", e.Name)
		return c.types.Error()
	}
	e.Symbol = sym
	if sym.Type == nil {
		return c.types.Error()
	}
	return sym.Type
}

func categoryName(t *types.Type) string {
	if t == nil {
		return "unknown"
	}
	if t.Kind() != types.PrimitiveKind {
		return t.String()
	}
	switch t.Primitive() {
	case types.Int8, types.Int16, types.Int32, types.Int64:
		return "signed-int"
	case types.Uint8, types.Uint16, types.Uint32, types.Uint64:
		return "unsigned-int"
	case types.Float32, types.Float64:
		return "float"
	default:
		return t.String()
	}
}

func (c *Checker) checkBinaryExpr(e *ast.BinaryExpr, scope *types.Scope) *types.Type {
	lt := c.checkExpr(e.Left, scope)
	rt := c.checkExpr(e.Right, scope)
	if types.IsError(lt) || types.IsError(rt) {
		return c.types.Error()
	}

	switch e.Op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.Amp, token.Pipe, token.Caret, token.Shl, token.Shr:
		if !types.IsNumeric(lt) || !types.IsNumeric(rt) {
			c.errorf(e.Pos(), "operator %s requires numeric operands, got %s and %s", e.Op, lt, rt)
			return c.types.Error()
		}
		if !types.SameCategory(lt, rt) {
			c.errorf(e.Pos(), "cannot mix %s and %s", categoryName(lt), categoryName(rt))
			return c.types.Error()
		}
		promoted, _ := types.Promote(lt, rt)
		return promoted

	case token.Eq, token.NotEq:
		if !types.Identical(types.Underlying(lt), types.Underlying(rt)) && !(types.IsNumeric(lt) && types.IsNumeric(rt) && types.SameCategory(lt, rt)) {
			c.errorf(e.Pos(), "incomparable types for equality: %s and %s", lt, rt)
		}
		return c.types.Primitive(types.Bool)

	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if !types.IsComparable(lt) || !types.IsComparable(rt) || !(types.Identical(types.Underlying(lt), types.Underlying(rt)) || types.SameCategory(lt, rt)) {
			c.errorf(e.Pos(), "cannot compare %s and %s", lt, rt)
		}
		return c.types.Primitive(types.Bool)

	case token.AmpAmp, token.PipePipe:
		boolT := c.types.Primitive(types.Bool)
		if !types.Identical(types.Underlying(lt), boolT) || !types.Identical(types.Underlying(rt), boolT) {
			c.errorf(e.Pos(), "logical operator %s requires bool operands, got %s and %s", e.Op, lt, rt)
		}
		return boolT

	default:
		c.errorf(e.Pos(), "unsupported binary operator %s", e.Op)
		return c.types.Error()
	}
}

func (c *Checker) checkUnaryExpr(e *ast.UnaryExpr, scope *types.Scope) *types.Type {
	xt := c.checkExpr(e.X, scope)
	if types.IsError(xt) {
		return c.types.Error()
	}
	switch e.Op {
	case token.Bang:
		if !types.Identical(types.Underlying(xt), c.types.Primitive(types.Bool)) {
			c.errorf(e.Pos(), "operator ! requires a bool operand, got %s", xt)
			return c.types.Error()
		}
		return xt
	case token.Minus, token.Plus:
		if !types.IsNumeric(xt) {
			c.errorf(e.Pos(), "unary %s requires a numeric operand, got %s", e.Op, xt)
			return c.types.Error()
		}
		return xt
	case token.Tilde:
		if !types.IsNumeric(xt) || categoryName(xt) == "float" {
			c.errorf(e.Pos(), "operator ~ requires an integer operand, got %s", xt)
			return c.types.Error()
		}
		return xt
	case token.Star:
		ut := types.Underlying(xt)
		if ut.Kind() != types.PointerKind {
			c.errorf(e.Pos(), "cannot dereference non-pointer type %s", xt)
			return c.types.Error()
		}
		return ut.Elem()
	case token.Amp:
		return c.types.Pointer(xt)
	default:
		c.errorf(e.Pos(), "unsupported unary operator %s", e.Op)
		return c.types.Error()
	}
}

func (c *Checker) checkCallExpr(e *ast.CallExpr, scope *types.Scope) *types.Type {
	ct := c.checkExpr(e.Callee, scope)
	argTypes := make([]*types.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.checkExpr(a, scope)
	}
	if types.IsError(ct) {
		return c.types.Error()
	}
	fnt := types.Underlying(ct)
	if fnt.Kind() != types.FunctionKind {
		c.errorf(e.Pos(), "cannot call non-function type %s", ct)
		return c.types.Error()
	}
	params := fnt.Params()
	if len(params) != len(argTypes) {
		c.errorf(e.Pos(), "wrong number of arguments: got %d, want %d", len(argTypes), len(params))
		return fnt.Result()
	}
	for i, pt := range params {
		if !c.isAssignable(argTypes[i], pt) {
			if types.IsNumeric(argTypes[i]) && types.IsNumeric(pt) && !types.SameCategory(argTypes[i], pt) {
				c.errorf(e.Args[i].Pos(), "argument %d: cannot mix %s and %s", i+1, categoryName(pt), categoryName(argTypes[i]))
				continue
			}
			c.errorf(e.Args[i].Pos(), "argument %d: cannot assign %s to %s", i+1, argTypes[i], pt)
		}
	}
	return fnt.Result()
}

func (c *Checker) checkSelectorExpr(e *ast.SelectorExpr, scope *types.Scope) *types.Type {
	xt := c.checkExpr(e.X, scope)
	if types.IsError(xt) {
		return c.types.Error()
	}
	target := types.Underlying(xt)
	if target.Kind() == types.PointerKind {
		target = types.Underlying(target.Elem())
	}
	switch target.Kind() {
	case types.StructKind:
		for _, f := range target.Fields() {
			if f.Name == e.Name {
				return f.Type
			}
		}
		c.errorf(e.Pos(), "struct %s has no field %s", target.Name(), e.Name)
		return c.types.Error()
	case types.EnumKind:
		for _, v := range target.Variants() {
			if v.Name == e.Name {
				return target
			}
		}
		c.errorf(e.Pos(), "enum %s has no variant %s", target.Name(), e.Name)
		return c.types.Error()
	case types.InterfaceKind:
		for _, m := range target.Methods() {
			if m.Name == e.Name {
				return m.Sig
			}
		}
		c.errorf(e.Pos(), "interface %s has no method %s", target.Name(), e.Name)
		return c.types.Error()
	default:
		c.errorf(e.Pos(), "cannot select %s on type %s", e.Name, xt)
		return c.types.Error()
	}
}

func (c *Checker) checkIndexExpr(e *ast.IndexExpr, scope *types.Scope) *types.Type {
	xt := c.checkExpr(e.X, scope)
	it := c.checkExpr(e.Index, scope)
	if !types.IsError(it) && !types.IsNumeric(it) {
		c.errorf(e.Index.Pos(), "index must be numeric, got %s", it)
	}
	if types.IsError(xt) {
		return c.types.Error()
	}
	ut := types.Underlying(xt)
	switch ut.Kind() {
	case types.SliceKind, types.ArrayKind:
		return ut.Elem()
	case types.PointerKind:
		return ut.Elem()
	default:
		c.errorf(e.Pos(), "cannot index type %s", xt)
		return c.types.Error()
	}
}

func (c *Checker) checkSliceExpr(e *ast.SliceExpr, scope *types.Scope) *types.Type {
	xt := c.checkExpr(e.X, scope)
	if e.Low != nil {
		if lt := c.checkExpr(e.Low, scope); !types.IsError(lt) && !types.IsNumeric(lt) {
			c.errorf(e.Low.Pos(), "slice bound must be numeric, got %s", lt)
		}
	}
	if e.High != nil {
		if ht := c.checkExpr(e.High, scope); !types.IsError(ht) && !types.IsNumeric(ht) {
			c.errorf(e.High.Pos(), "slice bound must be numeric, got %s", ht)
		}
	}
	if types.IsError(xt) {
		return c.types.Error()
	}
	ut := types.Underlying(xt)
	switch ut.Kind() {
	case types.SliceKind, types.ArrayKind:
		return c.types.Slice(ut.Elem())
	default:
		c.errorf(e.Pos(), "cannot slice type %s", xt)
		return c.types.Error()
	}
}

func (c *Checker) checkChanSendExpr(e *ast.ChanSendExpr, scope *types.Scope) *types.Type {
	cht := c.checkExpr(e.Channel, scope)
	vt := c.checkExpr(e.Value, scope)
	if types.IsError(cht) {
		return c.unitResult()
	}
	ucht := types.Underlying(cht)
	if ucht.Kind() != types.ChannelKind {
		c.errorf(e.Pos(), "cannot send on non-channel type %s", cht)
		return c.unitResult()
	}
	if !c.isAssignable(vt, ucht.Elem()) {
		c.errorf(e.Value.Pos(), "cannot send %s on channel of %s", vt, ucht.Elem())
	}
	return c.unitResult()
}

func (c *Checker) checkChanRecvExpr(e *ast.ChanRecvExpr, scope *types.Scope) *types.Type {
	cht := c.checkExpr(e.Channel, scope)
	if types.IsError(cht) {
		return c.types.Error()
	}
	ucht := types.Underlying(cht)
	if ucht.Kind() != types.ChannelKind {
		c.errorf(e.Pos(), "cannot receive from non-channel type %s", cht)
		return c.types.Error()
	}
	return ucht.Elem()
}

func (c *Checker) checkFuncLitExpr(e *ast.FuncLitExpr, scope *types.Scope) *types.Type {
	fnScope := c.syms.PushScope(scope)
	params := make([]*types.Type, len(e.Params))
	for i, p := range e.Params {
		pt := c.resolveTypeExpr(p.Type, fnScope)
		params[i] = pt
		if _, err := fnScope.Declare(p.Name, types.ParameterSymbol, pt, p.Type.Pos()); err != nil {
			c.errorf(p.Type.Pos(), "%s", err)
		}
	}
	result := c.unitResult()
	if e.Result != nil {
		result = c.resolveTypeExpr(e.Result, fnScope)
	}

	savedResult := c.funcResult
	c.funcResult = result
	c.checkBlock(e.Body, fnScope)
	c.funcResult = savedResult

	return c.types.Function(params, result)
}

func (c *Checker) checkAllocExpr(e *ast.AllocExpr, scope *types.Scope) *types.Type {
	elemType := c.resolveTypeExpr(e.Type, scope)
	if e.Size != nil {
		if st := c.checkExpr(e.Size, scope); !types.IsError(st) && !types.IsNumeric(st) {
			c.errorf(e.Size.Pos(), "alloc size must be numeric, got %s", st)
		}
	}
	c.checkAllocatorRef(e.Allocator, e.Pos(), scope)
	return c.types.Pointer(elemType)
}

func (c *Checker) checkFreeExpr(e *ast.FreeExpr, scope *types.Scope) *types.Type {
	vt := c.checkExpr(e.Value, scope)
	if !types.IsError(vt) && types.Underlying(vt).Kind() != types.PointerKind {
		c.errorf(e.Value.Pos(), "free requires a pointer, got %s", vt)
	}
	c.checkAllocatorRef(e.Allocator, e.Pos(), scope)
	return c.unitResult()
}

func (c *Checker) checkAllocatorRef(name string, pos token.Position, scope *types.Scope) {
	if name == "" {
		return
	}
	sym, ok := scope.Lookup(name)
	if !ok || sym.Kind != types.AllocatorSymbol {
		c.errorf(pos, "undefined allocator: %s", name)
	}
}

func (c *Checker) checkCompositeLit(e *ast.CompositeLit, scope *types.Scope) *types.Type {
	if e.Type == nil {
		return c.checkInferredCompositeLit(e, scope)
	}
	t := c.resolveTypeExpr(e.Type, scope)
	if types.IsError(t) {
		for _, el := range e.Elements {
			c.checkExpr(el, scope)
		}
		return t
	}
	ut := types.Underlying(t)
	switch ut.Kind() {
	case types.StructKind:
		c.checkStructLit(e, ut, scope)
	case types.ArrayKind, types.SliceKind:
		elemT := ut.Elem()
		if len(e.Keys) > 0 {
			c.errorf(e.Pos(), "%s literal cannot use named fields", t)
		}
		for _, el := range e.Elements {
			et := c.checkExpr(el, scope)
			if !c.isAssignable(et, elemT) {
				c.errorf(el.Pos(), "cannot assign %s to element type %s", et, elemT)
			}
		}
	default:
		c.errorf(e.Pos(), "cannot construct %s with a composite literal", t)
		for _, el := range e.Elements {
			c.checkExpr(el, scope)
		}
	}
	return t
}

func (c *Checker) checkStructLit(e *ast.CompositeLit, structType *types.Type, scope *types.Scope) {
	fields := structType.Fields()
	if len(e.Keys) > 0 {
		if len(e.Keys) != len(e.Elements) {
			c.errorf(e.Pos(), "mismatched keys and values in struct literal")
		}
		for i, key := range e.Keys {
			if i >= len(e.Elements) {
				break
			}
			et := c.checkExpr(e.Elements[i], scope)
			field, ok := fieldByName(fields, key)
			if !ok {
				c.errorf(e.Elements[i].Pos(), "struct %s has no field %s", structType.Name(), key)
				continue
			}
			if !c.isAssignable(et, field.Type) {
				c.errorf(e.Elements[i].Pos(), "cannot assign %s to field %s of type %s", et, key, field.Type)
			}
		}
		return
	}
	if len(e.Elements) != len(fields) {
		c.errorf(e.Pos(), "struct %s literal has %d values, want %d", structType.Name(), len(e.Elements), len(fields))
	}
	for i, el := range e.Elements {
		et := c.checkExpr(el, scope)
		if i >= len(fields) {
			continue
		}
		if !c.isAssignable(et, fields[i].Type) {
			c.errorf(el.Pos(), "cannot assign %s to field %s of type %s", et, fields[i].Name, fields[i].Type)
		}
	}
}

func fieldByName(fields []types.Field, name string) (types.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return types.Field{}, false
}

func (c *Checker) checkInferredCompositeLit(e *ast.CompositeLit, scope *types.Scope) *types.Type {
	if len(e.Keys) > 0 {
		c.errorf(e.Pos(), "composite literal with named fields requires an explicit type")
		for _, el := range e.Elements {
			c.checkExpr(el, scope)
		}
		return c.types.Error()
	}
	if len(e.Elements) == 0 {
		c.errorf(e.Pos(), "cannot infer type of an empty composite literal")
		return c.types.Error()
	}
	first := c.checkExpr(e.Elements[0], scope)
	for _, el := range e.Elements[1:] {
		et := c.checkExpr(el, scope)
		if !c.isAssignable(et, first) {
			c.errorf(el.Pos(), "mismatched element type %s in literal of %s", et, first)
		}
	}
	return c.types.Slice(first)
}

// isAssignable reports whether a value of type from may be assigned where
// a value of type to is expected: identical types; the sentinel error type
// in either position (cascade suppression); the universal `any` type in
// either position; or numeric widening within the same category.
func (c *Checker) isAssignable(from, to *types.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if types.IsError(from) || types.IsError(to) {
		return true
	}
	if isAny(from) || isAny(to) {
		return true
	}
	if types.Identical(from, to) {
		return true
	}
	if types.Identical(types.Underlying(from), types.Underlying(to)) {
		return true
	}
	if wider, ok := types.Promote(from, to); ok && wider == to {
		return true
	}
	return false
}

func isAny(t *types.Type) bool {
	ut := types.Underlying(t)
	return ut.Kind() == types.PrimitiveKind && ut.Primitive() == types.Any
}
