package check

import (
	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/report"
	"github.com/darragh-downey/goo/types"
)

// namedPrimitives maps the surface-syntax spelling of every built-in
// scalar to its Primitive tag, so that resolveTypeExpr can resolve
// NamedTypeExpr nodes without a symbol-table round trip for the common
// case.
var namedPrimitives = map[string]types.Primitive{
	"bool": types.Bool,
	"i8":   types.Int8, "i16": types.Int16, "i32": types.Int32, "i64": types.Int64,
	"u8": types.Uint8, "u16": types.Uint16, "u32": types.Uint32, "u64": types.Uint64,
	"f32": types.Float32, "f64": types.Float64,
	"string": types.String,
	"unit":   types.Unit,
	"any":    types.Any,
}

var patternNames = map[string]types.ChannelPattern{
	"normal":   types.Normal,
	"pubsub":   types.PubSub,
	"pushpull": types.PushPull,
	"reqrep":   types.ReqRep,
}

// resolveTypeExpr resolves a syntactic type reference to its interned
// types.Type, consulting scope for named non-primitive types. It sets the
// node's resolved-type slot exactly once and returns the sentinel error
// type (without diagnosing twice) if resolution fails.
func (c *Checker) resolveTypeExpr(te ast.TypeExpr, scope *types.Scope) *types.Type {
	if te == nil {
		return c.unitResult()
	}
	t := c.resolveTypeExprNoSet(te, scope)
	te.SetResolvedType(t)
	return t
}

func (c *Checker) resolveTypeExprNoSet(te ast.TypeExpr, scope *types.Scope) *types.Type {
	switch te := te.(type) {
	case *ast.NamedTypeExpr:
		if p, ok := namedPrimitives[te.Name]; ok {
			return c.types.Primitive(p)
		}
		sym, ok := scope.Lookup(te.Name)
		if !ok || sym.Kind != types.TypeSymbol {
			c.errorf(te.Pos(), "undefined type: %s", te.Name)
			return c.types.Error()
		}
		if sym.Type == nil {
			return c.types.Error()
		}
		return sym.Type

	case *ast.ArrayTypeExpr:
		elem := c.resolveTypeExpr(te.Elem, scope)
		length := c.constIntValue(te.Length, scope)
		return c.types.Array(elem, length)

	case *ast.SliceTypeExpr:
		return c.types.Slice(c.resolveTypeExpr(te.Elem, scope))

	case *ast.PointerTypeExpr:
		return c.types.Pointer(c.resolveTypeExpr(te.Pointee, scope))

	case *ast.FuncTypeExpr:
		params := make([]*types.Type, len(te.Params))
		for i, p := range te.Params {
			params[i] = c.resolveTypeExpr(p, scope)
		}
		result := c.unitResult()
		if te.Result != nil {
			result = c.resolveTypeExpr(te.Result, scope)
		}
		return c.types.Function(params, result)

	case *ast.ChannelTypeExpr:
		elem := c.resolveTypeExpr(te.Elem, scope)
		pattern, ok := patternNames[te.Pattern]
		if !ok {
			c.errorf(te.Pos(), "unknown channel pattern: %s", te.Pattern)
			pattern = types.Normal
		}
		return c.types.Channel(elem, pattern)

	case *ast.GenericTypeExpr:
		// Generic instantiation is resolved to its base type; type-argument
		// substitution is a monomorphization concern left to codegen, not
		// something the checker's Type representation models structurally.
		base := c.resolveTypeExpr(te.Base, scope)
		for _, a := range te.Args {
			c.resolveTypeExpr(a, scope)
		}
		return base

	default:
		c.errorf(te.Pos(), "unresolvable type expression")
		return c.types.Error()
	}
}

// constIntValue evaluates an array-length expression. Only literal integers
// and simple constant references are supported; anything else is reported
// and treated as length 0, which keeps the resulting Array type well-formed
// rather than aborting the whole resolution.
func (c *Checker) constIntValue(e ast.Expr, scope *types.Scope) int {
	switch e := e.(type) {
	case *ast.IntLit:
		c.checkExpr(e, scope)
		return int(e.Value)
	case *ast.IdentExpr:
		c.checkExpr(e, scope)
		sym, ok := scope.Lookup(e.Name)
		if !ok || sym.Kind != types.VariableSymbol {
			c.errorf(e.Pos(), "array length must be a constant integer")
			return 0
		}
		// Constant folding beyond a literal is out of scope: the reference
		// is checked and must name a variable or constant symbol, but its
		// type and value are not examined and the length is recorded as 0.
		c.rep.Remark(report.TypeError, "array length from a named constant is not folded; treated as unverified", report.At(posOf(e.Pos())))
		return 0
	default:
		if e == nil {
			return 0
		}
		c.checkExpr(e, scope)
		c.errorf(e.Pos(), "array length must be a constant integer")
		return 0
	}
}
