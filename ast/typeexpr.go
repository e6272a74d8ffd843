package ast

import "github.com/darragh-downey/goo/token"

// NamedTypeExpr references a type by name (a primitive, or a
// struct/enum/interface/alias declared elsewhere).
type NamedTypeExpr struct {
	posNode
	typed
	Name string
}

func (*NamedTypeExpr) Kind() Kind { return KindNamedTypeExpr }
func (*NamedTypeExpr) typeExprNode() {}

// NewNamedTypeExpr constructs a named type reference.
func (c *Context) NewNamedTypeExpr(pos token.Position, name string) *NamedTypeExpr {
	e := &NamedTypeExpr{posNode: posNode{pos}, Name: name}
	c.track(e)
	return e
}

// ArrayTypeExpr is `[Length]Elem`.
type ArrayTypeExpr struct {
	posNode
	typed
	Elem   TypeExpr
	Length Expr
}

func (*ArrayTypeExpr) Kind() Kind { return KindArrayTypeExpr }
func (*ArrayTypeExpr) typeExprNode() {}

// NewArrayTypeExpr constructs an array type reference.
func (c *Context) NewArrayTypeExpr(pos token.Position, elem TypeExpr, length Expr) *ArrayTypeExpr {
	e := &ArrayTypeExpr{posNode: posNode{pos}, Elem: elem, Length: length}
	c.track(e)
	return e
}

// SliceTypeExpr is `[]Elem`.
type SliceTypeExpr struct {
	posNode
	typed
	Elem TypeExpr
}

func (*SliceTypeExpr) Kind() Kind { return KindSliceTypeExpr }
func (*SliceTypeExpr) typeExprNode() {}

// NewSliceTypeExpr constructs a slice type reference.
func (c *Context) NewSliceTypeExpr(pos token.Position, elem TypeExpr) *SliceTypeExpr {
	e := &SliceTypeExpr{posNode: posNode{pos}, Elem: elem}
	c.track(e)
	return e
}

// PointerTypeExpr is `*Pointee`.
type PointerTypeExpr struct {
	posNode
	typed
	Pointee TypeExpr
}

func (*PointerTypeExpr) Kind() Kind { return KindPointerTypeExpr }
func (*PointerTypeExpr) typeExprNode() {}

// NewPointerTypeExpr constructs a pointer type reference.
func (c *Context) NewPointerTypeExpr(pos token.Position, pointee TypeExpr) *PointerTypeExpr {
	e := &PointerTypeExpr{posNode: posNode{pos}, Pointee: pointee}
	c.track(e)
	return e
}

// FuncTypeExpr is `fn(Params...) -> Result`.
type FuncTypeExpr struct {
	posNode
	typed
	Params []TypeExpr
	Result TypeExpr
}

func (*FuncTypeExpr) Kind() Kind { return KindFuncTypeExpr }
func (*FuncTypeExpr) typeExprNode() {}

// NewFuncTypeExpr constructs a function type reference.
func (c *Context) NewFuncTypeExpr(pos token.Position, params []TypeExpr, result TypeExpr) *FuncTypeExpr {
	e := &FuncTypeExpr{posNode: posNode{pos}, Params: params, Result: result}
	c.track(e)
	return e
}

// ChannelTypeExpr is `channel(Pattern) Elem`.
type ChannelTypeExpr struct {
	posNode
	typed
	Elem    TypeExpr
	Pattern string
}

func (*ChannelTypeExpr) Kind() Kind { return KindChannelTypeExpr }
func (*ChannelTypeExpr) typeExprNode() {}

// NewChannelTypeExpr constructs a channel type reference.
func (c *Context) NewChannelTypeExpr(pos token.Position, elem TypeExpr, pattern string) *ChannelTypeExpr {
	e := &ChannelTypeExpr{posNode: posNode{pos}, Elem: elem, Pattern: pattern}
	c.track(e)
	return e
}

// GenericTypeExpr is a generic instantiation `Base[Args...]`, e.g.
// `List[i32]`. This is one of the Go-compatibility/generics nodes the
// longer node-type enumeration calls for (see DESIGN.md's Open Question
// decision).
type GenericTypeExpr struct {
	posNode
	typed
	Base TypeExpr
	Args []TypeExpr
}

func (*GenericTypeExpr) Kind() Kind { return KindGenericTypeExpr }
func (*GenericTypeExpr) typeExprNode() {}

// NewGenericTypeExpr constructs a generic type instantiation reference.
func (c *Context) NewGenericTypeExpr(pos token.Position, base TypeExpr, args []TypeExpr) *GenericTypeExpr {
	e := &GenericTypeExpr{posNode: posNode{pos}, Base: base, Args: args}
	c.track(e)
	return e
}
