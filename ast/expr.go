package ast

import (
	"github.com/darragh-downey/goo/token"
	"github.com/darragh-downey/goo/types"
)

// IntLit is a decoded integer literal.
type IntLit struct {
	posNode
	typed
	Value uint64
}

func (*IntLit) Kind() Kind { return KindIntLit }
func (*IntLit) exprNode()  {}

// NewIntLit constructs an integer literal expression.
func (c *Context) NewIntLit(pos token.Position, value uint64) *IntLit {
	e := &IntLit{posNode: posNode{pos}, Value: value}
	c.track(e)
	return e
}

// FloatLit is a decoded floating-point literal.
type FloatLit struct {
	posNode
	typed
	Value float64
}

func (*FloatLit) Kind() Kind { return KindFloatLit }
func (*FloatLit) exprNode()  {}

// NewFloatLit constructs a float literal expression.
func (c *Context) NewFloatLit(pos token.Position, value float64) *FloatLit {
	e := &FloatLit{posNode: posNode{pos}, Value: value}
	c.track(e)
	return e
}

// StringLit is a decoded string literal (escapes already resolved, raw
// strings taken verbatim).
type StringLit struct {
	posNode
	typed
	Value string
}

func (*StringLit) Kind() Kind { return KindStringLit }
func (*StringLit) exprNode()  {}

// NewStringLit constructs a string literal expression.
func (c *Context) NewStringLit(pos token.Position, value string) *StringLit {
	e := &StringLit{posNode: posNode{pos}, Value: value}
	c.track(e)
	return e
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	posNode
	typed
	Value bool
}

func (*BoolLit) Kind() Kind { return KindBoolLit }
func (*BoolLit) exprNode()  {}

// NewBoolLit constructs a boolean literal expression.
func (c *Context) NewBoolLit(pos token.Position, value bool) *BoolLit {
	e := &BoolLit{posNode: posNode{pos}, Value: value}
	c.track(e)
	return e
}

// NullLit is the `null` literal.
type NullLit struct {
	posNode
	typed
}

func (*NullLit) Kind() Kind { return KindNullLit }
func (*NullLit) exprNode()  {}

// NewNullLit constructs a null literal expression.
func (c *Context) NewNullLit(pos token.Position) *NullLit {
	e := &NullLit{posNode: posNode{pos}}
	c.track(e)
	return e
}

// RangeLit is `lo..hi` or `lo..=hi`.
type RangeLit struct {
	posNode
	typed
	Lo, Hi    Expr
	Inclusive bool
}

func (*RangeLit) Kind() Kind { return KindRangeLit }
func (*RangeLit) exprNode()  {}

// NewRangeLit constructs a range literal expression.
func (c *Context) NewRangeLit(pos token.Position, lo, hi Expr, inclusive bool) *RangeLit {
	e := &RangeLit{posNode: posNode{pos}, Lo: lo, Hi: hi, Inclusive: inclusive}
	c.track(e)
	return e
}

// CompositeLit constructs an aggregate value: an optional explicit type,
// and either positional Elements or, if Keys is non-empty, a Keys[i]:
// Elements[i] named-field initializer list of equal length.
type CompositeLit struct {
	posNode
	typed
	Type     TypeExpr
	Keys     []string
	Elements []Expr
}

func (*CompositeLit) Kind() Kind { return KindCompositeLit }
func (*CompositeLit) exprNode()  {}

// NewCompositeLit constructs a composite literal expression.
func (c *Context) NewCompositeLit(pos token.Position, typ TypeExpr, keys []string, elements []Expr) *CompositeLit {
	e := &CompositeLit{posNode: posNode{pos}, Type: typ, Keys: keys, Elements: elements}
	c.track(e)
	return e
}

// IdentExpr references a name. Symbol is nil until the checker resolves
// it; the AST contract to backends guarantees it is non-nil after a
// successful check.
type IdentExpr struct {
	posNode
	typed
	Name   string
	Symbol *types.Symbol
}

func (*IdentExpr) Kind() Kind { return KindIdentExpr }
func (*IdentExpr) exprNode()  {}

// NewIdentExpr constructs an identifier reference expression.
func (c *Context) NewIdentExpr(pos token.Position, name string) *IdentExpr {
	e := &IdentExpr{posNode: posNode{pos}, Name: name}
	c.track(e)
	return e
}

// BinaryExpr applies Op to Left and Right.
type BinaryExpr struct {
	posNode
	typed
	Op          token.Kind
	Left, Right Expr
}

func (*BinaryExpr) Kind() Kind { return KindBinaryExpr }
func (*BinaryExpr) exprNode()  {}

// NewBinaryExpr constructs a binary expression.
func (c *Context) NewBinaryExpr(pos token.Position, op token.Kind, left, right Expr) *BinaryExpr {
	e := &BinaryExpr{posNode: posNode{pos}, Op: op, Left: left, Right: right}
	c.track(e)
	return e
}

// UnaryExpr applies a prefix operator (`! - + ~ * &`) to X.
type UnaryExpr struct {
	posNode
	typed
	Op token.Kind
	X  Expr
}

func (*UnaryExpr) Kind() Kind { return KindUnaryExpr }
func (*UnaryExpr) exprNode()  {}

// NewUnaryExpr constructs a unary expression.
func (c *Context) NewUnaryExpr(pos token.Position, op token.Kind, x Expr) *UnaryExpr {
	e := &UnaryExpr{posNode: posNode{pos}, Op: op, X: x}
	c.track(e)
	return e
}

// CallExpr invokes Callee with Args.
type CallExpr struct {
	posNode
	typed
	Callee Expr
	Args   []Expr
}

func (*CallExpr) Kind() Kind { return KindCallExpr }
func (*CallExpr) exprNode()  {}

// NewCallExpr constructs a call expression.
func (c *Context) NewCallExpr(pos token.Position, callee Expr, args []Expr) *CallExpr {
	e := &CallExpr{posNode: posNode{pos}, Callee: callee, Args: args}
	c.track(e)
	return e
}

// SelectorExpr is `X.Name` (field access or method value).
type SelectorExpr struct {
	posNode
	typed
	X    Expr
	Name string
}

func (*SelectorExpr) Kind() Kind { return KindSelectorExpr }
func (*SelectorExpr) exprNode()  {}

// NewSelectorExpr constructs a selector expression.
func (c *Context) NewSelectorExpr(pos token.Position, x Expr, name string) *SelectorExpr {
	e := &SelectorExpr{posNode: posNode{pos}, X: x, Name: name}
	c.track(e)
	return e
}

// IndexExpr is `X[Index]`.
type IndexExpr struct {
	posNode
	typed
	X, Index Expr
}

func (*IndexExpr) Kind() Kind { return KindIndexExpr }
func (*IndexExpr) exprNode()  {}

// NewIndexExpr constructs an index expression.
func (c *Context) NewIndexExpr(pos token.Position, x, index Expr) *IndexExpr {
	e := &IndexExpr{posNode: posNode{pos}, X: x, Index: index}
	c.track(e)
	return e
}

// SliceExpr is `X[Low:High]`; Low and High may each be nil to mean the
// start or end of X respectively.
type SliceExpr struct {
	posNode
	typed
	X, Low, High Expr
}

func (*SliceExpr) Kind() Kind { return KindSliceExpr }
func (*SliceExpr) exprNode()  {}

// NewSliceExpr constructs a slice expression.
func (c *Context) NewSliceExpr(pos token.Position, x, low, high Expr) *SliceExpr {
	e := &SliceExpr{posNode: posNode{pos}, X: x, Low: low, High: high}
	c.track(e)
	return e
}

// ChanSendExpr is `Channel <- Value`. The parser only ever produces this
// node in statement position (wrapped in an ExprStmt) or as a select
// comm-clause's Comm; it is not reachable from the general expression
// grammar, matching the "statement form only" rule while still giving
// select a uniform node to hang a comm-clause off of.
type ChanSendExpr struct {
	posNode
	typed
	Channel, Value Expr
}

func (*ChanSendExpr) Kind() Kind { return KindChanSendExpr }
func (*ChanSendExpr) exprNode()  {}

// NewChanSendExpr constructs a channel-send expression.
func (c *Context) NewChanSendExpr(pos token.Position, channel, value Expr) *ChanSendExpr {
	e := &ChanSendExpr{posNode: posNode{pos}, Channel: channel, Value: value}
	c.track(e)
	return e
}

// ChanRecvExpr is prefix `<-Channel`. CommaOk is true when the receive is
// used in the closed-aware two-result form (`v, ok := <-ch`).
type ChanRecvExpr struct {
	posNode
	typed
	Channel Expr
	CommaOk bool
}

func (*ChanRecvExpr) Kind() Kind { return KindChanRecvExpr }
func (*ChanRecvExpr) exprNode()  {}

// NewChanRecvExpr constructs a channel-receive expression.
func (c *Context) NewChanRecvExpr(pos token.Position, channel Expr, commaOk bool) *ChanRecvExpr {
	e := &ChanRecvExpr{posNode: posNode{pos}, Channel: channel, CommaOk: commaOk}
	c.track(e)
	return e
}

// TypeAssertExpr is `X.(Type)`.
type TypeAssertExpr struct {
	posNode
	typed
	X    Expr
	Type TypeExpr
}

func (*TypeAssertExpr) Kind() Kind { return KindTypeAssertExpr }
func (*TypeAssertExpr) exprNode()  {}

// NewTypeAssertExpr constructs a type-assertion expression.
func (c *Context) NewTypeAssertExpr(pos token.Position, x Expr, typ TypeExpr) *TypeAssertExpr {
	e := &TypeAssertExpr{posNode: posNode{pos}, X: x, Type: typ}
	c.track(e)
	return e
}

// FuncLitExpr is an anonymous function value.
type FuncLitExpr struct {
	posNode
	typed
	Params []*Param
	Result TypeExpr
	Body   *BlockStmt
}

func (*FuncLitExpr) Kind() Kind { return KindFuncLitExpr }
func (*FuncLitExpr) exprNode()  {}

// NewFuncLitExpr constructs a function literal expression.
func (c *Context) NewFuncLitExpr(pos token.Position, params []*Param, result TypeExpr, body *BlockStmt) *FuncLitExpr {
	e := &FuncLitExpr{posNode: posNode{pos}, Params: params, Result: result, Body: body}
	c.track(e)
	return e
}

// AllocExpr is `alloc Type[Size] [allocator: Allocator]`. Size is nil for
// a single-value allocation; Allocator is "" when the clause is omitted,
// in which case it binds to the innermost enclosing ScopeStmt.
type AllocExpr struct {
	posNode
	typed
	Type      TypeExpr
	Size      Expr
	Allocator string
}

func (*AllocExpr) Kind() Kind { return KindAllocExpr }
func (*AllocExpr) exprNode()  {}

// NewAllocExpr constructs an alloc expression.
func (c *Context) NewAllocExpr(pos token.Position, typ TypeExpr, size Expr, allocator string) *AllocExpr {
	e := &AllocExpr{posNode: posNode{pos}, Type: typ, Size: size, Allocator: allocator}
	c.track(e)
	return e
}

// FreeExpr releases a value previously produced by AllocExpr.
type FreeExpr struct {
	posNode
	typed
	Value     Expr
	Allocator string
}

func (*FreeExpr) Kind() Kind { return KindFreeExpr }
func (*FreeExpr) exprNode()  {}

// NewFreeExpr constructs a free expression.
func (c *Context) NewFreeExpr(pos token.Position, value Expr, allocator string) *FreeExpr {
	e := &FreeExpr{posNode: posNode{pos}, Value: value, Allocator: allocator}
	c.track(e)
	return e
}

// TryExpr propagates X's error outcome to the enclosing function,
// short-circuiting a `return` of the error case.
type TryExpr struct {
	posNode
	typed
	X Expr
}

func (*TryExpr) Kind() Kind { return KindTryExpr }
func (*TryExpr) exprNode()  {}

// NewTryExpr constructs a try-expression (error propagation).
func (c *Context) NewTryExpr(pos token.Position, x Expr) *TryExpr {
	e := &TryExpr{posNode: posNode{pos}, X: x}
	c.track(e)
	return e
}

// SuperExpr invokes the enclosing method's overridden counterpart on the
// parent type with Args.
type SuperExpr struct {
	posNode
	typed
	Args []Expr
}

func (*SuperExpr) Kind() Kind { return KindSuperExpr }
func (*SuperExpr) exprNode()  {}

// NewSuperExpr constructs a super-expression.
func (c *Context) NewSuperExpr(pos token.Position, args []Expr) *SuperExpr {
	e := &SuperExpr{posNode: posNode{pos}, Args: args}
	c.track(e)
	return e
}

// ErrorExpr is a parse-error recovery placeholder standing in for an
// expression the parser could not make sense of. The checker resolves
// its type to the sentinel `error` type so it does not cascade further
// diagnostics.
type ErrorExpr struct {
	posNode
	typed
	Message string
}

func (*ErrorExpr) Kind() Kind { return KindErrorExpr }
func (*ErrorExpr) exprNode()  {}

// NewErrorExpr constructs an error-recovery placeholder expression.
func (c *Context) NewErrorExpr(pos token.Position, message string) *ErrorExpr {
	e := &ErrorExpr{posNode: posNode{pos}, Message: message}
	c.track(e)
	return e
}
