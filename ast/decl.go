package ast

import "github.com/darragh-downey/goo/token"

// Param is a function or method parameter: a name and its declared type.
type Param struct {
	Name string
	Type TypeExpr
}

// GenericParam is a type parameter, e.g. the `T` in `fn first[T](...)` or
// `struct List[T] { ... }`. This is one of the Go-compatibility/generics
// nodes the longer node-type enumeration calls for (see DESIGN.md's Open
// Question decision).
type GenericParam struct {
	Name       string
	Constraint TypeExpr // nil if unconstrained
}

// FieldDecl is a named, typed struct member as written in source.
type FieldDecl struct {
	Name string
	Type TypeExpr
}

// EnumVariantDecl is a named enum member with an optional payload type.
type EnumVariantDecl struct {
	Name    string
	Payload TypeExpr // nil if the variant carries no payload
}

// InterfaceMethodDecl is a named method signature inside an interface
// declaration.
type InterfaceMethodDecl struct {
	Name   string
	Params []*Param
	Result TypeExpr // nil for a unit-returning method
}

// Unit is the root node of a compilation unit: package name, imports, and
// top-level declarations.
type Unit struct {
	posNode
	Package string
	Imports []string
	Decls   []Decl
}

func (*Unit) Kind() Kind { return KindUnit }
func (*Unit) declNode()  {}

// NewUnit constructs the compilation unit root.
func (c *Context) NewUnit(pos token.Position, pkg string, imports []string, decls []Decl) *Unit {
	u := &Unit{posNode: posNode{pos}, Package: pkg, Imports: imports, Decls: decls}
	c.track(u)
	return u
}

// FuncDecl is a top-level function declaration.
type FuncDecl struct {
	posNode
	Name       string
	TypeParams []*GenericParam
	Params     []*Param
	Result     TypeExpr // nil for a unit-returning function
	Body       *BlockStmt
}

func (*FuncDecl) Kind() Kind { return KindFuncDecl }
func (*FuncDecl) declNode()  {}

// NewFuncDecl constructs a function declaration.
func (c *Context) NewFuncDecl(pos token.Position, name string, typeParams []*GenericParam, params []*Param, result TypeExpr, body *BlockStmt) *FuncDecl {
	d := &FuncDecl{posNode: posNode{pos}, Name: name, TypeParams: typeParams, Params: params, Result: result, Body: body}
	c.track(d)
	return d
}

// MethodDecl is a method declaration with an explicit receiver, the
// Go-style surface's equivalent of attaching behavior to a type.
type MethodDecl struct {
	posNode
	ReceiverName string
	ReceiverType TypeExpr
	Name         string
	Params       []*Param
	Result       TypeExpr
	Body         *BlockStmt
}

func (*MethodDecl) Kind() Kind { return KindMethodDecl }
func (*MethodDecl) declNode()  {}

// NewMethodDecl constructs a method declaration.
func (c *Context) NewMethodDecl(pos token.Position, recvName string, recvType TypeExpr, name string, params []*Param, result TypeExpr, body *BlockStmt) *MethodDecl {
	d := &MethodDecl{posNode: posNode{pos}, ReceiverName: recvName, ReceiverType: recvType, Name: name, Params: params, Result: result, Body: body}
	c.track(d)
	return d
}

// VarDecl is a variable declaration; Type is nil when the type is
// inferred from Init.
type VarDecl struct {
	posNode
	Name string
	Type TypeExpr
	Init Expr
}

func (*VarDecl) Kind() Kind { return KindVarDecl }
func (*VarDecl) declNode()  {}

// NewVarDecl constructs a variable declaration.
func (c *Context) NewVarDecl(pos token.Position, name string, typ TypeExpr, init Expr) *VarDecl {
	d := &VarDecl{posNode: posNode{pos}, Name: name, Type: typ, Init: init}
	c.track(d)
	return d
}

// ConstDecl is a constant declaration; it always carries an initializer.
type ConstDecl struct {
	posNode
	Name  string
	Type  TypeExpr
	Value Expr
}

func (*ConstDecl) Kind() Kind { return KindConstDecl }
func (*ConstDecl) declNode()  {}

// NewConstDecl constructs a constant declaration.
func (c *Context) NewConstDecl(pos token.Position, name string, typ TypeExpr, value Expr) *ConstDecl {
	d := &ConstDecl{posNode: posNode{pos}, Name: name, Type: typ, Value: value}
	c.track(d)
	return d
}

// TypeAliasDecl binds name to target.
type TypeAliasDecl struct {
	posNode
	Name   string
	Target TypeExpr
}

func (*TypeAliasDecl) Kind() Kind { return KindTypeAliasDecl }
func (*TypeAliasDecl) declNode()  {}

// NewTypeAliasDecl constructs a type alias declaration.
func (c *Context) NewTypeAliasDecl(pos token.Position, name string, target TypeExpr) *TypeAliasDecl {
	d := &TypeAliasDecl{posNode: posNode{pos}, Name: name, Target: target}
	c.track(d)
	return d
}

// StructDecl declares a named struct type with ordered fields.
type StructDecl struct {
	posNode
	Name       string
	TypeParams []*GenericParam
	Fields     []*FieldDecl
}

func (*StructDecl) Kind() Kind { return KindStructDecl }
func (*StructDecl) declNode()  {}

// NewStructDecl constructs a struct declaration.
func (c *Context) NewStructDecl(pos token.Position, name string, typeParams []*GenericParam, fields []*FieldDecl) *StructDecl {
	d := &StructDecl{posNode: posNode{pos}, Name: name, TypeParams: typeParams, Fields: fields}
	c.track(d)
	return d
}

// EnumDecl declares a named enum type with ordered variants.
type EnumDecl struct {
	posNode
	Name     string
	Variants []*EnumVariantDecl
}

func (*EnumDecl) Kind() Kind { return KindEnumDecl }
func (*EnumDecl) declNode()  {}

// NewEnumDecl constructs an enum declaration.
func (c *Context) NewEnumDecl(pos token.Position, name string, variants []*EnumVariantDecl) *EnumDecl {
	d := &EnumDecl{posNode: posNode{pos}, Name: name, Variants: variants}
	c.track(d)
	return d
}

// InterfaceDecl declares a named interface type with ordered methods.
type InterfaceDecl struct {
	posNode
	Name    string
	Methods []*InterfaceMethodDecl
}

func (*InterfaceDecl) Kind() Kind { return KindInterfaceDecl }
func (*InterfaceDecl) declNode()  {}

// NewInterfaceDecl constructs an interface declaration.
func (c *Context) NewInterfaceDecl(pos token.Position, name string, methods []*InterfaceMethodDecl) *InterfaceDecl {
	d := &InterfaceDecl{posNode: posNode{pos}, Name: name, Methods: methods}
	c.track(d)
	return d
}

// ModuleDecl groups nested declarations under a named module.
type ModuleDecl struct {
	posNode
	Name  string
	Decls []Decl
}

func (*ModuleDecl) Kind() Kind { return KindModuleDecl }
func (*ModuleDecl) declNode()  {}

// NewModuleDecl constructs a module declaration.
func (c *Context) NewModuleDecl(pos token.Position, name string, decls []Decl) *ModuleDecl {
	d := &ModuleDecl{posNode: posNode{pos}, Name: name, Decls: decls}
	c.track(d)
	return d
}

// AllocatorDecl declares a named allocator instance of one of the runtime
// variants (heap, arena, pool, region), with constructor arguments (e.g.
// an arena's block size) left as unevaluated expressions for the checker
// to constant-fold and validate.
type AllocatorDecl struct {
	posNode
	Name    string
	Variant string // "heap", "arena", "pool", "region"
	Args    []Expr
}

func (*AllocatorDecl) Kind() Kind { return KindAllocatorDecl }
func (*AllocatorDecl) declNode()  {}

// NewAllocatorDecl constructs an allocator declaration.
func (c *Context) NewAllocatorDecl(pos token.Position, name, variant string, args []Expr) *AllocatorDecl {
	d := &AllocatorDecl{posNode: posNode{pos}, Name: name, Variant: variant, Args: args}
	c.track(d)
	return d
}

// ChannelDecl declares a named channel of a given element type and
// messaging pattern; Capacity is nil for the default (rendezvous or
// pattern-defined) capacity.
type ChannelDecl struct {
	posNode
	Name        string
	ElementType TypeExpr
	Pattern     string // "normal", "pubsub", "pushpull", "reqrep"
	Capacity    Expr
}

func (*ChannelDecl) Kind() Kind { return KindChannelDecl }
func (*ChannelDecl) declNode()  {}

// NewChannelDecl constructs a channel declaration.
func (c *Context) NewChannelDecl(pos token.Position, name string, elem TypeExpr, pattern string, capacity Expr) *ChannelDecl {
	d := &ChannelDecl{posNode: posNode{pos}, Name: name, ElementType: elem, Pattern: pattern, Capacity: capacity}
	c.track(d)
	return d
}

// ComptimeBlock is a compile-time-evaluated block. Its body is preserved
// verbatim in the AST and not interpreted by the core (spec's SIMD
// compile-time blocks are explicitly out of scope); the core only needs
// to parse and carry it.
type ComptimeBlock struct {
	posNode
	Body *BlockStmt
}

func (*ComptimeBlock) Kind() Kind { return KindComptimeBlock }
func (*ComptimeBlock) declNode()  {}

// NewComptimeBlock constructs a comptime block declaration.
func (c *Context) NewComptimeBlock(pos token.Position, body *BlockStmt) *ComptimeBlock {
	d := &ComptimeBlock{posNode: posNode{pos}, Body: body}
	c.track(d)
	return d
}

// CapabilityDecl declares a named capability and the capability names it
// requires, supporting the language's capability-based security model.
type CapabilityDecl struct {
	posNode
	Name     string
	Requires []string
}

func (*CapabilityDecl) Kind() Kind { return KindCapabilityDecl }
func (*CapabilityDecl) declNode()  {}

// NewCapabilityDecl constructs a capability declaration.
func (c *Context) NewCapabilityDecl(pos token.Position, name string, requires []string) *CapabilityDecl {
	d := &CapabilityDecl{posNode: posNode{pos}, Name: name, Requires: requires}
	c.track(d)
	return d
}

// ErrorDecl is a parse-error recovery placeholder standing in for a
// declaration the parser could not make sense of.
type ErrorDecl struct {
	posNode
	Message string
}

func (*ErrorDecl) Kind() Kind { return KindErrorDecl }
func (*ErrorDecl) declNode()  {}

// NewErrorDecl constructs an error-recovery placeholder declaration.
func (c *Context) NewErrorDecl(pos token.Position, message string) *ErrorDecl {
	d := &ErrorDecl{posNode: posNode{pos}, Message: message}
	c.track(d)
	return d
}
