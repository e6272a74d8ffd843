// Package ast defines the abstract syntax tree: a closed tagged-variant
// node set (declarations, statements, expressions, and syntactic type
// references) owned by a per-compilation-unit arena.
package ast

import (
	"fmt"

	"github.com/darragh-downey/goo/internal/arena"
	"github.com/darragh-downey/goo/token"
	"github.com/darragh-downey/goo/types"
)

// Kind tags which variant a Node is. Downstream passes (the type checker,
// any external backend) dispatch on Kind exhaustively rather than relying
// on open-ended interface embedding.
type Kind int

const (
	KindInvalid Kind = iota

	// Declarations.
	KindUnit
	KindFuncDecl
	KindMethodDecl
	KindVarDecl
	KindConstDecl
	KindTypeAliasDecl
	KindStructDecl
	KindEnumDecl
	KindInterfaceDecl
	KindModuleDecl
	KindAllocatorDecl
	KindChannelDecl
	KindComptimeBlock
	KindCapabilityDecl
	KindErrorDecl

	// Statements.
	KindBlockStmt
	KindIfStmt
	KindForStmt
	KindForRangeStmt
	KindWhileStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindSwitchStmt
	KindSelectStmt
	KindDeferStmt
	KindGoStmt
	KindSuperviseStmt
	KindTryStmt
	KindPanicStmt
	KindScopeStmt
	KindExprStmt
	KindAssignStmt
	KindErrorStmt
	KindDeclStmt

	// Expressions.
	KindIntLit
	KindFloatLit
	KindStringLit
	KindBoolLit
	KindNullLit
	KindRangeLit
	KindCompositeLit
	KindIdentExpr
	KindBinaryExpr
	KindUnaryExpr
	KindCallExpr
	KindSelectorExpr
	KindIndexExpr
	KindSliceExpr
	KindChanSendExpr
	KindChanRecvExpr
	KindTypeAssertExpr
	KindFuncLitExpr
	KindAllocExpr
	KindFreeExpr
	KindTryExpr
	KindSuperExpr
	KindErrorExpr

	// Syntactic type references (as written in source, before checking
	// resolves them to an interned types.Type).
	KindNamedTypeExpr
	KindArrayTypeExpr
	KindSliceTypeExpr
	KindPointerTypeExpr
	KindFuncTypeExpr
	KindChannelTypeExpr
	KindGenericTypeExpr
)

var kindNames = [...]string{
	KindInvalid:         "invalid",
	KindUnit:            "Unit",
	KindFuncDecl:        "FuncDecl",
	KindMethodDecl:      "MethodDecl",
	KindVarDecl:         "VarDecl",
	KindConstDecl:       "ConstDecl",
	KindTypeAliasDecl:   "TypeAliasDecl",
	KindStructDecl:      "StructDecl",
	KindEnumDecl:        "EnumDecl",
	KindInterfaceDecl:   "InterfaceDecl",
	KindModuleDecl:      "ModuleDecl",
	KindAllocatorDecl:   "AllocatorDecl",
	KindChannelDecl:     "ChannelDecl",
	KindComptimeBlock:   "ComptimeBlock",
	KindCapabilityDecl:  "CapabilityDecl",
	KindErrorDecl:       "ErrorDecl",
	KindBlockStmt:       "BlockStmt",
	KindIfStmt:          "IfStmt",
	KindForStmt:         "ForStmt",
	KindForRangeStmt:    "ForRangeStmt",
	KindWhileStmt:       "WhileStmt",
	KindReturnStmt:      "ReturnStmt",
	KindBreakStmt:       "BreakStmt",
	KindContinueStmt:    "ContinueStmt",
	KindSwitchStmt:      "SwitchStmt",
	KindSelectStmt:      "SelectStmt",
	KindDeferStmt:       "DeferStmt",
	KindGoStmt:          "GoStmt",
	KindSuperviseStmt:   "SuperviseStmt",
	KindTryStmt:         "TryStmt",
	KindPanicStmt:       "PanicStmt",
	KindScopeStmt:       "ScopeStmt",
	KindExprStmt:        "ExprStmt",
	KindAssignStmt:      "AssignStmt",
	KindErrorStmt:       "ErrorStmt",
	KindDeclStmt:        "DeclStmt",
	KindIntLit:          "IntLit",
	KindFloatLit:        "FloatLit",
	KindStringLit:       "StringLit",
	KindBoolLit:         "BoolLit",
	KindNullLit:         "NullLit",
	KindRangeLit:        "RangeLit",
	KindCompositeLit:    "CompositeLit",
	KindIdentExpr:       "IdentExpr",
	KindBinaryExpr:      "BinaryExpr",
	KindUnaryExpr:       "UnaryExpr",
	KindCallExpr:        "CallExpr",
	KindSelectorExpr:    "SelectorExpr",
	KindIndexExpr:       "IndexExpr",
	KindSliceExpr:       "SliceExpr",
	KindChanSendExpr:    "ChanSendExpr",
	KindChanRecvExpr:    "ChanRecvExpr",
	KindTypeAssertExpr:  "TypeAssertExpr",
	KindFuncLitExpr:     "FuncLitExpr",
	KindAllocExpr:       "AllocExpr",
	KindFreeExpr:        "FreeExpr",
	KindTryExpr:         "TryExpr",
	KindSuperExpr:       "SuperExpr",
	KindErrorExpr:       "ErrorExpr",
	KindNamedTypeExpr:   "NamedTypeExpr",
	KindArrayTypeExpr:   "ArrayTypeExpr",
	KindSliceTypeExpr:   "SliceTypeExpr",
	KindPointerTypeExpr: "PointerTypeExpr",
	KindFuncTypeExpr:    "FuncTypeExpr",
	KindChannelTypeExpr: "ChannelTypeExpr",
	KindGenericTypeExpr: "GenericTypeExpr",
}

// String renders the kind's name for diagnostics and pretty-printing.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is the common interface every AST node implements: its tag and its
// source position. Every node is owned by exactly one arena-backed
// Context; cross-references to other nodes (e.g. an identifier's resolved
// symbol) are non-owning lookups, never a second ownership edge — see
// DESIGN.md's notes on cyclic back-references.
type Node interface {
	Kind() Kind
	Pos() token.Position
}

// Decl is an AST node that is a top-level or block-scoped declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is an AST node that is a statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an AST node that is an expression; it carries a resolved-type
// slot the checker sets exactly once.
type Expr interface {
	Node
	exprNode()
	ResolvedType() *types.Type
	SetResolvedType(*types.Type)
}

// TypeExpr is a syntactic type reference as written in source, prior to
// resolution. The checker resolves it to an interned types.Type via the
// same resolved-type slot mechanism as Expr.
type TypeExpr interface {
	Node
	typeExprNode()
	ResolvedType() *types.Type
	SetResolvedType(*types.Type)
}

// posNode supplies Pos() via embedding.
type posNode struct {
	NodePos token.Position
}

func (p posNode) Pos() token.Position { return p.NodePos }

// typed supplies the once-settable resolved-type slot via embedding.
// SetResolvedType panics on a second call, matching spec's "guarded by an
// assertion" requirement — this is a compiler-internal invariant
// violation, not a user-facing diagnostic.
type typed struct {
	resolved *types.Type
}

func (t *typed) ResolvedType() *types.Type { return t.resolved }

func (t *typed) SetResolvedType(rt *types.Type) {
	if t.resolved != nil {
		panic("ast: resolved type already set for this node")
	}
	t.resolved = rt
}

// Context owns every node allocated for one compilation unit. Freeing a
// unit frees all its nodes in O(1) by resetting the arena (spec's AST
// model §4.C); in a garbage-collected host language the concrete payoff
// is dropping every tracking reference at once rather than walking and
// freeing nodes individually, while the nodes themselves remain ordinary
// Go values owned by whichever parent node references them.
type Context struct {
	nodes arena.Arena[Node]
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{}
}

// track records n as owned by this context. Every node constructor in
// this package calls it before returning.
func (c *Context) track(n Node) {
	c.nodes.New(n)
}

// Len returns the number of nodes allocated in this context.
func (c *Context) Len() int {
	return c.nodes.Len()
}

// Reset discards every node this context owns in O(1) time. Node
// pointers minted before a reset must not be dereferenced afterwards.
func (c *Context) Reset() {
	c.nodes.Reset()
}
