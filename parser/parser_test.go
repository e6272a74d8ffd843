package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/lexer"
	"github.com/darragh-downey/goo/parser"
	"github.com/darragh-downey/goo/report"
	"github.com/darragh-downey/goo/token"
)

func parseUnit(t *testing.T, src string) (*ast.Unit, *report.Report) {
	t.Helper()
	lx := lexer.New("test.goo", src)
	ctx := ast.NewContext()
	rep := &report.Report{}
	u := parser.New(lx, ctx, rep).ParseUnit()
	return u, rep
}

func TestParsesPackageAndImports(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
import std/io
import std/strings

fn main() {
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	assert.Equal(t, "main", u.Package)
	assert.Equal(t, []string{"std/io", "std/strings"}, u.Imports)
	require.Len(t, u.Decls, 1)
	assert.Equal(t, ast.KindFuncDecl, u.Decls[0].Kind())
}

func TestParsesFuncDeclWithParamsAndResult(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn add(a: i32, b: i32) -> i32 {
	return a + b;
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	require.Len(t, u.Decls, 1)
	fn, ok := u.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.Len(t, fn.Body.Stmts, 1)

	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.Plus, bin.Op)
}

func TestParsesMethodDeclWithReceiver(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn (self: Point) Length() -> f64 {
	return self.x;
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	require.Len(t, u.Decls, 1)
	m, ok := u.Decls[0].(*ast.MethodDecl)
	require.True(t, ok)
	assert.Equal(t, "self", m.ReceiverName)
	assert.Equal(t, "Length", m.Name)
}

func TestBinaryExprPrecedenceClimbsCorrectly(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() -> i32 {
	return 1 + 2 * 3;
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)

	top, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.Plus, top.Op, "+ should bind looser than *, so it is the outermost node")

	_, leftIsLit := top.Left.(*ast.IntLit)
	assert.True(t, leftIsLit)

	right, ok := top.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.Star, right.Op)
}

func TestRangeExpressionBindsBelowAdditive(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
var r = 1 + 1..10 - 1;
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	v := u.Decls[0].(*ast.VarDecl)
	rng, ok := v.Init.(*ast.RangeLit)
	require.True(t, ok, "range should be the outermost node since it binds looser than + and -")
	assert.False(t, rng.Inclusive)

	_, loIsAdd := rng.Lo.(*ast.BinaryExpr)
	assert.True(t, loIsAdd)
	_, hiIsSub := rng.Hi.(*ast.BinaryExpr)
	assert.True(t, hiIsSub)
}

func TestChannelReceiveIsPrefixUnary(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
var v = <-ch;
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	v := u.Decls[0].(*ast.VarDecl)
	recv, ok := v.Init.(*ast.ChanRecvExpr)
	require.True(t, ok)
	assert.False(t, recv.CommaOk)
}

func TestChannelSendIsStatementForm(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() {
	ch <- 1;
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	stmt, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	_, ok = stmt.X.(*ast.ChanSendExpr)
	assert.True(t, ok)
}

func TestGoSpawnRequiresACall(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() {
	go work(1, 2);
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	g, ok := fn.Body.Stmts[0].(*ast.GoStmt)
	require.True(t, ok)
	require.Len(t, g.Call.Args, 2)
}

func TestSelectWithCasesAndDefault(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() {
	select {
	case v = <-ch:
		use(v);
	default:
		idle();
	}
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	sel, ok := fn.Body.Stmts[0].(*ast.SelectStmt)
	require.True(t, ok)
	require.Len(t, sel.Cases, 2)
	assert.False(t, sel.Cases[0].IsDefault)
	assert.True(t, sel.Cases[1].IsDefault)
}

func TestAllocExpressionWithSizeAndAllocator(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
var p = alloc i32[4] allocator: a;
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	v := u.Decls[0].(*ast.VarDecl)
	al, ok := v.Init.(*ast.AllocExpr)
	require.True(t, ok)
	assert.Equal(t, "a", al.Allocator)
	require.NotNil(t, al.Size)
}

func TestScopeBlockBindsAllocator(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() {
	scope(arena1) {
		var p = alloc i32;
	}
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	sc, ok := fn.Body.Stmts[0].(*ast.ScopeStmt)
	require.True(t, ok)
	assert.Equal(t, "arena1", sc.Allocator)
}

func TestStructDeclWithFields(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
struct Point {
	x: f64;
	y: f64;
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	s := u.Decls[0].(*ast.StructDecl)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "x", s.Fields[0].Name)
}

func TestGenericStructAndFuncDecls(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
struct List[T] {
	head: T;
}
fn first[T](xs: List[T]) -> T {
	return xs.head;
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	s := u.Decls[0].(*ast.StructDecl)
	require.Len(t, s.TypeParams, 1)
	assert.Equal(t, "T", s.TypeParams[0].Name)

	fn := u.Decls[1].(*ast.FuncDecl)
	require.Len(t, fn.TypeParams, 1)
	require.Len(t, fn.Params, 1)
	gte, ok := fn.Params[0].Type.(*ast.GenericTypeExpr)
	require.True(t, ok)
	require.Len(t, gte.Args, 1)
}

func TestEnumDeclWithPayload(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
enum Result {
	Ok(i32),
	Err(string),
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	e := u.Decls[0].(*ast.EnumDecl)
	require.Len(t, e.Variants, 2)
	assert.Equal(t, "Ok", e.Variants[0].Name)
	require.NotNil(t, e.Variants[0].Payload)
}

func TestInterfaceDeclWithMethods(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
interface Shape {
	Area() -> f64;
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	i := u.Decls[0].(*ast.InterfaceDecl)
	require.Len(t, i.Methods, 1)
	assert.Equal(t, "Area", i.Methods[0].Name)
}

func TestAllocatorDeclWithArgs(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
allocator a = arena(4096);
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	d := u.Decls[0].(*ast.AllocatorDecl)
	assert.Equal(t, "arena", d.Variant)
	require.Len(t, d.Args, 1)
}

func TestChannelDeclWithPatternAndCapacity(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
channel events (pubsub) Message cap: 16;
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	d := u.Decls[0].(*ast.ChannelDecl)
	assert.Equal(t, "pubsub", d.Pattern)
	require.NotNil(t, d.Capacity)
}

func TestCapabilityDeclWithRequires(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
capability net requires fs, clock;
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	d := u.Decls[0].(*ast.CapabilityDecl)
	assert.Equal(t, []string{"fs", "clock"}, d.Requires)
}

func TestForRangeStmtWithIndexAndValue(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() {
	for i, v in items {
		use(i, v);
	}
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	fr, ok := fn.Body.Stmts[0].(*ast.ForRangeStmt)
	require.True(t, ok)
	assert.Equal(t, "i", fr.IndexName)
	assert.Equal(t, "v", fr.ValueName)
}

func TestCStyleForStmt(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() {
	for i = 0; i < 10; i = i + 1 {
		use(i);
	}
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	fs, ok := fn.Body.Stmts[0].(*ast.ForStmt)
	require.True(t, ok)
	require.NotNil(t, fs.Init)
	require.NotNil(t, fs.Cond)
	require.NotNil(t, fs.Post)
}

func TestTryRecoverStmt(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() {
	try {
		risky();
	} recover(e) {
		handle(e);
	}
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	tr, ok := fn.Body.Stmts[0].(*ast.TryStmt)
	require.True(t, ok)
	assert.Equal(t, "e", tr.RecoverName)
	require.NotNil(t, tr.RecoverBody)
}

func TestTryExpressionErrorPropagation(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() {
	var v = try risky();
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	ds, ok := fn.Body.Stmts[0].(*ast.DeclStmt)
	require.True(t, ok)
	vd, ok := ds.D.(*ast.VarDecl)
	require.True(t, ok)
	_, ok = vd.Init.(*ast.TryExpr)
	assert.True(t, ok)
}

func TestSwitchMatchWithCases(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f() {
	match x {
	case 1:
		a();
	case 2, 3:
		b();
	default:
		c();
	}
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	sw, ok := fn.Body.Stmts[0].(*ast.SwitchStmt)
	require.True(t, ok)
	require.NotNil(t, sw.Tag)
	require.Len(t, sw.Cases, 3)
	require.Len(t, sw.Cases[1].Values, 2)
	assert.True(t, sw.Cases[2].IsDefault)
}

func TestMalformedDeclProducesDiagnosticAndRecovers(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
???
fn ok() {
}
`)
	assert.True(t, rep.HasErrors())
	require.Len(t, u.Decls, 2)
	assert.Equal(t, ast.KindErrorDecl, u.Decls[0].Kind())
	assert.Equal(t, ast.KindFuncDecl, u.Decls[1].Kind())
}

func TestCompositeLiteralWithNamedFields(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
var p = Point{x: 1, y: 2};
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	v := u.Decls[0].(*ast.VarDecl)
	lit, ok := v.Init.(*ast.CompositeLit)
	require.True(t, ok)
	require.Len(t, lit.Elements, 2)
	assert.Equal(t, []string{"x", "y"}, lit.Keys)
}

func TestPointerAndSliceTypeExprs(t *testing.T) {
	t.Parallel()

	u, rep := parseUnit(t, `package main
fn f(p: *i32, xs: []i32) {
}
`)
	require.False(t, rep.HasErrors(), rep.Diagnostics())
	fn := u.Decls[0].(*ast.FuncDecl)
	_, ok := fn.Params[0].Type.(*ast.PointerTypeExpr)
	assert.True(t, ok)
	_, ok = fn.Params[1].Type.(*ast.SliceTypeExpr)
	assert.True(t, ok)
}
