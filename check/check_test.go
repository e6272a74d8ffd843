package check_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/check"
	"github.com/darragh-downey/goo/report"
	"github.com/darragh-downey/goo/token"
)

func pos() token.Position {
	return token.Position{File: "test.goo", Line: 1, Column: 1}
}

func namedType(c *ast.Context, name string) *ast.NamedTypeExpr {
	return c.NewNamedTypeExpr(pos(), name)
}

func newChecker() (*check.Checker, *report.Report) {
	rep := &report.Report{}
	return check.NewChecker(rep, zap.NewNop()), rep
}

func errorMessages(rep *report.Report) []string {
	var out []string
	for _, d := range rep.Diagnostics() {
		out = append(out, d.Message)
	}
	return out
}

func TestHoistSupportsMutuallyRecursiveStructsRegardlessOfOrder(t *testing.T) {
	t.Parallel()

	for _, order := range [][2]string{{"A", "B"}, {"B", "A"}} {
		c := ast.NewContext()
		a := c.NewStructDecl(pos(), "A", nil, []*ast.FieldDecl{
			{Name: "next", Type: c.NewPointerTypeExpr(pos(), namedType(c, "B"))},
		})
		b := c.NewStructDecl(pos(), "B", nil, []*ast.FieldDecl{
			{Name: "prev", Type: c.NewPointerTypeExpr(pos(), namedType(c, "A"))},
		})

		var decls []ast.Decl
		if order[0] == "A" {
			decls = []ast.Decl{a, b}
		} else {
			decls = []ast.Decl{b, a}
		}

		unit := c.NewUnit(pos(), "test", nil, decls)
		checker, rep := newChecker()
		ok := checker.Check(unit)
		assert.True(t, ok, "diagnostics: %v", errorMessages(rep))

		at := checker.Types()
		aSym, ok := checker.Symbols().Root().Lookup("A")
		require.True(t, ok)
		bSym, ok := checker.Symbols().Root().Lookup("B")
		require.True(t, ok)
		require.Len(t, aSym.Type.Fields(), 1)
		require.Len(t, bSym.Type.Fields(), 1)
		assert.True(t, aSym.Type.Fields()[0].Type.Elem() == bSym.Type)
		assert.True(t, bSym.Type.Fields()[0].Type.Elem() == aSym.Type)
		_ = at
	}
}

func TestVarDeclInfersTypeFromInitializer(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	v := c.NewVarDecl(pos(), "x", nil, c.NewIntLit(pos(), 5))
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{v})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	require.True(t, ok, "diagnostics: %v", errorMessages(rep))

	sym, found := checker.Symbols().Root().Lookup("x")
	require.True(t, found)
	assert.Equal(t, "i32", sym.Type.String())
}

func TestVarDeclRejectsMismatchedAnnotation(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	v := c.NewVarDecl(pos(), "x", namedType(c, "string"), c.NewIntLit(pos(), 5))
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{v})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok)
	assert.True(t, rep.HasErrors())
}

func TestBinaryOpRejectsMixedSignedIntAndFloat(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	expr := c.NewBinaryExpr(pos(), token.Plus, c.NewIntLit(pos(), 1), c.NewFloatLit(pos(), 2.0))
	v := c.NewVarDecl(pos(), "x", nil, expr)
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{v})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok)

	msgs := errorMessages(rep)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "cannot mix signed-int and float")
}

func TestBinaryOpAcceptsTwoIntLiteralsMatchingSpecScenarioS3(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()

	addFn := c.NewFuncDecl(pos(), "add", nil,
		[]*ast.Param{{Name: "a", Type: namedType(c, "i32")}, {Name: "b", Type: namedType(c, "i32")}},
		namedType(c, "i32"),
		c.NewBlockStmt(pos(), []ast.Stmt{
			c.NewReturnStmt(pos(), c.NewBinaryExpr(pos(), token.Plus, c.NewIdentExpr(pos(), "a"), c.NewIdentExpr(pos(), "b"))),
		}),
	)

	goodCall := c.NewExprStmt(pos(), c.NewCallExpr(pos(), c.NewIdentExpr(pos(), "add"), []ast.Expr{c.NewIntLit(pos(), 1), c.NewIntLit(pos(), 2)}))
	badCall := c.NewExprStmt(pos(), c.NewCallExpr(pos(), c.NewIdentExpr(pos(), "add"), []ast.Expr{c.NewIntLit(pos(), 1), c.NewFloatLit(pos(), 2.0)}))

	caller := c.NewFuncDecl(pos(), "useAdd", nil, nil, nil, c.NewBlockStmt(pos(), []ast.Stmt{goodCall}))
	badCaller := c.NewFuncDecl(pos(), "useAddBad", nil, nil, nil, c.NewBlockStmt(pos(), []ast.Stmt{badCall}))

	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{addFn, caller, badCaller})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok, "the bad call must fail to check")

	msgs := errorMessages(rep)
	found := false
	for _, m := range msgs {
		if strings.Contains(m, "argument 2: cannot mix signed-int and float") {
			found = true
		}
	}
	assert.True(t, found, "expected the signed-int/float argument diagnostic, got: %v", msgs)
}

func TestFunctionCallArityMismatchIsReported(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	fn := c.NewFuncDecl(pos(), "add", nil,
		[]*ast.Param{{Name: "a", Type: namedType(c, "i32")}, {Name: "b", Type: namedType(c, "i32")}},
		namedType(c, "i32"),
		c.NewBlockStmt(pos(), []ast.Stmt{
			c.NewReturnStmt(pos(), c.NewBinaryExpr(pos(), token.Plus, c.NewIdentExpr(pos(), "a"), c.NewIdentExpr(pos(), "b"))),
		}),
	)
	call := c.NewExprStmt(pos(), c.NewCallExpr(pos(), c.NewIdentExpr(pos(), "add"), []ast.Expr{c.NewIntLit(pos(), 1)}))
	caller := c.NewFuncDecl(pos(), "useAdd", nil, nil, nil, c.NewBlockStmt(pos(), []ast.Stmt{call}))
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{fn, caller})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok)
	msgs := errorMessages(rep)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "wrong number of arguments")
}

func TestChannelSendRejectsMismatchedElementType(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	chDecl := c.NewChannelDecl(pos(), "ch", namedType(c, "i32"), "normal", nil)
	send := c.NewExprStmt(pos(), c.NewChanSendExpr(pos(), c.NewIdentExpr(pos(), "ch"), c.NewStringLit(pos(), "nope")))
	fn := c.NewFuncDecl(pos(), "main", nil, nil, nil, c.NewBlockStmt(pos(), []ast.Stmt{send}))
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{chDecl, fn})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok)
	msgs := errorMessages(rep)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "cannot send")
}

func TestChannelReceiveYieldsElementType(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	chDecl := c.NewChannelDecl(pos(), "ch", namedType(c, "i32"), "normal", nil)
	v := c.NewVarDecl(pos(), "x", namedType(c, "i32"), c.NewChanRecvExpr(pos(), c.NewIdentExpr(pos(), "ch"), false))
	fn := c.NewFuncDecl(pos(), "main", nil, nil, nil, c.NewBlockStmt(pos(), []ast.Stmt{c.NewDeclStmt(pos(), v)}))
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{chDecl, fn})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.True(t, ok, "diagnostics: %v", errorMessages(rep))
}

func TestSwitchCaseValueMustBeAssignableToTagType(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	sw := c.NewSwitchStmt(pos(), c.NewIdentExpr(pos(), "x"), []*ast.CaseClause{
		{Pos: pos(), Values: []ast.Expr{c.NewStringLit(pos(), "nope")}, Body: nil},
	})
	fn := c.NewFuncDecl(pos(), "main", nil,
		[]*ast.Param{{Name: "x", Type: namedType(c, "i32")}}, nil,
		c.NewBlockStmt(pos(), []ast.Stmt{sw}),
	)
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{fn})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok)
	msgs := errorMessages(rep)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "not assignable")
}

func TestUndefinedIdentifierReportsOncePerReferenceWithoutCascade(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	// `undefined + undefined` references the same bad name twice; each
	// reference reports its own undefined-name diagnostic, and the sentinel
	// error type they return must short-circuit the binary-op check so no
	// third diagnostic fires.
	expr := c.NewBinaryExpr(pos(), token.Plus, c.NewIdentExpr(pos(), "undefined"), c.NewIdentExpr(pos(), "undefined"))
	v := c.NewVarDecl(pos(), "x", nil, expr)
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{v})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok)
	assert.Len(t, rep.Diagnostics(), 2, "one diagnostic per undefined reference, no further cascade")
}

func TestNestedScopeShadowsOuterDeclaration(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	inner := c.NewBlockStmt(pos(), []ast.Stmt{
		c.NewDeclStmt(pos(), c.NewVarDecl(pos(), "x", nil, c.NewStringLit(pos(), "shadow"))),
	})
	outer := c.NewBlockStmt(pos(), []ast.Stmt{
		c.NewDeclStmt(pos(), c.NewVarDecl(pos(), "x", nil, c.NewIntLit(pos(), 1))),
		inner,
	})
	fn := c.NewFuncDecl(pos(), "main", nil, nil, nil, outer)
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{fn})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.True(t, ok, "diagnostics: %v", errorMessages(rep))
}

func TestAllocatorDeclRejectsUnknownVariant(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	a := c.NewAllocatorDecl(pos(), "myAlloc", "nonsense", nil)
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{a})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok)
	msgs := errorMessages(rep)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "unknown allocator variant")
}

func TestChannelDeclRejectsNonNumericCapacity(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	ch := c.NewChannelDecl(pos(), "ch", namedType(c, "i32"), "normal", c.NewStringLit(pos(), "nope"))
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{ch})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok)
	msgs := errorMessages(rep)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "channel capacity must be numeric")
}

func TestCapabilityDeclRequiresDefinedCapability(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	missing := c.NewCapabilityDecl(pos(), "net", []string{"fs"})
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{missing})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.False(t, ok)
	msgs := errorMessages(rep)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0], "requires undefined capability")

	c2 := ast.NewContext()
	fsCap := c2.NewCapabilityDecl(pos(), "fs", nil)
	netCap := c2.NewCapabilityDecl(pos(), "net", []string{"fs"})
	unit2 := c2.NewUnit(pos(), "test", nil, []ast.Decl{fsCap, netCap})

	checker2, rep2 := newChecker()
	ok2 := checker2.Check(unit2)
	assert.True(t, ok2, "diagnostics: %v", errorMessages(rep2))
}

func TestMethodDeclaresReceiverQualifiedSymbolAvoidingFieldCollision(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	point := c.NewStructDecl(pos(), "Point", nil, []*ast.FieldDecl{
		{Name: "length", Type: namedType(c, "i32")},
	})
	method := c.NewMethodDecl(pos(), "p", namedType(c, "Point"), "length", nil, namedType(c, "i32"),
		c.NewBlockStmt(pos(), []ast.Stmt{
			c.NewReturnStmt(pos(), c.NewSelectorExpr(pos(), c.NewIdentExpr(pos(), "p"), "length")),
		}),
	)
	unit := c.NewUnit(pos(), "test", nil, []ast.Decl{point, method})

	checker, rep := newChecker()
	ok := checker.Check(unit)
	assert.True(t, ok, "diagnostics: %v", errorMessages(rep))

	_, found := checker.Symbols().Root().Lookup("Point.length")
	assert.True(t, found, "method symbol should be receiver-qualified")
}
