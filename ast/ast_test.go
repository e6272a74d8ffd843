package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/token"
	"github.com/darragh-downey/goo/types"
)

func TestConstructorsTrackNodesInContext(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	assert.Equal(t, 0, c.Len())

	i := c.NewIntLit(token.Position{Line: 1, Column: 1}, 42)
	assert.Equal(t, ast.KindIntLit, i.Kind())
	assert.Equal(t, uint64(42), i.Value)
	assert.Equal(t, 1, c.Len())

	c.NewIdentExpr(token.Position{}, "x")
	c.NewBoolLit(token.Position{}, true)
	assert.Equal(t, 3, c.Len())
}

func TestResetDropsTrackedNodes(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	for i := 0; i < 10; i++ {
		c.NewIntLit(token.Position{}, uint64(i))
	}
	require.Equal(t, 10, c.Len())

	c.Reset()
	assert.Equal(t, 0, c.Len())

	c.NewIntLit(token.Position{}, 1)
	assert.Equal(t, 1, c.Len())
}

func TestResolvedTypeSetOnceThenPanics(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	table := types.NewTable()
	i32 := table.Primitive(types.Int32)

	lit := c.NewIntLit(token.Position{}, 1)
	assert.Nil(t, lit.ResolvedType())

	lit.SetResolvedType(i32)
	assert.True(t, lit.ResolvedType() == i32)

	assert.Panics(t, func() {
		lit.SetResolvedType(i32)
	})
}

func TestBinaryExprTreeShape(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	left := c.NewIntLit(token.Position{}, 1)
	right := c.NewIntLit(token.Position{}, 2)
	add := c.NewBinaryExpr(token.Position{}, token.Plus, left, right)

	assert.Equal(t, ast.KindBinaryExpr, add.Kind())
	assert.Same(t, left, add.Left)
	assert.Same(t, right, add.Right)
}

func TestFuncDeclShape(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	i32 := c.NewNamedTypeExpr(token.Position{}, "i32")
	params := []*ast.Param{
		{Name: "a", Type: i32},
		{Name: "b", Type: i32},
	}
	body := c.NewBlockStmt(token.Position{}, []ast.Stmt{
		c.NewReturnStmt(token.Position{}, c.NewBinaryExpr(token.Position{}, token.Plus,
			c.NewIdentExpr(token.Position{}, "a"),
			c.NewIdentExpr(token.Position{}, "b"),
		)),
	})

	fn := c.NewFuncDecl(token.Position{Line: 1}, "add", nil, params, i32, body)
	assert.Equal(t, ast.KindFuncDecl, fn.Kind())
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
	assert.Same(t, body, fn.Body)
}

func TestUnitHoldsTopLevelDecls(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	fn := c.NewFuncDecl(token.Position{}, "main", nil, nil, nil,
		c.NewBlockStmt(token.Position{}, nil))

	u := c.NewUnit(token.Position{}, "main", []string{"std/io"}, []ast.Decl{fn})
	assert.Equal(t, ast.KindUnit, u.Kind())
	require.Len(t, u.Decls, 1)
	assert.Same(t, fn, u.Decls[0])
}

func TestScopeStmtAndAllocExprWiring(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	i32 := c.NewNamedTypeExpr(token.Position{}, "i32")
	allocExpr := c.NewAllocExpr(token.Position{}, i32, nil, "")
	v := c.NewVarDecl(token.Position{}, "p", nil, allocExpr)
	_ = v

	scope := c.NewScopeStmt(token.Position{}, "arena1", c.NewBlockStmt(token.Position{}, nil))
	assert.Equal(t, "arena1", scope.Allocator)
	assert.Equal(t, "", allocExpr.Allocator, "omitted allocator clause binds to the innermost scope at check time")
}

func TestSelectStmtCommClauses(t *testing.T) {
	t.Parallel()

	c := ast.NewContext()
	ch := c.NewIdentExpr(token.Position{}, "ch")
	recv := c.NewChanRecvExpr(token.Position{}, ch, false)
	sel := c.NewSelectStmt(token.Position{}, []*ast.CommClause{
		{Comm: c.NewExprStmt(token.Position{}, recv), Body: nil},
		{IsDefault: true, Body: nil},
	})

	require.Len(t, sel.Cases, 2)
	assert.False(t, sel.Cases[0].IsDefault)
	assert.True(t, sel.Cases[1].IsDefault)
}

func TestKindStringIsExhaustiveEnoughForCoreKinds(t *testing.T) {
	t.Parallel()

	for _, k := range []ast.Kind{
		ast.KindUnit, ast.KindFuncDecl, ast.KindIfStmt, ast.KindBinaryExpr,
		ast.KindAllocExpr, ast.KindChannelDecl, ast.KindGenericTypeExpr,
	} {
		assert.NotContains(t, k.String(), "Kind(")
	}
}
