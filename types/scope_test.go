package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darragh-downey/goo/token"
	"github.com/darragh-downey/goo/types"
)

func TestDeclareAndLookupLocal(t *testing.T) {
	t.Parallel()

	st := types.NewSymbolTable()
	table := types.NewTable()
	i32 := table.Primitive(types.Int32)

	sym, err := st.Root().Declare("x", types.VariableSymbol, i32, token.Position{Line: 1, Column: 1})
	require.NoError(t, err)
	assert.Equal(t, "x", sym.Name)

	got, ok := st.Root().LookupLocal("x")
	require.True(t, ok)
	assert.Same(t, sym, got)
}

func TestRedeclarationInSameScopeFails(t *testing.T) {
	t.Parallel()

	st := types.NewSymbolTable()
	table := types.NewTable()
	i32 := table.Primitive(types.Int32)

	_, err := st.Root().Declare("x", types.VariableSymbol, i32, token.Position{})
	require.NoError(t, err)

	_, err = st.Root().Declare("x", types.VariableSymbol, i32, token.Position{})
	assert.Error(t, err)
}

func TestLookupWalksParentScopes(t *testing.T) {
	t.Parallel()

	st := types.NewSymbolTable()
	table := types.NewTable()
	i32 := table.Primitive(types.Int32)

	_, err := st.Root().Declare("outer", types.VariableSymbol, i32, token.Position{})
	require.NoError(t, err)

	child := st.PushScope(st.Root())
	_, ok := child.LookupLocal("outer")
	assert.False(t, ok, "LookupLocal must not consult parents")

	sym, ok := child.Lookup("outer")
	require.True(t, ok)
	assert.Equal(t, "outer", sym.Name)
}

func TestShadowingInnerScopeWins(t *testing.T) {
	t.Parallel()

	st := types.NewSymbolTable()
	table := types.NewTable()
	i32 := table.Primitive(types.Int32)
	boolT := table.Primitive(types.Bool)

	_, err := st.Root().Declare("x", types.VariableSymbol, i32, token.Position{})
	require.NoError(t, err)

	child := st.PushScope(st.Root())
	_, err = child.Declare("x", types.VariableSymbol, boolT, token.Position{})
	require.NoError(t, err)

	sym, ok := child.Lookup("x")
	require.True(t, ok)
	assert.True(t, sym.Type == boolT)
}

func TestSymbolsAreInDeclarationOrder(t *testing.T) {
	t.Parallel()

	st := types.NewSymbolTable()
	table := types.NewTable()
	i32 := table.Primitive(types.Int32)

	names := []string{"c", "a", "b", "z", "m"}
	for _, n := range names {
		_, err := st.Root().Declare(n, types.VariableSymbol, i32, token.Position{})
		require.NoError(t, err)
	}

	syms := st.Root().Symbols()
	require.Len(t, syms, len(names))
	for i, n := range names {
		assert.Equal(t, n, syms[i].Name)
	}
}

func TestScopeIDsAreUniquePerTable(t *testing.T) {
	t.Parallel()

	st := types.NewSymbolTable()
	a := st.PushScope(st.Root())
	b := st.PushScope(st.Root())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), st.Root().ID())
}
