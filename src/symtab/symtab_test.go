package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vslc/src/types"
)

func TestScopeDeclareLookup(t *testing.T) {
	root := NewRoot()
	h := &VarHandle{Type: types.TypeInt}
	require.NoError(t, root.Declare("a", h))

	got, err := root.Lookup("a")
	require.NoError(t, err)
	assert.Same(t, h, got)
}

func TestScopeDuplicateDeclaration(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.Declare("a", &VarHandle{Type: types.TypeInt}))

	err := root.Declare("a", &VarHandle{Type: types.TypeFloat})
	assert.ErrorIs(t, err, ErrDuplicateVariable)
}

func TestScopeUndefinedVariable(t *testing.T) {
	root := NewRoot()
	_, err := root.Lookup("missing")
	assert.ErrorIs(t, err, ErrUndefinedVariable)
}

func TestScopeChildSeesParentButNotReverse(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.Declare("a", &VarHandle{Type: types.TypeInt}))

	child := root.NewChild()
	require.NoError(t, child.Declare("b", &VarHandle{Type: types.TypeFloat}))

	_, err := child.Lookup("a")
	assert.NoError(t, err)

	_, err = root.Lookup("b")
	assert.ErrorIs(t, err, ErrUndefinedVariable)
}

func TestScopeChildShadowsParent(t *testing.T) {
	root := NewRoot()
	outer := &VarHandle{Type: types.TypeInt}
	require.NoError(t, root.Declare("a", outer))

	child := root.NewChild()
	inner := &VarHandle{Type: types.TypeFloat}
	require.NoError(t, child.Declare("a", inner))

	got, err := child.Lookup("a")
	require.NoError(t, err)
	assert.Same(t, inner, got)

	got, err = root.Lookup("a")
	require.NoError(t, err)
	assert.Same(t, outer, got)
}

func TestFuncTableRegisterLookup(t *testing.T) {
	ft := NewFuncTable()
	h := &FuncHandle{ReturnType: types.TypeInt, HasReturn: true}
	require.NoError(t, ft.Register("main", h))

	got, err := ft.Lookup("main")
	require.NoError(t, err)
	assert.Same(t, h, got)
}

func TestFuncTableDuplicateAndUndefined(t *testing.T) {
	ft := NewFuncTable()
	require.NoError(t, ft.Register("f", &FuncHandle{}))

	err := ft.Register("f", &FuncHandle{})
	assert.ErrorIs(t, err, ErrDuplicateFunction)

	_, err = ft.Lookup("g")
	assert.ErrorIs(t, err, ErrUndefinedFunction)
}
