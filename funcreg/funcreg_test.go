package funcreg

import (
	"testing"

	"github.com/cassowary2/alma/ast"
	"github.com/cassowary2/alma/stack"
	"github.com/cassowary2/alma/varbuf"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsIncreasingIDs(t *testing.T) {
	r := New()
	id1 := r.Register(&Function{Name: "a", Kind: UserDefined, Body: &ast.WordSeq{}})
	id2 := r.Register(&Function{Name: "b", Kind: UserDefined, Body: &ast.WordSeq{}})
	require.Equal(t, 0, id1)
	require.Equal(t, 1, id2)
	require.Equal(t, 2, r.Len())
}

func TestGetOutOfRange(t *testing.T) {
	r := New()
	_, ok := r.Get(0)
	require.False(t, ok)
}

func TestGetReturnsRegisteredFunction(t *testing.T) {
	r := New()
	called := false
	id := r.Register(&Function{
		Name: "noop",
		Kind: Primitive,
		Prim: func(_ *stack.Stack, _ *varbuf.Frame) error {
			called = true
			return nil
		},
	})

	f, ok := r.Get(id)
	require.True(t, ok)
	require.Equal(t, "noop", f.Name)

	require.NoError(t, f.Prim(stack.New(), nil))
	require.True(t, called)
}
