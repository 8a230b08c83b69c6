package scope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterThenLookup(t *testing.T) {
	lib := NewLib()
	s := New(nil, lib)
	require.NoError(t, s.Register("double", 3))

	id, resolved, ok := s.Lookup("double")
	require.True(t, ok)
	require.True(t, resolved)
	require.Equal(t, 3, id)
}

func TestPlaceholdThenUserRegister(t *testing.T) {
	s := New(nil, NewLib())
	require.NoError(t, s.Placehold("rec"))

	_, resolved, ok := s.Lookup("rec")
	require.True(t, ok)
	require.False(t, resolved)

	require.Error(t, s.Placehold("rec"))

	require.NoError(t, s.UserRegister("rec", 7))
	id, resolved, ok := s.Lookup("rec")
	require.True(t, ok)
	require.True(t, resolved)
	require.Equal(t, 7, id)
}

func TestUserRegisterWithoutPlaceholderFails(t *testing.T) {
	s := New(nil, NewLib())
	require.Error(t, s.UserRegister("nope", 1))
}

func TestRegisterDuplicateFails(t *testing.T) {
	s := New(nil, NewLib())
	require.NoError(t, s.Register("f", 1))
	require.Error(t, s.Register("f", 2))

	id, _, _ := s.Lookup("f")
	require.Equal(t, 1, id, "the first definition must remain installed")
}

func TestLookupFallsBackToParentThenLib(t *testing.T) {
	lib := NewLib()
	require.NoError(t, lib.Register("+", 0))

	root := New(nil, lib)
	require.NoError(t, root.Register("double", 1))

	child := New(root, lib)

	_, _, ok := child.Lookup("double")
	require.True(t, ok)

	id, _, ok := child.Lookup("+")
	require.True(t, ok)
	require.Equal(t, 0, id)

	_, _, ok = child.Lookup("nonexistent")
	require.False(t, ok)
}

func TestImportMarksProvenance(t *testing.T) {
	s := New(nil, NewLib())
	require.NoError(t, s.Import("foo", 5))
	require.True(t, s.IsImported("foo"))

	require.NoError(t, s.Register("bar", 6))
	require.False(t, s.IsImported("bar"))
}

func TestImportDuplicateFails(t *testing.T) {
	s := New(nil, NewLib())
	require.NoError(t, s.Import("foo", 5))
	require.Error(t, s.Import("foo", 6))
}

func TestNamesSorted(t *testing.T) {
	s := New(nil, NewLib())
	require.NoError(t, s.Register("zeta", 1))
	require.NoError(t, s.Register("alpha", 2))
	require.Equal(t, []string{"alpha", "zeta"}, s.Names())
}
