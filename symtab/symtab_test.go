package symtab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternIsStablePerName(t *testing.T) {
	tab := New()

	a := tab.Intern("foo")
	b := tab.Intern("foo")
	require.True(t, a == b, "interning the same name twice must yield the same Symbol")

	c := tab.Intern("bar")
	require.False(t, a == c)
}

func TestLookupMissing(t *testing.T) {
	tab := New()
	tab.Intern("known")

	_, ok := tab.Lookup("unknown")
	require.False(t, ok)

	sym, ok := tab.Lookup("known")
	require.True(t, ok)
	require.Equal(t, "known", sym.Name)
}

func TestPrefixed(t *testing.T) {
	tab := New()
	foo := tab.Intern("foo")
	prefixed := tab.Prefixed("q", ".", foo.Name)
	require.Equal(t, "q.foo", prefixed.Name)
}
