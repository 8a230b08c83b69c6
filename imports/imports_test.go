package imports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveFindsFileWithExtensionAppended(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.alma"), []byte("x = [ ]\n"), 0o644))

	path, ok := Resolve(dir, "util")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "util.alma"), path)
}

func TestResolveFindsFileVerbatim(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw.txt"), []byte("x = [ ]\n"), 0o644))

	path, ok := Resolve(dir, "raw.txt")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "raw.txt"), path)
}

func TestResolveSearchesMultipleDirsInOrder(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir2, "lib.alma"), []byte(""), 0o644))

	path, ok := Resolve(dir1+PathSep+dir2, "lib")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir2, "lib.alma"), path)
}

func TestResolveMissing(t *testing.T) {
	_, ok := Resolve(t.TempDir(), "nope")
	require.False(t, ok)
}

func TestModuleBasename(t *testing.T) {
	require.Equal(t, "util", ModuleBasename("/some/dir/util.alma"))
	require.Equal(t, "util", ModuleBasename("util.alma"))
}

func TestPrefixedNameAndSplit(t *testing.T) {
	require.Equal(t, "mod.name", PrefixedName("mod", "name"))
	require.Equal(t, "name", PrefixedName("", "name"))

	prefix, name, ok := SplitPrefixed("mod.name")
	require.True(t, ok)
	require.Equal(t, "mod", prefix)
	require.Equal(t, "name", name)

	_, _, ok = SplitPrefixed("name")
	require.False(t, ok)
}
