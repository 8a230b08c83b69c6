package compile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cassowary2/alma/ast"
	"github.com/cassowary2/alma/diag"
	"github.com/cassowary2/alma/funcreg"
	"github.com/cassowary2/alma/parser"
	"github.com/cassowary2/alma/scope"
	"github.com/stretchr/testify/require"
)

func libWithPlus(reg *funcreg.Registry) *scope.Scope {
	lib := scope.NewLib()
	id := reg.Register(&funcreg.Function{Name: "+", Kind: funcreg.Primitive})
	_ = lib.Register("+", id)
	return lib
}

func TestCompileSimpleBodyResolvesWord(t *testing.T) {
	reg := funcreg.New()
	lib := libWithPlus(reg)
	sc := scope.New(nil, lib)

	seq, perrs := parser.Parse("main = [ 4 5 + ]")
	require.Empty(t, perrs)

	diags := CompileDeclSeq("", seq, sc, reg)
	require.Empty(t, diags)

	fd := seq.Decls[0].(*ast.FuncDecl)
	ref := fd.Body.Nodes[2].(*ast.Ref)
	require.Equal(t, ast.RefWord, ref.Kind)
}

func TestCompileMutualRecursion(t *testing.T) {
	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse("a = [ b ]\nb = [ a ]\n")
	require.Empty(t, perrs)

	diags := CompileDeclSeq("", seq, sc, reg)
	require.Empty(t, diags)

	aDecl := seq.Decls[0].(*ast.FuncDecl)
	ref := aDecl.Body.Nodes[0].(*ast.Ref)
	require.Equal(t, ast.RefWord, ref.Kind)

	bID, resolved, ok := sc.Lookup("b")
	require.True(t, ok)
	require.True(t, resolved)
	require.Equal(t, bID, ref.FuncID)
}

func TestCompileBindResolvesToRefVar(t *testing.T) {
	reg := funcreg.New()
	sc := scope.New(nil, libWithPlus(reg))

	seq, perrs := parser.Parse("double = [ a -> a a + ]")
	require.Empty(t, perrs)

	diags := CompileDeclSeq("", seq, sc, reg)
	require.Empty(t, diags)

	fd := seq.Decls[0].(*ast.FuncDecl)
	bind := fd.Body.Nodes[0].(*ast.Bind)

	first := bind.Body.Nodes[0].(*ast.Ref)
	require.Equal(t, ast.RefVar, first.Kind)
	require.Equal(t, 0, first.Depth)
	require.Equal(t, 0, first.Offset)

	plus := bind.Body.Nodes[2].(*ast.Ref)
	require.Equal(t, ast.RefWord, plus.Kind)
}

func TestCompileLetResolvesContButNotDef(t *testing.T) {
	reg := funcreg.New()
	sc := scope.New(nil, libWithPlus(reg))

	seq, perrs := parser.Parse("main = [ let x = 5 in x x + end ]")
	require.Empty(t, perrs)

	diags := CompileDeclSeq("", seq, sc, reg)
	require.Empty(t, diags)

	fd := seq.Decls[0].(*ast.FuncDecl)
	let := fd.Body.Nodes[0].(*ast.Let)

	xRef := let.Cont.Nodes[0].(*ast.Ref)
	require.Equal(t, ast.RefVar, xRef.Kind)
}

func TestCompileUndefinedWordYieldsDiagnostic(t *testing.T) {
	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse("main = [ nope ]")
	require.Empty(t, perrs)

	diags := CompileDeclSeq("", seq, sc, reg)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "nope")
}

func TestCompileDuplicateDefinitionYieldsDiagnosticAndKeepsFirst(t *testing.T) {
	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse("f = [ 1 ]\nf = [ 2 ]\n")
	require.Empty(t, perrs)

	diags := CompileDeclSeq("", seq, sc, reg)
	require.True(t, len(diags) >= 1)

	id, resolved, ok := sc.Lookup("f")
	require.True(t, ok)
	require.True(t, resolved)
	fn, ok := reg.Get(id)
	require.True(t, ok)
	require.NotNil(t, fn.Body)
	require.Equal(t, ast.IntLit, fn.Body.Nodes[0].(*ast.ValueLit).Kind)
	require.EqualValues(t, 1, fn.Body.Nodes[0].(*ast.ValueLit).IntVal)
}

func TestCompileImportWildcardPrefixesNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.alma"), []byte("foo = [ 1 ]\n"), 0o644))

	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse(`import util`)
	require.Empty(t, perrs)

	diags := CompileDeclSeq(dir, seq, sc, reg)
	require.Empty(t, diags)

	_, resolved, ok := sc.Lookup("util.foo")
	require.True(t, ok)
	require.True(t, resolved)

	_, _, ok = sc.Lookup("foo")
	require.False(t, ok, "unqualified name must not resolve in the importer")
}

func TestCompileImportAsAliasPrefixesNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.alma"), []byte("foo = [ 1 ]\n"), 0o644))

	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse(`import m as q`)
	require.Empty(t, perrs)

	diags := CompileDeclSeq(dir, seq, sc, reg)
	require.Empty(t, diags)

	_, resolved, ok := sc.Lookup("q.foo")
	require.True(t, ok)
	require.True(t, resolved)
}

func TestCompileImportExplicitNamesUnprefixed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.alma"), []byte("foo = [ 1 ]\nbar = [ 2 ]\n"), 0o644))

	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse(`import util (foo)`)
	require.Empty(t, perrs)

	diags := CompileDeclSeq(dir, seq, sc, reg)
	require.Empty(t, diags)

	_, resolved, ok := sc.Lookup("foo")
	require.True(t, ok)
	require.True(t, resolved)

	_, _, ok = sc.Lookup("bar")
	require.False(t, ok)
}

func TestCompileImportExplicitMissingNameIsWarningNotFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.alma"), []byte("foo = [ 1 ]\n"), 0o644))

	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse(`import util (foo, nosuch)`)
	require.Empty(t, perrs)

	diags := CompileDeclSeq(dir, seq, sc, reg)
	require.False(t, diag.HasErrors(diags))

	_, resolved, ok := sc.Lookup("foo")
	require.True(t, ok)
	require.True(t, resolved)
}

func TestCompileInteractiveImportEchoesBoundNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.alma"), []byte("foo = [ 1 ]\n"), 0o644))

	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse(`import util`)
	require.Empty(t, perrs)
	seq.Decls[0].(*ast.ImportDecl).Interactive = true

	diags := CompileDeclSeq(dir, seq, sc, reg)
	require.False(t, diag.HasErrors(diags))
	require.Len(t, diags, 1)
	require.Equal(t, diag.Info, diags[0].Severity)
	require.Contains(t, diags[0].Message, "util.foo")
}

func TestCompileFileImportDoesNotEcho(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.alma"), []byte("foo = [ 1 ]\n"), 0o644))

	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse(`import util`)
	require.Empty(t, perrs)

	diags := CompileDeclSeq(dir, seq, sc, reg)
	require.Empty(t, diags)
}

func TestCompileQuotationCapturesEnclosingFrameOnlyWhenReferenced(t *testing.T) {
	reg := funcreg.New()
	sc := scope.New(nil, libWithPlus(reg))

	seq, perrs := parser.Parse("makeAdder = [ n -> [ n 10 + ] ]\nconst = [ [ 1 2 + ] ]")
	require.Empty(t, perrs)

	diags := CompileDeclSeq("", seq, sc, reg)
	require.Empty(t, diags)

	makeAdder := seq.Decls[0].(*ast.FuncDecl)
	bind := makeAdder.Body.Nodes[0].(*ast.Bind)
	inner := bind.Body.Nodes[0].(*ast.QuotationLit)
	require.True(t, inner.CapturesFrame, "quotation referencing an enclosing bind name must capture its frame")

	constFn := seq.Decls[1].(*ast.FuncDecl)
	standalone := constFn.Body.Nodes[0].(*ast.QuotationLit)
	require.False(t, standalone.CapturesFrame, "quotation with no enclosing var-ref must not capture a frame")
}

func TestCompileImportMissingFileIsDiagnostic(t *testing.T) {
	reg := funcreg.New()
	sc := scope.New(nil, scope.NewLib())

	seq, perrs := parser.Parse(`import nosuchmodule`)
	require.Empty(t, perrs)

	diags := CompileDeclSeq(t.TempDir(), seq, sc, reg)
	require.Len(t, diags, 1)
}
