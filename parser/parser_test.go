package parser

import (
	"testing"

	"github.com/cassowary2/alma/ast"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleFuncDecl(t *testing.T) {
	seq, errs := Parse("main = [ 4 5 + ]\n")
	require.Empty(t, errs)
	require.Len(t, seq.Decls, 1)

	fd, ok := seq.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "main", fd.Name)
	require.Len(t, fd.Body.Nodes, 3)
}

func TestParseBindQuotation(t *testing.T) {
	seq, errs := Parse("double = [ a -> a a + ]\n")
	require.Empty(t, errs)

	fd := seq.Decls[0].(*ast.FuncDecl)
	require.Len(t, fd.Body.Nodes, 1)

	bind := fd.Body.Nodes[0].(*ast.Bind)
	require.Equal(t, []string{"a"}, bind.Names)
	require.Len(t, bind.Body.Nodes, 3)
}

func TestParseLet(t *testing.T) {
	seq, errs := Parse("main = [ let x = 5 in x x + end ]\n")
	require.Empty(t, errs)

	fd := seq.Decls[0].(*ast.FuncDecl)
	let := fd.Body.Nodes[0].(*ast.Let)
	require.Equal(t, []string{"x"}, let.Names)
	require.Len(t, let.Def.Nodes, 1)
	require.Len(t, let.Cont.Nodes, 3)
}

func TestParseNestedQuotationLiteral(t *testing.T) {
	seq, errs := Parse("main = [ [ 1 2 + ] apply ]\n")
	require.Empty(t, errs)

	fd := seq.Decls[0].(*ast.FuncDecl)
	require.Len(t, fd.Body.Nodes, 2)

	q, ok := fd.Body.Nodes[0].(*ast.QuotationLit)
	require.True(t, ok)
	require.Len(t, q.Body.Nodes, 3)

	ref, ok := fd.Body.Nodes[1].(*ast.Ref)
	require.True(t, ok)
	require.Equal(t, "apply", ref.Name)
}

func TestParseImportWildcard(t *testing.T) {
	seq, errs := Parse(`import util`)
	require.Empty(t, errs)

	imp := seq.Decls[0].(*ast.ImportDecl)
	require.Equal(t, "util", imp.Module)
	require.Nil(t, imp.Names)
	require.False(t, imp.JustString)
}

func TestParseImportAsWithNames(t *testing.T) {
	seq, errs := Parse(`import util as u (foo, bar)`)
	require.Empty(t, errs)

	imp := seq.Decls[0].(*ast.ImportDecl)
	require.Equal(t, "util", imp.Module)
	require.Equal(t, "u", imp.As)
	require.Equal(t, []string{"foo", "bar"}, imp.Names)
}

func TestParseImportJustString(t *testing.T) {
	seq, errs := Parse(`import "./lib/util.alma"`)
	require.Empty(t, errs)

	imp := seq.Decls[0].(*ast.ImportDecl)
	require.True(t, imp.JustString)
	require.Equal(t, "./lib/util.alma", imp.Module)
}

func TestParseLiterals(t *testing.T) {
	seq, errs := Parse(`lits = [ 3.5 :sym 'x' "hi" ]`)
	require.Empty(t, errs)

	fd := seq.Decls[0].(*ast.FuncDecl)
	require.Len(t, fd.Body.Nodes, 4)

	require.Equal(t, ast.FloatLit, fd.Body.Nodes[0].(*ast.ValueLit).Kind)
	require.Equal(t, ast.SymLit, fd.Body.Nodes[1].(*ast.ValueLit).Kind)
	require.Equal(t, ast.CharLit, fd.Body.Nodes[2].(*ast.ValueLit).Kind)
	require.Equal(t, ast.StringLit, fd.Body.Nodes[3].(*ast.ValueLit).Kind)
}

func TestParseMultipleDecls(t *testing.T) {
	seq, errs := Parse("a = [ 1 ]\nb = [ 2 ]\n")
	require.Empty(t, errs)
	require.Len(t, seq.Decls, 2)
	require.Equal(t, "a", seq.Decls[0].(*ast.FuncDecl).Name)
	require.Equal(t, "b", seq.Decls[1].(*ast.FuncDecl).Name)
}

func TestParseSyntaxErrorRecovers(t *testing.T) {
	_, errs := Parse("= [ 1 ]\nb = [ 2 ]\n")
	require.NotEmpty(t, errs)
}

func TestParseMissingBracketsIsSyntaxError(t *testing.T) {
	_, errs := Parse("main = 4 5 +\n")
	require.NotEmpty(t, errs)
}
