// Package compile implements the binding compiler (spec §4.7) and the
// top-level orchestration around it: compiling a parsed declaration
// sequence into a scope full of registered functions, and handling
// `import` declarations by resolving, reading, parsing, and recursively
// compiling the target file (spec §4.5).
//
// The binding compiler's job is narrow: walk a word sequence exactly
// once, and for every ast.Ref node decide whether the name matches an
// enclosing bind/let frame (rewrite to RefVar) or must be looked up in
// scope (rewrite to RefWord). Nothing else about the tree changes.
package compile

import (
	"os"

	"github.com/cassowary2/alma/ast"
	"github.com/cassowary2/alma/diag"
	"github.com/cassowary2/alma/funcreg"
	"github.com/cassowary2/alma/imports"
	"github.com/cassowary2/alma/parser"
	"github.com/cassowary2/alma/scope"
)

// compiler carries the state shared across one CompileDeclSeq call and
// any imports it triggers: the function registry everything registers
// into, and the ALMA_PATH search string import resolution uses.
type compiler struct {
	almaPath   string
	reg        *funcreg.Registry
	diags      []diag.Diagnostic
	quoteStack []quoteEntry
}

// quoteEntry tracks one enclosing QuotationLit still being compiled, so
// resolveRef can mark it as needing a captured frame the moment a nested
// Ref resolves to a var outside the quotation's own bind/let frames.
// baseline is len(frames) at the point the quotation was entered: a
// RefVar match at a frames index below baseline reaches past whatever
// this quotation's own body introduces, so the ambient frame active when
// the quotation literal is evaluated must be retained (spec §4.6,
// "Quotation literal").
type quoteEntry struct {
	node     *ast.QuotationLit
	baseline int
}

// CompileDeclSeq compiles every declaration in seq against sc, registering
// user-defined words into reg and handling any import statements found
// along the way. almaPath is the colon-separated search path import
// resolution consults (spec §6, ALMA_PATH).
//
// Top-level word definitions are compiled in two passes so that mutually
// recursive definitions resolve: every FuncDecl is first placeheld, then
// immediately given a real (but as-yet bodyless) function id via
// UserRegister, before any body is compiled; a name whose Placehold
// fails (a duplicate definition, spec §4.4/§7) is reported and its
// second definition is not installed (spec §8 scenario 7).
func CompileDeclSeq(almaPath string, seq *ast.DeclSeq, sc *scope.Scope, reg *funcreg.Registry) []diag.Diagnostic {
	c := &compiler{almaPath: almaPath, reg: reg}

	ids := make(map[*ast.FuncDecl]int, len(seq.Decls))
	for _, d := range seq.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if err := sc.Placehold(fd.Name); err != nil {
			c.diags = append(c.diags, diag.New(fd.Line(), "duplicate definition of %q", fd.Name))
			continue
		}
		id := reg.Register(&funcreg.Function{Name: fd.Name, Kind: funcreg.UserDefined})
		_ = sc.UserRegister(fd.Name, id) // cannot fail: we just placeheld fd.Name ourselves
		ids[fd] = id
	}

	for _, d := range seq.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			id, ok := ids[decl]
			if !ok {
				continue // duplicate definition, already reported; skip compiling its body
			}
			c.compileWordSeq(decl.Body, sc, nil)
			f, _ := reg.Get(id)
			f.Body = decl.Body
		case *ast.ImportDecl:
			c.diags = append(c.diags, c.handleImport(decl, sc)...)
		}
	}
	return c.diags
}

// CompileWordSeq resolves every Ref in a standalone word sequence (no
// enclosing declaration) against sc, the form a REPL line takes. It never
// registers anything new; unresolved barewords are reported as
// diagnostics exactly like a function body's would be.
func CompileWordSeq(seq *ast.WordSeq, sc *scope.Scope, reg *funcreg.Registry) []diag.Diagnostic {
	c := &compiler{reg: reg}
	c.compileWordSeq(seq, sc, nil)
	return c.diags
}

// compileWordSeq resolves every Ref in seq against sc and frames, the
// compile-time stack of enclosing bind/let name lists (innermost last).
func (c *compiler) compileWordSeq(seq *ast.WordSeq, sc *scope.Scope, frames [][]string) {
	for _, n := range seq.Nodes {
		c.compileNode(n, sc, frames)
	}
}

func (c *compiler) compileNode(n ast.Node, sc *scope.Scope, frames [][]string) {
	switch node := n.(type) {
	case *ast.Ref:
		c.resolveRef(node, sc, frames)
	case *ast.QuotationLit:
		c.quoteStack = append(c.quoteStack, quoteEntry{node: node, baseline: len(frames)})
		c.compileWordSeq(node.Body, sc, frames)
		c.quoteStack = c.quoteStack[:len(c.quoteStack)-1]
	case *ast.Bind:
		c.compileWordSeq(node.Body, sc, append(frames, node.Names))
	case *ast.Let:
		c.compileWordSeq(node.Def, sc, frames)
		c.compileWordSeq(node.Cont, sc, append(frames, node.Names))
	case *ast.ValueLit:
		// No name to resolve.
	}
}

// resolveRef rewrites node in place, per spec §4.7: a bind/let frame
// match wins over a scope lookup (lexical shadowing), innermost frame
// first.
func (c *compiler) resolveRef(node *ast.Ref, sc *scope.Scope, frames [][]string) {
	if node.Kind != ast.RefUnresolved {
		return
	}

	for depth, i := 0, len(frames)-1; i >= 0; i, depth = i-1, depth+1 {
		for offset, name := range frames[i] {
			if name == node.Name {
				node.Kind = ast.RefVar
				node.Depth = depth
				node.Offset = offset
				c.markEnclosingQuotesCapturing(i)
				return
			}
		}
	}

	id, _, ok := sc.Lookup(node.Name)
	if !ok {
		c.diags = append(c.diags, diag.New(node.Line(), "undefined word %q", node.Name))
		return
	}
	// A forward reference to a word the two-pass loop above already gave
	// a real id (its Body field fills in once that decl's turn comes,
	// later in this same pass) resolves here exactly like any other word.
	node.Kind = ast.RefWord
	node.FuncID = id
}

// markEnclosingQuotesCapturing flags every quotation literal currently
// being compiled whose baseline lies above matchedIndex (the frames-slice
// position a RefVar just resolved against) as needing its captured frame
// at evaluation time: the match reaches past that quotation's own
// bind/let frames into one that existed before it started.
func (c *compiler) markEnclosingQuotesCapturing(matchedIndex int) {
	for _, q := range c.quoteStack {
		if q.baseline > matchedIndex {
			q.node.CapturesFrame = true
		}
	}
}

// handleImport resolves, reads, parses, and recursively compiles decl's
// target module, then re-exports its names into target per spec §4.5.
func (c *compiler) handleImport(decl *ast.ImportDecl, target *scope.Scope) []diag.Diagnostic {
	path, ok := c.resolveImportPath(decl)
	if !ok {
		return []diag.Diagnostic{diag.New(decl.Line(), "cannot resolve import %q", decl.Module)}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return []diag.Diagnostic{diag.New(decl.Line(), "cannot read %q: %v", path, err)}
	}

	fileSeq, perrs := parser.Parse(string(src))
	if len(perrs) > 0 {
		ds := make([]diag.Diagnostic, len(perrs))
		for i, e := range perrs {
			ds[i] = diag.New(decl.Line(), "in %s: %s", path, e)
		}
		return ds
	}

	// Imports compile into a fresh scope parented at the importer's lib
	// scope, not the importer's own scope — an import never sees the
	// importer's locals (spec §4.5 step 4).
	importScope := scope.New(nil, target.Lib())
	if ds := CompileDeclSeq(c.almaPath, fileSeq, importScope, c.reg); diag.HasErrors(ds) {
		return ds
	}

	return c.reExport(decl, path, importScope, target)
}

func (c *compiler) resolveImportPath(decl *ast.ImportDecl) (string, bool) {
	if decl.JustString {
		if imports.Exists(decl.Module) {
			return decl.Module, true
		}
		return "", false
	}
	return imports.Resolve(c.almaPath, decl.Module)
}

// reExport binds importScope's names into target, per spec §4.5 step 5:
//
//   - Explicit name list: each listed name is looked up in importScope;
//     a missing name is a non-fatal diagnostic (skipped, not a compile
//     failure). Each found name lands as "<alias>.<name>" if `as` was
//     given, else under its own plain name.
//   - Wildcard (no explicit list): every non-imported entry of
//     importScope lands as "<alias>.<name>" if `as` was given, else
//     under "<module-basename>.<name>" — unless this was a just-string
//     import with no alias, where basename-prefixing is suppressed
//     entirely (spec §6) and names land unprefixed.
func (c *compiler) reExport(decl *ast.ImportDecl, path string, importScope, target *scope.Scope) []diag.Diagnostic {
	if decl.Names != nil {
		var diags []diag.Diagnostic
		var bound []string
		for _, name := range decl.Names {
			id, resolved, ok := importScope.Lookup(name)
			if !ok || !resolved {
				diags = append(diags, diag.Warningf(decl.Line(), "module %q has no name %q, skipped", decl.Module, name))
				continue
			}
			qualified := name
			if decl.As != "" {
				qualified = imports.PrefixedName(decl.As, name)
			}
			if err := target.Import(qualified, id); err != nil {
				diags = append(diags, diag.New(decl.Line(), "%v", err))
				continue
			}
			bound = append(bound, qualified)
		}
		return append(diags, echoImported(decl, bound)...)
	}

	prefix := decl.As
	if prefix == "" && !decl.JustString {
		prefix = imports.ModuleBasename(path)
	}

	var diags []diag.Diagnostic
	var bound []string
	for _, name := range importScope.Names() {
		if importScope.IsImported(name) {
			continue // selective re-export non-propagation (spec §8)
		}
		id, resolved, _ := importScope.Lookup(name)
		if !resolved {
			continue
		}
		qualified := imports.PrefixedName(prefix, name)
		if err := target.Import(qualified, id); err != nil {
			diags = append(diags, diag.New(decl.Line(), "%v", err))
			continue
		}
		bound = append(bound, qualified)
	}
	return append(diags, echoImported(decl, bound)...)
}

// echoImported reports every name decl bound, as an Info-severity
// diagnostic, when decl was written at a REPL prompt (spec §4.5 step 6:
// a file-sourced import stays silent; an interactive one echoes what it
// brought into scope).
func echoImported(decl *ast.ImportDecl, bound []string) []diag.Diagnostic {
	if !decl.Interactive || len(bound) == 0 {
		return nil
	}
	diags := make([]diag.Diagnostic, len(bound))
	for i, name := range bound {
		diags[i] = diag.Infof(decl.Line(), "imported %s", name)
	}
	return diags
}
