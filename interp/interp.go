// Package interp ties the compile/eval core together into one
// long-lived interpreter instance: the ledger, function registry, symbol
// table, library scope, and operand stack a CLI run or a REPL session
// shares across every source file and input line it processes (spec §5
// "one interpreter instance owns one ledger, one registry, one stack").
package interp

import (
	"fmt"
	"os"

	"github.com/cassowary2/alma/ast"
	"github.com/cassowary2/alma/builtins"
	"github.com/cassowary2/alma/compile"
	"github.com/cassowary2/alma/diag"
	"github.com/cassowary2/alma/eval"
	"github.com/cassowary2/alma/funcreg"
	"github.com/cassowary2/alma/parser"
	"github.com/cassowary2/alma/refcount"
	"github.com/cassowary2/alma/scope"
	"github.com/cassowary2/alma/stack"
	"github.com/cassowary2/alma/symtab"
)

// AlmaPathEnv is the environment variable import resolution consults
// (spec §6).
const AlmaPathEnv = "ALMA_PATH"

// Interp bundles one interpreter instance's shared state: the registry
// and scope live for the process's whole run, so top-level definitions
// compiled from one file can call words defined by another loaded
// earlier, and a REPL session accumulates definitions across lines.
type Interp struct {
	ctx      *eval.Context
	lib      *scope.Scope
	root     *scope.Scope
	almaPath string
}

// New constructs an Interp with the primitive word library registered
// and ready, reading ALMA_PATH from the environment for import
// resolution.
func New() *Interp {
	return newWithPath(os.Getenv(AlmaPathEnv))
}

func newWithPath(almaPath string) *Interp {
	ctx := &eval.Context{
		Ledger: &refcount.Ledger{},
		Reg:    funcreg.New(),
		Names:  symtab.New(),
		Stack:  stack.New(),
	}
	lib := scope.NewLib()
	builtins.Register(ctx, ctx.Reg, lib)
	return &Interp{
		ctx:      ctx,
		lib:      lib,
		root:     scope.New(nil, lib),
		almaPath: almaPath,
	}
}

// Stack exposes the live operand stack, e.g. for a REPL to render it
// after each line.
func (ip *Interp) Stack() *stack.Stack { return ip.ctx.Stack }

// Names returns every top-level word name currently defined in the root
// scope (imported names included), in sorted order.
func (ip *Interp) Names() []string { return ip.root.Names() }

// Lib returns the root primitive-library scope, e.g. so a REPL can list
// built-in words separately from user-defined ones.
func (ip *Interp) Lib() *scope.Scope { return ip.lib }

// LoadSource parses and compiles src's top-level declarations (function
// definitions and imports) into the interpreter's shared root scope, so
// later calls — LoadSource, RunWord, or EvalLine — can reference the
// words it defines. name is used only for diagnostic messages.
func (ip *Interp) LoadSource(name, src string) []diag.Diagnostic {
	seq, perrs := parser.Parse(src)
	if len(perrs) > 0 {
		ds := make([]diag.Diagnostic, len(perrs))
		for i, e := range perrs {
			ds[i] = diag.New(0, "%s: %s", name, e)
		}
		return ds
	}
	return compile.CompileDeclSeq(ip.almaPath, seq, ip.root, ip.ctx.Reg)
}

// LoadInteractive behaves like LoadSource but marks every import
// statement in src as interactive first, so package compile echoes back
// each name the import successfully bound as an Info-severity diagnostic
// (spec §4.5 step 6). Used by a REPL session, never by file loading.
func (ip *Interp) LoadInteractive(name, src string) []diag.Diagnostic {
	seq, perrs := parser.Parse(src)
	if len(perrs) > 0 {
		ds := make([]diag.Diagnostic, len(perrs))
		for i, e := range perrs {
			ds[i] = diag.New(0, "%s: %s", name, e)
		}
		return ds
	}
	markImportsInteractive(seq)
	return compile.CompileDeclSeq(ip.almaPath, seq, ip.root, ip.ctx.Reg)
}

func markImportsInteractive(seq *ast.DeclSeq) {
	for _, d := range seq.Decls {
		if im, ok := d.(*ast.ImportDecl); ok {
			im.Interactive = true
		}
	}
}

// LoadFile reads path and runs LoadSource against its contents.
func (ip *Interp) LoadFile(path string) []diag.Diagnostic {
	src, err := os.ReadFile(path)
	if err != nil {
		return []diag.Diagnostic{diag.New(0, "cannot read %q: %v", path, err)}
	}
	return ip.LoadSource(path, string(src))
}

// RunWord evaluates the top-level word name (e.g. "main") against the
// shared stack. It is an error if name has not been defined.
func (ip *Interp) RunWord(name string) error {
	id, resolved, ok := ip.root.Lookup(name)
	if !ok || !resolved {
		return fmt.Errorf("undefined word %q", name)
	}
	return eval.EvalWord(ip.ctx, id, nil)
}

// EvalLine compiles and evaluates a standalone word sequence (no `name =
// [ ... ]` wrapper) against the shared stack and root scope — the form a
// REPL line takes. Diagnostics are compile-time only; a runtime error
// from evaluation is returned directly.
func (ip *Interp) EvalLine(src string) ([]diag.Diagnostic, error) {
	seq, perrs := parser.ParseWordSeq(src)
	if len(perrs) > 0 {
		ds := make([]diag.Diagnostic, len(perrs))
		for i, e := range perrs {
			ds[i] = diag.New(0, "%s", e)
		}
		return ds, nil
	}
	if diags := compile.CompileWordSeq(seq, ip.root, ip.ctx.Reg); diag.HasErrors(diags) {
		return diags, nil
	}
	return nil, eval.EvalSequence(ip.ctx, seq, nil)
}

// Live returns the interpreter's outstanding reference count, for
// diagnostics and the `-d/--debug` CLI flag (spec §8 "Refcount balance").
func (ip *Interp) Live() int64 { return ip.ctx.Ledger.Live() }

// Close releases every value remaining on the stack, mirroring
// original_source's interpreter-teardown sequence (spec §5).
func (ip *Interp) Close() {
	ip.ctx.Stack.Clear()
}

