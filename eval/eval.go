// Package eval implements the evaluator (spec §4.6): walking a compiled
// word sequence and driving the operand stack and variable buffer.
// Adapted from original_source/eval.h's free-function shape — there is
// no "VM" struct these functions are methods on; a Context simply
// bundles together the collaborators (operand stack, function registry,
// symbol table, refcount ledger) that a call needs.
package eval

import (
	"fmt"
	"os"

	"github.com/cassowary2/alma/ast"
	"github.com/cassowary2/alma/funcreg"
	"github.com/cassowary2/alma/object"
	"github.com/cassowary2/alma/refcount"
	"github.com/cassowary2/alma/stack"
	"github.com/cassowary2/alma/symtab"
	"github.com/cassowary2/alma/ustring"
	"github.com/cassowary2/alma/varbuf"
)

// Context bundles the collaborators a single interpreter instance's
// evaluation needs. One Context is shared across every EvalSequence/
// EvalWord call made on that instance's behalf.
type Context struct {
	Ledger *refcount.Ledger
	Reg    *funcreg.Registry
	Names  *symtab.Table
	Stack  *stack.Stack
}

// EvalSequence evaluates every node of seq in order against frame, the
// currently active variable-buffer frame (nil if none is active).
func EvalSequence(ctx *Context, seq *ast.WordSeq, frame *varbuf.Frame) error {
	for _, n := range seq.Nodes {
		if err := EvalNode(ctx, n, frame); err != nil {
			return err
		}
	}
	return nil
}

// EvalNode evaluates a single word-sequence element.
func EvalNode(ctx *Context, n ast.Node, frame *varbuf.Frame) error {
	switch node := n.(type) {
	case *ast.ValueLit:
		return evalValueLit(ctx, node)
	case *ast.QuotationLit:
		var captured object.Frame
		if node.CapturesFrame {
			captured = asHeldFrame(frame)
		}
		ctx.Stack.Push(object.NewQuotation(ctx.Ledger, node.Body, captured))
		return nil
	case *ast.Ref:
		return evalRef(ctx, node, frame)
	case *ast.Bind:
		return evalBind(ctx, node, frame)
	case *ast.Let:
		return evalLet(ctx, node, frame)
	default:
		return fmt.Errorf("line %d: eval: unhandled node type %T", n.Line(), n)
	}
}

// asHeldFrame adapts a possibly-nil *varbuf.Frame to the object.Frame
// interface, taking care that a nil *varbuf.Frame becomes a true nil
// interface value rather than a non-nil interface wrapping a nil
// pointer (object.NewQuotation's captured != nil check relies on this).
func asHeldFrame(f *varbuf.Frame) object.Frame {
	if f == nil {
		return nil
	}
	return f
}

func evalValueLit(ctx *Context, n *ast.ValueLit) error {
	switch n.Kind {
	case ast.IntLit:
		ctx.Stack.Push(object.NewInt(ctx.Ledger, n.IntVal))
	case ast.FloatLit:
		ctx.Stack.Push(object.NewFloat(ctx.Ledger, n.FloatVal))
	case ast.CharLit:
		u, diags := ustring.ParseString(n.StringRaw)
		reportLenientDiagnostics(n.Line(), diags)
		cps := u.Codepoints()
		if len(cps) == 0 {
			return fmt.Errorf("line %d: empty character literal", n.Line())
		}
		ctx.Stack.Push(object.NewChar(ctx.Ledger, cps[0]))
	case ast.StringLit:
		u, diags := ustring.ParseString(n.StringRaw)
		reportLenientDiagnostics(n.Line(), diags)
		ctx.Stack.Push(object.NewStr(ctx.Ledger, u))
	case ast.SymLit:
		ctx.Stack.Push(object.NewSym(ctx.Ledger, ctx.Names.Intern(n.SymName)))
	}
	return nil
}

// reportLenientDiagnostics surfaces ustring.ParseString's "unknown escape
// sequence passes through" warnings (spec §6, §9) without aborting
// evaluation — the spec's Open Question preserves the original's lenient
// behavior rather than hardening it into an error.
func reportLenientDiagnostics(line int, diags []ustring.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: line %d: %s\n", line, d.Message)
	}
}

func evalRef(ctx *Context, ref *ast.Ref, frame *varbuf.Frame) error {
	switch ref.Kind {
	case ast.RefVar:
		if frame == nil {
			return fmt.Errorf("line %d: reference to %q outside any binding frame", ref.Line(), ref.Name)
		}
		held, ok := frame.Get(ref.Depth, ref.Offset)
		if !ok {
			return fmt.Errorf("line %d: invalid variable reference to %q", ref.Line(), ref.Name)
		}
		v := held.(object.Value)
		v.Retain()
		ctx.Stack.Push(v)
		return nil
	case ast.RefWord:
		return EvalWord(ctx, ref.FuncID, frame)
	default:
		return fmt.Errorf("line %d: unresolved reference %q", ref.Line(), ref.Name)
	}
}

// EvalWord calls the function registered under id. callerFrame is the
// frame active at the call site, passed through to primitives only — a
// user-defined word's own body is evaluated against a fresh frame (nil),
// since a plain top-level word is not a closure over its caller; closures
// are realized as Quotation values instead (see ApplyQuotation), not as
// registered words (spec §4.3, §4.6).
func EvalWord(ctx *Context, id int, callerFrame *varbuf.Frame) error {
	f, ok := ctx.Reg.Get(id)
	if !ok {
		return fmt.Errorf("eval: invalid function id %d", id)
	}
	switch f.Kind {
	case funcreg.Primitive:
		return f.Prim(ctx.Stack, callerFrame)
	case funcreg.UserDefined:
		return EvalSequence(ctx, f.Body, nil)
	default:
		return fmt.Errorf("eval: function %q has unknown kind %v", f.Name, f.Kind)
	}
}

// ApplyQuotation runs q's body against its own captured frame — the
// implementation behind the `apply` primitive (spec §4.6 "Word
// dispatch"). Applying a quotation never sees the call site's frame,
// only whatever the quotation closed over when it was constructed.
func ApplyQuotation(ctx *Context, q *object.Quotation) error {
	var frame *varbuf.Frame
	if q.Captured != nil {
		frame = q.Captured.(*varbuf.Frame)
	}
	return EvalSequence(ctx, q.Body, frame)
}

// evalBind implements `name... -> body`: pop len(Names) values off the
// stack (top becomes Names[0]), evaluate Body against a frame extending
// the current one with those values, then drop the frame.
func evalBind(ctx *Context, node *ast.Bind, frame *varbuf.Frame) error {
	newFrame, err := pushNamesFrame(ctx, node.Names, frame, node.Line())
	if err != nil {
		return err
	}
	err = EvalSequence(ctx, node.Body, newFrame)
	newFrame.Release()
	return err
}

// evalLet implements `let name... = def in cont end`: evaluate Def
// against the current frame, pop len(Names) values the same way Bind
// does, then evaluate Cont against the extended frame.
func evalLet(ctx *Context, node *ast.Let, frame *varbuf.Frame) error {
	if err := EvalSequence(ctx, node.Def, frame); err != nil {
		return err
	}
	newFrame, err := pushNamesFrame(ctx, node.Names, frame, node.Line())
	if err != nil {
		return err
	}
	err = EvalSequence(ctx, node.Cont, newFrame)
	newFrame.Release()
	return err
}

// pushNamesFrame takes len(names) values off the stack and builds a new
// frame holding them, chained to parent. The stack's ownership of each
// value transfers to the frame: Take hands the caller one reference per
// value, NewFrame retains its own copy, and this function immediately
// drops the Take-side reference so the frame is the value's sole owner
// (besides whatever remains live elsewhere, e.g. through an earlier
// Retain).
func pushNamesFrame(ctx *Context, names []string, parent *varbuf.Frame, line int) (*varbuf.Frame, error) {
	n := len(names)
	taken := ctx.Stack.Take(n)
	if len(taken) < n {
		for _, v := range taken {
			v.Release()
		}
		return nil, fmt.Errorf("line %d: stack underflow binding %d name(s)", line, n)
	}
	slots := make([]varbuf.Held, n)
	for i, v := range taken {
		slots[i] = v
	}
	newFrame := varbuf.NewFrame(ctx.Ledger, slots, parent)
	for _, v := range taken {
		v.Release()
	}
	return newFrame, nil
}
