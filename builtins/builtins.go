// Package builtins implements alma's primitive word library: the
// arithmetic, stack-shuffling, and I/O words the interpreter core's
// spec explicitly excludes (spec §1 Non-goals, "the built-in word
// library... the core defines the contract for invoking primitives but
// not their bodies"). original_source/test.c calls a `lib_init(symtab,
// lib_scope)` to populate a distinguished library scope before running
// anything — lib_init's own definition is not part of the kept source,
// but the call site fixes the shape: one flat table, registered into the
// root scope at startup. That shape is realized here the way the teacher
// repository's `object/builtins.go` lays out its own
// `[]struct{Name string; Builtin *Builtin}` table.
package builtins

import (
	"fmt"
	"os"

	"github.com/cassowary2/alma/eval"
	"github.com/cassowary2/alma/funcreg"
	"github.com/cassowary2/alma/object"
	"github.com/cassowary2/alma/refcount"
	"github.com/cassowary2/alma/scope"
	"github.com/cassowary2/alma/stack"
	"github.com/cassowary2/alma/varbuf"
)

// entry pairs a primitive's name with its implementation, mirroring the
// teacher's builtins table instead of a loose pile of package-level
// registration calls.
type entry struct {
	name string
	fn   funcreg.PrimitiveFunc
}

// Register installs every primitive word into reg and lib, the way
// lib_init populates the library scope once at interpreter start-up.
// ctx is threaded through so primitives that recurse into the evaluator
// (`apply`) close over the same Context the rest of the program runs
// against.
func Register(ctx *eval.Context, reg *funcreg.Registry, lib *scope.Scope) {
	for _, e := range table(ctx) {
		id := reg.Register(&funcreg.Function{Name: e.name, Kind: funcreg.Primitive, Prim: e.fn})
		if err := lib.Register(e.name, id); err != nil {
			// The library scope is built once, from a fixed table with no
			// duplicate names; a failure here is a programming error.
			panic(fmt.Sprintf("builtins: %v", err))
		}
	}
}

func table(ctx *eval.Context) []entry {
	ledger := ctx.Ledger
	return []entry{
		{"+", arith(ledger, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })},
		{"-", arith(ledger, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })},
		{"*", arith(ledger, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })},
		{"/", divide(ledger)},
		{"mod", modulo(ledger)},

		{"eq", compare(ledger, func(c int) bool { return c == 0 })},
		{"lt", compare(ledger, func(c int) bool { return c < 0 })},
		{"gt", compare(ledger, func(c int) bool { return c > 0 })},

		{"dup", dup},
		{"drop", drop},
		{"swap", swap},
		{"over", over},

		{"apply", applyPrim(ctx)},

		{"print", printTop},
		{"puts", putsTop},
	}
}

// popTwoInts reads the top two int values (b on top, a beneath) without
// removing them; callers pop both once they have checked the operands.
func popTwoInts(s *stack.Stack) (a, b *object.Int, err error) {
	bv, ok := s.Peek(0)
	if !ok {
		return nil, nil, fmt.Errorf("stack underflow")
	}
	av, ok := s.Peek(1)
	if !ok {
		return nil, nil, fmt.Errorf("stack underflow")
	}
	ai, ok := av.(*object.Int)
	if !ok {
		return nil, nil, fmt.Errorf("expected int, got %s", av.Kind())
	}
	bi, ok := bv.(*object.Int)
	if !ok {
		return nil, nil, fmt.Errorf("expected int, got %s", bv.Kind())
	}
	return ai, bi, nil
}

// popTwoNumbers reads the top two values as float64s without removing
// them, accepting a mix of Int and Float (an Int widens), the way
// arithmetic words that must also work on floats need to.
func popTwoNumbers(s *stack.Stack) (a, b float64, bothInt bool, err error) {
	bv, ok := s.Peek(0)
	if !ok {
		return 0, 0, false, fmt.Errorf("stack underflow")
	}
	av, ok := s.Peek(1)
	if !ok {
		return 0, 0, false, fmt.Errorf("stack underflow")
	}
	af, aIsInt, ok := asNumber(av)
	if !ok {
		return 0, 0, false, fmt.Errorf("expected number, got %s", av.Kind())
	}
	bf, bIsInt, ok := asNumber(bv)
	if !ok {
		return 0, 0, false, fmt.Errorf("expected number, got %s", bv.Kind())
	}
	return af, bf, aIsInt && bIsInt, nil
}

func asNumber(v object.Value) (f float64, isInt, ok bool) {
	switch n := v.(type) {
	case *object.Int:
		return float64(n.V), true, true
	case *object.Float:
		return n.V, false, true
	default:
		return 0, false, false
	}
}

// arith builds a binary primitive that stays in Int arithmetic when both
// operands are Int, and falls back to Float arithmetic otherwise — the
// same int-widens-to-float rule a concatenative calculator language
// needs without a full numeric tower.
func arith(ledger *refcount.Ledger, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) funcreg.PrimitiveFunc {
	return func(s *stack.Stack, frame *varbuf.Frame) error {
		if ai, bi, err := popTwoInts(s); err == nil {
			s.Pop(2)
			s.Push(object.NewInt(ledger, intOp(ai.V, bi.V)))
			return nil
		}
		af, bf, _, err := popTwoNumbers(s)
		if err != nil {
			return err
		}
		s.Pop(2)
		s.Push(object.NewFloat(ledger, floatOp(af, bf)))
		return nil
	}
}

func divide(ledger *refcount.Ledger) funcreg.PrimitiveFunc {
	return func(s *stack.Stack, frame *varbuf.Frame) error {
		af, bf, bothInt, err := popTwoNumbers(s)
		if err != nil {
			return err
		}
		if bf == 0 {
			return fmt.Errorf("division by zero")
		}
		s.Pop(2)
		if bothInt && int64(af)%int64(bf) == 0 {
			s.Push(object.NewInt(ledger, int64(af)/int64(bf)))
			return nil
		}
		s.Push(object.NewFloat(ledger, af/bf))
		return nil
	}
}

func modulo(ledger *refcount.Ledger) funcreg.PrimitiveFunc {
	return func(s *stack.Stack, frame *varbuf.Frame) error {
		a, b, err := popTwoInts(s)
		if err != nil {
			return err
		}
		if b.V == 0 {
			return fmt.Errorf("modulo by zero")
		}
		result := a.V % b.V
		s.Pop(2)
		s.Push(object.NewInt(ledger, result))
		return nil
	}
}

// compare builds a binary primitive comparing two Ints by the sign of
// a-b (-1, 0 or 1). It pops both operands and pushes Int 1 when pass
// accepts that sign and Int 0 otherwise; Value has no boolean kind, so
// truth is represented as an Int.
func compare(ledger *refcount.Ledger, pass func(c int) bool) funcreg.PrimitiveFunc {
	return func(s *stack.Stack, frame *varbuf.Frame) error {
		a, b, err := popTwoInts(s)
		if err != nil {
			return err
		}
		c := 0
		switch {
		case a.V < b.V:
			c = -1
		case a.V > b.V:
			c = 1
		}
		s.Pop(2)
		if pass(c) {
			s.Push(object.NewInt(ledger, 1))
		} else {
			s.Push(object.NewInt(ledger, 0))
		}
		return nil
	}
}

func dup(s *stack.Stack, frame *varbuf.Frame) error {
	v, ok := s.Peek(0)
	if !ok {
		return fmt.Errorf("stack underflow")
	}
	v.Retain()
	s.Push(v)
	return nil
}

func drop(s *stack.Stack, frame *varbuf.Frame) error {
	if s.Size() < 1 {
		return fmt.Errorf("stack underflow")
	}
	s.Pop(1)
	return nil
}

func swap(s *stack.Stack, frame *varbuf.Frame) error {
	taken := s.Take(2)
	if len(taken) < 2 {
		for _, v := range taken {
			v.Release()
		}
		return fmt.Errorf("stack underflow")
	}
	// taken is top-first: taken[0] was on top, taken[1] beneath it.
	s.Push(taken[0])
	s.Push(taken[1])
	return nil
}

func over(s *stack.Stack, frame *varbuf.Frame) error {
	v, ok := s.Peek(1)
	if !ok {
		return fmt.Errorf("stack underflow")
	}
	v.Retain()
	s.Push(v)
	return nil
}

// applyPrim realizes the `apply` primitive (spec §4.6 "Evaluating a
// quotation value... re-enters eval_sequence with the quotation's
// captured buffer, not the caller's buffer").
func applyPrim(ctx *eval.Context) funcreg.PrimitiveFunc {
	return func(s *stack.Stack, frame *varbuf.Frame) error {
		v, ok := s.Peek(0)
		if !ok {
			return fmt.Errorf("stack underflow")
		}
		q, ok := v.(*object.Quotation)
		if !ok {
			return fmt.Errorf("apply: expected quotation, got %s", v.Kind())
		}
		s.Pop(1)
		return eval.ApplyQuotation(ctx, q)
	}
}

func printTop(s *stack.Stack, frame *varbuf.Frame) error {
	v, ok := s.Peek(0)
	if !ok {
		return fmt.Errorf("stack underflow")
	}
	fmt.Fprintln(os.Stdout, v.Inspect())
	return nil
}

func putsTop(s *stack.Stack, frame *varbuf.Frame) error {
	v, ok := s.Peek(0)
	if !ok {
		return fmt.Errorf("stack underflow")
	}
	str, ok := v.(*object.Str)
	if !ok {
		return fmt.Errorf("puts: expected string, got %s", v.Kind())
	}
	fmt.Fprintln(os.Stdout, str.V.String())
	s.Pop(1)
	return nil
}
