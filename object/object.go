// Package object defines alma's runtime value model: the tagged-variant
// Value every stack slot, variable-buffer slot, and quotation capture
// holds (spec §3 "Value"). Adapted from the teacher repository's object
// package — same Type()/Inspect()-shaped interface — but extended with
// explicit reference counting (see package refcount) and narrowed to the
// five value kinds plus quotations the spec defines, instead of the
// teacher's arrays/hashes/errors/closures-over-bytecode.
package object

import (
	"fmt"
	"strconv"

	"github.com/cassowary2/alma/ast"
	"github.com/cassowary2/alma/refcount"
	"github.com/cassowary2/alma/symtab"
	"github.com/cassowary2/alma/ustring"
)

// Kind identifies which variant of Value a given Value is.
type Kind int

//nolint:revive
const (
	IntKind Kind = iota
	FloatKind
	SymKind
	CharKind
	StrKind
	QuotationKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case SymKind:
		return "sym"
	case CharKind:
		return "char"
	case StrKind:
		return "string"
	case QuotationKind:
		return "quotation"
	default:
		return "unknown"
	}
}

// Value is the common interface every runtime value implements: a tagged
// variant (spec §3) carrying its own manual reference count.
//
// Values are never mutated after construction (spec §3); sharing is
// always safe, and Retain/Release are the only operations that touch a
// Value's lifecycle.
type Value interface {
	Kind() Kind
	Inspect() string
	Retain()
	Release() bool
}

// Int is a 64-bit signed integer value.
type Int struct {
	refcount.Counted
	V int64
}

// NewInt allocates a fresh Int with a reference count of one.
func NewInt(ledger *refcount.Ledger, v int64) *Int {
	return &Int{Counted: refcount.New(ledger), V: v}
}

// Kind implements Value.
func (i *Int) Kind() Kind { return IntKind }

// Inspect implements Value.
func (i *Int) Inspect() string { return strconv.FormatInt(i.V, 10) }

// Float is a 64-bit floating point value.
type Float struct {
	refcount.Counted
	V float64
}

// NewFloat allocates a fresh Float with a reference count of one.
func NewFloat(ledger *refcount.Ledger, v float64) *Float {
	return &Float{Counted: refcount.New(ledger), V: v}
}

// Kind implements Value.
func (f *Float) Kind() Kind { return FloatKind }

// Inspect implements Value.
func (f *Float) Inspect() string { return strconv.FormatFloat(f.V, 'g', -1, 64) }

// Sym is a symbol value: a reference to an interned name, distinct from a
// word reference (spec §3 distinguishes "symbol reference" values from
// word AST nodes).
type Sym struct {
	refcount.Counted
	V *symtab.Symbol
}

// NewSym allocates a fresh Sym with a reference count of one.
func NewSym(ledger *refcount.Ledger, sym *symtab.Symbol) *Sym {
	return &Sym{Counted: refcount.New(ledger), V: sym}
}

// Kind implements Value.
func (s *Sym) Kind() Kind { return SymKind }

// Inspect implements Value.
func (s *Sym) Inspect() string { return ":" + s.V.Name }

// Char is a single 32-bit Unicode codepoint value, packed per the
// convention documented on ustring.Ustr.
type Char struct {
	refcount.Counted
	V int32
}

// NewChar allocates a fresh Char with a reference count of one.
func NewChar(ledger *refcount.Ledger, v int32) *Char {
	return &Char{Counted: refcount.New(ledger), V: v}
}

// Kind implements Value.
func (c *Char) Kind() Kind { return CharKind }

// Inspect implements Value.
func (c *Char) Inspect() string {
	u := ustring.New([]int32{c.V})
	return "'" + u.String() + "'"
}

// Str is a shared, immutable Ustring value.
type Str struct {
	refcount.Counted
	V *ustring.Ustr
}

// NewStr allocates a fresh Str with a reference count of one.
func NewStr(ledger *refcount.Ledger, u *ustring.Ustr) *Str {
	return &Str{Counted: refcount.New(ledger), V: u}
}

// Kind implements Value.
func (s *Str) Kind() Kind { return StrKind }

// Inspect implements Value.
func (s *Str) Inspect() string { return s.V.String() }

// Frame is the minimal shape object.Quotation needs from a captured
// variable-buffer frame: something refcounted that the quotation can
// retain and later release. Package varbuf's *varbuf.Frame satisfies
// this; object does not import varbuf (which would create an import
// cycle, since varbuf's slots are themselves object.Values) — see the
// matching note on varbuf.Held.
type Frame interface {
	Retain()
	Release() bool
}

// Quotation is a first-class block value: a pointer to a word-sequence
// body plus an optional captured variable-buffer snapshot (spec §3
// "Quotation (block)"). Captured is non-nil only when the body has a
// var-ref reaching past the quotation's own bind/let frames and a frame
// was active where the literal was evaluated; see ast.QuotationLit's
// CapturesFrame.
type Quotation struct {
	refcount.Counted
	Body     *ast.WordSeq
	Captured Frame // nil if Body contains no var-ref (invariant 3)
}

// NewQuotation allocates a fresh Quotation with a reference count of one.
// If captured is non-nil, NewQuotation retains it on the quotation's
// behalf (the quotation now shares ownership of the frame).
func NewQuotation(ledger *refcount.Ledger, body *ast.WordSeq, captured Frame) *Quotation {
	if captured != nil {
		captured.Retain()
	}
	return &Quotation{Counted: refcount.New(ledger), Body: body, Captured: captured}
}

// Kind implements Value.
func (q *Quotation) Kind() Kind { return QuotationKind }

// Inspect implements Value.
func (q *Quotation) Inspect() string { return fmt.Sprintf("quotation[%p]", q) }

// Release overrides Counted's plain decrement: dropping the last
// reference to a quotation also drops its one reference to the captured
// frame (spec §3: "Dropping the quotation drops one reference to the
// captured buffer.").
func (q *Quotation) Release() bool {
	last := q.Counted.Release()
	if last && q.Captured != nil {
		q.Captured.Release()
	}
	return last
}
