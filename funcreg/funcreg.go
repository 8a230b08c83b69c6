// Package funcreg implements the function registry: the single
// indirection every word reference in compiled code goes through (spec
// §4.3). A word never calls another word by name at run time — the
// binding compiler resolves the name once to a small integer id, and the
// evaluator looks that id up here.
//
// original_source's per-entry union carries a third kind beyond
// primitive and user-defined: a partially-bound reference, a word paired
// with a pre-captured variable-buffer snapshot. This realization has no
// construction site for it: a registry entry's kind is fixed at compile
// time to Primitive or UserDefined, and the only values that ever carry
// a captured frame are object.Quotation values living on the stack
// (§4.6's closure semantics), applied through ApplyQuotation rather than
// through a word lookup. So only two kinds are modeled here; see
// DESIGN.md for the grounding note.
package funcreg

import (
	"github.com/cassowary2/alma/ast"
	"github.com/cassowary2/alma/stack"
	"github.com/cassowary2/alma/varbuf"
)

// Kind identifies which payload a Function carries.
type Kind int

//nolint:revive
const (
	Primitive Kind = iota
	UserDefined
)

// PrimitiveFunc is a built-in word's implementation: it manipulates the
// stack directly, optionally consulting the current variable-buffer
// frame (e.g. a primitive that needs to read a captured closure).
type PrimitiveFunc func(s *stack.Stack, frame *varbuf.Frame) error

// Function is one registered word: either a primitive or a user-defined
// word's compiled body.
type Function struct {
	Name string
	Kind Kind

	// Kind == Primitive.
	Prim PrimitiveFunc

	// Kind == UserDefined.
	Body *ast.WordSeq
}

// Registry is one interpreter instance's table of compiled functions, addressed by
// integer id (spec §4.3: "register(f) -> id", "get(id) -> *Function").
type Registry struct {
	funcs []*Function
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Register appends f and returns its newly assigned id.
func (r *Registry) Register(f *Function) int {
	r.funcs = append(r.funcs, f)
	return len(r.funcs) - 1
}

// Get returns the function stored at id, or ok=false if id is out of
// range.
func (r *Registry) Get(id int) (*Function, bool) {
	if id < 0 || id >= len(r.funcs) {
		return nil, false
	}
	return r.funcs[id], true
}

// Len returns the number of registered functions.
func (r *Registry) Len() int { return len(r.funcs) }
