// Package scope implements lexical name resolution scopes: the
// compile-time structure `import`, `let`, and top-level word
// declarations populate, and the binding compiler consults to turn a
// bareword into a function id (spec §4.4).
//
// A Scope chains to a parent, up to a distinguished root "lib scope"
// holding the primitive word library. Forward declaration is supported
// via Placehold: a name can be declared with no function id yet, so that
// mutually-recursive word definitions compile, and UserRegister fills
// the id in once it is known.
package scope

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/cassowary2/alma/symtab"
)

// entry is one scope slot: a function id (funcreg.Registry index),
// possibly not yet known (a placeholder), and whether it arrived via an
// import.
type entry struct {
	id       int
	resolved bool
	imported bool
}

// Scope is one level of name resolution: its own entries, plus a parent
// to fall back to.
type Scope struct {
	parent  *Scope
	lib     *Scope
	entries map[string]*entry
	// names holds every name declared in this scope in sorted order, so
	// Names() is deterministic without re-walking the map's unordered
	// iteration. Duplicate checks use entries, not this set.
	names *treeset.Set
}

// New creates a child scope of parent. lib is the root primitive-library
// scope shared by the whole interpreter instance; pass nil only when
// constructing the lib scope itself.
func New(parent, lib *Scope) *Scope {
	return &Scope{
		parent:  parent,
		lib:     lib,
		entries: make(map[string]*entry),
		names:   treeset.NewWith(utils.StringComparator),
	}
}

// NewLib creates the root library scope (no parent, its own lib pointer).
func NewLib() *Scope {
	s := New(nil, nil)
	s.lib = s
	return s
}

// Lib returns the root library scope reachable from s.
func (s *Scope) Lib() *Scope { return s.lib }

// Parent returns s's parent scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

func duplicateErr(name string) error {
	return fmt.Errorf("scope: %q already declared in this scope", name)
}

// Placehold forward-declares name in s with no function id yet, so that
// references to it compile before its body does (mutual recursion). It
// fails if name is already bound in this exact scope (spec §4.4,
// "fails if sym already bound in this scope").
func (s *Scope) Placehold(name string) error {
	if _, ok := s.entries[name]; ok {
		return duplicateErr(name)
	}
	s.entries[name] = &entry{}
	s.names.Add(name)
	return nil
}

// Register inserts an owned entry bound directly to id — used when there
// is no separate forward-declaration step (primitives, the lib scope).
// It fails if name is already bound in this scope, including as an
// unfilled placeholder (spec §4.4).
func (s *Scope) Register(name string, id int) error {
	if _, ok := s.entries[name]; ok {
		return duplicateErr(name)
	}
	s.entries[name] = &entry{id: id, resolved: true}
	s.names.Add(name)
	return nil
}

// UserRegister fills in a previously Placehold-ed entry with id. It
// fails if name has no pending placeholder in this scope (spec §4.4).
func (s *Scope) UserRegister(name string, id int) error {
	e, ok := s.entries[name]
	if !ok || e.resolved {
		return fmt.Errorf("scope: %q has no pending placeholder in this scope", name)
	}
	e.id = id
	e.resolved = true
	return nil
}

// Import inserts an imported entry bound to id. It fails if name is
// already bound in this scope (spec §4.4).
func (s *Scope) Import(name string, id int) error {
	if _, ok := s.entries[name]; ok {
		return duplicateErr(name)
	}
	s.entries[name] = &entry{id: id, resolved: true, imported: true}
	s.names.Add(name)
	return nil
}

// Lookup resolves name by searching s, then its ancestors, then the lib
// scope. It returns the function id and whether the binding is fully
// resolved (false for a still-unfilled placeholder).
func (s *Scope) Lookup(name string) (id int, resolved, ok bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if e, found := cur.entries[name]; found {
			return e.id, e.resolved, true
		}
	}
	if s.lib != nil && s.lib != s {
		return s.lib.Lookup(name)
	}
	return 0, false, false
}

// IsImported reports whether name, if declared directly in s, arrived
// via an import.
func (s *Scope) IsImported(name string) bool {
	e, ok := s.entries[name]
	return ok && e.imported
}

// Names returns the names declared directly in s, in sorted order.
func (s *Scope) Names() []string {
	vals := s.names.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}
