// Package symtab interns word and variable names into Symbols with stable
// pointer identity, as required by spec §3: "Two symbols obtained from the
// symbol table for the same text bytes are reference-equal."
//
// The original C implementation (original_source/scope.h, import.c) passes
// an ASymbolTable through every compile-time operation and compares
// ASymbol pointers directly; a Go *Symbol plays the same role and can be
// compared with ==.
package symtab

// Symbol is an interned name. Its lifetime is the lifetime of the Table
// that produced it; two Symbols from the same Table are == iff they were
// interned from byte-equal names.
type Symbol struct {
	Name string
}

// Table interns names into Symbols.
type Table struct {
	entries map[string]*Symbol
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{entries: make(map[string]*Symbol)}
}

// Intern returns the Symbol for name, creating and caching it on first
// use. Repeated calls with byte-equal names return the identical *Symbol.
func (t *Table) Intern(name string) *Symbol {
	if sym, ok := t.entries[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name}
	t.entries[name] = sym
	return sym
}

// Lookup returns the Symbol already interned for name, without creating
// one. The second return value is false if name has never been interned.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.entries[name]
	return sym, ok
}

// Prefixed interns the symbol "<prefix><delim><name>", mirroring
// import.c's prefix_symbol (used by the import resolver to qualify
// re-exported names, e.g. "q" + "." + "foo" -> "q.foo").
func (t *Table) Prefixed(prefix, delim, name string) *Symbol {
	return t.Intern(prefix + delim + name)
}
