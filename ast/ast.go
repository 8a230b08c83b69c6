// Package ast defines the parse-tree node shapes consumed by the
// evaluator and binding compiler, per spec §3 "AST node types". The
// lexer/parser that produces these nodes is, per spec §1, an external
// collaborator — this package only fixes the shapes the rest of the
// interpreter core agrees to consume.
//
// Every node carries a source-line number for diagnostics.
package ast

// Node is the common interface of every AST node the evaluator walks.
type Node interface {
	// Line returns the source line this node came from.
	Line() int
}

// WordSeq is a left-to-right sequence of word nodes — a function body, a
// quotation body, a let/bind body, or a top-level declaration's value.
type WordSeq struct {
	Nodes []Node
}

// ValueKind discriminates the literal kinds a ValueLit node can hold.
type ValueKind int

const (
	// IntLit marks a 64-bit signed integer literal.
	IntLit ValueKind = iota
	// FloatLit marks a 64-bit floating point literal.
	FloatLit
	// CharLit marks a single-character literal. Like StringLit it carries
	// its raw source text in StringRaw; it is escape-decoded into a packed
	// codepoint (see package ustring) when the literal is evaluated.
	CharLit
	// StringLit marks a string literal, carrying its *raw*,
	// escape-undecoded source text — decoding happens when the literal
	// is evaluated, via ustring.ParseString, so escape-handling lives in
	// exactly one place.
	StringLit
	// SymLit marks a quoted symbol literal (e.g. ":foo").
	SymLit
)

// ValueLit is a literal to be pushed onto the stack as-is.
type ValueLit struct {
	LineNo int
	Kind   ValueKind

	IntVal    int64
	FloatVal  float64
	CharVal   int32 // packed codepoint, see package ustring
	StringRaw string
	SymName   string
}

// Line implements Node.
func (n *ValueLit) Line() int { return n.LineNo }

// QuotationLit is a literal block: `[ ... ]`. At evaluation time it is
// realized as an object.Quotation capturing the current variable buffer,
// but only if it needs to (spec §4.6, "Quotation literal"): a body with
// no reference into an enclosing bind/let frame closes over nothing, so
// evaluating it should push a Quotation with a nil captured buffer
// rather than retaining a frame it will never read. CapturesFrame is set
// by the binding compiler once it has resolved every Ref in Body.
type QuotationLit struct {
	LineNo int
	Body   *WordSeq

	CapturesFrame bool
}

// Line implements Node.
func (n *QuotationLit) Line() int { return n.LineNo }

// RefKind discriminates what a Ref node has been resolved to.
type RefKind int

const (
	// RefUnresolved is the parser's output: a bareword the binding
	// compiler has not yet looked at.
	RefUnresolved RefKind = iota
	// RefWord means the binding compiler resolved this bareword against
	// scope to a function id.
	RefWord
	// RefVar means the binding compiler matched this bareword against an
	// enclosing bind/let frame and rewrote it to a (depth, offset) pair.
	RefVar
)

// Ref is a single bareword reference, mutated in place by the binding
// compiler (spec §4.7) from RefUnresolved into either RefWord or RefVar.
// Keeping one node type for both outcomes means the compiler rewrites the
// tree by filling in fields rather than building a parallel one.
type Ref struct {
	LineNo int
	Name   string // original source text, kept for diagnostics

	Kind RefKind

	FuncID int // valid when Kind == RefWord

	Depth  int // valid when Kind == RefVar: enclosing bind/let frames above the match
	Offset int // valid when Kind == RefVar: position within that frame
}

// Line implements Node.
func (n *Ref) Line() int { return n.LineNo }

// Bind is a `name... -> body` construct: pop len(Names) values off the
// stack (the top becomes the first name, per spec §4.6's "Ordering and
// tie-breaks"), run Body against a variable buffer extended with those
// values, then drop the new frame.
type Bind struct {
	LineNo int
	Names  []string
	Body   *WordSeq
}

// Line implements Node.
func (n *Bind) Line() int { return n.LineNo }

// Let is a `let name... = def in cont end` construct: run Def against the
// current stack, pop len(Names) values the same way Bind does, then run
// Cont against a variable buffer extended with those values.
type Let struct {
	LineNo int
	Names  []string
	Def    *WordSeq
	Cont   *WordSeq
}

// Line implements Node.
func (n *Let) Line() int { return n.LineNo }

// Decl is a top-level declaration: a function definition or an import
// statement.
type Decl interface {
	Line() int
	declNode()
}

// FuncDecl defines a top-level named word, e.g.
// `double = [ a -> a a + ]`.
type FuncDecl struct {
	LineNo int
	Name   string
	Body   *WordSeq
}

// Line implements Decl.
func (d *FuncDecl) Line() int { return d.LineNo }
func (d *FuncDecl) declNode() {}

// ImportDecl is an `import` statement (spec §4.5).
type ImportDecl struct {
	LineNo int

	// Module is the module path or quoted literal as written in source.
	Module string

	// As is the alias symbol from `as alias`, or "" if none was given.
	As string

	// Names is the explicit re-export list from `(name, name, ...)`, or
	// nil for a wildcard import.
	Names []string

	// JustString marks a double-quoted literal path import, which
	// suppresses automatic extension handling and basename prefixing
	// (spec §4.5 step 1, §6).
	JustString bool

	// Interactive marks a REPL-originated import, whose successfully
	// imported names should be echoed (spec §4.5 step 6).
	Interactive bool
}

// Line implements Decl.
func (d *ImportDecl) Line() int { return d.LineNo }
func (d *ImportDecl) declNode() {}

// DeclSeq is a parsed source file or REPL chunk: an ordered list of
// declarations.
type DeclSeq struct {
	Decls []Decl
}
