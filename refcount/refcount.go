// Package refcount gives heap-allocated interpreter values manual
// retain/release bookkeeping on top of Go's garbage collector.
//
// The language this interpreter implements is specified against a C
// original that frees memory by hand; nothing in Go's GC model requires
// that discipline for correctness, but the spec's testable properties
// (balanced retain/release across a full run, frames that never outlive
// their last holder) are part of the contract the interpreter has to
// honor. Counted and Ledger model that contract explicitly so it can be
// asserted on in tests, the same way a C implementation would assert it
// under a leak checker.
package refcount

// Ledger tracks the number of currently-live counted allocations for one
// interpreter instance. Keeping it per-instance (rather than a package
// global) means independent interpreters — and independent tests — never
// share a balance.
type Ledger struct {
	live int64
}

// Live returns the number of allocations the ledger currently considers
// outstanding (retained at least once more than released).
func (l *Ledger) Live() int64 { return l.live }

// Counted is embedded in every reference-counted value (see package
// object) and every variable-buffer frame (see package varbuf). It starts
// at a count of one, as if newly constructed with a single owning
// reference, matching the convention described in spec §3: "every value
// carries a reference count... free when count reaches zero."
type Counted struct {
	ledger *Ledger
	n      int32
}

// New returns a Counted with an initial reference count of one, recorded
// against ledger.
func New(ledger *Ledger) Counted {
	ledger.live++
	return Counted{ledger: ledger, n: 1}
}

// Retain increments the reference count. Call this whenever a value or
// frame is shared into a new owner (pushed onto the stack, captured by a
// quotation, stored in a new frame).
func (c *Counted) Retain() {
	c.n++
	c.ledger.live++
}

// Release decrements the reference count and reports whether this was the
// last outstanding reference. Callers that get true back are responsible
// for tearing down whatever this Counted was embedded in (dropping its
// children in turn).
func (c *Counted) Release() bool {
	c.n--
	c.ledger.live--
	return c.n <= 0
}

// Count returns the current reference count. Exposed mainly for tests and
// diagnostics; normal code should not branch on it besides via Release.
func (c *Counted) Count() int32 { return c.n }
