// Package varbuf implements the variable buffer: the cactus-stack
// ("spaghetti stack") of lexical-binding frames that `bind` and `let`
// push, addressed by (depth, offset) pairs baked in by the binding
// compiler (spec §4.2, §4.7).
//
// Each Frame is immutable once built and shared by reference count: a
// quotation that closes over a frame retains it, so the frame (and the
// parent chain behind it) outlives the `bind`/`let` form that created it
// for exactly as long as some live quotation still needs it. This mirrors
// original_source/vars.c's varbind_new, adapted from a single linked
// struct with a raw parent pointer into a refcounted Go value.
package varbuf

import "github.com/cassowary2/alma/refcount"

// Held is the minimal shape a variable-buffer slot value needs: something
// refcounted the frame can retain and later release. object.Value
// satisfies this; varbuf does not import object (which would create an
// import cycle, since object.Quotation captures a varbuf.Frame) — see
// the matching note on object.Frame.
type Held interface {
	Retain()
	Release() bool
}

// Frame is one binding scope's worth of slots, chained to the frame it
// was pushed on top of.
type Frame struct {
	refcount.Counted
	slots  []Held
	parent *Frame
}

// NewFrame builds a frame holding slots, linked to parent (nil for the
// outermost frame). NewFrame retains every non-nil slot value and the
// parent frame, so the new Frame shares ownership of both.
func NewFrame(ledger *refcount.Ledger, slots []Held, parent *Frame) *Frame {
	for _, s := range slots {
		if s != nil {
			s.Retain()
		}
	}
	if parent != nil {
		parent.Retain()
	}
	return &Frame{Counted: refcount.New(ledger), slots: slots, parent: parent}
}

// Get walks up depth parent links and returns the slot at offset within
// that frame. depth 0 means f itself. Returns ok=false for an
// out-of-range depth or offset — a binding-compiler bug, since the
// compiler is the only thing that manufactures (depth, offset) pairs.
func (f *Frame) Get(depth, offset int) (Held, bool) {
	cur := f
	for ; depth > 0 && cur != nil; depth-- {
		cur = cur.parent
	}
	if cur == nil || offset < 0 || offset >= len(cur.slots) {
		return nil, false
	}
	return cur.slots[offset], true
}

// Parent returns the frame this one was pushed on top of, or nil.
func (f *Frame) Parent() *Frame { return f.parent }

// Release drops one reference to f. On the last reference, f in turn
// releases every slot value and its parent frame — the mirror image of
// the retains NewFrame performed.
func (f *Frame) Release() bool {
	last := f.Counted.Release()
	if last {
		for _, s := range f.slots {
			if s != nil {
				s.Release()
			}
		}
		if f.parent != nil {
			f.parent.Release()
		}
	}
	return last
}
