// Package stack implements the operand stack the evaluator pushes values
// onto and pops them from (spec §4.1).
//
// Rather than hand-rolling a doubling array the way original_source's
// stack.c does, the backing store is github.com/emirpasic/gods'
// arraylist.List — the same growable-list type npillmayer/gorgo's parse
// table (lr/tables.go) uses to hold its edge list. gods' own growth
// policy replaces stack.c's manual realloc-doubling; the push/peek/pop
// contract above it is unchanged.
package stack

import (
	"fmt"
	"os"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/cassowary2/alma/object"
)

// Stack is a growable sequence of object.Values.
type Stack struct {
	content *arraylist.List
}

// New returns an empty Stack.
func New() *Stack {
	return &Stack{content: arraylist.New()}
}

// Push appends v to the top of the stack. Per spec §4.1, Push takes
// ownership of one reference to v — the caller must already have
// retained it (or be transferring a freshly-constructed value's initial
// reference).
func (s *Stack) Push(v object.Value) {
	s.content.Add(v)
}

// Peek returns the value n places down from the top (0 = top) without
// transferring ownership. An out-of-range access is a caller error: it
// returns (nil, false) rather than panicking, per spec §4.1/§7 ("Stack
// underflow... return sentinel; execution proceeds"), and logs a
// diagnostic when n is past the bottom (a negative n is not logged).
func (s *Stack) Peek(n int) (object.Value, bool) {
	if n < 0 {
		return nil, false
	}
	idx := s.content.Size() - 1 - n
	raw, ok := s.content.Get(idx)
	if !ok {
		fmt.Fprintf(os.Stderr,
			"Error: attempt to access too many elements from stack\n"+
				"(element accessed: #%d; stack size: %d)\n", n, s.content.Size())
		return nil, false
	}
	return raw.(object.Value), true
}

// Take removes the top n values and returns them top-first, WITHOUT
// releasing them: ownership of each reference transfers to the caller.
// Used by bind/let to move values from the stack into a new
// variable-buffer frame (spec §4.6) without an extra retain/release
// round trip.
func (s *Stack) Take(n int) []object.Value {
	out := make([]object.Value, 0, n)
	for i := 0; i < n; i++ {
		idx := s.content.Size() - 1
		raw, ok := s.content.Get(idx)
		if !ok {
			break
		}
		s.content.Remove(idx)
		out = append(out, raw.(object.Value))
	}
	return out
}

// Pop drops the top n references, releasing each one (freeing any value
// whose count reaches zero).
func (s *Stack) Pop(n int) {
	for i := 0; i < n; i++ {
		idx := s.content.Size() - 1
		raw, ok := s.content.Get(idx)
		if !ok {
			return
		}
		s.content.Remove(idx)
		raw.(object.Value).Release()
	}
}

// Size returns the number of values currently on the stack.
func (s *Stack) Size() int { return s.content.Size() }

// Clear pops every remaining value, releasing all of them. Used at
// teardown (spec §5: "free_stack pops every remaining value").
func (s *Stack) Clear() {
	s.Pop(s.Size())
}
