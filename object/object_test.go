package object

import (
	"testing"

	"github.com/cassowary2/alma/ast"
	"github.com/cassowary2/alma/refcount"
	"github.com/cassowary2/alma/ustring"
	"github.com/stretchr/testify/require"
)

func TestIntInspect(t *testing.T) {
	var ledger refcount.Ledger
	i := NewInt(&ledger, 42)
	require.Equal(t, IntKind, i.Kind())
	require.Equal(t, "42", i.Inspect())
	require.EqualValues(t, 1, ledger.Live())
}

func TestRetainReleaseThroughInterface(t *testing.T) {
	var ledger refcount.Ledger
	var v Value = NewStr(&ledger, ustring.New(nil))
	v.Retain()
	require.False(t, v.Release())
	require.True(t, v.Release())
}

type fakeFrame struct {
	released bool
	n        int
}

func (f *fakeFrame) Retain()         { f.n++ }
func (f *fakeFrame) Release() bool {
	f.n--
	if f.n <= 0 {
		f.released = true
	}
	return f.released
}

func TestQuotationReleaseDropsCapturedFrame(t *testing.T) {
	var ledger refcount.Ledger
	frame := &fakeFrame{n: 1}

	q := NewQuotation(&ledger, &ast.WordSeq{}, frame)
	require.Equal(t, 2, frame.n, "NewQuotation must retain the captured frame")

	frame.Release() // the creator drops its own reference; q now holds the last one
	require.True(t, q.Release())
	require.True(t, frame.released)
	require.Equal(t, 0, frame.n)
}

func TestQuotationWithNoCaptureIsFine(t *testing.T) {
	var ledger refcount.Ledger
	q := NewQuotation(&ledger, &ast.WordSeq{}, nil)
	require.True(t, q.Release())
}
