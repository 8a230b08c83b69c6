package stack

import (
	"testing"

	"github.com/cassowary2/alma/object"
	"github.com/cassowary2/alma/refcount"
	"github.com/stretchr/testify/require"
)

func TestPushPeekOrder(t *testing.T) {
	var ledger refcount.Ledger
	s := New()
	s.Push(object.NewInt(&ledger, 1))
	s.Push(object.NewInt(&ledger, 2))
	s.Push(object.NewInt(&ledger, 3))

	top, ok := s.Peek(0)
	require.True(t, ok)
	require.Equal(t, "3", top.Inspect())

	second, ok := s.Peek(1)
	require.True(t, ok)
	require.Equal(t, "2", second.Inspect())

	require.Equal(t, 3, s.Size())
}

func TestPeekOutOfRange(t *testing.T) {
	s := New()
	_, ok := s.Peek(0)
	require.False(t, ok)

	_, ok = s.Peek(-1)
	require.False(t, ok)
}

func TestPopReleasesAndShrinks(t *testing.T) {
	var ledger refcount.Ledger
	s := New()
	s.Push(object.NewInt(&ledger, 1))
	s.Push(object.NewInt(&ledger, 2))
	require.EqualValues(t, 2, ledger.Live())

	s.Pop(1)
	require.Equal(t, 1, s.Size())
	require.EqualValues(t, 1, ledger.Live())

	s.Pop(5) // popping more than present stops cleanly at empty
	require.Equal(t, 0, s.Size())
	require.EqualValues(t, 0, ledger.Live())
}

func TestTakeTransfersOwnershipWithoutReleasing(t *testing.T) {
	var ledger refcount.Ledger
	s := New()
	s.Push(object.NewInt(&ledger, 1))
	s.Push(object.NewInt(&ledger, 2))
	s.Push(object.NewInt(&ledger, 3))

	taken := s.Take(2)
	require.Len(t, taken, 2)
	require.Equal(t, "3", taken[0].Inspect())
	require.Equal(t, "2", taken[1].Inspect())
	require.Equal(t, 1, s.Size())
	require.EqualValues(t, 3, ledger.Live(), "Take must not release — ownership transfers to the caller")

	s.Clear()
	for _, v := range taken {
		v.Release()
	}
	require.EqualValues(t, 0, ledger.Live())
}

func TestClear(t *testing.T) {
	var ledger refcount.Ledger
	s := New()
	s.Push(object.NewInt(&ledger, 1))
	s.Push(object.NewInt(&ledger, 2))
	s.Push(object.NewInt(&ledger, 3))

	s.Clear()
	require.Equal(t, 0, s.Size())
	require.EqualValues(t, 0, ledger.Live())
}
