package own

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dskit/internal/testutil"
	"github.com/joshuapare/dskit/mem"
)

type Shape interface {
	mem.Disposer
	Area() float64
}

type circle struct {
	R        float64
	disposed *int
}

func (c *circle) Area() float64 { return math.Pi * c.R * c.R }

func (c *circle) Dispose() {
	if c.disposed != nil {
		*c.disposed++
	}
}

func TestShared_NullHandle(t *testing.T) {
	a := testutil.LeakCheck(t)

	s := NullShared[int]()
	assert.True(t, s.IsNull())
	assert.Zero(t, s.RefCount())
	assert.False(t, s.IsOwner())
	_, err := s.Ref()
	require.ErrorIs(t, err, ErrNullPointer)
	require.Panics(t, func() { s.Deref() })

	c := s.Clone()
	assert.True(t, c.IsNull())
	assert.Zero(t, c.RefCount())
	assert.Zero(t, a.Stats().Allocations)
}

func TestShared_CounterScenario(t *testing.T) {
	a := testutil.LeakCheck(t)
	var tally testutil.Tally

	func() {
		s, err := ConstructShared(a, tally.Make(5))
		require.NoError(t, err)
		defer s.Release()
		require.Equal(t, 1, s.RefCount())

		s2 := s.Clone()
		assert.Equal(t, 2, s.RefCount())
		assert.Equal(t, 2, s2.RefCount())
		assert.Same(t, s.Ptr(), s2.Ptr())

		s2.Destroy()
		assert.Equal(t, 1, s.RefCount())
		assert.True(t, s.Valid())
		assert.Equal(t, 5, s.Deref().Value)
		assert.Equal(t, 1, tally.Active)
	}()

	assert.Zero(t, tally.Active)
	assert.Equal(t, 1, tally.Disposed)
	assert.Equal(t, 1, a.Stats().Deallocations)
}

func TestShared_OwnerFlag(t *testing.T) {
	a := testutil.LeakCheck(t)

	s, err := NewShared(a, 5)
	require.NoError(t, err)
	assert.True(t, s.IsOwner())

	c := s.Clone()
	assert.False(t, c.IsOwner(), "copies are never owners")
	assert.Equal(t, 2, c.RefCount())

	m := s.Move()
	assert.True(t, m.IsOwner(), "move keeps ownership")
	assert.False(t, s.IsOwner())
	assert.Zero(t, s.RefCount())
	assert.True(t, s.IsNull())
	assert.Equal(t, 2, m.RefCount(), "move does not change the count")

	c.Release()
	m.Release()
}

func TestShared_AliasCountsAndSingleFree(t *testing.T) {
	a := testutil.LeakCheck(t)
	var tally testutil.Tally

	s, err := ConstructShared(a, tally.Make(9))
	require.NoError(t, err)

	const n = 6
	aliases := []*Shared[testutil.Counter]{s}
	for range n - 1 {
		aliases = append(aliases, s.Clone())
	}
	for _, h := range aliases {
		require.Equal(t, n, h.RefCount())
	}

	for i := range n {
		aliases[i].Destroy()
		aliases[i].Destroy()
		want := n - i - 1
		for _, h := range aliases[i+1:] {
			require.Equal(t, want, h.RefCount())
		}
		if want > 0 {
			require.Zero(t, tally.Disposed, "value freed before the last alias")
		}
	}
	assert.Equal(t, 1, tally.Disposed)
	assert.Equal(t, 1, a.Stats().Deallocations)
}

func TestShared_CopyFrom(t *testing.T) {
	a := testutil.LeakCheck(t)
	var tally testutil.Tally

	dst, err := ConstructShared(a, tally.Make(1))
	require.NoError(t, err)
	src, err := ConstructShared(a, tally.Make(2))
	require.NoError(t, err)

	dst.CopyFrom(src)
	assert.Equal(t, 1, tally.Disposed, "old value released")
	assert.Equal(t, 2, dst.Deref().Value)
	assert.Equal(t, 2, src.RefCount())
	assert.False(t, dst.IsOwner())
	assert.True(t, src.IsOwner())

	dst.CopyFrom(dst)
	dst.CopyFrom(src)
	assert.Equal(t, 2, src.RefCount(), "same-group copy keeps the count")

	dst.CopyFrom(nil)
	assert.True(t, dst.IsNull())
	assert.Equal(t, 1, src.RefCount())

	src.Release()
	assert.Zero(t, tally.Active)
}

func TestShared_MoveFrom(t *testing.T) {
	a := testutil.LeakCheck(t)
	var tally testutil.Tally

	x, err := ConstructShared(a, tally.Make(1))
	require.NoError(t, err)
	y, err := ConstructShared(a, tally.Make(2))
	require.NoError(t, err)
	y2 := y.Clone()

	x.MoveFrom(y)
	assert.Equal(t, 1, tally.Disposed)
	assert.True(t, y.IsNull())
	assert.True(t, x.IsOwner())
	assert.Equal(t, 2, x.RefCount())

	// Moving an alias of the same group drops one claim.
	x.MoveFrom(y2)
	assert.Equal(t, 1, x.RefCount())
	assert.False(t, x.IsOwner())

	x.MoveFrom(x)
	assert.Equal(t, 1, x.RefCount())

	x.Release()
	assert.Zero(t, tally.Active)
}

func TestShared_FromUnique(t *testing.T) {
	a := testutil.LeakCheck(t)
	var tally testutil.Tally

	u, err := ConstructUnique(a, tally.Make(4))
	require.NoError(t, err)
	p := u.Ptr()

	s := SharedFromUnique(u)
	assert.True(t, u.IsNull())
	assert.Equal(t, 1, s.RefCount())
	assert.True(t, s.IsOwner())
	assert.Same(t, p, s.Ptr())
	assert.Same(t, a, s.Allocator())

	s.Release()
	assert.Equal(t, 1, tally.Disposed)

	n := SharedFromUnique(NullUnique[int]())
	assert.True(t, n.IsNull())
	assert.Zero(t, n.RefCount())
}

func TestShared_DefaultAndFailure(t *testing.T) {
	a := testutil.LeakCheck(t)

	s, err := DefaultShared[settings](a)
	require.NoError(t, err)
	assert.Equal(t, "default", s.Deref().Name)
	s.Release()

	_, err = NewShared(mem.NewLimited(nil, 0), int32(1))
	require.ErrorIs(t, err, ErrAllocation)
	assert.Contains(t, err.Error(), "own: Shared: allocation failure")

	_, err = ConstructShared(a, func(*settings) error { return errBoom })
	require.ErrorIs(t, err, ErrConstruct)
}

func TestNewSharedAs_DisposesThroughBase(t *testing.T) {
	a := testutil.LeakCheck(t)
	disposed := 0

	s, err := NewSharedAs[Shape](a, func(c *circle) error {
		c.R = 2
		c.disposed = &disposed
		return nil
	})
	require.NoError(t, err)
	assert.InDelta(t, 4*math.Pi, (*s.Deref()).Area(), 1e-9)
	assert.True(t, s.IsOwner())

	c := s.Clone()
	s.Release()
	assert.Zero(t, disposed)

	c.Release()
	assert.Equal(t, 1, disposed, "Dispose runs once, through the base")
	assert.Equal(t, 1, a.Stats().Deallocations)
}

func TestNewSharedAs_RejectsUnrelatedType(t *testing.T) {
	a := testutil.LeakCheck(t)

	s, err := NewSharedAs[Shape](a, func(*settings) error { return nil })
	require.ErrorIs(t, err, ErrConversion)
	assert.Nil(t, s)
	assert.Zero(t, a.Stats().Allocations, "nothing is allocated on a bad conversion")
	assert.Contains(t, err.Error(), "does not implement")
}

func TestNewSharedAs_InitFailure(t *testing.T) {
	a := testutil.LeakCheck(t)
	disposed := 0

	_, err := NewSharedAs[Shape](a, func(c *circle) error {
		c.disposed = &disposed
		return errBoom
	})
	require.ErrorIs(t, err, ErrConstruct)
	assert.Zero(t, disposed, "a value that failed construction is not disposed")
}
