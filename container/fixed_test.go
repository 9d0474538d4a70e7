package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dskit/internal/testutil"
	"github.com/joshuapare/dskit/mem"
)

func TestFixed_RemainingElementsAreZero(t *testing.T) {
	a := testutil.LeakCheck(t)

	f, err := NewFixed(a, 5, 1, 2, 3)
	require.NoError(t, err)
	defer f.Release()

	assert.Equal(t, 5, f.Len())
	assert.Equal(t, []int{1, 2, 3, 0, 0}, f.Slice())
}

func TestFixed_TooManyValues(t *testing.T) {
	a := testutil.LeakCheck(t)

	_, err := NewFixed(a, 2, 1, 2, 3)
	require.ErrorIs(t, err, ErrTooManyValues)
	assert.Zero(t, a.Stats().Allocations)

	_, err = NewFixed[int](a, -1)
	require.ErrorIs(t, err, mem.ErrBadLength)
}

func TestFixed_CheckedAccess(t *testing.T) {
	f, err := FixedOf(nil, "a", "b", "c")
	require.NoError(t, err)
	defer f.Release()

	v, err := f.At(1)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	for _, i := range []int{-1, 3, 100} {
		_, err = f.At(i)
		require.ErrorIs(t, err, ErrIndexOutOfBounds, "At(%d)", i)
		require.ErrorIs(t, f.Set(i, "x"), ErrIndexOutOfBounds, "Set(%d)", i)
	}

	require.NoError(t, f.Set(2, "z"))
	*f.Index(0) = "y"
	assert.Equal(t, []string{"y", "b", "z"}, f.Slice())
	assert.Panics(t, func() { f.Index(3) })
}

func TestFixed_Iterators(t *testing.T) {
	f, err := FixedOf(nil, 10, 20, 30)
	require.NoError(t, err)
	defer f.Release()

	var fwd, back []int
	for i, v := range f.All() {
		fwd = append(fwd, i, v)
	}
	for i, v := range f.Backward() {
		back = append(back, i, v)
	}
	assert.Equal(t, []int{0, 10, 1, 20, 2, 30}, fwd)
	assert.Equal(t, []int{2, 30, 1, 20, 0, 10}, back)

	for i := range f.All() {
		if i == 1 {
			break
		}
	}
}

func TestFixed_CloneAndRelease(t *testing.T) {
	a := testutil.LeakCheck(t)
	var tally testutil.Tally

	f, err := NewFixed[testutil.Counter](a, 3)
	require.NoError(t, err)
	for i := range f.Len() {
		require.NoError(t, tally.Make(i)(f.Index(i)))
	}

	c, err := f.Clone()
	require.NoError(t, err)
	assert.Equal(t, 2, c.Index(2).Value)
	assert.NotSame(t, f.Index(0), c.Index(0))
	assert.Equal(t, 2, a.Stats().LiveBlocks)

	f.Release()
	f.Release()
	assert.Equal(t, 3, tally.Disposed)
	assert.Zero(t, f.Len())

	// The clone shares the tally, so disposing it counts again.
	c.Release()
	assert.Equal(t, 6, tally.Disposed)
}

func TestFixed_ZeroLength(t *testing.T) {
	a := testutil.LeakCheck(t)
	f, err := NewFixed[*int](a, 0)
	require.NoError(t, err)
	assert.Zero(t, f.Len())
	f.Release()
}
