package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dskit/internal/mmap"
)

func TestBump_SequentialAllocations(t *testing.T) {
	b := NewBump(0)
	defer b.Close()

	var prev Block
	for i := range 10 {
		blk, err := b.Allocate(24, 8)
		require.NoError(t, err, "Allocate %d", i)
		require.True(t, blk.AlignedTo(8))
		if i > 0 {
			assert.Greater(t, uintptr(blk.Ptr()), uintptr(prev.Ptr()), "blocks should advance")
		}
		prev = blk
	}
	assert.Equal(t, 1, b.Regions())
	assert.Equal(t, uintptr(240), b.Used())
}

func TestBump_Alignment(t *testing.T) {
	b := NewBump(0)
	defer b.Close()

	for _, align := range []Align{1, 2, 8, 64, 512, Align(mmap.PageSize)} {
		_, err := b.Allocate(3, 1)
		require.NoError(t, err)
		blk, err := b.Allocate(5, align)
		require.NoError(t, err)
		assert.True(t, blk.AlignedTo(uintptr(align)), "align %d", align)
	}

	_, err := b.Allocate(8, Align(mmap.PageSize*2))
	require.ErrorIs(t, err, ErrBadAlign)
}

func TestBump_GrowsRegions(t *testing.T) {
	b := NewBump(mmap.PageSize)
	defer b.Close()

	for range 3 {
		blk, err := b.Allocate(uintptr(mmap.PageSize), 0)
		require.NoError(t, err)
		blk.Bytes()[mmap.PageSize-1] = 1
	}
	assert.GreaterOrEqual(t, b.Regions(), 2)

	big, err := b.Allocate(uintptr(mmap.PageSize)*8, 0)
	require.NoError(t, err, "requests larger than a region get their own region")
	assert.Len(t, big.Bytes(), mmap.PageSize*8)
}

func TestBump_RollbackLastBlock(t *testing.T) {
	b := NewBump(0)
	defer b.Close()

	first, err := b.Allocate(16, 16)
	require.NoError(t, err)
	second, err := b.Allocate(16, 16)
	require.NoError(t, err)

	b.Deallocate(first) // not the last block: stays in place
	assert.Equal(t, uintptr(32), b.Used())

	b.Deallocate(second)
	assert.Equal(t, uintptr(16), b.Used())

	again, err := b.Allocate(16, 16)
	require.NoError(t, err)
	assert.Equal(t, second.Ptr(), again.Ptr(), "rolled-back space is reused")
}

func TestBump_ZeroAndHuge(t *testing.T) {
	b := NewBump(0)
	defer b.Close()

	z, err := b.Allocate(0, 0)
	require.NoError(t, err)
	assert.False(t, z.IsNull())
	b.Deallocate(z)
	b.Deallocate(Block{})
	assert.Zero(t, b.Regions())

	z, err = b.Allocate(0, 256)
	require.NoError(t, err)
	assert.True(t, z.AlignedTo(256))
	assert.Zero(t, b.Regions())

	_, err = b.Allocate(^uintptr(0), 0)
	require.ErrorIs(t, err, ErrAllocationFailure)
}

func TestBump_Close(t *testing.T) {
	b := NewBump(0)
	_, err := b.Allocate(100, 0)
	require.NoError(t, err)

	require.NoError(t, b.Close())
	assert.Zero(t, b.Regions())
	assert.Zero(t, b.Used())
	require.NoError(t, b.Close())
}

func TestBump_HostsPointerFreeValues(t *testing.T) {
	b := NewBump(0)
	defer b.Close()

	p, blk, err := New[point](b)
	require.NoError(t, err)
	p.X = 11
	Free(b, p, blk)

	_, _, err = New[tracked](b)
	require.ErrorIs(t, err, ErrUnscannable)
}
