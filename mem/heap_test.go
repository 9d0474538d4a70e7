package mem

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeap_ZeroSizeIsNonNull(t *testing.T) {
	b, err := Heap{}.Allocate(0, 0)
	require.NoError(t, err)
	require.False(t, b.IsNull(), "zero-size block must be non-null")
	assert.Zero(t, b.Size())
	assert.Nil(t, b.Bytes())
	Heap{}.Deallocate(b)
}

func TestHeap_HugeRequestFails(t *testing.T) {
	b, err := Heap{}.Allocate(^uintptr(0), 0)
	require.ErrorIs(t, err, ErrAllocationFailure)
	assert.True(t, b.IsNull())

	b, err = Heap{}.Allocate(heapLimit()+1, 1)
	require.ErrorIs(t, err, ErrAllocationFailure)
	assert.True(t, b.IsNull())
}

func TestHeap_BeyondSystemMemoryFails(t *testing.T) {
	const size = 1 << 46
	require.Less(t, heapLimit(), uintptr(size))

	b, err := Heap{}.Allocate(size, 0)
	require.ErrorIs(t, err, ErrAllocationFailure)
	assert.True(t, b.IsNull())

	assert.True(t, HeapNT{}.Allocate(size, 0).IsNull())

	big := reflect.ArrayOf(size, reflect.TypeFor[byte]())
	b, err = Heap{}.AllocateType(big)
	require.ErrorIs(t, err, ErrAllocationFailure)
	assert.True(t, b.IsNull())
	assert.True(t, HeapNT{}.AllocateType(big).IsNull())

	_, _, err = NewSlice[*int](Heap{}, size/8)
	require.ErrorIs(t, err, ErrAllocationFailure)
	_, _, err = NewSlice[byte](Checked(HeapNT{}), size)
	require.ErrorIs(t, err, ErrAllocationFailure)
}

func TestHeap_ZeroSizeHonorsAlignment(t *testing.T) {
	for _, align := range []Align{1, 16, 32, 64, 4096, 1 << 16} {
		b, err := Heap{}.Allocate(0, align)
		require.NoError(t, err)
		assert.False(t, b.IsNull())
		assert.Zero(t, b.Size())
		assert.True(t, b.AlignedTo(uintptr(align)), "align %d: %p", align, b.Ptr())
		Heap{}.Deallocate(b)

		nt := HeapNT{}.Allocate(0, align)
		assert.True(t, nt.AlignedTo(uintptr(align)), "nt align %d", align)
	}
}

func TestHeapNT_HugeRequestReturnsNull(t *testing.T) {
	b := HeapNT{}.Allocate(^uintptr(0), 0)
	assert.True(t, b.IsNull())

	b = HeapNT{}.Allocate(0, 0)
	assert.False(t, b.IsNull())
}

func TestHeap_Alignment(t *testing.T) {
	for _, align := range []Align{1, 2, 4, 8, 16, 64, 256, 4096} {
		for _, size := range []uintptr{1, 7, 33, 1000} {
			b, err := Heap{}.Allocate(size, align)
			require.NoError(t, err, "Allocate(%d, %d)", size, align)
			require.True(t, b.AlignedTo(uintptr(align)), "Allocate(%d, %d) returned %p", size, align, b.Ptr())
			require.Len(t, b.Bytes(), int(size))
		}
	}
}

func TestHeap_DefaultAlign(t *testing.T) {
	b, err := Heap{}.Allocate(24, 0)
	require.NoError(t, err)
	assert.True(t, b.AlignedTo(uintptr(DefaultAlign)))
}

func TestHeap_BadAlign(t *testing.T) {
	for _, align := range []Align{3, 6, 24, 100} {
		_, err := Heap{}.Allocate(8, align)
		require.ErrorIs(t, err, ErrBadAlign, "align %d", align)
	}
}

func TestHeap_BlockIsWritable(t *testing.T) {
	b, err := Heap{}.Allocate(16, 8)
	require.NoError(t, err)
	data := b.Bytes()
	for i := range data {
		require.Zero(t, data[i])
		data[i] = byte(i)
	}
	assert.Equal(t, byte(15), b.Bytes()[15])
}

func TestChecked_NullBecomesOutOfMemory(t *testing.T) {
	a := Checked(HeapNT{})

	_, err := a.Allocate(^uintptr(0), 0)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.ErrorIs(t, err, ErrAllocationFailure)

	b, err := a.Allocate(32, 8)
	require.NoError(t, err)
	assert.True(t, b.AlignedTo(8))
	a.Deallocate(b)
	a.Deallocate(Block{})
}

func TestChecked_BadAlignKeepsCause(t *testing.T) {
	_, err := Checked(HeapNT{}).Allocate(8, 5)
	require.ErrorIs(t, err, ErrBadAlign)
}

func TestNoFail_ErrorBecomesNull(t *testing.T) {
	nt := NoFail(Heap{})
	assert.True(t, nt.Allocate(^uintptr(0), 0).IsNull())
	assert.False(t, nt.Allocate(0, 0).IsNull())

	nt = NoFail(nil)
	b := nt.Allocate(10, 2)
	require.False(t, b.IsNull())
	nt.Deallocate(b)
}

func TestOr(t *testing.T) {
	assert.Equal(t, Heap{}, Or(nil))
	c := NewCounting(nil)
	assert.Same(t, c, Or(c))
}
