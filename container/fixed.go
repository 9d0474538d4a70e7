package container

import (
	"fmt"
	"iter"

	"github.com/joshuapare/dskit/mem"
)

// Fixed is a fixed-length array in allocator storage.
type Fixed[T any] struct {
	data  []T
	blk   mem.Block
	alloc mem.Allocator
}

// NewFixed allocates n elements from a (Heap when nil). The first elements
// are set from values and the rest are zero.
func NewFixed[T any](a mem.Allocator, n int, values ...T) (*Fixed[T], error) {
	if n >= 0 && len(values) > n {
		return nil, fmt.Errorf("%w: %d values for length %d", ErrTooManyValues, len(values), n)
	}
	a = mem.Or(a)
	data, blk, err := mem.NewSlice[T](a, n)
	if err != nil {
		return nil, fmt.Errorf("container: fixed[%d]: %w", n, err)
	}
	copy(data, values)
	return &Fixed[T]{data: data, blk: blk, alloc: a}, nil
}

// FixedOf allocates a Fixed sized to hold exactly values.
func FixedOf[T any](a mem.Allocator, values ...T) (*Fixed[T], error) {
	return NewFixed(a, len(values), values...)
}

// Len returns the number of elements.
func (f *Fixed[T]) Len() int { return len(f.data) }

// Index returns a pointer to element i. It panics when i is out of range.
func (f *Fixed[T]) Index(i int) *T { return &f.data[i] }

// At returns element i or ErrIndexOutOfBounds.
func (f *Fixed[T]) At(i int) (T, error) {
	if i < 0 || i >= len(f.data) {
		var zero T
		return zero, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, i, len(f.data))
	}
	return f.data[i], nil
}

// Set replaces element i. The old value is not disposed.
func (f *Fixed[T]) Set(i int, v T) error {
	if i < 0 || i >= len(f.data) {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, i, len(f.data))
	}
	f.data[i] = v
	return nil
}

// Slice exposes the elements. The slice is invalid after Release.
func (f *Fixed[T]) Slice() []T { return f.data }

// All yields index and value from first to last.
func (f *Fixed[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range f.data {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Backward yields index and value from last to first.
func (f *Fixed[T]) Backward() iter.Seq2[int, T] {
	return backward(f.data)
}

// Clone copies the elements into new storage from the same allocator.
// Elements are copied by assignment.
func (f *Fixed[T]) Clone() (*Fixed[T], error) {
	return NewFixed(f.alloc, len(f.data), f.data...)
}

// Release disposes every element, last to first, and frees the storage.
// Calling it again does nothing.
func (f *Fixed[T]) Release() {
	if f.data == nil && f.blk.IsNull() {
		return
	}
	data, blk := f.data, f.blk
	f.data, f.blk = nil, mem.Block{}
	mem.DeleteSlice(f.alloc, data, blk)
}

func backward[T any](s []T) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := len(s) - 1; i >= 0; i-- {
			if !yield(i, s[i]) {
				return
			}
		}
	}
}
