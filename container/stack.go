package container

import (
	"fmt"
	"iter"

	"github.com/joshuapare/dskit/mem"
)

// Stack is a bounded LIFO in allocator storage. Its capacity is fixed at
// construction.
type Stack[T any] struct {
	data  []T // len is the capacity; elements [0, n) are live
	n     int
	blk   mem.Block
	alloc mem.Allocator
}

// NewStack allocates room for capacity elements from a (Heap when nil).
func NewStack[T any](a mem.Allocator, capacity int) (*Stack[T], error) {
	a = mem.Or(a)
	data, blk, err := mem.NewSlice[T](a, capacity)
	if err != nil {
		return nil, fmt.Errorf("container: stack[%d]: %w", capacity, err)
	}
	return &Stack[T]{data: data, blk: blk, alloc: a}, nil
}

// Push stores v on top and returns a pointer to it, or nil when the stack is full.
func (s *Stack[T]) Push(v T) *T {
	if s.n == len(s.data) {
		return nil
	}
	s.data[s.n] = v
	s.n++
	return &s.data[s.n-1]
}

// Pop disposes and removes the top element. It returns false on an empty stack.
func (s *Stack[T]) Pop() bool {
	if s.n == 0 {
		return false
	}
	s.n--
	top := &s.data[s.n]
	mem.Dispose(top)
	var zero T
	*top = zero
	return true
}

// PopTo moves the top element into dst without disposing it. It returns
// false on an empty stack.
func (s *Stack[T]) PopTo(dst *T) bool {
	if s.n == 0 {
		return false
	}
	s.n--
	var zero T
	*dst, s.data[s.n] = s.data[s.n], zero
	return true
}

// Top returns the top element, nil when empty.
func (s *Stack[T]) Top() *T {
	if s.n == 0 {
		return nil
	}
	return &s.data[s.n-1]
}

// Index returns element i counted from the bottom. It panics when i is not
// a live element.
func (s *Stack[T]) Index(i int) *T {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("container: stack index %d out of range [0:%d]", i, s.n))
	}
	return &s.data[i]
}

func (s *Stack[T]) Len() int    { return s.n }
func (s *Stack[T]) Cap() int    { return len(s.data) }
func (s *Stack[T]) Empty() bool { return s.n == 0 }
func (s *Stack[T]) Full() bool  { return s.n == len(s.data) }

// All yields live elements from bottom to top.
func (s *Stack[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.data[:s.n] {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Backward yields live elements from top to bottom.
func (s *Stack[T]) Backward() iter.Seq2[int, T] {
	return backward(s.data[:s.n])
}

// Clone copies the stack into new storage with the same capacity.
func (s *Stack[T]) Clone() (*Stack[T], error) {
	c, err := NewStack[T](s.alloc, len(s.data))
	if err != nil {
		return nil, err
	}
	c.n = copy(c.data, s.data[:s.n])
	return c, nil
}

// Release disposes the live elements from top to bottom and frees the
// storage. Calling it again does nothing.
func (s *Stack[T]) Release() {
	if s.data == nil && s.blk.IsNull() {
		return
	}
	data, n, blk := s.data, s.n, s.blk
	s.data, s.n, s.blk = nil, 0, mem.Block{}
	for i := n - 1; i >= 0; i-- {
		mem.Dispose(&data[i])
	}
	mem.FreeSlice(s.alloc, data, blk)
}
