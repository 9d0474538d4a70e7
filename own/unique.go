package own

import "github.com/joshuapare/dskit/mem"

const uniqueName = "Unique"

// Unique exclusively owns one value in allocator storage. The zero value is
// a null handle bound to the Go heap.
type Unique[T any] struct {
	_     noCopy
	ptr   *T
	blk   mem.Block
	alloc mem.Allocator
}

// NullUnique returns a null handle. Nothing is allocated.
func NullUnique[T any]() *Unique[T] {
	return &Unique[T]{}
}

// NewUnique allocates storage from a (Heap when nil) and stores v in it.
func NewUnique[T any](a mem.Allocator, v T) (*Unique[T], error) {
	return ConstructUnique(a, assign(v))
}

// DefaultUnique allocates a zero T and calls Init when *T is a mem.Initializer.
func DefaultUnique[T any](a mem.Allocator) (*Unique[T], error) {
	return ConstructUnique(a, initDefault[T])
}

// ConstructUnique allocates a zero T and initializes it in place. When init
// fails or panics the storage is released and no handle is returned.
func ConstructUnique[T any](a mem.Allocator, init func(*T) error) (*Unique[T], error) {
	a = mem.Or(a)
	p, blk, err := construct(a, uniqueName, init)
	if err != nil {
		return nil, err
	}
	return &Unique[T]{ptr: p, blk: blk, alloc: a}, nil
}

// Move transfers the value into a new handle and leaves u null.
func (u *Unique[T]) Move() *Unique[T] {
	v := &Unique[T]{ptr: u.ptr, blk: u.blk, alloc: u.alloc}
	u.ptr, u.blk = nil, mem.Block{}
	return v
}

// MoveFrom releases u's current value, then takes src's value and leaves
// src null. Moving a handle into itself does nothing.
func (u *Unique[T]) MoveFrom(src *Unique[T]) {
	if u == src {
		return
	}
	u.Release()
	if src == nil {
		return
	}
	u.ptr, u.blk, u.alloc = src.ptr, src.blk, src.alloc
	src.ptr, src.blk = nil, mem.Block{}
}

// Release disposes the value and returns its storage. It is a no-op on a
// null handle.
func (u *Unique[T]) Release() {
	if u == nil || u.ptr == nil {
		return
	}
	p, blk := u.ptr, u.blk
	u.ptr, u.blk = nil, mem.Block{}
	mem.Delete(u.Allocator(), p, blk)
}

// Deref returns the owned value. It panics with a KindNullPointer error on
// a null handle; use Ref for a checked access.
func (u *Unique[T]) Deref() *T {
	if u.IsNull() {
		panic(nullPointer(uniqueName))
	}
	return u.ptr
}

// Ref returns the owned value or ErrNullPointer.
func (u *Unique[T]) Ref() (*T, error) {
	if u.IsNull() {
		return nil, nullPointer(uniqueName)
	}
	return u.ptr, nil
}

// Ptr returns the owned value, nil for a null handle.
func (u *Unique[T]) Ptr() *T {
	if u == nil {
		return nil
	}
	return u.ptr
}

// Valid reports whether u holds a value.
func (u *Unique[T]) Valid() bool { return u != nil && u.ptr != nil }

// IsNull reports whether u is null.
func (u *Unique[T]) IsNull() bool { return !u.Valid() }

// Allocator returns the allocator the handle releases into.
func (u *Unique[T]) Allocator() mem.Allocator {
	if u == nil {
		return mem.Heap{}
	}
	return mem.Or(u.alloc)
}
