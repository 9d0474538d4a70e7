package mem

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/joshuapare/dskit/internal/buf"
)

// pointerCache memoizes hasPointers per type. It is the only package-level
// mutable state and is safe for concurrent use.
var pointerCache sync.Map // reflect.Type -> bool

// hasPointers reports whether values of t contain anything the garbage
// collector must trace.
func hasPointers(t reflect.Type) bool {
	if v, ok := pointerCache.Load(t); ok {
		return v.(bool)
	}
	p := scanPointers(t)
	pointerCache.Store(t, p)
	return p
}

func scanPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && scanPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if scanPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Pointer, UnsafePointer, String, Slice, Map, Chan, Func, Interface.
		return true
	}
}

// allocateType obtains a block able to hold a value of t.
func allocateType(a Allocator, t reflect.Type) (Block, error) {
	var (
		b   Block
		err error
	)
	if hasPointers(t) {
		ta, ok := a.(TypedAllocator)
		if !ok {
			return Block{}, fmt.Errorf("%w: %s", ErrUnscannable, t)
		}
		b, err = ta.AllocateType(t)
	} else {
		b, err = a.Allocate(t.Size(), Align(t.Align()))
	}
	if err != nil {
		return Block{}, err
	}
	if b.IsNull() {
		return Block{}, fmt.Errorf("%w: %s", ErrOutOfMemory, t)
	}
	return b, nil
}

// New allocates zeroed storage for a T from a (Heap when nil).
// The returned block must be passed back to Free or Delete.
func New[T any](a Allocator) (*T, Block, error) {
	b, err := allocateType(Or(a), reflect.TypeFor[T]())
	if err != nil {
		return nil, Block{}, err
	}
	p := (*T)(b.ptr)
	var zero T
	*p = zero
	return p, b, nil
}

// NewSlice allocates zeroed storage for n contiguous T values from a
// (Heap when nil). The slice has length and capacity n.
func NewSlice[T any](a Allocator, n int) ([]T, Block, error) {
	if n < 0 {
		return nil, Block{}, fmt.Errorf("%w: %d", ErrBadLength, n)
	}
	t := reflect.TypeFor[T]()
	size, err := buf.ArraySize(uintptr(n), t.Size(), uintptr(t.Align()))
	if err != nil {
		return nil, Block{}, fmt.Errorf("%w: %d x %s: %v", ErrAllocationFailure, n, t, err)
	}
	if hasPointers(t) && size > heapLimit() {
		return nil, Block{}, failure(size, uintptr(t.Align()), "request exceeds heap limit")
	}

	var b Block
	if hasPointers(t) {
		b, err = allocateType(Or(a), reflect.ArrayOf(n, t))
	} else {
		b, err = Or(a).Allocate(size, Align(t.Align()))
		if err == nil && b.IsNull() {
			err = fmt.Errorf("%w: %d x %s", ErrOutOfMemory, n, t)
		}
	}
	if err != nil {
		return nil, Block{}, err
	}
	s := unsafe.Slice((*T)(b.ptr), n)
	clear(s)
	return s, b, nil
}

// Free zeroes *p, dropping any references it holds, and returns b to a.
// It does not run Dispose.
func Free[T any](a Allocator, p *T, b Block) {
	if p != nil {
		var zero T
		*p = zero
	}
	Or(a).Deallocate(b)
}

// Delete runs Dispose when *T implements Disposer, then frees the storage.
func Delete[T any](a Allocator, p *T, b Block) {
	Dispose(p)
	Free(a, p, b)
}

// FreeSlice zeroes s and returns b to a without disposing elements.
func FreeSlice[T any](a Allocator, s []T, b Block) {
	clear(s)
	Or(a).Deallocate(b)
}

// DeleteSlice disposes the elements of s last to first, then frees the storage.
func DeleteSlice[T any](a Allocator, s []T, b Block) {
	for i := len(s) - 1; i >= 0; i-- {
		Dispose(&s[i])
	}
	FreeSlice(a, s, b)
}

// Dispose calls p.Dispose when *T implements Disposer. Nil p is ignored.
func Dispose[T any](p *T) {
	if p == nil {
		return
	}
	if d, ok := any(p).(Disposer); ok {
		d.Dispose()
	}
}

// Init calls p.Init when *T implements Initializer.
func Init[T any](p *T) error {
	if in, ok := any(p).(Initializer); ok {
		return in.Init()
	}
	return nil
}
