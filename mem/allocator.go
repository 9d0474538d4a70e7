package mem

import (
	"fmt"
	"reflect"

	"github.com/joshuapare/dskit/internal/buf"
)

// Align is a requested block alignment in bytes. Zero selects DefaultAlign.
type Align uintptr

// DefaultAlign matches the strictest alignment of any scalar type.
const DefaultAlign Align = 16

// resolve returns the effective alignment or ErrBadAlign.
func (a Align) resolve() (uintptr, error) {
	if a == 0 {
		return uintptr(DefaultAlign), nil
	}
	if !buf.IsPow2(uintptr(a)) {
		return 0, fmt.Errorf("%w: %d is not a power of two", ErrBadAlign, a)
	}
	return uintptr(a), nil
}

// Allocator is the throwing allocator flavor.
//
// Implementations:
//   - Heap: Go-heap backed, implements TypedAllocator
//   - Mmap: anonymous page mappings
//   - Bump: append-only arena over page-backed regions
//   - Counting, Limited, Logged: decorators around another Allocator
//   - Checked: adapts an AllocatorNT
type Allocator interface {
	// Allocate returns a block of at least size bytes aligned to align.
	// A zero size succeeds with a non-null block, still aligned to align, that
	// must not be dereferenced.
	// Failure returns an error wrapping ErrAllocationFailure and the null block.
	Allocate(size uintptr, align Align) (Block, error)

	// Deallocate releases a block obtained from this allocator.
	// The null block is ignored. Blocks from other allocators are not detected.
	Deallocate(b Block)
}

// AllocatorNT is the non-throwing allocator flavor. Failure is reported only
// through the null block.
type AllocatorNT interface {
	Allocate(size uintptr, align Align) Block
	Deallocate(b Block)
}

// TypedAllocator is implemented by allocators whose memory is scanned by the
// garbage collector, which makes their blocks able to hold values of any type.
type TypedAllocator interface {
	Allocator

	// AllocateType returns a zeroed block sized and aligned for t.
	AllocateType(t reflect.Type) (Block, error)
}

// typedNT is the non-throwing counterpart of TypedAllocator.
type typedNT interface {
	AllocateType(t reflect.Type) Block
}

// Disposer is implemented by values that must release resources before their
// storage is returned to the allocator.
type Disposer interface {
	Dispose()
}

// Initializer is implemented by values whose default construction can fail.
type Initializer interface {
	Init() error
}

// Or returns a, or Heap when a is nil.
func Or(a Allocator) Allocator {
	if a == nil {
		return Heap{}
	}
	return a
}

// Compile-time interface checks
var (
	_ TypedAllocator = Heap{}
	_ AllocatorNT    = HeapNT{}
	_ Allocator      = (*Mmap)(nil)
	_ Allocator      = (*Bump)(nil)
	_ TypedAllocator = (*Counting)(nil)
	_ TypedAllocator = (*Limited)(nil)
	_ TypedAllocator = (*Logged)(nil)
	_ TypedAllocator = checked{}
	_ AllocatorNT    = noFail{}
)
