package mem

import (
	"fmt"
	"reflect"
)

// Limited wraps an allocator with a budget on live bytes. Requests that would
// exceed the budget fail with ErrAllocationFailure without reaching the
// wrapped allocator.
type Limited struct {
	inner  Allocator
	budget uintptr
	used   uintptr
}

// NewLimited wraps inner (Heap when nil) with budget bytes.
func NewLimited(inner Allocator, budget uintptr) *Limited {
	return &Limited{inner: Or(inner), budget: budget}
}

// Allocate fails when size does not fit in the remaining budget.
func (l *Limited) Allocate(size uintptr, align Align) (Block, error) {
	if !l.fits(size) {
		return Block{}, failure(size, uintptr(align), fmt.Sprintf("budget exhausted (%d of %d bytes used)", l.used, l.budget))
	}
	b, err := l.inner.Allocate(size, align)
	if err != nil || b.IsNull() {
		return b, err
	}
	l.used += b.size
	return b, nil
}

// AllocateType charges t.Size() against the budget.
func (l *Limited) AllocateType(t reflect.Type) (Block, error) {
	ta, ok := l.inner.(TypedAllocator)
	if !ok {
		return Block{}, fmt.Errorf("%w: %s", ErrUnscannable, t)
	}
	if !l.fits(t.Size()) {
		return Block{}, failure(t.Size(), uintptr(t.Align()), fmt.Sprintf("budget exhausted (%d of %d bytes used)", l.used, l.budget))
	}
	b, err := ta.AllocateType(t)
	if err != nil || b.IsNull() {
		return b, err
	}
	l.used += b.size
	return b, nil
}

// Deallocate returns the block's bytes to the budget.
func (l *Limited) Deallocate(b Block) {
	if b.IsNull() {
		return
	}
	if b.size > l.used {
		l.used = 0
	} else {
		l.used -= b.size
	}
	l.inner.Deallocate(b)
}

// Used returns the bytes currently charged against the budget.
func (l *Limited) Used() uintptr { return l.used }

// Remaining returns the bytes still available.
func (l *Limited) Remaining() uintptr { return l.budget - l.used }

func (l *Limited) fits(size uintptr) bool {
	return size <= l.budget-l.used
}
