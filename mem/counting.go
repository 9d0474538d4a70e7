package mem

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Stats is a snapshot of a Counting allocator.
type Stats struct {
	Allocations   int     // successful Allocate/AllocateType calls
	Deallocations int     // Deallocate calls that released a live block
	Failures      int     // failed requests (error or null block)
	InvalidFrees  int     // Deallocate calls for blocks that were not live
	LiveBlocks    int     // blocks allocated and not yet deallocated
	LiveBytes     uintptr // bytes held by live blocks
	PeakBytes     uintptr // high-water mark of LiveBytes
}

// Counting wraps an allocator and records every request. It also tracks the
// set of live blocks, so double or foreign deallocations are counted in
// InvalidFrees and not forwarded to the wrapped allocator.
type Counting struct {
	inner Allocator
	stats Stats
	live  map[unsafe.Pointer]uintptr
	zeros int // live zero-size blocks; they share one address
}

// NewCounting wraps inner (Heap when nil).
func NewCounting(inner Allocator) *Counting {
	return &Counting{
		inner: Or(inner),
		live:  make(map[unsafe.Pointer]uintptr),
	}
}

// Allocate forwards to the wrapped allocator and records the outcome.
func (c *Counting) Allocate(size uintptr, align Align) (Block, error) {
	b, err := c.inner.Allocate(size, align)
	return c.record(b, err)
}

// AllocateType forwards when the wrapped allocator is a TypedAllocator.
func (c *Counting) AllocateType(t reflect.Type) (Block, error) {
	ta, ok := c.inner.(TypedAllocator)
	if !ok {
		c.stats.Failures++
		return Block{}, fmt.Errorf("%w: %s", ErrUnscannable, t)
	}
	b, err := ta.AllocateType(t)
	return c.record(b, err)
}

func (c *Counting) record(b Block, err error) (Block, error) {
	if err != nil || b.IsNull() {
		c.stats.Failures++
		return b, err
	}
	c.stats.Allocations++
	c.stats.LiveBlocks++
	if b.size == 0 {
		c.zeros++
		return b, nil
	}
	c.live[b.ptr] = b.size
	c.stats.LiveBytes += b.size
	if c.stats.LiveBytes > c.stats.PeakBytes {
		c.stats.PeakBytes = c.stats.LiveBytes
	}
	return b, nil
}

// Deallocate records and forwards a live block.
func (c *Counting) Deallocate(b Block) {
	if b.IsNull() {
		return
	}
	if b.size == 0 {
		if c.zeros == 0 {
			c.stats.InvalidFrees++
			return
		}
		c.zeros--
	} else {
		if _, ok := c.live[b.ptr]; !ok {
			c.stats.InvalidFrees++
			return
		}
		delete(c.live, b.ptr)
		c.stats.LiveBytes -= b.size
	}
	c.stats.Deallocations++
	c.stats.LiveBlocks--
	c.inner.Deallocate(b)
}

// Stats returns a snapshot of the counters.
func (c *Counting) Stats() Stats {
	return c.stats
}

// Inner returns the wrapped allocator.
func (c *Counting) Inner() Allocator {
	return c.inner
}
