package mem

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/joshuapare/dskit/internal/logger"
	"github.com/joshuapare/dskit/internal/mmap"
)

// Mmap hands out one anonymous private mapping per block. Blocks are page
// aligned, zeroed, and live outside the Go heap, so Mmap does not implement
// TypedAllocator: only pointer-free values can be placed in its blocks.
type Mmap struct {
	live map[unsafe.Pointer]func() error
}

// NewMmap creates an Mmap allocator with no live mappings.
func NewMmap() *Mmap {
	return &Mmap{live: make(map[unsafe.Pointer]func() error)}
}

// Allocate maps size bytes rounded up to whole pages. Alignments above the
// page size fail with ErrBadAlign.
func (m *Mmap) Allocate(size uintptr, align Align) (Block, error) {
	al, err := align.resolve()
	if err != nil {
		return Block{}, err
	}
	if al > uintptr(mmap.PageSize) {
		return Block{}, fmt.Errorf("%w: %d exceeds page size %d", ErrBadAlign, al, mmap.PageSize)
	}
	if size == 0 {
		return zeroBlock(al)
	}
	if size > math.MaxInt-uintptr(mmap.PageSize) {
		return Block{}, failure(size, al, "request exceeds address space")
	}

	data, cleanup, err := mmap.Anon(int(size))
	if err != nil {
		return Block{}, failure(size, al, err.Error())
	}
	if m.live == nil {
		m.live = make(map[unsafe.Pointer]func() error)
	}
	ptr := unsafe.Pointer(unsafe.SliceData(data))
	m.live[ptr] = cleanup
	return Block{ptr: ptr, size: size}, nil
}

// Deallocate unmaps the block. Null, zero-size and unknown blocks are ignored.
// An unmap failure cannot be returned; it is logged as a warning.
func (m *Mmap) Deallocate(b Block) {
	if b.ptr == nil || b.size == 0 {
		return
	}
	cleanup, ok := m.live[b.ptr]
	if !ok {
		return
	}
	delete(m.live, b.ptr)
	if err := cleanup(); err != nil {
		logger.L.Warn("munmap failed", "ptr", fmt.Sprintf("%p", b.ptr), "size", b.size, "error", err)
	}
}

// Live returns the number of blocks currently mapped.
func (m *Mmap) Live() int {
	return len(m.live)
}

// Close unmaps every block still live. Blocks handed out earlier must not be
// used afterwards.
func (m *Mmap) Close() error {
	var errs []error
	for ptr, cleanup := range m.live {
		if err := cleanup(); err != nil {
			errs = append(errs, err)
		}
		delete(m.live, ptr)
	}
	return errors.Join(errs...)
}
