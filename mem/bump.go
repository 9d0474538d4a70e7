package mem

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/joshuapare/dskit/internal/buf"
	"github.com/joshuapare/dskit/internal/mmap"
)

// DefaultRegionSize is the minimum size of each region a Bump maps.
const DefaultRegionSize = 64 << 10

// Bump is an append-only arena allocator. Blocks are carved from page-backed
// regions by advancing a bump pointer:
//   - O(1) allocation: align the pointer, advance it by size
//   - Growth maps a new region of at least DefaultRegionSize, rounded to pages
//   - Deallocate only rolls the pointer back when the block is the most recent
//     allocation; other blocks stay dead until Close
//
// Like Mmap, regions live outside the Go heap, so Bump does not implement
// TypedAllocator.
type Bump struct {
	regions    []region
	cur        uintptr // bump offset in the last region
	regionSize int
	used       uintptr // bytes handed out and not rolled back
}

type region struct {
	data    []byte
	release func() error
}

// NewBump creates an arena whose regions are at least regionSize bytes.
// regionSize <= 0 selects DefaultRegionSize.
func NewBump(regionSize int) *Bump {
	if regionSize <= 0 {
		regionSize = DefaultRegionSize
	}
	return &Bump{regionSize: regionSize}
}

// Allocate advances the bump pointer, mapping a new region when the current
// one cannot fit the request. Alignments above the page size fail with
// ErrBadAlign.
func (b *Bump) Allocate(size uintptr, align Align) (Block, error) {
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

	off, ok := b.fit(size, al)
	if !ok {
		if err := b.grow(size); err != nil {
			return Block{}, failure(size, al, err.Error())
		}
		off, _ = b.fit(size, al)
	}

	r := b.regions[len(b.regions)-1]
	ptr := unsafe.Pointer(unsafe.SliceData(r.data))
	b.cur = off + size
	b.used += size
	return Block{ptr: unsafe.Add(ptr, off), size: size}, nil
}

// fit returns the offset of an aligned block of size bytes in the current
// region, or ok = false when it does not fit.
func (b *Bump) fit(size, align uintptr) (uintptr, bool) {
	if len(b.regions) == 0 {
		return 0, false
	}
	r := b.regions[len(b.regions)-1]
	base := uintptr(unsafe.Pointer(unsafe.SliceData(r.data)))
	next, ok := buf.AlignUp(base+b.cur, align)
	if !ok {
		return 0, false
	}
	off := next - base
	end, ok := buf.AddOverflowSafe(off, size)
	if !ok || end > uintptr(len(r.data)) {
		return 0, false
	}
	return off, true
}

// grow maps a region large enough for size bytes at any alignment up to a page.
func (b *Bump) grow(size uintptr) error {
	n := max(int(size)+mmap.PageSize, b.regionSize)
	data, release, err := mmap.Anon(n)
	if err != nil {
		return err
	}
	b.regions = append(b.regions, region{data: data, release: release})
	b.cur = 0
	return nil
}

// Deallocate rolls the bump pointer back when b is the most recent block.
// Any other block is left in place until Close.
func (b *Bump) Deallocate(blk Block) {
	if blk.ptr == nil || blk.size == 0 || len(b.regions) == 0 {
		return
	}
	r := b.regions[len(b.regions)-1]
	base := uintptr(unsafe.Pointer(unsafe.SliceData(r.data)))
	start := uintptr(blk.ptr)
	if start < base || start+blk.size != base+b.cur {
		return
	}
	b.cur = start - base
	b.used -= blk.size
}

// Used returns the bytes handed out and not rolled back.
func (b *Bump) Used() uintptr { return b.used }

// Regions returns the number of mapped regions.
func (b *Bump) Regions() int { return len(b.regions) }

// Close unmaps every region. Every block handed out becomes invalid.
func (b *Bump) Close() error {
	var errs []error
	for _, r := range b.regions {
		if err := r.release(); err != nil {
			errs = append(errs, err)
		}
	}
	b.regions, b.cur, b.used = nil, 0, 0
	return errors.Join(errs...)
}
