package mem

import (
	"fmt"
	"math"
	"reflect"
	"runtime"
	"runtime/debug"
	"sync"
	"unsafe"

	"github.com/joshuapare/dskit/internal/buf"
)

// fallbackHeapLimit bounds Go-heap requests when the system memory size is
// unknown.
const fallbackHeapLimit = 1 << 40

// heapLimit caps a single Go-heap request at system memory (RAM plus swap
// where known) or the runtime memory limit, whichever is lower. Larger
// requests fail up front: the runtime's out-of-memory path is fatal and
// cannot be recovered.
var heapLimit = sync.OnceValue(func() uintptr {
	limit := systemMemory()
	if limit == 0 {
		limit = fallbackHeapLimit
	}
	if ml := debug.SetMemoryLimit(-1); ml > 0 && ml < math.MaxInt64 && uint64(ml) < uint64(limit) {
		limit = uintptr(ml)
	}
	return min(limit, math.MaxInt>>1)
})

// Heap allocates from the Go heap. Deallocate only drops the block: the memory
// is reclaimed by the collector once no references remain.
//
// Heap is stateless; the zero value is ready to use.
type Heap struct{}

// Allocate over-allocates a byte slice and shifts the start to align.
func (Heap) Allocate(size uintptr, align Align) (Block, error) {
	al, err := align.resolve()
	if err != nil {
		return Block{}, err
	}
	if size == 0 {
		return zeroBlock(al)
	}

	total, ok := buf.AddOverflowSafe(size, al-1)
	if !ok || total > heapLimit() {
		return Block{}, failure(size, al, "request exceeds heap limit")
	}

	raw, err := makeBytes(total)
	if err != nil {
		return Block{}, failure(size, al, err.Error())
	}

	base := unsafe.Pointer(unsafe.SliceData(raw))
	next, _ := buf.AlignUp(uintptr(base), al)
	return Block{ptr: unsafe.Add(base, next-uintptr(base)), size: size}, nil
}

// AllocateType allocates a typed, zeroed value of t so the collector can see
// any pointers stored in it.
func (Heap) AllocateType(t reflect.Type) (blk Block, err error) {
	if t == nil {
		return Block{}, fmt.Errorf("%w: nil type", ErrAllocationFailure)
	}
	if t.Size() > heapLimit() {
		return Block{}, failure(t.Size(), uintptr(t.Align()), "request exceeds heap limit")
	}
	defer func() {
		if r := recover(); r != nil {
			blk, err = Block{}, failure(t.Size(), uintptr(t.Align()), fmt.Sprint(r))
		}
	}()
	v := reflect.New(t)
	return Block{ptr: v.UnsafePointer(), size: t.Size()}, nil
}

// Deallocate is a no-op: Go-heap blocks are reclaimed by the collector.
func (Heap) Deallocate(Block) {}

// HeapNT is the non-throwing flavor of Heap.
type HeapNT struct{}

// Allocate returns the null block where Heap would return an error.
func (HeapNT) Allocate(size uintptr, align Align) Block {
	b, err := Heap{}.Allocate(size, align)
	if err != nil {
		return Block{}
	}
	return b
}

// AllocateType returns the null block where Heap would return an error.
func (HeapNT) AllocateType(t reflect.Type) Block {
	b, err := Heap{}.AllocateType(t)
	if err != nil {
		return Block{}
	}
	return b
}

// Deallocate is a no-op.
func (HeapNT) Deallocate(Block) {}

// makeBytes converts the runtime's recoverable allocation panics
// ("makeslice: len out of range") into errors.
func makeBytes(n uintptr) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			b, err = nil, re
		}
	}()
	return make([]byte, n), nil
}
