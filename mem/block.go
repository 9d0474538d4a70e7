package mem

import "unsafe"

// zerobase is the address handed out for zero-size blocks whose alignment it
// already satisfies.
var zerobase [16]byte

// Block is a raw memory block returned by an allocator.
// The zero value is the null block.
type Block struct {
	ptr  unsafe.Pointer
	size uintptr
}

// MakeBlock wraps memory obtained elsewhere. Allocator implementations
// outside this package use it to build their return values.
func MakeBlock(ptr unsafe.Pointer, size uintptr) Block {
	return Block{ptr: ptr, size: size}
}

// zeroBlock returns a non-null, zero-size block aligned to al. Alignments
// zerobase does not meet get a fresh aligned address on the Go heap, which
// the block keeps reachable.
func zeroBlock(al uintptr) (Block, error) {
	p := unsafe.Pointer(&zerobase)
	if uintptr(p)%al == 0 {
		return Block{ptr: p}, nil
	}
	if al > heapLimit() {
		return Block{}, failure(0, al, "alignment exceeds heap limit")
	}
	raw, err := makeBytes(al)
	if err != nil {
		return Block{}, failure(0, al, err.Error())
	}
	base := unsafe.Pointer(unsafe.SliceData(raw))
	shift := (al - uintptr(base)%al) % al
	return Block{ptr: unsafe.Add(base, shift)}, nil
}

// IsNull reports whether b is the null block.
func (b Block) IsNull() bool { return b.ptr == nil }

// Ptr returns the start of the block, nil for the null block.
func (b Block) Ptr() unsafe.Pointer { return b.ptr }

// Size returns the usable size requested for the block.
func (b Block) Size() uintptr { return b.size }

// Bytes views the block as a byte slice. Nil for null and zero-size blocks.
func (b Block) Bytes() []byte {
	if b.ptr == nil || b.size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

// AlignedTo reports whether the block start is a multiple of align.
func (b Block) AlignedTo(align uintptr) bool {
	return align != 0 && uintptr(b.ptr)%align == 0
}
