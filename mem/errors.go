package mem

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocationFailure indicates the allocator could not satisfy a request.
	ErrAllocationFailure = errors.New("mem: allocation failure")

	// ErrOutOfMemory indicates a non-throwing allocator returned the null block.
	// It matches ErrAllocationFailure under errors.Is.
	ErrOutOfMemory = fmt.Errorf("%w: out of memory", ErrAllocationFailure)

	// ErrBadAlign indicates an alignment that is not a power of two, or one the
	// allocator cannot honor.
	ErrBadAlign = errors.New("mem: bad alignment")

	// ErrUnscannable indicates a value containing pointers was requested from an
	// allocator whose memory is not scanned by the garbage collector.
	ErrUnscannable = errors.New("mem: allocator cannot hold values containing pointers")

	// ErrBadLength indicates a negative element count.
	ErrBadLength = errors.New("mem: negative length")
)

func failure(size, align uintptr, cause string) error {
	return fmt.Errorf("%w: %d bytes aligned to %d: %s", ErrAllocationFailure, size, align, cause)
}
