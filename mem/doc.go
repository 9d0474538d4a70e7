// Package mem defines the allocator contract that every owning type in dskit
// is built on, together with the allocators and decorators that implement it.
//
// # Allocator Contract
//
// An allocator is a capability pair:
//
//   - Allocate(size, align): return a block of at least size bytes aligned to align
//   - Deallocate(block): release a block obtained from the same allocator
//
// Two flavors exist. Allocator reports failure with an error wrapping
// ErrAllocationFailure. AllocatorNT never fails loudly: it returns the null
// Block instead. Checked and NoFail convert between the two.
//
// A zero-size request always succeeds and yields a non-null block that is
// safe to deallocate and must never be dereferenced. Deallocating the null
// block is a no-op.
//
// # Implementations
//
// Heap / HeapNT: Go-heap backed, any alignment, can host any value type.
//
// Mmap: one anonymous private mapping per block. Blocks live outside the Go
// heap, so only pointer-free values may be placed in them.
//
// Bump: an append-only arena over page-backed regions. Only the most recent
// block can be handed back; everything else is released by Close.
//
// Counting, Limited, Logged: decorators that record statistics, enforce a
// byte budget, or write a log record per call.
//
// # Typed Allocation
//
// New, NewSlice, Free and Delete place Go values in allocator blocks:
//
//	p, blk, err := mem.New[Point](a)
//	if err != nil {
//	    return err
//	}
//	p.X, p.Y = 1, 2
//	// ...
//	mem.Delete(a, p, blk) // runs Dispose if *Point has one, then deallocates
//
// Values whose type contains Go pointers must live in memory the garbage
// collector scans. Such values are only accepted by allocators implementing
// TypedAllocator; others fail with ErrUnscannable.
//
// # Thread Safety
//
// Allocator instances and decorators are not thread-safe. Callers must
// synchronize access externally.
package mem
