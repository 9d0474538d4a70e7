// Package buf contains overflow-safe size arithmetic used when sizing allocations.
package buf

import (
	"fmt"
	"math/bits"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow uintptr.
func AddOverflowSafe(a, b uintptr) (uintptr, bool) {
	sum, carry := bits.Add(uint(a), uint(b), 0)
	if carry != 0 {
		return 0, false
	}
	return uintptr(sum), true
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would overflow uintptr.
// This is essential for count * elementSize calculations when sizing array storage.
func MulOverflowSafe(a, b uintptr) (uintptr, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	hi, lo := bits.Mul(uint(a), uint(b))
	if hi != 0 {
		return 0, false
	}
	return uintptr(lo), true
}

// IsPow2 reports whether n is a non-zero power of two.
func IsPow2(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// AlignUp rounds n up to the next multiple of align. align must be a power of two.
// Returns ok = false when rounding would overflow.
func AlignUp(n, align uintptr) (uintptr, bool) {
	sum, ok := AddOverflowSafe(n, align-1)
	if !ok {
		return 0, false
	}
	return sum &^ (align - 1), true
}

// ArraySize validates align and returns the byte size of count elements of
// elemSize bytes, or an error describing the overflow.
//
//	total, err := buf.ArraySize(n, unsafe.Sizeof(x), unsafe.Alignof(x))
//	if err != nil {
//	    return fmt.Errorf("array: %w", err)
//	}
func ArraySize(count, elemSize, align uintptr) (uintptr, error) {
	if !IsPow2(align) {
		return 0, fmt.Errorf("alignment %d is not a power of two", align)
	}
	total, ok := MulOverflowSafe(count, elemSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elemSize)
	}
	return total, nil
}
