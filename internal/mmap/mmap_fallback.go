//go:build !unix

// Package mmap provides anonymous page mappings for allocators that keep
// their blocks outside the Go heap.
package mmap

import (
	"fmt"
	"os"
	"unsafe"
)

// PageSize is the granularity of every mapping.
var PageSize = os.Getpagesize()

// Anon allocates n zeroed, page-aligned bytes from the Go heap when anonymous
// mappings are not available on this platform.
func Anon(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("mmap: invalid length %d", n)
	}
	if n > int(^uint(0)>>1)-PageSize {
		return nil, nil, fmt.Errorf("mmap: length %d overflows page rounding", n)
	}
	raw := make([]byte, n+PageSize-1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	shift := int((base+uintptr(PageSize)-1)&^(uintptr(PageSize)-1) - base)
	return raw[shift : shift+n : shift+n], func() error { return nil }, nil
}
