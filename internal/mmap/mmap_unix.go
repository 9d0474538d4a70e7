//go:build unix

// Package mmap provides anonymous page mappings for allocators that keep
// their blocks outside the Go heap.
package mmap

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// PageSize is the granularity of every mapping.
var PageSize = unix.Getpagesize()

// Anon maps n bytes of zeroed, private, read-write memory rounded up to whole
// pages. The returned slice has length n; cleanup unmaps the full mapping and
// is safe to call more than once.
func Anon(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("mmap: invalid length %d", n)
	}
	length := roundPages(n)
	if length < n {
		return nil, nil, fmt.Errorf("mmap: length %d overflows page rounding", n)
	}
	data, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap: %d bytes: %w", length, err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data[:n:n], cleanup, nil
}

func roundPages(n int) int {
	return (n + PageSize - 1) &^ (PageSize - 1)
}
