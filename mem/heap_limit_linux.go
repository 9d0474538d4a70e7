//go:build linux

package mem

import (
	"math"

	"golang.org/x/sys/unix"
)

// systemMemory returns physical RAM plus swap, or 0 when unknown.
func systemMemory() uintptr {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	pages := uint64(info.Totalram) + uint64(info.Totalswap)
	if pages > math.MaxInt/unit {
		return math.MaxInt
	}
	return uintptr(pages * unit)
}
