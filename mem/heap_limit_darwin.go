//go:build darwin

package mem

import (
	"math"

	"golang.org/x/sys/unix"
)

// systemMemory returns physical RAM, or 0 when unknown.
func systemMemory() uintptr {
	n, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return uintptr(min(n, math.MaxInt))
}
