//go:build darwin

package host

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// totalRAM retrieves the physical memory size using sysctl.
func totalRAM() (uint64, error) {
	// hw.memsize returns the total physical memory as a 64-bit value
	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, fmt.Errorf("sysctl hw.memsize: %w", err)
	}
	return memsize, nil
}
