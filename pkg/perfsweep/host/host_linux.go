//go:build linux

package host

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// totalRAM reads the physical memory size from sysinfo(2).
func totalRAM() (uint64, error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}

	unit := uint64(si.Unit)
	if unit == 0 {
		unit = 1
	}
	return uint64(si.Totalram) * unit, nil
}
