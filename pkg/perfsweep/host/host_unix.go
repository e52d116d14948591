//go:build linux || darwin

package host

import (
	"golang.org/x/sys/unix"
)

// kernelRelease returns the release field of uname(2).
func kernelRelease() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(u.Release[:]), nil
}
