//go:build !linux && !darwin

package host

func kernelRelease() (string, error) {
	return "", nil
}

func totalRAM() (uint64, error) {
	return 0, nil
}
