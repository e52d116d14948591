// Package host describes the machine a benchmark runs on: operating system,
// kernel release, logical CPU count, physical memory and Go runtime.
package host

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
)

// Info contains detected host properties.
type Info struct {
	// OS is the operating system name (runtime.GOOS).
	OS string `json:"os" yaml:"os"`

	// Kernel is the kernel release, empty when it cannot be detected.
	Kernel string `json:"kernel,omitempty" yaml:"kernel,omitempty"`

	// Arch is the CPU architecture (runtime.GOARCH).
	Arch string `json:"arch" yaml:"arch"`

	// CPUs is the number of logical CPUs usable by the process.
	CPUs int `json:"cpus" yaml:"cpus"`

	// TotalRAM is the physical memory in bytes, zero when unknown.
	TotalRAM uint64 `json:"total_ram,omitempty" yaml:"total_ram,omitempty"`

	// GoVersion is the runtime version the binary was built with.
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Detect returns the host description. Runtime fields are always filled;
// an error means only the platform-specific fields are missing.
func Detect() (Info, error) {
	info := Info{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}

	kernel, err := kernelRelease()
	if err != nil {
		return info, fmt.Errorf("failed to get kernel release: %w", err)
	}
	info.Kernel = kernel

	ram, err := totalRAM()
	if err != nil {
		return info, fmt.Errorf("failed to get total RAM: %w", err)
	}
	info.TotalRAM = ram

	return info, nil
}

// System returns "os kernel (arch)", omitting the kernel when unknown.
func (i Info) System() string {
	if i.Kernel == "" {
		return fmt.Sprintf("%s (%s)", i.OS, i.Arch)
	}
	return fmt.Sprintf("%s %s (%s)", i.OS, i.Kernel, i.Arch)
}

// Memory returns TotalRAM in human form, or "unknown".
func (i Info) Memory() string {
	if i.TotalRAM == 0 {
		return "unknown"
	}
	return humanize.IBytes(i.TotalRAM)
}
