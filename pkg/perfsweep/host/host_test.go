package host

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	info, err := Detect()
	require.NoError(t, err)

	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
	assert.Equal(t, runtime.NumCPU(), info.CPUs)
	assert.Equal(t, runtime.Version(), info.GoVersion)

	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		assert.NotEmpty(t, info.Kernel)
		// At least 64MB on any machine able to run the tests.
		assert.GreaterOrEqual(t, info.TotalRAM, uint64(64*1024*1024))
	}
}

func TestInfo_System(t *testing.T) {
	assert.Equal(t, "linux 6.1.0 (amd64)", Info{OS: "linux", Kernel: "6.1.0", Arch: "amd64"}.System())
	assert.Equal(t, "plan9 (386)", Info{OS: "plan9", Arch: "386"}.System())
}

func TestInfo_Memory(t *testing.T) {
	assert.Equal(t, "unknown", Info{}.Memory())
	assert.Equal(t, "16 GiB", Info{TotalRAM: 16 * 1024 * 1024 * 1024}.Memory())
}
