package workload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T, files int) Options {
	t.Helper()
	return Options{
		Dir:        filepath.Join(t.TempDir(), "__target__"),
		Files:      files,
		TotalBytes: int64(files) * 4 * 1024,
		BufferSize: 1024,
		Timeout:    time.Minute,
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestOptions_SetDefaults(t *testing.T) {
	opts := Options{Files: -1, TotalBytes: -1, BufferSize: 0}
	opts.SetDefaults()

	assert.Equal(t, DefaultDir, opts.Dir)
	assert.Equal(t, DefaultFiles, opts.Files)
	assert.Equal(t, DefaultTotalBytes, opts.TotalBytes)
	assert.Equal(t, DefaultBufferSize, opts.BufferSize)
	assert.Equal(t, DefaultTimeout, opts.Timeout)
}

func TestOptions_Sizes(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, int64(10_000_000), opts.FileSize())
	assert.Equal(t, int64(1220), opts.WritesPerFile())
	assert.Equal(t, int64(1220*8192), opts.BytesPerFile())
}

func TestRunner_Path(t *testing.T) {
	r := New(Options{Dir: "bench"})
	assert.Equal(t, filepath.Join("bench", "text-001.txt"), r.Path(1))
	assert.Equal(t, filepath.Join("bench", "text-200.txt"), r.Path(200))
	assert.Equal(t, filepath.Join("bench", "text-1000.txt"), r.Path(1000))
}

func TestIsBenchmarkFile(t *testing.T) {
	assert.True(t, IsBenchmarkFile("text-001.txt"))
	assert.True(t, IsBenchmarkFile("text-1234.txt"))
	assert.False(t, IsBenchmarkFile("text-1.txt"))
	assert.False(t, IsBenchmarkFile("notes.txt"))
	assert.False(t, IsBenchmarkFile("text-001.txt.bak"))
}

func TestRunner_WriteUsesEveryIndexOnce(t *testing.T) {
	opts := testOptions(t, 200)
	opts.TotalBytes = 200 * 1024
	r := New(opts)
	require.NoError(t, r.Prepare())
	t.Cleanup(func() { r.Cleanup() })

	res := r.Write(8)
	require.NoError(t, res.Err)
	assert.Empty(t, res.Failures)
	assert.Equal(t, PhaseWrite, res.Phase)
	assert.Equal(t, 8, res.Threads)
	assert.Equal(t, 200, res.Files)

	want := make([]string, 0, 200)
	for i := 1; i <= 200; i++ {
		want = append(want, fmt.Sprintf(FileNamePattern, i))
	}
	assert.Equal(t, want, listDir(t, opts.Dir))
}

func TestRunner_WriteContent(t *testing.T) {
	opts := testOptions(t, 3)
	opts.TotalBytes = 3 * 5000 // 4 full buffers of 1024 per file
	r := New(opts)
	require.NoError(t, r.Prepare())
	t.Cleanup(func() { r.Cleanup() })

	res := r.Write(2)
	require.NoError(t, res.Err)

	for i := int64(1); i <= 3; i++ {
		data, err := os.ReadFile(r.Path(i))
		require.NoError(t, err)
		assert.Len(t, data, 4*1024)
		for _, b := range data {
			require.Contains(t, alphabet, string(b))
		}
	}
}

func TestRunner_FullCycleLeavesDirectoryEmpty(t *testing.T) {
	opts := testOptions(t, 20)
	r := New(opts)
	require.NoError(t, r.Prepare())

	for run := 0; run < 2; run++ {
		w := r.Write(4)
		require.NoError(t, w.Err)
		assert.Empty(t, w.Failures)

		rd := r.Read(4)
		require.NoError(t, rd.Err)
		assert.Empty(t, rd.Failures)

		d := r.Delete(4)
		require.NoError(t, d.Err)
		assert.Empty(t, d.Failures)

		assert.Empty(t, listDir(t, opts.Dir), "run %d left files behind", run+1)
	}

	r.Cleanup()
	_, err := os.Stat(opts.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunner_MissingFilesAreRecordedNotFatal(t *testing.T) {
	opts := testOptions(t, 5)
	r := New(opts)
	require.NoError(t, r.Prepare())
	t.Cleanup(func() { r.Cleanup() })

	rd := r.Read(2)
	require.NoError(t, rd.Err)
	assert.Len(t, rd.Failures, 5)

	d := r.Delete(2)
	require.NoError(t, d.Err)
	assert.Len(t, d.Failures, 5)

	indices := make([]int64, 0, len(d.Failures))
	for _, f := range d.Failures {
		indices = append(indices, f.Index)
		assert.NotEmpty(t, f.Err)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, indices)
}

func TestRunner_WriteIntoMissingDirectory(t *testing.T) {
	opts := testOptions(t, 3)
	r := New(opts)

	res := r.Write(1)
	require.NoError(t, res.Err)
	assert.Len(t, res.Failures, 3)
}

func TestRunner_CleanupRemovesOnlyBenchmarkFiles(t *testing.T) {
	opts := testOptions(t, 3)
	r := New(opts)
	require.NoError(t, os.MkdirAll(opts.Dir, 0o755))

	for _, name := range []string{"text-001.txt", "text-250.txt", "text-9999.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(opts.Dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(opts.Dir, "keep.me"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(opts.Dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.Dir, "nested", "text-002.txt"), []byte("x"), 0o644))

	removed := r.Cleanup()
	assert.Equal(t, 3, removed)

	// Directory is not empty, so it stays.
	assert.Equal(t, []string{"keep.me", "nested"}, listDir(t, opts.Dir))
	assert.FileExists(t, filepath.Join(opts.Dir, "nested", "text-002.txt"))
}

func TestRunner_CleanupMissingDirectory(t *testing.T) {
	r := New(Options{Dir: filepath.Join(t.TempDir(), "does-not-exist")})
	assert.Equal(t, 0, r.Cleanup())
}

func TestRunner_PrepareRemovesLeftovers(t *testing.T) {
	opts := testOptions(t, 2)
	r := New(opts)
	require.NoError(t, os.MkdirAll(opts.Dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.Dir, "text-042.txt"), []byte("stale"), 0o644))

	require.NoError(t, r.Prepare())
	t.Cleanup(func() { r.Cleanup() })

	assert.DirExists(t, opts.Dir)
	assert.Empty(t, listDir(t, opts.Dir))
}

func TestRunner_ZeroByteFiles(t *testing.T) {
	opts := testOptions(t, 4)
	opts.TotalBytes = 0
	r := New(opts)
	require.NoError(t, r.Prepare())
	t.Cleanup(func() { r.Cleanup() })

	res := r.Write(2)
	require.NoError(t, res.Err)
	for i := int64(1); i <= 4; i++ {
		info, err := os.Stat(r.Path(i))
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	}
}

func TestRunner_TimedOutPhaseStopsBeforeReturning(t *testing.T) {
	opts := testOptions(t, 40)
	opts.TotalBytes = 40 * 4 << 20
	opts.BufferSize = 1024
	opts.Timeout = time.Millisecond
	r := New(opts)
	require.NoError(t, r.Prepare())
	t.Cleanup(func() { r.Cleanup() })

	res := r.Write(1)
	require.Error(t, res.Err)
	assert.Positive(t, res.Abandoned)

	// Every file the phase touched is complete when Write returns and no
	// further file appears afterwards.
	written := listDir(t, opts.Dir)
	assert.Len(t, written, opts.Files-res.Abandoned)
	for _, name := range written {
		info, err := os.Stat(filepath.Join(opts.Dir, name))
		require.NoError(t, err)
		assert.Equal(t, opts.BytesPerFile(), info.Size(), name)
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, written, listDir(t, opts.Dir))
}
