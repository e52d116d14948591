package workload

import (
	"time"
)

// FileNamePattern is the fmt pattern for benchmark file names.
const FileNamePattern = "text-%03d.txt"

// Default workload parameters.
const (
	DefaultDir        = "__target__"
	DefaultFiles      = 200
	DefaultTotalBytes = int64(2_000_000_000)
	DefaultBufferSize = 8 * 1024
	DefaultTimeout    = 5 * time.Minute
)

// Options configures the file workload.
type Options struct {
	// Dir is the directory the benchmark files are created in.
	Dir string

	// Files is the number of files per phase.
	Files int

	// TotalBytes is the combined size of all files. Each file receives
	// TotalBytes/Files bytes, rounded down to a whole number of buffers.
	TotalBytes int64

	// BufferSize is the size of each write and read.
	BufferSize int

	// Timeout bounds how long a phase waits for its pool to drain.
	Timeout time.Duration
}

// DefaultOptions returns the standard workload: 200 files totalling 2GB.
func DefaultOptions() Options {
	return Options{
		Dir:        DefaultDir,
		Files:      DefaultFiles,
		TotalBytes: DefaultTotalBytes,
		BufferSize: DefaultBufferSize,
		Timeout:    DefaultTimeout,
	}
}

// SetDefaults replaces unset or out-of-range values with defaults. Every
// combination it leaves behind is runnable.
func (o *Options) SetDefaults() {
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.Files < 1 {
		o.Files = DefaultFiles
	}
	if o.TotalBytes < 0 {
		o.TotalBytes = DefaultTotalBytes
	}
	if o.BufferSize < 1 {
		o.BufferSize = DefaultBufferSize
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
}

// FileSize returns the nominal per-file size.
func (o Options) FileSize() int64 {
	return o.TotalBytes / int64(o.Files)
}

// WritesPerFile returns the number of buffers written to each file.
func (o Options) WritesPerFile() int64 {
	return o.FileSize() / int64(o.BufferSize)
}

// BytesPerFile returns the number of bytes actually written to each file.
func (o Options) BytesPerFile() int64 {
	return o.WritesPerFile() * int64(o.BufferSize)
}
