// Package config provides configuration management for perfsweep.
package config

import "time"

// Default configuration values.
const (
	// DefaultThreads is the upper end of the sweep when no thread counts
	// are given on the command line.
	DefaultThreads = 10

	// DefaultRange is the width of one divisor-sum partition.
	DefaultRange = 1_000_000

	// DefaultLowerBound and DefaultUpperBound delimit the CPU scan.
	DefaultLowerBound = 33_550_300
	DefaultUpperBound = 33_550_400

	// DefaultTargetDir is where benchmark files are written.
	DefaultTargetDir = "__target__"

	// DefaultFileCount is the number of files per file phase.
	DefaultFileCount = 200

	// DefaultTotalSize is the combined size of all benchmark files.
	DefaultTotalSize = "2000000000"

	// DefaultBufferSize is the size of each write and read.
	DefaultBufferSize = "8KiB"

	// DefaultPhaseTimeout bounds the wait for a phase's pool to drain.
	DefaultPhaseTimeout = 5 * time.Minute

	// DefaultOutput is the report format.
	DefaultOutput = "pretty"

	// DefaultLogLevel is the file log level.
	DefaultLogLevel = "info"
)

// EnvPrefix prefixes environment overrides, e.g. PERFSWEEP_FILES_COUNT.
const EnvPrefix = "PERFSWEEP"
