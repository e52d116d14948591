// Package workload implements the filesystem workload: a fixed set of files
// of random printable text written, read back and deleted in three timed
// phases, each phase spread over a fresh worker pool.
package workload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/logging"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/pool"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
)

var logger = logging.Get("workload")

// alphabet is the set of characters written to benchmark files.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Phase identifies one of the timed file phases.
type Phase string

// File phases in execution order.
const (
	PhaseWrite  Phase = types.PhaseWrite
	PhaseRead   Phase = types.PhaseRead
	PhaseDelete Phase = types.PhaseDelete
)

// FileError records a per-file failure. Failures never abort a phase.
type FileError struct {
	Index int64  `json:"index" yaml:"index"`
	Path  string `json:"path" yaml:"path"`
	Err   string `json:"error" yaml:"error"`
}

// PhaseResult is the outcome of one file phase.
type PhaseResult struct {
	Phase    Phase
	Threads  int
	Elapsed  time.Duration
	Files    int
	Failures []FileError

	// Err is set when the pool did not drain before the phase timeout. The
	// pool is then abandoned: queued files are skipped and the files in
	// flight are finished before the phase returns.
	Err error

	// Abandoned is the number of files never attempted because of a timeout.
	Abandoned int
}

// Runner executes the write, read and delete phases against one directory.
// A Runner holds no state between phases; the file index counter lives in
// each phase invocation.
type Runner struct {
	opts Options
}

// New creates a Runner. Unset options take their defaults.
func New(opts Options) *Runner {
	opts.SetDefaults()
	return &Runner{opts: opts}
}

// Options returns the effective options.
func (r *Runner) Options() Options {
	return r.opts
}

// Path returns the path of the file with the given 1-based index.
func (r *Runner) Path(index int64) string {
	return filepath.Join(r.opts.Dir, fmt.Sprintf(FileNamePattern, index))
}

// Write creates every benchmark file with threads workers.
func (r *Runner) Write(threads int) PhaseResult {
	writes := r.opts.WritesPerFile()
	return r.run(PhaseWrite, threads, func(path string) error {
		return writeFile(path, r.opts.BufferSize, writes)
	})
}

// Read reads every benchmark file to the end with threads workers.
func (r *Runner) Read(threads int) PhaseResult {
	return r.run(PhaseRead, threads, func(path string) error {
		return readFile(path, r.opts.BufferSize)
	})
}

// Delete removes every benchmark file with threads workers.
func (r *Runner) Delete(threads int) PhaseResult {
	return r.run(PhaseDelete, threads, os.Remove)
}

// run dispatches one unit of work per file to a new pool and waits for the
// pool to drain. Each unit fetches its file index from a counter scoped to
// this call, so indices 1..Files are each used exactly once.
func (r *Runner) run(phase Phase, threads int, op func(path string) error) PhaseResult {
	res := PhaseResult{Phase: phase, Threads: threads, Files: r.opts.Files}

	var (
		next     atomic.Int64
		mu       sync.Mutex
		failures []FileError
	)
	next.Store(1)

	start := time.Now()
	p := pool.New(threads)

	for i := 0; i < r.opts.Files; i++ {
		err := p.Submit(func() {
			index := next.Add(1) - 1
			path := r.Path(index)
			if err := op(path); err != nil {
				logger.Warn("file operation failed", "phase", phase, "file", path, "err", err)
				mu.Lock()
				failures = append(failures, FileError{Index: index, Path: path, Err: err.Error()})
				mu.Unlock()
			}
		})
		if err != nil {
			logger.Error("unit of work not submitted", "phase", phase, "err", err)
		}
	}

	if err := p.ShutdownAndWait(r.opts.Timeout); err != nil {
		res.Elapsed = time.Since(start)
		res.Abandoned = p.Abandon()
		res.Err = fmt.Errorf("%s phase with %d threads: %w", phase, threads, err)
		logger.Error("phase abandoned",
			"phase", phase, "threads", threads, "discarded", res.Abandoned, "err", err)
	} else {
		res.Elapsed = time.Since(start)
	}

	mu.Lock()
	res.Failures = failures
	mu.Unlock()

	logger.Debug("phase finished",
		"phase", phase, "threads", threads, "elapsed", res.Elapsed, "failures", len(res.Failures))
	return res
}

// writeFile fills path with writes buffers of random printable characters,
// randomising each buffer independently.
func writeFile(path string, bufferSize int, writes int64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	rnd := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	w := bufio.NewWriterSize(f, bufferSize)
	buf := make([]byte, bufferSize)

	for i := int64(0); i < writes; i++ {
		fillPrintable(rnd, buf)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return w.Flush()
}

func fillPrintable(rnd *rand.Rand, buf []byte) {
	for i := range buf {
		buf[i] = alphabet[rnd.IntN(len(alphabet))]
	}
}

// readFile reads path sequentially to EOF and discards the content.
func readFile(path string, bufferSize int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, bufferSize)
	for {
		_, err := f.Read(buf)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
