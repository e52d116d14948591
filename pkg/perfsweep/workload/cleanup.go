package workload

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// benchmarkFile matches names produced by FileNamePattern.
var benchmarkFile = regexp.MustCompile(`^text-\d{3,}\.txt$`)

// IsBenchmarkFile reports whether name looks like a benchmark file.
func IsBenchmarkFile(name string) bool {
	return benchmarkFile.MatchString(name)
}

// Prepare removes leftovers from an earlier run and creates the target
// directory.
func (r *Runner) Prepare() error {
	r.Cleanup()
	if err := os.MkdirAll(r.opts.Dir, 0o755); err != nil {
		return err
	}
	return nil
}

// Cleanup removes every benchmark file in the target directory, then the
// directory itself if it is empty. It is best effort: failures are logged
// and the number of files removed is returned.
func (r *Runner) Cleanup() int {
	if _, err := os.Stat(r.opts.Dir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("cannot inspect target directory", "dir", r.opts.Dir, "err", err)
		}
		return 0
	}

	var (
		mu      sync.Mutex
		removed int
	)

	root := filepath.Clean(r.opts.Dir)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, r.opts.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("cleanup walk error", "path", path, "err", err)
			return nil
		}
		if d.IsDir() {
			if filepath.Clean(path) == root {
				return nil
			}
			return fastwalk.SkipDir
		}
		if !IsBenchmarkFile(d.Name()) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("cannot remove benchmark file", "file", path, "err", err)
			return nil
		}
		mu.Lock()
		removed++
		mu.Unlock()
		return nil
	})
	if err != nil {
		logger.Warn("cleanup walk failed", "dir", r.opts.Dir, "err", err)
	}

	if err := os.Remove(r.opts.Dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("cannot remove target directory", "dir", r.opts.Dir, "err", err)
	}

	logger.Debug("cleanup finished", "dir", r.opts.Dir, "removed", removed)
	return removed
}
