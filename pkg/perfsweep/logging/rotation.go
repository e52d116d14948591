package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// RotationConfig configures log file rotation behavior.
type RotationConfig struct {
	// MaxSize is the maximum size in bytes before rotation.
	// Zero uses the default of 10MB.
	MaxSize int64

	// MaxBackups is the maximum number of rotated files to keep.
	// Zero keeps all of them.
	MaxBackups int
}

// DefaultRotationConfig returns sensible defaults for rotation.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 5,
	}
}

// RotatingWriter implements io.WriteCloser and rotates the underlying file
// once it grows past MaxSize. It is safe for concurrent use.
type RotatingWriter struct {
	path string
	cfg  RotationConfig
	mu   sync.Mutex
	file *os.File
	size int64
}

// NewRotatingWriter creates a rotating writer for the given log path,
// creating parent directories as needed.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultRotationConfig().MaxSize
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	w := &RotatingWriter{path: path, cfg: cfg}
	if err := w.openFile(); err != nil {
		return nil, err
	}
	w.cleanup()

	return w, nil
}

// Write writes p to the log file, rotating first if p would overflow it.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}

	if w.size > 0 && w.size+int64(len(p)) > w.cfg.MaxSize {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating log file: %w", err)
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("writing to log file: %w", err)
	}
	return n, nil
}

// Close closes the log file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	return err
}

// Path returns the active log file path.
func (w *RotatingWriter) Path() string {
	return w.path
}

func (w *RotatingWriter) openFile() error {
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		if closeErr := file.Close(); closeErr != nil {
			return fmt.Errorf("stat failed: %w; close failed: %w", err, closeErr)
		}
		return fmt.Errorf("stat log file: %w", err)
	}

	w.file = file
	w.size = info.Size()
	return nil
}

func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing current file: %w", err)
	}
	w.file = nil

	// Nanosecond suffix keeps names unique when rotating quickly.
	timestamp := time.Now().Format("2006-01-02-150405.000000000")
	ext := filepath.Ext(w.path)
	base := strings.TrimSuffix(w.path, ext)
	rotatedPath := fmt.Sprintf("%s.%s%s", base, timestamp, ext)

	if err := os.Rename(w.path, rotatedPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("renaming log file: %w", err)
	}

	if err := w.openFile(); err != nil {
		return err
	}

	w.cleanup()
	return nil
}

// cleanup removes rotated files beyond MaxBackups, oldest first.
func (w *RotatingWriter) cleanup() {
	if w.cfg.MaxBackups <= 0 {
		return
	}

	rotated := w.rotatedFiles()
	sort.Slice(rotated, func(i, j int) bool {
		return rotated[i].modTime.After(rotated[j].modTime)
	})

	for i := w.cfg.MaxBackups; i < len(rotated); i++ {
		_ = os.Remove(rotated[i].path)
	}
}

type rotatedFile struct {
	path    string
	modTime time.Time
}

func (w *RotatingWriter) rotatedFiles() []rotatedFile {
	dir := filepath.Dir(w.path)
	base := filepath.Base(w.path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []rotatedFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == base {
			continue
		}
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, rotatedFile{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}
	return files
}
