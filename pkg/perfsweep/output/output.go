// Package output provides formatters for benchmark reports in various
// formats (pretty, plain, json, yaml, tsv, csv, markdown).
//
// Formatters are registered by name and selected at runtime:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    return err
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/harness"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/host"
)

// Row is one case of the report.
type Row struct {
	Case     int
	Threads  int
	Strategy string
	Total    time.Duration
	CPU      time.Duration
	Write    time.Duration
	Read     time.Duration
	Delete   time.Duration
	Perfect  []int64
	Failures []harness.Failure

	// MatchesCPUs is set when the thread count equals the number of
	// logical CPUs of the host.
	MatchesCPUs bool

	// TimedOut is set when a phase of the case was abandoned.
	TimedOut bool
}

// Report contains everything a formatter renders.
type Report struct {
	RunID   string
	Started time.Time
	Host    host.Info

	Sweep      string
	LowerBound int64
	UpperBound int64
	Files      int
	FileSize   int64
	BufferSize int
	Dir        string

	Rows []Row

	// Total is the sum of the case totals.
	Total time.Duration

	// Elapsed is the wall time of the run including setup and cleanup.
	Elapsed time.Duration

	// Interrupted indicates the run was cancelled before every case ran.
	Interrupted bool

	Warnings []string
}

// NewReport builds a Report from a finished table.
func NewReport(t *harness.Table, opts harness.Options, info host.Info) *Report {
	r := &Report{
		RunID:      t.RunID,
		Started:    t.Started,
		Host:       info,
		Sweep:      opts.Sweep.String(),
		LowerBound: opts.LowerBound,
		UpperBound: opts.UpperBound,
		Files:      opts.Files.Files,
		FileSize:   opts.Files.BytesPerFile(),
		BufferSize: opts.Files.BufferSize,
		Dir:        opts.Files.Dir,
		Rows:       make([]Row, 0, len(t.Cases)),
		Total:      t.Total(),
		Elapsed:    t.Elapsed,
	}
	if opts.SkipFiles {
		r.Files = 0
	}

	for _, c := range t.Cases {
		r.Rows = append(r.Rows, Row{
			Case:        c.Number,
			Threads:     c.Threads,
			Strategy:    string(c.Strategy),
			Total:       c.Total,
			CPU:         c.CPU,
			Write:       c.Write,
			Read:        c.Read,
			Delete:      c.Delete,
			Perfect:     c.Perfect,
			Failures:    c.Failures,
			MatchesCPUs: c.Threads == info.CPUs,
			TimedOut:    c.TimedOut(),
		})
	}
	return r
}

// Failures returns the number of failures across all rows.
func (r *Report) Failures() int {
	n := 0
	for _, row := range r.Rows {
		n += len(row.Failures)
	}
	return n
}

// marker returns the one-character flag shown before a row: "!" when a
// phase timed out, "*" when the thread count equals the CPU count.
func (row Row) marker() string {
	switch {
	case row.TimedOut:
		return "!"
	case row.MatchesCPUs:
		return "*"
	default:
		return ""
	}
}

// seconds formats d in seconds with millisecond precision.
func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted report to the buffer.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
