// Package harness runs the thread-count sweep: for every thread count it
// times the perfect-number CPU scan and the write, read and delete file
// phases, and collects one Case per thread count into a Table.
package harness

import (
	"fmt"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/perfect"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/workload"
)

// Default CPU scan interval. It contains the perfect number 33550336.
const (
	DefaultLowerBound int64 = 33_550_300
	DefaultUpperBound int64 = 33_550_400
	DefaultThreads          = 10
)

// Options configures a benchmark run.
type Options struct {
	// Sweep is the ordered list of thread counts. Empty means
	// 1..DefaultThreads.
	Sweep types.Sweep

	// LowerBound and UpperBound delimit the candidates checked by the CPU
	// phase, both inclusive.
	LowerBound int64
	UpperBound int64

	// Range is the partition width used by the parallel CPU strategy.
	Range int64

	// Files configures the file phases. Files.Timeout also bounds the wait
	// for each CPU pool to terminate.
	Files workload.Options

	// SkipCPU and SkipFiles disable the corresponding phases.
	SkipCPU   bool
	SkipFiles bool

	// OnProgress is called at every phase boundary, from the goroutine
	// calling Run.
	OnProgress func(types.Progress)
}

// DefaultOptions returns the standard benchmark configuration.
func DefaultOptions() Options {
	sweep, _ := types.Range(1, DefaultThreads)
	return Options{
		Sweep:      sweep,
		LowerBound: DefaultLowerBound,
		UpperBound: DefaultUpperBound,
		Range:      perfect.DefaultRange,
		Files:      workload.DefaultOptions(),
	}
}

// Validate applies defaults and rejects configurations that cannot run.
func (o *Options) Validate() error {
	if len(o.Sweep) == 0 {
		o.Sweep, _ = types.Range(1, DefaultThreads)
	}
	if err := o.Sweep.Validate(); err != nil {
		return err
	}
	if o.LowerBound == 0 && o.UpperBound == 0 {
		o.LowerBound, o.UpperBound = DefaultLowerBound, DefaultUpperBound
	}
	if o.LowerBound < 1 {
		return fmt.Errorf("lower bound must be at least one, got %d", o.LowerBound)
	}
	if o.UpperBound < o.LowerBound {
		return fmt.Errorf("upper bound %d is below lower bound %d", o.UpperBound, o.LowerBound)
	}
	if o.Range < 1 {
		o.Range = perfect.DefaultRange
	}
	o.Files.SetDefaults()
	return nil
}
