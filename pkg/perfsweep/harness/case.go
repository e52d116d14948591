package harness

import (
	"errors"
	"time"
)

// ErrPhaseTimeout marks a phase whose pool did not drain in time.
var ErrPhaseTimeout = errors.New("phase timed out")

// Strategy names the CPU checker used by a case.
type Strategy string

// CPU strategies.
const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
)

// Failure is a problem recorded against a case. Failures never stop a run.
type Failure struct {
	Phase string `json:"phase" yaml:"phase"`
	Index int64  `json:"index,omitempty" yaml:"index,omitempty"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Err   string `json:"error" yaml:"error"`

	// Timeout is set when the whole phase was abandoned.
	Timeout bool `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Case holds the measurements for one thread count.
type Case struct {
	Number   int           `json:"case" yaml:"case"`
	Threads  int           `json:"threads" yaml:"threads"`
	Strategy Strategy      `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	CPU      time.Duration `json:"cpu" yaml:"cpu"`
	Write    time.Duration `json:"write" yaml:"write"`
	Read     time.Duration `json:"read" yaml:"read"`
	Delete   time.Duration `json:"delete" yaml:"delete"`
	Total    time.Duration `json:"total" yaml:"total"`

	// Perfect lists the perfect numbers found by the CPU phase.
	Perfect []int64 `json:"perfect,omitempty" yaml:"perfect,omitempty"`

	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// TimedOut reports whether any phase of the case was abandoned.
func (c Case) TimedOut() bool {
	for _, f := range c.Failures {
		if f.Timeout {
			return true
		}
	}
	return false
}

// Table is the result of a run: one Case per sweep element, in sweep order.
type Table struct {
	RunID   string        `json:"run_id" yaml:"run_id"`
	Started time.Time     `json:"started" yaml:"started"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
	Cases   []Case        `json:"cases" yaml:"cases"`
}

// Total returns the sum of every case total.
func (t *Table) Total() time.Duration {
	var total time.Duration
	for _, c := range t.Cases {
		total += c.Total
	}
	return total
}

// Failures returns the number of failures across all cases.
func (t *Table) Failures() int {
	n := 0
	for _, c := range t.Cases {
		n += len(c.Failures)
	}
	return n
}

// finish computes the derived totals once every case has run.
func (t *Table) finish() {
	for i := range t.Cases {
		c := &t.Cases[i]
		c.Total = c.CPU + c.Write + c.Read + c.Delete
	}
	t.Elapsed = time.Since(t.Started)
}
