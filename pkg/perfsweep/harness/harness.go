package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/logging"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/perfect"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/pool"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/workload"
)

var logger = logging.Get("harness")

// Harness runs the sweep. Cases run strictly one after another.
type Harness struct {
	opts   Options
	runner *workload.Runner
}

// New creates a Harness, validating opts.
func New(opts Options) (*Harness, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Harness{
		opts:   opts,
		runner: workload.New(opts.Files),
	}, nil
}

// Options returns the effective options.
func (h *Harness) Options() Options {
	return h.opts
}

// Run executes every case in sweep order. The context is checked between
// phases; a running phase is never interrupted. On cancellation the cases
// completed so far are returned together with the context error. The
// target directory is always cleaned up.
func (h *Harness) Run(ctx context.Context) (*Table, error) {
	table := &Table{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Cases:   make([]Case, 0, len(h.opts.Sweep)),
	}
	log := logger.With("run", table.RunID)
	log.Info("benchmark started", "sweep", h.opts.Sweep.String(),
		"lower", h.opts.LowerBound, "upper", h.opts.UpperBound, "files", h.opts.Files.Files)

	if !h.opts.SkipFiles {
		if err := h.runner.Prepare(); err != nil {
			return nil, fmt.Errorf("failed to prepare %s: %w", h.opts.Files.Dir, err)
		}
		defer h.runner.Cleanup()
	}

	for i, threads := range h.opts.Sweep {
		c := Case{Number: i + 1, Threads: threads}

		if !h.opts.SkipCPU {
			if err := ctx.Err(); err != nil {
				return h.interrupted(table, err)
			}
			h.runCPU(&c)
		}

		if !h.opts.SkipFiles {
			for _, phase := range []workload.Phase{workload.PhaseWrite, workload.PhaseRead, workload.PhaseDelete} {
				if err := ctx.Err(); err != nil {
					return h.interrupted(table, err)
				}
				if !h.runFilePhase(&c, phase) {
					// Later phases would only measure the leftovers of the
					// abandoned one.
					log.Warn("skipping remaining file phases", "case", c.Number, "after", phase)
					if err := h.runner.Prepare(); err != nil {
						log.Warn("cannot reset target directory", "dir", h.opts.Files.Dir, "err", err)
					}
					break
				}
			}
		}

		table.Cases = append(table.Cases, c)
		log.Debug("case finished", "case", c.Number, "threads", threads, "failures", len(c.Failures))
	}

	table.finish()
	log.Info("benchmark finished", "cases", len(table.Cases), "total", table.Total())
	return table, nil
}

func (h *Harness) interrupted(table *Table, err error) (*Table, error) {
	table.finish()
	logger.Warn("benchmark interrupted", "run", table.RunID, "completed", len(table.Cases))
	return table, fmt.Errorf("benchmark interrupted after %d cases: %w", len(table.Cases), err)
}

// checker returns the CPU strategy for a thread count. A single thread
// checks candidates on the calling goroutine; otherwise partitions go to
// a pool of threads workers, which the caller must shut down.
func (h *Harness) checker(threads int) (perfect.Checker, *pool.Pool, Strategy) {
	if threads == 1 {
		return perfect.Sequential{}, nil, StrategySequential
	}
	p := pool.New(threads)
	return perfect.NewParallel(p, h.opts.Range), p, StrategyParallel
}

// runCPU runs the CPU test of a case. The scan is bounded by the phase
// timeout but not by the run context: a started phase always completes or
// times out.
func (h *Harness) runCPU(c *Case) {
	h.emit(types.Progress{Case: c.Number, Threads: c.Threads, Phase: types.PhaseCPU})

	checker, p, strategy := h.checker(c.Threads)
	c.Strategy = strategy

	ctx, cancel := context.WithTimeout(context.Background(), h.opts.Files.Timeout)
	defer cancel()

	res := perfect.CountRange(ctx, h.opts.LowerBound, h.opts.UpperBound, checker)
	c.CPU = res.Elapsed
	c.Perfect = res.Perfect

	err := res.Err
	if p != nil {
		if err == nil {
			err = p.ShutdownAndWait(h.opts.Files.Timeout)
		}
		if err != nil {
			p.Abandon()
		}
	}
	if err != nil {
		c.Failures = append(c.Failures, timeoutFailure(types.PhaseCPU, err))
		logger.Error("cpu phase abandoned",
			"case", c.Number, "threads", c.Threads, "checked", res.Checked, "err", err)
	}

	h.emit(types.Progress{Case: c.Number, Threads: c.Threads, Phase: types.PhaseCPU, Finished: true, Elapsed: c.CPU})
}

// runFilePhase runs one file phase of a case and reports whether it
// finished within the phase timeout.
func (h *Harness) runFilePhase(c *Case, phase workload.Phase) bool {
	name := string(phase)
	h.emit(types.Progress{Case: c.Number, Threads: c.Threads, Phase: name})

	var res workload.PhaseResult
	switch phase {
	case workload.PhaseWrite:
		res = h.runner.Write(c.Threads)
		c.Write = res.Elapsed
	case workload.PhaseRead:
		res = h.runner.Read(c.Threads)
		c.Read = res.Elapsed
	case workload.PhaseDelete:
		res = h.runner.Delete(c.Threads)
		c.Delete = res.Elapsed
	}

	for _, f := range res.Failures {
		c.Failures = append(c.Failures, Failure{Phase: name, Index: f.Index, Path: f.Path, Err: f.Err})
	}
	if res.Err != nil {
		c.Failures = append(c.Failures, timeoutFailure(name, res.Err))
	}

	h.emit(types.Progress{Case: c.Number, Threads: c.Threads, Phase: name, Finished: true, Elapsed: res.Elapsed})
	return res.Err == nil
}

func timeoutFailure(phase string, err error) Failure {
	return Failure{
		Phase:   phase,
		Err:     fmt.Errorf("%w: %w", ErrPhaseTimeout, err).Error(),
		Timeout: true,
	}
}

func (h *Harness) emit(p types.Progress) {
	if h.opts.OnProgress == nil {
		return
	}
	p.Cases = len(h.opts.Sweep)
	h.opts.OnProgress(p)
}
