package perfect

import (
	"context"
	"time"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/logging"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/pool"
)

var logger = logging.Get("cpu")

// Checker decides whether a candidate is a perfect number.
type Checker interface {
	IsPerfect(candidate int64) bool
}

// ContextChecker is a Checker whose wait for a result can be cut short.
type ContextChecker interface {
	Checker
	IsPerfectContext(ctx context.Context, candidate int64) (bool, error)
}

// Sequential scans [1, candidate] on the calling goroutine.
type Sequential struct{}

// IsPerfect reports whether the divisor sum of candidate is twice candidate.
func (Sequential) IsPerfect(candidate int64) bool {
	return 2*candidate == DivisorSum(1, candidate, candidate)
}

// Parallel splits [1, candidate] into partitions and sums them on a pool.
type Parallel struct {
	pool  *pool.Pool
	width int64

	// partial computes one partition; DivisorSum outside of tests.
	partial func(lower, upper, candidate int64) int64
}

// NewParallel returns a checker that dispatches partitions of the given
// width to p. A non-positive width falls back to DefaultRange.
func NewParallel(p *pool.Pool, width int64) *Parallel {
	if width < 1 {
		width = DefaultRange
	}
	return &Parallel{pool: p, width: width, partial: DivisorSum}
}

var _ ContextChecker = (*Parallel)(nil)

// IsPerfect is IsPerfectContext without a deadline.
func (c *Parallel) IsPerfect(candidate int64) bool {
	ok, _ := c.IsPerfectContext(context.Background(), candidate)
	return ok
}

// IsPerfectContext submits one divisor-sum task per partition, waits for
// every partial sum and compares the total against twice candidate. A failed
// partition is logged and contributes zero. When ctx ends first the wait is
// given up and ctx.Err() is returned; partitions still queued are left to
// the pool's owner.
func (c *Parallel) IsPerfectContext(ctx context.Context, candidate int64) (bool, error) {
	parts := Partitions(candidate, c.width)

	futures := make([]*pool.Future[int64], 0, len(parts))
	for _, part := range parts {
		f, err := pool.Go(c.pool, func() (int64, error) {
			return c.partial(part.Lower, part.Upper, candidate), nil
		})
		if err != nil {
			logger.Error("partition not submitted",
				"candidate", candidate, "lower", part.Lower, "upper", part.Upper, "err", err)
			continue
		}
		futures = append(futures, f)
	}

	var sum int64
	for _, f := range futures {
		select {
		case <-f.Done():
		case <-ctx.Done():
			return false, ctx.Err()
		}

		partial, err := f.Get()
		if err != nil {
			logger.Error("partition failed", "candidate", candidate, "err", err)
			continue
		}
		sum += partial
	}

	return 2*candidate == sum, nil
}

// CountResult is the outcome of checking every candidate in a range.
type CountResult struct {
	Elapsed time.Duration
	Checked int64
	Perfect []int64

	// Err is set when ctx ended before the whole range was checked.
	Err error
}

// CountRange checks every candidate in [lower, upper] and times the scan.
// ctx is checked before each candidate and, for a ContextChecker, while
// waiting for partitions; the scan stops at the first expiry.
func CountRange(ctx context.Context, lower, upper int64, c Checker) CountResult {
	start := time.Now()
	cc, bounded := c.(ContextChecker)

	var res CountResult
	for n := lower; n <= upper; n++ {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}

		var perfect bool
		if bounded {
			ok, err := cc.IsPerfectContext(ctx, n)
			if err != nil {
				res.Err = err
				break
			}
			perfect = ok
		} else {
			perfect = c.IsPerfect(n)
		}

		res.Checked++
		if perfect {
			res.Perfect = append(res.Perfect, n)
			logger.Debug("perfect number found", "number", n)
		}
	}

	res.Elapsed = time.Since(start)
	if res.Err != nil {
		logger.Warn("scan stopped early", "checked", res.Checked, "err", res.Err)
	}
	return res
}
