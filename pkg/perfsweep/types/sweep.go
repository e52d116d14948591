package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidSweep is returned when thread-count arguments cannot form a sweep.
var ErrInvalidSweep = errors.New("invalid thread sweep")

var (
	countPattern = regexp.MustCompile(`^\d+$`)
	rangePattern = regexp.MustCompile(`^(\d+)-(\d+)$`)
)

// MaxCases bounds the number of cases a single sweep may hold.
const MaxCases = 1024

// Sweep is the ordered sequence of thread counts exercised by a benchmark
// run. Each element yields exactly one case. Every value is at least one.
type Sweep []int

// Range returns the ascending sweep lower, lower+1, ..., upper.
func Range(lower, upper int) (Sweep, error) {
	if lower < 1 {
		return nil, fmt.Errorf("%w: number of threads must be at least one (1)", ErrInvalidSweep)
	}
	if upper < lower {
		return nil, fmt.Errorf("%w: upper bound must be greater than lower bound (lower:%d, upper:%d)",
			ErrInvalidSweep, lower, upper)
	}
	if upper-lower >= MaxCases {
		return nil, fmt.Errorf("%w: range %d-%d exceeds %d cases", ErrInvalidSweep, lower, upper, MaxCases)
	}

	s := make(Sweep, 0, upper-lower+1)
	for n := lower; n <= upper; n++ {
		s = append(s, n)
	}
	return s, nil
}

// ParseSweep builds a sweep from command-line arguments.
//
// Accepted forms:
//   - no arguments: 1..defaultThreads
//   - a single number N: one case with N threads
//   - a single range LOWER-UPPER: one case per count in the range
//   - several numbers: one case per number, in the given order
func ParseSweep(args []string, defaultThreads int) (Sweep, error) {
	if len(args) == 0 {
		return Range(1, defaultThreads)
	}

	if len(args) == 1 {
		arg := strings.TrimSpace(args[0])
		if countPattern.MatchString(arg) {
			n, err := parseCount(arg)
			if err != nil {
				return nil, err
			}
			return Sweep{n}, nil
		}
		if m := rangePattern.FindStringSubmatch(arg); m != nil {
			lower, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidSweep, arg)
			}
			upper, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidSweep, arg)
			}
			return Range(lower, upper)
		}
		return nil, fmt.Errorf("%w: the argument must be either a number of threads or a range of a number of threads", ErrInvalidSweep)
	}

	if len(args) > MaxCases {
		return nil, fmt.Errorf("%w: %d thread counts exceeds %d cases", ErrInvalidSweep, len(args), MaxCases)
	}
	s := make(Sweep, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if !countPattern.MatchString(arg) {
			return nil, fmt.Errorf("%w: an argument must be a number, got %q", ErrInvalidSweep, arg)
		}
		n, err := parseCount(arg)
		if err != nil {
			return nil, err
		}
		s = append(s, n)
	}
	return s, nil
}

// Validate reports whether the sweep is non-empty and every count is positive.
func (s Sweep) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no thread counts", ErrInvalidSweep)
	}
	if len(s) > MaxCases {
		return fmt.Errorf("%w: %d cases exceeds %d", ErrInvalidSweep, len(s), MaxCases)
	}
	for i, n := range s {
		if n < 1 {
			return fmt.Errorf("%w: case %d has %d threads, must be at least one (1)", ErrInvalidSweep, i+1, n)
		}
	}
	return nil
}

// String renders the sweep as a comma-separated list.
func (s Sweep) String() string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func parseCount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSweep, arg)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: number of threads must be at least one (1)", ErrInvalidSweep)
	}
	return n, nil
}
