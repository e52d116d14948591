// Package perfect implements the CPU workload: deciding whether a number is
// perfect by summing its divisors, either in one pass or split into
// fixed-width partitions spread over a worker pool.
package perfect

// DefaultRange is the default partition width.
const DefaultRange int64 = 1_000_000

// Partition is the closed interval [Lower, Upper] of divisor candidates
// scanned by one unit of work.
type Partition struct {
	Lower int64
	Upper int64
}

// Width returns the number of integers in the partition.
func (p Partition) Width() int64 {
	return p.Upper - p.Lower + 1
}

// Partitions splits [1, candidate] into ceil(candidate/width) contiguous,
// non-overlapping partitions of at most width integers. The last partition
// may be narrower. A width below one is treated as one; a candidate below one
// yields no partitions.
func Partitions(candidate, width int64) []Partition {
	if candidate < 1 {
		return nil
	}
	if width < 1 {
		width = 1
	}

	n := (candidate + width - 1) / width
	parts := make([]Partition, 0, n)
	for i := int64(0); i < n; i++ {
		lower := i*width + 1
		upper := min((i+1)*width, candidate)
		parts = append(parts, Partition{Lower: lower, Upper: upper})
	}
	return parts
}

// DivisorSum returns the sum of every i in [lower, upper] that divides
// candidate. The candidate itself is included when it lies in the range, so
// summing over [1, candidate] gives the full divisor sum and a perfect number
// satisfies 2*candidate == DivisorSum(1, candidate, candidate).
func DivisorSum(lower, upper, candidate int64) int64 {
	if lower < 1 {
		lower = 1
	}

	var sum int64
	for i := lower; i <= upper; i++ {
		if candidate%i == 0 {
			sum += i
		}
	}
	return sum
}
