package types

import "time"

// Phase names reported in Progress.
const (
	PhaseCPU    = "cpu"
	PhaseWrite  = "write"
	PhaseRead   = "read"
	PhaseDelete = "delete"
)

// Progress reports a phase boundary during a benchmark run.
type Progress struct {
	// Case is the 1-based case number.
	Case int

	// Cases is the total number of cases in the sweep.
	Cases int

	// Threads is the thread count of the current case.
	Threads int

	// Phase is one of PhaseCPU, PhaseWrite, PhaseRead or PhaseDelete.
	Phase string

	// Finished is false when the phase starts and true when it ends.
	Finished bool

	// Elapsed is the phase duration. Only set when Finished is true.
	Elapsed time.Duration
}
