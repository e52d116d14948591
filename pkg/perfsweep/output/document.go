package output

import (
	"time"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/harness"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/host"
)

// document is the structured form shared by the json and yaml formatters.
// Durations are reported in milliseconds.
type document struct {
	Meta  docMeta   `json:"meta" yaml:"meta"`
	Host  host.Info `json:"host" yaml:"host"`
	Cases []docCase `json:"cases" yaml:"cases"`
}

type docMeta struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Started     time.Time `json:"started" yaml:"started"`
	Sweep       string    `json:"sweep" yaml:"sweep"`
	LowerBound  int64     `json:"lower_bound,omitempty" yaml:"lower_bound,omitempty"`
	UpperBound  int64     `json:"upper_bound,omitempty" yaml:"upper_bound,omitempty"`
	Files       int       `json:"files,omitempty" yaml:"files,omitempty"`
	FileSize    int64     `json:"file_size,omitempty" yaml:"file_size,omitempty"`
	BufferSize  int       `json:"buffer_size,omitempty" yaml:"buffer_size,omitempty"`
	TotalMs     int64     `json:"total_ms" yaml:"total_ms"`
	ElapsedMs   int64     `json:"elapsed_ms" yaml:"elapsed_ms"`
	Failures    int       `json:"failures" yaml:"failures"`
	Interrupted bool      `json:"interrupted" yaml:"interrupted"`
	Warnings    []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type docCase struct {
	Case        int               `json:"case" yaml:"case"`
	Threads     int               `json:"threads" yaml:"threads"`
	Strategy    string            `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	TotalMs     int64             `json:"total_ms" yaml:"total_ms"`
	CPUMs       int64             `json:"cpu_ms" yaml:"cpu_ms"`
	WriteMs     int64             `json:"write_ms" yaml:"write_ms"`
	ReadMs      int64             `json:"read_ms" yaml:"read_ms"`
	DeleteMs    int64             `json:"delete_ms" yaml:"delete_ms"`
	Perfect     []int64           `json:"perfect,omitempty" yaml:"perfect,omitempty"`
	MatchesCPUs bool              `json:"matches_cpus" yaml:"matches_cpus"`
	TimedOut    bool              `json:"timed_out" yaml:"timed_out"`
	Failures    []harness.Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

func buildDocument(r *Report) document {
	cases := make([]docCase, len(r.Rows))
	for i, row := range r.Rows {
		cases[i] = docCase{
			Case:        row.Case,
			Threads:     row.Threads,
			Strategy:    row.Strategy,
			TotalMs:     row.Total.Milliseconds(),
			CPUMs:       row.CPU.Milliseconds(),
			WriteMs:     row.Write.Milliseconds(),
			ReadMs:      row.Read.Milliseconds(),
			DeleteMs:    row.Delete.Milliseconds(),
			Perfect:     row.Perfect,
			MatchesCPUs: row.MatchesCPUs,
			TimedOut:    row.TimedOut,
			Failures:    row.Failures,
		}
	}

	return document{
		Meta: docMeta{
			RunID:       r.RunID,
			Started:     r.Started,
			Sweep:       r.Sweep,
			LowerBound:  r.LowerBound,
			UpperBound:  r.UpperBound,
			Files:       r.Files,
			FileSize:    r.FileSize,
			BufferSize:  r.BufferSize,
			TotalMs:     r.Total.Milliseconds(),
			ElapsedMs:   r.Elapsed.Milliseconds(),
			Failures:    r.Failures(),
			Interrupted: r.Interrupted,
			Warnings:    r.Warnings,
		},
		Host:  r.Host,
		Cases: cases,
	}
}
