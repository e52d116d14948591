package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/harness"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/host"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/workload"
)

func sampleReport() *Report {
	return &Report{
		RunID:      "8c1b6f1e-0000-4000-8000-000000000001",
		Started:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Host:       host.Info{OS: "linux", Kernel: "6.1.0", Arch: "amd64", CPUs: 4, TotalRAM: 16 << 30, GoVersion: "go1.25.5"},
		Sweep:      "4,8",
		LowerBound: 33_550_300,
		UpperBound: 33_550_400,
		Files:      200,
		FileSize:   9_994_240,
		BufferSize: 8192,
		Dir:        "__target__",
		Rows: []Row{
			{
				Case: 1, Threads: 4, Strategy: "parallel",
				Total: 1500 * time.Millisecond, CPU: 500 * time.Millisecond,
				Write: 400 * time.Millisecond, Read: 300 * time.Millisecond, Delete: 300 * time.Millisecond,
				Perfect:     []int64{33550336},
				MatchesCPUs: true,
			},
			{
				Case: 2, Threads: 8, Strategy: "parallel",
				Total: 2250 * time.Millisecond, CPU: 250 * time.Millisecond,
				Write: time.Second, Read: 500 * time.Millisecond, Delete: 500 * time.Millisecond,
				Failures: []harness.Failure{
					{Phase: "read", Index: 7, Path: "__target__/text-007.txt", Err: "no such file or directory"},
				},
			},
		},
		Total:   3750 * time.Millisecond,
		Elapsed: 4 * time.Second,
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("b", func() Formatter { return &PlainFormatter{} })
	r.Register("a", func() Formatter { return &JSONFormatter{} })

	assert.Equal(t, []string{"a", "b"}, r.Available())

	f, err := r.Get("a")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	_, err = r.Get("missing")
	assert.ErrorContains(t, err, "unknown formatter")
}

func TestDefaultRegistry_HasAllFormats(t *testing.T) {
	assert.Equal(t,
		[]string{"csv", "json", "markdown", "plain", "pretty", "template", "tsv", "yaml"},
		Available())

	for _, name := range Available() {
		f, err := Get(name)
		require.NoError(t, err, name)

		var buf bytes.Buffer
		require.NoError(t, f.Format(&buf, sampleReport()), name)
		assert.NotEmpty(t, buf.String(), name)

		buf.Reset()
		require.NoError(t, f.Format(&buf, &Report{}), "%s with empty report", name)
	}
}

func TestNewReport(t *testing.T) {
	opts := harness.Options{
		Sweep:      types.Sweep{1, 4},
		LowerBound: 1,
		UpperBound: 30,
		Files: workload.Options{
			Dir: "bench", Files: 10, TotalBytes: 10 * 10_000, BufferSize: 4096,
		},
	}
	table := &harness.Table{
		RunID: "run",
		Cases: []harness.Case{
			{Number: 1, Threads: 1, Strategy: harness.StrategySequential, CPU: time.Second, Total: time.Second},
			{Number: 2, Threads: 4, Strategy: harness.StrategyParallel, CPU: 2 * time.Second, Total: 2 * time.Second,
				Failures: []harness.Failure{{Phase: "write", Err: "phase timed out", Timeout: true}}},
		},
	}

	r := NewReport(table, opts, host.Info{CPUs: 4})

	assert.Equal(t, "run", r.RunID)
	assert.Equal(t, "1,4", r.Sweep)
	assert.Equal(t, int64(2*4096), r.FileSize)
	assert.Equal(t, 3*time.Second, r.Total)
	require.Len(t, r.Rows, 2)

	assert.False(t, r.Rows[0].MatchesCPUs)
	assert.Equal(t, "", r.Rows[0].marker())
	assert.True(t, r.Rows[1].MatchesCPUs)
	assert.True(t, r.Rows[1].TimedOut)
	assert.Equal(t, "!", r.Rows[1].marker(), "timeout wins over the core marker")
	assert.Equal(t, 1, r.Failures())

	opts.SkipFiles = true
	assert.Zero(t, NewReport(table, opts, host.Info{}).Files)
}
