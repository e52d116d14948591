package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/harness"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/logging"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
)

var logger = logging.Get("tui")

// PhasesPerCase returns the number of progress phases a case of opts runs.
func PhasesPerCase(opts harness.Options) int {
	n := 0
	if !opts.SkipCPU {
		n++
	}
	if !opts.SkipFiles {
		n += 3
	}
	return n
}

// Run executes the benchmark described by opts while showing live progress.
// It returns once the harness has finished and cleaned up.
func Run(ctx context.Context, opts harness.Options) (*harness.Table, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Stopping from the keyboard cancels only the run; the display stays up
	// until the harness reports back.
	model := NewModel(len(opts.Sweep), PhasesPerCase(opts), cancel)
	program := tea.NewProgram(model, tea.WithContext(ctx))

	opts.OnProgress = func(p types.Progress) {
		program.Send(ProgressMsg(p))
	}

	h, err := harness.New(opts)
	if err != nil {
		return nil, err
	}

	result := make(chan DoneMsg, 1)
	go func() {
		table, err := h.Run(runCtx)
		msg := DoneMsg{Table: table, Err: err}
		result <- msg
		program.Send(msg)
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Warn("progress display failed", "err", err)
	}

	// The harness always finishes its current phase and cleans up before
	// returning, even when the display was torn down.
	cancel()
	msg := <-result
	if msg.Err != nil && msg.Table == nil {
		return nil, fmt.Errorf("benchmark failed: %w", msg.Err)
	}
	return msg.Table, msg.Err
}
