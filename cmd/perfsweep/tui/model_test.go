package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/harness"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func TestNewModel(t *testing.T) {
	m := NewModel(3, 4, nil)

	if m.cases != 3 {
		t.Errorf("expected 3 cases, got %d", m.cases)
	}
	if m.phasesPerCase != 4 {
		t.Errorf("expected 4 phases per case, got %d", m.phasesPerCase)
	}
	if m.done || m.stopping {
		t.Error("expected a fresh model to be running")
	}
	if m.Fraction() != 0 {
		t.Errorf("expected fraction 0, got %f", m.Fraction())
	}

	if NewModel(1, 0, nil).phasesPerCase != 1 {
		t.Error("expected phases per case to be at least one")
	}
}

func TestModelTracksPhases(t *testing.T) {
	m := NewModel(2, 2, nil)

	steps := []types.Progress{
		{Case: 1, Cases: 2, Threads: 1, Phase: types.PhaseCPU},
		{Case: 1, Cases: 2, Threads: 1, Phase: types.PhaseCPU, Finished: true, Elapsed: time.Second},
		{Case: 1, Cases: 2, Threads: 1, Phase: types.PhaseWrite},
		{Case: 1, Cases: 2, Threads: 1, Phase: types.PhaseWrite, Finished: true, Elapsed: 500 * time.Millisecond},
		{Case: 2, Cases: 2, Threads: 2, Phase: types.PhaseCPU},
	}
	for _, p := range steps {
		m, _ = update(t, m, ProgressMsg(p))
	}

	if m.phasesDone != 2 {
		t.Errorf("expected 2 phases done, got %d", m.phasesDone)
	}
	if got := m.Fraction(); got != 0.5 {
		t.Errorf("expected fraction 0.5, got %f", got)
	}
	if len(m.finished) != 1 {
		t.Fatalf("expected 1 finished case, got %d", len(m.finished))
	}
	if m.finished[0].total != 1500*time.Millisecond {
		t.Errorf("expected case total 1.5s, got %v", m.finished[0].total)
	}
	if !m.running || m.current.Case != 2 {
		t.Errorf("expected case 2 running, got %+v", m.current)
	}

	view := m.View()
	if !strings.Contains(view, "Case 2/2") {
		t.Errorf("view missing current case:\n%s", view)
	}
	if !strings.Contains(view, "CPU test") {
		t.Errorf("view missing phase label:\n%s", view)
	}
	if !strings.Contains(view, "1.500 s") {
		t.Errorf("view missing finished case total:\n%s", view)
	}
}

func TestModelStopKeyCancels(t *testing.T) {
	calls := 0
	m := NewModel(1, 4, func() { calls++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd != nil {
		t.Error("stopping must not quit before the harness returns")
	}
	if !m.stopping {
		t.Error("expected stopping to be set")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	if calls != 1 {
		t.Errorf("expected cancel to be called once, got %d", calls)
	}
	if !strings.Contains(m.View(), "Stopping") {
		t.Error("expected stopping notice in view")
	}
}

func TestModelDone(t *testing.T) {
	m := NewModel(1, 1, nil)
	table := &harness.Table{RunID: "run"}

	m, cmd := update(t, m, DoneMsg{Table: table})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}

	got, err := m.Table()
	if got != table || err != nil {
		t.Errorf("Table() = %v, %v", got, err)
	}
	if !strings.Contains(m.View(), "Benchmark complete") {
		t.Error("expected completion notice")
	}

	m = NewModel(1, 1, nil)
	m, _ = update(t, m, DoneMsg{Err: errors.New("interrupted")})
	if !strings.Contains(m.View(), "Stopped: interrupted") {
		t.Errorf("expected stop notice, got:\n%s", m.View())
	}
}

func TestPhasesPerCase(t *testing.T) {
	tests := []struct {
		name string
		opts harness.Options
		want int
	}{
		{"all phases", harness.Options{}, 4},
		{"cpu only", harness.Options{SkipFiles: true}, 1},
		{"files only", harness.Options{SkipCPU: true}, 3},
		{"nothing", harness.Options{SkipCPU: true, SkipFiles: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhasesPerCase(tt.opts); got != tt.want {
				t.Errorf("PhasesPerCase() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(83 * time.Second); got != "1:23" {
		t.Errorf("formatElapsed(83s) = %q, want 1:23", got)
	}
	if got := threadsLabel(1); got != "1 thread" {
		t.Errorf("threadsLabel(1) = %q", got)
	}
	if got := threadsLabel(4); got != "4 threads" {
		t.Errorf("threadsLabel(4) = %q", got)
	}
}

func TestModelCaseEndedEarly(t *testing.T) {
	m := NewModel(2, 4, nil)

	// Case 1 stops after its write phase timed out.
	steps := []types.Progress{
		{Case: 1, Cases: 2, Threads: 1, Phase: types.PhaseCPU},
		{Case: 1, Cases: 2, Threads: 1, Phase: types.PhaseCPU, Finished: true, Elapsed: time.Second},
		{Case: 1, Cases: 2, Threads: 1, Phase: types.PhaseWrite},
		{Case: 1, Cases: 2, Threads: 1, Phase: types.PhaseWrite, Finished: true, Elapsed: time.Second},
		{Case: 2, Cases: 2, Threads: 2, Phase: types.PhaseCPU},
	}
	for _, p := range steps {
		m, _ = update(t, m, ProgressMsg(p))
	}

	if got := m.Fraction(); got != 0.5 {
		t.Errorf("expected fraction 0.5, got %f", got)
	}
	if len(m.finished) != 1 || m.finished[0].total != 2*time.Second {
		t.Fatalf("expected case 1 finished with 2s, got %+v", m.finished)
	}

	m, _ = update(t, m, ProgressMsg{Case: 2, Cases: 2, Threads: 2, Phase: types.PhaseCPU, Finished: true, Elapsed: time.Second})
	m, _ = update(t, m, DoneMsg{Table: &harness.Table{}})

	if len(m.finished) != 2 || m.finished[1].number != 2 {
		t.Errorf("expected case 2 finished on completion, got %+v", m.finished)
	}
	if got := m.Fraction(); got != 1 {
		t.Errorf("expected fraction 1 on completion, got %f", got)
	}
}
