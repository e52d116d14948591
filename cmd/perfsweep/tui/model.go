package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/harness"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
)

// ProgressMsg is sent at every phase boundary.
type ProgressMsg types.Progress

// DoneMsg is sent when the harness returns.
type DoneMsg struct {
	Table *harness.Table
	Err   error
}

// caseLine is a finished case shown below the progress bar.
type caseLine struct {
	number  int
	threads int
	total   time.Duration
}

// Model is the Bubble Tea model for a running benchmark.
type Model struct {
	spinner   spinner.Model
	cancel    context.CancelFunc
	startTime time.Time
	width     int

	cases         int
	phasesPerCase int
	phasesDone    int

	current  types.Progress
	running  bool
	caseSum  time.Duration
	finished []caseLine

	stopping bool
	done     bool
	table    *harness.Table
	err      error
}

// NewModel creates a model for a sweep of cases cases, each running
// phasesPerCase phases. cancel is called when the user asks to stop.
func NewModel(cases, phasesPerCase int, cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		spinner:       s,
		cancel:        cancel,
		startTime:     time.Now(),
		width:         80,
		cases:         cases,
		phasesPerCase: max(phasesPerCase, 1),
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.stopping && m.cancel != nil {
				m.cancel()
			}
			m.stopping = true
		}
		return m, nil

	case ProgressMsg:
		m.apply(types.Progress(msg))
		return m, nil

	case DoneMsg:
		m.done = true
		m.table = msg.Table
		m.err = msg.Err
		if msg.Err == nil {
			m.finishCase()
			m.phasesDone = m.cases * m.phasesPerCase
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// apply records a phase boundary. A case counts as finished once the next
// one starts, since a timed-out phase can end a case early.
func (m *Model) apply(p types.Progress) {
	if p.Cases > 0 {
		m.cases = p.Cases
	}
	if p.Case != m.current.Case {
		m.finishCase()
		m.caseSum = 0
		m.phasesDone = (p.Case - 1) * m.phasesPerCase
	}
	m.current = p
	m.running = !p.Finished
	if !p.Finished {
		return
	}

	m.phasesDone++
	m.caseSum += p.Elapsed
}

// finishCase adds the current case to the finished list.
func (m *Model) finishCase() {
	if m.current.Case == 0 {
		return
	}
	if n := len(m.finished); n > 0 && m.finished[n-1].number == m.current.Case {
		return
	}
	m.finished = append(m.finished, caseLine{number: m.current.Case, threads: m.current.Threads, total: m.caseSum})
}

// Fraction returns the share of phases completed, between 0 and 1.
func (m Model) Fraction() float64 {
	total := m.cases * m.phasesPerCase
	if total == 0 {
		return 0
	}
	return min(float64(m.phasesDone)/float64(total), 1)
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder
	width := max(m.width-2, 40)

	title := titleStyle.Render("perfsweep")
	hint := mutedTextStyle.Render("[Ctrl+C to stop]")
	spacing := max(width-lipgloss.Width(title)-lipgloss.Width(hint), 1)
	b.WriteString(title + strings.Repeat(" ", spacing) + hint + "\n")
	b.WriteString(renderDivider(width) + "\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(errorTextStyle.Render("Stopped: "+m.err.Error()) + "\n")
	case m.done:
		b.WriteString(successTextStyle.Render("Benchmark complete") + "\n")
	case m.stopping:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(),
			warningTextStyle.Render("Stopping after the current phase...")))
	case m.current.Case == 0:
		b.WriteString(fmt.Sprintf("%s Preparing...\n", m.spinner.View()))
	default:
		b.WriteString(fmt.Sprintf("%s Case %d/%d  %s  %s\n",
			m.spinner.View(), m.current.Case, m.cases,
			threadsLabel(m.current.Threads), phaseStyle.Render(phaseLabel(m.current.Phase))))
	}

	b.WriteString(renderProgressBar(m.Fraction(), width))
	b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  %3.0f%%  %s", m.Fraction()*100, formatElapsed(time.Since(m.startTime)))))
	b.WriteString("\n")

	for _, c := range m.finished {
		b.WriteString(fmt.Sprintf("  %s case %-3d %-12s %9.3f s\n",
			successTextStyle.Render("✓"), c.number, threadsLabel(c.threads), c.total.Seconds()))
	}

	return b.String()
}

// Table returns the result received with DoneMsg.
func (m Model) Table() (*harness.Table, error) {
	return m.table, m.err
}

func renderProgressBar(fraction float64, width int) string {
	barWidth := max(width-14, 10)
	filled := int(fraction * float64(barWidth))

	var bar strings.Builder
	for i := range barWidth {
		if i < filled {
			bar.WriteString(progressFillStyle.Render("█"))
		} else {
			bar.WriteString(progressEmptyStyle.Render("░"))
		}
	}
	return bar.String()
}

func threadsLabel(n int) string {
	if n == 1 {
		return "1 thread"
	}
	return fmt.Sprintf("%d threads", n)
}

func phaseLabel(phase string) string {
	switch phase {
	case types.PhaseCPU:
		return "CPU test"
	case types.PhaseWrite:
		return "file write"
	case types.PhaseRead:
		return "file read"
	case types.PhaseDelete:
		return "file delete"
	default:
		return phase
	}
}

// formatElapsed formats a duration as M:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
