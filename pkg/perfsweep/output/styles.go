package output

import "github.com/charmbracelet/lipgloss"

// Color constants using ANSI 256-color palette.
const (
	// ColorPrimary is used for headers and totals (bright blue).
	ColorPrimary = lipgloss.Color("39")

	// ColorSuccess marks the row whose thread count matches the CPUs (green).
	ColorSuccess = lipgloss.Color("42")

	// ColorWarning is used for failure listings (orange/yellow).
	ColorWarning = lipgloss.Color("214")

	// ColorDanger is used for timed-out cases (red).
	ColorDanger = lipgloss.Color("196")

	// ColorMuted is used for secondary text (gray).
	ColorMuted = lipgloss.Color("245")
)

// Box styles.
var (
	// HeaderBox contains the host and workload description.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// FooterBox contains the run summary.
	FooterBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			MarginTop(1)
)

// Text styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// TotalStyle is used for the total column and the total test time.
	TotalStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

// TableHeaderStyle is used for table column headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorMuted)
