// Package tui renders live benchmark progress with Bubble Tea, Lip Gloss and
// Bubbles while the harness runs.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the TUI.
var (
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#00D9FF")
	successColor = lipgloss.Color("#28A745")
	warningColor = lipgloss.Color("#FFC107")
	dangerColor  = lipgloss.Color("#DC3545")
	mutedColor   = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#333333")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	dividerStyle = lipgloss.NewStyle().
			Foreground(borderColor)

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	phaseStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	successTextStyle = lipgloss.NewStyle().
				Foreground(successColor)

	warningTextStyle = lipgloss.NewStyle().
				Foreground(warningColor)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(dangerColor)
)

// Progress bar styles.
var (
	progressFillStyle = lipgloss.NewStyle().
				Foreground(primaryColor)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(borderColor)
)

// renderDivider renders a horizontal divider of the given width.
func renderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	line := make([]rune, width)
	for i := range line {
		line[i] = '─'
	}
	return dividerStyle.Render(string(line))
}
