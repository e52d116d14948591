package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// maxListedFailures caps the failure block of the pretty formatter.
const maxListedFailures = 20

// PrettyFormatter formats the report with colors and boxes using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")

	if r.Failures() > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatFailures(r))
	}

	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}

	return nil
}

// formatHeader builds the header box with host and workload metadata.
func (f *PrettyFormatter) formatHeader(r *Report) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s  %s %s  %s %s",
		LabelStyle.Render("Host:"), ValueStyle.Render(r.Host.System()),
		LabelStyle.Render("Cores:"), ValueStyle.Render(strconv.Itoa(r.Host.CPUs)),
		LabelStyle.Render("Memory:"), ValueStyle.Render(r.Host.Memory())))

	lines = append(lines, fmt.Sprintf("%s %s  %s %s",
		LabelStyle.Render("Runtime:"), ValueStyle.Render(r.Host.GoVersion),
		LabelStyle.Render("Threads:"), ValueStyle.Render(r.Sweep)))

	var workload []string
	if r.UpperBound > 0 {
		workload = append(workload, fmt.Sprintf("%s %s",
			LabelStyle.Render("CPU:"),
			ValueStyle.Render(fmt.Sprintf("%s..%s", humanize.Comma(r.LowerBound), humanize.Comma(r.UpperBound)))))
	}
	if r.Files > 0 {
		workload = append(workload, fmt.Sprintf("%s %s",
			LabelStyle.Render("Files:"),
			ValueStyle.Render(fmt.Sprintf("%d x %s in %s", r.Files, humanize.IBytes(uint64(r.FileSize)), r.Dir))))
	}
	if len(workload) > 0 {
		lines = append(lines, strings.Join(workload, "  "))
	}

	if r.Interrupted {
		lines = append(lines, WarningStyle.Bold(true).Render("Run interrupted by user"))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatTable builds the per-case table.
func (f *PrettyFormatter) formatTable(r *Report) string {
	if len(r.Rows) == 0 {
		return MutedStyle.Render("  No cases completed\n")
	}

	var sb strings.Builder

	headers := []string{"CASE", "THREADS", "TOTAL", "CPU", "WRITE", "READ", "DELETE"}
	widths := []int{4, 7, 9, 9, 9, 9, 9}
	for _, row := range r.Rows {
		widths[2] = max(widths[2], len(seconds(row.Total)))
	}

	sb.WriteString("  ")
	for i, h := range headers {
		sb.WriteString(TableHeaderStyle.Render(padLeft(h, widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")

	for _, row := range r.Rows {
		cells := []string{
			padLeft(strconv.Itoa(row.Case), widths[0]),
			padLeft(strconv.Itoa(row.Threads), widths[1]),
			TotalStyle.Render(padLeft(seconds(row.Total), widths[2])),
			padLeft(seconds(row.CPU), widths[3]),
			padLeft(seconds(row.Write), widths[4]),
			padLeft(seconds(row.Read), widths[5]),
			padLeft(seconds(row.Delete), widths[6]),
		}

		marker := " "
		switch {
		case row.TimedOut:
			marker = ErrorStyle.Render("!")
		case row.MatchesCPUs:
			marker = SuccessStyle.Render("*")
		}

		sb.WriteString(marker + " ")
		sb.WriteString(strings.Join(cells, "  "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatFooter builds the footer box with the run summary.
func (f *PrettyFormatter) formatFooter(r *Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%s %s",
		LabelStyle.Render("Total test time:"), TotalStyle.Render(seconds(r.Total)+" s")))
	parts = append(parts, fmt.Sprintf("%s %s",
		LabelStyle.Render("Cases:"), ValueStyle.Render(strconv.Itoa(len(r.Rows)))))

	if n := r.Failures(); n > 0 {
		parts = append(parts, fmt.Sprintf("%s %s",
			LabelStyle.Render("Failures:"), ErrorStyle.Render(humanize.Comma(int64(n)))))
	}

	parts = append(parts, MutedStyle.Render("* threads = cores  ! timed out"))

	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatFailures lists recorded failures, capped at maxListedFailures.
func (f *PrettyFormatter) formatFailures(r *Report) string {
	var sb strings.Builder

	sb.WriteString(ErrorStyle.Bold(true).Render("Failures:"))
	sb.WriteString("\n")

	listed := 0
	for _, row := range r.Rows {
		for _, fail := range row.Failures {
			if listed == maxListedFailures {
				remaining := r.Failures() - listed
				sb.WriteString(MutedStyle.Render(fmt.Sprintf("  ... and %d more", remaining)))
				sb.WriteString("\n")
				return sb.String()
			}
			line := fmt.Sprintf("  case %d %s: %s", row.Case, fail.Phase, failureText(fail.Path, fail.Err))
			sb.WriteString(WarningStyle.Render(line))
			sb.WriteString("\n")
			listed++
		}
	}
	return sb.String()
}

// formatWarnings builds a warning block.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder

	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")

	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}

	return sb.String()
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
