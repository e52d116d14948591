package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
)

// tableHeader is shared by the tsv, csv and markdown formatters.
var tableHeader = []string{"CASE", "THREADS", "TOTAL_S", "CPU_S", "WRITE_S", "READ_S", "DELETE_S", "FLAG"}

func tableRow(row Row) []string {
	return []string{
		strconv.Itoa(row.Case),
		strconv.Itoa(row.Threads),
		seconds(row.Total),
		seconds(row.CPU),
		seconds(row.Write),
		seconds(row.Read),
		seconds(row.Delete),
		row.marker(),
	}
}

// TSVFormatter formats output as tab-separated values.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(strings.Join(tableHeader, "\t"))
	w.WriteString("\n")

	for _, row := range r.Rows {
		w.WriteString(strings.Join(tableRow(row), "\t"))
		w.WriteString("\n")
	}

	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter formats output as comma-separated values with proper quoting.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(tableHeader); err != nil {
		return err
	}

	for _, row := range r.Rows {
		if err := writer.Write(tableRow(row)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter formats output as a GitHub-flavored Markdown table.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString("| " + strings.Join(tableHeader, " | ") + " |\n")
	w.WriteString(strings.Repeat("|---", len(tableHeader)) + "|\n")

	for _, row := range r.Rows {
		cells := tableRow(row)
		for i, c := range cells {
			cells[i] = escapeMarkdown(c)
		}
		w.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return nil
}

// escapeMarkdown escapes characters that break Markdown table cells.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "*", `\*`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)
