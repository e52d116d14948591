package output

import (
	"bytes"
	"fmt"
)

// PlainFormatter prints the classic fixed-width results table without
// colors. Rows are flagged with "*" when the thread count equals the CPU
// count and with "!" when a phase timed out.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	fmt.Fprintf(w, "OS: %s\n", r.Host.System())
	fmt.Fprintf(w, "Number of cores: %d\n", r.Host.CPUs)
	fmt.Fprintf(w, "Go runtime: %s\n", r.Host.GoVersion)
	w.WriteString("\n")

	fmt.Fprintf(w, "Total test time: %4.3f s\n", r.Total.Seconds())
	fmt.Fprintf(w, "%-6s%-8s%11s%10s%10s%10s%10s\n",
		" Case", " Num of", "Total ", "CPU  ", "File W ", "File R ", "File D ")
	fmt.Fprintf(w, "%-6s%-8s%11s%10s%10s%10s%10s\n",
		"   #", " threads", "(s)  ", "(s)  ", "(s)  ", "(s)  ", "(s)  ")

	for _, row := range r.Rows {
		fmt.Fprintf(w, "%1s %2d.    %3d  %11.3f%10.3f%10.3f%10.3f%10.3f\n",
			row.marker(), row.Case, row.Threads,
			row.Total.Seconds(), row.CPU.Seconds(),
			row.Write.Seconds(), row.Read.Seconds(), row.Delete.Seconds())
	}

	if r.Interrupted {
		w.WriteString("\nInterrupted before all cases ran\n")
	}

	if n := r.Failures(); n > 0 {
		fmt.Fprintf(w, "\nFailures (%d):\n", n)
		for _, row := range r.Rows {
			for _, fail := range row.Failures {
				fmt.Fprintf(w, "  case %d %s: %s\n", row.Case, fail.Phase, failureText(fail.Path, fail.Err))
			}
		}
	}

	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func failureText(path, err string) string {
	if path == "" {
		return err
	}
	return path + ": " + err
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
