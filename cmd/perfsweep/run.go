package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/perfsweep/cmd/perfsweep/tui"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/config"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/harness"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/host"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/output"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
)

// runBenchmark is the root command handler.
func runBenchmark(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(viper.GetViper(), args)
	if err != nil {
		return err
	}

	outFormat := viper.GetString("output")
	if outFormat == "" {
		outFormat = config.DefaultOutput
	}
	formatter, err := buildFormatter(outFormat, viper.GetString("template"))
	if err != nil {
		return err
	}

	info, hostErr := host.Detect()
	if hostErr != nil {
		printVerbose("Failed to detect host details: %v", hostErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var table *harness.Table
	if isInteractive() {
		table, err = tui.Run(ctx, opts)
	} else {
		table, err = runPlain(ctx, opts, cmd.ErrOrStderr())
	}

	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return err
	}
	if table == nil {
		return err
	}

	report := output.NewReport(table, opts, info)
	report.Interrupted = interrupted
	if hostErr != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("host details incomplete: %v", hostErr))
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), buf.String())

	if interrupted {
		printInfo("Interrupted after %d of %d cases", len(table.Cases), len(opts.Sweep))
	}
	return nil
}

// buildFormatter resolves the report formatter. A custom template replaces
// the default one of the template formatter.
func buildFormatter(name, tmpl string) (output.Formatter, error) {
	if name == "template" && tmpl != "" {
		return output.NewTemplateFormatter(tmpl), nil
	}
	formatter, err := output.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", name, output.Available())
	}
	return formatter, nil
}

// runPlain runs the harness without the TUI, writing one progress line per
// phase the way the classic report does.
func runPlain(ctx context.Context, opts harness.Options, progress io.Writer) (*harness.Table, error) {
	if !getQuiet() {
		opts.OnProgress = func(p types.Progress) {
			if line := progressLine(p); line != "" {
				fmt.Fprintln(progress, line)
			}
		}
	}

	h, err := harness.New(opts)
	if err != nil {
		return nil, err
	}
	return h.Run(ctx)
}

// progressLine returns the line printed when a phase starts. Only the CPU
// test and the write phase, which starts the file test, print anything.
func progressLine(p types.Progress) string {
	if p.Finished {
		return ""
	}
	switch p.Phase {
	case types.PhaseCPU:
		return fmt.Sprintf("CPU Test - case: %d", p.Case)
	case types.PhaseWrite:
		return fmt.Sprintf("File Test - case: %d", p.Case)
	default:
		return ""
	}
}

// buildOptions turns the resolved configuration and the positional
// arguments into harness options.
func buildOptions(v *viper.Viper, args []string) (harness.Options, error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return harness.Options{}, err
	}

	defaultThreads := cfg.Threads.Default
	if defaultThreads < 1 {
		defaultThreads = config.DefaultThreads
	}
	sweep, err := types.ParseSweep(args, defaultThreads)
	if err != nil {
		return harness.Options{}, err
	}

	files, err := cfg.Workload()
	if err != nil {
		return harness.Options{}, err
	}

	opts := harness.Options{
		Sweep:      sweep,
		LowerBound: cfg.CPU.LowerBound,
		UpperBound: cfg.CPU.UpperBound,
		Range:      cfg.CPU.Range,
		Files:      files,
		SkipCPU:    v.GetBool("skip_cpu"),
		SkipFiles:  v.GetBool("skip_files"),
	}
	if opts.SkipCPU && opts.SkipFiles {
		return harness.Options{}, errors.New("nothing to run: both --skip-cpu and --skip-files are set")
	}
	if err := opts.Validate(); err != nil {
		return harness.Options{}, err
	}

	printVerbose("Sweep %s, candidates %d-%d, %d files in %s",
		sweep, opts.LowerBound, opts.UpperBound, files.Files, files.Dir)
	return opts, nil
}
