package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/config"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/logging"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "perfsweep [THREADS...]",
		Short: "Measure how CPU and file workloads scale with threads",
		Long: `perfsweep tests CPU and file operations performance.

Every test case runs a CPU test, searching a range of numbers for perfect
numbers, followed by a file test that writes, reads and deletes a set of
files. Each case uses its own number of worker threads and the elapsed times
of all cases are reported side by side. Depending on the arguments a run can
take several minutes.

Arguments:
  THREADS  Either the number of threads for a single test case or a range of
           threads for multiple test cases, given as LOWER-UPPER:
             LOWER = the number of threads in the first test
             UPPER = the number of threads in the last test
           There will be (UPPER - LOWER + 1) tests, so 2-4 runs three tests
           with two, three and four threads.
           Several numbers run one test per number, in the given order.

If no arguments are given, ten tests are run with one to ten threads. This
is the same as running "perfsweep 1-10". The row whose thread count equals
the number of cores is marked with "*"; a row with a timed-out phase is
marked with "!".

Examples:
  perfsweep                  # Ten cases with 1..10 threads
  perfsweep 3                # One case with three threads
  perfsweep 2-6              # Five cases with 2..6 threads
  perfsweep 1 3 4 5 8        # Five cases with the given thread counts
  perfsweep -n -o json 1-4   # Non-interactive JSON report
  perfsweep config show      # Show configuration`,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: initializeLogging,
		RunE:              runBenchmark,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/perfsweep/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	flags := rootCmd.Flags()
	flags.StringP("output", "o", "", "report format: pretty, plain, json, yaml, tsv, csv, markdown, template")
	flags.String("template", "", "Go template for -o template (e.g., '{{range .Rows}}{{.Threads}}={{seconds .Total}} {{end}}')")
	flags.BoolP("no-interactive", "n", false, "disable the progress TUI, print progress lines")
	flags.String("target-dir", "", "directory for benchmark files (default: __target__)")
	flags.Int("files", 0, "number of files per file phase (default: 200)")
	flags.String("total-size", "", "combined size of all files (e.g., 2GB, 500MiB)")
	flags.String("buffer-size", "", "size of each write and read (e.g., 8KiB)")
	flags.Duration("timeout", 0, "how long a phase may take to drain its pool (default: 5m)")
	flags.Bool("skip-cpu", false, "skip the CPU test")
	flags.Bool("skip-files", false, "skip the file test")

	// Bind flags to viper
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("template", flags.Lookup("template"))
	_ = viper.BindPFlag("no_interactive", flags.Lookup("no-interactive"))
	_ = viper.BindPFlag("files.target_dir", flags.Lookup("target-dir"))
	_ = viper.BindPFlag("files.count", flags.Lookup("files"))
	_ = viper.BindPFlag("files.total_size", flags.Lookup("total-size"))
	_ = viper.BindPFlag("files.buffer_size", flags.Lookup("buffer-size"))
	_ = viper.BindPFlag("phase_timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("skip_cpu", flags.Lookup("skip-cpu"))
	_ = viper.BindPFlag("skip_files", flags.Lookup("skip-files"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		config.AddConfigPaths(viper.GetViper())
	}

	config.SetDefaults(viper.GetViper())

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		printError("Failed to read config file %s: %v", cfgFile, err)
	}
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logging.Close() }()

	err := rootCmd.Execute()
	if err != nil {
		printError("%v", err)
	}
	return err
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
