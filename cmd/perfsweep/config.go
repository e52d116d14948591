package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage perfsweep configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/perfsweep/config.yaml (if set)
  2. ~/.config/perfsweep/config.yaml

Environment variables can override config file settings using the PERFSWEEP_ prefix:
  PERFSWEEP_FILES_COUNT=50
  PERFSWEEP_FILES_TOTAL_SIZE=500MB
  PERFSWEEP_CPU_LOWER_BOUND=1`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configEnvVars lists the environment overrides shown by config show.
var configEnvVars = []string{
	"PERFSWEEP_THREADS_DEFAULT",
	"PERFSWEEP_CPU_RANGE",
	"PERFSWEEP_CPU_LOWER_BOUND",
	"PERFSWEEP_CPU_UPPER_BOUND",
	"PERFSWEEP_FILES_TARGET_DIR",
	"PERFSWEEP_FILES_COUNT",
	"PERFSWEEP_FILES_TOTAL_SIZE",
	"PERFSWEEP_FILES_BUFFER_SIZE",
	"PERFSWEEP_PHASE_TIMEOUT",
	"PERFSWEEP_OUTPUT",
	"PERFSWEEP_LOGGING_LEVEL",
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Fprintf(out, "Config file: %s\n\n", configFile)
	} else {
		fmt.Fprintln(out, "Config file: (using defaults, no file found)")
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "threads.default:      %d\n", cfg.Threads.Default)
	fmt.Fprintf(out, "cpu.range:            %d\n", cfg.CPU.Range)
	fmt.Fprintf(out, "cpu.lower_bound:      %d\n", cfg.CPU.LowerBound)
	fmt.Fprintf(out, "cpu.upper_bound:      %d\n", cfg.CPU.UpperBound)
	fmt.Fprintf(out, "files.target_dir:     %s\n", cfg.Files.TargetDir)
	fmt.Fprintf(out, "files.count:          %d\n", cfg.Files.Count)
	fmt.Fprintf(out, "files.total_size:     %s\n", cfg.Files.TotalSize)
	fmt.Fprintf(out, "files.buffer_size:    %s\n", cfg.Files.BufferSize)
	fmt.Fprintf(out, "phase_timeout:        %s\n", cfg.PhaseTimeout)
	fmt.Fprintf(out, "output:               %s\n", cfg.Output)
	fmt.Fprintf(out, "logging.level:        %s\n", cfg.Logging.Level)

	fmt.Fprintln(out, "\nEnvironment Overrides:")
	fmt.Fprintln(out, "----------------------")
	anyOverrides := false
	for _, name := range configEnvVars {
		if val := os.Getenv(name); val != "" {
			fmt.Fprintf(out, "%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Fprintln(out, "(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'perfsweep config edit' to modify it.")
		return nil
	}

	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
