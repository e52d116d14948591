package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/config"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/logging"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
)

// defaultRotationSize is used when logging.rotation.max_size is empty or
// cannot be parsed.
const defaultRotationSize = 10 * 1024 * 1024

// initializeLogging is the root PersistentPreRunE hook. It makes sure the
// config and state directories exist and starts file logging. Console
// logging is only enabled when the TUI is not drawing on the terminal.
func initializeLogging(cmd *cobra.Command, args []string) error {
	if dir, err := config.ConfigDir(); err == nil {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.MkdirAll(config.StateDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	return logging.Init(loggingConfig(cfg, isInteractive(), getVerbose()))
}

// loggingConfig maps the logging section onto the logging package.
func loggingConfig(cfg *config.Config, interactive, verbose bool) logging.Config {
	lc := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}
	if lc.Level == "" {
		lc.Level = config.DefaultLogLevel
	}

	switch {
	case interactive:
		// The TUI owns the terminal.
	case verbose:
		lc.Level = "debug"
		lc.ConsoleLevel = "debug"
	default:
		lc.ConsoleLevel = "warn"
	}
	return lc
}

// parseRotationConfig converts the config rotation settings to logging
// rotation settings.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	maxSize := int64(defaultRotationSize)
	if rc.MaxSize != "" {
		if parsed, err := types.ParseSize(rc.MaxSize); err == nil && parsed > 0 {
			maxSize = parsed
		}
	}

	return logging.RotationConfig{
		MaxSize:    maxSize,
		MaxBackups: rc.MaxBackups,
	}
}

// isInteractive reports whether the progress TUI should run: the pretty
// formatter was requested, -n was not given and stdout is a terminal.
func isInteractive() bool {
	if viper.GetBool("no_interactive") {
		return false
	}
	if viper.GetString("output") != "pretty" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
