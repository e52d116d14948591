package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/perfsweep/pkg/perfsweep/types"
	"github.com/jamesainslie/perfsweep/pkg/perfsweep/workload"
)

// appName names the config and state subdirectories.
const appName = "perfsweep"

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// Config represents the application configuration.
type Config struct {
	Threads struct {
		Default int `mapstructure:"default"`
	} `mapstructure:"threads"`
	CPU struct {
		Range      int64 `mapstructure:"range"`
		LowerBound int64 `mapstructure:"lower_bound"`
		UpperBound int64 `mapstructure:"upper_bound"`
	} `mapstructure:"cpu"`
	Files struct {
		TargetDir  string `mapstructure:"target_dir"`
		Count      int    `mapstructure:"count"`
		TotalSize  string `mapstructure:"total_size"`
		BufferSize string `mapstructure:"buffer_size"`
	} `mapstructure:"files"`
	PhaseTimeout time.Duration `mapstructure:"phase_timeout"`
	Output       string        `mapstructure:"output"`
	Logging      LoggingConfig `mapstructure:"logging"`
}

// SetDefaults installs the default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("threads.default", DefaultThreads)
	v.SetDefault("cpu.range", DefaultRange)
	v.SetDefault("cpu.lower_bound", DefaultLowerBound)
	v.SetDefault("cpu.upper_bound", DefaultUpperBound)
	v.SetDefault("files.target_dir", DefaultTargetDir)
	v.SetDefault("files.count", DefaultFileCount)
	v.SetDefault("files.total_size", DefaultTotalSize)
	v.SetDefault("files.buffer_size", DefaultBufferSize)
	v.SetDefault("phase_timeout", DefaultPhaseTimeout)
	v.SetDefault("output", DefaultOutput)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.components", map[string]string{})
}

// AddConfigPaths registers the standard config file locations on v:
//   - $XDG_CONFIG_HOME/perfsweep/config.yaml
//   - $HOME/.config/perfsweep/config.yaml
func AddConfigPaths(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, appName))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", appName))
	}
}

// Load loads configuration from file and environment variables.
// Environment variables are prefixed with PERFSWEEP_
// (e.g., PERFSWEEP_FILES_COUNT).
func Load() (*Config, error) {
	v := viper.New()
	AddConfigPaths(v)
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper decodes the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Workload converts the files section into workload options.
func (c *Config) Workload() (workload.Options, error) {
	total, err := types.ParseSize(c.Files.TotalSize)
	if err != nil {
		return workload.Options{}, fmt.Errorf("invalid files.total_size %q: %w", c.Files.TotalSize, err)
	}
	buffer, err := types.ParseSize(c.Files.BufferSize)
	if err != nil {
		return workload.Options{}, fmt.Errorf("invalid files.buffer_size %q: %w", c.Files.BufferSize, err)
	}
	if buffer < 1 {
		return workload.Options{}, fmt.Errorf("files.buffer_size must be positive, got %q", c.Files.BufferSize)
	}
	if c.Files.Count < 1 {
		return workload.Options{}, fmt.Errorf("files.count must be at least one, got %d", c.Files.Count)
	}

	return workload.Options{
		Dir:        c.Files.TargetDir,
		Files:      c.Files.Count,
		TotalBytes: total,
		BufferSize: int(buffer),
		Timeout:    c.PhaseTimeout,
	}, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", appName), nil
}

// ConfigPath returns the path of the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// WriteDefault writes a default config file if none exists and returns its
// path. An existing file is left untouched.
func WriteDefault() (string, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# perfsweep configuration

threads:
  # Sweep 1..default when no thread counts are given
  default: %d

cpu:
  # Width of one divisor-sum partition
  range: %d
  # Candidates checked by the CPU test (inclusive)
  lower_bound: %d
  upper_bound: %d

files:
  target_dir: %s
  count: %d
  # Combined size of all files, e.g. 2GB, 500MiB
  total_size: "%s"
  buffer_size: %s

# How long a phase may take to drain its worker pool
phase_timeout: %s

# Report format: pretty, plain, json, yaml, tsv, csv, markdown
output: %s

logging:
  # Log level: debug, info, warn, error
  level: %s
  # Log file path (empty means use default: $XDG_STATE_HOME/perfsweep/perfsweep.log)
  path: ""
  rotation:
    max_size: 10MB
    max_backups: 5
  # Per-component log levels
  components:
    harness: info
    workload: warn
`, DefaultThreads, DefaultRange, DefaultLowerBound, DefaultUpperBound,
		DefaultTargetDir, DefaultFileCount, DefaultTotalSize, DefaultBufferSize,
		DefaultPhaseTimeout, DefaultOutput, DefaultLogLevel)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}

	return configPath, nil
}

// StateDir returns $XDG_STATE_HOME/perfsweep/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, appName)
}
