package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	return tempDir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Threads.Default != DefaultThreads {
		t.Errorf("Threads.Default = %d, want %d", cfg.Threads.Default, DefaultThreads)
	}
	if cfg.CPU.Range != DefaultRange {
		t.Errorf("CPU.Range = %d, want %d", cfg.CPU.Range, DefaultRange)
	}
	if cfg.CPU.LowerBound != DefaultLowerBound || cfg.CPU.UpperBound != DefaultUpperBound {
		t.Errorf("CPU bounds = %d..%d, want %d..%d",
			cfg.CPU.LowerBound, cfg.CPU.UpperBound, DefaultLowerBound, DefaultUpperBound)
	}
	if cfg.Files.TargetDir != DefaultTargetDir {
		t.Errorf("Files.TargetDir = %q, want %q", cfg.Files.TargetDir, DefaultTargetDir)
	}
	if cfg.Files.Count != DefaultFileCount {
		t.Errorf("Files.Count = %d, want %d", cfg.Files.Count, DefaultFileCount)
	}
	if cfg.PhaseTimeout != DefaultPhaseTimeout {
		t.Errorf("PhaseTimeout = %v, want %v", cfg.PhaseTimeout, DefaultPhaseTimeout)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, DefaultLogLevel)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := isolate(t)
	configDir := filepath.Join(tempDir, ".config", "perfsweep")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
threads:
  default: 4
cpu:
  lower_bound: 1
  upper_bound: 10000
files:
  target_dir: /tmp/bench
  count: 50
  total_size: 100MiB
  buffer_size: 4K
phase_timeout: 90s
output: plain
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Threads.Default != 4 {
		t.Errorf("Threads.Default = %d, want 4", cfg.Threads.Default)
	}
	if cfg.CPU.UpperBound != 10000 {
		t.Errorf("CPU.UpperBound = %d, want 10000", cfg.CPU.UpperBound)
	}
	if cfg.CPU.Range != DefaultRange {
		t.Errorf("CPU.Range = %d, want default %d", cfg.CPU.Range, DefaultRange)
	}
	if cfg.PhaseTimeout != 90*time.Second {
		t.Errorf("PhaseTimeout = %v, want 90s", cfg.PhaseTimeout)
	}
	if cfg.Output != "plain" {
		t.Errorf("Output = %q, want plain", cfg.Output)
	}

	opts, err := cfg.Workload()
	if err != nil {
		t.Fatalf("Workload() error = %v", err)
	}
	if opts.Dir != "/tmp/bench" || opts.Files != 50 {
		t.Errorf("Workload() = %+v", opts)
	}
	if opts.TotalBytes != 100*1024*1024 {
		t.Errorf("TotalBytes = %d, want %d", opts.TotalBytes, 100*1024*1024)
	}
	if opts.BufferSize != 4096 {
		t.Errorf("BufferSize = %d, want 4096", opts.BufferSize)
	}
	if opts.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", opts.Timeout)
	}
}

func TestLoad_XDGConfigHome(t *testing.T) {
	tempDir := isolate(t)
	xdgDir := filepath.Join(tempDir, "xdg-config")
	if err := os.MkdirAll(filepath.Join(xdgDir, "perfsweep"), 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(xdgDir, "perfsweep", "config.yaml"), []byte("output: json\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", xdgDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("PERFSWEEP_FILES_COUNT", "12")
	t.Setenv("PERFSWEEP_OUTPUT", "yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Files.Count != 12 {
		t.Errorf("Files.Count = %d, want 12", cfg.Files.Count)
	}
	if cfg.Output != "yaml" {
		t.Errorf("Output = %q, want yaml", cfg.Output)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	tempDir := isolate(t)
	configDir := filepath.Join(tempDir, ".config", "perfsweep")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("files: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for malformed YAML")
	}
}

func TestWorkload_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		name string
		key  string
		val  any
		want string
	}{
		{"bad total size", "files.total_size", "lots", "files.total_size"},
		{"bad buffer size", "files.buffer_size", "-1K", "files.buffer_size"},
		{"zero buffer size", "files.buffer_size", "0", "files.buffer_size"},
		{"zero count", "files.count", 0, "files.count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.val)

			cfg, err := FromViper(v)
			if err != nil {
				t.Fatalf("FromViper() error = %v", err)
			}
			_, err = cfg.Workload()
			if err == nil {
				t.Fatal("Workload() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	cfg, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper() error = %v", err)
	}
	opts, err := cfg.Workload()
	if err != nil {
		t.Fatalf("Workload() with defaults error = %v", err)
	}
	if opts.TotalBytes != 2_000_000_000 || opts.BufferSize != 8192 {
		t.Errorf("Workload() defaults = %+v", opts)
	}
}

func TestWriteDefault(t *testing.T) {
	tempDir := isolate(t)

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	want := filepath.Join(tempDir, ".config", "perfsweep", "config.yaml")
	if path != want {
		t.Errorf("WriteDefault() path = %q, want %q", path, want)
	}

	// The written file must load back to the defaults.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() after WriteDefault error = %v", err)
	}
	if cfg.PhaseTimeout != DefaultPhaseTimeout {
		t.Errorf("PhaseTimeout = %v, want %v", cfg.PhaseTimeout, DefaultPhaseTimeout)
	}
	if cfg.Files.TotalSize != DefaultTotalSize {
		t.Errorf("Files.TotalSize = %q, want %q", cfg.Files.TotalSize, DefaultTotalSize)
	}
	if cfg.Logging.Components["workload"] != "warn" {
		t.Errorf("Logging.Components = %v", cfg.Logging.Components)
	}

	// A second call leaves the file alone.
	if err := os.WriteFile(path, []byte("output: csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteDefault(); err != nil {
		t.Fatalf("second WriteDefault() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "output: csv\n" {
		t.Errorf("existing config overwritten: %q", data)
	}
}

func TestStateDir(t *testing.T) {
	if !strings.HasSuffix(StateDir(), "perfsweep") {
		t.Errorf("StateDir() = %q, want suffix perfsweep", StateDir())
	}
}
