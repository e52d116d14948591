//go:build stave

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
)

// Default target when running `stave` with no arguments.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"q": QuickTest,
	"l": Lint,
	"i": Install,
	"s": Smoke,
	"c": Clean,
}

const (
	binaryName = "perfsweep"
	mainPkg    = "./cmd/perfsweep"
	binDir     = "bin"
	smokeDir   = "bin/smoke"
)

// All runs the complete build pipeline.
func All() error {
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Build compiles the perfsweep binary.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating bin directory: %w", err)
	}
	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", binaryPath(), mainPkg)
}

// Install builds and installs perfsweep to GOBIN, GOPATH/bin or /usr/local/bin.
func Install() error {
	st.Deps(Build)

	bin, err := installDir()
	if err != nil {
		return err
	}
	dst := withExe(filepath.Join(bin, binaryName))
	if st.Verbose() {
		fmt.Printf("Installing %s to %s\n", binaryPath(), dst)
	}
	return sh.Copy(dst, binaryPath())
}

// Uninstall removes the installed perfsweep binary.
func Uninstall() error {
	bin, err := installDir()
	if err != nil {
		return err
	}

	target := withExe(filepath.Join(bin, binaryName))
	if _, err := os.Stat(target); os.IsNotExist(err) {
		if st.Verbose() {
			fmt.Printf("Binary not found at %s, nothing to uninstall\n", target)
		}
		return nil
	}
	if st.Verbose() {
		fmt.Printf("Removing %s\n", target)
	}
	return os.Remove(target)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// QuickTest skips the long perfect-number scan tests.
func QuickTest() error {
	return sh.RunV("go", "test", "-short", "./...")
}

// Smoke runs a small two-case sweep against a scratch directory with a
// shrunken workload so the whole pipeline finishes in seconds.
func Smoke() error {
	st.Deps(Build)

	env := map[string]string{
		"PERFSWEEP_CPU_LOWER_BOUND":  "1",
		"PERFSWEEP_CPU_UPPER_BOUND":  "10000",
		"PERFSWEEP_FILES_COUNT":      "20",
		"PERFSWEEP_FILES_TOTAL_SIZE": "20MiB",
	}
	for k, v := range env {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("setting %s: %w", k, err)
		}
	}
	return sh.RunV(binaryPath(), "-n", "-o", "plain", "--target-dir", smokeDir, "1-2")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and leftover benchmark files.
func Clean() error {
	if st.Verbose() {
		fmt.Printf("Removing %s/ and __target__/\n", binDir)
	}
	if err := sh.Rm(binDir + "/"); err != nil {
		return err
	}
	return sh.Rm("__target__/")
}

// Fmt formats all Go code.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("running gofmt: %w", err)
	}
	return sh.Run("goimports", "-w", ".")
}

// Tidy runs go mod tidy.
func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

func binaryPath() string {
	return withExe(filepath.Join(binDir, binaryName))
}

func withExe(path string) string {
	if runtime.GOOS == "windows" {
		return path + ".exe"
	}
	return path
}

// installDir resolves GOBIN, then GOPATH/bin, then /usr/local/bin.
func installDir() (string, error) {
	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return "", fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin != "" {
		return bin, nil
	}
	gopath, err := sh.Output(gocmd, "env", "GOPATH")
	if err != nil {
		return "", fmt.Errorf("determining GOPATH: %w", err)
	}
	if gopath != "" {
		return filepath.Join(gopath, "bin"), nil
	}
	return "/usr/local/bin", nil
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version := "dev"
	commit := "unknown"
	date := time.Now().Format(time.RFC3339)

	if v, err := sh.Output("git", "describe", "--tags", "--always"); err == nil && v != "" {
		version = strings.TrimSpace(v)
	}
	if c, err := sh.Output("git", "rev-parse", "--short", "HEAD"); err == nil && c != "" {
		commit = strings.TrimSpace(c)
	}

	pkg := "main"
	return fmt.Sprintf(
		"-X %s.version=%s -X %s.commit=%s -X %s.date=%s",
		pkg, version, pkg, commit, pkg, date,
	)
}
