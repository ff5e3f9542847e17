// Package doctor provides diagnostic checks for scriptrun health.
//
// This package implements a check framework that validates:
//   - the platform shell is installed and runnable
//   - the config file, if present, parses
//   - the structured log file can be written
//   - the build version
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/musher-dev/scriptrun/internal/buildinfo"
	"github.com/musher-dev/scriptrun/internal/config"
	"github.com/musher-dev/scriptrun/internal/paths"
	"github.com/musher-dev/scriptrun/internal/shell"
)

const versionCheckTimeout = 3 * time.Second

// Status represents the result of a diagnostic check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical failure.
	StatusFail
)

// Result holds the outcome of a single check.
type Result struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Check is a diagnostic check function.
type Check func(ctx context.Context) Result

// Runner executes diagnostic checks.
type Runner struct {
	checks []namedCheck
}

type namedCheck struct {
	name  string
	check Check
}

// New creates a new diagnostic runner with the default checks.
func New() *Runner {
	r := &Runner{}

	r.AddCheck("Shell", ShellCheck(shell.Resolve()))
	r.AddCheck("Config File", checkConfigFile)
	r.AddCheck("Log File", checkLogFile)
	r.AddCheck("CLI Version", checkCLIVersion)

	return r
}

// AddCheck registers a diagnostic check.
func (r *Runner) AddCheck(name string, check Check) {
	r.checks = append(r.checks, namedCheck{name: name, check: check})
}

// Run executes all registered checks and returns the results.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.checks))

	for _, nc := range r.checks {
		result := nc.check(ctx)
		result.Name = nc.name
		results = append(results, result)
	}

	return results
}

// Summary returns counts of passed, failed, and warning checks.
func Summary(results []Result) (passed, failed, warnings int) {
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusWarn:
			warnings++
		}
	}

	return passed, failed, warnings
}

// ShellCheck returns a check that the shell executable is on PATH and
// reports its version line when it has one.
func ShellCheck(spec shell.Spec) Check {
	return func(ctx context.Context) Result {
		path, err := exec.LookPath(spec.Executable)
		if err != nil {
			return Result{
				Status:  StatusFail,
				Message: fmt.Sprintf("%s not found in PATH", spec.Executable),
				Detail:  "Scripts cannot run until the shell is installed",
			}
		}

		checkCtx, cancel := context.WithTimeout(ctx, versionCheckTimeout)
		defer cancel()

		out, err := exec.CommandContext(checkCtx, path, "--version").Output() //nolint:gosec // G204: path comes from LookPath of the fixed platform shell
		if err != nil {
			return Result{
				Status:  StatusPass,
				Message: fmt.Sprintf("%s at %s", spec, path),
			}
		}

		version := strings.TrimSpace(string(out))
		if idx := strings.Index(version, "\n"); idx > 0 {
			version = version[:idx]
		}

		return Result{
			Status:  StatusPass,
			Message: fmt.Sprintf("%s at %s", spec, path),
			Detail:  version,
		}
	}
}

func checkConfigFile(context.Context) Result {
	path, err := paths.ConfigFile()
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: "Config directory unavailable",
			Detail:  err.Error(),
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{
			Status:  StatusPass,
			Message: "Using defaults (no config file)",
		}
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Result{
			Status:  StatusFail,
			Message: path,
			Detail:  err.Error(),
		}
	}

	return Result{
		Status:  StatusPass,
		Message: path,
	}
}

func checkLogFile(context.Context) Result {
	return LogFileCheck(config.Load().LogFile())
}

// LogFileCheck verifies that the log file, or the default one when path is
// empty, can be opened for appending.
func LogFileCheck(path string) Result {
	if strings.TrimSpace(path) == "" {
		defaultPath, err := paths.DefaultLogFile()
		if err != nil {
			return Result{
				Status:  StatusWarn,
				Message: "No default log location",
				Detail:  err.Error(),
			}
		}

		path = defaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Result{
			Status:  StatusFail,
			Message: path,
			Detail:  err.Error(),
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // G304: path is the configured log file
	if err != nil {
		return Result{
			Status:  StatusFail,
			Message: path,
			Detail:  err.Error(),
		}
	}

	_ = f.Close()

	return Result{
		Status:  StatusPass,
		Message: path,
	}
}

func checkCLIVersion(context.Context) Result {
	if buildinfo.Version == "dev" {
		return Result{
			Status:  StatusWarn,
			Message: "Development build",
		}
	}

	return Result{
		Status:  StatusPass,
		Message: "v" + strings.TrimPrefix(buildinfo.String(), "v"),
	}
}

// RenderResults formats diagnostic results to the given output functions.
func RenderResults(results []Result, printFn, successFn, warningFn, failureFn, mutedFn func(format string, args ...any)) {
	maxNameLen := 0
	for _, r := range results {
		if len(r.Name) > maxNameLen {
			maxNameLen = len(r.Name)
		}
	}

	for _, r := range results {
		symbol := r.Status.Symbol()
		padding := maxNameLen - len(r.Name) + 4

		switch r.Status {
		case StatusPass:
			successFn("%-*s%s", len(r.Name)+padding, r.Name, r.Message)
		case StatusWarn:
			warningFn("%-*s%s", len(r.Name)+padding, r.Name, r.Message)
		case StatusFail:
			failureFn("%-*s%s", len(r.Name)+padding, r.Name, r.Message)
		default:
			printFn("%s %-*s%s\n", symbol, len(r.Name)+padding, r.Name, r.Message)
		}

		if r.Detail != "" {
			mutedFn("    %s", r.Detail)
		}
	}
}

// Symbol returns the status symbol for display.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return checkMark
	case StatusWarn:
		return warningMark
	case StatusFail:
		return xMark
	default:
		return "?"
	}
}

const (
	checkMark   = "\u2713" // ✓
	xMark       = "\u2717" // ✗
	warningMark = "\u26A0" // ⚠
)
