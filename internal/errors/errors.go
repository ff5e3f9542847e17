// Package errors provides structured CLI error types for scriptrun.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// so the CLI and the shared library report failures the same way.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes. ExitGeneral and ExitInterrupted are part of the bridge's
// compatibility contract and must not change.
const (
	ExitSuccess     = 0  // Successful execution
	ExitGeneral     = 1  // Spawn failure, wait failure, or no representable exit code
	ExitUsage       = 64 // Command line usage error (BSD convention)
	ExitInterrupted = 69 // Child killed after an interrupt
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int

	// Silent marks errors that were already reported; only Code is used.
	Silent bool
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// ExitStatus returns an already-reported error that carries only an exit code.
func ExitStatus(code int) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("exit status %d", code),
		Code:    code,
		Silent:  true,
	}
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Common error constructors ---

// SpawnFailed returns an error for a shell that could not be started.
func SpawnFailed(shell string, cause error) *CLIError {
	hint := fmt.Sprintf("Check that %q is installed and on PATH", firstField(shell))
	if containsAny(errorText(cause), "permission denied") {
		hint = fmt.Sprintf("Check the permissions of %q", firstField(shell))
	}

	return &CLIError{
		Message: fmt.Sprintf("Failed to start %s", shell),
		Hint:    hint,
		Cause:   cause,
		Code:    ExitGeneral,
	}
}

// WaitFailed returns an error for a wait on the child that failed for a
// reason other than the child already being reaped.
func WaitFailed(cause error) *CLIError {
	return &CLIError{
		Message: "Failed waiting for script to finish",
		Hint:    "Run with --log-level=debug for more details",
		Cause:   cause,
		Code:    ExitGeneral,
	}
}

// InterruptKillFailed returns an error for a child that could not be killed
// after an interrupt. The process still exits with ExitInterrupted.
func InterruptKillFailed(pid int, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to kill script process %d", pid),
		Hint:    "The process may still be running; check with your process manager",
		Cause:   cause,
		Code:    ExitInterrupted,
	}
}

// ScriptRequired returns an error when no script was given.
func ScriptRequired() *CLIError {
	return &CLIError{
		Message: "Script required",
		Hint:    "Pass the command to run, e.g. scriptrun run 'make test'",
		Code:    ExitUsage,
	}
}

// ConfigFailed returns an error for configuration save failures.
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check file permissions for your scriptrun config directory",
		Cause:   cause,
		Code:    ExitGeneral,
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

func firstField(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}

	return s
}

// containsAny checks if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}

	return false
}
