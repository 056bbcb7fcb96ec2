package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/execdiff/internal/compare"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // query failure (artifact not found, validation issues)
	ExitCommandError = 2 // command error (unreadable logs, parse failure, bad flags)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // exit code (use ExitFailure or ExitCommandError)
	Message string // error message
	Err     error  // underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// mismatchJSON is the machine-readable form of a comparison result: the
// three key sets, sorted.
type mismatchJSON struct {
	Artifact string   `json:"artifact"`
	EnvVars  []string `json:"environmentVariables"`
	Inputs   []string `json:"inputs"`
	Outputs  []string `json:"outputs"`
}

// writeMismatchJSON encodes a result for --format json.
func writeMismatchJSON(w io.Writer, artifact string, m compare.Mismatches) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(mismatchJSON{
		Artifact: artifact,
		EnvVars:  m.EnvVars.Sorted(),
		Inputs:   m.Inputs.Sorted(),
		Outputs:  m.Outputs.Sorted(),
	})
}
