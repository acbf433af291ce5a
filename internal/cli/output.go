package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/tscfiles/internal/checker"
	"github.com/roach88/tscfiles/internal/tsconfig"
)

// Exit codes owned by tsc-files. Any other non-zero status is tsc's own.
const (
	ExitSuccess     = 0   // Type check passed, or nothing to check
	ExitFailure     = 1   // Unclassified failure
	ExitConfigError = 78  // Settings, tsconfig, typeRoots or temp file could not be used
	ExitLaunchError = 127 // tsc could not be located or started
)

// Error code constants.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeConfigRead  = "E002" // tsconfig not readable
	ErrCodeConfigParse = "E003" // tsconfig not valid relaxed JSON
	ErrCodeTypeRoots   = "E004" // typeRoots directory not listable
	ErrCodeLaunch      = "E005" // tsc not found or not startable
	ErrCodeWriteFailed = "E006" // Temporary config write error
	ErrCodeSchema      = "E007" // Derived config failed validation
	ErrCodeSettings    = "E008" // tsc-files settings invalid
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Process exit status
	Message string // Error message
	Err     error  // Underlying error (optional)
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

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// CheckFailed carries a non-zero tsc status out of the command. tsc has
// already printed its diagnostics, so it is never passed to OutputFormatter.
func CheckFailed(status int) *ExitError {
	return &ExitError{Code: status, Message: fmt.Sprintf("type check failed with status %d", status)}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Classify maps a pipeline error to its error code and exit status.
func Classify(err error) (code string, status int) {
	var loadErr *tsconfig.LoadError
	var writeErr *checker.WriteError
	var launchErr *checker.LaunchError

	switch {
	case errors.As(err, &loadErr):
		switch loadErr.Kind {
		case tsconfig.KindRead:
			return ErrCodeConfigRead, ExitConfigError
		case tsconfig.KindParse:
			return ErrCodeConfigParse, ExitConfigError
		case tsconfig.KindTypeRoots:
			return ErrCodeTypeRoots, ExitConfigError
		case tsconfig.KindSchema:
			return ErrCodeSchema, ExitConfigError
		}
		return ErrCodeGeneric, ExitConfigError
	case errors.As(err, &writeErr):
		return ErrCodeWriteFailed, ExitConfigError
	case errors.As(err, &launchErr):
		return ErrCodeLaunch, ExitLaunchError
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// OutputFormatter writes tsc-files' own messages. tsc's output never passes
// through it.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
}

// CLIResponse is the JSON envelope for tsc-files messages.
type CLIResponse struct {
	Status string    `json:"status"`          // "error"
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "tsc-files: error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}
