package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/littletreezlx/learn-x/internal/engine"
	"github.com/littletreezlx/learn-x/internal/ir"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Invocation failure, manifest mismatch or failed scenario
	ExitCommandError = 2 // Usage error, bad config, unreadable manifest
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeUsage            = "E002" // Malformed command line
	ErrCodeClassNotFound    = "E201" // Namespace not registered
	ErrCodeMethodNotFound   = "E202" // Method not found in namespace
	ErrCodeBadArgument      = "E203" // Argument token failed coercion
	ErrCodeExecution        = "E204" // Callable returned an error or panicked
	ErrCodeManifestLoad     = "E301" // Manifest could not be read or parsed
	ErrCodeManifestMismatch = "E302" // Registry differs from manifest
	ErrCodeScenarioDir      = "E401" // Scenarios directory missing or unreadable
	ErrCodeScenarioFailed   = "E402" // One or more scenarios failed
)

// codeForKind maps an invocation failure kind to its CLI error code.
func codeForKind(kind ir.ErrorKind) string {
	switch kind {
	case ir.ErrUsage:
		return ErrCodeUsage
	case ir.ErrClassNotFound:
		return ErrCodeClassNotFound
	case ir.ErrMethodNotFound:
		return ErrCodeMethodNotFound
	case ir.ErrBadArgument:
		return ErrCodeBadArgument
	case ir.ErrExecution:
		return ErrCodeExecution
	default:
		return ErrCodeGeneric
	}
}

// ExitError represents an error with a specific exit code.
// Commands write the error to the user before returning an ExitError, so
// callers only translate it into a process exit status.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Usage errors map to ExitCommandError; any other error that is not an
// ExitError maps to ExitFailure (1).
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if engine.IsUsageError(err) {
		return ExitCommandError
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Text-mode errors and verbose output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E202", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format. JSON goes to Writer so
// the response stays on one stream; text goes to ErrWriter.
func (f *OutputFormatter) Error(code, message string, details any) error {
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

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Fail writes the error and returns an ExitError carrying exitCode.
func (f *OutputFormatter) Fail(exitCode int, code, message string, details any) error {
	_ = f.Error(code, message, details)
	return NewExitError(exitCode, fmt.Sprintf("%s: %s", code, message))
}

// FailWith writes err under code and returns it wrapped in an ExitError
// carrying exitCode. An *engine.Error is written with its message only.
func (f *OutputFormatter) FailWith(exitCode int, code string, err error, details any) error {
	message := err.Error()
	var ee *engine.Error
	if errors.As(err, &ee) {
		message = ee.Message
	}
	_ = f.Error(code, message, details)
	return WrapExitError(exitCode, code, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
