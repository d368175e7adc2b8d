package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified pipeline error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// ExitCode is the process exit code the driver reports for this error.
	ExitCode int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with the exit code derived from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: ExitCodeFor(code),
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// --- Common Error Constructors ---

// InvalidArgument creates a new AppError for a nil or missing required input.
func InvalidArgument(name string) *AppError {
	return New(ErrCodeInvalidArgument, fmt.Sprintf("invalid argument: %s", name)).
		WithDetail("argument", name)
}

// InvalidStream creates a new AppError for a stage executed without its stream bound.
func InvalidStream(stage, direction string) *AppError {
	return New(ErrCodeInvalidStream, fmt.Sprintf("%s has no %s stream bound", stage, direction)).
		WithDetails(map[string]any{"stage": stage, "direction": direction})
}

// ConfigGrammar creates a new AppError for a configuration file that breaks its grammar.
func ConfigGrammar(file string, line int, reason string) *AppError {
	details := map[string]any{"reason": reason}
	if file != "" {
		details["file"] = file
	}
	if line > 0 {
		details["line"] = line
	}
	return New(ErrCodeConfigGrammar, fmt.Sprintf("config grammar error: %s", reason)).WithDetails(details)
}

// ConfigSemantic creates a new AppError for an invalid configuration value.
func ConfigSemantic(field, reason string) *AppError {
	e := New(ErrCodeConfigSemantic, fmt.Sprintf("invalid value for %s: %s", field, reason))
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// StageNotFound creates a new AppError for a stage name missing from the registry.
func StageNotFound(name string) *AppError {
	return New(ErrCodeStageNotFound, fmt.Sprintf("no stage registered under %q", name)).
		WithDetail("stage", name)
}

// PipelineConstruction creates a new AppError for a chain that cannot be wired.
func PipelineConstruction(reason string) *AppError {
	return New(ErrCodePipelineConstruction, reason)
}

// IORead creates a new AppError for a failing byte source.
func IORead(stage string, cause error) *AppError {
	return New(ErrCodeIORead, fmt.Sprintf("%s failed to read input", stage)).
		WithDetail("stage", stage).WithCause(cause)
}

// IOWrite creates a new AppError for a failing byte sink.
func IOWrite(stage string, cause error) *AppError {
	return New(ErrCodeIOWrite, fmt.Sprintf("%s failed to write output", stage)).
		WithDetail("stage", stage).WithCause(cause)
}

// Canceled creates a new AppError for a run interrupted by its context.
func Canceled(cause error) *AppError {
	return New(ErrCodeCanceled, "pipeline run canceled").WithCause(cause)
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "an unexpected error occurred").WithCause(cause)
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost AppError in err's chain,
// or ErrCodeInternal when err carries none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// Wrap returns err as an AppError, keeping an existing AppError unchanged
// and wrapping anything else as internal. Returns nil for a nil error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
