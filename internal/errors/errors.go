// Package errors provides a lightweight structured error type (NileError)
// for category-based classification in the CLI and compile driver.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a nile error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Compile pipeline errors
	CategoryHook       ErrorCategory = "hook"
	CategoryCompiler   ErrorCategory = "compiler"
	CategoryFileSystem ErrorCategory = "filesystem"

	// External system integration errors
	CategoryEvents ErrorCategory = "events"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// NileError is a structured error with category, severity, and context
type NileError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for NileError
type ContextFields map[string]any

// Error implements the error interface
func (e *NileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for errors.Is / errors.As
func (e *NileError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *NileError) WithContext(key string, value any) *NileError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new NileError
func New(category ErrorCategory, severity ErrorSeverity, message string) *NileError {
	return &NileError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new NileError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *NileError {
	return &NileError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// WrapError wraps an existing error with an error-severity NileError
func WrapError(err error, category ErrorCategory, message string) *NileError {
	return Wrap(err, category, SeverityError, message)
}

// As extracts the outermost NileError from an error chain.
func As(err error) (*NileError, bool) {
	var ne *NileError
	if stderrors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// IsCategory checks if an error chain carries a NileError of a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if ne, ok := As(err); ok {
		return ne.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a NileError
func GetCategory(err error) ErrorCategory {
	if ne, ok := As(err); ok {
		return ne.Category
	}
	return CategoryInternal
}
