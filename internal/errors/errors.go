// Package errors provides a lightweight structured error type (RefgenError)
// for category-based classification across the generation pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a refgen error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig ErrorCategory = "config"
	CategorySpec   ErrorCategory = "spec"

	// External input errors
	CategorySymbolDB ErrorCategory = "symboldb"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the affected spec document
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// RefgenError is a structured error with category, severity, and context
type RefgenError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for RefgenError
type ContextFields map[string]any

// Error implements the error interface
func (e *RefgenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *RefgenError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *RefgenError) WithContext(key string, value any) *RefgenError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new RefgenError
func New(category ErrorCategory, severity ErrorSeverity, message string) *RefgenError {
	return &RefgenError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new RefgenError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *RefgenError {
	return &RefgenError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory reports whether err is a RefgenError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	re, ok := err.(*RefgenError)
	return ok && re.Category == category
}
