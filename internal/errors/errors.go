// Package errors provides the structured error type (BuildError) used for
// category-based classification across the build pipeline and CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a build error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content processing errors
	CategoryFrontMatter ErrorCategory = "frontmatter"
	CategoryRender      ErrorCategory = "render"
	CategoryCollision   ErrorCategory = "collision"

	// Source and destination errors
	CategorySource     ErrorCategory = "source"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the build
	SeverityWarning ErrorSeverity = "warning" // Recorded, build continues
)

// BuildError is a structured error with category, severity, and context
type BuildError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for BuildError
type ContextFields map[string]any

// Error implements the error interface
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
	if p, ok := e.Context["path"]; ok {
		msg = fmt.Sprintf("%s: %v", msg, p)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// Path returns the offending source or destination path, if recorded.
func (e *BuildError) Path() string {
	if p, ok := e.Context["path"]; ok {
		return fmt.Sprint(p)
	}
	return ""
}

// New creates a new BuildError
func New(category ErrorCategory, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new BuildError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error (or any error it wraps) belongs to a
// specific category.
func IsCategory(err error, category ErrorCategory) bool {
	var be *BuildError
	if stderrors.As(err, &be) {
		return be.Category == category
	}
	return false
}

// GetCategory extracts the category from an error chain, or returns
// CategoryInternal when no BuildError is present.
func GetCategory(err error) ErrorCategory {
	var be *BuildError
	if stderrors.As(err, &be) {
		return be.Category
	}
	return CategoryInternal
}

// AsBuildError extracts a BuildError from an error chain.
func AsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	ok := stderrors.As(err, &be)
	return be, ok
}
