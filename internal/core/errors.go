package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Invalid configuration or input
	ErrCatAuth       ErrorCategory = "auth"       // Missing/invalid provider credentials
	ErrCatNetwork    ErrorCategory = "network"    // Backend connectivity failure
	ErrCatExecution  ErrorCategory = "execution"  // Agent runtime failure
	ErrCatParse      ErrorCategory = "parse"      // Malformed model output
	ErrCatPipeline   ErrorCategory = "pipeline"   // Whole-run failure (every agent errored)
)

// DomainError is a structured error from the review pipeline.
//
// Only validation and auth errors abort a run; everything else is absorbed
// at a component boundary (parser fallback, per-agent error field) so a
// partial report is always preferred over a total abort.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on category and code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{Category: ErrCatValidation, Code: code, Message: message}
}

// ErrAuth creates a credentials error.
func ErrAuth(code, message string) *DomainError {
	return &DomainError{Category: ErrCatAuth, Code: code, Message: message}
}

// ErrNetwork creates a connectivity error.
func ErrNetwork(code, message string) *DomainError {
	return &DomainError{Category: ErrCatNetwork, Code: code, Message: message}
}

// ErrExecution creates an agent execution error.
func ErrExecution(code, message string) *DomainError {
	return &DomainError{Category: ErrCatExecution, Code: code, Message: message}
}

// ErrPipeline creates a whole-run failure error.
func ErrPipeline(code, message string) *DomainError {
	return &DomainError{Category: ErrCatPipeline, Code: code, Message: message}
}

// Error codes used across the pipeline.
const (
	CodeUnknownProvider    = "UNKNOWN_PROVIDER"
	CodeMissingCredentials = "MISSING_CREDENTIALS"
	CodeAllAgentsFailed    = "ALL_AGENTS_FAILED"
	CodeNoFiles            = "NO_FILES"
	CodeBackendStatus      = "BACKEND_STATUS"
	CodeEmptyResponse      = "EMPTY_RESPONSE"
)

// ErrAllAgentsFailed is the sentinel for a run where no agent produced a
// usable result. Distinct from "completed with zero findings".
var ErrAllAgentsFailed = ErrPipeline(CodeAllAgentsFailed, "all agents failed to execute")

// IsConfigError reports whether err should abort the run before any file is
// processed (fail-fast class: validation and auth).
func IsConfigError(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Category == ErrCatValidation || de.Category == ErrCatAuth
}
