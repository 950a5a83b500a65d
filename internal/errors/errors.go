// Package errors provides categorized error types for the catalog engine.
package errors

import (
	"errors"
	"fmt"
	"os"
)

// ErrorType categorizes errors for handling decisions.
type ErrorType int

const (
	// Unknown is an uncategorized error.
	Unknown ErrorType = iota
	// MalformedURL represents an observation whose URL could not be
	// normalized. These are skipped, never fatal to a merge.
	MalformedURL
	// Decode represents a malformed input or stored document.
	Decode
	// Persistence represents catalog store I/O failures.
	Persistence
	// NotFound represents a missing stored catalog or snapshot.
	NotFound
)

// String returns the string representation of ErrorType.
func (t ErrorType) String() string {
	switch t {
	case MalformedURL:
		return "malformed_url"
	case Decode:
		return "decode"
	case Persistence:
		return "persistence"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// MapError represents a categorized catalog engine error.
type MapError struct {
	Type      ErrorType
	Subject   string // URL, path, or snapshot label the error concerns
	Operation string
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *MapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error during %s on %s: %s (caused by: %v)",
			e.Type.String(), e.Operation, e.Subject, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error during %s on %s: %s",
		e.Type.String(), e.Operation, e.Subject, e.Message)
}

// Unwrap returns the underlying error.
func (e *MapError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches a target by type.
func (e *MapError) Is(target error) bool {
	t, ok := target.(*MapError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// New creates a new MapError.
func New(errType ErrorType, subject, operation, message string, cause error) *MapError {
	return &MapError{
		Type:      errType,
		Subject:   subject,
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

// NewMalformedURL creates a malformed URL error.
func NewMalformedURL(url string, cause error) *MapError {
	return New(MalformedURL, url, "normalize", "URL could not be normalized", cause)
}

// NewDecode creates a decode error.
func NewDecode(path string, cause error) *MapError {
	return New(Decode, path, "decode", "document could not be decoded", cause)
}

// NewPersistence creates a persistence error.
func NewPersistence(path, operation string, cause error) *MapError {
	return New(Persistence, path, operation, "store operation failed", cause)
}

// NewNotFound creates a not found error.
func NewNotFound(subject, operation string) *MapError {
	return New(NotFound, subject, operation, "no such catalog", nil)
}

// Categorize determines the error type from a generic error.
func Categorize(err error, subject string) *MapError {
	if err == nil {
		return nil
	}

	var mapErr *MapError
	if errors.As(err, &mapErr) {
		return mapErr
	}

	if os.IsNotExist(err) {
		return NewNotFound(subject, "load")
	}

	return New(Unknown, subject, "catalog", err.Error(), err)
}

// GetErrorType extracts the error type from an error.
func GetErrorType(err error) ErrorType {
	var mapErr *MapError
	if errors.As(err, &mapErr) {
		return mapErr.Type
	}
	return Unknown
}

// IsMalformedURL checks whether an error is a malformed URL error.
func IsMalformedURL(err error) bool {
	return GetErrorType(err) == MalformedURL
}

// IsNotFound checks whether an error is a not found error.
func IsNotFound(err error) bool {
	return GetErrorType(err) == NotFound
}

// IsPersistence checks whether an error is a persistence error.
func IsPersistence(err error) bool {
	return GetErrorType(err) == Persistence
}
