package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies the failures a batch run can surface
type ErrorType string

const (
	ErrorTypeInvalidRange    ErrorType = "invalid_range"
	ErrorTypeCheckpointRead  ErrorType = "checkpoint_read"
	ErrorTypeCheckpointWrite ErrorType = "checkpoint_write"
	ErrorTypePipeline        ErrorType = "pipeline"
	ErrorTypeUpload          ErrorType = "upload"
	ErrorTypeConfig          ErrorType = "config"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// Error carries the failure class alongside the underlying cause
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without an underlying cause
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates a typed error around an underlying cause
func Wrap(errorType ErrorType, message string, err error) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// TypeOf returns the classification of err, or ErrorTypeUnknown when err
// carries no type information
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err is classified as errorType
func IsType(err error, errorType ErrorType) bool {
	return TypeOf(err) == errorType
}

// IsRetryable checks if an error type should be retried. Only transient
// transport failures qualify; processing and range errors never do.
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeUpload:
		return true
	case ErrorTypeInvalidRange, ErrorTypeCheckpointRead, ErrorTypeCheckpointWrite, ErrorTypePipeline, ErrorTypeConfig:
		return false
	default:
		return false
	}
}
