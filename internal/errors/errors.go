// Package errors defines the error taxonomy shared by the pipeline stages.
//
// Only two kinds ever reach a caller: DecodeError, when the input bytes are
// not an image, and ValidationError, when settings are out of range.
// DetectorUnavailable is produced by detector wrappers and absorbed by the
// classifier and reporter, which treat it as "zero detections".
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeDecode              ErrorType = "decode"
	ErrorTypeDetectorUnavailable ErrorType = "detector_unavailable"
	ErrorTypeValidation          ErrorType = "validation"
	ErrorTypeProcessing          ErrorType = "processing"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates an error for input that is not a decodable image.
func NewDecodeError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeDecode, Message: message, Cause: cause}
}

// NewDetectorUnavailable creates an error for a detector that could not be
// initialized or failed at call time.
func NewDetectorUnavailable(detector string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDetectorUnavailable,
		Message: fmt.Sprintf("detector %q unavailable", detector),
		Cause:   cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, Cause: cause}
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeProcessing, Message: message, Cause: cause}
}

// IsType reports whether any error in err's chain is an AppError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}
