package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeSizeLimit         ErrorType = "size_limit"
	ErrorTypeNoPendingIntent   ErrorType = "no_pending_intent"
	ErrorTypeNoMergeSession    ErrorType = "no_merge_session"
	ErrorTypeInsufficientFiles ErrorType = "insufficient_merge_files"
	ErrorTypeEngine            ErrorType = "engine"
	ErrorTypeTimeout           ErrorType = "timeout"
	ErrorTypeBinaryNotFound    ErrorType = "binary_not_found"
	ErrorTypeConfig            ErrorType = "config"
	ErrorTypeIO                ErrorType = "io"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func SizeLimitError(message string) *DomainError {
	return NewError(ErrorTypeSizeLimit, message, nil)
}

func NoPendingIntentError() *DomainError {
	return NewError(ErrorTypeNoPendingIntent, "no pending intent for this user", nil)
}

func NoMergeSessionError() *DomainError {
	return NewError(ErrorTypeNoMergeSession, "no merge session for this user", nil)
}

func InsufficientMergeFilesError(have int) *DomainError {
	return NewError(ErrorTypeInsufficientFiles,
		fmt.Sprintf("merge needs at least 2 files, have %d", have), nil)
}

func EngineError(message string, err error) *DomainError {
	return NewError(ErrorTypeEngine, message, err)
}

func TimeoutError(message string, err error) *DomainError {
	return NewError(ErrorTypeTimeout, message, err)
}

func BinaryNotFoundError(binary string, err error) *DomainError {
	return NewError(ErrorTypeBinaryNotFound, fmt.Sprintf("required binary %q not found", binary), err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

// TypeOf returns the domain error type of err, or ErrorTypeEngine when err
// is not a DomainError. The dispatcher uses it to pick a user-visible notice
// without unwrapping engine internals.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ErrorTypeEngine
}
