package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	ErrInternal      ErrorCode = "INTERNAL_ERROR"
	ErrConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrValidation    ErrorCode = "VALIDATION_ERROR"
	ErrPersistence   ErrorCode = "PERSISTENCE_ERROR"
	ErrLockHeld      ErrorCode = "LOCK_HELD"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewConfigurationError reports seed configuration that can never succeed,
// such as a batch referencing a category nobody created.
func NewConfigurationError(message string) *DomainError {
	return NewError(ErrConfiguration, message, nil)
}

func NewValidationError(message string) *DomainError {
	return NewError(ErrValidation, message, nil)
}

func NewPersistenceError(message string, err error) *DomainError {
	return NewError(ErrPersistence, message, err)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewLockHeldError(key string) *DomainError {
	return NewError(ErrLockHeld, fmt.Sprintf("seed lock %q is held by another run", key), nil)
}

// CodeOf returns the code of the first DomainError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func IsConfigurationError(err error) bool { return CodeOf(err) == ErrConfiguration }

func IsValidationError(err error) bool { return CodeOf(err) == ErrValidation }

func IsPersistenceError(err error) bool { return CodeOf(err) == ErrPersistence }

func IsLockHeldError(err error) bool { return CodeOf(err) == ErrLockHeld }
