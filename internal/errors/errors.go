// Package errors defines the application error taxonomy and its reporting.
package errors

import (
	"errors"
	"fmt"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	CodeValidation      = "E100"
	CodeInternal        = "E200"
	CodeExternalService = "E300"
	CodeState           = "E400"
)

const genericUserMessage = "❌ Something went wrong! Please try again."

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewValidationError reports malformed or out-of-range input. msg is shown to the user as is.
func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        CodeValidation,
		Message:     msg,
		UserMessage: msg,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewInternalError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        CodeInternal,
		Message:     fmt.Sprintf("internal error: %s", underlyingMsg),
		UserMessage: genericUserMessage,
		Severity:    SeverityHigh,
		Retryable:   false,
		cause:       cause,
	}
}

// NewExternalServiceError wraps a failure of a remote collaborator such as the chat completion API.
func NewExternalServiceError(service string, cause error) *AppError {
	msg := fmt.Sprintf("external service error: %s", service)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}

	return &AppError{
		Code:        CodeExternalService,
		Message:     msg,
		UserMessage: "The service is temporarily unavailable. Try again later!",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

func NewStateError(msg string) *AppError {
	return &AppError{
		Code:        CodeState,
		Message:     msg,
		UserMessage: msg,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Code == code
	}

	return false
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return HasCode(err, CodeValidation)
}

// IsExternalService reports whether err is a remote collaborator failure.
func IsExternalService(err error) bool {
	return HasCode(err, CodeExternalService)
}
