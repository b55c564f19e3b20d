package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes. Validation and parse failures are caller mistakes or bad
// local state; authentication, remote API and notification failures come
// from the external providers. Nothing is retried automatically.
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrAuthentication
	ErrRemoteAPI
	ErrNotification
	ErrParse
	ErrInternal
)

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Err:     err,
	}
}

func Authentication(err error) *AppError {
	return &AppError{
		Code:    ErrAuthentication,
		Message: "calendar authentication failed",
		Err:     err,
	}
}

func RemoteAPI(operation string, err error) *AppError {
	return &AppError{
		Code:    ErrRemoteAPI,
		Message: fmt.Sprintf("calendar %s failed", operation),
		Err:     err,
	}
}

func Notification(channel string, err error) *AppError {
	return &AppError{
		Code:    ErrNotification,
		Message: fmt.Sprintf("%s notification failed", channel),
		Err:     err,
	}
}

func Parse(message string, err error) *AppError {
	return &AppError{
		Code:    ErrParse,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// CodeOf extracts the ErrorCode from err, or ErrInternal when err is not
// an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
