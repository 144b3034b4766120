// Package errors defines the typed application errors shared by the stores,
// services and adapters.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is.
var (
	ErrNotFound          = sentinel(ErrorTypeNotFound)
	ErrConflict          = sentinel(ErrorTypeConflict)
	ErrRemoteUnavailable = sentinel(ErrorTypeRemoteUnavailable)
)

func sentinel(t ErrorType) *AppError {
	return &AppError{Type: t, Code: t.kind().code}
}

// newError builds an AppError of type t. ctx is a flat list of key, value pairs.
func newError(t ErrorType, cause error, msg string, ctx ...interface{}) *AppError {
	e := &AppError{Type: t, Code: t.kind().code, Message: msg, Cause: cause}
	for i := 0; i+1 < len(ctx); i += 2 {
		e.WithContext(ctx[i].(string), ctx[i+1])
	}
	return e
}

func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, cause, message)
}

func NewNotFoundError(resource, identifier string) *AppError {
	return newError(ErrorTypeNotFound, nil, resource+" not found: "+identifier,
		"resource", resource, "identifier", identifier)
}

// NewConflictError reports an identifier that is taken now or was taken by a
// record that has since been deleted.
func NewConflictError(resource, identifier string) *AppError {
	return newError(ErrorTypeConflict, nil, resource+" already exists: "+identifier,
		"resource", resource, "identifier", identifier)
}

func NewDatabaseError(operation string, cause error) *AppError {
	return newError(ErrorTypeDatabase, cause, "database operation failed: "+operation,
		"operation", operation)
}

// NewRemoteUnavailableError wraps a connection, auth or driver failure from
// the hosted table store.
func NewRemoteUnavailableError(operation string, cause error) *AppError {
	return newError(ErrorTypeRemoteUnavailable, cause, "remote store unavailable: "+operation,
		"operation", operation)
}

func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return newError(ErrorTypeInvalidInput, nil, fmt.Sprintf("invalid input for %s: %s", field, reason),
		"field", field, "value", value, "reason", reason)
}

func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return newError(ErrorTypeTimeout, nil, "operation timed out: "+operation,
		"operation", operation, "timeout", timeout)
}

func NewPermissionError(operation, resource string) *AppError {
	return newError(ErrorTypePermission, nil, fmt.Sprintf("permission denied for %s on %s", operation, resource),
		"operation", operation, "resource", resource)
}

// WrapError attaches err to a new AppError whose code is the type name.
func WrapError(err error, t ErrorType, message string) *AppError {
	e := newError(t, err, message)
	e.Code = t.String()
	return e
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// IsErrorType reports whether err wraps an AppError of type t.
func IsErrorType(err error, t ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(t)
}

func IsNotFound(err error) bool { return IsErrorType(err, ErrorTypeNotFound) }

func IsRemoteUnavailable(err error) bool { return IsErrorType(err, ErrorTypeRemoteUnavailable) }

// GetUserMessage returns text suitable for an end user. Internal failures
// get a fixed message; errors that are not AppErrors are returned as is.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	if text := appErr.Type.kind().userText; text != "" {
		return text
	}
	return appErr.Message
}

func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError is false for errors caused by the caller's input.
func ShouldLogError(err error) bool {
	appErr, ok := AsAppError(err)
	return !ok || !appErr.Type.kind().expected
}
