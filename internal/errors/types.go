package errors

import (
	"fmt"
	"strings"
)

// ErrorType classifies an AppError.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypePermission
	ErrorTypeConflict
	ErrorTypeRemoteUnavailable
)

// kind holds the fixed attributes of an ErrorType. An empty userText means
// the error's own message is safe to show.
type kind struct {
	name     string
	code     string
	userText string
	expected bool
}

var kinds = map[ErrorType]kind{
	ErrorTypeValidation:        {name: "validation", code: "VALIDATION_FAILED", expected: true},
	ErrorTypeNotFound:          {name: "not_found", code: "NOT_FOUND", expected: true},
	ErrorTypeDatabase:          {name: "database", code: "DATABASE_ERROR", userText: "A database error occurred. Please try again."},
	ErrorTypeInvalidInput:      {name: "invalid_input", code: "INVALID_INPUT", expected: true},
	ErrorTypeTimeout:           {name: "timeout", code: "TIMEOUT", userText: "The operation timed out. Please try again."},
	ErrorTypePermission:        {name: "permission", code: "PERMISSION_DENIED"},
	ErrorTypeConflict:          {name: "conflict", code: "CONFLICT", expected: true},
	ErrorTypeRemoteUnavailable: {name: "remote_unavailable", code: "REMOTE_UNAVAILABLE", userText: "The remote store is unavailable. Your changes were not saved."},
}

func (et ErrorType) kind() kind {
	if k, ok := kinds[et]; ok {
		return k
	}
	return kind{name: "unknown", code: "UNKNOWN_ERROR", userText: "An unexpected error occurred. Please try again."}
}

func (et ErrorType) String() string {
	return et.kind().name
}

// AppError is the error value returned across package boundaries. Context
// carries structured details for logs and API responses.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is compares type and code only, so the package sentinels match any
// constructed error of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Type == e.Type && t.Code == e.Code
}

// IsType reports whether e has type t.
func (e *AppError) IsType(t ErrorType) bool { return e.Type == t }

// WithContext records key=value on e and returns e for chaining.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = map[string]interface{}{}
	}
	e.Context[key] = value
	return e
}

// GetContext looks up a value recorded with WithContext.
func (e *AppError) GetContext(key string) (interface{}, bool) {
	v, ok := e.Context[key]
	return v, ok
}
