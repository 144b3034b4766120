package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType names the rule a field broke.
type ValidationErrorType string

const (
	ErrorTypeRequired      ValidationErrorType = "required"
	ErrorTypeInvalidFormat ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue  ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange  ValidationErrorType = "invalid_range"
	ErrorTypeLimitExceeded ValidationErrorType = "limit_exceeded"
)

// FieldError is one broken rule. Value is kept for logs and never serialized.
type FieldError struct {
	Field   string              `json:"field"`
	Type    ValidationErrorType `json:"type"`
	Message string              `json:"message"`
	Value   interface{}         `json:"-"`
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError collects every field problem found in one input, so a
// caller sees all of them at once instead of fixing them one by one.
type ValidationError struct {
	Errors []FieldError
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: []FieldError{}}
}

func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation error"
	}
	parts := ve.collect(func(fe FieldError) string { return fe.Error() })
	if len(parts) == 1 {
		return parts[0]
	}
	return "multiple validation errors: " + strings.Join(parts, "; ")
}

// GetUserFriendlyMessage renders the field messages without field prefixes.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}
	lines := ve.collect(func(fe FieldError) string { return "- " + fe.Message })
	return "Multiple validation errors occurred:\n" + strings.Join(lines, "\n")
}

func (ve *ValidationError) collect(render func(FieldError) string) []string {
	out := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		out[i] = render(ve.Errors[i])
	}
	return out
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}

func (ve *ValidationError) HasErrors() bool { return len(ve.Errors) != 0 }

// Err returns ve when it holds errors and nil otherwise.
func (ve *ValidationError) Err() error {
	if !ve.HasErrors() {
		return nil
	}
	return ve
}

// Merge appends the field errors carried by err, if any.
func (ve *ValidationError) Merge(err error) {
	if other, ok := AsValidationError(err); ok {
		ve.Errors = append(ve.Errors, other.Errors...)
	}
}

func (ve *ValidationError) AddError(field string, t ValidationErrorType, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Type: t, Message: message, Value: value})
}

func (ve *ValidationError) AddRequiredError(field string) {
	ve.AddError(field, ErrorTypeRequired, field+" is required", nil)
}

func (ve *ValidationError) AddInvalidFormatError(field string, value interface{}, expected string) {
	ve.AddError(field, ErrorTypeInvalidFormat, field+" has invalid format, expected: "+expected, value)
}

// AddInvalidLengthError reports a length outside [min, max]. A zero bound is
// treated as absent.
func (ve *ValidationError) AddInvalidLengthError(field string, value interface{}, min, max int) {
	ve.AddError(field, ErrorTypeInvalidLength, field+" "+lengthRule(min, max), value)
}

func lengthRule(min, max int) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("must be between %d and %d characters long", min, max)
	case min > 0:
		return fmt.Sprintf("must be at least %d characters long", min)
	case max > 0:
		return fmt.Sprintf("must be at most %d characters long", max)
	}
	return "has invalid length"
}

func (ve *ValidationError) AddInvalidValueError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeInvalidValue, field+" has invalid value: "+reason, value)
}

func (ve *ValidationError) AddInvalidRangeError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeInvalidRange, field+" has invalid range: "+reason, value)
}

// AddLimitExceededError reports a value that would push a running total past
// its limit. reason is shown to the user as is.
func (ve *ValidationError) AddLimitExceededError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeLimitExceeded, reason, value)
}

// GetFieldErrors returns the errors recorded against field.
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}
