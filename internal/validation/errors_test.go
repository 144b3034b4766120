package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		expected string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "title", Message: "is required"}}, "validation error for field 'title': is required"},
		{"Multiple errors", []FieldError{
			{Field: "title", Message: "is required"},
			{Field: "duration", Message: "must be positive"},
		}, "multiple validation errors: validation error for field 'title': is required; validation error for field 'duration': must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			assert.Equal(t, tt.expected, ve.Error())
		})
	}
}

func TestValidationError_Err(t *testing.T) {
	ve := NewValidationError()
	assert.NoError(t, ve.Err())

	ve.AddRequiredError("title")
	assert.Same(t, ve, ve.Err())
}

func TestValidationError_AddHelpers(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("title")
	ve.AddInvalidFormatError("date", "2023-13-01", "YYYY-MM-DD")
	ve.AddInvalidLengthError("title", "a", 2, 50)
	ve.AddInvalidValueError("duration", -1, "must be positive")
	ve.AddInvalidRangeError("range", "b..a", "end must not be before start")
	ve.AddLimitExceededError("duration", 90, "only 30 minutes remain")

	require.Len(t, ve.Errors, 6)
	assert.Equal(t, ErrorTypeRequired, ve.Errors[0].Type)
	assert.Contains(t, ve.Errors[1].Message, "YYYY-MM-DD")
	assert.Contains(t, ve.Errors[2].Message, "between 2 and 50")
	assert.Contains(t, ve.Errors[3].Message, "must be positive")
	assert.Equal(t, ErrorTypeInvalidRange, ve.Errors[4].Type)
	assert.Equal(t, "only 30 minutes remain", ve.Errors[5].Message)

	assert.Len(t, ve.GetFieldErrors("title"), 2)
	assert.Len(t, ve.GetFieldErrors("duration"), 2)
	assert.Empty(t, ve.GetFieldErrors("missing"))
}

func TestValidationError_InvalidLengthMessages(t *testing.T) {
	tests := []struct {
		min, max int
		want     string
	}{
		{1, 10, "title must be between 1 and 10 characters long"},
		{3, 0, "title must be at least 3 characters long"},
		{0, 5, "title must be at most 5 characters long"},
		{0, 0, "title has invalid length"},
	}
	for _, tt := range tests {
		ve := NewValidationError()
		ve.AddInvalidLengthError("title", "", tt.min, tt.max)
		assert.Equal(t, tt.want, ve.Errors[0].Message)
	}
}

func TestValidationError_Merge(t *testing.T) {
	a := NewValidationError()
	a.AddRequiredError("title")
	b := NewValidationError()
	b.AddRequiredError("author")

	a.Merge(b)
	a.Merge(fmt.Errorf("not a validation error"))
	a.Merge(nil)

	assert.Len(t, a.Errors, 2)
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	ve := &ValidationError{}
	assert.Equal(t, "Input validation failed", ve.GetUserFriendlyMessage())

	ve.AddRequiredError("title")
	assert.Equal(t, "title is required", ve.GetUserFriendlyMessage())

	ve.AddRequiredError("author")
	assert.Equal(t, "Multiple validation errors occurred:\n- title is required\n- author is required", ve.GetUserFriendlyMessage())
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("title")

	assert.True(t, IsValidationError(ve))
	assert.True(t, IsValidationError(fmt.Errorf("add activity: %w", ve)))
	assert.False(t, IsValidationError(&FieldError{Field: "x"}))
	assert.False(t, IsValidationError(nil))
}
