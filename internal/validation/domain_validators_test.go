package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daylog/internal/domain"
	"daylog/internal/errors"
)

func firstType(t *testing.T, err error) ValidationErrorType {
	t.Helper()
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %T", err)
	require.NotEmpty(t, ve.Errors)
	return ve.Errors[0].Type
}

func TestActivityValidator_ValidateInput(t *testing.T) {
	v := NewActivityValidator(nil)

	tests := []struct {
		name     string
		input    domain.ActivityInput
		wantType ValidationErrorType
	}{
		{"valid", domain.ActivityInput{Title: "Read", Category: domain.CategoryStudy, Duration: 45}, ""},
		{"empty title", domain.ActivityInput{Title: "  ", Category: domain.CategoryStudy, Duration: 45}, ErrorTypeRequired},
		{"title too long", domain.ActivityInput{Title: strings.Repeat("x", 256), Category: domain.CategoryWork, Duration: 45}, ErrorTypeInvalidLength},
		{"missing category", domain.ActivityInput{Title: "Read", Duration: 45}, ErrorTypeRequired},
		{"unknown category", domain.ActivityInput{Title: "Read", Category: "Gaming", Duration: 45}, ErrorTypeInvalidValue},
		{"zero duration", domain.ActivityInput{Title: "Read", Category: domain.CategoryStudy}, ErrorTypeInvalidValue},
		{"negative duration", domain.ActivityInput{Title: "Read", Category: domain.CategoryStudy, Duration: -5}, ErrorTypeInvalidValue},
		{"longer than a day", domain.ActivityInput{Title: "Read", Category: domain.CategoryStudy, Duration: 1441}, ErrorTypeInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInput(tt.input)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantType, firstType(t, err))
		})
	}
}

func TestActivityValidator_ValidatePatch(t *testing.T) {
	v := NewActivityValidator(nil)

	assert.Equal(t, ErrorTypeRequired, firstType(t, v.ValidatePatch(domain.ActivityPatch{})))

	d := 0
	assert.Equal(t, ErrorTypeInvalidValue, firstType(t, v.ValidatePatch(domain.ActivityPatch{Duration: &d})))

	title := "Nap"
	assert.NoError(t, v.ValidatePatch(domain.ActivityPatch{Title: &title}))
}

func TestActivityValidator_ValidateDayBudget(t *testing.T) {
	v := NewActivityValidator(nil)

	assert.NoError(t, v.ValidateDayBudget(0, 1440))
	assert.NoError(t, v.ValidateDayBudget(1400, 40))

	err := v.ValidateDayBudget(1400, 41)
	assert.Equal(t, ErrorTypeLimitExceeded, firstType(t, err))
	assert.Contains(t, err.Error(), "40 minutes remaining")
}

func TestActivityValidator_ValidateDay(t *testing.T) {
	v := NewActivityValidator(nil)

	assert.NoError(t, v.ValidateDay("u1", "2024-03-01"))

	ve, ok := AsValidationError(v.ValidateDay("", "March 1"))
	require.True(t, ok)
	assert.Len(t, ve.Errors, 2)
}

func TestActivityValidator_ValidateRange(t *testing.T) {
	v := NewActivityValidator(nil)

	assert.NoError(t, v.ValidateRange("u1", "2024-03-01", "2024-03-01"))
	assert.NoError(t, v.ValidateRange("u1", "2024-03-01", "2024-03-31"))
	assert.Equal(t, ErrorTypeInvalidRange, firstType(t, v.ValidateRange("u1", "2024-03-02", "2024-03-01")))
	assert.Equal(t, ErrorTypeInvalidFormat, firstType(t, v.ValidateRange("u1", "yesterday", "2024-03-01")))
	assert.NoError(t, v.ValidateRange("u1", "2024-01-01", "2024-12-31"))
	assert.Equal(t, ErrorTypeLimitExceeded, firstType(t, v.ValidateRange("u1", "2024-01-01", "2025-01-01")))
}

func TestTodoValidator(t *testing.T) {
	v := NewTodoValidator(nil)

	assert.NoError(t, v.ValidateTitle("Buy milk"))
	assert.Equal(t, ErrorTypeRequired, firstType(t, v.ValidateTitle("")))
	assert.Equal(t, ErrorTypeInvalidValue, firstType(t, v.ValidateTitle("two\nlines")))
	assert.NoError(t, v.ValidateOwner("u1"))
	assert.Error(t, v.ValidateOwner(" "))
}

func TestTimerValidator(t *testing.T) {
	v := NewTimerValidator(nil)

	assert.NoError(t, v.ValidateTimer("Pomodoro", 1500, domain.TimerWork))
	assert.Equal(t, ErrorTypeRequired, firstType(t, v.ValidateTimer("", 1500, domain.TimerWork)))
	assert.Equal(t, ErrorTypeInvalidValue, firstType(t, v.ValidateTimer("x", 0, domain.TimerWork)))
	assert.Equal(t, ErrorTypeInvalidRange, firstType(t, v.ValidateTimer("x", 24*3600+1, domain.TimerWork)))
	assert.Equal(t, ErrorTypeInvalidValue, firstType(t, v.ValidateTimer("x", 60, "napping")))
}

func TestBookValidator(t *testing.T) {
	v := NewBookValidator(nil)
	image := "https://example.com/cover.jpg"

	assert.NoError(t, v.ValidateBook("Dune", "Frank Herbert", 9.99, image))

	ve, ok := AsValidationError(v.ValidateBook("", "", 0, ""))
	require.True(t, ok)
	assert.Len(t, ve.Errors, 4, "every missing field is reported")

	assert.Equal(t, ErrorTypeInvalidValue, firstType(t, v.ValidateBook("Dune", "Frank Herbert", -1, image)))
	assert.Equal(t, ErrorTypeInvalidFormat, firstType(t, v.ValidateBook("Dune", "Frank Herbert", 5, "cover.jpg")))
}

func TestProfileValidator_ValidateRoleChange(t *testing.T) {
	v := NewProfileValidator(nil)
	admin := domain.Profile{ID: "a", Role: domain.RoleAdmin}
	user := domain.Profile{ID: "u", Role: domain.RoleUser}

	assert.NoError(t, v.ValidateRoleChange(admin, user, domain.RoleAdmin))

	err := v.ValidateRoleChange(admin, admin, domain.RoleUser)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))

	err = v.ValidateRoleChange(user, admin, domain.RoleUser)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))

	assert.True(t, IsValidationError(v.ValidateRoleChange(admin, user, "owner")))
}
