package validation

import (
	"fmt"

	"daylog/internal/domain"
)

// TimerValidator provides validation for countdown timers
type TimerValidator struct {
	validator *Validator
}

// NewTimerValidator creates a new timer validator
func NewTimerValidator(v *Validator) *TimerValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TimerValidator{validator: v}
}

// ValidateTimer validates a timer name, length in seconds and category
func (tv *TimerValidator) ValidateTimer(name string, seconds int, category domain.TimerCategory) error {
	ve := NewValidationError()
	tv.validator.validateTitle(ve, "name", name)

	switch max := tv.validator.MaxTimerSeconds(); {
	case seconds <= 0:
		ve.AddInvalidValueError("duration", seconds, "must be greater than zero")
	case seconds > max:
		ve.AddInvalidRangeError("duration", seconds, fmt.Sprintf("cannot exceed %d minutes", max/60))
	}

	if !category.IsValid() {
		ve.AddInvalidValueError("category", category, fmt.Sprintf("must be one of %v", domain.TimerCategories()))
	}
	return ve.Err()
}
