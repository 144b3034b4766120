package validation

import (
	"fmt"

	"daylog/internal/domain"
)

// ActivityValidator provides validation for activity log operations
type ActivityValidator struct {
	validator *Validator
}

// NewActivityValidator creates a new activity validator
func NewActivityValidator(v *Validator) *ActivityValidator {
	if v == nil {
		v = NewValidator()
	}
	return &ActivityValidator{validator: v}
}

// ValidateDay checks the owner and date an activity list is scoped by
func (av *ActivityValidator) ValidateDay(userID, date string) error {
	ve := NewValidationError()
	if !av.validator.IsValidID(userID) {
		ve.AddRequiredError("user_id")
	}
	if !av.validator.IsValidDate(date) {
		ve.AddInvalidFormatError("date", date, domain.DateLayout)
	}
	return ve.Err()
}

// ValidateRange checks the owner and an inclusive date range
func (av *ActivityValidator) ValidateRange(userID, from, to string) error {
	ve := NewValidationError()
	if !av.validator.IsValidID(userID) {
		ve.AddRequiredError("user_id")
	}
	start, errFrom := domain.ParseDate(from)
	if errFrom != nil {
		ve.AddInvalidFormatError("from", from, domain.DateLayout)
	}
	end, errTo := domain.ParseDate(to)
	if errTo != nil {
		ve.AddInvalidFormatError("to", to, domain.DateLayout)
	}
	if errFrom == nil && errTo == nil && !av.validator.IsValidDateRange(start, end) {
		ve.AddInvalidRangeError("to", to, "must not be before from")
	} else if errFrom == nil && errTo == nil {
		if days := int((end.Unix()-start.Unix())/86400) + 1; days > av.validator.MaxRangeDays() {
			ve.AddLimitExceededError("to", to,
				fmt.Sprintf("range spans %d days, at most %d are allowed", days, av.validator.MaxRangeDays()))
		}
	}
	return ve.Err()
}

// ValidateInput validates a new activity
func (av *ActivityValidator) ValidateInput(input domain.ActivityInput) error {
	ve := NewValidationError()
	av.validator.validateTitle(ve, "title", input.Title)
	av.validateCategory(ve, input.Category)
	av.validateDuration(ve, input.Duration)
	return ve.Err()
}

// ValidatePatch validates the fields present in a partial update
func (av *ActivityValidator) ValidatePatch(patch domain.ActivityPatch) error {
	ve := NewValidationError()
	if patch.IsEmpty() {
		ve.AddRequiredError("patch")
		return ve
	}
	if patch.Title != nil {
		av.validator.validateTitle(ve, "title", *patch.Title)
	}
	if patch.Category != nil {
		av.validateCategory(ve, *patch.Category)
	}
	if patch.Duration != nil {
		av.validateDuration(ve, *patch.Duration)
	}
	return ve.Err()
}

// ValidateDayBudget checks that adding duration minutes to the minutes already
// logged for the day stays within a single day. For updates, logged must
// exclude the activity being edited.
func (av *ActivityValidator) ValidateDayBudget(logged, duration int) error {
	if logged+duration <= domain.MinutesPerDay {
		return nil
	}
	remaining := domain.MinutesPerDay - logged
	if remaining < 0 {
		remaining = 0
	}
	ve := NewValidationError()
	ve.AddLimitExceededError("duration", duration,
		fmt.Sprintf("total time cannot exceed 24 hours (1440 minutes); %d minutes remaining", remaining))
	return ve
}

func (av *ActivityValidator) validateCategory(ve *ValidationError, c domain.Category) {
	if c == "" {
		ve.AddRequiredError("category")
		return
	}
	if !c.IsValid() {
		ve.AddInvalidValueError("category", c, fmt.Sprintf("must be one of %v", domain.Categories()))
	}
}

func (av *ActivityValidator) validateDuration(ve *ValidationError, minutes int) {
	if minutes <= 0 {
		ve.AddInvalidValueError("duration", minutes, "must be a positive number of minutes")
		return
	}
	if minutes > domain.MinutesPerDay {
		ve.AddInvalidRangeError("duration", minutes, "cannot exceed 1440 minutes")
	}
}
