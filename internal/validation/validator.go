package validation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"daylog/internal/config"
	"daylog/internal/domain"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string's rune count is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTitleLength checks a title against the configured limits
func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsValidStringLength(title, v.TitleMinLength(), v.TitleMaxLength())
}

// HasControlCharacters reports whether s contains newlines, tabs or other control runes
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// IsValidID checks that an identifier is present
func (v *Validator) IsValidID(id string) bool {
	return v.IsNonEmptyString(id)
}

// IsValidDate checks a YYYY-MM-DD date
func (v *Validator) IsValidDate(s string) bool {
	_, err := domain.ParseDate(s)
	return err == nil
}

// IsValidDateRange checks if a date range is logical
func (v *Validator) IsValidDateRange(from, to time.Time) bool {
	return !to.Before(from)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// TitleMinLength returns configured minimum title length or default
func (v *Validator) TitleMinLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMinLength
	}
	return 1
}

// TitleMaxLength returns configured maximum title length or default
func (v *Validator) TitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 255
}

// MaxTimerSeconds returns the longest allowed countdown
func (v *Validator) MaxTimerSeconds() int {
	if v.config != nil {
		return v.config.Validation.MaxTimerMinutes * 60
	}
	return 24 * 60 * 60
}

// MaxRangeDays returns the longest inclusive date range a report may span
func (v *Validator) MaxRangeDays() int {
	if v.config != nil {
		return v.config.Validation.MaxRangeDays
	}
	return 366
}

// validateTitle reports problems with a required free-text field into ve.
func (v *Validator) validateTitle(ve *ValidationError, field, value string) {
	trimmed := v.TrimAndValidateString(value)
	if !v.IsNonEmptyString(trimmed) {
		ve.AddRequiredError(field)
		return
	}
	if !v.IsValidTitleLength(trimmed) {
		ve.AddInvalidLengthError(field, trimmed, v.TitleMinLength(), v.TitleMaxLength())
	}
	if v.HasControlCharacters(trimmed) {
		ve.AddInvalidValueError(field, trimmed, "must not contain control characters")
	}
}
