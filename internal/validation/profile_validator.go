package validation

import (
	"daylog/internal/domain"
	"daylog/internal/errors"
)

// ProfileValidator guards role changes
type ProfileValidator struct {
	validator *Validator
}

// NewProfileValidator creates a new profile validator
func NewProfileValidator(v *Validator) *ProfileValidator {
	if v == nil {
		v = NewValidator()
	}
	return &ProfileValidator{validator: v}
}

// ValidateRoleChange checks that actor may give target the requested role.
// Only admins change roles, and never their own.
func (pv *ProfileValidator) ValidateRoleChange(actor, target domain.Profile, role domain.Role) error {
	if !role.IsValid() {
		ve := NewValidationError()
		ve.AddInvalidValueError("role", role, "must be user or admin")
		return ve
	}
	if !actor.IsAdmin() {
		return errors.NewPermissionError("change role", "profile "+target.ID)
	}
	if actor.ID == target.ID {
		return errors.NewPermissionError("change own role", "profile "+target.ID)
	}
	return nil
}
