package validation

// TodoValidator provides validation for todo list operations
type TodoValidator struct {
	validator *Validator
}

// NewTodoValidator creates a new todo validator
func NewTodoValidator(v *Validator) *TodoValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TodoValidator{validator: v}
}

// ValidateTitle validates a todo title for creation or rename
func (tv *TodoValidator) ValidateTitle(title string) error {
	ve := NewValidationError()
	tv.validator.validateTitle(ve, "title", title)
	return ve.Err()
}

// ValidateOwner checks that a todo list owner is set
func (tv *TodoValidator) ValidateOwner(userID string) error {
	if tv.validator.IsValidID(userID) {
		return nil
	}
	ve := NewValidationError()
	ve.AddRequiredError("user_id")
	return ve
}
