package validation

import (
	"math"
	"net/url"
)

// BookValidator provides validation for the book catalog
type BookValidator struct {
	validator *Validator
}

// NewBookValidator creates a new book validator
func NewBookValidator(v *Validator) *BookValidator {
	if v == nil {
		v = NewValidator()
	}
	return &BookValidator{validator: v}
}

// ValidateBook requires every field and a positive price
func (bv *BookValidator) ValidateBook(title, author string, price float64, image string) error {
	ve := NewValidationError()
	bv.validator.validateTitle(ve, "title", title)
	bv.validator.validateTitle(ve, "author", author)

	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		ve.AddInvalidValueError("price", price, "must be a positive number")
	}

	trimmed := bv.validator.TrimAndValidateString(image)
	if trimmed == "" {
		ve.AddRequiredError("image")
	} else if u, err := url.Parse(trimmed); err != nil || u.Scheme == "" || u.Host == "" {
		ve.AddInvalidFormatError("image", trimmed, "absolute URL")
	}
	return ve.Err()
}
