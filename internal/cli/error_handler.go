package cli

import (
	"fmt"

	"go.uber.org/zap"

	"daylog/internal/errors"
	"daylog/internal/logging"
	"daylog/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %s", operation, eh.message(err))
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); !ok && !validation.IsValidationError(err) {
		return err
	}
	return fmt.Errorf("%s", eh.message(err))
}

func (eh *ErrorHandler) message(err error) string {
	// Field errors carry the most specific text, even when wrapped.
	if ve, ok := validation.AsValidationError(err); ok && ve.HasErrors() {
		return ve.GetUserFriendlyMessage()
	}
	if _, ok := errors.AsAppError(err); ok {
		if errors.ShouldLogError(err) {
			logging.L().Error("command failed", zap.Error(err))
		}
		return errors.GetUserMessage(err)
	}
	return err.Error()
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsRemoteUnavailable checks if the table store could not be reached
func (eh *ErrorHandler) IsRemoteUnavailable(err error) bool {
	return errors.IsRemoteUnavailable(err)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
