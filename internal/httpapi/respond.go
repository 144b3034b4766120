package httpapi

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"daylog/internal/errors"
	"daylog/internal/logging"
	"daylog/internal/validation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{
		Error: errors.GetUserMessage(err),
		Code:  errors.GetErrorCode(err),
	}
	if ve, ok := validation.AsValidationError(err); ok {
		body.Error = ve.GetUserFriendlyMessage()
		body.Fields = ve.Errors
	}
	if status >= http.StatusInternalServerError && errors.ShouldLogError(err) {
		logging.L().Error("request failed", zap.Error(err))
	}
	respondJSON(w, body, status)
}

func badRequest(w http.ResponseWriter, field, reason string) {
	respondError(w, errors.NewInvalidInputError(field, "", reason))
}

// statusFor maps the application error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeConflict:
		return http.StatusConflict
	case errors.ErrorTypePermission:
		return http.StatusForbidden
	case errors.ErrorTypeRemoteUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewInvalidInputError("body", "", "invalid JSON: "+err.Error())
	}
	return nil
}
