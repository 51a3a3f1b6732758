// Package response defines the JSON envelope shared by all handlers:
// {message, result} on success, {status:"fail", ...} on handled failure,
// {status:"error", message} on unexpected failure.
package response

import (
	"net/http"

	"rbac-backend/internal/apperror"
)

type Envelope struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// OK wraps a successful result.
func OK(message string, result any) Envelope {
	return Envelope{Message: message, Result: result}
}

// Fail wraps a handled failure (validation, auth, not found, conflict).
func Fail(message string) Envelope {
	return Envelope{Status: "fail", Message: message}
}

// FailFields wraps a validation failure with field-level messages.
func FailFields(fields []apperror.FieldError) Envelope {
	return Envelope{Status: "fail", Errors: fields}
}

// Err wraps an unexpected failure with a generic message.
func Err(message string) Envelope {
	return Envelope{Status: "error", Message: message}
}

// FromError maps a service error to its HTTP status and envelope.
// Internal errors never leak details to the client.
func FromError(err error) (int, Envelope) {
	kind := apperror.KindOf(err)
	if fields := apperror.FieldsOf(err); len(fields) > 0 {
		return http.StatusBadRequest, FailFields(fields)
	}
	switch kind {
	case apperror.KindBadRequest:
		return http.StatusBadRequest, Fail(err.Error())
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized, Fail(err.Error())
	case apperror.KindForbidden:
		return http.StatusForbidden, Fail(err.Error())
	case apperror.KindNotFound:
		return http.StatusNotFound, Fail(err.Error())
	case apperror.KindConflict:
		return http.StatusConflict, Fail(err.Error())
	default:
		return http.StatusInternalServerError, Err("something went wrong")
	}
}
