// Package shared centralizes JSON response writing so every handler returns
// the same envelopes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "mergington/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope. Clients of this API read the
// detail field; the error code is for programmatic consumers.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// WriteJSON writes v with the given status and a JSON content type.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the HTTP error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, ToHTTPStatus(code), ErrorResponse{
		Error:  string(code),
		Detail: dErrors.MessageOf(err),
	})
}

// ToHTTPStatus maps domain error codes to HTTP statuses. Conflict maps to
// 400 rather than 409: the API contract this service replaces returns 400
// for duplicate-signup and missing-registration, and clients assert on it.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
