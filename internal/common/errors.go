// File: internal/common/errors.go
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a standard structure for API errors.
type APIError struct {
	StatusCode int         `json:"-"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("APIError: StatusCode=%d, Code=%s, Message=%s", e.StatusCode, e.Code, e.Message)
}

// Is matches API errors by code, so errors.Is works on copies made by WithDetails.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

// WithDetails returns a copy of e carrying details; the sentinel is left untouched.
func (e *APIError) WithDetails(details interface{}) *APIError {
	c := *e
	c.Details = details
	return &c
}

var (
	ErrBadRequest          = NewAPIError(http.StatusBadRequest, "BAD_REQUEST", "The request is invalid.")
	ErrNotFound            = NewAPIError(http.StatusNotFound, "NOT_FOUND", "The requested resource could not be found.")
	ErrMethodNotAllowed    = NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL.")
	ErrUnprocessableEntity = NewAPIError(http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "The request was well-formed but was unable to be followed due to semantic errors.")
	ErrInternalServer      = NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred on the server.")
	ErrProviderFailure     = NewAPIError(http.StatusBadGateway, "PROVIDER_ERROR", "The account provider rejected the request.")
	ErrServiceUnavailable  = NewAPIError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "The server is currently unable to handle the request.")
)

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// FieldErrorDetails is the details payload of a field scoped error.
type FieldErrorDetails struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

// NewFieldAPIError reports a single invalid form field. Message is meant for
// direct display next to the field.
func NewFieldAPIError(field, code, message string) *APIError {
	return &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       "FIELD_ERROR",
		Message:    message,
		Details:    FieldErrorDetails{Field: field, Code: code},
	}
}
