package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Invalid(msg string) *APIError      { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func NotFound(msg string) *APIError     { return &APIError{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *APIError     { return &APIError{Code: CodeConflict, Message: msg} }
func Unauthorized(msg string) *APIError { return &APIError{Code: CodeUnauthorized, Message: msg} }
func Internal(msg string) *APIError     { return &APIError{Code: CodeInternal, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeUnauthorized:
			return http.StatusUnauthorized
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

type errorDTO struct {
	Error APIError `json:"error"`
}

// Body builds the JSON error envelope handlers return to clients.
// Non-API errors collapse to INTERNAL so store errors never leak.
func Body(err error) any {
	var api *APIError
	if errors.As(err, &api) {
		return errorDTO{Error: *api}
	}
	return errorDTO{Error: APIError{Code: CodeInternal, Message: "internal error"}}
}
