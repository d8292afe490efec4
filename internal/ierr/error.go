package ierr

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeInvalidArgument    ErrorCode = "InvalidArgument"
	ErrorCodeNotFound           ErrorCode = "NotFound"
	ErrorCodeAlreadyExists      ErrorCode = "AlreadyExists"
	ErrorCodeFailedPrecondition ErrorCode = "FailedPrecondition"
	ErrorCodePermissionDenied   ErrorCode = "PermissionDenied"
	ErrorCodeUnauthenticated    ErrorCode = "Unauthenticated"
	ErrorCodeTooLarge           ErrorCode = "TooLarge"
	ErrorCodeInternal           ErrorCode = "Internal"
)

type Error struct {
	Code    ErrorCode       `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`

	cause error
}

func New(code ErrorCode, cause error) Error {
	return Error{
		Code:    code,
		Message: cause.Error(),
		cause:   cause,
	}
}

func (e Error) Error() string {
	if e.cause == nil {
		return string(e.Code) + ": " + e.Message
	}

	return string(e.Code) + ": " + e.cause.Error()
}

func (e Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the code carried by err, or ErrorCodeInternal when err is
// not an ierr.Error.
func CodeOf(err error) ErrorCode {
	var ierrErr Error
	if errors.As(err, &ierrErr) {
		return ierrErr.Code
	}

	return ErrorCodeInternal
}

func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrorCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeAlreadyExists, ErrorCodeFailedPrecondition:
		return http.StatusConflict
	case ErrorCodePermissionDenied:
		return http.StatusForbidden
	case ErrorCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrorCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
