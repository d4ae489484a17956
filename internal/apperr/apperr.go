package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for HTTP translation and for API clients that
// branch on failure kind (notably token_expired vs token_invalid).
type Code string

const (
	CodeValidation     Code = "validation"
	CodeBadCredentials Code = "bad_credentials"
	CodeForbidden      Code = "forbidden"
	CodeTokenMissing   Code = "token_missing"
	CodeTokenExpired   Code = "token_expired"
	CodeTokenInvalid   Code = "token_invalid"
	CodeUserNotFound   Code = "user_not_found"
	CodeNotFound       Code = "not_found"
	CodeDependency     Code = "dependency"
)

// Error carries a classification code alongside a human-readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap classifies an underlying error, typically a database or cache failure.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the classification code, defaulting to dependency for
// unclassified errors so infrastructure failures surface as 500s.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeDependency
}

// Status maps a classification code onto an HTTP status.
func Status(code Code) int {
	switch code {
	case CodeValidation, CodeBadCredentials:
		return http.StatusBadRequest
	case CodeTokenMissing, CodeTokenExpired, CodeTokenInvalid, CodeUserNotFound:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
