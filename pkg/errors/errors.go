package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/noah-isme/sma-absensi-api/internal/recap"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors carrying the same code so callers can compare against the predefined values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrTooManyRequests    = New("TOO_MANY_REQUESTS", http.StatusTooManyRequests, "too many requests")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	ErrMissingActiveSemester   = New("MISSING_ACTIVE_SEMESTER", http.StatusConflict, "no active semester, cannot compute recap")
	ErrIncompleteSemesterDates = New("INCOMPLETE_SEMESTER_DATES", http.StatusConflict, "active semester has no start or end date")
	ErrInvalidDateFormat       = New("INVALID_DATE_FORMAT", http.StatusUnprocessableEntity, "invalid date format, expected YYYY-MM-DD")
	ErrUnrecognizedWeekday     = New("UNRECOGNIZED_WEEKDAY", http.StatusUnprocessableEntity, "unrecognized weekday name")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, recap.ErrMissingActiveSemester):
		return Wrap(err, ErrMissingActiveSemester.Code, ErrMissingActiveSemester.Status, ErrMissingActiveSemester.Message)
	case errors.Is(err, recap.ErrIncompleteSemesterDates):
		return Wrap(err, ErrIncompleteSemesterDates.Code, ErrIncompleteSemesterDates.Status, ErrIncompleteSemesterDates.Message)
	case errors.Is(err, recap.ErrInvalidDateFormat):
		return Wrap(err, ErrInvalidDateFormat.Code, ErrInvalidDateFormat.Status, err.Error())
	case errors.Is(err, recap.ErrUnrecognizedWeekday):
		return Wrap(err, ErrUnrecognizedWeekday.Code, ErrUnrecognizedWeekday.Status, err.Error())
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
