package engine

import "fmt"

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidYear    Code = "INVALID_YEAR"
	CodeInvalidN       Code = "INVALID_N"
	CodeUnknownCountry Code = "UNKNOWN_COUNTRY"
	CodeEmptyTable     Code = "EMPTY_TABLE"

	// Raised while building a Table, never by the queries.
	CodeInvalidData Code = "INVALID_DATA"
)

// Error is returned by every Table constructor and query.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so callers can write
// errors.Is(err, engine.ErrUnknownCountry).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrInvalidYear    = &Error{Code: CodeInvalidYear, Message: "invalid year"}
	ErrInvalidN       = &Error{Code: CodeInvalidN, Message: "invalid n"}
	ErrUnknownCountry = &Error{Code: CodeUnknownCountry, Message: "unknown country"}
	ErrEmptyTable     = &Error{Code: CodeEmptyTable, Message: "empty table"}
	ErrInvalidData    = &Error{Code: CodeInvalidData, Message: "invalid data"}
)

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}
