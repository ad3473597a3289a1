package rexcrawl

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// EFETCH reports a page that could not be retrieved after all retries.
	EFETCH = "fetch"
	// EEXTRACT reports a detail page that could only be partially extracted.
	EEXTRACT = "extract"
	// EWRITE reports a record that could not be persisted.
	EWRITE = "write"
	// EDISALLOWED reports a URL excluded by robots.txt. It is never retried.
	EDISALLOWED = "disallowed"
	// EFATAL reports a failure that ends the run, such as an unreachable index page.
	EFATAL = "fatal"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string

	// Err is the optional underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code and message wrapping err.
func WrapError(code string, err error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ErrorCode returns the code of the first application error in the chain.
// Returns EINTERNAL for other errors and an empty string for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the first application error in the chain.
// Returns a generic message for other errors and an empty string for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
