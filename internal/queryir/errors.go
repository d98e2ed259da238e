package queryir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes failures of a feature query.
type ErrorCode string

const (
	// CodeInvalidParameter indicates a malformed bbox, datetime, filter,
	// crs, limit or cursor value.
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// CodeUnsupportedParameter indicates a parameter the collection cannot
	// honour, such as datetime on a collection without a timestamp column.
	CodeUnsupportedParameter ErrorCode = "UNSUPPORTED_PARAMETER"

	// CodeNotFound indicates an unknown collection.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeQueryExecutionFailed wraps an opaque database error.
	CodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
)

// Error is the single error type surfaced by query building, compilation
// and execution. Callers map Code to a response status.
type Error struct {
	Code ErrorCode

	// Param names the offending request parameter, if any.
	Param string

	Message string

	// Err is the underlying cause (database errors, parse errors).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Param != "" {
		msg = e.Param + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidParameter creates an INVALID_PARAMETER error for param.
func NewInvalidParameter(param, format string, args ...any) *Error {
	return &Error{
		Code:    CodeInvalidParameter,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewUnsupportedParameter creates an UNSUPPORTED_PARAMETER error for param.
func NewUnsupportedParameter(param, format string, args ...any) *Error {
	return &Error{
		Code:    CodeUnsupportedParameter,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewNotFound creates a NOT_FOUND error for a collection id.
func NewNotFound(collectionID string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("collection %q not found", collectionID),
	}
}

// NewQueryExecutionFailed wraps a database error.
func NewQueryExecutionFailed(op string, err error) *Error {
	return &Error{
		Code:    CodeQueryExecutionFailed,
		Message: op,
		Err:     err,
	}
}

// CodeOf returns the ErrorCode of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// IsInvalidParameter returns true if err is an INVALID_PARAMETER error.
func IsInvalidParameter(err error) bool {
	return CodeOf(err) == CodeInvalidParameter
}

// IsUnsupportedParameter returns true if err is an UNSUPPORTED_PARAMETER error.
func IsUnsupportedParameter(err error) bool {
	return CodeOf(err) == CodeUnsupportedParameter
}

// IsNotFound returns true if err is a NOT_FOUND error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsQueryExecutionFailed returns true if err is a QUERY_EXECUTION_FAILED error.
func IsQueryExecutionFailed(err error) bool {
	return CodeOf(err) == CodeQueryExecutionFailed
}
