package quartzcron

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is one of the closed set of validation failures. It implements
// error so that callers can match it with errors.Is.
type ErrorCode string

// Validation error codes.
const (
	ErrNotString           ErrorCode = "NOT_STRING"
	ErrEmpty               ErrorCode = "EMPTY"
	ErrLength              ErrorCode = "LENGTH_ERROR"
	ErrInvalidValue        ErrorCode = "INVALID_VALUE"
	ErrNotInteger          ErrorCode = "NOT_INTEGER"
	ErrOutOfRange          ErrorCode = "OUT_OF_RANGE"
	ErrStartGreaterThanEnd ErrorCode = "START_GREATER_THAN_END"
	ErrNotList             ErrorCode = "NOT_LIST"
	ErrListLengthExceeded  ErrorCode = "LIST_LENGTH_EXCEEDED"
	ErrListEmpty           ErrorCode = "LIST_EMPTY"
	ErrListNotSorted       ErrorCode = "LIST_NOT_SORTED"
	ErrDayWeekConflict     ErrorCode = "DAY_WEEK_CONFLICT"
)

var codeMessages = map[ErrorCode]string{
	ErrNotString:           "expression must be a string",
	ErrEmpty:               "value must not be empty",
	ErrLength:              "expression must have 6 or 7 fields",
	ErrInvalidValue:        "invalid value",
	ErrNotInteger:          "not an integer",
	ErrOutOfRange:          "value out of range",
	ErrStartGreaterThanEnd: "range start must be less than range end",
	ErrNotList:             "not a list",
	ErrListLengthExceeded:  "list has too many values",
	ErrListEmpty:           "list must not be empty",
	ErrListNotSorted:       "list must be strictly ascending",
	ErrDayWeekConflict:     "day of month and day of week cannot both be specified",
}

func (c ErrorCode) Error() string { return string(c) }

// Message returns a human readable description of the code.
func (c ErrorCode) Message() string {
	if m, ok := codeMessages[c]; ok {
		return m
	}
	return string(c)
}

// ErrEmptySpec is returned by ParseSchedule for an empty spec string.
var ErrEmptySpec = errors.New("quartzcron: empty spec string")

// ErrSpecTooLong is returned when a spec exceeds MaxSpecLength.
var ErrSpecTooLong = errors.New("quartzcron: spec too long")

// ValidationError reports the failure of a single field.
type ValidationError struct {
	Field Field
	Code  ErrorCode
	Value string // Optional: the offending token
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (%q)", e.Field, e.Code.Message(), e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Code.Message())
}

// Unwrap returns the error code.
func (e *ValidationError) Unwrap() error { return e.Code }

// FieldErrors maps a field (or Global) to the code it failed with.
type FieldErrors map[Field]ErrorCode

// Ordered returns the failing fields, Global first, then expression order.
func (fe FieldErrors) Ordered() []Field {
	var out []Field
	if _, ok := fe[Global]; ok {
		out = append(out, Global)
	}
	for _, f := range Fields {
		if _, ok := fe[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Err returns nil when there are no errors, otherwise a *ParseError.
func (fe FieldErrors) Err(expression string) error {
	if len(fe) == 0 {
		return nil
	}
	return &ParseError{Expression: expression, Errors: fe}
}

// ParseError collects every field that failed to parse or format.
type ParseError struct {
	Expression string
	Errors     FieldErrors
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("quartzcron: invalid expression")
	if e.Expression != "" {
		fmt.Fprintf(&sb, " %q", e.Expression)
	}
	for i, f := range e.Errors.Ordered() {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %s", f, e.Errors[f])
	}
	return sb.String()
}

// Unwrap exposes one *ValidationError per failing field.
func (e *ParseError) Unwrap() []error {
	fields := e.Errors.Ordered()
	errs := make([]error, 0, len(fields))
	for _, f := range fields {
		errs = append(errs, &ValidationError{Field: f, Code: e.Errors[f]})
	}
	return errs
}
