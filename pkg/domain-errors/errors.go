// Package domainerrors carries the structured error taxonomy returned by services.
//
// Every error crossing a service boundary is an *Error with a Code (the kind of
// failure, used by transports to pick a status) and, where the caller needs to
// branch on it, a Reason naming the specific rule that failed. Validation
// failures also carry the offending fields.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transports and callers.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeForbidden          Code = "forbidden"
	CodeUnauthorized       Code = "unauthorized"
	CodeExhausted          Code = "exhausted"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Reason names the specific rule behind an error.
type Reason string

const (
	ReasonInvalidSchema             Reason = "InvalidSchema"
	ReasonEmptySchema               Reason = "EmptySchema"
	ReasonSchemaMismatch            Reason = "SchemaMismatch"
	ReasonFutureDate                Reason = "FutureDate"
	ReasonAssignmentNotFound        Reason = "AssignmentNotFound"
	ReasonAssignmentInactive        Reason = "AssignmentInactive"
	ReasonDuplicateActiveAssignment Reason = "DuplicateActiveAssignment"
	ReasonDefinitionRetired         Reason = "DefinitionRetired"
	ReasonHasActiveAssignments      Reason = "HasActiveAssignments"
	ReasonDuplicateActiveInvitation Reason = "DuplicateActiveInvitation"
	ReasonInvalidOrUsedCode         Reason = "InvalidOrUsedCode"
	ReasonExpired                   Reason = "Expired"
	ReasonCodeSpaceExhausted        Reason = "CodeSpaceExhausted"
	ReasonTemplateDerived           Reason = "TemplateDerived"
	ReasonNotOwner                  Reason = "NotOwner"
)

// FieldError points a validation failure at one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the structured error type shared by all services.
type Error struct {
	Code    Code
	Reason  Reason
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Reason != "" {
		msg = string(e.Reason) + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithReason sets the reason and returns the same error for chaining.
func (e *Error) WithReason(reason Reason) *Error {
	e.Reason = reason
	return e
}

// WithFields appends field-level details.
func (e *Error) WithFields(fields ...FieldError) *Error {
	e.Fields = append(e.Fields, fields...)
	return e
}

// New builds an error with the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap keeps err as the cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// As extracts the outermost *Error in the chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// HasReason reports whether err carries the given reason.
func HasReason(err error, reason Reason) bool {
	de, ok := As(err)
	return ok && de.Reason == reason
}
