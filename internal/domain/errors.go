package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind discriminates the closed set of failures the application can
// surface to a caller. Every error that reaches the API layer is classified
// into exactly one kind by KindOf.
type ErrorKind string

// Error kinds, matched exhaustively by the API error translator.
const (
	KindValidation   ErrorKind = "validation"
	KindDuplicate    ErrorKind = "duplicate"
	KindBadRequest   ErrorKind = "bad_request"
	KindAuth         ErrorKind = "auth"
	KindNotFound     ErrorKind = "not_found"
	KindMalformedID  ErrorKind = "malformed_id"
	KindTokenInvalid ErrorKind = "token_invalid"
	KindTokenExpired ErrorKind = "token_expired"
	KindUnclassified ErrorKind = "unclassified"
)

// Error is a classified application error.
//
// Message is safe to show to clients. Status is only consulted for
// KindUnclassified errors that want something other than a 500.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

// NewError creates a classified error with a client-safe message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a classified error around an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// FieldError describes one violated constraint on one field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every violated field constraint of an entity,
// not just the first one.
type ValidationError struct {
	Fields []FieldError
}

// Error joins the field messages in declaration order.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

// Add appends a field violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any violation has been recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Field returns the message recorded for field, if any.
func (e *ValidationError) Field(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

// KindOf classifies err. Errors outside the taxonomy are KindUnclassified.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return KindValidation
	}

	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Kind
	}

	return KindUnclassified
}

// AsError returns the outermost classified error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr, true
	}
	return nil, false
}
