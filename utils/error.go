package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure so the HTTP layer can map it to a
// status code and the client can render a message for the offending field.
type ErrorKind string

const (
	ErrorKindInvalidReference  ErrorKind = "InvalidReference"
	ErrorKindInvalidLine       ErrorKind = "InvalidLine"
	ErrorKindEmptyOrder        ErrorKind = "EmptyOrder"
	ErrorKindInsufficientStock ErrorKind = "InsufficientStock"
	ErrorKindInvalidRange      ErrorKind = "InvalidRange"
	ErrorKindNotFound          ErrorKind = "NotFound"
	ErrorKindForbidden         ErrorKind = "Forbidden"
	ErrorKindConflict          ErrorKind = "Conflict"
)

// AppError carries the kind plus the offending field/id.
// Validation always runs before any mutation, so an AppError from a write
// operation means nothing was committed.
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func NewAppError(kind ErrorKind, field string, format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsAppError unwraps err into an *AppError, nil if it isn't one.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsErrorKind(err error, kind ErrorKind) bool {
	appErr := AsAppError(err)
	return appErr != nil && appErr.Kind == kind
}

var ErrorRecordNotFound = NewAppError(ErrorKindNotFound, "", "record not found")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
