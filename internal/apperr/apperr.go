// Package apperr defines the error kinds the API surfaces to clients.
// Kinds are assigned where the failure is detected and translated to an
// HTTP status exactly once, in the handler layer.
package apperr

import "fmt"

type Kind int

const (
	Internal Kind = iota
	Validation
	NotFound
	Conflict
	OriginNotAllowed
)

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

func OriginBlocked(origin string) *Error {
	return &Error{Kind: OriginNotAllowed, Message: "origin not allowed: " + origin}
}

// Wrap marks an unexpected failure (storage, runtime) as internal. The
// message is for operators; clients never see it.
func Wrap(msg string, err error) *Error {
	return &Error{Kind: Internal, Message: msg, cause: err}
}
