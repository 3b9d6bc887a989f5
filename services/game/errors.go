package game

import "fmt"

// Kind classifies a rejected action so the socket layer can report it
// without inspecting message text.
type Kind string

const (
	KindForbidden    Kind = "forbidden"
	KindWrongPhase   Kind = "wrong_phase"
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
	KindConflict     Kind = "conflict"
	KindUnavailable  Kind = "unavailable"
)

// Error is a validated-action rejection. Validation always happens before
// any mutation, so returning one of these means no state changed.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func WrongPhase(format string, args ...interface{}) *Error {
	return &Error{Kind: KindWrongPhase, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// AsError returns the *Error inside err, or wraps err as an internal
// unavailable error so the boundary always has a kind to report.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if ge, ok := err.(*Error); ok {
		return ge
	}
	return &Error{Kind: KindUnavailable, Message: err.Error()}
}
