package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can map it to a status
// code without inspecting message text.
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindIllegalTransition Kind = "ILLEGAL_TRANSITION"
	KindForbidden         Kind = "FORBIDDEN"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindUpstream          Kind = "UPSTREAM"
	KindInternal          Kind = "INTERNAL"
)

// Error is the application error carried from services to handlers. Fields
// holds per-field validation messages; CurrentState and Action are set for
// illegal lifecycle transitions so clients can explain what was rejected.
type Error struct {
	Kind         Kind              `json:"kind"`
	Message      string            `json:"message"`
	Fields       map[string]string `json:"fields,omitempty"`
	CurrentState string            `json:"currentState,omitempty"`
	Action       string            `json:"action,omitempty"`
	cause        error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: err}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Upstream(message string) *Error {
	return &Error{Kind: KindUpstream, Message: message}
}

// IllegalTransition reports an action the lifecycle table does not permit
// from the current state.
func IllegalTransition(currentState, action string) *Error {
	return &Error{
		Kind:         KindIllegalTransition,
		Message:      fmt.Sprintf("action %q is not allowed from state %q", action, currentState),
		CurrentState: currentState,
		Action:       action,
	}
}

// KindOf extracts the Kind from any error in the chain, defaulting to
// KindInternal for plain errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
