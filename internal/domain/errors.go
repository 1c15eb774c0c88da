package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrAmbiguousTaskID   = errors.New("ambiguous task id")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrNetwork           = errors.New("network error")
	ErrIllegalOperation  = errors.New("illegal operation")
	ErrUnauthorized      = errors.New("not logged in (run 'dq login' first)")
	ErrBackend           = errors.New("backend error")
	ErrNotFound          = errors.New("not found")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrConfigExists      = errors.New("config file already exists")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrCompletionPending = errors.New("completion already in flight")
)

// ErrorKind classifies failures so callers can decide how to present them.
type ErrorKind string

// Error kinds.
const (
	KindValidation       ErrorKind = "validation"
	KindConflict         ErrorKind = "conflict"
	KindNetwork          ErrorKind = "network"
	KindIllegalOperation ErrorKind = "illegal_operation"
	KindNotFound         ErrorKind = "not_found"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindBackend          ErrorKind = "backend"
)

var kindSentinels = map[ErrorKind]error{
	KindValidation:       ErrValidation,
	KindConflict:         ErrConflict,
	KindNetwork:          ErrNetwork,
	KindIllegalOperation: ErrIllegalOperation,
	KindNotFound:         ErrNotFound,
	KindUnauthorized:     ErrUnauthorized,
	KindBackend:          ErrBackend,
}

// Error is the structured error returned by the core and the backend adapter.
// Status is the HTTP status code when the backend produced the error, 0 otherwise.
// Field names the offending input for validation errors.
// Fields are ordered to minimize memory padding.
type Error struct {
	Err     error
	Kind    ErrorKind
	Field   string
	Message string
	Status  int
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind, so errors.Is(err, ErrConflict) works.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// NewValidationError returns a validation error for a field.
func NewValidationError(field, reason string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: reason}
}

// NewIllegalOperationError returns an illegal operation error.
func NewIllegalOperationError(reason string) *Error {
	return &Error{Kind: KindIllegalOperation, Message: reason}
}

// NewConflictError returns a conflict error reported by the backend.
func NewConflictError(status int, message string) *Error {
	return &Error{Kind: KindConflict, Status: status, Message: message}
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// KindOf returns the kind of a structured error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ""
}

// conflictPhrase is how the backend words a repeated completion.
const conflictPhrase = "already been completed"

// IsCompletionConflict reports whether a backend rejection means the task
// was already completed for the period.
func IsCompletionConflict(status int, message string) bool {
	return status == 400 || strings.Contains(strings.ToLower(message), conflictPhrase)
}
