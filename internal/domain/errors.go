package domain

import (
	"errors"
	"fmt"
)

// Kind is the stable error category surfaced to callers.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindStoreUnavailable  Kind = "store_unavailable"
	KindInvalidTransition Kind = "invalid_transition"
	KindChatUnavailable   Kind = "chat_unavailable"
)

// Sentinels for errors.Is.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrStoreUnavailable  = &Error{Kind: KindStoreUnavailable}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrChatUnavailable   = &Error{Kind: KindChatUnavailable}
)

// Error carries a Kind, a user-safe Message and the wrapped cause.
// Message is safe to return to clients; Err is not.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

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

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound) works
// regardless of message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(msg string, err error) error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

func StoreUnavailable(msg string, err error) error {
	return &Error{Kind: KindStoreUnavailable, Message: msg, Err: err}
}

func InvalidTransition(from, to MedicationStatus) error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
	}
}

func ChatUnavailable(err error) error {
	return &Error{Kind: KindChatUnavailable, Message: "assistant is unavailable", Err: err}
}

// KindOf returns the Kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
