package courier

import (
	"errors"
	"fmt"
)

// Kind classifies an Error. Values mirror the error codes callers and
// providers already use so they can be surfaced without translation.
type Kind string

const (
	KindInvalidArgument Kind = "invalid-argument"
	KindInternal        Kind = "internal"
	KindNotFound        Kind = "not-found"

	KindTokenInvalid       Kind = "messaging/invalid-argument"
	KindTokenNotRegistered Kind = "messaging/registration-token-not-registered"
	KindPushUnavailable    Kind = "messaging/unavailable"
	KindPushUnknown        Kind = "messaging/unknown-error"
)

// Error is the structured error built wherever a collaborator's raw error is caught.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError keeps cause for logging and errors.Unwrap.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

func (e *Error) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// IsStaleToken reports whether a push failure means the target token should be discarded.
func IsStaleToken(err error) bool {
	switch KindOf(err) {
	case KindTokenInvalid, KindTokenNotRegistered:
		return true
	}

	return false
}
