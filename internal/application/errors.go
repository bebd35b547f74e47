package application

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrPresenceRequired   = errors.New("user must be online")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnconfirmed        = errors.New("email not confirmed")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrOtpMismatch        = errors.New("otp mismatch")
	ErrOtpExpired         = errors.New("otp expired")
	ErrDeliveryFailed     = errors.New("email delivery failed")
	ErrTooManyAttempts    = errors.New("too many attempts")
)

var kinds = []error{
	ErrValidation, ErrConflict, ErrUnauthenticated, ErrPresenceRequired, ErrForbidden,
	ErrNotFound, ErrInvalidCredentials, ErrUnconfirmed, ErrInvalidToken, ErrTokenExpired,
	ErrOtpMismatch, ErrOtpExpired, ErrDeliveryFailed, ErrTooManyAttempts,
}

// Error is a caller-recoverable failure of a named operation.
type Error struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind error, msg string) *Error {
	return &Error{Op: op, Kind: kind, Message: msg}
}

func wrapError(op string, kind error, msg string, err error) *Error {
	return &Error{Op: op, Kind: kind, Message: msg, Err: err}
}

// internal marks an unexpected collaborator failure. It carries no kind.
func internal(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// KindOf returns the kind carried by err, or nil for unexpected errors.
func KindOf(err error) error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
