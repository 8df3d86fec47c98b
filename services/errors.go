package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindNotFound              ErrorKind = "NotFound"
	KindUnavailable           ErrorKind = "Unavailable"
	KindInsufficientReferrals ErrorKind = "InsufficientReferrals"
	KindKycRequired           ErrorKind = "KycRequired"
	KindInsufficientBalance   ErrorKind = "InsufficientBalance"
	KindValidation            ErrorKind = "ValidationError"
	KindInvalidTransition     ErrorKind = "InvalidTransition"
	KindConflict              ErrorKind = "Conflict"
	KindUnauthorized          ErrorKind = "Unauthorized"
	KindForbidden             ErrorKind = "Forbidden"
)

// LedgerError is a terminal, caller-facing failure. Current and Required carry
// the compared values for the insufficiency kinds.
type LedgerError struct {
	Kind     ErrorKind
	Message  string
	Current  interface{}
	Required interface{}
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...interface{}) *LedgerError {
	return &LedgerError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a LedgerError anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// notFoundOr maps gorm's missing-row error to NotFound and wraps anything else.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(KindNotFound, "%s not found", what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
