package bank

import (
	"errors"
	"fmt"
)

// ErrorKind names the ways a scraper operation can fail.
type ErrorKind int

const (
	KindAuthFailed ErrorKind = iota + 1
	KindSessionExpired
	KindInvalidDateRange
	KindAccountNotFound
	KindTransport
	KindUnexpectedPageShape
	KindLogoutFailed
)

var (
	ErrAuthFailed          = errors.New("authentication failed")
	ErrSessionExpired      = errors.New("session expired")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransport           = errors.New("transport error")
	ErrUnexpectedPageShape = errors.New("unexpected page shape")
	ErrLogoutFailed        = errors.New("logout not confirmed")
)

var kindErrors = map[ErrorKind]error{
	KindAuthFailed:          ErrAuthFailed,
	KindSessionExpired:      ErrSessionExpired,
	KindInvalidDateRange:    ErrInvalidDateRange,
	KindAccountNotFound:     ErrAccountNotFound,
	KindTransport:           ErrTransport,
	KindUnexpectedPageShape: ErrUnexpectedPageShape,
	KindLogoutFailed:        ErrLogoutFailed,
}

// Err returns the sentinel error for the kind.
func (k ErrorKind) Err() error {
	if err, ok := kindErrors[k]; ok {
		return err
	}
	return fmt.Errorf("unknown error kind %d", int(k))
}

func (k ErrorKind) String() string {
	return k.Err().Error()
}

// ScraperError provides detailed error context
type ScraperError struct {
	BankCode  BankCode
	Operation string
	Kind      ErrorKind
	Cause     error
	Details   string
}

func (e *ScraperError) Error() string {
	msg := fmt.Sprintf("[%s] %s failed", e.BankCode, e.Operation)
	switch {
	case e.Cause == nil:
		msg += ": " + e.Kind.String()
	case errors.Is(e.Cause, e.Kind.Err()):
		msg += ": " + e.Cause.Error()
	default:
		msg += fmt.Sprintf(": %s: %v", e.Kind, e.Cause)
	}
	if e.Details != "" {
		msg += " - " + e.Details
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause, so
// errors.Is matches either.
func (e *ScraperError) Unwrap() []error {
	errs := []error{e.Kind.Err()}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// KindOf returns the kind of the first ScraperError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *ScraperError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
