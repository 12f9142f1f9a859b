// errors.go - client errors.
package client

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a client-level failure so callers can branch on it without
// string-matching, while the underlying cause remains attached for logging.
type Kind int

const (
	// KindIO covers a transport dispatch failure at PUT/GET time.
	KindIO Kind = iota
	// KindResponseFailure covers a transport-delivered failure response.
	KindResponseFailure
	// KindTimeout covers a deadline exceeded awaiting a response.
	KindTimeout
	// KindInvalidCredentials covers a missing session pointer or a failed
	// session-packet decryption; these are indistinguishable to the caller
	// by design.
	KindInvalidCredentials
	// KindCorruptSession covers a present pointer whose latest version is
	// absent or malformed.
	KindCorruptSession
	// KindCryptoFailure covers a symmetric or hybrid envelope failure
	// outside of the password path.
	KindCryptoFailure
	// KindClientShutdown covers a future resolved because its owning
	// client was dropped.
	KindClientShutdown
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindResponseFailure:
		return "response-failure"
	case KindTimeout:
		return "timeout"
	case KindInvalidCredentials:
		return "invalid-credentials"
	case KindCorruptSession:
		return "corrupt-session"
	case KindCryptoFailure:
		return "crypto-failure"
	case KindClientShutdown:
		return "client-shutdown"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every exported Client operation.
type Error struct {
	Kind Kind
	msg  string
	// cause is wrapped with github.com/pkg/errors so that the original
	// stack and any lower layer's error text survive for logging even
	// though callers only branch on Kind.
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("client: %s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("client: %s: %s", e.Kind, e.msg)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.cause }

// newErr constructs an Error, wrapping cause (which may be nil) with
// pkg/errors so that the cause carries msg and a stack trace. Error has no
// Cause method, so errors.Cause stops at the *Error itself; errors.Unwrap,
// errors.Is and errors.As reach the wrapped cause.
func newErr(kind Kind, msg string, cause error) *Error {
	var wrapped error
	if cause != nil {
		wrapped = errors.Wrap(cause, msg)
	}
	return &Error{Kind: kind, msg: msg, cause: wrapped}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	ce, ok := err.(*Error)
	return ok && ce.Kind == kind
}
