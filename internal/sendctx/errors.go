// ABOUTME: Tagged error type for send-context resolution failures
// ABOUTME: Carries an error kind, the operation attempted, and the causing error

package sendctx

import (
	"errors"
	"fmt"
)

// ErrorKind classifies resolution failures so callers can decide whether to
// alert a human or drop the send.
type ErrorKind int

const (
	// KindConfiguration indicates misconfiguration (disabled channel).
	// Non-retryable; fix the config.
	KindConfiguration ErrorKind = iota

	// KindInvalidTarget indicates a target descriptor that could not be
	// classified. A caller bug, not an operational failure.
	KindInvalidTarget

	// KindCredential indicates absent or invalid channel credentials.
	// Fatal for the send; never retried.
	KindCredential

	// KindBootstrap wraps token acquisition or conversation creation
	// failures from the directory service. The cause distinguishes
	// "permission denied" from "service unavailable".
	KindBootstrap

	// KindInternal indicates an invariant violation inside the resolver,
	// a programming error rather than an operational one.
	KindInternal
)

// String returns a short tag for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInvalidTarget:
		return "invalid_target"
	case KindCredential:
		return "credential"
	case KindBootstrap:
		return "bootstrap"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a resolution failure tagged with its kind. Op names the operation
// being attempted in terms an operator can act on; Err preserves the cause.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a resolution Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == kind
}
