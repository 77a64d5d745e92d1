package services

import (
	"errors"
	"fmt"
)

// All of these are recoverable: controllers surface them as user-visible feedback and
// the session continues.
var (
	// ErrOutOfRange rejects a check-in attempted beyond the check-in radius, or with
	// no usable position at all.
	ErrOutOfRange = errors.New("venue is outside check-in range")
	// ErrNotActive rejects a check-out against a row that is already inactive.
	ErrNotActive = errors.New("check-in is not active")
	// ErrDuplicatePing rejects a second ping to the same recipient.
	ErrDuplicatePing = errors.New("ping already sent to this user")
	// ErrSelfPing rejects pinging yourself.
	ErrSelfPing = errors.New("cannot ping yourself")
	// ErrRecipientNotFound rejects a ping to an email with no account behind it;
	// phantom rows would permanently occupy the unique sender/recipient pair.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrPingNotFound means the referenced ping does not exist.
	ErrPingNotFound = errors.New("ping not found")
	// ErrPingNotPending rejects mark-seen on a ping that is not pending, or that
	// belongs to someone else.
	ErrPingNotPending = errors.New("ping is not pending")
)

// PersistenceError wraps a failed store call. The underlying cause is preserved for
// logs; callers treat it as a transient, retryable condition.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
