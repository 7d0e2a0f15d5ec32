package app

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrRecoveryNotAvailable is returned when a Recovery Challenge is attempted
// while the session outcome is not NEEDS_RECOVERY.
var ErrRecoveryNotAvailable = errors.New("recovery challenge not available")

// ErrRecoveryRequired is returned by a victory check-in while exactly one
// day is missed and the Recovery Challenge has not been taken.
var ErrRecoveryRequired = errors.New("a missed day must go through the recovery challenge first")

// StoreUnavailableError wraps a persistence failure. The state visible to
// the caller is the last successfully persisted one.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: failed to %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreUnavailableError{Op: op, Err: err}
}

// ValidationError reports input rejected by a guard.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// ValidateUserID rejects ids that cannot be used as storage and cache keys.
func ValidateUserID(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return invalid("invalid user id %q (use 1-64 letters, digits, '.', '_' or '-')", userID)
	}
	return nil
}
