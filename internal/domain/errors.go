package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrConcurrencyConflict   = errors.New("concurrency conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ValidationError reports a malformed create or update request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports a rejected status transition. Current and
// Role let callers tell a stale-UI race from a genuine policy violation.
type InvalidTransitionError struct {
	Current   DonationStatus
	Requested DonationStatus
	Role      Role
	Reason    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s as %s: %s", e.Current, e.Requested, e.Role, e.Reason)
}
