package domain

import (
	"fmt"
	"math"
	"time"
)

// ValidationError reports malformed input. It is returned before any side
// effect occurs, so a failed call never leaves partial state behind.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// SecurityError covers both internal hashing/verification failures and
// authentication rejection. The message is intentionally generic so a caller
// cannot tell a missing account from a wrong password.
type SecurityError struct {
	Msg string
}

func (e *SecurityError) Error() string { return e.Msg }

// LockoutError is returned when the rate limit for an identifier is exceeded.
// RetryAfter is how long until the window resets.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("too many attempts, try again in %d seconds", int(math.Ceil(e.RetryAfter.Seconds())))
}

// ConflictError is returned on sign-up when the email is already taken.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string { return "email already in use" }
