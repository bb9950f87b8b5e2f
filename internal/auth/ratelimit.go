package auth

import (
	"sync"
	"time"

	"github.com/PetWolowitz/HodeWay/internal/domain"
)

const (
	maxAttempts     = 5
	lockoutDuration = 15 * time.Minute
)

type attemptRecord struct {
	count       int
	windowStart time.Time
}

// Limiter enforces a sliding lockout per identifier (email). Records live for
// the process run only; nothing is persisted.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord
	now      func() time.Time
}

// NewLimiter creates a Limiter using wall-clock time.
func NewLimiter() *Limiter {
	return &Limiter{
		attempts: make(map[string]*attemptRecord),
		now:      time.Now,
	}
}

// Check records an attempt for identifier. It returns nil while the attempt
// count inside the current window stays under the limit, and a
// *domain.LockoutError (carrying the remaining wait) once the limit is hit.
// The read-modify-write on the record is atomic under the limiter's mutex.
func (l *Limiter) Check(identifier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.attempts[identifier]
	if !ok || now.Sub(rec.windowStart) > lockoutDuration {
		l.attempts[identifier] = &attemptRecord{count: 1, windowStart: now}
		return nil
	}
	if rec.count >= maxAttempts {
		return &domain.LockoutError{
			RetryAfter: lockoutDuration - now.Sub(rec.windowStart),
		}
	}
	rec.count++
	return nil
}

// Reset drops the record for identifier, allowing an immediate retry.
// Resetting an unknown identifier is a no-op.
func (l *Limiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, identifier)
}
