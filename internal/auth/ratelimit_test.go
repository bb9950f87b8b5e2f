package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/PetWolowitz/HodeWay/internal/domain"
)

// limiterAt returns a limiter whose clock is controlled by the test.
func limiterAt(start time.Time) (*Limiter, *time.Time) {
	now := start
	l := NewLimiter()
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_SixthAttemptLocksOut(t *testing.T) {
	l, _ := limiterAt(time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		if err := l.Check("a@b.co"); err != nil {
			t.Fatalf("attempt %d: unexpected error %v", i+1, err)
		}
	}

	err := l.Check("a@b.co")
	var lo *domain.LockoutError
	if !errors.As(err, &lo) {
		t.Fatalf("6th attempt: want *LockoutError, got %v", err)
	}
	if lo.RetryAfter <= 0 || lo.RetryAfter > 15*time.Minute {
		t.Fatalf("RetryAfter out of range: %v", lo.RetryAfter)
	}
}

func TestLimiter_WindowResetAfterSixteenMinutes(t *testing.T) {
	l, now := limiterAt(time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 6; i++ {
		_ = l.Check("a@b.co")
	}

	*now = now.Add(16 * time.Minute)
	if err := l.Check("a@b.co"); err != nil {
		t.Fatalf("attempt after window elapsed must succeed, got %v", err)
	}
}

func TestLimiter_LockedOutDoesNotExtendWindow(t *testing.T) {
	start := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	l, now := limiterAt(start)

	for i := 0; i < 5; i++ {
		_ = l.Check("a@b.co")
	}

	// Hammering during lockout must not push the reset further away.
	*now = start.Add(10 * time.Minute)
	var lo *domain.LockoutError
	if err := l.Check("a@b.co"); !errors.As(err, &lo) {
		t.Fatalf("expected lockout, got %v", err)
	}
	if want := 5 * time.Minute; lo.RetryAfter != want {
		t.Fatalf("RetryAfter: want %v, got %v", want, lo.RetryAfter)
	}
}

func TestLimiter_IdentifiersAreIndependent(t *testing.T) {
	l, _ := limiterAt(time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 6; i++ {
		_ = l.Check("a@b.co")
	}
	if err := l.Check("other@b.co"); err != nil {
		t.Fatalf("unrelated identifier locked out: %v", err)
	}
}

func TestLimiter_ResetIsIdempotent(t *testing.T) {
	l, _ := limiterAt(time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 6; i++ {
		_ = l.Check("a@b.co")
	}
	l.Reset("a@b.co")
	l.Reset("a@b.co") // clearing an absent record is a no-op

	if err := l.Check("a@b.co"); err != nil {
		t.Fatalf("attempt after reset must succeed, got %v", err)
	}
	l.Reset("never-seen@b.co")
}
