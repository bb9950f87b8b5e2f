package auth

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/PetWolowitz/HodeWay/internal/domain"
	"github.com/PetWolowitz/HodeWay/internal/store"
)

// fakeRepo implements the user methods of store.Repo in memory; everything
// else panics through the nil embed.
type fakeRepo struct {
	store.Repo
	users map[string]*domain.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*domain.User)}
}

func (r *fakeRepo) CreateUser(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *fakeRepo) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func newService(r *fakeRepo) *Service {
	return NewService(r, NewLimiter(), zap.NewNop())
}

const (
	testEmail = "ada@example.com"
	testPass  = "Str0ng#Passw0rd"
	testName  = "Ada Lovelace"
)

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := newService(repo)

	sess, err := s.SignUp(ctx, testEmail, testPass, testName)
	if err != nil {
		t.Fatalf("sign-up: %v", err)
	}
	if sess.Email != testEmail || sess.FullName != testName || sess.UserID == "" {
		t.Fatalf("bad session: %+v", sess)
	}
	if s.Err() != "" {
		t.Fatalf("error state not clear after success: %q", s.Err())
	}

	s.SignOut()
	if s.Session() != nil {
		t.Fatal("session survives sign-out")
	}

	sess, err = s.SignIn(ctx, testEmail, testPass)
	if err != nil {
		t.Fatalf("sign-in: %v", err)
	}
	if sess.Email != testEmail {
		t.Fatalf("bad session: %+v", sess)
	}
}

func TestSignUp_ConflictKeepsExistingUser(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := newService(repo)

	if _, err := s.SignUp(ctx, testEmail, testPass, testName); err != nil {
		t.Fatalf("first sign-up: %v", err)
	}
	originalHash := repo.users[testEmail].PasswordHash

	_, err := s.SignUp(ctx, testEmail, "0ther#Passw0rd", "Grace Hopper")
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("want *ConflictError, got %v", err)
	}
	if repo.users[testEmail].PasswordHash != originalHash {
		t.Fatal("conflicting sign-up overwrote the stored user")
	}
	if repo.users[testEmail].FullName != testName {
		t.Fatal("conflicting sign-up overwrote the stored full name")
	}
}

func TestSignUp_ValidationBeforeStorage(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := newService(repo)

	var ve *domain.ValidationError
	if _, err := s.SignUp(ctx, "bad-email", testPass, testName); !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if _, err := s.SignUp(ctx, testEmail, "weak", testName); !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError for weak password, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatal("validation failure touched storage")
	}
}

func TestSignIn_UniformInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := newService(repo)

	if _, err := s.SignUp(ctx, testEmail, testPass, testName); err != nil {
		t.Fatalf("sign-up: %v", err)
	}

	_, missingErr := s.SignIn(ctx, "ghost@example.com", testPass)
	_, wrongErr := s.SignIn(ctx, testEmail, "Wr0ng#Passw0rd")

	var se *domain.SecurityError
	if !errors.As(missingErr, &se) || !errors.As(wrongErr, &se) {
		t.Fatalf("want *SecurityError for both, got %v / %v", missingErr, wrongErr)
	}
	if missingErr.Error() != wrongErr.Error() {
		t.Fatalf("error text distinguishes missing account from wrong password: %q vs %q",
			missingErr.Error(), wrongErr.Error())
	}
}

func TestSignIn_LockoutBeforeStorage(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := newService(repo)

	// Five attempts against a non-existent account fill the window.
	for i := 0; i < 5; i++ {
		_, _ = s.SignIn(ctx, "ghost@example.com", "Wr0ng#Passw0rd")
	}

	_, err := s.SignIn(ctx, "ghost@example.com", "Wr0ng#Passw0rd")
	var lo *domain.LockoutError
	if !errors.As(err, &lo) {
		t.Fatalf("6th attempt: want *LockoutError, got %v", err)
	}
	if s.Err() == "" {
		t.Fatal("lockout must surface in the error state")
	}

	// An explicit reset re-opens the identifier.
	s.ResetRateLimit("ghost@example.com")
	if _, err := s.SignIn(ctx, "ghost@example.com", "Wr0ng#Passw0rd"); errors.As(err, &lo) {
		t.Fatal("still locked out after reset")
	}
}
