package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PetWolowitz/HodeWay/internal/domain"
	"github.com/PetWolowitz/HodeWay/internal/store"
)

// invalidCredentials is deliberately identical for a missing account and a
// wrong password, so error text cannot be used to enumerate accounts.
const invalidCredentials = "Invalid email or password"

// Service is the credential store: it validates, hashes, verifies and rate
// limits sign-in/sign-up against the local user table.
type Service struct {
	repo    store.Repo
	limiter *Limiter
	log     *zap.Logger

	mu      sync.Mutex
	session *domain.Session
	lastErr string
}

func NewService(repo store.Repo, limiter *Limiter, log *zap.Logger) *Service {
	return &Service{repo: repo, limiter: limiter, log: log}
}

// SignUp validates the input, rejects an already-used email and stores a new
// user. On success the active session is set and the error state cleared.
// The password hash never leaves this package.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*domain.Session, error) {
	if err := s.validateSignUp(email, password, fullName); err != nil {
		s.setErr(err.Error())
		return nil, err
	}

	if _, err := s.repo.UserByEmail(ctx, email); err == nil {
		conflict := &domain.ConflictError{Email: email}
		s.setErr(conflict.Error())
		return nil, conflict
	} else if !errors.Is(err, store.ErrNotFound) {
		s.setErr("An unexpected error occurred")
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		s.setErr(err.Error())
		return nil, err
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		s.setErr("An unexpected error occurred")
		return nil, err
	}

	s.log.Info("user registered", zap.String("email", email))
	return s.setSession(u), nil
}

// SignIn validates the input, consults the rate limiter for the email, then
// looks up and verifies the account. Lockout can fail the attempt before
// storage is touched.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if err := domain.ValidateEmail(email); err != nil {
		s.setErr(err.Error())
		return nil, err
	}
	if password == "" {
		err := &domain.ValidationError{Field: "password", Msg: "password is required"}
		s.setErr(err.Error())
		return nil, err
	}

	if err := s.limiter.Check(email); err != nil {
		s.setErr(err.Error())
		return nil, err
	}

	u, err := s.repo.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		secErr := &domain.SecurityError{Msg: invalidCredentials}
		s.setErr(secErr.Error())
		return nil, secErr
	}
	if err != nil {
		s.setErr("An unexpected error occurred")
		return nil, err
	}

	ok, err := VerifyPassword(password, u.PasswordHash)
	if err != nil {
		s.setErr(err.Error())
		return nil, err
	}
	if !ok {
		secErr := &domain.SecurityError{Msg: invalidCredentials}
		s.setErr(secErr.Error())
		return nil, secErr
	}

	s.log.Info("user signed in", zap.String("email", email))
	return s.setSession(u), nil
}

// SignOut drops the active session and clears the error state.
func (s *Service) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.lastErr = ""
}

// Session returns the active identity, or nil when signed out.
func (s *Service) Session() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Err returns the human-readable message of the last failure, for UI display.
func (s *Service) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError resets the error state.
func (s *Service) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// ResetRateLimit clears the attempt record for identifier. Calling it after a
// successful sign-in is the caller's decision, not automatic.
func (s *Service) ResetRateLimit(identifier string) {
	s.limiter.Reset(identifier)
}

func (s *Service) validateSignUp(email, password, fullName string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}
	return domain.ValidateFullName(fullName)
}

func (s *Service) setSession(u *domain.User) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &domain.Session{UserID: u.ID, Email: u.Email, FullName: u.FullName}
	s.lastErr = ""
	cp := *s.session
	return &cp
}

func (s *Service) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}
