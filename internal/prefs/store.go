// Package prefs owns the notification preferences for the active user.
// Every mutation is persisted immediately and visible to the next read, so
// the scheduler always sees current settings.
package prefs

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/PetWolowitz/HodeWay/internal/domain"
	"github.com/PetWolowitz/HodeWay/internal/notify"
	"github.com/PetWolowitz/HodeWay/internal/store"
)

type Store struct {
	repo store.Repo
	perm notify.PermissionProvider
	log  *zap.Logger

	mu     sync.Mutex
	userID string
	cur    domain.NotificationPreferences
}

// Load reads the stored preferences for userID (defaults if never saved) and
// returns a Store bound to that user.
func Load(ctx context.Context, repo store.Repo, userID string, perm notify.PermissionProvider, log *zap.Logger) (*Store, error) {
	p, err := repo.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Store{repo: repo, perm: perm, log: log, userID: userID, cur: p}, nil
}

// Get returns the current preferences.
func (s *Store) Get() domain.NotificationPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Update deep-merges patch into the current preferences and persists the
// result. Sub-objects merge field-by-field; absent fields keep their value.
func (s *Store) Update(ctx context.Context, patch domain.PreferencesPatch) (domain.NotificationPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := patch.Merge(s.cur)
	if err := s.repo.SavePreferences(ctx, s.userID, merged); err != nil {
		return s.cur, err
	}
	s.cur = merged
	s.log.Debug("preferences updated", zap.String("user", s.userID))
	return merged, nil
}

// SetPushEnabled toggles the push channel. Enabling first asks the platform
// for permission and only flips the flag when it was granted; disabling
// always succeeds.
func (s *Store) SetPushEnabled(ctx context.Context, enable bool) (bool, error) {
	if enable {
		granted, err := s.perm.RequestPermission(ctx)
		if err != nil {
			s.log.Warn("push permission request failed", zap.Error(err))
			return false, err
		}
		if !granted {
			return false, nil
		}
	}

	v := enable
	_, err := s.Update(ctx, domain.PreferencesPatch{PushEnabled: &v})
	return enable && err == nil, err
}

// PushAllowed reports whether a platform push may be attempted right now:
// the channel is on and permission is currently granted.
func (s *Store) PushAllowed() bool {
	s.mu.Lock()
	enabled := s.cur.PushEnabled
	s.mu.Unlock()
	return enabled && s.perm.Granted()
}

// Reset restores the defaults, e.g. on account sign-out.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := domain.DefaultPreferences()
	if err := s.repo.SavePreferences(ctx, s.userID, def); err != nil {
		return err
	}
	s.cur = def
	return nil
}
