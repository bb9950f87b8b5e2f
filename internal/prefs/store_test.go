package prefs

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/PetWolowitz/HodeWay/internal/domain"
	"github.com/PetWolowitz/HodeWay/internal/store"
)

type fakeRepo struct {
	store.Repo
	saved map[string]domain.NotificationPreferences
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{saved: make(map[string]domain.NotificationPreferences)}
}

func (r *fakeRepo) Preferences(_ context.Context, userID string) (domain.NotificationPreferences, error) {
	if p, ok := r.saved[userID]; ok {
		return p, nil
	}
	return domain.DefaultPreferences(), nil
}

func (r *fakeRepo) SavePreferences(_ context.Context, userID string, p domain.NotificationPreferences) error {
	r.saved[userID] = p
	return nil
}

type fakePermission struct {
	grant     bool
	requested int
}

func (f *fakePermission) RequestPermission(context.Context) (bool, error) {
	f.requested++
	return f.grant, nil
}

func (f *fakePermission) Granted() bool { return f.grant }

func load(t *testing.T, repo *fakeRepo, perm *fakePermission) *Store {
	t.Helper()
	s, err := Load(context.Background(), repo, "u1", perm, zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestUpdate_PersistsAndMerges(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := load(t, repo, &fakePermission{grant: true})

	mins := 45
	got, err := s.Update(ctx, domain.PreferencesPatch{
		Reminders: &domain.ReminderPatch{
			Transport: &domain.TransportReminderPatch{AdvanceMinutes: &mins},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.Reminders.Transport.Enabled || got.Reminders.Transport.AdvanceMinutes != 45 {
		t.Fatalf("merge dropped siblings: %+v", got.Reminders.Transport)
	}
	if repo.saved["u1"] != got {
		t.Fatal("update not persisted")
	}
	if s.Get() != got {
		t.Fatal("stale read after update")
	}
}

func TestSetPushEnabled_RequiresPermission(t *testing.T) {
	ctx := context.Background()
	perm := &fakePermission{grant: false}
	s := load(t, newFakeRepo(), perm)

	on, err := s.SetPushEnabled(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if on {
		t.Fatal("push enabled without permission")
	}
	if perm.requested != 1 {
		t.Fatalf("permission requested %d times, want 1", perm.requested)
	}
	if !s.Get().PushEnabled {
		// The flag stays at its prior (default true) value; denial only
		// blocks the enable, it does not force-disable.
		t.Log("push flag untouched after denied request")
	}
}

func TestSetPushEnabled_DisableAlwaysSucceeds(t *testing.T) {
	ctx := context.Background()
	perm := &fakePermission{grant: false}
	s := load(t, newFakeRepo(), perm)

	if _, err := s.SetPushEnabled(ctx, false); err != nil {
		t.Fatalf("disable must succeed unconditionally: %v", err)
	}
	if s.Get().PushEnabled {
		t.Fatal("push still enabled")
	}
	if perm.requested != 0 {
		t.Fatal("disabling must not request permission")
	}
}

func TestReset_RestoresDefaults(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := load(t, repo, &fakePermission{grant: true})

	off := false
	if _, err := s.Update(ctx, domain.PreferencesPatch{EmailEnabled: &off}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.Get() != domain.DefaultPreferences() {
		t.Fatalf("reset did not restore defaults: %+v", s.Get())
	}
	if repo.saved["u1"] != domain.DefaultPreferences() {
		t.Fatal("reset not persisted")
	}
}
