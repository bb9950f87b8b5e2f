// Package feed keeps the ordered, ephemeral list of user-facing messages
// (toasts). Entries either expire on their own timeout or are dismissed
// explicitly; a removed id never reappears.
package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PetWolowitz/HodeWay/internal/domain"
)

type Feed struct {
	log *zap.Logger

	mu     sync.Mutex
	items  []domain.Notification
	timers map[string]*time.Timer
}

func New(log *zap.Logger) *Feed {
	return &Feed{
		log:    log,
		timers: make(map[string]*time.Timer),
	}
}

// Push appends a notification and returns its id. Append order is display
// order. A positive timeoutMs arms an auto-dismiss timer; 0 keeps the entry
// until it is removed explicitly.
func (f *Feed) Push(kind domain.NotificationKind, message string, timeoutMs int) string {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		TimeoutMs: timeoutMs,
	}

	f.mu.Lock()
	f.items = append(f.items, n)
	if timeoutMs > 0 {
		f.timers[n.ID] = time.AfterFunc(time.Duration(timeoutMs)*time.Millisecond, func() {
			f.Remove(n.ID)
		})
	}
	f.mu.Unlock()

	f.log.Debug("notification pushed",
		zap.String("id", n.ID),
		zap.String("kind", string(kind)),
		zap.String("message", message),
	)
	return n.ID
}

// Remove deletes the notification by id and cancels its pending auto-dismiss
// timer. Removing an absent id is a no-op, so a late timer firing against an
// already-dismissed entry is harmless.
func (f *Feed) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.timers[id]; ok {
		t.Stop()
		delete(f.timers, id)
	}
	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return
		}
	}
}

// List returns the current notifications in display order.
func (f *Feed) List() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// CheckBudget runs one budget evaluation pass over expenses and pushes the
// resulting alerts: at most one threshold warning (the highest crossed) plus,
// when applicable, the daily overspend warning.
func (f *Feed) CheckBudget(expenses []domain.Expense, budget float64) {
	for _, a := range domain.EvaluateBudget(expenses, budget) {
		f.Push(a.Kind, a.Message, domain.BudgetAlertTimeoutMs)
	}
}
