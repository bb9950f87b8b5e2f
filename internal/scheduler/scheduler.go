// Package scheduler arms and fires destination and transport reminders.
// Reminders live in a fire-time-ordered queue owned by a single Run loop;
// armed entries can be invalidated by entity id when a destination or
// transport is deleted. Reminders whose fire time passed while the process
// was down are dropped, never replayed.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PetWolowitz/HodeWay/internal/domain"
	"github.com/PetWolowitz/HodeWay/internal/notify"
)

// Used when no signed-in recipient has been set.
const defaultRecipient = "user@example.com"

// Prefs is the view of the preference store the scheduler needs. Reads go
// through it on every scheduling and firing decision, so preference updates
// are visible immediately.
type Prefs interface {
	Get() domain.NotificationPreferences
	PushAllowed() bool
}

// FeedSink receives in-app notifications when reminders fire.
type FeedSink interface {
	Push(kind domain.NotificationKind, message string, timeoutMs int) string
}

type Scheduler struct {
	prefs Prefs
	feed  FeedSink
	email notify.EmailGateway
	push  notify.PushSink
	log   *zap.Logger
	now   func() time.Time

	mu        sync.Mutex
	queue     entryHeap
	byEntity  map[string][]*entry
	seq       uint64
	recipient string

	wake chan struct{}
}

func New(prefs Prefs, feed FeedSink, email notify.EmailGateway, push notify.PushSink, log *zap.Logger) *Scheduler {
	return &Scheduler{
		prefs:    prefs,
		feed:     feed,
		email:    email,
		push:     push,
		log:      log,
		now:      time.Now,
		byEntity: make(map[string][]*entry),
		wake:     make(chan struct{}, 1),
	}
}

// SetRecipient sets the email address reminder mails go to, normally the
// signed-in user's.
func (s *Scheduler) SetRecipient(email string) {
	s.mu.Lock()
	s.recipient = email
	s.mu.Unlock()
}

// ScheduleDestination arms the two-days-before reminder for d. A destination
// starting too soon, or disabled reminder categories, arm nothing; that is a
// silent no-op.
func (s *Scheduler) ScheduleDestination(d domain.Destination) {
	r, ok := domain.DestinationReminder(s.now(), d, s.prefs.Get())
	if !ok {
		return
	}
	s.arm(r)
}

// ScheduleTransport arms the departure reminder for t and, for flights, the
// check-in reminder. Both are gated by the transport.enabled preference,
// evaluated once here.
func (s *Scheduler) ScheduleTransport(t domain.Transport) {
	for _, r := range domain.TransportReminders(s.now(), t, s.prefs.Get()) {
		s.arm(r)
	}
}

// Cancel invalidates every pending reminder for entityID, e.g. when the
// destination or transport is deleted. Fired reminders are unaffected.
func (s *Scheduler) Cancel(entityID string) {
	s.mu.Lock()
	for _, e := range s.byEntity[entityID] {
		e.cancelled = true
	}
	delete(s.byEntity, entityID)
	s.mu.Unlock()
	s.notifyLoop()
}

// Pending returns the number of armed, not-yet-cancelled reminders.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.queue {
		if !e.cancelled {
			n++
		}
	}
	return n
}

func (s *Scheduler) arm(r domain.Reminder) {
	s.mu.Lock()
	s.seq++
	e := &entry{rem: r, seq: s.seq}
	pushEntry(&s.queue, e)
	s.byEntity[r.EntityID] = append(s.byEntity[r.EntityID], e)
	s.mu.Unlock()

	s.log.Debug("reminder armed",
		zap.String("entity", r.EntityID),
		zap.String("kind", string(r.Kind)),
		zap.Time("fireAt", r.FireAt),
	)
	s.notifyLoop()
}

func (s *Scheduler) notifyLoop() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run owns the queue until ctx is cancelled. One timer is armed for the head
// entry; scheduling or cancelling wakes the loop so it can re-arm.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		due, wait := s.collectDue()
		for _, r := range due {
			s.fire(ctx, r)
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-timer.C:
		case <-s.wake:
		}
	}
}

// collectDue pops every due reminder and returns them along with how long to
// sleep until the next head fires.
func (s *Scheduler) collectDue() ([]domain.Reminder, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var due []domain.Reminder
	for s.queue.Len() > 0 {
		head := s.queue.peek()
		if head.cancelled {
			popEntry(&s.queue)
			continue
		}
		if head.rem.FireAt.After(now) {
			return due, head.rem.FireAt.Sub(now)
		}
		popEntry(&s.queue)
		s.forget(head)
		due = append(due, head.rem)
	}
	return due, time.Hour
}

func (s *Scheduler) forget(e *entry) {
	id := e.rem.EntityID
	rest := s.byEntity[id][:0]
	for _, o := range s.byEntity[id] {
		if o != e {
			rest = append(rest, o)
		}
	}
	if len(rest) == 0 {
		delete(s.byEntity, id)
	} else {
		s.byEntity[id] = rest
	}
}

// fire delivers one reminder. The in-app notification is pushed first;
// email and platform push are best-effort afterwards, and one reminder's
// gateway failure never touches another pending reminder.
func (s *Scheduler) fire(ctx context.Context, r domain.Reminder) {
	s.feed.Push(domain.KindInfo, r.Message, 0)

	prefs := s.prefs.Get()
	if prefs.EmailEnabled && r.EmailSubject != "" {
		sent, err := s.email.Send(ctx, notify.Message{
			To:      s.emailRecipient(),
			Subject: r.EmailSubject,
			Text:    r.EmailBody,
		})
		if err != nil {
			s.log.Warn("reminder email failed",
				zap.String("entity", r.EntityID), zap.Error(err))
		} else if !sent {
			s.log.Debug("reminder email not sent, gateway disabled",
				zap.String("entity", r.EntityID))
		}
	}

	if r.Push && s.prefs.PushAllowed() {
		if err := s.push.Push(ctx, "Transport Departure Reminder", r.Message); err != nil {
			s.log.Warn("platform push failed",
				zap.String("entity", r.EntityID), zap.Error(err))
		}
	}

	s.log.Info("reminder fired",
		zap.String("entity", r.EntityID),
		zap.String("kind", string(r.Kind)),
	)
}

func (s *Scheduler) emailRecipient() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recipient == "" {
		return defaultRecipient
	}
	return s.recipient
}
