package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PetWolowitz/HodeWay/internal/auth"
	"github.com/PetWolowitz/HodeWay/internal/config"
	"github.com/PetWolowitz/HodeWay/internal/domain"
	"github.com/PetWolowitz/HodeWay/internal/feed"
	"github.com/PetWolowitz/HodeWay/internal/notify"
	"github.com/PetWolowitz/HodeWay/internal/prefs"
	"github.com/PetWolowitz/HodeWay/internal/scheduler"
	"github.com/PetWolowitz/HodeWay/internal/store"
)

// App wires the itinerary-planning core: credential store, preference store,
// reminder scheduler, notification feed and the outbound channels.
type App struct {
	cfg     config.Config
	log     *zap.Logger
	httpSrv *http.Server

	repo  store.Repo
	feed  *feed.Feed
	auth  *auth.Service
	email notify.EmailGateway
	push  notify.PushSink
	perm  notify.PermissionProvider

	mu        sync.Mutex
	prefs     *prefs.Store
	sched     *scheduler.Scheduler
	stopSched context.CancelFunc
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	var push notify.PushSink = notify.NopPush{}
	var perm notify.PermissionProvider = notify.StaticPermission(false)
	if cfg.TelegramToken != "" {
		sink, err := notify.NewTelegramSink(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		push = sink
		perm = notify.StaticPermission(true)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{
		cfg:     cfg,
		log:     log,
		httpSrv: srv,
		feed:    feed.New(log),
		email: notify.NewSMTPGateway(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		}, log),
		push: push,
		perm: perm,
	}, nil
}

// Run opens storage, starts the health endpoint and blocks until a shutdown
// signal arrives.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting hodeway", zap.String("http", a.cfg.HTTPAddr))

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.auth = auth.NewService(repo, auth.NewLimiter(), a.log)
	a.log.Info("sqlite ready")

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	a.EndSession(context.Background())

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}
	if a.repo != nil {
		_ = a.repo.Close()
	}
	return nil
}

// Register signs up a new account and opens its session.
func (a *App) Register(ctx context.Context, email, password, fullName string) (*domain.Session, error) {
	sess, err := a.auth.SignUp(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}
	if err := a.openSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// StartSession signs in and arms the reminders for the user's itineraries.
// Reminders whose fire time already passed are dropped, not replayed.
func (a *App) StartSession(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.openSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (a *App) openSession(ctx context.Context, sess *domain.Session) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := prefs.Load(ctx, a.repo, sess.UserID, a.perm, a.log)
	if err != nil {
		return err
	}

	sched := scheduler.New(p, a.feed, a.email, a.push, a.log)
	sched.SetRecipient(sess.Email)

	schedCtx, cancel := context.WithCancel(context.Background())
	go sched.Run(schedCtx)

	a.prefs = p
	a.sched = sched
	a.stopSched = cancel

	if err := a.rearm(ctx, sess.UserID); err != nil {
		a.log.Warn("re-arming reminders failed", zap.Error(err))
	}
	return nil
}

// rearm schedules reminders for every stored destination and transport of the
// user's itineraries. The future-only rule inside the scheduler drops
// anything missed while the process was down.
func (a *App) rearm(ctx context.Context, userID string) error {
	its, err := a.repo.ListItineraries(ctx, userID)
	if err != nil {
		return err
	}
	for _, it := range its {
		dests, err := a.repo.ListDestinations(ctx, it.ID)
		if err != nil {
			return err
		}
		for _, d := range dests {
			a.sched.ScheduleDestination(d)
		}
		trs, err := a.repo.ListTransports(ctx, it.ID)
		if err != nil {
			return err
		}
		for _, t := range trs {
			a.sched.ScheduleTransport(t)
		}
	}
	return nil
}

// InviteCollaborator stores a collaborator row for the itinerary and sends
// the invitation email through the gateway. The invite email being disabled
// or failing does not roll back the stored collaborator; it is logged like
// any other gateway failure.
func (a *App) InviteCollaborator(ctx context.Context, itineraryID, email string, role domain.CollaboratorRole) (*domain.Collaborator, error) {
	sess := a.auth.Session()
	if sess == nil {
		return nil, &domain.ValidationError{Msg: "no active session"}
	}
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if role != domain.RoleEditor && role != domain.RoleViewer {
		return nil, &domain.ValidationError{Field: "role", Msg: "must be editor or viewer"}
	}

	it, err := a.repo.Itinerary(ctx, itineraryID)
	if err != nil {
		return nil, err
	}

	c := &domain.Collaborator{
		ID:          uuid.NewString(),
		ItineraryID: it.ID,
		Email:       email,
		Role:        role,
		InvitedAt:   time.Now().UTC(),
	}
	if err := a.repo.AddCollaborator(ctx, c); err != nil {
		return nil, err
	}

	acceptURL := a.cfg.BaseURL + "/itineraries/" + it.ID + "/accept"
	sent, err := notify.CollaborationInvite(ctx, a.email, email, it.Title, sess.FullName, role, acceptURL)
	if err != nil {
		a.log.Warn("collaboration invite email failed",
			zap.String("itinerary", it.ID), zap.Error(err))
	} else if !sent {
		a.log.Debug("collaboration invite email not sent, gateway disabled",
			zap.String("itinerary", it.ID))
	}
	return c, nil
}

// NotifyItineraryUpdated emails every accepted collaborator of the itinerary
// about the listed changes. Gateway failures are logged per recipient and
// never abort the remaining sends.
func (a *App) NotifyItineraryUpdated(ctx context.Context, itineraryID string, changes []string) error {
	sess := a.auth.Session()
	if sess == nil {
		return &domain.ValidationError{Msg: "no active session"}
	}

	it, err := a.repo.Itinerary(ctx, itineraryID)
	if err != nil {
		return err
	}
	collabs, err := a.repo.ListCollaborators(ctx, it.ID)
	if err != nil {
		return err
	}

	viewURL := a.cfg.BaseURL + "/itineraries/" + it.ID
	for _, c := range collabs {
		if !c.Accepted {
			continue
		}
		if _, err := notify.ItineraryUpdate(ctx, a.email, c.Email, it.Title, sess.FullName, changes, viewURL); err != nil {
			a.log.Warn("itinerary update email failed",
				zap.String("itinerary", it.ID),
				zap.String("to", c.Email),
				zap.Error(err))
		}
	}
	return nil
}

// EndSession signs out: the scheduler stops, preferences reset to defaults
// and the session is dropped.
func (a *App) EndSession(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopSched != nil {
		a.stopSched()
		a.stopSched = nil
		a.sched = nil
	}
	if a.prefs != nil {
		if err := a.prefs.Reset(ctx); err != nil {
			a.log.Warn("preference reset failed", zap.Error(err))
		}
		a.prefs = nil
	}
	if a.auth != nil {
		a.auth.SignOut()
	}
}

// Auth exposes the credential store.
func (a *App) Auth() *auth.Service { return a.auth }

// Feed exposes the notification feed.
func (a *App) Feed() *feed.Feed { return a.feed }

// Prefs returns the preference store of the active session, or nil.
func (a *App) Prefs() *prefs.Store {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prefs
}

// Scheduler returns the reminder scheduler of the active session, or nil.
func (a *App) Scheduler() *scheduler.Scheduler {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sched
}
