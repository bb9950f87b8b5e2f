package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/PetWolowitz/HodeWay/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seedUser(t *testing.T, r *SQLiteRepo, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           "u-" + email,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "$2a$12$fakehashfakehashfakehash",
		CreatedAt:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := r.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)
	u := seedUser(t, r, "ada@example.com")

	got, err := r.UserByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.ID != u.ID || got.FullName != u.FullName || got.PasswordHash != u.PasswordHash {
		t.Fatalf("user mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("createdAt mismatch: %v != %v", got.CreatedAt, u.CreatedAt)
	}

	if _, err := r.UserByEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)
	seedUser(t, r, "ada@example.com")

	dup := &domain.User{ID: "other", Email: "ada@example.com", FullName: "Other", PasswordHash: "x", CreatedAt: time.Now()}
	if err := r.CreateUser(ctx, dup); err == nil {
		t.Fatal("duplicate email must violate the unique constraint")
	}
}

func TestPreferences_DefaultsThenRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)
	u := seedUser(t, r, "ada@example.com")

	got, err := r.Preferences(ctx, u.ID)
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if got != domain.DefaultPreferences() {
		t.Fatalf("unsaved user must get defaults, got %+v", got)
	}

	p := domain.DefaultPreferences()
	p.EmailEnabled = false
	p.Reminders.Transport.AdvanceMinutes = 45
	if err := r.SavePreferences(ctx, u.ID, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err = r.Preferences(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got != p {
		t.Fatalf("round-trip mismatch: %+v != %+v", got, p)
	}

	// Saving again overwrites in place.
	p.Reminders.Transport.Enabled = false
	if err := r.SavePreferences(ctx, u.ID, p); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, _ = r.Preferences(ctx, u.ID)
	if got.Reminders.Transport.Enabled {
		t.Fatal("overwrite lost transport.enabled")
	}
}

func TestItineraryWithChildren(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)
	u := seedUser(t, r, "ada@example.com")

	it := &domain.Itinerary{
		ID:        "it1",
		UserID:    u.ID,
		Title:     "Portugal",
		StartDate: time.Date(2026, time.June, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC),
		Budget:    1000,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := r.CreateItinerary(ctx, it); err != nil {
		t.Fatalf("create itinerary: %v", err)
	}

	d := &domain.Destination{
		ID: "d1", ItineraryID: it.ID, Name: "Lisbon",
		StartDate: it.StartDate, EndDate: it.EndDate,
		Lat: 38.7223, Lng: -9.1393, Order: 1,
	}
	if err := r.AddDestination(ctx, d); err != nil {
		t.Fatalf("add destination: %v", err)
	}

	tr := &domain.Transport{
		ID: "t1", ItineraryID: it.ID, Type: domain.TransportFlight,
		Provider: "TAP", BookingReference: "ABC123",
		Departure: domain.Endpoint{Location: "Rome", DateTime: it.StartDate, Terminal: "3"},
		Arrival:   domain.Endpoint{Location: "Lisbon", DateTime: it.StartDate.Add(3 * time.Hour)},
		Seats:     []string{"12A", "12B"},
	}
	if err := r.AddTransport(ctx, tr); err != nil {
		t.Fatalf("add transport: %v", err)
	}

	e := &domain.Expense{
		ID: "e1", ItineraryID: it.ID, DestinationID: d.ID,
		Amount: 120.50, Currency: "EUR", Category: domain.ExpenseFood,
		Date: it.StartDate,
	}
	if err := r.AddExpense(ctx, e); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	c := &domain.Collaborator{
		ID: "c1", ItineraryID: it.ID, Email: "friend@example.com",
		Role: domain.RoleViewer, InvitedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := r.AddCollaborator(ctx, c); err != nil {
		t.Fatalf("add collaborator: %v", err)
	}

	trs, err := r.ListTransports(ctx, it.ID)
	if err != nil {
		t.Fatalf("list transports: %v", err)
	}
	if len(trs) != 1 || trs[0].Departure.Terminal != "3" || len(trs[0].Seats) != 2 {
		t.Fatalf("transport round-trip mismatch: %+v", trs)
	}

	exps, err := r.ListExpenses(ctx, it.ID)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(exps) != 1 || exps[0].DestinationID != d.ID || exps[0].Amount != 120.50 {
		t.Fatalf("expense round-trip mismatch: %+v", exps)
	}

	// Deleting the itinerary cascades to its children.
	if err := r.DeleteItinerary(ctx, it.ID); err != nil {
		t.Fatalf("delete itinerary: %v", err)
	}
	dests, err := r.ListDestinations(ctx, it.ID)
	if err != nil {
		t.Fatalf("list destinations: %v", err)
	}
	if len(dests) != 0 {
		t.Fatalf("cascade delete left destinations behind: %+v", dests)
	}
}
