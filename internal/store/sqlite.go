package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/PetWolowitz/HodeWay/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FullName, u.PasswordHash, unix(u.CreatedAt),
	)
	return err
}

func (r *SQLiteRepo) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, password_hash, created_at
		FROM users
		WHERE email = ?`,
		email,
	)

	var (
		u         domain.User
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = fromUnix(createdAt)
	return &u, nil
}

// Preferences returns the stored settings for userID, falling back to the
// defaults when no row exists yet.
func (r *SQLiteRepo) Preferences(ctx context.Context, userID string) (domain.NotificationPreferences, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT email_enabled, push_enabled, rem_check_in, rem_departure,
		       rem_activities, transport_enabled, advance_minutes
		FROM preferences
		WHERE user_id = ?`,
		userID,
	)

	var (
		emailEnabled, pushEnabled      int
		checkIn, departure, activities int
		transportEnabled, advanceMins  int
	)
	err := row.Scan(&emailEnabled, &pushEnabled, &checkIn, &departure,
		&activities, &transportEnabled, &advanceMins)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return domain.NotificationPreferences{}, err
	}

	return domain.NotificationPreferences{
		EmailEnabled: emailEnabled != 0,
		PushEnabled:  pushEnabled != 0,
		Reminders: domain.ReminderPrefs{
			CheckIn:    checkIn != 0,
			Departure:  departure != 0,
			Activities: activities != 0,
			Transport: domain.TransportReminderPrefs{
				Enabled:        transportEnabled != 0,
				AdvanceMinutes: advanceMins,
			},
		},
	}, nil
}

func (r *SQLiteRepo) SavePreferences(ctx context.Context, userID string, p domain.NotificationPreferences) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (
			user_id, email_enabled, push_enabled, rem_check_in,
			rem_departure, rem_activities, transport_enabled, advance_minutes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email_enabled     = excluded.email_enabled,
			push_enabled      = excluded.push_enabled,
			rem_check_in      = excluded.rem_check_in,
			rem_departure     = excluded.rem_departure,
			rem_activities    = excluded.rem_activities,
			transport_enabled = excluded.transport_enabled,
			advance_minutes   = excluded.advance_minutes`,
		userID, boolToInt(p.EmailEnabled), boolToInt(p.PushEnabled),
		boolToInt(p.Reminders.CheckIn), boolToInt(p.Reminders.Departure),
		boolToInt(p.Reminders.Activities), boolToInt(p.Reminders.Transport.Enabled),
		p.Reminders.Transport.AdvanceMinutes,
	)
	return err
}

func (r *SQLiteRepo) CreateItinerary(ctx context.Context, it *domain.Itinerary) error {
	if it == nil {
		return errors.New("nil itinerary")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO itineraries (
			id, user_id, title, description, start_date, end_date,
			budget, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.UserID, it.Title, toNullString(it.Description),
		unix(it.StartDate), unix(it.EndDate), it.Budget,
		unix(it.CreatedAt), unix(it.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepo) Itinerary(ctx context.Context, id string) (*domain.Itinerary, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, start_date, end_date,
		       budget, created_at, updated_at
		FROM itineraries
		WHERE id = ?`,
		id,
	)
	it, err := scanItinerary(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *SQLiteRepo) ListItineraries(ctx context.Context, userID string) ([]domain.Itinerary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, start_date, end_date,
		       budget, created_at, updated_at
		FROM itineraries
		WHERE user_id = ?
		ORDER BY start_date ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *it)
	}
	return res, rows.Err()
}

func scanItinerary(scan func(...any) error) (*domain.Itinerary, error) {
	var (
		it                             domain.Itinerary
		desc                           sql.NullString
		start, end, createdAt, updated int64
	)
	if err := scan(&it.ID, &it.UserID, &it.Title, &desc, &start, &end,
		&it.Budget, &createdAt, &updated); err != nil {
		return nil, err
	}
	it.Description = fromNullString(desc)
	it.StartDate = fromUnix(start)
	it.EndDate = fromUnix(end)
	it.CreatedAt = fromUnix(createdAt)
	it.UpdatedAt = fromUnix(updated)
	return &it, nil
}

func (r *SQLiteRepo) DeleteItinerary(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM itineraries WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) AddDestination(ctx context.Context, d *domain.Destination) error {
	if d == nil {
		return errors.New("nil destination")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO destinations (
			id, itinerary_id, name, start_date, end_date, notes,
			lat, lng, address, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ItineraryID, d.Name, unix(d.StartDate), unix(d.EndDate),
		toNullString(d.Notes), d.Lat, d.Lng, toNullString(d.Address), d.Order,
	)
	return err
}

func (r *SQLiteRepo) ListDestinations(ctx context.Context, itineraryID string) ([]domain.Destination, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, itinerary_id, name, start_date, end_date, notes,
		       lat, lng, address, position
		FROM destinations
		WHERE itinerary_id = ?
		ORDER BY position ASC`,
		itineraryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Destination
	for rows.Next() {
		var (
			d              domain.Destination
			notes, address sql.NullString
			start, end     int64
		)
		if err := rows.Scan(&d.ID, &d.ItineraryID, &d.Name, &start, &end,
			&notes, &d.Lat, &d.Lng, &address, &d.Order); err != nil {
			return nil, err
		}
		d.StartDate = fromUnix(start)
		d.EndDate = fromUnix(end)
		d.Notes = fromNullString(notes)
		d.Address = fromNullString(address)
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r *SQLiteRepo) DeleteDestination(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) AddTransport(ctx context.Context, t *domain.Transport) error {
	if t == nil {
		return errors.New("nil transport")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transports (
			id, itinerary_id, type, provider, booking_reference,
			departure_location, departure_at, departure_terminal,
			arrival_location, arrival_at, arrival_terminal, seats, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ItineraryID, string(t.Type), t.Provider, t.BookingReference,
		t.Departure.Location, unix(t.Departure.DateTime), toNullString(t.Departure.Terminal),
		t.Arrival.Location, unix(t.Arrival.DateTime), toNullString(t.Arrival.Terminal),
		toNullString(joinSeats(t.Seats)), toNullString(t.Notes),
	)
	return err
}

func (r *SQLiteRepo) ListTransports(ctx context.Context, itineraryID string) ([]domain.Transport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, itinerary_id, type, provider, booking_reference,
		       departure_location, departure_at, departure_terminal,
		       arrival_location, arrival_at, arrival_terminal, seats, notes
		FROM transports
		WHERE itinerary_id = ?
		ORDER BY departure_at ASC`,
		itineraryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Transport
	for rows.Next() {
		var (
			t                domain.Transport
			typ              string
			depTerm, arrTerm sql.NullString
			seats, notes     sql.NullString
			depAt, arrAt     int64
		)
		if err := rows.Scan(&t.ID, &t.ItineraryID, &typ, &t.Provider, &t.BookingReference,
			&t.Departure.Location, &depAt, &depTerm,
			&t.Arrival.Location, &arrAt, &arrTerm, &seats, &notes); err != nil {
			return nil, err
		}
		t.Type = domain.TransportType(typ)
		t.Departure.DateTime = fromUnix(depAt)
		t.Departure.Terminal = fromNullString(depTerm)
		t.Arrival.DateTime = fromUnix(arrAt)
		t.Arrival.Terminal = fromNullString(arrTerm)
		t.Seats = splitSeats(fromNullString(seats))
		t.Notes = fromNullString(notes)
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *SQLiteRepo) DeleteTransport(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transports WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) AddExpense(ctx context.Context, e *domain.Expense) error {
	if e == nil {
		return errors.New("nil expense")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (
			id, itinerary_id, destination_id, amount, currency,
			category, description, spent_on
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ItineraryID, toNullString(e.DestinationID), e.Amount,
		e.Currency, string(e.Category), toNullString(e.Description), unix(e.Date),
	)
	return err
}

func (r *SQLiteRepo) ListExpenses(ctx context.Context, itineraryID string) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, itinerary_id, destination_id, amount, currency,
		       category, description, spent_on
		FROM expenses
		WHERE itinerary_id = ?
		ORDER BY spent_on ASC`,
		itineraryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Expense
	for rows.Next() {
		var (
			e       domain.Expense
			destID  sql.NullString
			desc    sql.NullString
			cat     string
			spentOn int64
		)
		if err := rows.Scan(&e.ID, &e.ItineraryID, &destID, &e.Amount,
			&e.Currency, &cat, &desc, &spentOn); err != nil {
			return nil, err
		}
		e.DestinationID = fromNullString(destID)
		e.Category = domain.ExpenseCategory(cat)
		e.Description = fromNullString(desc)
		e.Date = fromUnix(spentOn)
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r *SQLiteRepo) AddCollaborator(ctx context.Context, c *domain.Collaborator) error {
	if c == nil {
		return errors.New("nil collaborator")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collaborators (id, itinerary_id, email, role, invited_at, accepted)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ItineraryID, c.Email, string(c.Role), unix(c.InvitedAt), boolToInt(c.Accepted),
	)
	return err
}

func (r *SQLiteRepo) ListCollaborators(ctx context.Context, itineraryID string) ([]domain.Collaborator, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, itinerary_id, email, role, invited_at, accepted
		FROM collaborators
		WHERE itinerary_id = ?
		ORDER BY invited_at ASC`,
		itineraryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Collaborator
	for rows.Next() {
		var (
			c         domain.Collaborator
			role      string
			invitedAt int64
			accepted  int
		)
		if err := rows.Scan(&c.ID, &c.ItineraryID, &c.Email, &role, &invitedAt, &accepted); err != nil {
			return nil, err
		}
		c.Role = domain.CollaboratorRole(role)
		c.InvitedAt = fromUnix(invitedAt)
		c.Accepted = accepted != 0
		res = append(res, c)
	}
	return res, rows.Err()
}
