package store

import (
	"context"
	"errors"

	"github.com/PetWolowitz/HodeWay/internal/domain"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Repo defines storage operations for users, preferences and itinerary data.
type Repo interface {
	CreateUser(ctx context.Context, u *domain.User) error
	UserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Preferences returns the stored settings for userID, or the defaults
	// when the user has never saved any.
	Preferences(ctx context.Context, userID string) (domain.NotificationPreferences, error)
	SavePreferences(ctx context.Context, userID string, p domain.NotificationPreferences) error

	CreateItinerary(ctx context.Context, it *domain.Itinerary) error
	Itinerary(ctx context.Context, id string) (*domain.Itinerary, error)
	ListItineraries(ctx context.Context, userID string) ([]domain.Itinerary, error)
	DeleteItinerary(ctx context.Context, id string) error

	AddDestination(ctx context.Context, d *domain.Destination) error
	ListDestinations(ctx context.Context, itineraryID string) ([]domain.Destination, error)
	DeleteDestination(ctx context.Context, id string) error

	AddTransport(ctx context.Context, t *domain.Transport) error
	ListTransports(ctx context.Context, itineraryID string) ([]domain.Transport, error)
	DeleteTransport(ctx context.Context, id string) error

	AddExpense(ctx context.Context, e *domain.Expense) error
	ListExpenses(ctx context.Context, itineraryID string) ([]domain.Expense, error)

	AddCollaborator(ctx context.Context, c *domain.Collaborator) error
	ListCollaborators(ctx context.Context, itineraryID string) ([]domain.Collaborator, error)

	Close() error
}
