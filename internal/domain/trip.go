package domain

import "time"

// TransportType enumerates supported transport kinds.
type TransportType string

const (
	TransportFlight TransportType = "flight"
	TransportTrain  TransportType = "train"
	TransportBus    TransportType = "bus"
	TransportFerry  TransportType = "ferry"
)

// ExpenseCategory enumerates expense buckets.
type ExpenseCategory string

const (
	ExpenseAccommodation ExpenseCategory = "accommodation"
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseFood          ExpenseCategory = "food"
	ExpenseActivities    ExpenseCategory = "activities"
	ExpenseOther         ExpenseCategory = "other"
)

// CollaboratorRole is the access level granted on a shared itinerary.
type CollaboratorRole string

const (
	RoleEditor CollaboratorRole = "editor"
	RoleViewer CollaboratorRole = "viewer"
)

// Itinerary is a trip plan owned by a user.
type Itinerary struct {
	ID          string
	UserID      string
	Title       string
	Description string
	StartDate   time.Time // UTC
	EndDate     time.Time // UTC
	Budget      float64   // 0 = no budget set
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Destination is a stop within an itinerary.
type Destination struct {
	ID          string
	ItineraryID string
	Name        string
	StartDate   time.Time // UTC
	EndDate     time.Time // UTC
	Notes       string
	Lat         float64
	Lng         float64
	Address     string
	Order       int
}

// Endpoint is one end of a transport leg.
type Endpoint struct {
	Location string
	DateTime time.Time // UTC
	Terminal string
}

// Transport is a leg between destinations.
type Transport struct {
	ID               string
	ItineraryID      string
	Type             TransportType
	Provider         string
	BookingReference string
	Departure        Endpoint
	Arrival          Endpoint
	Seats            []string
	Notes            string
}

// Expense is a single spend entry against an itinerary.
type Expense struct {
	ID            string
	ItineraryID   string
	DestinationID string // optional
	Amount        float64
	Currency      string
	Category      ExpenseCategory
	Description   string
	Date          time.Time // UTC
}

// Collaborator is a user invited to a shared itinerary.
type Collaborator struct {
	ID          string
	ItineraryID string
	Email       string
	Role        CollaboratorRole
	InvitedAt   time.Time
	Accepted    bool
}
