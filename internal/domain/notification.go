package domain

// NotificationKind is the visual severity of a feed entry.
type NotificationKind string

const (
	KindInfo    NotificationKind = "info"
	KindWarning NotificationKind = "warning"
	KindError   NotificationKind = "error"
	KindSuccess NotificationKind = "success"
)

// Notification is a transient user-facing message (toast).
// TimeoutMs 0 means the entry persists until explicitly dismissed.
type Notification struct {
	ID        string
	Kind      NotificationKind
	Message   string
	TimeoutMs int
}
