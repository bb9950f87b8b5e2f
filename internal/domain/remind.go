package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReminderKind identifies what a scheduled reminder is about.
type ReminderKind string

const (
	ReminderDestination ReminderKind = "destination"
	ReminderTransport   ReminderKind = "transport"
	ReminderCheckIn     ReminderKind = "check-in"
)

// Destination reminders fire this long before the stay begins.
const DestinationReminderLead = 48 * time.Hour

// Flight check-in reminders fire this long before departure, independent of
// the configured transport advance.
const CheckInReminderLead = 180 * time.Minute

// Reminder is a fully computed, ready-to-arm reminder. FireAt is always
// strictly after the "now" passed to the computing function.
type Reminder struct {
	EntityID     string
	Kind         ReminderKind
	FireAt       time.Time
	Message      string
	EmailSubject string
	EmailBody    string
	Push         bool // attempt a platform push when the channel allows it
}

// DestinationReminder computes the single reminder for a destination, fired
// two days before the stay begins. It returns false when both the departure
// and check-in categories are disabled, or when the fire time is not strictly
// in the future (a destination starting too soon gets no reminder; this is a
// silent no-op, not an error).
func DestinationReminder(now time.Time, d Destination, prefs NotificationPreferences) (Reminder, bool) {
	if !prefs.Reminders.Departure && !prefs.Reminders.CheckIn {
		return Reminder{}, false
	}
	fireAt := d.StartDate.Add(-DestinationReminderLead)
	if !fireAt.After(now) {
		return Reminder{}, false
	}
	return Reminder{
		EntityID:     d.ID,
		Kind:         ReminderDestination,
		FireAt:       fireAt,
		Message:      fmt.Sprintf("Departure reminder: You're traveling to %s in 2 days!", d.Name),
		EmailSubject: fmt.Sprintf("Upcoming Trip to %s", d.Name),
		EmailBody: fmt.Sprintf(
			"Your trip to %s is in 2 days! Don't forget to pack and check your travel documents.",
			d.Name),
	}, true
}

// TransportReminders computes the reminders for a transport leg: the main
// departure reminder at departure minus the configured advance, plus, for
// flights, a check-in reminder at departure minus 180 minutes. Both are gated
// by the single Reminders.Transport.Enabled flag, evaluated once. Each is
// included only if its fire time is strictly in the future.
func TransportReminders(now time.Time, t Transport, prefs NotificationPreferences) []Reminder {
	if !prefs.Reminders.Transport.Enabled {
		return nil
	}

	var out []Reminder
	advance := prefs.Reminders.Transport.AdvanceMinutes

	fireAt := t.Departure.DateTime.Add(-time.Duration(advance) * time.Minute)
	if fireAt.After(now) {
		out = append(out, Reminder{
			EntityID:     t.ID,
			Kind:         ReminderTransport,
			FireAt:       fireAt,
			Message:      transportMessage(t, advance),
			EmailSubject: fmt.Sprintf("Transport Departure Reminder: %s %s", t.Provider, t.BookingReference),
			EmailBody:    transportEmailBody(t),
			Push:         true,
		})
	}

	if t.Type == TransportFlight {
		checkInAt := t.Departure.DateTime.Add(-CheckInReminderLead)
		if checkInAt.After(now) {
			out = append(out, Reminder{
				EntityID: t.ID,
				Kind:     ReminderCheckIn,
				FireAt:   checkInAt,
				Message: fmt.Sprintf(
					"Flight check-in reminder: Time to check in for your flight to %s",
					t.Arrival.Location),
			})
		}
	}
	return out
}

// transportMessage preserves the exact advance/60 division in the displayed
// hours: 120 renders as "2", 150 as "2.5".
func transportMessage(t Transport, advanceMinutes int) string {
	hours := strconv.FormatFloat(float64(advanceMinutes)/60, 'f', -1, 64)
	return fmt.Sprintf("%s departure reminder: Your %s from %s to %s departs in %s hours (%s)",
		strings.ToUpper(string(t.Type)), t.Type,
		t.Departure.Location, t.Arrival.Location,
		hours, t.Departure.DateTime.Format("15:04"))
}

func transportEmailBody(t Transport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your upcoming %s:\n", t.Type)
	fmt.Fprintf(&b, "From: %s\n", t.Departure.Location)
	fmt.Fprintf(&b, "To: %s\n", t.Arrival.Location)
	fmt.Fprintf(&b, "Date: %s\n", t.Departure.DateTime.Format("January 2, 2006"))
	fmt.Fprintf(&b, "Time: %s\n", t.Departure.DateTime.Format("15:04"))
	if t.Departure.Terminal != "" {
		fmt.Fprintf(&b, "Terminal: %s\n", t.Departure.Terminal)
	}
	fmt.Fprintf(&b, "Booking Reference: %s\n", t.BookingReference)
	if len(t.Seats) > 0 {
		fmt.Fprintf(&b, "Seats: %s\n", strings.Join(t.Seats, ", "))
	}
	return b.String()
}
