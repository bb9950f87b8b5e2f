package domain

// NotificationPreferences holds per-user channel and reminder settings.
type NotificationPreferences struct {
	EmailEnabled bool
	PushEnabled  bool
	Reminders    ReminderPrefs
}

// ReminderPrefs selects which reminder categories are active.
type ReminderPrefs struct {
	CheckIn    bool
	Departure  bool
	Activities bool
	Transport  TransportReminderPrefs
}

// TransportReminderPrefs controls transport-departure reminders.
// AdvanceMinutes is how long before departure the reminder fires.
type TransportReminderPrefs struct {
	Enabled        bool
	AdvanceMinutes int // >= 0
}

// DefaultPreferences returns the out-of-the-box settings: every channel and
// category on, transport reminders 2 hours ahead.
func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{
		EmailEnabled: true,
		PushEnabled:  true,
		Reminders: ReminderPrefs{
			CheckIn:    true,
			Departure:  true,
			Activities: true,
			Transport: TransportReminderPrefs{
				Enabled:        true,
				AdvanceMinutes: 120,
			},
		},
	}
}

// PreferencesPatch is a partial update. Nil fields keep the current value;
// nested structs merge field-by-field, never wholesale-replace.
type PreferencesPatch struct {
	EmailEnabled *bool
	PushEnabled  *bool
	Reminders    *ReminderPatch
}

// ReminderPatch is the partial form of ReminderPrefs.
type ReminderPatch struct {
	CheckIn    *bool
	Departure  *bool
	Activities *bool
	Transport  *TransportReminderPatch
}

// TransportReminderPatch is the partial form of TransportReminderPrefs.
type TransportReminderPatch struct {
	Enabled        *bool
	AdvanceMinutes *int
}

// Merge applies p on top of cur and returns the result. Updating
// Reminders.Transport.AdvanceMinutes alone must not clear
// Reminders.Transport.Enabled, and so on for every sibling field.
func (p PreferencesPatch) Merge(cur NotificationPreferences) NotificationPreferences {
	out := cur
	if p.EmailEnabled != nil {
		out.EmailEnabled = *p.EmailEnabled
	}
	if p.PushEnabled != nil {
		out.PushEnabled = *p.PushEnabled
	}
	if p.Reminders == nil {
		return out
	}
	r := p.Reminders
	if r.CheckIn != nil {
		out.Reminders.CheckIn = *r.CheckIn
	}
	if r.Departure != nil {
		out.Reminders.Departure = *r.Departure
	}
	if r.Activities != nil {
		out.Reminders.Activities = *r.Activities
	}
	if r.Transport != nil {
		if r.Transport.Enabled != nil {
			out.Reminders.Transport.Enabled = *r.Transport.Enabled
		}
		if r.Transport.AdvanceMinutes != nil {
			m := *r.Transport.AdvanceMinutes
			if m < 0 {
				m = 0
			}
			out.Reminders.Transport.AdvanceMinutes = m
		}
	}
	return out
}
