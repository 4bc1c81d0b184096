// Package reminders owns the reminder collection. The note store never
// touches reminder internals; it reaches this package only through the
// narrow core.ReminderGateway interface.
package reminders

import "time"

// Reminder schedules a nudge for a single note. Delivery (OS notification
// scheduling) is handled elsewhere; this package only owns the data.
type Reminder struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	Message   string    `json:"message,omitempty"`
	TriggerAt time.Time `json:"triggerAt"`
	Repeat    string    `json:"repeat,omitempty"` // "", "daily", "weekly", "monthly"
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Due reports whether the reminder should have fired by now.
func (r Reminder) Due(now time.Time) bool {
	return r.Active && !r.TriggerAt.After(now)
}
