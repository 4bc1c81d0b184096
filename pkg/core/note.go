package core

import "time"

// Note is the central entity of the domain.
// It represents a single piece of knowledge anchored to the day it was
// created, optionally attached below another note via ParentID.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Tags      []string  `json:"tags,omitempty"`
	ImageURIs []string  `json:"imageUris,omitempty"`

	// ParentID links this note below another note. A nil ParentID makes
	// this a root note. At most one parent; chains may nest.
	ParentID *string `json:"parentId,omitempty"`

	// Denormalized reminder fields, owned by the reminder subsystem.
	// The store passes them through untouched; only the foreign key
	// relationship (reminder -> note id) is maintained here.
	ReminderCount     int        `json:"reminderCount,omitempty"`
	NextReminderAt    *time.Time `json:"nextReminderAt,omitempty"`
	HasActiveReminder bool       `json:"hasActiveReminder,omitempty"`
}

// IsRoot reports whether the note sits at the top of a hierarchy.
func (n Note) IsRoot() bool {
	return n.ParentID == nil || *n.ParentID == ""
}

// IsSubNote reports whether the note is attached below a parent.
func (n Note) IsSubNote() bool {
	return !n.IsRoot()
}

// Parent returns the parent id, or "" for root notes.
func (n Note) Parent() string {
	if n.ParentID == nil {
		return ""
	}
	return *n.ParentID
}
