package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrEmptyID      = errors.New("note id cannot be empty")
)

// RejectionReason is a machine-readable code for a refused structural mutation.
type RejectionReason string

const (
	ReasonParentNotFound RejectionReason = "parent_not_found"
	ReasonDepthExceeded  RejectionReason = "depth_exceeded"
	ReasonFanOutExceeded RejectionReason = "fanout_exceeded"
	ReasonWouldCycle     RejectionReason = "would_cycle"
	ReasonSelfParent     RejectionReason = "self_parent"
)

// RejectionError reports a structural mutation that violated a hard
// hierarchy invariant. No write has happened when it is returned.
type RejectionError struct {
	Reason RejectionReason
	NoteID string // the note being created/moved, if known
	Parent string // the parent involved in the check
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("hierarchy rejection (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("hierarchy rejection (%s)", e.Reason)
}

// Reject builds a RejectionError.
func Reject(reason RejectionReason, parent, detail string) *RejectionError {
	return &RejectionError{Reason: reason, Parent: parent, Detail: detail}
}

// IsRejection extracts a RejectionError from an error chain.
func IsRejection(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
