package hierarchy

import (
	"fmt"

	"github.com/aretw0/taproot/pkg/core"
)

// CreationCheck is the structured result of CanCreateChild. Blocking and
// advisory concerns are distinct: Warnings never cause rejection.
type CreationCheck struct {
	OK       bool
	Reason   core.RejectionReason // set when OK is false
	Detail   string
	Warnings []string
}

// Err converts a failed check into a typed rejection, or nil if it passed.
func (r CreationCheck) Err(parentID string) error {
	if r.OK {
		return nil
	}
	return &core.RejectionError{Reason: r.Reason, Parent: parentID, Detail: r.Detail}
}

// CanCreateChild decides whether a new sub-note may be attached below the
// given parent. It checks parent existence, the depth ceiling (the child
// would sit at parent depth + 1) and the fan-out ceiling, and attaches
// advisory warnings once the child depth reaches WarnDepth or the child
// count passes 80% of the cap.
func (c *Checker) CanCreateChild(parentID string, notes []core.Note) CreationCheck {
	idx := buildIndex(notes)

	parent, ok := idx.byID[parentID]
	if !ok {
		return CreationCheck{
			Reason: core.ReasonParentNotFound,
			Detail: fmt.Sprintf("parent %q does not exist", parentID),
		}
	}

	childDepth := c.depth(parent, idx) + 1
	if childDepth >= c.limits.MaxDepth {
		return CreationCheck{
			Reason: core.ReasonDepthExceeded,
			Detail: fmt.Sprintf("child would sit at depth %d, ceiling is %d", childDepth, c.limits.MaxDepth),
		}
	}

	childCount := len(idx.children[parentID])
	if childCount >= c.limits.MaxChildren {
		return CreationCheck{
			Reason: core.ReasonFanOutExceeded,
			Detail: fmt.Sprintf("parent already has %d children, cap is %d", childCount, c.limits.MaxChildren),
		}
	}

	check := CreationCheck{OK: true}
	if childDepth >= c.limits.WarnDepth {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("deep nesting: child will sit at depth %d (advisory threshold %d)", childDepth, c.limits.WarnDepth))
	}
	if float64(childCount+1) >= float64(c.limits.MaxChildren)*fanOutWarnRatio {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("parent approaching fan-out cap: %d of %d children", childCount+1, c.limits.MaxChildren))
	}
	return check
}

// CanReparent reports whether moving noteID below newParentID is legal.
// It forbids self-parenting and moving a note below any of its own
// descendants (which would close a cycle). It deliberately does not
// re-check depth or fan-out ceilings for the new position; an over-deep
// move surfaces later through Audit warnings.
func (c *Checker) CanReparent(noteID, newParentID string, notes []core.Note) bool {
	if noteID == "" || noteID == newParentID {
		return false
	}
	if newParentID == "" {
		// Detaching to root is always structurally safe.
		return true
	}
	idx := buildIndex(notes)
	if _, ok := idx.byID[noteID]; !ok {
		return false
	}
	if _, ok := idx.byID[newParentID]; !ok {
		return false
	}
	for _, d := range c.Descendants(noteID, notes) {
		if d.ID == newParentID {
			return false
		}
	}
	return true
}
