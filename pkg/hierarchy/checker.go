// Package hierarchy validates the parent/child relation between notes.
//
// Every function operates on a caller-supplied snapshot of the full note
// collection and is total on malformed input: cycles, dangling parent
// references and other corruption degrade to partial results plus a
// diagnostic log line, never a panic or an infinite loop. The collection
// is untrusted persisted data and may have been partially written.
package hierarchy

import (
	"log/slog"

	"github.com/aretw0/taproot/pkg/core"
)

// Checker runs hierarchy validation against note collection snapshots.
// It is stateless between calls; the snapshot passed in is authoritative.
type Checker struct {
	limits Limits
	logger *slog.Logger
}

// NewChecker creates a Checker. A nil logger discards diagnostics.
func NewChecker(limits Limits, logger *slog.Logger) *Checker {
	if limits.MaxDepth <= 0 {
		limits = DefaultLimits()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Checker{limits: limits, logger: logger}
}

// Limits returns the configured ceilings.
func (c *Checker) Limits() Limits {
	return c.limits
}

// index is an adjacency view of a snapshot, built once per operation so
// recursive traversal does not re-scan the flat slice per call.
type index struct {
	byID     map[string]core.Note
	children map[string][]string // parent id -> child ids, collection order
}

func buildIndex(notes []core.Note) *index {
	idx := &index{
		byID:     make(map[string]core.Note, len(notes)),
		children: make(map[string][]string),
	}
	for _, n := range notes {
		if n.ID == "" {
			continue
		}
		idx.byID[n.ID] = n
		if p := n.Parent(); p != "" {
			idx.children[p] = append(idx.children[p], n.ID)
		}
	}
	return idx
}

// Depth returns the number of ancestor hops from the note to its root:
// 0 for a root note, 1 for its direct child, and so on. The walk follows
// ParentID links upward until a root or a missing parent is reached and
// is bounded by maxUpwardHops so it terminates even on cyclic data.
func (c *Checker) Depth(note core.Note, notes []core.Note) int {
	return c.depth(note, buildIndex(notes))
}

func (c *Checker) depth(note core.Note, idx *index) int {
	depth := 0
	current := note
	for current.IsSubNote() {
		if depth >= maxUpwardHops {
			c.logger.Warn("depth walk hit iteration ceiling, possible cycle",
				"note", note.ID, "ceiling", maxUpwardHops)
			return depth
		}
		parent, ok := idx.byID[current.Parent()]
		if !ok {
			// Dangling parent reference: treat the note as rooted here.
			return depth
		}
		depth++
		current = parent
	}
	return depth
}

// Descendants returns every note transitively below the given id, in
// depth-first order. A node already on the current path is not re-entered;
// such a re-entry is logged as a detected cycle and skipped.
func (c *Checker) Descendants(id string, notes []core.Note) []core.Note {
	idx := buildIndex(notes)
	visited := make(map[string]bool)
	var out []core.Note
	c.collectDescendants(id, idx, visited, &out)
	return out
}

func (c *Checker) collectDescendants(id string, idx *index, visited map[string]bool, out *[]core.Note) {
	if visited[id] {
		c.logger.Warn("cycle detected during descendant traversal", "note", id)
		return
	}
	visited[id] = true
	for _, childID := range idx.children[id] {
		child, ok := idx.byID[childID]
		if !ok {
			continue
		}
		if visited[childID] {
			c.logger.Warn("cycle detected during descendant traversal", "note", childID)
			continue
		}
		*out = append(*out, child)
		c.collectDescendants(childID, idx, visited, out)
	}
}

// ChildCount returns the number of direct children of the given id.
func (c *Checker) ChildCount(id string, notes []core.Note) int {
	return len(buildIndex(notes).children[id])
}
