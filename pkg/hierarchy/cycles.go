package hierarchy

import (
	"sort"
	"strings"

	"github.com/aretw0/taproot/pkg/core"
)

// Cycle describes one detected parent-link cycle. Path starts at the first
// repeated node and lists the affected ids in walk order.
type Cycle struct {
	Path     []string
	Severity string
}

// DetectCycle reports whether the note's ancestor chain loops back on
// itself. It walks upward with a visited set, so it terminates on any input.
func (c *Checker) DetectCycle(noteID string, notes []core.Note) bool {
	idx := buildIndex(notes)
	seen := make(map[string]bool)

	current, ok := idx.byID[noteID]
	if !ok {
		return false
	}
	for {
		if seen[current.ID] {
			return true
		}
		seen[current.ID] = true

		p := current.Parent()
		if p == "" {
			return false
		}
		parent, ok := idx.byID[p]
		if !ok {
			return false // dangling reference, not a cycle
		}
		current = parent
	}
}

// FindAllCycles scans the whole collection with a depth-first walk over
// child edges, using recursion-stack membership to spot back edges. Each
// cycle is reported once: paths touching the same set of ids are
// de-duplicated.
func (c *Checker) FindAllCycles(notes []core.Note) []Cycle {
	idx := buildIndex(notes)

	state := make(map[string]int) // 0 unvisited, 1 on stack, 2 done
	var stack []string
	var cycles []Cycle
	reported := make(map[string]bool) // key: sorted id set

	var visit func(id string)
	visit = func(id string) {
		state[id] = 1
		stack = append(stack, id)

		for _, childID := range idx.children[id] {
			if _, ok := idx.byID[childID]; !ok {
				continue
			}
			switch state[childID] {
			case 0:
				visit(childID)
			case 1:
				// Back edge: the cycle starts at the first occurrence
				// of childID on the current stack.
				start := 0
				for i, sid := range stack {
					if sid == childID {
						start = i
						break
					}
				}
				path := append([]string(nil), stack[start:]...)
				key := cycleKey(path)
				if !reported[key] {
					reported[key] = true
					cycles = append(cycles, Cycle{Path: path, Severity: "critical"})
					c.logger.Warn("hierarchy cycle found", "path", strings.Join(path, " -> "))
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = 2
	}

	for _, n := range notes {
		if n.ID == "" {
			continue
		}
		if state[n.ID] == 0 {
			visit(n.ID)
		}
	}
	return cycles
}

func cycleKey(path []string) string {
	ids := append([]string(nil), path...)
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}
