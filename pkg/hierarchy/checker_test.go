package hierarchy_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/taproot/pkg/core"
	"github.com/aretw0/taproot/pkg/hierarchy"
)

func newChecker(t *testing.T) *hierarchy.Checker {
	t.Helper()
	return hierarchy.NewChecker(hierarchy.DefaultLimits(), nil)
}

func note(id, parent string) core.Note {
	n := core.Note{
		ID:        id,
		Content:   "content of " + id,
		CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	if parent != "" {
		n.ParentID = &parent
	}
	return n
}

// chain builds A -> B -> C ... where each note is the parent of the next.
func chain(ids ...string) []core.Note {
	var notes []core.Note
	for i, id := range ids {
		parent := ""
		if i > 0 {
			parent = ids[i-1]
		}
		notes = append(notes, note(id, parent))
	}
	return notes
}

func TestDepth(t *testing.T) {
	c := newChecker(t)

	t.Run("Root Is Zero", func(t *testing.T) {
		notes := []core.Note{note("a", "")}
		assert.Equal(t, 0, c.Depth(notes[0], notes))
	})

	t.Run("Increases By One Per Hop", func(t *testing.T) {
		notes := chain("a", "b", "c", "d", "e")
		for i, n := range notes {
			assert.Equal(t, i, c.Depth(n, notes), "depth of %s", n.ID)
		}
	})

	t.Run("Dangling Parent Treated As Root", func(t *testing.T) {
		notes := []core.Note{note("orphan", "ghost")}
		assert.Equal(t, 0, c.Depth(notes[0], notes))
	})

	t.Run("Terminates On Cycle", func(t *testing.T) {
		notes := []core.Note{note("a", "b"), note("b", "a")}
		d := c.Depth(notes[0], notes)
		assert.LessOrEqual(t, d, 10, "cycle walk must be bounded")
	})
}

func TestDescendants(t *testing.T) {
	c := newChecker(t)

	t.Run("Collects Transitive Children", func(t *testing.T) {
		notes := []core.Note{
			note("root", ""),
			note("a", "root"),
			note("b", "root"),
			note("a1", "a"),
			note("unrelated", ""),
		}
		got := c.Descendants("root", notes)
		require.Len(t, got, 3)

		ids := make(map[string]bool)
		for _, n := range got {
			ids[n.ID] = true
		}
		assert.True(t, ids["a"] && ids["b"] && ids["a1"])
		assert.False(t, ids["unrelated"])
	})

	t.Run("Idempotent And Stable Order", func(t *testing.T) {
		notes := []core.Note{
			note("root", ""),
			note("a", "root"),
			note("b", "root"),
			note("b1", "b"),
		}
		first := c.Descendants("root", notes)
		second := c.Descendants("root", notes)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})

	t.Run("Does Not Recurse Forever On Cycle", func(t *testing.T) {
		notes := []core.Note{note("a", "b"), note("b", "a")}
		got := c.Descendants("a", notes)
		assert.LessOrEqual(t, len(got), 2)
	})

	t.Run("Unknown Id Yields Nothing", func(t *testing.T) {
		notes := chain("a", "b")
		assert.Empty(t, c.Descendants("ghost", notes))
	})
}

func TestCanCreateChild(t *testing.T) {
	c := newChecker(t)

	t.Run("Parent Must Exist", func(t *testing.T) {
		check := c.CanCreateChild("ghost", chain("a"))
		require.False(t, check.OK)
		assert.Equal(t, core.ReasonParentNotFound, check.Reason)
	})

	t.Run("Depth Ceiling", func(t *testing.T) {
		// Chain A->B->C->D->E: E sits at depth 4, a child of E would
		// sit at depth 5 which reaches MaxDepth.
		notes := chain("A", "B", "C", "D", "E")

		check := c.CanCreateChild("D", notes)
		assert.True(t, check.OK, "child of D sits at depth 4, below the ceiling")

		check = c.CanCreateChild("E", notes)
		require.False(t, check.OK)
		assert.Equal(t, core.ReasonDepthExceeded, check.Reason)
	})

	t.Run("Fan Out Ceiling", func(t *testing.T) {
		notes := []core.Note{note("R", "")}
		for i := 0; i < 50; i++ {
			notes = append(notes, note(fmt.Sprintf("c%d", i), "R"))
		}
		check := c.CanCreateChild("R", notes)
		require.False(t, check.OK)
		assert.Equal(t, core.ReasonFanOutExceeded, check.Reason)
	})

	t.Run("Advisory Warnings Do Not Block", func(t *testing.T) {
		// Depth advisory: child of C sits at depth 3 == WarnDepth.
		notes := chain("A", "B", "C")
		check := c.CanCreateChild("C", notes)
		require.True(t, check.OK)
		assert.NotEmpty(t, check.Warnings)

		// Fan-out advisory: 40th child is 80% of the cap of 50.
		notes = []core.Note{note("R", "")}
		for i := 0; i < 39; i++ {
			notes = append(notes, note(fmt.Sprintf("c%d", i), "R"))
		}
		check = c.CanCreateChild("R", notes)
		require.True(t, check.OK)
		assert.NotEmpty(t, check.Warnings)
	})

	t.Run("No Warnings Near The Root", func(t *testing.T) {
		notes := chain("A")
		check := c.CanCreateChild("A", notes)
		require.True(t, check.OK)
		assert.Empty(t, check.Warnings)
	})
}

func TestCanReparent(t *testing.T) {
	c := newChecker(t)

	notes := []core.Note{
		note("A", ""),
		note("B", "A"),
		note("C", "B"),
		note("X", ""),
	}

	t.Run("Forbids Self Parenting", func(t *testing.T) {
		assert.False(t, c.CanReparent("A", "A", notes))
	})

	t.Run("Forbids Moving Below Own Descendant", func(t *testing.T) {
		assert.False(t, c.CanReparent("A", "B", notes))
		assert.False(t, c.CanReparent("A", "C", notes))
	})

	t.Run("Allows Legal Moves", func(t *testing.T) {
		assert.True(t, c.CanReparent("C", "A", notes))
		assert.True(t, c.CanReparent("X", "C", notes))
	})

	t.Run("Allows Detaching To Root", func(t *testing.T) {
		assert.True(t, c.CanReparent("C", "", notes))
	})

	t.Run("Rejects Unknown Notes", func(t *testing.T) {
		assert.False(t, c.CanReparent("ghost", "A", notes))
		assert.False(t, c.CanReparent("A", "ghost", notes))
	})
}

func TestDetectCycle(t *testing.T) {
	c := newChecker(t)

	t.Run("Clean Chain Has No Cycle", func(t *testing.T) {
		notes := chain("a", "b", "c")
		for _, n := range notes {
			assert.False(t, c.DetectCycle(n.ID, notes))
		}
	})

	t.Run("Detects Two Node Cycle", func(t *testing.T) {
		notes := []core.Note{note("a", "b"), note("b", "a")}
		assert.True(t, c.DetectCycle("a", notes))
		assert.True(t, c.DetectCycle("b", notes))
	})

	t.Run("Detects Note Hanging Off A Cycle", func(t *testing.T) {
		notes := []core.Note{note("a", "b"), note("b", "a"), note("leaf", "a")}
		assert.True(t, c.DetectCycle("leaf", notes))
	})
}

func TestStats(t *testing.T) {
	c := newChecker(t)

	t.Run("Small Healthy Subtree Is Good", func(t *testing.T) {
		notes := []core.Note{note("root", ""), note("a", "root")}
		s := c.Stats("root", notes)
		assert.Equal(t, hierarchy.RatingGood, s.Rating)
		assert.Equal(t, 1, s.DescendantCount)
		assert.Equal(t, 1, s.ChildrenCount)
		assert.False(t, s.HasCycle)
	})

	t.Run("Many Descendants Rate Warning", func(t *testing.T) {
		notes := []core.Note{note("root", "")}
		for i := 0; i < 120; i++ {
			notes = append(notes, note(fmt.Sprintf("c%d", i), "root"))
		}
		s := c.Stats("root", notes)
		assert.Equal(t, hierarchy.RatingWarning, s.Rating)
	})

	t.Run("Cycle Rates Critical", func(t *testing.T) {
		notes := []core.Note{note("a", "b"), note("b", "a")}
		s := c.Stats("a", notes)
		assert.True(t, s.HasCycle)
		assert.Equal(t, hierarchy.RatingCritical, s.Rating)
	})

	t.Run("Unknown Note Is Good And Empty", func(t *testing.T) {
		s := c.Stats("ghost", chain("a"))
		assert.Equal(t, hierarchy.RatingGood, s.Rating)
		assert.Zero(t, s.DescendantCount)
	})
}
