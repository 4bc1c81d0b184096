package hierarchy_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/taproot/pkg/core"
)

func TestFindAllCycles(t *testing.T) {
	c := newChecker(t)

	t.Run("Clean Collection Has None", func(t *testing.T) {
		notes := []core.Note{
			note("root", ""),
			note("a", "root"),
			note("b", "root"),
			note("a1", "a"),
		}
		assert.Empty(t, c.FindAllCycles(notes))
	})

	t.Run("Reports Each Cycle Once", func(t *testing.T) {
		notes := []core.Note{
			note("a", "b"), note("b", "a"), // first cycle
			note("x", "y"), note("y", "z"), note("z", "x"), // second cycle
			note("clean", ""),
		}
		cycles := c.FindAllCycles(notes)
		require.Len(t, cycles, 2)
		for _, cyc := range cycles {
			assert.Equal(t, "critical", cyc.Severity)
			assert.NotEmpty(t, cyc.Path)
		}
	})

	t.Run("Self Parent Is A One Node Cycle", func(t *testing.T) {
		notes := []core.Note{note("loop", "loop")}
		cycles := c.FindAllCycles(notes)
		require.Len(t, cycles, 1)
		assert.Equal(t, []string{"loop"}, cycles[0].Path)
	})
}

func TestAudit(t *testing.T) {
	c := newChecker(t)

	t.Run("Healthy Collection", func(t *testing.T) {
		notes := []core.Note{
			note("root", ""),
			note("a", "root"),
			note("b", "root"),
		}
		report := c.Audit(notes)
		assert.True(t, report.Healthy)
		assert.Empty(t, report.Issues)
		assert.Empty(t, report.Warnings)
		assert.Equal(t, 3, report.Stats.TotalNotes)
		assert.Equal(t, 1, report.Stats.RootNotes)
		assert.Equal(t, 2, report.Stats.SubNotes)
		assert.Equal(t, 1, report.Stats.MaxDepth)
	})

	t.Run("Cycle Makes Collection Unhealthy", func(t *testing.T) {
		notes := []core.Note{note("a", "b"), note("b", "a")}
		report := c.Audit(notes)
		require.False(t, report.Healthy)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, "cycle", report.Issues[0].Kind)
		assert.Equal(t, 1, report.Stats.Cycles)
	})

	t.Run("Orphan Makes Collection Unhealthy", func(t *testing.T) {
		notes := []core.Note{
			note("root", ""),
			note("lost", "ghost"),
		}
		report := c.Audit(notes)
		require.False(t, report.Healthy)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, "orphan", report.Issues[0].Kind)
		assert.Equal(t, "lost", report.Issues[0].NoteID)
		assert.Equal(t, 1, report.Stats.Orphans)
	})

	t.Run("Agrees With FindAllCycles", func(t *testing.T) {
		collections := [][]core.Note{
			chain("a", "b", "c"),
			{note("a", "b"), note("b", "a")},
			{note("x", "x")},
			{note("root", ""), note("a", "root"), note("b", "a")},
		}
		for _, notes := range collections {
			report := c.Audit(notes)
			cycles := c.FindAllCycles(notes)
			assert.Equal(t, len(cycles), report.Stats.Cycles)
		}
	})

	t.Run("Deep Branch Only Warns", func(t *testing.T) {
		// A chain of 5 exists in stored data; depth 4 is past WarnDepth
		// but an audit never treats existing depth as a hard issue.
		notes := chain("A", "B", "C", "D", "E")
		report := c.Audit(notes)
		assert.True(t, report.Healthy)
		assert.NotEmpty(t, report.Warnings)
		assert.Equal(t, 4, report.Stats.MaxDepth)
	})

	t.Run("Crowded Parent Only Warns", func(t *testing.T) {
		notes := []core.Note{note("R", "")}
		for i := 0; i < 45; i++ {
			notes = append(notes, note(fmt.Sprintf("c%d", i), "R"))
		}
		report := c.Audit(notes)
		assert.True(t, report.Healthy)
		assert.NotEmpty(t, report.Warnings)
	})

	t.Run("Empty Collection Is Healthy", func(t *testing.T) {
		report := c.Audit(nil)
		assert.True(t, report.Healthy)
		assert.Zero(t, report.Stats.TotalNotes)
	})
}
