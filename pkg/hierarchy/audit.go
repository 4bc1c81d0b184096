package hierarchy

import (
	"fmt"
	"strings"

	"github.com/aretw0/taproot/pkg/core"
)

// Issue is a hard consistency problem found during an audit.
type Issue struct {
	Kind   string   `json:"kind"` // "cycle" or "orphan"
	NoteID string   `json:"noteId,omitempty"`
	Path   []string `json:"path,omitempty"`
	Detail string   `json:"detail"`
}

// AuditStats are collection-wide totals gathered during an audit.
type AuditStats struct {
	TotalNotes int `json:"totalNotes"`
	RootNotes  int `json:"rootNotes"`
	SubNotes   int `json:"subNotes"`
	Cycles     int `json:"cycles"`
	Orphans    int `json:"orphans"`
	MaxDepth   int `json:"maxDepth"`
}

// Report is the result of a full hierarchy audit. Healthy is true iff no
// hard issues were found; warnings alone do not make a collection unhealthy.
type Report struct {
	Healthy  bool       `json:"healthy"`
	Issues   []Issue    `json:"issues"`
	Warnings []string   `json:"warnings"`
	Stats    AuditStats `json:"stats"`
}

// Audit inspects the whole collection for hard problems (cycles, orphaned
// parent references) and soft ones (notes past the advisory depth or
// fan-out thresholds). Existing violations of the soft ceilings are only
// reported, never repaired.
func (c *Checker) Audit(notes []core.Note) Report {
	idx := buildIndex(notes)
	report := Report{}

	for _, cyc := range c.FindAllCycles(notes) {
		report.Issues = append(report.Issues, Issue{
			Kind:   "cycle",
			Path:   cyc.Path,
			Detail: fmt.Sprintf("parent links form a cycle: %s", strings.Join(cyc.Path, " -> ")),
		})
		report.Stats.Cycles++
	}

	for _, n := range notes {
		if n.ID == "" {
			continue
		}
		report.Stats.TotalNotes++
		if n.IsRoot() {
			report.Stats.RootNotes++
		} else {
			report.Stats.SubNotes++
			if _, ok := idx.byID[n.Parent()]; !ok {
				report.Issues = append(report.Issues, Issue{
					Kind:   "orphan",
					NoteID: n.ID,
					Detail: fmt.Sprintf("note %q references missing parent %q", n.ID, n.Parent()),
				})
				report.Stats.Orphans++
			}
		}

		d := c.depth(n, idx)
		if d > report.Stats.MaxDepth {
			report.Stats.MaxDepth = d
		}
		if d > c.limits.WarnDepth {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("note %q sits at depth %d, past the advisory threshold %d", n.ID, d, c.limits.WarnDepth))
		}
		if count := len(idx.children[n.ID]); count > int(float64(c.limits.MaxChildren)*fanOutWarnRatio) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("note %q has %d children, approaching the cap of %d", n.ID, count, c.limits.MaxChildren))
		}
	}

	report.Healthy = len(report.Issues) == 0
	return report
}
