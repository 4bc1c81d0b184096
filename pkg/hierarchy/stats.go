package hierarchy

import "github.com/aretw0/taproot/pkg/core"

// Rating is an advisory health classification for a single subtree.
// It is consumed by UI layers and never blocks an operation.
type Rating string

const (
	RatingGood     Rating = "good"
	RatingWarning  Rating = "warning"
	RatingCritical Rating = "critical"
)

const (
	warnDescendants     = 100
	criticalDescendants = 500
)

// Stats summarizes the shape of the subtree rooted at one note.
type Stats struct {
	Depth           int    `json:"depth"`
	DescendantCount int    `json:"descendantCount"`
	MaxBranchDepth  int    `json:"maxBranchDepth"`
	ChildrenCount   int    `json:"childrenCount"`
	HasCycle        bool   `json:"hasCycle"`
	Rating          Rating `json:"performanceRating"`
}

// Stats computes advisory statistics for the subtree rooted at noteID.
func (c *Checker) Stats(noteID string, notes []core.Note) Stats {
	idx := buildIndex(notes)

	s := Stats{}
	note, ok := idx.byID[noteID]
	if !ok {
		s.Rating = RatingGood
		return s
	}

	s.Depth = c.depth(note, idx)
	s.ChildrenCount = len(idx.children[noteID])
	s.HasCycle = c.DetectCycle(noteID, notes)

	descendants := c.Descendants(noteID, notes)
	s.DescendantCount = len(descendants)
	for _, d := range descendants {
		if bd := c.depth(d, idx); bd > s.MaxBranchDepth {
			s.MaxBranchDepth = bd
		}
	}

	switch {
	case s.DescendantCount > criticalDescendants || s.Depth > c.limits.MaxDepth || s.HasCycle:
		s.Rating = RatingCritical
	case s.DescendantCount >= warnDescendants || s.Depth > c.limits.WarnDepth:
		s.Rating = RatingWarning
	default:
		s.Rating = RatingGood
	}
	return s
}
