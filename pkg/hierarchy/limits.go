package hierarchy

// Limits are the soft ceilings enforced on structural mutations.
// They are checked at mutation time only; legacy data already violating
// them is reported by Audit, never auto-repaired.
type Limits struct {
	// MaxDepth is the maximum number of ancestor hops a note may sit at.
	// A creation that would place the child at this depth is refused.
	MaxDepth int

	// MaxChildren caps the direct children of a single note.
	MaxChildren int

	// WarnDepth is the advisory threshold. Reaching it never blocks a
	// mutation; it only produces a warning for the caller to display.
	WarnDepth int
}

// DefaultLimits returns the stock configuration.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:    5,
		MaxChildren: 50,
		WarnDepth:   3,
	}
}

// maxUpwardHops bounds every parent-link walk, independently of the
// configured MaxDepth, so traversal terminates even on cyclic data.
const maxUpwardHops = 10

// fanOutWarnRatio is the fraction of MaxChildren at which an advisory
// warning is attached to creation checks.
const fanOutWarnRatio = 0.8
