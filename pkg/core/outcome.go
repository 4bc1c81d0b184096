package core

import "fmt"

// Outcome records how a mutation went beyond plain success/failure.
// Secondary effects (reminder cascades, corrupt-payload recovery) may
// degrade an otherwise successful operation; those show up as warnings
// instead of errors so callers and tests can assert on the degraded
// path without failing the primary operation.
type Outcome struct {
	Warnings []string
}

// Warn appends a warning to the outcome.
func (o *Outcome) Warn(format string, args ...any) {
	o.Warnings = append(o.Warnings, fmt.Sprintf(format, args...))
}

// Degraded reports whether the operation succeeded with warnings.
func (o Outcome) Degraded() bool {
	return len(o.Warnings) > 0
}

// Merge folds another outcome's warnings into this one.
func (o *Outcome) Merge(other Outcome) {
	o.Warnings = append(o.Warnings, other.Warnings...)
}
