package values

import "fmt"

// Source records where a phase diagram entry came from.
type Source string

const (
	// SourceCandidate marks a hypothetical compound with an estimated energy
	SourceCandidate Source = "candidate"
	// SourceReference marks a pure-element reference state (energy 0)
	SourceReference Source = "reference"
)

// IsReference returns true for pure-element reference entries
func (s Source) IsReference() bool {
	return s == SourceReference
}

// Validate returns an error if the source value is invalid
func (s Source) Validate() error {
	switch s {
	case SourceCandidate, SourceReference:
		return nil
	default:
		return fmt.Errorf("invalid entry source: %s", s)
	}
}

// Stability is the hull classification of an entry.
type Stability string

const (
	// StabilityStable indicates the entry lies on the lower convex hull
	StabilityStable Stability = "stable"
	// StabilityUnstable indicates the entry lies above the hull and decomposes
	StabilityUnstable Stability = "unstable"
)

// StabilityOf converts an on-hull flag to a Stability.
func StabilityOf(onHull bool) Stability {
	if onHull {
		return StabilityStable
	}
	return StabilityUnstable
}

// IsStable returns true if the entry lies on the hull
func (s Stability) IsStable() bool {
	return s == StabilityStable
}
