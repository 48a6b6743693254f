// Package dto contains data transfer objects for application layer use cases.
package dto

// ReactionRequest encapsulates the inputs of a single reaction query.
type ReactionRequest struct {
	Metadata RequestMetadata `json:"-" yaml:"-"`
	ElementA string          `json:"element_a" yaml:"element_a"`
	ElementB string          `json:"element_b" yaml:"element_b"`
	Filter   string          `json:"filter,omitempty" yaml:"filter,omitempty"`

	// IncludeEntries attaches every diagram entry to the result.
	IncludeEntries bool `json:"-" yaml:"-"`
}

// ElementPair is one element pair of a batch.
type ElementPair struct {
	ElementA string `json:"element_a" yaml:"element_a"`
	ElementB string `json:"element_b" yaml:"element_b"`
}

// BatchRequest encapsulates a batch of reaction queries sharing one filter.
type BatchRequest struct {
	Metadata RequestMetadata `json:"-" yaml:"-"`
	Filter   string          `json:"filter,omitempty" yaml:"filter,omitempty"`
	Pairs    []ElementPair   `json:"pairs" yaml:"pairs"`

	// MaxConcurrent limits parallel queries (0 = no limit)
	MaxConcurrent int `json:"-" yaml:"-"`
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}

// EntryInput is a user-supplied phase diagram entry.
type EntryInput struct {
	Formula       string  `json:"formula" yaml:"formula"`
	EnergyPerAtom float64 `json:"energy_per_atom" yaml:"energy_per_atom"`
}

// DiagramRequest builds a phase diagram from known energies instead of
// estimating them.
type DiagramRequest struct {
	Metadata RequestMetadata `json:"-" yaml:"-"`
	Elements []string        `json:"elements" yaml:"elements"`
	Entries  []EntryInput    `json:"entries" yaml:"entries"`
}
