package dto

import (
	"time"

	"github.com/reglet-dev/phasehull/internal/domain/execution"
)

// StatusSuccess and StatusError are the wire values of a response status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ReactionResponse contains the result of a reaction query.
type ReactionResponse struct {
	// Result contains the reaction result, also stored in the repository
	Result *execution.ReactionResult

	// Metadata contains response metadata
	Metadata ResponseMetadata
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// RequestID from the original request
	RequestID string

	// Duration is how long the request took
	Duration time.Duration
}

// BatchItem is the outcome of one pair of a batch. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Result    *execution.ReactionResult `json:"result,omitempty" yaml:"result,omitempty"`
	Pair      ElementPair               `json:"pair" yaml:"pair"`
	Error     string                    `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind string                    `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
}

// Failed reports whether the item carries an error.
func (i BatchItem) Failed() bool {
	return i.Error != ""
}

// BatchResponse contains the results of a batch in input order.
type BatchResponse struct {
	Items    []BatchItem      `json:"items" yaml:"items"`
	Metadata ResponseMetadata `json:"-" yaml:"-"`
}

// Failures returns the number of failed items.
func (r *BatchResponse) Failures() int {
	n := 0
	for _, item := range r.Items {
		if item.Failed() {
			n++
		}
	}
	return n
}
