package values

import (
	"fmt"

	"github.com/google/uuid"
)

// QueryID identifies one reaction query and the result stored for it.
type QueryID struct {
	value uuid.UUID
}

// NewQueryID creates a new random query ID
func NewQueryID() QueryID {
	return QueryID{value: uuid.New()}
}

// ParseQueryID parses a string into a QueryID
func ParseQueryID(s string) (QueryID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return QueryID{}, fmt.Errorf("invalid query ID: %w", err)
	}
	return QueryID{value: id}, nil
}

// MustParseQueryID parses a string or panics (for tests only)
func MustParseQueryID(s string) QueryID {
	id, err := ParseQueryID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the string representation
func (q QueryID) String() string {
	return q.value.String()
}

// UUID returns the underlying uuid.UUID
func (q QueryID) UUID() uuid.UUID {
	return q.value
}

// IsZero returns true if this is the zero value
func (q QueryID) IsZero() bool {
	return q.value == uuid.Nil
}

// Equals checks if two QueryIDs are equal
func (q QueryID) Equals(other QueryID) bool {
	return q.value == other.value
}

// MarshalText implements encoding.TextMarshaler so IDs serialize as plain
// strings in both JSON and YAML output.
func (q QueryID) MarshalText() ([]byte, error) {
	return []byte(q.value.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (q *QueryID) UnmarshalText(data []byte) error {
	id, err := ParseQueryID(string(data))
	if err != nil {
		return err
	}
	*q = id
	return nil
}
