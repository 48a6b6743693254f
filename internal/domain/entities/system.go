package entities

import (
	"fmt"

	"github.com/reglet-dev/phasehull/internal/domain/values"
)

// BinarySystem is an ordered pair of distinct elements. The second element
// defines the fraction axis: x = count(B) / (count(A) + count(B)).
type BinarySystem struct {
	a values.Element
	b values.Element
}

// NewBinarySystem creates a system over two distinct elements.
func NewBinarySystem(a, b values.Element) (BinarySystem, error) {
	if a.IsZero() || b.IsZero() {
		return BinarySystem{}, fmt.Errorf("binary system requires two elements")
	}
	if a.Equals(b) {
		return BinarySystem{}, fmt.Errorf("binary system requires distinct elements, got %s twice", a)
	}
	return BinarySystem{a: a, b: b}, nil
}

// MustNewBinarySystem creates a system from symbols or panics (for tests)
func MustNewBinarySystem(a, b string) BinarySystem {
	s, err := NewBinarySystem(values.MustNewElement(a), values.MustNewElement(b))
	if err != nil {
		panic(err)
	}
	return s
}

// A returns the element at x = 0.
func (s BinarySystem) A() values.Element { return s.a }

// B returns the element at x = 1.
func (s BinarySystem) B() values.Element { return s.b }

// Name returns "A-B".
func (s BinarySystem) Name() string {
	return s.a.Symbol() + "-" + s.b.Symbol()
}

// Contains reports whether every element of c belongs to the system.
func (s BinarySystem) Contains(c Composition) bool {
	if c.IsEmpty() {
		return false
	}
	for _, el := range c.Elements() {
		if !el.Equals(s.a) && !el.Equals(s.b) {
			return false
		}
	}
	return true
}

// Fraction returns the fraction coordinate of c in the system.
func (s BinarySystem) Fraction(c Composition) (float64, error) {
	if !s.Contains(c) {
		return 0, fmt.Errorf("%w: %s not in %s", ErrOutsideSystem, c.Formula(), s.Name())
	}
	return c.Fraction(s.b), nil
}
