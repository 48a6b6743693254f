package entities

import (
	"fmt"
	"math"

	"github.com/reglet-dev/phasehull/internal/domain/values"
)

// Entry is a composition with an energy per atom. Entries are immutable.
type Entry struct {
	composition   Composition
	source        values.Source
	energyPerAtom float64
}

// NewEntry validates and creates an entry.
func NewEntry(c Composition, energyPerAtom float64, source values.Source) (Entry, error) {
	if c.IsEmpty() {
		return Entry{}, fmt.Errorf("entry requires a composition")
	}
	if math.IsNaN(energyPerAtom) || math.IsInf(energyPerAtom, 0) {
		return Entry{}, fmt.Errorf("entry %s: energy must be finite, got %v", c.Formula(), energyPerAtom)
	}
	if err := source.Validate(); err != nil {
		return Entry{}, err
	}
	return Entry{composition: c, energyPerAtom: energyPerAtom, source: source}, nil
}

// ReferenceEntry returns the pure-element reference state at energy 0.
func ReferenceEntry(el values.Element) Entry {
	return Entry{
		composition:   ElementComposition(el),
		energyPerAtom: 0,
		source:        values.SourceReference,
	}
}

// Composition returns the entry composition.
func (e Entry) Composition() Composition { return e.composition }

// EnergyPerAtom returns the energy per atom.
func (e Entry) EnergyPerAtom() float64 { return e.energyPerAtom }

// Source returns where the entry came from.
func (e Entry) Source() values.Source { return e.source }

// ReducedFormula is shorthand for Composition().ReducedFormula().
func (e Entry) ReducedFormula() string { return e.composition.ReducedFormula() }
