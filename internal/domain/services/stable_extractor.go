package services

import (
	"github.com/reglet-dev/phasehull/internal/domain/entities"
)

// StableSetExtractor turns a phase diagram into the user-facing list of
// stable intermediate compounds.
type StableSetExtractor struct{}

// NewStableSetExtractor creates an extractor.
func NewStableSetExtractor() *StableSetExtractor {
	return &StableSetExtractor{}
}

// Extract returns the stable entries ordered by fraction coordinate,
// excluding the pure-element references of both system elements.
// Entries sharing a reduced formula are reported once, keeping the lowest
// energy. A nil, empty or degenerate diagram yields an empty list.
func (x *StableSetExtractor) Extract(d *entities.PhaseDiagram) []entities.StableProduct {
	if d == nil || d.IsDegenerate() {
		return []entities.StableProduct{}
	}

	system := d.System()
	excluded := map[string]bool{
		entities.ElementComposition(system.A()).ReducedFormula(): true,
		entities.ElementComposition(system.B()).ReducedFormula(): true,
	}

	products := []entities.StableProduct{}
	position := make(map[string]int)
	for _, i := range d.StableIndices() {
		e := d.Entry(i)
		key := e.ReducedFormula()
		if excluded[key] {
			continue
		}
		if at, ok := position[key]; ok {
			if e.EnergyPerAtom() < products[at].EnergyPerAtom {
				products[at].EnergyPerAtom = e.EnergyPerAtom()
			}
			continue
		}
		position[key] = len(products)
		products = append(products, entities.StableProduct{
			Formula:       key,
			EnergyPerAtom: e.EnergyPerAtom(),
			Fraction:      d.Fraction(i),
			IsStable:      true,
		})
	}
	return products
}
