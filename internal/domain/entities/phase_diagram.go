package entities

import (
	"fmt"

	"github.com/reglet-dev/phasehull/internal/domain/hull"
	"github.com/reglet-dev/phasehull/internal/domain/values"
)

// PhaseDiagram is an immutable snapshot of one entry set in a binary system:
// the entries, their fraction coordinates, the lower hull and the stability
// of every entry. It is built once per query and never mutated.
type PhaseDiagram struct {
	system   BinarySystem
	entries  []Entry
	points   []hull.Point
	vertices []int // entry indices, ordered by fraction
	stable   []bool
}

// DecompositionPart is one phase of the lever-rule decomposition of an entry.
type DecompositionPart struct {
	Entry    Entry
	Fraction float64 // phase amount in atoms, sums to 1
}

// NewPhaseDiagram computes the lower hull over entries. Every entry must lie
// in system. An empty or single-composition entry set yields a degenerate
// diagram with no stable entries rather than an error.
func NewPhaseDiagram(system BinarySystem, entries []Entry) (*PhaseDiagram, error) {
	d := &PhaseDiagram{
		system:  system,
		entries: append([]Entry(nil), entries...),
		points:  make([]hull.Point, len(entries)),
		stable:  make([]bool, len(entries)),
	}

	for i, e := range d.entries {
		x, err := system.Fraction(e.Composition())
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		d.points[i] = hull.Point{X: x, Y: e.EnergyPerAtom()}
	}

	vertices := hull.LowerHull(d.points)
	if len(vertices) < 2 {
		return d, nil
	}
	d.vertices = vertices

	// Exact energy ties at a vertex composition are all stable.
	onHull := make(map[float64]float64, len(vertices))
	for _, v := range vertices {
		onHull[d.points[v].X] = d.points[v].Y
	}
	for i, p := range d.points {
		if y, ok := onHull[p.X]; ok && p.Y == y {
			d.stable[i] = true
		}
	}
	return d, nil
}

// System returns the binary system.
func (d *PhaseDiagram) System() BinarySystem { return d.system }

// Len returns the number of entries.
func (d *PhaseDiagram) Len() int { return len(d.entries) }

// IsEmpty reports a diagram built over zero entries.
func (d *PhaseDiagram) IsEmpty() bool { return len(d.entries) == 0 }

// IsDegenerate reports a diagram without a hull (fewer than two distinct
// fraction coordinates).
func (d *PhaseDiagram) IsDegenerate() bool { return len(d.vertices) < 2 }

// Entries returns a copy of the entries in construction order.
func (d *PhaseDiagram) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Entry returns entry i.
func (d *PhaseDiagram) Entry(i int) Entry { return d.entries[i] }

// Fraction returns the fraction coordinate of entry i.
func (d *PhaseDiagram) Fraction(i int) float64 { return d.points[i].X }

// IsStable reports whether entry i lies on the lower hull.
func (d *PhaseDiagram) IsStable(i int) bool { return d.stable[i] }

// Stability returns the classification of entry i.
func (d *PhaseDiagram) Stability(i int) values.Stability {
	return values.StabilityOf(d.stable[i])
}

// HullVertices returns the entry indices of the hull vertices ordered by
// fraction coordinate.
func (d *PhaseDiagram) HullVertices() []int {
	return append([]int(nil), d.vertices...)
}

// StableIndices returns the indices of all stable entries ordered by fraction
// coordinate, then construction order.
func (d *PhaseDiagram) StableIndices() []int {
	var out []int
	for _, v := range d.vertices {
		x := d.points[v].X
		for i, p := range d.points {
			if d.stable[i] && p.X == x {
				out = append(out, i)
			}
		}
	}
	return out
}

// EnergyAboveHull returns the vertical distance of entry i above the hull.
// Stable entries return exactly 0.
func (d *PhaseDiagram) EnergyAboveHull(i int) (float64, error) {
	if d.IsDegenerate() {
		return 0, ErrDegenerateHull
	}
	if d.stable[i] {
		return 0, nil
	}
	p := d.points[i]
	y, ok := hull.EnergyAt(d.points, d.vertices, p.X)
	if !ok {
		return 0, fmt.Errorf("entry %d: fraction %v outside hull span", i, p.X)
	}
	return max(0, p.Y-y), nil
}

// Decomposition returns the hull phases entry i decomposes into, with
// lever-rule fractions. A stable entry decomposes into itself.
func (d *PhaseDiagram) Decomposition(i int) ([]DecompositionPart, error) {
	if d.IsDegenerate() {
		return nil, ErrDegenerateHull
	}
	if d.stable[i] {
		return []DecompositionPart{{Entry: d.entries[i], Fraction: 1}}, nil
	}

	x := d.points[i].X
	l, r, ok := hull.Segment(d.points, d.vertices, x)
	if !ok {
		return nil, fmt.Errorf("entry %d: fraction %v outside hull span", i, x)
	}
	left, right := d.vertices[l], d.vertices[r]
	if l == r {
		return []DecompositionPart{{Entry: d.entries[left], Fraction: 1}}, nil
	}

	xl, xr := d.points[left].X, d.points[right].X
	t := (x - xl) / (xr - xl)
	return []DecompositionPart{
		{Entry: d.entries[left], Fraction: 1 - t},
		{Entry: d.entries[right], Fraction: t},
	}, nil
}
