// Package execution provides domain models for reaction query results.
package execution

import (
	"fmt"
	"sort"
	"time"

	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/values"
)

// ReactionResult is the outcome of one reaction query for an element pair.
//
//nolint:revive // ST1003: "Result" alone lacks context in imports
type ReactionResult struct {
	CreatedAt      time.Time                `json:"created_at" yaml:"created_at"`
	Diagram        *entities.PhaseDiagram   `json:"-" yaml:"-"`
	System         string                   `json:"system" yaml:"system"`
	Estimator      string                   `json:"estimator" yaml:"estimator"`
	Reactants      []string                 `json:"reactants" yaml:"reactants"`
	Products       []entities.StableProduct `json:"stable_products" yaml:"stable_products"`
	Entries        []EntryReport            `json:"entries,omitempty" yaml:"entries,omitempty"`
	Warnings       []string                 `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Screening      ScreeningSummary         `json:"screening" yaml:"screening"`
	Duration       time.Duration            `json:"duration" yaml:"duration"`
	ID             values.QueryID           `json:"id" yaml:"id"`
	CandidateCount int                      `json:"candidate_count" yaml:"candidate_count"`
}

// ScreeningSummary records how many candidates the estimator accepted and a
// sample of rejection reasons.
type ScreeningSummary struct {
	SampleReasons []string `json:"sample_reasons,omitempty" yaml:"sample_reasons,omitempty"`
	Valid         int      `json:"valid" yaml:"valid"`
	Rejected      int      `json:"rejected" yaml:"rejected"`
}

// EntryReport is the serializable view of one phase diagram entry.
type EntryReport struct {
	Formula         string                `json:"formula" yaml:"formula"`
	ReducedFormula  string                `json:"reduced_formula" yaml:"reduced_formula"`
	Source          values.Source         `json:"source" yaml:"source"`
	Stability       values.Stability      `json:"stability" yaml:"stability"`
	Fraction        float64               `json:"fraction" yaml:"fraction"`
	EnergyPerAtom   float64               `json:"energy_per_atom" yaml:"energy_per_atom"`
	EnergyAboveHull float64               `json:"energy_above_hull" yaml:"energy_above_hull"`
	DecomposesTo    []DecompositionReport `json:"decomposes_to,omitempty" yaml:"decomposes_to,omitempty"`
}

// DecompositionReport is one hull phase an unstable entry decomposes into.
type DecompositionReport struct {
	Formula  string  `json:"formula" yaml:"formula"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// NewReactionResult creates a result for the given reactants.
func NewReactionResult(system entities.BinarySystem) *ReactionResult {
	return &ReactionResult{
		ID:        values.NewQueryID(),
		System:    system.Name(),
		Reactants: []string{system.A().Symbol(), system.B().Symbol()},
		Products:  []entities.StableProduct{},
		CreatedAt: time.Now(),
	}
}

// GetID returns the query ID.
func (r *ReactionResult) GetID() values.QueryID {
	return r.ID
}

// StableCount returns the number of reported stable products.
func (r *ReactionResult) StableCount() int {
	return len(r.Products)
}

// AddWarning records a non-fatal issue encountered while answering the query.
func (r *ReactionResult) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// SummarizeScreening fills the screening summary from a screening.
func (r *ReactionResult) SummarizeScreening(s entities.Screening, samples int) {
	r.Screening = ScreeningSummary{
		Valid:         len(s.Valid),
		Rejected:      len(s.Rejected),
		SampleReasons: s.SampleReasons(samples),
	}
}

// ReportEntries builds entry reports ordered by fraction coordinate, then
// energy. Degenerate diagrams report zero energy above hull.
func ReportEntries(d *entities.PhaseDiagram) []EntryReport {
	if d == nil {
		return nil
	}
	reports := make([]EntryReport, 0, d.Len())
	for i := 0; i < d.Len(); i++ {
		e := d.Entry(i)
		above, err := d.EnergyAboveHull(i)
		if err != nil {
			above = 0
		}
		report := EntryReport{
			Formula:         e.Composition().Formula(),
			ReducedFormula:  e.ReducedFormula(),
			Source:          e.Source(),
			Stability:       d.Stability(i),
			Fraction:        d.Fraction(i),
			EnergyPerAtom:   e.EnergyPerAtom(),
			EnergyAboveHull: above,
		}
		if report.Stability == values.StabilityUnstable {
			report.DecomposesTo = decompose(d, i)
		}
		reports = append(reports, report)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Fraction != reports[j].Fraction {
			return reports[i].Fraction < reports[j].Fraction
		}
		return reports[i].EnergyPerAtom < reports[j].EnergyPerAtom
	})
	return reports
}

func decompose(d *entities.PhaseDiagram, i int) []DecompositionReport {
	parts, err := d.Decomposition(i)
	if err != nil {
		return nil
	}
	out := make([]DecompositionReport, 0, len(parts))
	for _, p := range parts {
		if p.Fraction == 0 {
			continue
		}
		out = append(out, DecompositionReport{
			Formula:  p.Entry.ReducedFormula(),
			Fraction: p.Fraction,
		})
	}
	return out
}
