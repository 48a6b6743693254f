// Package estimator provides the energy estimators behind ports.EnergyEstimator:
// a deterministic random stub, a prediction table and a remote model server.
package estimator

import (
	"fmt"

	"github.com/reglet-dev/phasehull/internal/domain/entities"
)

// screen partitions comps by element coverage and an optional extra check.
// maxZ of 0 disables the atomic number check; a nil accept accepts everything.
func screen(comps []entities.Composition, maxZ int, accept func(entities.Composition) (string, bool)) entities.Screening {
	s := entities.Screening{Valid: make([]entities.Composition, 0, len(comps))}
	for _, c := range comps {
		if reason, ok := coverage(c, maxZ); !ok {
			s.Rejected = append(s.Rejected, entities.Rejection{Composition: c, Reason: reason})
			continue
		}
		if accept != nil {
			if reason, ok := accept(c); !ok {
				s.Rejected = append(s.Rejected, entities.Rejection{Composition: c, Reason: reason})
				continue
			}
		}
		s.Valid = append(s.Valid, c)
	}
	return s
}

func coverage(c entities.Composition, maxZ int) (string, bool) {
	if c.IsEmpty() {
		return "empty composition", false
	}
	if maxZ <= 0 {
		return "", true
	}
	for _, el := range c.Elements() {
		if el.AtomicNumber() > maxZ {
			return fmt.Sprintf("element %s (Z=%d) exceeds featurizer coverage Z<=%d", el, el.AtomicNumber(), maxZ), false
		}
	}
	return "", true
}
