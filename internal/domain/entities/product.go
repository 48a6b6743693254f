package entities

// StableProduct is a stable intermediate compound reported to the caller.
type StableProduct struct {
	Formula       string  `json:"formula" yaml:"formula"`
	EnergyPerAtom float64 `json:"energy_per_atom" yaml:"energy_per_atom"`
	Fraction      float64 `json:"fraction" yaml:"fraction"`
	IsStable      bool    `json:"is_stable" yaml:"is_stable"`
}
