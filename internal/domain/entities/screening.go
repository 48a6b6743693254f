package entities

// Rejection records why a composition cannot be estimated.
type Rejection struct {
	Composition Composition
	Reason      string
}

// Screening partitions compositions into those an estimator accepts and
// those it rejects. Valid preserves input order.
type Screening struct {
	Valid    []Composition
	Rejected []Rejection
}

// SampleReasons returns up to n "formula: reason" strings.
func (s Screening) SampleReasons(n int) []string {
	out := make([]string, 0, min(n, len(s.Rejected)))
	for _, r := range s.Rejected {
		if len(out) >= n {
			break
		}
		out = append(out, r.Composition.Formula()+": "+r.Reason)
	}
	return out
}
