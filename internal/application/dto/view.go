package dto

import (
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/execution"
)

// ReactionView is the wire shape of a reaction result shared by the HTTP API
// and the json and yaml formatters.
type ReactionView struct {
	ID             string                   `json:"id" yaml:"id"`
	Status         string                   `json:"status" yaml:"status"`
	Reactants      []string                 `json:"reactants" yaml:"reactants"`
	StableProducts []entities.StableProduct `json:"stable_products" yaml:"stable_products"`
	Entries        []execution.EntryReport  `json:"entries,omitempty" yaml:"entries,omitempty"`
	Diagnostics    DiagnosticsView          `json:"diagnostics" yaml:"diagnostics"`
}

// DiagnosticsView carries screening details and non-fatal warnings.
type DiagnosticsView struct {
	Estimator     string   `json:"estimator" yaml:"estimator"`
	Warnings      []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	SampleReasons []string `json:"sample_reasons,omitempty" yaml:"sample_reasons,omitempty"`
	Candidates    int      `json:"candidates" yaml:"candidates"`
	Valid         int      `json:"valid" yaml:"valid"`
	Rejected      int      `json:"rejected" yaml:"rejected"`
	DurationMS    float64  `json:"duration_ms" yaml:"duration_ms"`
}

// BatchItemView is the wire shape of one batch item.
type BatchItemView struct {
	Result    *ReactionView `json:"result,omitempty" yaml:"result,omitempty"`
	Pair      ElementPair   `json:"pair" yaml:"pair"`
	Status    string        `json:"status" yaml:"status"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
}

// BatchView is the wire shape of a batch response.
type BatchView struct {
	Items  []BatchItemView `json:"items" yaml:"items"`
	Total  int             `json:"total" yaml:"total"`
	Failed int             `json:"failed" yaml:"failed"`
}

// NewReactionView converts a result to its wire shape.
func NewReactionView(r *execution.ReactionResult) ReactionView {
	products := r.Products
	if products == nil {
		products = []entities.StableProduct{}
	}
	return ReactionView{
		ID:             r.ID.String(),
		Status:         StatusSuccess,
		Reactants:      r.Reactants,
		StableProducts: products,
		Entries:        r.Entries,
		Diagnostics: DiagnosticsView{
			Estimator:     r.Estimator,
			Warnings:      r.Warnings,
			SampleReasons: r.Screening.SampleReasons,
			Candidates:    r.CandidateCount,
			Valid:         r.Screening.Valid,
			Rejected:      r.Screening.Rejected,
			DurationMS:    float64(r.Duration.Microseconds()) / 1000,
		},
	}
}

// NewBatchView converts a batch response to its wire shape.
func NewBatchView(resp *BatchResponse) BatchView {
	view := BatchView{
		Items:  make([]BatchItemView, 0, len(resp.Items)),
		Total:  len(resp.Items),
		Failed: resp.Failures(),
	}
	for _, item := range resp.Items {
		iv := BatchItemView{Pair: item.Pair, Status: StatusSuccess}
		if item.Failed() {
			iv.Status = StatusError
			iv.Error = item.Error
			iv.ErrorKind = item.ErrorKind
		} else if item.Result != nil {
			rv := NewReactionView(item.Result)
			iv.Result = &rv
		}
		view.Items = append(view.Items, iv)
	}
	return view
}
