package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/phasehull/internal/application/dto"
	"github.com/reglet-dev/phasehull/internal/application/ports"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/execution"
	"github.com/reglet-dev/phasehull/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponse() *dto.ReactionResponse {
	r := execution.NewReactionResult(entities.MustNewBinarySystem("Li", "O"))
	r.Estimator = "random"
	r.CandidateCount = 16
	r.Screening = execution.ScreeningSummary{Valid: 15, Rejected: 1, SampleReasons: []string{"LiO9: unsupported"}}
	r.Products = []entities.StableProduct{
		{Formula: "Li2O", EnergyPerAtom: -2.07, Fraction: 1.0 / 3.0, IsStable: true},
	}
	r.Entries = []execution.EntryReport{
		{Formula: "Li", ReducedFormula: "Li", Source: values.SourceReference, Stability: values.StabilityStable},
		{Formula: "Li2O", ReducedFormula: "Li2O", Source: values.SourceCandidate, Stability: values.StabilityStable,
			Fraction: 1.0 / 3.0, EnergyPerAtom: -2.07},
		{Formula: "Li2O8", ReducedFormula: "LiO4", Source: values.SourceCandidate, Stability: values.StabilityUnstable,
			Fraction: 0.8, EnergyPerAtom: 0.2, EnergyAboveHull: 0.6},
	}
	r.AddWarning("model server slow")
	return &dto.ReactionResponse{Result: r}
}

func sampleBatch() *dto.BatchResponse {
	return &dto.BatchResponse{Items: []dto.BatchItem{
		{Pair: dto.ElementPair{ElementA: "Li", ElementB: "O"}, Result: sampleResponse().Result},
		{Pair: dto.ElementPair{ElementA: "Fe", ElementB: "Fe"}, Error: "reactants must be distinct", ErrorKind: "validation"},
	}}
}

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)
	f.EnableColor = false

	require.NoError(t, f.Format(sampleResponse()))
	out := buf.String()

	assert.Contains(t, out, "System: Li-O")
	assert.Contains(t, out, "Candidates: 16 (15 valid, 1 rejected)")
	assert.Contains(t, out, "Li2O")
	assert.Contains(t, out, "-2.0700")
	assert.Contains(t, out, "Li (ref)")
	assert.Contains(t, out, "LiO9: unsupported")
	assert.Contains(t, out, "warning: model server slow")
	assert.NotContains(t, out, "\033[")
}

func TestTableFormatter_DiagramHull(t *testing.T) {
	system := entities.MustNewBinarySystem("Li", "O")
	li2o, err := entities.NewEntry(entities.MustParseComposition("Li2O"), -2.07, values.SourceCandidate)
	require.NoError(t, err)
	d, err := entities.NewPhaseDiagram(system, []entities.Entry{
		entities.ReferenceEntry(system.A()),
		li2o,
		entities.ReferenceEntry(system.B()),
	})
	require.NoError(t, err)

	resp := sampleResponse()
	resp.Result.Diagram = d
	resp.Result.Entries[2].DecomposesTo = []execution.DecompositionReport{
		{Formula: "Li2O", Fraction: 0.3},
		{Formula: "O", Fraction: 0.7},
	}

	var buf bytes.Buffer
	f := NewTableFormatter(&buf)
	f.EnableColor = false
	require.NoError(t, f.Format(resp))

	out := buf.String()
	assert.Contains(t, out, "hull: Li → Li2O → O")
	assert.Contains(t, out, "→ 0.30 Li2O + 0.70 O")
}

func TestTableFormatter_NoProducts(t *testing.T) {
	resp := sampleResponse()
	resp.Result.Products = nil

	var buf bytes.Buffer
	f := NewTableFormatter(&buf)
	f.EnableColor = false
	require.NoError(t, f.Format(resp))
	assert.Contains(t, buf.String(), "No stable compounds.")
}

func TestTableFormatter_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(sampleResponse()))
	assert.Contains(t, buf.String(), colorGreen)
}

func TestTableFormatter_FormatBatch(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)
	f.EnableColor = false

	require.NoError(t, f.FormatBatch(sampleBatch()))
	out := buf.String()
	assert.Contains(t, out, "✗ Fe-Fe: reactants must be distinct (validation)")
	assert.Contains(t, out, "2 pairs, 1 succeeded, 1 failed")
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, true).Format(sampleResponse()))

	var got dto.ReactionView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "success", got.Status)
	assert.Equal(t, []string{"Li", "O"}, got.Reactants)
	require.Len(t, got.StableProducts, 1)
	assert.Equal(t, "Li2O", got.StableProducts[0].Formula)
	assert.Len(t, got.Entries, 3)
	assert.Equal(t, 1, got.Diagnostics.Rejected)
	assert.Contains(t, buf.String(), "\n  \"")
}

func TestJSONFormatter_FormatBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, false).FormatBatch(sampleBatch()))

	var got dto.BatchView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, "error", got.Items[1].Status)
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf).Format(sampleResponse()))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "success", got["status"])
	assert.Contains(t, buf.String(), "stable_products:")
	assert.Contains(t, buf.String(), "formula: Li2O")
}

func TestFormatterFactory_Create(t *testing.T) {
	factory := NewFormatterFactory()
	var buf bytes.Buffer

	for _, format := range factory.SupportedFormats() {
		f, err := factory.Create(format, &buf, ports.FormatterOptions{})
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	f, err := factory.Create("table", &buf, ports.FormatterOptions{Color: false})
	require.NoError(t, err)
	assert.False(t, f.(*TableFormatter).EnableColor)

	_, err = factory.Create("sarif", &buf, ports.FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
