package validation

import (
	"testing"

	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *SchemaValidator {
	t.Helper()
	v, err := NewSchemaValidator()
	require.NoError(t, err)
	return v
}

func TestSchemaValidator_ReactionRequest(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"element_a":"Li","element_b":"O"}`, false},
		{"with filter", `{"element_a":"Li","element_b":"O","filter":"fraction > 0.5"}`, false},
		{"missing element_b", `{"element_a":"Li"}`, true},
		{"number symbol", `{"element_a":3,"element_b":"O"}`, true},
		{"unknown field", `{"element_a":"Li","element_b":"O","elements":["Li"]}`, true},
		{"empty symbol", `{"element_a":"","element_b":"O"}`, true},
		{"malformed", `{"element_a":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateJSON(SchemaReactionRequest, []byte(tt.body))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var valErr *apperrors.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, SchemaReactionRequest, valErr.Field)
		})
	}
}

func TestSchemaValidator_BatchYAML(t *testing.T) {
	v := newValidator(t)

	valid := `
pairs:
  - element_a: Li
    element_b: O
  - element_a: Fe
    element_b: S
filter: energy_per_atom < -0.5
`
	assert.NoError(t, v.ValidateYAML(SchemaBatch, []byte(valid)))

	invalid := `
pairs:
  - element_a: Li
  - element_b: O
`
	err := v.ValidateYAML(SchemaBatch, []byte(invalid))
	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.NotEmpty(t, valErr.Details)

	assert.Error(t, v.ValidateYAML(SchemaBatch, []byte("pairs: []")))
}

func TestSchemaValidator_Entries(t *testing.T) {
	v := newValidator(t)

	valid := `
elements: [Li, O]
entries:
  - formula: Li2O
    energy_per_atom: -2.07
  - formula: LiO
    energy_per_atom: -1
`
	assert.NoError(t, v.ValidateYAML(SchemaEntries, []byte(valid)))

	threeElements := `
elements: [Li, O, S]
entries: []
`
	assert.Error(t, v.ValidateYAML(SchemaEntries, []byte(threeElements)))
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	v := newValidator(t)
	assert.Error(t, v.ValidateJSON("nope", []byte(`{}`)))
}

func TestSchemaValidator_JSONDecoding(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"decimal energy", `{"elements":["Li","O"],"entries":[{"formula":"Li2O","energy_per_atom":-2.0712345678901234}]}`, false},
		{"exponent energy", `{"elements":["Li","O"],"entries":[{"formula":"Li2O","energy_per_atom":-2e0}]}`, false},
		{"string energy", `{"elements":["Li","O"],"entries":[{"formula":"Li2O","energy_per_atom":"-2"}]}`, true},
		{"trailing document", `{"elements":["Li","O"],"entries":[]} {}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateJSON(SchemaEntries, []byte(tt.body))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var valErr *apperrors.ValidationError
			assert.ErrorAs(t, err, &valErr)
		})
	}
}
