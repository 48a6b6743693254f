package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("element_a", "unknown element symbol")
	assert.Equal(t, "validation failed: element_a: unknown element symbol", err.Error())

	err = NewValidationError("batch", "schema mismatch", "pairs: missing", "filter: not a string")
	assert.Equal(t, "validation failed: batch: schema mismatch (2 issues)", err.Error())
}

func TestAlignmentError(t *testing.T) {
	err := NewAlignmentError("remote", 5, 4)
	assert.Equal(t, "estimator remote returned 4 energies for 5 compositions", err.Error())
}

func TestEstimationError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewEstimationError("remote", "request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	var target *EstimationError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "remote", target.Estimator)

	assert.Equal(t, "estimation failed (table): no data", NewEstimationError("table", "no data", nil).Error())
}

func TestConfigurationError_Unwrap(t *testing.T) {
	cause := errors.New("bad yaml")
	err := NewConfigurationError("estimator", "failed to load table", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "configuration error (estimator): failed to load table: bad yaml", err.Error())
}
