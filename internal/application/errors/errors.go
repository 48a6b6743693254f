// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"
)

// ValidationError indicates a request, filter or input file failed validation.
type ValidationError struct {
	Field   string   // Field that failed validation
	Message string   // Error message
	Details []string // Additional details
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s (%d issues)", e.Field, e.Message, len(e.Details))
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, details ...string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Details: details,
	}
}

// AlignmentError indicates an estimator returned a different number of
// energies than compositions it was given.
type AlignmentError struct {
	Estimator string
	Expected  int
	Got       int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("estimator %s returned %d energies for %d compositions", e.Estimator, e.Got, e.Expected)
}

// NewAlignmentError creates a new alignment error.
func NewAlignmentError(estimator string, expected, got int) *AlignmentError {
	return &AlignmentError{
		Estimator: estimator,
		Expected:  expected,
		Got:       got,
	}
}

// EstimationError indicates the estimator failed to produce energies.
type EstimationError struct {
	Cause     error
	Estimator string
	Message   string
}

func (e *EstimationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("estimation failed (%s): %s: %v", e.Estimator, e.Message, e.Cause)
	}
	return fmt.Sprintf("estimation failed (%s): %s", e.Estimator, e.Message)
}

func (e *EstimationError) Unwrap() error {
	return e.Cause
}

// NewEstimationError creates a new estimation error.
func NewEstimationError(estimator, message string, cause error) *EstimationError {
	return &EstimationError{
		Estimator: estimator,
		Message:   message,
		Cause:     cause,
	}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
