package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/phasehull/internal/application/dto"
	"github.com/reglet-dev/phasehull/internal/infrastructure/validation"
)

// InputLoader loads batch and entry files (YAML or JSON), validating them
// against their schemas before decoding.
type InputLoader struct {
	validator *validation.SchemaValidator
}

// NewInputLoader creates a new input loader.
func NewInputLoader(validator *validation.SchemaValidator) *InputLoader {
	return &InputLoader{validator: validator}
}

// LoadBatch loads a batch file of element pairs.
func (l *InputLoader) LoadBatch(path string) (*dto.BatchRequest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return l.DecodeBatch(data)
}

// DecodeBatch validates and decodes a batch document.
func (l *InputLoader) DecodeBatch(data []byte) (*dto.BatchRequest, error) {
	if err := l.validator.ValidateYAML(validation.SchemaBatch, data); err != nil {
		return nil, err
	}
	var req dto.BatchRequest
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode batch file: %w", err)
	}
	return &req, nil
}

// LoadEntries loads a phase diagram entry file.
func (l *InputLoader) LoadEntries(path string) (*dto.DiagramRequest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return l.DecodeEntries(data)
}

// DecodeEntries validates and decodes an entry document.
func (l *InputLoader) DecodeEntries(data []byte) (*dto.DiagramRequest, error) {
	if err := l.validator.ValidateYAML(validation.SchemaEntries, data); err != nil {
		return nil, err
	}
	var req dto.DiagramRequest
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode entries file: %w", err)
	}
	return &req, nil
}

// readFile reads a file scoped to its directory.
func readFile(path string) ([]byte, error) {
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open input directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return io.ReadAll(file)
}
