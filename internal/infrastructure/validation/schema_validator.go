// Package validation validates request bodies and input files against
// embedded JSON Schemas.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema names.
const (
	SchemaReactionRequest = "reaction_request"
	SchemaBatch           = "batch"
	SchemaEntries         = "entries"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// SchemaValidator holds the compiled schemas. It is safe for concurrent use.
type SchemaValidator struct {
	schemas map[string]*jsonschema.Schema
}

// NewSchemaValidator compiles all embedded schemas.
func NewSchemaValidator() (*SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	names := []string{SchemaReactionRequest, SchemaBatch, SchemaEntries}
	v := &SchemaValidator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		file := name + ".schema.json"
		data, err := schemaFS.ReadFile("schemas/" + file)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(file, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema resource %s: %w", name, err)
		}
		schema, err := compiler.Compile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// ValidateJSON validates a JSON document against the named schema.
// Violations are returned as a ValidationError listing every failing location.
func (v *SchemaValidator) ValidateJSON(name string, data []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return apperrors.NewValidationError(name, "malformed JSON", err.Error())
	}
	if dec.More() {
		return apperrors.NewValidationError(name, "malformed JSON", "unexpected data after document")
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(name, validationErr)
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ValidateYAML converts a YAML (or JSON) document to JSON and validates it.
func (v *SchemaValidator) ValidateYAML(name string, data []byte) error {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return apperrors.NewValidationError(name, "malformed YAML", err.Error())
	}
	return v.ValidateJSON(name, jsonData)
}

// formatSchemaValidationError flattens a JSON Schema validation error tree.
func formatSchemaValidationError(name string, err *jsonschema.ValidationError) error {
	var messages []string

	var collectErrors func(*jsonschema.ValidationError)
	collectErrors = func(e *jsonschema.ValidationError) {
		if e.Message != "" && len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}
	collectErrors(err)

	return apperrors.NewValidationError(name, "does not match schema", messages...)
}
