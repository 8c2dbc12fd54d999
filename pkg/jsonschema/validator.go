// Package jsonschema validates decoded JSON values against JSON Schema
// documents.
package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "schema.json"

// ValidationErrors collects every violation reported for one document.
type ValidationErrors []error

func (ve ValidationErrors) Error() string {
	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled schema, safe for concurrent use.
type Schema struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles schema text.
func Compile(schema string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: compiled}, nil
}

// ValidateValue checks an already decoded value, such as the fields of a
// map outcome. Numbers must be float64 or json.Number.
func (s *Schema) ValidateValue(v interface{}) error {
	err := s.schema.Validate(v)
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return flatten(validationErr)
	}
	return ValidationErrors{err}
}

// ValidateBytes decodes data and validates it.
func (s *Schema) ValidateBytes(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return s.ValidateValue(v)
}

// flatten walks the cause tree and keeps the leaf messages.
func flatten(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	if len(err.Causes) == 0 && err.Message != "" {
		errs = append(errs, fmt.Errorf("at %q: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, flatten(cause)...)
	}
	if len(errs) == 0 {
		errs = append(errs, err)
	}
	return errs
}
