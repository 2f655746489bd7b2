// Package schema builds and validates JSON Schemas for tool
// parameters.
//
// Tool descriptors carry their schema as a raw map[string]any so it
// can be rendered into the tool catalog; this package compiles that
// map once into a validator and turns validation failures into the
// per-field error strings the registry reports.
//
//	schema.Object(map[string]*schema.Property{
//	    "query": schema.String("Search query"),
//	    "limit": schema.Integer("Max results").Min(1).Default(10),
//	}, "query")
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema pairs a raw schema map (for prompts and serialization) with
// its compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map representation.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate checks data against the schema. Returns nil when valid.
func (s *Schema) Validate(data map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if err := s.compiled.Validate(toJSONValue(data)); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// Errors checks data against the schema and returns one message per
// violation, empty when valid. Messages name the offending field
// where the validator provides a location.
func (s *Schema) Errors(data map[string]any) []string {
	err := s.Validate(data)
	if err == nil {
		return nil
	}
	return flatten(err)
}

// flatten splits a validation error into individual violation
// messages. The jsonschema error renders as a header line followed by
// one "- at '<location>': <cause>" line per violation; each of those
// lines becomes one entry. Errors in another shape pass through as a
// single entry.
func flatten(err error) []string {
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			out = append(out, strings.TrimPrefix(line, "- "))
		}
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}

// toJSONValue converts argument values into the shapes the validator
// handles through a JSON round trip. Handlers see the original typed
// values; only validation goes through this normalization.
func toJSONValue(data map[string]any) any {
	encoded, err := json.Marshal(data)
	if err != nil {
		return data
	}
	decoded, err := jsonschema.UnmarshalJSON(strings.NewReader(string(encoded)))
	if err != nil {
		return data
	}
	return decoded
}

// ValidationError wraps a JSON Schema validation failure.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map into a Schema with a validator.
// A nil map compiles to a nil Schema, which validates everything.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	schemaData, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Schema{raw: raw, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. For schemas defined
// at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// -----------------------------------------------------------------------------
// Schema Builders
// -----------------------------------------------------------------------------

// Object creates an object schema with the given properties. Property
// names passed as variadic arguments are marked required.
func Object(properties map[string]*Property, required ...string) map[string]any {
	props := make(map[string]any, len(properties))
	for name, prop := range properties {
		props[name] = prop.build()
	}

	m := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		m["required"] = required
	}
	return m
}

// Property is a single property in an object schema.
type Property struct {
	typ         string
	description string
	enum        []any
	minimum     *float64
	maximum     *float64
	pattern     string
	items       map[string]any
	def         any
}

func (p *Property) build() map[string]any {
	m := map[string]any{}
	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
	}
	if len(p.enum) > 0 {
		m["enum"] = p.enum
	}
	if p.minimum != nil {
		m["minimum"] = *p.minimum
	}
	if p.maximum != nil {
		m["maximum"] = *p.maximum
	}
	if p.pattern != "" {
		m["pattern"] = p.pattern
	}
	if p.items != nil {
		m["items"] = p.items
	}
	if p.def != nil {
		m["default"] = p.def
	}
	return m
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a floating point property.
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Boolean creates a boolean property.
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Array creates an array property with the given item schema.
func Array(description string, items map[string]any) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// Enum restricts the property to the given values.
func (p *Property) Enum(values ...any) *Property {
	p.enum = values
	return p
}

// Min sets the minimum for number and integer properties.
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// Max sets the maximum for number and integer properties.
func (p *Property) Max(max float64) *Property {
	p.maximum = &max
	return p
}

// Pattern sets a regex pattern for string validation.
func (p *Property) Pattern(pattern string) *Property {
	p.pattern = pattern
	return p
}

// Default records a default value. Defaults are informational for the
// model; the validator does not inject them.
func (p *Property) Default(value any) *Property {
	p.def = value
	return p
}
