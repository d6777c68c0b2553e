// Package schema validates product type schemas and the attribute payloads
// checked against them.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// DocumentPath tags violations that concern the payload as a whole.
const DocumentPath = "__all__"

// Document is a decoded JSON Schema document.
type Document map[string]any

// Violation is one failed constraint, located by a dotted path.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Engine is a draft-7 compatible JSON Schema implementation.
type Engine interface {
	// Compile checks that doc is a structurally valid schema and prepares it
	// for validation.
	Compile(doc Document) (Compiled, error)
}

// Compiled is a schema ready to validate payloads.
type Compiled interface {
	// Violations returns every constraint instance breaks.
	Violations(instance any) ([]Violation, error)
}

// SchemaError reports a schema document that cannot be used for validation.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid attributes schema: %s: %v", e.Reason, e.Err)
	}
	return "invalid attributes schema: " + e.Reason
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Field names the input the error belongs to.
func (e *SchemaError) Field() string { return "attributes_schema" }

// AttributeValidationError carries every violation found in a payload.
type AttributeValidationError struct {
	Violations []Violation
}

func (e *AttributeValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Path+": "+v.Message)
	}
	return "attributes do not match schema: " + strings.Join(parts, "; ")
}

// Field names the input the error belongs to.
func (e *AttributeValidationError) Field() string { return "attributes" }

// Messages groups violation messages by path.
func (e *AttributeValidationError) Messages() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Path] = append(out[v.Path], v.Message)
	}
	return out
}

// Validator checks schemas and attribute payloads. It is stateless apart from
// its engine.
type Validator struct {
	engine Engine
}

// NewValidator returns a Validator backed by engine.
func NewValidator(engine Engine) *Validator {
	return &Validator{engine: engine}
}

// ValidateSchema fails with *SchemaError when doc is not a valid schema or
// declares a top-level type other than "object".
func (v *Validator) ValidateSchema(doc Document) error {
	_, err := v.compile(doc)
	return err
}

func (v *Validator) compile(doc Document) (Compiled, error) {
	compiled, err := v.engine.Compile(doc)
	if err != nil {
		return nil, &SchemaError{Reason: "not a valid draft-7 schema", Err: err}
	}
	if t, ok := doc["type"]; ok && t != "object" {
		return nil, &SchemaError{Reason: fmt.Sprintf("top-level type must be \"object\", got %v", t)}
	}
	return compiled, nil
}

// ValidateAttributes re-checks doc, then fails with *AttributeValidationError
// when instance does not conform to it. Schemas are editable after products
// reference them, so the schema is never assumed valid here.
func (v *Validator) ValidateAttributes(doc Document, instance map[string]any) error {
	compiled, err := v.compile(doc)
	if err != nil {
		return err
	}
	if instance == nil {
		instance = map[string]any{}
	}
	violations, err := compiled.Violations(instance)
	if err != nil {
		return fmt.Errorf("validate attributes: %w", err)
	}
	if len(violations) == 0 {
		return nil
	}
	sort.SliceStable(violations, func(i, j int) bool { return violations[i].Path < violations[j].Path })
	return &AttributeValidationError{Violations: violations}
}
