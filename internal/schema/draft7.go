package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceURL = "mem://catalog/attributes.json"

// ErrExternalRef is returned when a schema references anything outside its
// own document.
var ErrExternalRef = errors.New("only references within the schema document are allowed")

// Draft7 is the Engine backed by santhosh-tekuri/jsonschema pinned to draft 7.
// References resolve only inside the document. "format" and the content
// keywords are annotations: they are never asserted.
type Draft7 struct{}

// NewDraft7 returns the default engine.
func NewDraft7() *Draft7 { return &Draft7{} }

// Compile validates doc against the draft-7 metaschema and compiles it.
func (d *Draft7) Compile(doc Document) (Compiled, error) {
	if doc == nil {
		doc = Document{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	c.LoadURL = func(string) (io.ReadCloser, error) { return nil, ErrExternalRef }
	for name := range jsonschema.Formats {
		c.Formats[name] = func(any) bool { return true }
	}
	for name := range jsonschema.Decoders {
		c.Decoders[name] = func(s string) ([]byte, error) { return []byte(s), nil }
	}
	for name := range jsonschema.MediaTypes {
		c.MediaTypes[name] = func([]byte) error { return nil }
	}
	if err := c.AddResource(resourceURL, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	s, err := c.Compile(resourceURL)
	if err != nil {
		return nil, err
	}
	return &draft7Schema{schema: s}, nil
}

type draft7Schema struct {
	schema *jsonschema.Schema
}

// Violations validates instance and flattens the error tree to its leaves.
func (s *draft7Schema) Violations(instance any) ([]Violation, error) {
	normalized, err := toJSONValue(instance)
	if err != nil {
		return nil, fmt.Errorf("decode instance: %w", err)
	}

	err = s.schema.Validate(normalized)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}
	var out []Violation
	collectLeaves(verr, &out)
	return out, nil
}

func collectLeaves(e *jsonschema.ValidationError, out *[]Violation) {
	if len(e.Causes) == 0 {
		*out = append(*out, Violation{Path: DottedPath(e.InstanceLocation), Message: e.Message})
		return
	}
	for _, c := range e.Causes {
		collectLeaves(c, out)
	}
}

// DottedPath converts a JSON pointer such as "/specs/0/ram" to "specs.0.ram".
// The empty pointer maps to DocumentPath.
func DottedPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return DocumentPath
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return strings.Join(parts, ".")
}

// toJSONValue round-trips v through encoding/json so numbers reach the engine
// as json.Number regardless of the Go type the caller used.
func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
