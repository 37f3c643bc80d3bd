package flows

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON schema reflected from a Go type, kept both as a plain
// document (sent to the model) and compiled (used to validate).
type Schema struct {
	Doc      map[string]any
	compiled *jsonschema.Schema
}

// schemaFor reflects T. Strict schemas reject unknown properties; replies from
// the model are checked with a lenient schema.
func schemaFor[T any](name string, strict bool) (*Schema, error) {
	r := &invopop.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: !strict,
	}
	raw, err := json.Marshal(r.Reflect(new(T)))
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", name, err)
	}
	// Gemini rejects the meta keywords.
	delete(doc, "$schema")
	delete(doc, "$id")

	// The compiler wants its own decoding, with json.Number for numbers.
	raw, _ = json.Marshal(doc)
	compilerDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, compilerDoc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	return &Schema{Doc: doc, compiled: compiled}, nil
}

// Validate checks an already decoded JSON value.
func (s *Schema) Validate(v any) error {
	return s.compiled.Validate(v)
}

// ValidateJSON decodes raw and checks it.
func (s *Schema) ValidateJSON(raw []byte) error {
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return s.compiled.Validate(v)
}

// CleanJSON strips Markdown code fences models sometimes wrap JSON in.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}
