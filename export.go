package hevymcp

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Export converts s into the JSON Schema advertised to callers for discovery.
// It never fails: discovery is advisory, so an unknown node kind is exported
// as a plain string.
//
// Optional, Nullable and Default are invisible in the output except through
// the parent Object's required list. A Union exports its first candidate only:
// the discovery format used by callers cannot express the alternation, so the
// advertised shape is an approximation of what Validate accepts.
func Export(s *Schema) *jsonschema.Schema {
	out, _ := exportNode(s)
	return out
}

// ExportJSON is Export followed by JSON encoding. Properties keep declaration order.
func ExportJSON(s *Schema) (json.RawMessage, error) {
	return json.Marshal(Export(s))
}

// exportNode reports false when it had to fall back for an unknown kind.
func exportNode(s *Schema) (*jsonschema.Schema, bool) {
	switch s.Kind() {
	case KindObject:
		props := jsonschema.NewProperties()
		var required []string
		for _, f := range s.fields {
			p, _ := exportNode(f.Schema)
			props.Set(f.Name, p)
			if !f.Schema.isOptional() {
				required = append(required, f.Name)
			}
		}
		return &jsonschema.Schema{Type: "object", Properties: props, Required: required}, true
	case KindArray:
		items, _ := exportNode(s.inner)
		return &jsonschema.Schema{Type: "array", Items: items}, true
	case KindString:
		return &jsonschema.Schema{Type: "string", Format: string(s.format)}, true
	case KindNumber:
		return &jsonschema.Schema{Type: "number"}, true
	case KindBoolean:
		return &jsonschema.Schema{Type: "boolean"}, true
	case KindEnum:
		enum := make([]any, len(s.values))
		for i, v := range s.values {
			enum[i] = v
		}
		return &jsonschema.Schema{Type: "string", Enum: enum}, true
	case KindOptional, KindNullable, KindDefault:
		return exportNode(s.inner)
	case KindUnion:
		return exportNode(s.variants[0])
	}
	return &jsonschema.Schema{Type: "string"}, false
}
