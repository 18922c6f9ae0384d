package hevymcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

var validName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Registry is the ordered, immutable tool catalogue. It is built once at
// startup and is safe for concurrent use because nothing mutates it afterwards.
type Registry struct {
	tools []*Tool
	index map[string]*Tool
}

// NewRegistry builds a Registry from tools in the given order. It reports every
// invalid entry: nil tools, bad or duplicate names, and argument schemas whose
// exported form is not a valid JSON Schema.
func NewRegistry(tools ...*Tool) (*Registry, error) {
	r := &Registry{
		tools: make([]*Tool, 0, len(tools)),
		index: make(map[string]*Tool, len(tools)),
	}
	var errs []error
	for i, t := range tools {
		if t == nil {
			errs = append(errs, fmt.Errorf("tool #%d is nil", i))
			continue
		}
		if !validName.MatchString(t.name) {
			errs = append(errs, fmt.Errorf("tool name %q is invalid: must start with a letter, contain only letters, numbers, and underscores", t.name))
			continue
		}
		if _, exists := r.index[t.name]; exists {
			errs = append(errs, fmt.Errorf("tool %q registered twice", t.name))
			continue
		}
		if err := checkExport(t.args); err != nil {
			errs = append(errs, fmt.Errorf("tool %q: %w", t.name, err))
			continue
		}
		r.tools = append(r.tools, t)
		r.index[t.name] = t
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Tools returns all tools in registration order.
func (r *Registry) Tools() []*Tool { return slices.Clone(r.tools) }

// Lookup returns the named tool, or a ClientError wrapping ErrUnknownTool.
func (r *Registry) Lookup(name string) (*Tool, error) {
	t, ok := r.index[name]
	if !ok {
		return nil, unknownToolError(name)
	}
	return t, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// checkExport resolves the exported schema so discovery never advertises a
// document that JSON Schema consumers would reject.
func checkExport(s *Schema) error {
	data, err := ExportJSON(s)
	if err != nil {
		return fmt.Errorf("export schema: %w", err)
	}
	var js jsonschema.Schema
	if err := json.Unmarshal(data, &js); err != nil {
		return fmt.Errorf("decode exported schema: %w", err)
	}
	if _, err := js.Resolve(nil); err != nil {
		return fmt.Errorf("resolve exported schema: %w", err)
	}
	return nil
}
