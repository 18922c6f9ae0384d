package hevymcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/invopop/jsonschema"
)

// Tool is a registered tool: name, description, argument schema and handler.
// It is immutable once built.
type Tool struct {
	name        string
	description string
	args        *Schema
	handler     HandlerFunc
	opts        toolOptions
}

// NewTool builds a Tool from a typed function. The Dispatcher validates the
// call arguments against args; the validated mapping is then decoded into T
// (through its json tags) and passed to fn. A non-error result is marshaled
// as the response payload; a json.RawMessage result is passed through as is.
func NewTool[T any, R any](
	name, description string,
	args *Schema,
	fn func(ctx context.Context, in T) (R, error),
	opts ...ToolOption,
) (*Tool, error) {
	if fn == nil {
		return nil, fmt.Errorf("tool %q: handler must not be nil", name)
	}
	handler := func(ctx context.Context, validated map[string]any) (json.RawMessage, error) {
		in, err := decodeArgs[T](validated)
		if err != nil {
			return nil, &SystemError{Err: fmt.Errorf("decode arguments: %w", err)}
		}
		res, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(res)
		if err != nil {
			return nil, &SystemError{Err: fmt.Errorf("encode result: %w", err)}
		}
		return b, nil
	}
	return NewRawTool(name, description, args, handler, opts...)
}

// NewRawTool builds a Tool whose handler receives the validated mapping directly.
func NewRawTool(name, description string, args *Schema, fn HandlerFunc, opts ...ToolOption) (*Tool, error) {
	if name == "" {
		return nil, errors.New("tool name is required")
	}
	if fn == nil {
		return nil, fmt.Errorf("tool %q: handler must not be nil", name)
	}
	if args.Kind() != KindObject {
		return nil, fmt.Errorf("tool %q: argument schema must be an object, got %s", name, args.Kind())
	}
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Tool{
		name:        name,
		description: description,
		args:        args,
		handler:     fn,
		opts:        o,
	}, nil
}

// decodeArgs converts a validated mapping into T.
func decodeArgs[T any](validated map[string]any) (T, error) {
	var out T
	data, err := json.Marshal(validated)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}

func (t *Tool) Name() string        { return t.name }
func (t *Tool) Description() string { return t.description }

// Args returns the argument schema.
func (t *Tool) Args() *Schema { return t.args }

// InputSchema returns the exported discovery schema of the arguments.
func (t *Tool) InputSchema() *jsonschema.Schema { return Export(t.args) }

// Descriptor returns the discovery form of the tool.
func (t *Tool) Descriptor() Descriptor {
	return Descriptor{
		Name:        t.name,
		Description: t.description,
		InputSchema: t.InputSchema(),
		ReadOnly:    t.opts.readOnly,
		Dangerous:   t.opts.dangerous,
	}
}

func (t *Tool) Timeout() time.Duration { return t.opts.timeout }
func (t *Tool) Tags() []string         { return slices.Clone(t.opts.tags) }
func (t *Tool) IsReadOnly() bool       { return t.opts.readOnly }
func (t *Tool) IsDangerous() bool      { return t.opts.dangerous }
