package hevymcp

import (
	"fmt"
	"slices"
)

// Kind identifies the shape described by a Schema node.
type Kind uint8

// Schema node kinds. Validate, Export and field optionality switch over all of them.
const (
	KindObject Kind = iota + 1
	KindArray
	KindString
	KindNumber
	KindBoolean
	KindEnum
	KindOptional
	KindNullable
	KindDefault
	KindUnion

	kindEnd // one past the last kind
)

var kindNames = [...]string{
	KindObject:   "object",
	KindArray:    "array",
	KindString:   "string",
	KindNumber:   "number",
	KindBoolean:  "boolean",
	KindEnum:     "enum",
	KindOptional: "optional",
	KindNullable: "nullable",
	KindDefault:  "default",
	KindUnion:    "union",
}

func (k Kind) String() string {
	if k == 0 || k >= kindEnd {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Format is a string format constraint checked by Validate and advertised by Export.
type Format string

// FormatUUID requires the canonical 8-4-4-4-12 hexadecimal UUID form.
const FormatUUID Format = "uuid"

// Field is one named member of an Object schema.
type Field struct {
	Name   string
	Schema *Schema
}

// Prop builds a Field.
func Prop(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// Schema is an immutable description of a data shape. Build it with the
// constructors below; nodes may be shared between several parents.
//
// Constructors panic on malformed input (nil children, duplicate field names,
// empty enums or unions): schemas are declared once at startup, like regexps.
type Schema struct {
	kind     Kind
	fields   []Field   // KindObject
	inner    *Schema   // KindArray element, KindOptional/KindNullable/KindDefault wrapped node
	format   Format    // KindString
	integer  bool      // KindNumber
	values   []string  // KindEnum
	def      any       // KindDefault
	variants []*Schema // KindUnion
}

// Object describes a key→value mapping with the given fields, in order.
// A field is required unless its node is Optional, Default or Nullable.
func Object(fields ...Field) *Schema {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Schema == nil {
			panic(fmt.Sprintf("hevymcp: Object field %q has nil schema", f.Name))
		}
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("hevymcp: Object field %q declared twice", f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	return &Schema{kind: KindObject, fields: slices.Clone(fields)}
}

// Array describes an ordered sequence whose elements all match elem.
func Array(elem *Schema) *Schema {
	mustNode("Array", elem)
	return &Schema{kind: KindArray, inner: elem}
}

// String describes a string value.
func String() *Schema { return &Schema{kind: KindString} }

// UUID describes a string in canonical UUID form.
func UUID() *Schema { return &Schema{kind: KindString, format: FormatUUID} }

// Number describes a numeric value.
func Number() *Schema { return &Schema{kind: KindNumber} }

// Integer describes a numeric value without a fractional part.
// It is a Number node and is advertised as "number".
func Integer() *Schema { return &Schema{kind: KindNumber, integer: true} }

// Boolean describes a boolean value.
func Boolean() *Schema { return &Schema{kind: KindBoolean} }

// Enum describes a string that must equal one of values.
func Enum(values ...string) *Schema {
	if len(values) == 0 {
		panic("hevymcp: Enum needs at least one value")
	}
	return &Schema{kind: KindEnum, values: slices.Clone(values)}
}

// Optional lets the value be absent.
func Optional(s *Schema) *Schema {
	mustNode("Optional", s)
	return &Schema{kind: KindOptional, inner: s}
}

// Nullable lets the value be an explicit null.
func Nullable(s *Schema) *Schema {
	mustNode("Nullable", s)
	return &Schema{kind: KindNullable, inner: s}
}

// Default substitutes v when the value is absent. v must be an immutable literal.
func Default(s *Schema, v any) *Schema {
	mustNode("Default", s)
	return &Schema{kind: KindDefault, inner: s, def: v}
}

// Union accepts a value matching any candidate; candidates are tried in order.
func Union(candidates ...*Schema) *Schema {
	if len(candidates) == 0 {
		panic("hevymcp: Union needs at least one candidate")
	}
	for _, c := range candidates {
		mustNode("Union", c)
	}
	return &Schema{kind: KindUnion, variants: slices.Clone(candidates)}
}

// Merge returns an Object with the fields of a followed by the fields of b.
// A field of b replaces the field of a with the same name in place.
func Merge(a, b *Schema) *Schema {
	if a.Kind() != KindObject || b.Kind() != KindObject {
		panic(fmt.Sprintf("hevymcp: Merge needs two objects, got %s and %s", a.Kind(), b.Kind()))
	}
	fields := slices.Clone(a.fields)
	for _, f := range b.fields {
		if i := slices.IndexFunc(fields, func(x Field) bool { return x.Name == f.Name }); i >= 0 {
			fields[i] = f
			continue
		}
		fields = append(fields, f)
	}
	return &Schema{kind: KindObject, fields: fields}
}

func mustNode(ctor string, s *Schema) {
	if s == nil {
		panic("hevymcp: " + ctor + " of nil schema")
	}
}

// Kind returns the node kind; a nil Schema reports 0.
func (s *Schema) Kind() Kind {
	if s == nil {
		return 0
	}
	return s.kind
}

// Fields returns a copy of an Object's fields in declaration order.
func (s *Schema) Fields() []Field { return slices.Clone(s.fields) }

// Field returns the schema of the named Object field.
func (s *Schema) Field(name string) (*Schema, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Schema, true
		}
	}
	return nil, false
}

// Inner returns the element of an Array or the node wrapped by Optional, Nullable or Default.
func (s *Schema) Inner() *Schema { return s.inner }

// Format returns the String format constraint, if any.
func (s *Schema) Format() Format { return s.format }

// IsInteger reports whether a Number node only accepts integral values.
func (s *Schema) IsInteger() bool { return s.integer }

// Values returns a copy of an Enum's allowed values in declared order.
func (s *Schema) Values() []string { return slices.Clone(s.values) }

// DefaultValue returns the literal substituted by a Default node.
func (s *Schema) DefaultValue() any { return s.def }

// Candidates returns a copy of a Union's candidates in declared order.
func (s *Schema) Candidates() []*Schema { return slices.Clone(s.variants) }

// isOptional reports whether an Object field with this node may be left out.
// Validate and Export both use it so the advertised required list matches validation.
func (s *Schema) isOptional() bool {
	switch s.Kind() {
	case KindOptional, KindDefault, KindNullable:
		return true
	case KindObject, KindArray, KindString, KindNumber, KindBoolean, KindEnum, KindUnion:
		return false
	}
	return false
}
