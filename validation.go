package hevymcp

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// missing is the type of Missing.
type missing struct{}

// Missing stands for an absent value (a field that is not present at all), as
// opposed to an explicit null.
var Missing any = missing{}

func isMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

// Issue is one validation problem at Path (field names and array indices).
type Issue struct {
	Path   []string `json:"path"`
	Reason string   `json:"message"`
}

func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Reason
	}
	return joinPath(i.Path) + ": " + i.Reason
}

func joinPath(path []string) string { return strings.Join(path, ".") }

// Validate checks v against s and returns the coerced value with defaults
// applied. v is never modified. An absent result is reported as Missing.
// On failure the error is a *ValidationError listing every problem found.
func Validate(s *Schema, v any) (any, error) {
	out, present, issues := validateNode(s, v, nil)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	if !present {
		return Missing, nil
	}
	return out, nil
}

// ValidateArgs validates a tool argument mapping against an Object schema.
// A nil mapping is treated as empty.
func ValidateArgs(s *Schema, args map[string]any) (map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}
	out, err := Validate(s, args)
	if err != nil {
		return nil, err
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, &ValidationError{Issues: []Issue{{Reason: "argument schema is not an object"}}}
	}
	return m, nil
}

// validateNode returns the coerced value, whether it is present, and all issues under path.
func validateNode(s *Schema, v any, path []string) (any, bool, []Issue) {
	if isMissing(v) && !s.isOptional() {
		return nil, false, []Issue{issue(path, "missing required field")}
	}
	switch s.Kind() {
	case KindOptional:
		if isMissing(v) {
			return nil, false, nil
		}
		return validateNode(s.inner, v, path)
	case KindNullable:
		if isMissing(v) {
			return nil, false, nil
		}
		if v == nil {
			return nil, true, nil
		}
		return validateNode(s.inner, v, path)
	case KindDefault:
		if isMissing(v) {
			return s.def, true, nil
		}
		return validateNode(s.inner, v, path)
	case KindObject:
		return validateObject(s, v, path)
	case KindArray:
		return validateArray(s, v, path)
	case KindString:
		str, ok := v.(string)
		if !ok {
			return nil, false, []Issue{typeIssue(path, "string", v)}
		}
		if s.format == FormatUUID && !isUUID(str) {
			return nil, false, []Issue{issue(path, "invalid uuid")}
		}
		return str, true, nil
	case KindNumber:
		f, ok := toFloat(v)
		if !ok {
			return nil, false, []Issue{typeIssue(path, "number", v)}
		}
		if s.integer && f != math.Trunc(f) {
			return nil, false, []Issue{issue(path, "expected integer, received float")}
		}
		return f, true, nil
	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, false, []Issue{typeIssue(path, "boolean", v)}
		}
		return b, true, nil
	case KindEnum:
		str, ok := v.(string)
		if !ok || !slices.Contains(s.values, str) {
			return nil, false, []Issue{issue(path, fmt.Sprintf("invalid enum value %s, expected one of %s", describe(v), quoteAll(s.values)))}
		}
		return str, true, nil
	case KindUnion:
		return validateUnion(s, v, path)
	}
	return nil, false, []Issue{issue(path, "unsupported schema kind "+s.Kind().String())}
}

func validateObject(s *Schema, v any, path []string) (any, bool, []Issue) {
	m, ok := asMap(v)
	if !ok {
		return nil, false, []Issue{typeIssue(path, "object", v)}
	}
	out := make(map[string]any, len(s.fields))
	var issues []Issue
	for _, f := range s.fields {
		fv, ok := m[f.Name]
		if !ok {
			fv = Missing
		}
		val, present, fieldIssues := validateNode(f.Schema, fv, appendPath(path, f.Name))
		issues = append(issues, fieldIssues...)
		if present {
			out[f.Name] = val
		}
	}
	if len(issues) > 0 {
		return nil, false, issues
	}
	return out, true, nil
}

func validateArray(s *Schema, v any, path []string) (any, bool, []Issue) {
	items, ok := asSlice(v)
	if !ok {
		return nil, false, []Issue{typeIssue(path, "array", v)}
	}
	out := make([]any, 0, len(items))
	var issues []Issue
	for i, item := range items {
		val, _, itemIssues := validateNode(s.inner, item, appendPath(path, strconv.Itoa(i)))
		issues = append(issues, itemIssues...)
		out = append(out, val)
	}
	if len(issues) > 0 {
		return nil, false, issues
	}
	return out, true, nil
}

// validateUnion returns the result of the first candidate that validates.
func validateUnion(s *Schema, v any, path []string) (any, bool, []Issue) {
	reasons := make([]string, 0, len(s.variants))
	for i, c := range s.variants {
		val, present, issues := validateNode(c, v, path)
		if len(issues) == 0 {
			return val, present, nil
		}
		parts := make([]string, len(issues))
		for j, is := range issues {
			parts[j] = is.String()
		}
		reasons = append(reasons, fmt.Sprintf("candidate %d: %s", i+1, strings.Join(parts, "; ")))
	}
	return nil, false, []Issue{issue(path, "no union candidate matched ("+strings.Join(reasons, " | ")+")")}
}

func issue(path []string, reason string) Issue {
	return Issue{Path: slices.Clone(path), Reason: reason}
}

func typeIssue(path []string, want string, got any) Issue {
	return issue(path, fmt.Sprintf("expected %s, received %s", want, typeName(got)))
}

// appendPath never aliases the parent path.
func appendPath(path []string, seg string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	for iter := rv.MapRange(); iter.Next(); {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.IsNil() {
		return nil, false
	}
	s := make([]any, rv.Len())
	for i := range s {
		s[i] = rv.Index(i).Interface()
	}
	return s, true
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	if _, ok := asMap(v); ok {
		return "object"
	}
	if _, ok := asSlice(v); ok {
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return typeName(v)
}

func quoteAll(values []string) string {
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = strconv.Quote(v)
	}
	return strings.Join(q, " | ")
}
