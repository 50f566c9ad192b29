// Package schema validates raw tool arguments against a declarative
// field description.
//
// Each tool declares its accepted fields as a []Field; Validate interprets
// that description against the untyped argument map that arrives on the
// wire. The same field descriptions are also the source for the JSON-schema
// form advertised on tools/list (see internal/registry), so discovery and
// validation can never drift apart.
//
// Validate collects every violation before returning — a request with a bad
// enum value AND an out-of-range number reports both, one entry per field
// path. Unknown fields are ignored for forward compatibility.
package schema

import (
	"fmt"
	"strings"
)

// Type identifies the expected JSON type of a field.
type Type string

const (
	TypeString     Type = "string"
	TypeNumber     Type = "number"
	TypeBoolean    Type = "boolean"
	TypeStringList Type = "array"
	TypeObject     Type = "object"
)

// Field describes one accepted argument.
type Field struct {
	Name        string
	Type        Type
	Description string
	Required    bool

	// Default is substituted when an optional field is absent.
	// Must already have the field's Go-side type (string, float64, bool,
	// []string). Nil means no default.
	Default any

	// Enum restricts a string field to a closed set of values.
	Enum []string

	// Min and Max are inclusive bounds for number fields.
	Min *float64
	Max *float64

	// Fields describes the members of an object field.
	Fields []Field
}

// Bound is a convenience for declaring inclusive numeric bounds inline.
func Bound(v float64) *float64 { return &v }

// Args is a validated argument set. Every required field is present and
// every optional field with a default has been filled in; accessors may
// assume the declared types.
type Args map[string]any

// String returns a string field, or "" if absent.
func (a Args) String(key string) string {
	v, _ := a[key].(string)
	return v
}

// Float returns a number field, or 0 if absent.
func (a Args) Float(key string) float64 {
	v, _ := a[key].(float64)
	return v
}

// Int returns a number field truncated to int, or 0 if absent.
func (a Args) Int(key string) int {
	return int(a.Float(key))
}

// Bool returns a boolean field, or false if absent.
func (a Args) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

// StringList returns an array field, or nil if absent.
func (a Args) StringList(key string) []string {
	v, _ := a[key].([]string)
	return v
}

// Object returns a nested object field, or nil if absent.
func (a Args) Object(key string) Args {
	v, _ := a[key].(Args)
	return v
}

// Has reports whether the field was supplied (or defaulted).
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// FieldError is a single validation violation.
type FieldError struct {
	Path   string
	Reason string
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Reason
}

// ValidationError reports every violation found in one pass.
type ValidationError struct {
	Errors []FieldError
}

// Error joins all violations with "; " so callers (and tests) can rely on
// one deterministic message for a given set of failures.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return strings.Join(parts, "; ")
}

// Validate checks raw against the field descriptions. On success it returns
// the validated, defaulted argument set; on failure it returns a
// ValidationError listing every offending field. raw may be nil.
func Validate(fields []Field, raw map[string]any) (Args, *ValidationError) {
	out := Args{}
	var errs []FieldError
	validateInto(fields, raw, "", out, &errs)
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return out, nil
}

func validateInto(fields []Field, raw map[string]any, prefix string, out Args, errs *[]FieldError) {
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}

		v, present := rawValue(raw, f.Name)
		if !present {
			if f.Required {
				*errs = append(*errs, FieldError{Path: path, Reason: "missing required field"})
				continue
			}
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}

		switch f.Type {
		case TypeString:
			s, ok := v.(string)
			if !ok {
				*errs = append(*errs, typeError(path, "string", v))
				continue
			}
			if len(f.Enum) > 0 && !contains(f.Enum, s) {
				*errs = append(*errs, FieldError{
					Path:   path,
					Reason: fmt.Sprintf("must be one of [%s], got %q", strings.Join(f.Enum, ", "), s),
				})
				continue
			}
			out[f.Name] = s

		case TypeNumber:
			n, ok := toFloat(v)
			if !ok {
				*errs = append(*errs, typeError(path, "number", v))
				continue
			}
			if f.Min != nil && n < *f.Min {
				*errs = append(*errs, FieldError{
					Path:   path,
					Reason: fmt.Sprintf("must be >= %v, got %v", *f.Min, n),
				})
				continue
			}
			if f.Max != nil && n > *f.Max {
				*errs = append(*errs, FieldError{
					Path:   path,
					Reason: fmt.Sprintf("must be <= %v, got %v", *f.Max, n),
				})
				continue
			}
			out[f.Name] = n

		case TypeBoolean:
			b, ok := v.(bool)
			if !ok {
				*errs = append(*errs, typeError(path, "boolean", v))
				continue
			}
			out[f.Name] = b

		case TypeStringList:
			list, ok := toStringList(v)
			if !ok {
				*errs = append(*errs, typeError(path, "array of strings", v))
				continue
			}
			out[f.Name] = list

		case TypeObject:
			obj, ok := v.(map[string]any)
			if !ok {
				*errs = append(*errs, typeError(path, "object", v))
				continue
			}
			nested := Args{}
			validateInto(f.Fields, obj, path, nested, errs)
			out[f.Name] = nested
		}
	}
}

func rawValue(raw map[string]any, key string) (any, bool) {
	if raw == nil {
		return nil, false
	}
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func typeError(path, want string, got any) FieldError {
	return FieldError{
		Path:   path,
		Reason: fmt.Sprintf("expected %s, got %s", want, typeName(got)),
	}
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64, float32, int, int32, int64:
		return "number"
	case bool:
		return "boolean"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// toFloat accepts the numeric representations a JSON decoder (float64) or
// an in-process caller (int variants) may hand us.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toStringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func contains(set []string, s string) bool {
	for _, item := range set {
		if item == s {
			return true
		}
	}
	return false
}
