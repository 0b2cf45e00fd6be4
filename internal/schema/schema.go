// Package schema holds the field-schema model that drives the patient form.
// The upstream prediction API declares its input fields; this package maps
// that wire representation into the renderable form each page works with.
package schema

import "encoding/json"

// Kind is the renderable kind of a form field.
type Kind string

const (
	Numeric Kind = "numeric"
	Boolean Kind = "boolean"
	Text    Kind = "text"
)

// MapKind translates a server-declared type token into a renderable kind.
// Unknown or absent tokens fall back to Text, the most permissive kind.
func MapKind(token string) Kind {
	switch token {
	case "number", "integer":
		return Numeric
	case "boolean":
		return Boolean
	default:
		return Text
	}
}

// Field describes one form input. Name is the join key between the schema,
// the live value map, and the assembled payload; it is unique per schema.
type Field struct {
	Name          string
	Label         string
	Kind          Kind
	Min           *float64
	Max           *float64
	Step          *float64
	Default       any
	Unit          string
	AllowedValues []string
}

// HasDefault reports whether the field declares a default value.
func (f *Field) HasDefault() bool {
	return f.Default != nil
}

// DefaultString renders the default for use as a placeholder, or "" when
// no default is declared.
func (f *Field) DefaultString() string {
	if f.Default == nil {
		return ""
	}
	switch v := f.Default.(type) {
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
