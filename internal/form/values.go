// Package form turns live form state into the exact request body sent to
// the prediction endpoints: parsing submitted inputs against the field
// schema, back-filling defaults, and assembling the final payload.
package form

import (
	"strconv"

	"github.com/riskview/riskview/internal/schema"
)

// Value is one entered field value with a closed kind tag. Only the slot
// matching Kind is meaningful.
type Value struct {
	Kind schema.Kind
	Num  float64
	Str  string
	Bool bool
}

func NumberValue(f float64) Value { return Value{Kind: schema.Numeric, Num: f} }
func TextValue(s string) Value    { return Value{Kind: schema.Text, Str: s} }
func BoolValue(b bool) Value      { return Value{Kind: schema.Boolean, Bool: b} }

// Raw returns the JSON-encodable primitive for the value.
func (v Value) Raw() any {
	switch v.Kind {
	case schema.Numeric:
		return v.Num
	case schema.Boolean:
		return v.Bool
	default:
		return v.Str
	}
}

// Display renders the value for an HTML input's value attribute.
func (v Value) Display() string {
	switch v.Kind {
	case schema.Numeric:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case schema.Boolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Values is the patient value map: field name to entered value. Fields the
// user has not touched are absent.
type Values map[string]Value

// ParseValues builds the patient value map from submitted form data. get
// returns the raw submitted string for a field name, "" when absent. Parsing
// is validated against the schema: enumerated fields keep the chosen string,
// numeric fields must parse as a number (unparsable input is treated as
// unset), boolean fields come from checkbox state, and empty inputs stay
// absent.
func ParseValues(fields []schema.Field, get func(name string) string) Values {
	values := make(Values)
	for _, f := range fields {
		raw := get(f.Name)

		if len(f.AllowedValues) > 0 {
			if raw != "" {
				values[f.Name] = TextValue(raw)
			}
			continue
		}

		switch f.Kind {
		case schema.Numeric:
			if raw == "" {
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			values[f.Name] = NumberValue(n)
		case schema.Boolean:
			if raw == "" {
				continue
			}
			values[f.Name] = BoolValue(checkboxChecked(raw))
		default:
			if raw == "" {
				continue
			}
			values[f.Name] = TextValue(raw)
		}
	}
	return values
}

// checkboxChecked interprets the submitted value of a checkbox. Browsers
// send "on" for a checked box with no explicit value attribute.
func checkboxChecked(raw string) bool {
	if raw == "on" {
		return true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return b
}
