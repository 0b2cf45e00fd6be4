package form

import (
	"sort"

	"github.com/riskview/riskview/internal/schema"
	"github.com/riskview/riskview/internal/upstream"
)

// MissingSentinel is the closed-choice option the schema uses for an
// explicit "unknown". The flexible assembler strips entries carrying it so
// the upstream network marginalizes over the variable instead of treating
// "Missing" as a literal category. The convention applies by value equality,
// so in practice only string-valued fields are affected.
const MissingSentinel = "Missing"

// Assemble produces the value map to transmit. For every schema field absent
// from values: a declared default is copied in, an undefaulted boolean field
// becomes false, and anything else stays out of the payload. User-set values
// are never overwritten. The inputs are not mutated.
func Assemble(fields []schema.Field, values Values) map[string]any {
	payload := make(map[string]any, len(values))
	for name, v := range values {
		payload[name] = v.Raw()
	}
	for _, f := range fields {
		if _, ok := payload[f.Name]; ok {
			continue
		}
		if f.HasDefault() {
			payload[f.Name] = f.Default
		} else if f.Kind == schema.Boolean {
			payload[f.Name] = false
		}
	}
	return payload
}

// AssembleFlexible builds the flexible Bayesian request body: the assembled
// value map with sentinel entries removed, bundled with the selected
// targets. Target selection is order-insensitive; the slice is emitted
// sorted so identical selections produce identical bodies.
func AssembleFlexible(fields []schema.Field, values Values, targets map[string]bool) *upstream.FlexiblePayload {
	patient := Assemble(fields, values)
	for name, v := range patient {
		if s, ok := v.(string); ok && s == MissingSentinel {
			delete(patient, name)
		}
	}

	selected := make([]string, 0, len(targets))
	for name, on := range targets {
		if on {
			selected = append(selected, name)
		}
	}
	sort.Strings(selected)

	return &upstream.FlexiblePayload{Patient: patient, Targets: selected}
}
