package upstream

import (
	"strconv"

	"github.com/riskview/riskview/internal/schema"
)

// SchemaField is one field descriptor as declared by the prediction API.
type SchemaField struct {
	InternalName string       `json:"internal_name"`
	ExternalName string       `json:"external_name"`
	Type         string       `json:"type"`
	Required     bool         `json:"required"`
	Description  string       `json:"description"`
	Constraints  *Constraints `json:"constraints"`
}

// Constraints is the optional nested constraints object on a schema field.
type Constraints struct {
	Min           *float64 `json:"min"`
	Max           *float64 `json:"max"`
	Step          *float64 `json:"step"`
	Default       any      `json:"default"`
	Unit          any      `json:"unit"`
	AllowedValues []any    `json:"allowed_values"`
}

// SchemaResponse is the body of the schema endpoints. Targets is only
// populated by the Bayesian variant.
type SchemaResponse struct {
	Model   string        `json:"model"`
	Fields  []SchemaField `json:"fields"`
	Targets []string      `json:"targets"`
}

// CoxResult is the response of the Cox prediction endpoint.
type CoxResult struct {
	RiskScore       float64            `json:"risk_score"`
	RiskGroup       string             `json:"risk_group"`
	DFSProb1Y       float64            `json:"dfs_prob_1y"`
	DFSProb3Y       float64            `json:"dfs_prob_3y"`
	DFSProb5Y       float64            `json:"dfs_prob_5y"`
	TopContributors map[string]float64 `json:"top_contributors"`
}

// FlexibleResult maps each requested target to a probability distribution
// over its categories.
type FlexibleResult struct {
	Results map[string]map[string]float64 `json:"results"`
}

// FlexiblePayload is the request body of the flexible Bayesian endpoint.
type FlexiblePayload struct {
	Patient map[string]any `json:"patient"`
	Targets []string       `json:"targets"`
}

// ModelInfo is the body of the Cox model-info endpoint.
type ModelInfo struct {
	Model      ModelStats           `json:"model"`
	RiskGroups map[string]RiskGroup `json:"risk_groups"`
}

// ModelStats summarises the trained model.
type ModelStats struct {
	Type       string  `json:"type"`
	Population string  `json:"population"`
	NPatients  int     `json:"n_patients"`
	NEvents    int     `json:"n_events"`
	TestCIndex float64 `json:"test_c_index"`
}

// RiskGroup is one risk stratum with its Kaplan-Meier curve.
type RiskGroup struct {
	NPatients int          `json:"n_patients"`
	Curve     []CurvePoint `json:"curve"`
}

// CurvePoint is one step of a survival curve.
type CurvePoint struct {
	TimeDays float64 `json:"time_days"`
	Survival float64 `json:"survival"`
}

// SchemaFields converts the wire descriptors into renderable schema fields,
// preserving server order.
func (r *SchemaResponse) SchemaFields() []schema.Field {
	fields := make([]schema.Field, 0, len(r.Fields))
	for _, wf := range r.Fields {
		f := schema.Field{
			Name:  wf.InternalName,
			Label: wf.ExternalName,
			Kind:  schema.MapKind(wf.Type),
		}
		if c := wf.Constraints; c != nil {
			f.Min = c.Min
			f.Max = c.Max
			f.Step = c.Step
			f.Default = c.Default
			f.Unit = stringify(c.Unit)
			for _, v := range c.AllowedValues {
				f.AllowedValues = append(f.AllowedValues, stringify(v))
			}
		}
		fields = append(fields, f)
	}
	return fields
}

// stringify renders a loosely typed wire value for display. The API emits
// units and allowed values as either strings or numbers.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
