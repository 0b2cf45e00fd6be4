package web

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/riskview/riskview/internal/form"
	"github.com/riskview/riskview/internal/schema"
	"github.com/riskview/riskview/internal/upstream"
)

// ControlType selects the input widget rendered for a field.
type ControlType string

const (
	ControlSelect   ControlType = "select"
	ControlNumber   ControlType = "number"
	ControlText     ControlType = "text"
	ControlCheckbox ControlType = "checkbox"
)

// Control is the view model for one form input.
type Control struct {
	Name        string
	Label       string
	Type        ControlType
	Value       string
	Checked     bool
	Placeholder string
	Min         string
	Max         string
	Step        string
	Options     []string
	Unit        string
}

// BuildControls maps each schema field to exactly one control, in schema
// order. First rule wins: an enumerated field renders as a closed select
// regardless of kind, then numeric, text, and boolean inputs by kind. Unset
// values render empty or unchecked; a declared default appears only as the
// placeholder until a real value is supplied.
func BuildControls(fields []schema.Field, values form.Values) []Control {
	controls := make([]Control, 0, len(fields))
	for _, f := range fields {
		ctl := Control{
			Name:  f.Name,
			Label: f.Label,
			Unit:  f.Unit,
		}
		v, set := values[f.Name]

		switch {
		case len(f.AllowedValues) > 0:
			ctl.Type = ControlSelect
			ctl.Options = f.AllowedValues
			ctl.Placeholder = f.DefaultString()
			if ctl.Placeholder == "" {
				ctl.Placeholder = "Select..."
			}
			if set {
				ctl.Value = v.Display()
			}
		case f.Kind == schema.Numeric:
			ctl.Type = ControlNumber
			ctl.Placeholder = f.DefaultString()
			ctl.Min = floatAttr(f.Min)
			ctl.Max = floatAttr(f.Max)
			ctl.Step = floatAttr(f.Step)
			if set {
				ctl.Value = v.Display()
			}
		case f.Kind == schema.Boolean:
			ctl.Type = ControlCheckbox
			ctl.Checked = set && v.Bool
		default:
			ctl.Type = ControlText
			ctl.Placeholder = f.DefaultString()
			if set {
				ctl.Value = v.Display()
			}
		}

		controls = append(controls, ctl)
	}
	return controls
}

func floatAttr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// TargetOption is one selectable target variable with its checkbox state.
type TargetOption struct {
	Name     string
	Selected bool
}

// BuildTargetOptions pairs the schema's target list with the current
// selection, preserving the server's target order.
func BuildTargetOptions(targets []string, selected map[string]bool) []TargetOption {
	opts := make([]TargetOption, 0, len(targets))
	for _, t := range targets {
		opts = append(opts, TargetOption{Name: t, Selected: selected[t]})
	}
	return opts
}

// Contributor is one feature coefficient row of the Cox results table.
type Contributor struct {
	Feature     string
	Coefficient string
}

// CoxResultsView is the rendered Cox prediction result.
type CoxResultsView struct {
	RiskScore    string
	RiskGroup    string
	RiskClass    string
	DFS1Y        string
	DFS3Y        string
	DFS5Y        string
	Contributors []Contributor
}

// NewCoxResultsView formats a Cox result for display: score to 2 decimals,
// survival probabilities as percentages to 1 decimal, coefficients to 3.
// Contributors are ordered by absolute coefficient, strongest first.
func NewCoxResultsView(r *upstream.CoxResult) *CoxResultsView {
	view := &CoxResultsView{
		RiskScore: fmt.Sprintf("%.2f", r.RiskScore),
		RiskGroup: r.RiskGroup,
		RiskClass: riskClass(r.RiskGroup),
		DFS1Y:     percent(r.DFSProb1Y),
		DFS3Y:     percent(r.DFSProb3Y),
		DFS5Y:     percent(r.DFSProb5Y),
	}

	features := make([]string, 0, len(r.TopContributors))
	for feature := range r.TopContributors {
		features = append(features, feature)
	}
	sort.Slice(features, func(i, j int) bool {
		a, b := r.TopContributors[features[i]], r.TopContributors[features[j]]
		if abs(a) != abs(b) {
			return abs(a) > abs(b)
		}
		return features[i] < features[j]
	})
	for _, feature := range features {
		view.Contributors = append(view.Contributors, Contributor{
			Feature:     feature,
			Coefficient: fmt.Sprintf("%.3f", r.TopContributors[feature]),
		})
	}
	return view
}

func riskClass(group string) string {
	switch group {
	case "High":
		return "risk-high"
	case "Medium":
		return "risk-medium"
	default:
		return "risk-low"
	}
}

func percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// CategoryProb is one row of a target's probability distribution.
type CategoryProb struct {
	Category    string
	Probability string
}

// TargetResultView is the rendered distribution for one requested target.
type TargetResultView struct {
	Target string
	Rows   []CategoryProb
}

// NewTargetResultViews formats a flexible Bayesian result for display.
// Targets and categories are sorted so renders are deterministic.
func NewTargetResultViews(r *upstream.FlexibleResult) []TargetResultView {
	targets := make([]string, 0, len(r.Results))
	for t := range r.Results {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	views := make([]TargetResultView, 0, len(targets))
	for _, t := range targets {
		dist := r.Results[t]
		categories := make([]string, 0, len(dist))
		for c := range dist {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		view := TargetResultView{Target: t}
		for _, c := range categories {
			view.Rows = append(view.Rows, CategoryProb{
				Category:    c,
				Probability: fmt.Sprintf("%.3f", dist[c]),
			})
		}
		views = append(views, view)
	}
	return views
}

// RiskGroupView is one risk stratum of the model-info page with its
// survival curve as table rows.
type RiskGroupView struct {
	Name      string
	NPatients int
	Curve     []CurveRow
}

// CurveRow is one survival-curve point formatted for display.
type CurveRow struct {
	TimeDays string
	Survival string
}

// ModelInfoView is the rendered model-info page data.
type ModelInfoView struct {
	Type       string
	Population string
	NPatients  int
	NEvents    int
	TestCIndex string
	Groups     []RiskGroupView
}

// NewModelInfoView formats model statistics and risk-group curves. Groups
// are sorted by name for a stable layout.
func NewModelInfoView(info *upstream.ModelInfo) *ModelInfoView {
	view := &ModelInfoView{
		Type:       info.Model.Type,
		Population: info.Model.Population,
		NPatients:  info.Model.NPatients,
		NEvents:    info.Model.NEvents,
		TestCIndex: strconv.FormatFloat(info.Model.TestCIndex, 'f', -1, 64),
	}

	names := make([]string, 0, len(info.RiskGroups))
	for name := range info.RiskGroups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		g := info.RiskGroups[name]
		gv := RiskGroupView{Name: name, NPatients: g.NPatients}
		for _, p := range g.Curve {
			gv.Curve = append(gv.Curve, CurveRow{
				TimeDays: strconv.FormatFloat(p.TimeDays, 'f', -1, 64),
				Survival: fmt.Sprintf("%.3f", p.Survival),
			})
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}
