package web

import (
	"testing"

	"github.com/riskview/riskview/internal/form"
	"github.com/riskview/riskview/internal/schema"
	"github.com/riskview/riskview/internal/upstream"
)

func f64(v float64) *float64 { return &v }

func TestBuildControls_OneControlPerFieldInOrder(t *testing.T) {
	fields := []schema.Field{
		{Name: "grade", Kind: schema.Numeric, AllowedValues: []string{"1.0", "2.0"}},
		{Name: "age", Kind: schema.Numeric},
		{Name: "notes", Kind: schema.Text},
		{Name: "lvsi", Kind: schema.Boolean},
	}
	controls := BuildControls(fields, nil)

	if len(controls) != len(fields) {
		t.Fatalf("expected %d controls, got %d", len(fields), len(controls))
	}
	for i, f := range fields {
		if controls[i].Name != f.Name {
			t.Errorf("position %d: got %s, want %s", i, controls[i].Name, f.Name)
		}
	}

	wantTypes := []ControlType{ControlSelect, ControlNumber, ControlText, ControlCheckbox}
	for i, want := range wantTypes {
		if controls[i].Type != want {
			t.Errorf("control %d: got type %s, want %s", i, controls[i].Type, want)
		}
	}
}

func TestBuildControls_AllowedValuesWinOverKind(t *testing.T) {
	fields := []schema.Field{{
		Name:          "stage",
		Kind:          schema.Numeric,
		AllowedValues: []string{"I", "II", "III"},
	}}
	controls := BuildControls(fields, nil)

	if controls[0].Type != ControlSelect {
		t.Errorf("expected select for enumerated field, got %s", controls[0].Type)
	}
	if len(controls[0].Options) != 3 {
		t.Errorf("expected 3 options, got %d", len(controls[0].Options))
	}
}

func TestBuildControls_SelectPlaceholder(t *testing.T) {
	withDefault := []schema.Field{{
		Name:          "imc",
		AllowedValues: []string{"0.0", "Missing"},
		Default:       "Missing",
	}}
	controls := BuildControls(withDefault, nil)
	if controls[0].Placeholder != "Missing" {
		t.Errorf("expected default as placeholder, got %q", controls[0].Placeholder)
	}

	withoutDefault := []schema.Field{{
		Name:          "imc",
		AllowedValues: []string{"0.0"},
	}}
	controls = BuildControls(withoutDefault, nil)
	if controls[0].Placeholder != "Select..." {
		t.Errorf("expected generic prompt, got %q", controls[0].Placeholder)
	}
}

func TestBuildControls_NumericConstraints(t *testing.T) {
	fields := []schema.Field{{
		Name: "age", Kind: schema.Numeric,
		Min: f64(18), Max: f64(100), Step: f64(0.5), Default: 50.0,
	}}
	controls := BuildControls(fields, nil)

	ctl := controls[0]
	if ctl.Min != "18" || ctl.Max != "100" || ctl.Step != "0.5" {
		t.Errorf("unexpected attrs: min=%q max=%q step=%q", ctl.Min, ctl.Max, ctl.Step)
	}
	if ctl.Placeholder != "50" {
		t.Errorf("expected placeholder 50, got %q", ctl.Placeholder)
	}
	if ctl.Value != "" {
		t.Errorf("expected unset value to render empty, got %q", ctl.Value)
	}
}

func TestBuildControls_ValuePreserved(t *testing.T) {
	fields := []schema.Field{
		{Name: "age", Kind: schema.Numeric, Default: 50.0},
		{Name: "lvsi", Kind: schema.Boolean},
	}
	values := form.Values{
		"age":  form.NumberValue(63),
		"lvsi": form.BoolValue(true),
	}
	controls := BuildControls(fields, values)

	if controls[0].Value != "63" {
		t.Errorf("expected entered value 63, got %q", controls[0].Value)
	}
	if !controls[1].Checked {
		t.Error("expected checkbox to be checked")
	}
}

func TestBuildControls_UnsetBooleanUnchecked(t *testing.T) {
	fields := []schema.Field{{Name: "lvsi", Kind: schema.Boolean}}
	controls := BuildControls(fields, nil)
	if controls[0].Checked {
		t.Error("expected absent boolean to render unchecked")
	}
}

func TestNewCoxResultsView_Formatting(t *testing.T) {
	view := NewCoxResultsView(&upstream.CoxResult{
		RiskScore: 1.4567,
		RiskGroup: "Medium",
		DFSProb1Y: 0.912,
		DFSProb3Y: 0.7845,
		DFSProb5Y: 0.65,
		TopContributors: map[string]float64{
			"age":  0.034,
			"lvsi": -0.8123,
		},
	})

	if view.RiskScore != "1.46" {
		t.Errorf("expected 1.46, got %s", view.RiskScore)
	}
	if view.RiskClass != "risk-medium" {
		t.Errorf("expected risk-medium, got %s", view.RiskClass)
	}
	if view.DFS1Y != "91.2%" || view.DFS3Y != "78.5%" || view.DFS5Y != "65.0%" {
		t.Errorf("unexpected DFS formatting: %s %s %s", view.DFS1Y, view.DFS3Y, view.DFS5Y)
	}

	if len(view.Contributors) != 2 {
		t.Fatalf("expected 2 contributors, got %d", len(view.Contributors))
	}
	// Strongest absolute coefficient first.
	if view.Contributors[0].Feature != "lvsi" || view.Contributors[0].Coefficient != "-0.812" {
		t.Errorf("unexpected first contributor: %+v", view.Contributors[0])
	}
}

func TestRiskClass(t *testing.T) {
	cases := map[string]string{
		"High":   "risk-high",
		"Medium": "risk-medium",
		"Low":    "risk-low",
		"":       "risk-low",
	}
	for group, want := range cases {
		if got := riskClass(group); got != want {
			t.Errorf("riskClass(%q): got %s, want %s", group, got, want)
		}
	}
}

func TestNewTargetResultViews_Sorted(t *testing.T) {
	views := NewTargetResultViews(&upstream.FlexibleResult{
		Results: map[string]map[string]float64{
			"recidiva": {"1.0": 0.18, "0.0": 0.82},
			"estad":    {"alive": 0.9},
		},
	})

	if len(views) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(views))
	}
	if views[0].Target != "estad" || views[1].Target != "recidiva" {
		t.Errorf("expected sorted targets, got %s then %s", views[0].Target, views[1].Target)
	}

	rows := views[1].Rows
	if rows[0].Category != "0.0" || rows[0].Probability != "0.820" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Probability != "0.180" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestNewModelInfoView(t *testing.T) {
	view := NewModelInfoView(&upstream.ModelInfo{
		Model: upstream.ModelStats{
			Type:       "Cox proportional hazards",
			Population: "NSMP endometrial cancer",
			NPatients:  113,
			NEvents:    21,
			TestCIndex: 0.8,
		},
		RiskGroups: map[string]upstream.RiskGroup{
			"Low":  {NPatients: 40, Curve: []upstream.CurvePoint{{TimeDays: 365, Survival: 0.9712}}},
			"High": {NPatients: 30},
		},
	})

	if view.TestCIndex != "0.8" {
		t.Errorf("expected 0.8, got %s", view.TestCIndex)
	}
	if len(view.Groups) != 2 || view.Groups[0].Name != "High" || view.Groups[1].Name != "Low" {
		t.Errorf("expected groups sorted by name, got %+v", view.Groups)
	}
	low := view.Groups[1]
	if low.Curve[0].TimeDays != "365" || low.Curve[0].Survival != "0.971" {
		t.Errorf("unexpected curve row: %+v", low.Curve[0])
	}
}
