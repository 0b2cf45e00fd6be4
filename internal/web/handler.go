// Package web renders the patient-form pages and owns the request
// lifecycle: schema fetch, form parsing, payload assembly, the prediction
// call, and results display. Every submission is handled synchronously
// within its own request, so a slow prediction can never overwrite the
// results of a later one.
package web

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/riskview/riskview/internal/form"
	"github.com/riskview/riskview/internal/upstream"
)

// PredictionAPI is the slice of the upstream client the pages consume.
// Satisfied by both upstream.Client and upstream.CachedClient.
type PredictionAPI interface {
	CoxSchema(ctx context.Context) (*upstream.SchemaResponse, error)
	BayesianSchema(ctx context.Context) (*upstream.SchemaResponse, error)
	PredictCox(ctx context.Context, payload map[string]any) (*upstream.CoxResult, error)
	PredictFlexible(ctx context.Context, payload *upstream.FlexiblePayload) (*upstream.FlexibleResult, error)
	CoxModelInfo(ctx context.Context) (*upstream.ModelInfo, error)
}

type Handler struct {
	api    PredictionAPI
	logger zerolog.Logger
}

func NewHandler(api PredictionAPI, logger zerolog.Logger) *Handler {
	return &Handler{api: api, logger: logger}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Intro)
	e.GET("/cox", h.CoxForm)
	e.POST("/cox/analyze", h.CoxAnalyze)
	e.GET("/bayesian", h.BayesianForm)
	e.POST("/bayesian/analyze", h.BayesianAnalyze)
	e.GET("/model", h.ModelInfo)

	e.StaticFS("/static", echo.MustSubFS(assetsFS, "static"))
}

// -- Page data --

type coxPage struct {
	Title       string
	FormAction  string
	FormID      string
	SchemaError bool
	Controls    []Control
	Results     *CoxResultsView
}

type bayesianPage struct {
	Title       string
	FormAction  string
	FormID      string
	SchemaError bool
	Controls    []Control
	Targets     []TargetOption
	HasResults  bool
	Results     []TargetResultView
}

type modelPage struct {
	Title     string
	LoadError bool
	Info      *ModelInfoView
}

type introPage struct {
	Title string
}

// -- Handlers --

func (h *Handler) Intro(c echo.Context) error {
	return c.Render(http.StatusOK, "intro", introPage{Title: "Endometrial Cancer Risk Assessment"})
}

// CoxForm renders the Cox patient form. A schema fetch failure degrades to
// an empty form with an error note; the page itself always renders.
func (h *Handler) CoxForm(c echo.Context) error {
	page := coxPage{Title: "Cox Model", FormAction: "/cox/analyze"}

	resp, err := h.api.CoxSchema(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load cox schema")
		page.SchemaError = true
		return c.Render(http.StatusOK, "cox", page)
	}

	page.Controls = BuildControls(resp.SchemaFields(), nil)
	return c.Render(http.StatusOK, "cox", page)
}

// CoxAnalyze handles a Cox form submission: parse the entered values
// against the schema, assemble the payload, call the prediction endpoint,
// and render the form again with the results. On prediction failure the
// form re-renders with the entered values preserved and no results.
func (h *Handler) CoxAnalyze(c echo.Context) error {
	page := coxPage{Title: "Cox Model", FormAction: "/cox/analyze"}

	resp, err := h.api.CoxSchema(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load cox schema")
		page.SchemaError = true
		return c.Render(http.StatusOK, "cox", page)
	}
	fields := resp.SchemaFields()

	values := form.ParseValues(fields, c.FormValue)
	page.Controls = BuildControls(fields, values)

	payload := form.Assemble(fields, values)
	result, err := h.api.PredictCox(c.Request().Context(), payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("cox prediction failed")
		return c.Render(http.StatusOK, "cox", page)
	}

	page.Results = NewCoxResultsView(result)
	return c.Render(http.StatusOK, "cox", page)
}

// BayesianForm renders the Bayesian patient form with the target panel.
func (h *Handler) BayesianForm(c echo.Context) error {
	page := bayesianPage{Title: "Bayesian Network", FormAction: "/bayesian/analyze", FormID: "bayesian-form"}

	resp, err := h.api.BayesianSchema(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load bayesian schema")
		page.SchemaError = true
		return c.Render(http.StatusOK, "bayesian", page)
	}

	page.Controls = BuildControls(resp.SchemaFields(), nil)
	page.Targets = BuildTargetOptions(resp.Targets, nil)
	return c.Render(http.StatusOK, "bayesian", page)
}

// BayesianAnalyze handles a Bayesian submission: the assembled value map is
// stripped of "Missing" sentinel entries and bundled with the selected
// targets for the flexible endpoint.
func (h *Handler) BayesianAnalyze(c echo.Context) error {
	page := bayesianPage{Title: "Bayesian Network", FormAction: "/bayesian/analyze", FormID: "bayesian-form"}

	resp, err := h.api.BayesianSchema(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load bayesian schema")
		page.SchemaError = true
		return c.Render(http.StatusOK, "bayesian", page)
	}
	fields := resp.SchemaFields()

	values := form.ParseValues(fields, c.FormValue)
	selected := h.selectedTargets(c, resp.Targets)
	page.Controls = BuildControls(fields, values)
	page.Targets = BuildTargetOptions(resp.Targets, selected)

	payload := form.AssembleFlexible(fields, values, selected)
	result, err := h.api.PredictFlexible(c.Request().Context(), payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("bayesian prediction failed")
		return c.Render(http.StatusOK, "bayesian", page)
	}

	page.HasResults = true
	page.Results = NewTargetResultViews(result)
	return c.Render(http.StatusOK, "bayesian", page)
}

// selectedTargets reads the submitted target checkboxes, keeping only names
// the schema actually declares.
func (h *Handler) selectedTargets(c echo.Context, known []string) map[string]bool {
	submitted, err := c.FormParams()
	if err != nil {
		return nil
	}
	knownSet := make(map[string]bool, len(known))
	for _, t := range known {
		knownSet[t] = true
	}
	selected := make(map[string]bool)
	for _, t := range submitted["targets"] {
		if knownSet[t] {
			selected[t] = true
		}
	}
	return selected
}

// ModelInfo renders model statistics and risk-group survival curves.
func (h *Handler) ModelInfo(c echo.Context) error {
	page := modelPage{Title: "Model Information"}

	info, err := h.api.CoxModelInfo(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load model info")
		page.LoadError = true
		return c.Render(http.StatusOK, "model", page)
	}

	page.Info = NewModelInfoView(info)
	return c.Render(http.StatusOK, "model", page)
}
