// Package web provides the HTTP surface consumed by the dashboard and the
// dynamic-form renderer.
package web

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/tradeflow-io/tradeflow/pkg/fieldrules"
	"github.com/tradeflow-io/tradeflow/pkg/models"
	"github.com/tradeflow-io/tradeflow/pkg/resolver"
	"github.com/tradeflow-io/tradeflow/pkg/stagenav"
	"github.com/tradeflow-io/tradeflow/pkg/statusflow"
)

type APIHandlers struct {
	resolver   *resolver.Resolver
	navigator  *stagenav.Navigator
	translator *statusflow.Translator
	validator  *validator.Validate
	logger     *slog.Logger
}

func NewAPIHandlers(
	r *resolver.Resolver,
	navigator *stagenav.Navigator,
	translator *statusflow.Translator,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		resolver:   r,
		navigator:  navigator,
		translator: translator,
		validator:  validator,
		logger:     logger.With("module", "web"),
	}
}

// ResolveTemplate answers GET /templates/resolve?product=&event=&trigger=.
func (h *APIHandlers) ResolveTemplate(c fiber.Ctx) error {
	product := c.Query("product")
	event := c.Query("event")
	trigger := c.Query("trigger")

	if product == "" || event == "" || trigger == "" {
		return badRequest(c, "product, event and trigger query parameters are required")
	}

	tmpl := h.resolver.Resolve(c.Context(), product, event, models.TriggerType(trigger))
	if tmpl == nil {
		return notFound(c, "no active template matches the given combination")
	}

	return c.JSON(tmpl)
}

// GetPaneSequence answers GET /templates/:id/panes?stages=a,b. The form
// renderer calls it once at form-open time.
func (h *APIHandlers) GetPaneSequence(c fiber.Ctx) error {
	templateID := c.Params("id")
	if templateID == "" {
		return badRequest(c, "Template ID is required")
	}

	accessible := splitParam(c.Query("stages"))

	sequence, err := h.navigator.BuildPaneSequence(c.Context(), templateID, accessible)
	if err != nil {
		return handleCatalogError(c, err)
	}

	return c.JSON(fiber.Map{
		"template_id": templateID,
		"panes":       sequence,
	})
}

// GetStageSections answers GET /stages/:id/sections.
func (h *APIHandlers) GetStageSections(c fiber.Ctx) error {
	stageID := c.Params("id")
	if stageID == "" {
		return badRequest(c, "Stage ID is required")
	}

	sections, err := h.navigator.SectionsForStage(c.Context(), stageID)
	if err != nil {
		return handleCatalogError(c, err)
	}

	return c.JSON(fiber.Map{"sections": sections})
}

// GetSectionsUnion answers GET /sections?stage_ids=a,b for roles holding
// simultaneous access to several stages.
func (h *APIHandlers) GetSectionsUnion(c fiber.Ctx) error {
	stageIDs := splitParam(c.Query("stage_ids"))
	if len(stageIDs) == 0 {
		return badRequest(c, "stage_ids query parameter is required")
	}

	sections, err := h.navigator.SectionsForStages(c.Context(), stageIDs)
	if err != nil {
		return handleCatalogError(c, err)
	}

	return c.JSON(fiber.Map{"sections": sections})
}

// NextStages answers POST /transactions/next-stage for a batch of dashboard
// rows. The translator is total, so every row gets a label.
func (h *APIHandlers) NextStages(c fiber.Ctx) error {
	var req NextStageRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid request: "+err.Error())
	}

	rows := make([]NextStageRow, 0, len(req.Transactions))

	for _, txn := range req.Transactions {
		rows = append(rows, NextStageRow{
			ID:        txn.ID,
			NextStage: h.translator.NextStage(c.Context(), txn),
		})
	}

	return c.JSON(NextStageResponse{Rows: rows})
}

// EvaluateField answers POST /fields/evaluate on every keystroke or
// selection change of a rule-bearing field.
func (h *APIHandlers) EvaluateField(c fiber.Ctx) error {
	var req EvaluateFieldRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid request: "+err.Error())
	}

	actions, err := h.resolver.FieldActionsOf(c.Context(), req.FieldID)
	if err != nil {
		return handleCatalogError(c, err)
	}

	if actions == nil {
		return notFound(c, "no field actions configured for "+req.FieldID)
	}

	resp := EvaluateFieldResponse{
		Show:            []string{},
		Hide:            []string{},
		DropdownFilters: map[string][]string{},
	}

	if actions.IsComputed {
		value, err := fieldrules.EvaluateComputed(actions.ComputedFormula, req.NumericValues)
		if err != nil {
			resp.ComputedError = err.Error()
		} else {
			resp.Computed = &value
		}
	}

	outcome := fieldrules.EvaluateTriggers(req.Values[req.FieldID], actions.Triggers)
	resp.Show = sortedKeys(outcome.Show)
	resp.Hide = sortedKeys(outcome.Hide)
	resp.DropdownFilters = outcome.DropdownFilters

	if actions.DropdownFilterSource != "" {
		options, err := h.allowedOptions(c, &req, actions.DropdownFilterSource)
		if err != nil {
			return handleCatalogError(c, err)
		}

		resp.AllowedOptions = options
	}

	return c.JSON(resp)
}

// allowedOptions resolves the dropdown filter chain: the source field's
// active triggers may restrict this field's option list.
func (h *APIHandlers) allowedOptions(c fiber.Ctx, req *EvaluateFieldRequest, sourceFieldID string) ([]string, error) {
	source, err := h.resolver.FieldActionsOf(c.Context(), sourceFieldID)
	if err != nil {
		return nil, err
	}

	if source == nil {
		return req.Options, nil
	}

	return fieldrules.AllowedOptions(
		req.FieldID,
		req.Values[sourceFieldID],
		source.Triggers,
		req.Options,
	), nil
}

// HealthCheck answers GET /health with catalog connectivity.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	message, healthy := h.resolver.HealthCheck(c.Context())

	status := "healthy"
	httpStatus := fiber.StatusOK

	if !healthy {
		status = "unhealthy"
		httpStatus = fiber.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
	})
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
