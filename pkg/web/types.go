package web

import "github.com/tradeflow-io/tradeflow/pkg/models"

// NextStageRequest asks for the "Next Stage" label of one or more dashboard
// rows in a single round-trip.
type NextStageRequest struct {
	Transactions []models.TransactionSummary `json:"transactions" validate:"required,min=1,dive"`
}

// NextStageRow pairs a transaction with its computed label. Rows fail
// independently; an uninterpretable row carries "Unknown" without affecting
// its neighbors.
type NextStageRow struct {
	ID        string `json:"id"`
	NextStage string `json:"next_stage"`
}

type NextStageResponse struct {
	Rows []NextStageRow `json:"rows"`
}

// EvaluateFieldRequest carries one field's identifier plus the live state of
// the form: raw string values for trigger matching and numeric values for
// formula evaluation, keyed by canonical field identifier.
type EvaluateFieldRequest struct {
	FieldID       string             `json:"field_id" validate:"required"`
	Values        map[string]string  `json:"values"`
	NumericValues map[string]float64 `json:"numeric_values"`
	Options       []string           `json:"options"`
}

// EvaluateFieldResponse reports the field's computed value (or why it is
// unavailable), the show/hide sets its triggers produced, and, for
// dropdown-filtered fields, the allowed option list.
type EvaluateFieldResponse struct {
	Computed        *float64            `json:"computed,omitempty"`
	ComputedError   string              `json:"computed_error,omitempty"`
	Show            []string            `json:"show"`
	Hide            []string            `json:"hide"`
	DropdownFilters map[string][]string `json:"dropdown_filters"`
	AllowedOptions  []string            `json:"allowed_options,omitempty"`
}
