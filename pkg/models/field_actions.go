package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var ErrComputedWithoutFormula = errors.New("computed field has no formula")

// FieldActions is the optional per-field rule bundle driving a dynamic
// form's runtime behavior: a computed formula, value-keyed triggers, and an
// optional dropdown filter source.
type FieldActions struct {
	FieldID              string               `json:"field_id" validate:"required"`
	IsComputed           bool                 `json:"is_computed"`
	ComputedFormula      string               `json:"computed_formula,omitempty"`
	Triggers             []FieldActionTrigger `json:"triggers,omitempty" validate:"dive"`
	DropdownFilterSource string               `json:"dropdown_filter_source,omitempty"`
}

// FieldActionTrigger activates when the owning field's value is a member of
// WhenValue. Target field identifiers are opaque strings; unresolvable
// references are inert, not errors.
type FieldActionTrigger struct {
	WhenValue       []string            `json:"when_value" validate:"required,min=1"`
	ShowFields      []string            `json:"show_fields,omitempty"`
	HideFields      []string            `json:"hide_fields,omitempty"`
	FilterDropdowns map[string][]string `json:"filter_dropdowns,omitempty"`
}

// ActivatedBy reports whether the given field value activates this trigger.
// Matching is by exact string comparison, not normalized.
func (t *FieldActionTrigger) ActivatedBy(value string) bool {
	for _, v := range t.WhenValue {
		if v == value {
			return true
		}
	}

	return false
}

// Validate checks the rule bundle at load time so that per-keystroke
// evaluation can assume structural soundness.
func (fa *FieldActions) Validate(validate *validator.Validate) error {
	if err := validate.Struct(fa); err != nil {
		return err
	}

	if fa.IsComputed && fa.ComputedFormula == "" {
		return ErrComputedWithoutFormula
	}

	return nil
}
