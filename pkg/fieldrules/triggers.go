package fieldrules

import (
	"github.com/tradeflow-io/tradeflow/pkg/models"
)

// TriggerOutcome aggregates every action produced by the owning field's
// active triggers for one value.
type TriggerOutcome struct {
	Show            map[string]bool     `json:"show"`
	Hide            map[string]bool     `json:"hide"`
	DropdownFilters map[string][]string `json:"dropdown_filters"`
}

// EvaluateTriggers applies every trigger activated by fieldValue, in
// declaration order. A trigger activates iff fieldValue is an exact member
// of its when_value set; several triggers may activate at once. Malformed
// entries are skipped individually rather than aborting the set.
func EvaluateTriggers(fieldValue string, triggers []models.FieldActionTrigger) TriggerOutcome {
	outcome := TriggerOutcome{
		Show:            make(map[string]bool),
		Hide:            make(map[string]bool),
		DropdownFilters: make(map[string][]string),
	}

	for _, trigger := range triggers {
		if len(trigger.WhenValue) == 0 || !trigger.ActivatedBy(fieldValue) {
			continue
		}

		applyTrigger(&outcome, trigger)
	}

	return outcome
}

// applyTrigger merges one active trigger into the outcome. When active
// triggers disagree over a target field, declaration order decides: the
// later trigger overrides the earlier one for that target (last-write-wins).
// The source configuration never specifies this explicitly, so the policy is
// kept in this one function in case product intent turns out to differ.
func applyTrigger(outcome *TriggerOutcome, trigger models.FieldActionTrigger) {
	for _, fieldID := range trigger.ShowFields {
		if fieldID == "" {
			continue
		}

		outcome.Show[fieldID] = true
		delete(outcome.Hide, fieldID)
	}

	for _, fieldID := range trigger.HideFields {
		if fieldID == "" {
			continue
		}

		outcome.Hide[fieldID] = true
		delete(outcome.Show, fieldID)
	}

	for target, allowed := range trigger.FilterDropdowns {
		if target == "" {
			continue
		}

		outcome.DropdownFilters[target] = allowed
	}
}

// AllowedOptions computes a dependent dropdown's option list. The target
// field declares another field as its filter source; the source's currently
// active triggers may restrict the target's options via filter_dropdowns.
// With no active filter targeting the field, the full catalog list stands.
func AllowedOptions(targetFieldID, sourceValue string, sourceTriggers []models.FieldActionTrigger, fullOptions []string) []string {
	outcome := EvaluateTriggers(sourceValue, sourceTriggers)

	allowed, ok := outcome.DropdownFilters[targetFieldID]
	if !ok {
		return fullOptions
	}

	return allowed
}
