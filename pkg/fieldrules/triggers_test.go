package fieldrules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradeflow-io/tradeflow/pkg/models"
)

func TestEvaluateTriggers_SingleMatch(t *testing.T) {
	t.Parallel()

	triggers := []models.FieldActionTrigger{
		{
			WhenValue:  []string{"Sight", "Usance"},
			ShowFields: []string{"TENOR_DAYS"},
			HideFields: []string{"DEFERRED_SCHEDULE"},
		},
	}

	outcome := EvaluateTriggers("Usance", triggers)

	assert.True(t, outcome.Show["TENOR_DAYS"])
	assert.True(t, outcome.Hide["DEFERRED_SCHEDULE"])
	assert.Empty(t, outcome.DropdownFilters)
}

func TestEvaluateTriggers_NoMatch(t *testing.T) {
	t.Parallel()

	triggers := []models.FieldActionTrigger{
		{WhenValue: []string{"Sight"}, ShowFields: []string{"TENOR_DAYS"}},
	}

	outcome := EvaluateTriggers("Mixed", triggers)

	assert.Empty(t, outcome.Show)
	assert.Empty(t, outcome.Hide)
	assert.Empty(t, outcome.DropdownFilters)
}

func TestEvaluateTriggers_ExactMatchNotNormalized(t *testing.T) {
	t.Parallel()

	triggers := []models.FieldActionTrigger{
		{WhenValue: []string{"sight"}, ShowFields: []string{"TENOR_DAYS"}},
	}

	// Trigger values match exactly; "Sight" must not activate "sight".
	outcome := EvaluateTriggers("Sight", triggers)
	assert.Empty(t, outcome.Show)
}

func TestEvaluateTriggers_LastWriteWins(t *testing.T) {
	t.Parallel()

	triggers := []models.FieldActionTrigger{
		{WhenValue: []string{"Confirmed"}, ShowFields: []string{"CONFIRMATION_CHARGES"}},
		{WhenValue: []string{"Confirmed"}, HideFields: []string{"CONFIRMATION_CHARGES"}},
	}

	// Both triggers activate; the later declaration overrides the earlier
	// one for the shared target.
	outcome := EvaluateTriggers("Confirmed", triggers)

	assert.True(t, outcome.Hide["CONFIRMATION_CHARGES"])
	assert.False(t, outcome.Show["CONFIRMATION_CHARGES"])
}

func TestEvaluateTriggers_LastWriteWinsReversed(t *testing.T) {
	t.Parallel()

	triggers := []models.FieldActionTrigger{
		{WhenValue: []string{"Confirmed"}, HideFields: []string{"CONFIRMATION_CHARGES"}},
		{WhenValue: []string{"Confirmed"}, ShowFields: []string{"CONFIRMATION_CHARGES"}},
	}

	outcome := EvaluateTriggers("Confirmed", triggers)

	assert.True(t, outcome.Show["CONFIRMATION_CHARGES"])
	assert.False(t, outcome.Hide["CONFIRMATION_CHARGES"])
}

func TestEvaluateTriggers_DropdownFilterOverride(t *testing.T) {
	t.Parallel()

	triggers := []models.FieldActionTrigger{
		{
			WhenValue:       []string{"EUR"},
			FilterDropdowns: map[string][]string{"SETTLEMENT_ACCOUNT": {"acc-1", "acc-2"}},
		},
		{
			WhenValue:       []string{"EUR"},
			FilterDropdowns: map[string][]string{"SETTLEMENT_ACCOUNT": {"acc-3"}},
		},
	}

	outcome := EvaluateTriggers("EUR", triggers)

	assert.Equal(t, []string{"acc-3"}, outcome.DropdownFilters["SETTLEMENT_ACCOUNT"])
}

func TestEvaluateTriggers_IndependentTargetsAccumulate(t *testing.T) {
	t.Parallel()

	triggers := []models.FieldActionTrigger{
		{WhenValue: []string{"Transferable"}, ShowFields: []string{"SECOND_BENEFICIARY"}},
		{WhenValue: []string{"Transferable"}, HideFields: []string{"ASSIGNMENT_CLAUSE"}},
	}

	outcome := EvaluateTriggers("Transferable", triggers)

	assert.True(t, outcome.Show["SECOND_BENEFICIARY"])
	assert.True(t, outcome.Hide["ASSIGNMENT_CLAUSE"])
}

func TestEvaluateTriggers_MalformedEntriesSkipped(t *testing.T) {
	t.Parallel()

	triggers := []models.FieldActionTrigger{
		{WhenValue: nil, ShowFields: []string{"NEVER_SHOWN"}},
		{
			WhenValue:       []string{"GBP"},
			ShowFields:      []string{"", "IBAN"},
			HideFields:      []string{""},
			FilterDropdowns: map[string][]string{"": {"x"}, "BRANCH": {"uk-1"}},
		},
	}

	outcome := EvaluateTriggers("GBP", triggers)

	assert.False(t, outcome.Show["NEVER_SHOWN"])
	assert.True(t, outcome.Show["IBAN"])
	assert.False(t, outcome.Show[""])
	assert.False(t, outcome.Hide[""])
	assert.NotContains(t, outcome.DropdownFilters, "")
	assert.Equal(t, []string{"uk-1"}, outcome.DropdownFilters["BRANCH"])
}

func TestAllowedOptions_FilterActive(t *testing.T) {
	t.Parallel()

	sourceTriggers := []models.FieldActionTrigger{
		{
			WhenValue:       []string{"Germany"},
			FilterDropdowns: map[string][]string{"PORT_OF_LOADING": {"v1", "v2"}},
		},
	}

	full := []string{"v1", "v2", "v3", "v4"}

	options := AllowedOptions("PORT_OF_LOADING", "Germany", sourceTriggers, full)
	assert.Equal(t, []string{"v1", "v2"}, options)
}

func TestAllowedOptions_NoActiveFilterUnrestricted(t *testing.T) {
	t.Parallel()

	sourceTriggers := []models.FieldActionTrigger{
		{
			WhenValue:       []string{"Germany"},
			FilterDropdowns: map[string][]string{"PORT_OF_LOADING": {"v1"}},
		},
	}

	full := []string{"v1", "v2", "v3"}

	options := AllowedOptions("PORT_OF_LOADING", "France", sourceTriggers, full)
	assert.Equal(t, full, options)
}

func TestAllowedOptions_ActiveTriggerOtherTarget(t *testing.T) {
	t.Parallel()

	sourceTriggers := []models.FieldActionTrigger{
		{
			WhenValue:       []string{"Germany"},
			FilterDropdowns: map[string][]string{"INCOTERM": {"FOB"}},
		},
	}

	full := []string{"v1", "v2"}

	// The source trigger is active but does not target this field.
	options := AllowedOptions("PORT_OF_LOADING", "Germany", sourceTriggers, full)
	assert.Equal(t, full, options)
}
