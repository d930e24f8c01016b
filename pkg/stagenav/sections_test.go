package stagenav

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tradeflow-io/tradeflow/pkg/mocks"
	"github.com/tradeflow-io/tradeflow/pkg/models"
	"github.com/tradeflow-io/tradeflow/pkg/resolver"
)

func TestSectionsForStage(t *testing.T) {
	t.Parallel()

	navigator := newTestNavigator()

	sections, err := navigator.SectionsForStage(t.Context(), "s-de")
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"LC Key Info": {"Amounts", "Dates"},
		"Parties":     {"Applicant Details", "Beneficiary Details"},
		"Attachments": {"Documents"},
	}, sections)
}

func TestSectionsForStage_EmptyStage(t *testing.T) {
	t.Parallel()

	cat := &mocks.MockCatalog{}
	cat.On("FieldsByStage", mock.Anything, "s-empty").
		Return([]*models.StageField{}, nil)

	navigator := NewNavigator(resolver.NewResolver(cat, nil, testLogger()), testLogger())

	sections, err := navigator.SectionsForStage(t.Context(), "s-empty")
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestSectionsForStages_Union(t *testing.T) {
	t.Parallel()

	navigator := newTestNavigator()

	sections, err := navigator.SectionsForStages(t.Context(), []string{"s-de", "s-lc"})
	require.NoError(t, err)

	// The shared pane carries the union of both stages' sections in
	// stage-then-field order; duplicates collapse.
	assert.Equal(t, []string{"Amounts", "Dates", "Limits"}, sections["LC Key Info"])
	assert.Equal(t, []string{"Applicant Details", "Beneficiary Details"}, sections["Parties"])
	assert.Equal(t, []string{"Documents"}, sections["Attachments"])
}

func TestSectionsForStages_OrderFollowsStageArgument(t *testing.T) {
	t.Parallel()

	navigator := newTestNavigator()

	sections, err := navigator.SectionsForStages(t.Context(), []string{"s-lc", "s-de"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Limits", "Amounts", "Dates"}, sections["LC Key Info"])
}

func TestSectionsForStages_Fault(t *testing.T) {
	t.Parallel()

	cat := &mocks.MockCatalog{}
	cat.On("FieldsByStage", mock.Anything, "s-bad").
		Return(nil, errors.New("connection reset"))

	navigator := NewNavigator(resolver.NewResolver(cat, nil, testLogger()), testLogger())

	_, err := navigator.SectionsForStages(t.Context(), []string{"s-bad"})
	require.Error(t, err)
}
