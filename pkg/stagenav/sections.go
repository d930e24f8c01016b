package stagenav

import (
	"context"

	"github.com/tradeflow-io/tradeflow/pkg/models"
)

// SectionsForStage maps each pane name used within the stage to the ordered
// distinct section names its fields declare. A pane/section pair appears iff
// at least one field row declares it; there is no implicit default section.
func (n *Navigator) SectionsForStage(ctx context.Context, stageID string) (map[string][]string, error) {
	fields, err := n.resolver.FieldsOf(ctx, stageID)
	if err != nil {
		return nil, err
	}

	_, sections := panesAndSections(fields)

	return sections, nil
}

// SectionsForStages returns the union of section names per pane across all
// given stages, in stage-then-field order. Used when a role holds
// simultaneous access to several stages and a shared pane must show the
// superset of fields visible to that role.
func (n *Navigator) SectionsForStages(ctx context.Context, stageIDs []string) (map[string][]string, error) {
	union := make(map[string][]string)
	seen := make(map[string]map[string]bool)

	for _, stageID := range stageIDs {
		fields, err := n.resolver.FieldsOf(ctx, stageID)
		if err != nil {
			return nil, err
		}

		mergeSections(union, seen, fields)
	}

	return union, nil
}

func mergeSections(union map[string][]string, seen map[string]map[string]bool, fields []*models.StageField) {
	for _, field := range fields {
		if _, ok := seen[field.Pane]; !ok {
			seen[field.Pane] = make(map[string]bool)
		}

		if !seen[field.Pane][field.Section] {
			seen[field.Pane][field.Section] = true
			union[field.Pane] = append(union[field.Pane], field.Section)
		}
	}
}
