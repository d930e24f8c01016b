// Package catalog provides read access to the static workflow configuration:
// templates, stages, stage-field assignments, and per-field rule bundles.
package catalog

import (
	"context"

	"github.com/tradeflow-io/tradeflow/pkg/models"
)

// Catalog is the read-only contract the engine consumes. Implementations
// never mutate configuration; writes belong to administrative tooling.
type Catalog interface {
	// ActiveTemplates returns every Active template whose product and event
	// codes equal the inputs, in catalog order. Trigger-type filtering is the
	// resolver's job. Absence of rows yields an empty slice, never an error.
	ActiveTemplates(ctx context.Context, productCode, eventCode string) ([]*models.WorkflowTemplate, error)

	// StagesByTemplate returns the template's stages in ascending order value.
	StagesByTemplate(ctx context.Context, templateID string) ([]*models.Stage, error)

	// FieldsByStage returns the stage's field assignments in ascending
	// in-stage order value.
	FieldsByStage(ctx context.Context, stageID string) ([]*models.StageField, error)

	// FieldActionsByField returns the rule bundle for a field identifier, or
	// nil when the field has no configured actions.
	FieldActionsByField(ctx context.Context, fieldID string) (*models.FieldActions, error)

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
