package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/tradeflow-io/tradeflow/pkg/models"
)

// TemplateRepository handles catalog read queries.
type TemplateRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(db *sql.DB, logger *slog.Logger) *TemplateRepository {
	return &TemplateRepository{db: db, logger: logger}
}

// ActiveTemplates returns Active templates matching the product and event
// codes, oldest first so that first-match ambiguity resolution is stable.
func (r *TemplateRepository) ActiveTemplates(ctx context.Context, productCode, eventCode string) ([]*models.WorkflowTemplate, error) {
	query := `
		SELECT
			id
		  , name
		  , product_code
		  , event_code
		  , trigger_types
		  , status
		  , created_at
		  , updated_at
		FROM workflow_templates
		WHERE product_code = $1 AND event_code = $2 AND status = 'active'
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productCode, eventCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}

	defer r.closeRows(ctx, rows)

	templates := make([]*models.WorkflowTemplate, 0)

	for rows.Next() {
		var (
			tmpl         models.WorkflowTemplate
			triggerTypes pq.StringArray
		)

		err := rows.Scan(
			&tmpl.ID,
			&tmpl.Name,
			&tmpl.ProductCode,
			&tmpl.EventCode,
			&triggerTypes,
			&tmpl.Status,
			&tmpl.CreatedAt,
			&tmpl.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}

		tmpl.TriggerTypes = make([]models.TriggerType, 0, len(triggerTypes))
		for _, tt := range triggerTypes {
			tmpl.TriggerTypes = append(tmpl.TriggerTypes, models.TriggerType(tt))
		}

		templates = append(templates, &tmpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

// StagesByTemplate returns the template's stages in ascending order value.
func (r *TemplateRepository) StagesByTemplate(ctx context.Context, templateID string) ([]*models.Stage, error) {
	query := `
		SELECT
			id
		  , template_id
		  , name
		  , stage_order
		FROM stages
		WHERE template_id = $1
		ORDER BY stage_order ASC
	`

	rows, err := r.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stages: %w", err)
	}

	defer r.closeRows(ctx, rows)

	stages := make([]*models.Stage, 0)

	for rows.Next() {
		var stage models.Stage

		if err := rows.Scan(&stage.ID, &stage.TemplateID, &stage.Name, &stage.Order); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}

		stages = append(stages, &stage)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stages: %w", err)
	}

	return stages, nil
}

// FieldsByStage returns the stage's field assignments in ascending order value.
func (r *TemplateRepository) FieldsByStage(ctx context.Context, stageID string) ([]*models.StageField, error) {
	query := `
		SELECT
			id
		  , stage_id
		  , field_id
		  , pane
		  , section
		  , field_order
		FROM stage_fields
		WHERE stage_id = $1
		ORDER BY field_order ASC
	`

	rows, err := r.db.QueryContext(ctx, query, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stage fields: %w", err)
	}

	defer r.closeRows(ctx, rows)

	fields := make([]*models.StageField, 0)

	for rows.Next() {
		var field models.StageField

		err := rows.Scan(&field.ID, &field.StageID, &field.FieldID, &field.Pane, &field.Section, &field.Order)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stage field: %w", err)
		}

		fields = append(fields, &field)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stage fields: %w", err)
	}

	return fields, nil
}

// FieldActionsByField returns the rule bundle for a field, or nil when the
// field has no configured actions.
func (r *TemplateRepository) FieldActionsByField(ctx context.Context, fieldID string) (*models.FieldActions, error) {
	query := `
		SELECT
			field_id
		  , is_computed
		  , computed_formula
		  , dropdown_filter_source
		  , triggers
		FROM field_actions
		WHERE field_id = $1
	`

	var (
		actions      models.FieldActions
		formula      sql.NullString
		filterSource sql.NullString
		triggersJSON []byte
	)

	row := r.db.QueryRowContext(ctx, query, fieldID)

	err := row.Scan(&actions.FieldID, &actions.IsComputed, &formula, &filterSource, &triggersJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan field actions: %w", err)
	}

	actions.ComputedFormula = formula.String
	actions.DropdownFilterSource = filterSource.String

	if len(triggersJSON) > 0 {
		if err := json.Unmarshal(triggersJSON, &actions.Triggers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal field action triggers: %w", err)
		}
	}

	return &actions, nil
}

func (r *TemplateRepository) closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
	}
}
