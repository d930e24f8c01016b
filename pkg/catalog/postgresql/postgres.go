// Package postgresql provides a PostgreSQL-backed catalog implementation.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/tradeflow-io/tradeflow/pkg/catalog"
	"github.com/tradeflow-io/tradeflow/pkg/catalog/sqlbase"
	"github.com/tradeflow-io/tradeflow/pkg/models"
)

// Catalog implements the catalog read contract over PostgreSQL.
type Catalog struct {
	db           *sql.DB
	logger       *slog.Logger
	templateRepo *TemplateRepository
}

// NewCatalog connects to PostgreSQL and runs schema migrations.
func NewCatalog(ctx context.Context, logger *slog.Logger, databaseURL string) (*Catalog, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())
	if err := migrationManager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Catalog{
		db:           database,
		logger:       logger,
		templateRepo: NewTemplateRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (c *Catalog) Close(_ context.Context) error {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (c *Catalog) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// ActiveTemplates returns Active templates matching the product and event codes.
func (c *Catalog) ActiveTemplates(ctx context.Context, productCode, eventCode string) ([]*models.WorkflowTemplate, error) {
	return c.templateRepo.ActiveTemplates(ctx, productCode, eventCode)
}

// StagesByTemplate returns the template's stages in ascending order value.
func (c *Catalog) StagesByTemplate(ctx context.Context, templateID string) ([]*models.Stage, error) {
	return c.templateRepo.StagesByTemplate(ctx, templateID)
}

// FieldsByStage returns the stage's field assignments in ascending order value.
func (c *Catalog) FieldsByStage(ctx context.Context, stageID string) ([]*models.StageField, error) {
	return c.templateRepo.FieldsByStage(ctx, stageID)
}

// FieldActionsByField returns the rule bundle for a field, or nil when none
// is configured.
func (c *Catalog) FieldActionsByField(ctx context.Context, fieldID string) (*models.FieldActions, error) {
	return c.templateRepo.FieldActionsByField(ctx, fieldID)
}

var _ catalog.Catalog = (*Catalog)(nil)
