package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tradeflow-io/tradeflow/pkg/catalog/postgresql"
	"github.com/tradeflow-io/tradeflow/pkg/models"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Drop tables in reverse dependency order (children first, parents last)
	for _, table := range []string{"field_actions", "stage_fields", "stages", "workflow_templates", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Catalog, context.Context, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("tradeflow_test"),
			postgres.WithUsername("tradeflow"),
			postgres.WithPassword("tradeflow"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	cat, err := postgresql.NewCatalog(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = cat.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return cat, ctx, databaseURL
}

func seedTemplate(ctx context.Context, t *testing.T, databaseURL string) (templateID, dataEntryID, limitCheckID string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, db.Close())
	}()

	templateID = uuid.New().String()
	dataEntryID = uuid.New().String()
	limitCheckID = uuid.New().String()

	_, err = db.ExecContext(ctx, `
		INSERT INTO workflow_templates (id, name, product_code, event_code, trigger_types, status)
		VALUES ($1, 'ILC Issuance', 'ILC', 'ISS', '{Manual,ClientPortal}', 'active')
	`, templateID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO stages (id, template_id, name, stage_order)
		VALUES ($1, $3, 'Data Entry', 1), ($2, $3, 'Limit Check', 2)
	`, dataEntryID, limitCheckID, templateID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO stage_fields (id, stage_id, field_id, pane, section, field_order)
		VALUES
			($1, $3, 'LC_AMOUNT', 'LC Key Info', 'Amounts', 1),
			($2, $3, 'APPLICANT', 'Parties', 'Applicant Details', 2)
	`, uuid.New().String(), uuid.New().String(), dataEntryID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO field_actions (field_id, is_computed, computed_formula, triggers)
		VALUES ('TOTAL_AMOUNT', TRUE, 'LC_AMOUNT + CHARGES',
			'[{"when_value": ["Usance"], "show_fields": ["TENOR_DAYS"]}]'::jsonb)
	`)
	require.NoError(t, err)

	return templateID, dataEntryID, limitCheckID
}

func TestNewCatalog_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	for _, table := range []string{"workflow_templates", "stages", "stage_fields", "field_actions", "schema_migrations"} {
		var exists bool

		err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = $1)`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "%s table should exist", table)
	}

	var version int

	err = db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE version = 1").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewCatalog_HealthCheck(t *testing.T) {
	cat, ctx, _ := setupTestDB(t)

	err := cat.HealthCheck(ctx)
	assert.NoError(t, err)
}

func TestActiveTemplates(t *testing.T) {
	cat, ctx, databaseURL := setupTestDB(t)

	templateID, _, _ := seedTemplate(ctx, t, databaseURL)

	templates, err := cat.ActiveTemplates(ctx, "ILC", "ISS")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, templateID, templates[0].ID)
	assert.Equal(t, "ILC Issuance", templates[0].Name)
	assert.Equal(t, []models.TriggerType{models.TriggerManual, models.TriggerClientPortal}, templates[0].TriggerTypes)
	assert.Equal(t, models.TemplateStatusActive, templates[0].Status)
}

func TestActiveTemplates_ExcludesInactive(t *testing.T) {
	cat, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, db.Close())
	}()

	_, err = db.ExecContext(ctx, `
		INSERT INTO workflow_templates (id, name, product_code, event_code, trigger_types, status)
		VALUES ($1, 'Retired ILC Issuance', 'ILC', 'ISS', '{Manual}', 'inactive')
	`, uuid.New().String())
	require.NoError(t, err)

	templates, err := cat.ActiveTemplates(ctx, "ILC", "ISS")
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestStagesByTemplate(t *testing.T) {
	cat, ctx, databaseURL := setupTestDB(t)

	templateID, dataEntryID, limitCheckID := seedTemplate(ctx, t, databaseURL)

	stages, err := cat.StagesByTemplate(ctx, templateID)
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, dataEntryID, stages[0].ID)
	assert.Equal(t, "Data Entry", stages[0].Name)
	assert.Equal(t, limitCheckID, stages[1].ID)
	assert.Equal(t, "Limit Check", stages[1].Name)
}

func TestFieldsByStage(t *testing.T) {
	cat, ctx, databaseURL := setupTestDB(t)

	_, dataEntryID, limitCheckID := seedTemplate(ctx, t, databaseURL)

	fields, err := cat.FieldsByStage(ctx, dataEntryID)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "LC_AMOUNT", fields[0].FieldID)
	assert.Equal(t, "LC Key Info", fields[0].Pane)
	assert.Equal(t, "Amounts", fields[0].Section)
	assert.Equal(t, "APPLICANT", fields[1].FieldID)

	empty, err := cat.FieldsByStage(ctx, limitCheckID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFieldActionsByField(t *testing.T) {
	cat, ctx, databaseURL := setupTestDB(t)

	seedTemplate(ctx, t, databaseURL)

	actions, err := cat.FieldActionsByField(ctx, "TOTAL_AMOUNT")
	require.NoError(t, err)
	require.NotNil(t, actions)
	assert.True(t, actions.IsComputed)
	assert.Equal(t, "LC_AMOUNT + CHARGES", actions.ComputedFormula)
	require.Len(t, actions.Triggers, 1)
	assert.Equal(t, []string{"Usance"}, actions.Triggers[0].WhenValue)
	assert.Equal(t, []string{"TENOR_DAYS"}, actions.Triggers[0].ShowFields)
}

func TestFieldActionsByField_NilWhenUnconfigured(t *testing.T) {
	cat, ctx, _ := setupTestDB(t)

	actions, err := cat.FieldActionsByField(ctx, "UNCONFIGURED")
	require.NoError(t, err)
	assert.Nil(t, actions)
}
