// Package file provides a file-based catalog implementation backed by JSON
// documents, one per workflow template. Documents are validated and loaded
// into memory at construction; reads never touch the disk afterwards.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/tradeflow-io/tradeflow/pkg/catalog"
	"github.com/tradeflow-io/tradeflow/pkg/models"
)

// Catalog implements catalog.Catalog using the file system.
type Catalog struct {
	root string

	templates     []*models.WorkflowTemplate
	stagesByTmpl  map[string][]*models.Stage
	fieldsByStage map[string][]*models.StageField
	actionsByFld  map[string]*models.FieldActions
}

// NewCatalog loads every document under root and returns the in-memory
// catalog. A malformed document fails the whole load so that configuration
// defects surface at startup, not at resolution time.
func NewCatalog(root string) (*Catalog, error) {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	c := &Catalog{
		root:          cleanRoot,
		templates:     make([]*models.WorkflowTemplate, 0),
		stagesByTmpl:  make(map[string][]*models.Stage),
		fieldsByStage: make(map[string][]*models.StageField),
		actionsByFld:  make(map[string]*models.FieldActions),
	}

	if err := c.load(); err != nil {
		return nil, err
	}

	return c, nil
}

// ActiveTemplates returns Active templates matching the product and event
// codes, in document order.
func (c *Catalog) ActiveTemplates(_ context.Context, productCode, eventCode string) ([]*models.WorkflowTemplate, error) {
	matches := make([]*models.WorkflowTemplate, 0)

	for _, tmpl := range c.templates {
		if tmpl.Status == models.TemplateStatusActive &&
			tmpl.ProductCode == productCode && tmpl.EventCode == eventCode {
			matches = append(matches, tmpl)
		}
	}

	return matches, nil
}

// StagesByTemplate returns the template's stages in ascending order value.
func (c *Catalog) StagesByTemplate(_ context.Context, templateID string) ([]*models.Stage, error) {
	stages, ok := c.stagesByTmpl[templateID]
	if !ok {
		return make([]*models.Stage, 0), nil
	}

	out := make([]*models.Stage, len(stages))
	copy(out, stages)

	return out, nil
}

// FieldsByStage returns the stage's field assignments in ascending order value.
func (c *Catalog) FieldsByStage(_ context.Context, stageID string) ([]*models.StageField, error) {
	fields, ok := c.fieldsByStage[stageID]
	if !ok {
		return make([]*models.StageField, 0), nil
	}

	out := make([]*models.StageField, len(fields))
	copy(out, fields)

	return out, nil
}

// FieldActionsByField returns the rule bundle for a field, or nil when the
// field has none configured.
func (c *Catalog) FieldActionsByField(_ context.Context, fieldID string) (*models.FieldActions, error) {
	return c.actionsByFld[fieldID], nil
}

// HealthCheck verifies the root directory still exists.
func (c *Catalog) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(c.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For the file catalog there is
// nothing to clean up.
func (c *Catalog) Close(_ context.Context) error {
	return nil
}

var _ catalog.Catalog = (*Catalog)(nil)
