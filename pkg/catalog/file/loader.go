package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/tradeflow-io/tradeflow/pkg/catalog"
	"github.com/tradeflow-io/tradeflow/pkg/models"
)

const (
	templatesDir    = "templates"
	fieldActionsDir = "field-actions"
)

// templateDocument is the on-disk shape of one workflow template with its
// stages and field assignments nested inline.
type templateDocument struct {
	models.WorkflowTemplate

	Stages []stageDocument `json:"stages"`
}

type stageDocument struct {
	ID     string              `json:"id,omitempty"`
	Name   string              `json:"name"`
	Order  int                 `json:"order"`
	Fields []stageFieldDocument `json:"fields"`
}

type stageFieldDocument struct {
	FieldID string `json:"field_id"`
	Pane    string `json:"pane"`
	Section string `json:"section"`
	Order   int    `json:"order"`
}

func (c *Catalog) load() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := c.loadTemplates(validate); err != nil {
		return err
	}

	return c.loadFieldActions(validate)
}

func (c *Catalog) loadTemplates(validate *validator.Validate) error {
	files, err := listDocuments(filepath.Join(c.root, templatesDir))
	if err != nil {
		return catalog.NewError("load", templatesDir, err)
	}

	for _, path := range files {
		doc, err := readTemplateDocument(path)
		if err != nil {
			return err
		}

		if err := validate.Struct(&doc.WorkflowTemplate); err != nil {
			return catalog.NewError("load", path, fmt.Errorf("%w: %w", catalog.ErrInvalidDocument, err))
		}

		c.indexTemplate(doc)
	}

	return nil
}

func (c *Catalog) indexTemplate(doc *templateDocument) {
	tmpl := doc.WorkflowTemplate
	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}

	c.templates = append(c.templates, &tmpl)

	stages := make([]*models.Stage, 0, len(doc.Stages))

	for _, sd := range doc.Stages {
		stage := &models.Stage{
			ID:         sd.ID,
			TemplateID: tmpl.ID,
			Name:       sd.Name,
			Order:      sd.Order,
		}
		if stage.ID == "" {
			stage.ID = uuid.New().String()
		}

		stages = append(stages, stage)

		fields := make([]*models.StageField, 0, len(sd.Fields))
		for _, fd := range sd.Fields {
			fields = append(fields, &models.StageField{
				ID:      uuid.New().String(),
				StageID: stage.ID,
				FieldID: fd.FieldID,
				Pane:    fd.Pane,
				Section: fd.Section,
				Order:   fd.Order,
			})
		}

		sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })
		c.fieldsByStage[stage.ID] = fields
	}

	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Order < stages[j].Order })
	c.stagesByTmpl[tmpl.ID] = stages
}

func (c *Catalog) loadFieldActions(validate *validator.Validate) error {
	files, err := listDocuments(filepath.Join(c.root, fieldActionsDir))
	if err != nil {
		return catalog.NewError("load", fieldActionsDir, err)
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return catalog.NewError("load", path, err)
		}

		if err := validateSchema(fieldActionsSchema, data); err != nil {
			return catalog.NewError("load", path, err)
		}

		var actions models.FieldActions
		if err := json.Unmarshal(data, &actions); err != nil {
			return catalog.NewError("load", path, fmt.Errorf("%w: %w", catalog.ErrInvalidDocument, err))
		}

		if err := actions.Validate(validate); err != nil {
			return catalog.NewError("load", path, fmt.Errorf("%w: %w", catalog.ErrInvalidDocument, err))
		}

		c.actionsByFld[actions.FieldID] = &actions
	}

	return nil
}

func readTemplateDocument(path string) (*templateDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, catalog.NewError("load", path, err)
	}

	if err := validateSchema(templateSchema, data); err != nil {
		return nil, catalog.NewError("load", path, err)
	}

	var doc templateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, catalog.NewError("load", path, fmt.Errorf("%w: %w", catalog.ErrInvalidDocument, err))
	}

	return &doc, nil
}

// listDocuments returns the JSON files under dir sorted by name so that
// catalog order, and therefore first-match ambiguity resolution, is stable
// across loads. A missing directory is an empty catalog, not an error.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	files := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)

	return files, nil
}

func validateSchema(schema string, document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", catalog.ErrInvalidDocument, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("%w: %s", catalog.ErrInvalidDocument, strings.Join(details, "; "))
	}

	return nil
}
