// Package stagenav builds the ordered pane sequence a dynamic form walks
// through for a template, restricted to the stages the caller's role may
// access.
package stagenav

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tradeflow-io/tradeflow/pkg/models"
	"github.com/tradeflow-io/tradeflow/pkg/otelhelper"
	"github.com/tradeflow-io/tradeflow/pkg/resolver"
)

// AllStages is the sentinel granting access to every stage of a template.
const AllStages = "__ALL__"

// PaneInstance is one navigable step: a pane as it appears within one stage.
// A pane name recurring in two stages yields two instances with their own
// section allow-lists; consumers must key on Index, not Pane.
type PaneInstance struct {
	Index           int      `json:"index"`
	Pane            string   `json:"pane"`
	StageID         string   `json:"stage_id"`
	StageName       string   `json:"stage_name"`
	StageOrder      int      `json:"stage_order"`
	FirstOfStage    bool     `json:"first_of_stage"`
	LastOfStage     bool     `json:"last_of_stage"`
	FinalStage      bool     `json:"final_stage"`
	AllowedSections []string `json:"allowed_sections"`
}

// Navigator derives pane sequences and section maps from the catalog.
type Navigator struct {
	resolver *resolver.Resolver
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewNavigator(r *resolver.Resolver, logger *slog.Logger) *Navigator {
	return &Navigator{
		resolver: r,
		logger:   logger.With("module", "stagenav"),
		tracer:   otel.Tracer("tradeflow/stagenav"),
	}
}

// BuildPaneSequence returns the ordered pane instances for the template,
// filtered to accessibleStages when the set is non-empty and does not
// contain the AllStages sentinel. Output is fully deterministic: identical
// inputs against an unchanged catalog produce identical sequences,
// including global indices.
func (n *Navigator) BuildPaneSequence(ctx context.Context, templateID string, accessibleStages []string) ([]PaneInstance, error) {
	ctx, span := otelhelper.StartSpan(ctx, n.tracer, "stagenav.BuildPaneSequence",
		attribute.String(otelhelper.TemplateIDKey, templateID),
	)
	defer span.End()

	stages, err := n.resolver.StagesOf(ctx, templateID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	included := filterStages(stages, accessibleStages)
	if len(included) == 0 {
		return []PaneInstance{}, nil
	}

	// Per-stage field fetches have no cross-stage dependency; fan out and
	// reassemble by slice position so completion order never leaks into the
	// output.
	fieldsByStage, err := n.fetchStageFields(ctx, included)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	sequence := make([]PaneInstance, 0)

	for stageIdx, stage := range included {
		panes, sections := panesAndSections(fieldsByStage[stageIdx])
		finalStage := stageIdx == len(included)-1

		for paneIdx, pane := range panes {
			sequence = append(sequence, PaneInstance{
				Index:           len(sequence),
				Pane:            pane,
				StageID:         stage.ID,
				StageName:       stage.Name,
				StageOrder:      stage.Order,
				FirstOfStage:    paneIdx == 0,
				LastOfStage:     paneIdx == len(panes)-1,
				FinalStage:      finalStage,
				AllowedSections: sections[pane],
			})
		}
	}

	span.SetAttributes(attribute.Int("tradeflow.pane.count", len(sequence)))

	return sequence, nil
}

// fetchStageFields loads every included stage's fields concurrently and
// returns them indexed by the stage's position, already in canonical
// intra-stage order.
func (n *Navigator) fetchStageFields(ctx context.Context, stages []*models.Stage) ([][]*models.StageField, error) {
	fieldsByStage := make([][]*models.StageField, len(stages))
	errs := make([]error, len(stages))

	var wg sync.WaitGroup

	for i, stage := range stages {
		wg.Add(1)

		go func(i int, stageID string) {
			defer wg.Done()

			fieldsByStage[i], errs[i] = n.resolver.FieldsOf(ctx, stageID)
		}(i, stage.ID)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			n.logger.WarnContext(ctx, "Stage field fetch failed",
				"stage_id", stages[i].ID, "error", err)

			return nil, err
		}
	}

	return fieldsByStage, nil
}

// panesAndSections derives the stage's distinct pane names in first-seen
// field order, and each pane's distinct section names in the same order.
// First-seen order determines the on-screen step sequence and must never be
// replaced by alphabetical or map iteration order.
func panesAndSections(fields []*models.StageField) ([]string, map[string][]string) {
	panes := make([]string, 0)
	sections := make(map[string][]string)
	seenSection := make(map[string]map[string]bool)

	for _, field := range fields {
		if _, ok := seenSection[field.Pane]; !ok {
			panes = append(panes, field.Pane)
			seenSection[field.Pane] = make(map[string]bool)
		}

		if !seenSection[field.Pane][field.Section] {
			seenSection[field.Pane][field.Section] = true
			sections[field.Pane] = append(sections[field.Pane], field.Section)
		}
	}

	return panes, sections
}

// filterStages restricts stages to the accessible set. An empty set or the
// AllStages sentinel grants access to every stage.
func filterStages(stages []*models.Stage, accessible []string) []*models.Stage {
	if len(accessible) == 0 {
		return stages
	}

	allowed := make(map[string]bool, len(accessible))

	for _, name := range accessible {
		if name == AllStages {
			return stages
		}

		allowed[name] = true
	}

	included := make([]*models.Stage, 0, len(stages))

	for _, stage := range stages {
		if allowed[stage.Name] {
			included = append(included, stage)
		}
	}

	return included
}
