// Package resolver selects the active workflow template for a
// (product, event, trigger) combination and exposes ordered stage and field
// accessors over the catalog.
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tradeflow-io/tradeflow/pkg/catalog"
	"github.com/tradeflow-io/tradeflow/pkg/models"
	"github.com/tradeflow-io/tradeflow/pkg/otelhelper"
)

// Resolver answers template lookups with positive and negative caching.
// Catalog faults collapse to not-found at this boundary so callers have a
// single fallback path.
type Resolver struct {
	catalog catalog.Catalog
	cache   TemplateCache
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewResolver creates a resolver over the given catalog. A nil cache gets a
// private in-memory one.
func NewResolver(cat catalog.Catalog, cache TemplateCache, logger *slog.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}

	return &Resolver{
		catalog: cat,
		cache:   cache,
		logger:  logger.With("module", "resolver"),
		tracer:  otel.Tracer("tradeflow/resolver"),
	}
}

// Resolve returns the unique Active template matching the triple, or nil
// when none is configured. More than one match is a configuration defect:
// the first catalog-ordered match wins and a warning is logged. Both
// outcomes are cached until Invalidate.
func (r *Resolver) Resolve(ctx context.Context, productCode, eventCode string, trigger models.TriggerType) *models.WorkflowTemplate {
	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "resolver.Resolve",
		attribute.String(otelhelper.ProductCodeKey, productCode),
		attribute.String(otelhelper.EventCodeKey, eventCode),
		attribute.String(otelhelper.TriggerTypeKey, string(trigger)),
	)
	defer span.End()

	key := cacheKey(productCode, eventCode, trigger)

	if res, ok := r.cache.Get(ctx, key); ok {
		span.SetAttributes(attribute.Bool("tradeflow.cache.hit", true))

		return res.Template
	}

	candidates, err := r.catalog.ActiveTemplates(ctx, productCode, eventCode)
	if err != nil {
		// Read faults degrade to not-found; the consuming UI only needs a
		// "could not determine" answer, never a hard failure.
		otelhelper.SetError(span, err)
		r.logger.WarnContext(ctx, "Catalog read failed, treating as not found",
			"product_code", productCode, "event_code", eventCode, "error", err)

		return nil
	}

	matches := make([]*models.WorkflowTemplate, 0, len(candidates))

	for _, tmpl := range candidates {
		if tmpl.Matches(productCode, eventCode, trigger) {
			matches = append(matches, tmpl)
		}
	}

	var resolved *models.WorkflowTemplate

	switch {
	case len(matches) == 0:
		resolved = nil
	case len(matches) > 1:
		r.logger.WarnContext(ctx, "Ambiguous template configuration, using first match",
			"product_code", productCode, "event_code", eventCode,
			"trigger_type", trigger, "matches", len(matches))

		resolved = matches[0]
	default:
		resolved = matches[0]
	}

	r.cache.Set(ctx, key, &Resolution{Template: resolved})

	return resolved
}

// StagesOf returns the template's stages in strictly increasing order value.
// Duplicate order values leave the pipeline sequence undefined and are
// reported as a configuration error.
func (r *Resolver) StagesOf(ctx context.Context, templateID string) ([]*models.Stage, error) {
	stages, err := r.catalog.StagesByTemplate(ctx, templateID)
	if err != nil {
		return nil, catalog.NewError("StagesOf", templateID, err)
	}

	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Order < stages[j].Order })

	for i := 1; i < len(stages); i++ {
		if stages[i].Order == stages[i-1].Order {
			return nil, catalog.NewError("StagesOf", templateID, catalog.ErrDuplicateStageOrder)
		}
	}

	return stages, nil
}

// FieldsOf returns the stage's field assignments in ascending in-stage order.
func (r *Resolver) FieldsOf(ctx context.Context, stageID string) ([]*models.StageField, error) {
	fields, err := r.catalog.FieldsByStage(ctx, stageID)
	if err != nil {
		return nil, catalog.NewError("FieldsOf", stageID, err)
	}

	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })

	return fields, nil
}

// FieldActionsOf returns the rule bundle for a field identifier, or nil when
// the field has no configured actions.
func (r *Resolver) FieldActionsOf(ctx context.Context, fieldID string) (*models.FieldActions, error) {
	actions, err := r.catalog.FieldActionsByField(ctx, fieldID)
	if err != nil {
		return nil, catalog.NewError("FieldActionsOf", fieldID, err)
	}

	return actions, nil
}

// Invalidate atomically clears the template cache. The next Resolve re-reads
// the catalog. Stale reads racing a clear are acceptable; configuration
// changes are rare and not safety-critical.
func (r *Resolver) Invalidate(ctx context.Context) {
	r.cache.Clear(ctx)
	r.logger.InfoContext(ctx, "Template cache invalidated")
}

// HealthCheck reports catalog connectivity.
func (r *Resolver) HealthCheck(ctx context.Context) (string, bool) {
	if err := r.catalog.HealthCheck(ctx); err != nil {
		return "Catalog is unhealthy: " + err.Error(), false
	}

	return "Catalog is healthy", true
}

func cacheKey(productCode, eventCode string, trigger models.TriggerType) string {
	return strings.Join([]string{productCode, eventCode, string(trigger)}, "|")
}
