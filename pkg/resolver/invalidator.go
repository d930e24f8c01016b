package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tradeflow-io/tradeflow/pkg/eventbus"
	"github.com/tradeflow-io/tradeflow/pkg/events"
)

// CacheInvalidator drops the resolver's template cache whenever the
// configuration tooling announces a catalog change. Eventual consistency is
// sufficient here; a stale read racing the clear resolves itself on the next
// change event.
type CacheInvalidator struct {
	resolver *Resolver
	logger   *slog.Logger
}

func NewCacheInvalidator(r *Resolver, logger *slog.Logger) *CacheInvalidator {
	return &CacheInvalidator{
		resolver: r,
		logger:   logger.With("module", "cache_invalidator"),
	}
}

// Register wires the invalidator onto the event bus. Call before the bus
// starts consuming.
func (ci *CacheInvalidator) Register(bus eventbus.EventBus) error {
	err := bus.Handle(events.CatalogChangedEvent, func(ctx context.Context, event any) error {
		changed, ok := event.(*events.CatalogChanged)
		if !ok {
			return fmt.Errorf("unexpected event payload %T", event)
		}

		ci.logger.InfoContext(ctx, "Catalog changed, clearing template cache",
			"template_id", changed.TemplateID,
			"product_code", changed.ProductCode,
			"event_code", changed.EventCode)

		ci.resolver.Invalidate(ctx)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to register catalog change handler: %w", err)
	}

	return nil
}
