// Package events defines the catalog lifecycle events exchanged between the
// configuration tooling and running engine instances.
package events

import "time"

const (
	// Topic is the single topic carrying catalog lifecycle events.
	Topic = "tradeflow.catalog"

	// EventMetadataKey carries the routing key on the message envelope.
	EventMetadataKey = "event_key"

	// EventTypeMetadataKey carries the event type on the message envelope.
	EventTypeMetadataKey = "event_type"
)

// EventType discriminates catalog event payloads.
type EventType string

const (
	CatalogChangedEvent EventType = "catalog.changed"
)

// CatalogChanged announces that configuration tooling created, edited, or
// deactivated a template. Engine instances react by dropping their template
// caches; the next resolution re-reads the catalog.
type CatalogChanged struct {
	TemplateID  string    `json:"template_id,omitempty"`
	ProductCode string    `json:"product_code,omitempty"`
	EventCode   string    `json:"event_code,omitempty"`
	ChangedAt   time.Time `json:"changed_at"`
}

func (e CatalogChanged) GetType() EventType {
	return CatalogChangedEvent
}
