package kafka

import (
	"context"
	"encoding/json"
	"time"
)

// Event types published on the catalog events topic
const (
	EventTypeProductCreated  = "product.created"
	EventTypeProductMerged   = "product.merged"
	EventTypeProductUpdated  = "product.updated"
	EventTypeProductDeleted  = "product.deleted"
	EventTypeCategoryCreated = "category.created"
	EventTypeCategoryUpdated = "category.updated"
	EventTypeCategoryDeleted = "category.deleted"
)

// EventTypeProductIngest is consumed from the ingest topic; its payload is a product upsert body
const EventTypeProductIngest = "product.ingest"

// Header keys carried by every message besides the trace context
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// CatalogEvent is the envelope of every message on the events topic
type CatalogEvent struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	AggregateID uint            `json:"aggregate_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// EventPublisher publishes catalog events
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, aggregateID uint, payload interface{}) error
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, uint, interface{}) error {
	return nil
}
