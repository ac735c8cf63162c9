package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate, such as a stock change or
// a method being disabled
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	ShopID() uuid.UUID
}

// BaseDomainEvent implements DomainEvent; concrete events embed it and add
// their payload fields.
type BaseDomainEvent struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggID       uuid.UUID `json:"aggregate_id"`
	AggType     string    `json:"aggregate_type"`
	ShopIDValue uuid.UUID `json:"shop_id"`
}

func NewBaseDomainEvent(eventType, aggType string, aggID, shopID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.New(),
		Type:        eventType,
		Timestamp:   time.Now(),
		AggID:       aggID,
		AggType:     aggType,
		ShopIDValue: shopID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Timestamp }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string  { return e.AggType }
func (e *BaseDomainEvent) ShopID() uuid.UUID      { return e.ShopIDValue }

// EventHandler reacts to published events. A handler with no EventTypes
// sees every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

type EventSubscriber interface {
	// Subscribe falls back to handler.EventTypes() when no types are given
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus delivers events from the application services to their handlers
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
