package event

import (
	"fmt"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/supply"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Codec encodes domain events as JSON. Decoding needs a constructor
// registered for the event type.
type Codec struct {
	mu   sync.RWMutex
	news map[string]func() shared.DomainEvent
}

func NewCodec() *Codec {
	return &Codec{news: make(map[string]func() shared.DomainEvent)}
}

// NewDomainCodec returns a codec that knows every event the domain raises
func NewDomainCodec() *Codec {
	c := NewCodec()
	c.Register(service.EventTypeMethodCreated, func() shared.DomainEvent { return new(service.MethodCreatedEvent) })
	c.Register(service.EventTypeMethodStatusChanged, func() shared.DomainEvent { return new(service.MethodStatusChangedEvent) })
	c.Register(service.EventTypePaymentDeferred, func() shared.DomainEvent { return new(service.PaymentDeferredEvent) })
	c.Register(supply.EventTypeStockAdjusted, func() shared.DomainEvent { return new(supply.StockAdjustedEvent) })
	c.Register(supply.EventTypeAlertLimitReached, func() shared.DomainEvent { return new(supply.AlertLimitReachedEvent) })
	return c
}

// Register binds eventType to a constructor of an empty event to decode into.
// Registering a type again replaces its constructor.
func (c *Codec) Register(eventType string, newEvent func() shared.DomainEvent) {
	c.mu.Lock()
	c.news[eventType] = newEvent
	c.mu.Unlock()
}

func (c *Codec) Encode(event shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event.EventType(), err)
	}
	return data, nil
}

func (c *Codec) Decode(eventType string, data []byte) (shared.DomainEvent, error) {
	c.mu.RLock()
	newEvent, ok := c.news[eventType]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}

	event := newEvent()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventType, err)
	}
	return event, nil
}

// Types lists the registered event types, sorted
func (c *Codec) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make([]string, 0, len(c.news))
	for t := range c.news {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
