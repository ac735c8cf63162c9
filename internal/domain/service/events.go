package service

import (
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeMethod       = "Method"
	AggregateTypePaymentOrder = "PaymentOrder"
)

// Event type constants
const (
	EventTypeMethodCreated       = "MethodCreated"
	EventTypeMethodStatusChanged = "MethodStatusChanged"
	EventTypePaymentDeferred     = "PaymentDeferred"
)

// MethodCreatedEvent is published when a method is created
type MethodCreatedEvent struct {
	shared.BaseDomainEvent
	MethodID   uuid.UUID  `json:"method_id"`
	Kind       MethodKind `json:"kind"`
	Identifier string     `json:"identifier"`
	Name       string     `json:"name"`
}

// NewMethodCreatedEvent creates a new MethodCreatedEvent
func NewMethodCreatedEvent(m *Method) *MethodCreatedEvent {
	return &MethodCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMethodCreated, AggregateTypeMethod, m.ID, m.ShopID),
		MethodID:        m.ID,
		Kind:            m.Kind,
		Identifier:      m.Identifier,
		Name:            m.Name,
	}
}

// MethodStatusChangedEvent is published when a method is enabled or disabled
type MethodStatusChangedEvent struct {
	shared.BaseDomainEvent
	MethodID  uuid.UUID    `json:"method_id"`
	OldStatus MethodStatus `json:"old_status"`
	NewStatus MethodStatus `json:"new_status"`
}

// NewMethodStatusChangedEvent creates a new MethodStatusChangedEvent
func NewMethodStatusChangedEvent(m *Method, old MethodStatus) *MethodStatusChangedEvent {
	return &MethodStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMethodStatusChanged, AggregateTypeMethod, m.ID, m.ShopID),
		MethodID:        m.ID,
		OldStatus:       old,
		NewStatus:       m.Status,
	}
}

// PaymentDeferredEvent is published when an unpaid order is marked deferred
type PaymentDeferredEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	Reference string    `json:"reference"`
	MethodID  uuid.UUID `json:"method_id"`
}

// NewPaymentDeferredEvent creates a new PaymentDeferredEvent
func NewPaymentDeferredEvent(o *PaymentOrder, m *Method) *PaymentDeferredEvent {
	return &PaymentDeferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentDeferred, AggregateTypePaymentOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		MethodID:        m.ID,
	}
}
