package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything with an identity and audit timestamps
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity is embedded by every persisted domain object
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) GetID() uuid.UUID        { return e.ID }
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// Touch records a modification
func (e *BaseEntity) Touch() { e.UpdatedAt = time.Now() }

// AggregateRoot is a consistency boundary. It is saved as a whole, its
// Version guards concurrent writes and the events it raises are published
// after the save succeeds.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

type BaseAggregateRoot struct {
	BaseEntity
	Version int

	stored  int
	pending []DomainEvent
}

// NewBaseAggregateRoot starts a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// StoredVersion is the version storage held when the aggregate was last
// loaded or saved. It is 0 for an aggregate that was never saved.
func (a *BaseAggregateRoot) StoredVersion() int { return a.stored }

// MarkStored records that storage now holds the current version
func (a *BaseAggregateRoot) MarkStored() { a.stored = a.Version }

// IncrementVersion bumps the version on every state change
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// GetDomainEvents returns the events raised since the last publish
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.pending }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.pending = nil }

// ShopAggregateRoot is an aggregate owned by one shop. Repositories never
// read or write it outside that shop.
type ShopAggregateRoot struct {
	BaseAggregateRoot
	ShopID uuid.UUID
}

func NewShopAggregateRoot(shopID uuid.UUID) ShopAggregateRoot {
	return ShopAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), ShopID: shopID}
}

func (s *ShopAggregateRoot) GetShopID() uuid.UUID { return s.ShopID }
