package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
)

// BaseModel is the key and timestamps every table carries
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ShopAggregateModel adds the owning shop and the optimistic lock version of
// a shop aggregate
type ShopAggregateModel struct {
	BaseModel
	Version int       `gorm:"not null;default:1"`
	ShopID  uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (m *ShopAggregateModel) fromRoot(root shared.ShopAggregateRoot) {
	m.ID = root.ID
	m.CreatedAt = root.CreatedAt
	m.UpdatedAt = root.UpdatedAt
	m.Version = root.Version
	m.ShopID = root.ShopID
}

// toRoot fills the persisted fields of root. Pending events are not stored
// and stay untouched.
func (m *ShopAggregateModel) toRoot(root *shared.ShopAggregateRoot) {
	root.ID = m.ID
	root.CreatedAt = m.CreatedAt
	root.UpdatedAt = m.UpdatedAt
	root.Version = m.Version
	root.ShopID = m.ShopID
	root.MarkStored()
}
