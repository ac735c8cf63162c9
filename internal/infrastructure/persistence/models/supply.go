package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopspring/decimal"
)

// SupplierModel is the persistence model for the Supplier aggregate root
type SupplierModel struct {
	ShopAggregateModel
	Identifier   string `gorm:"type:varchar(64);not null"`
	Name         string `gorm:"type:varchar(128);not null"`
	StockManaged bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *supply.Supplier {
	s := &supply.Supplier{
		Identifier:   m.Identifier,
		Name:         m.Name,
		StockManaged: m.StockManaged,
	}
	m.toRoot(&s.ShopAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Supplier
func (m *SupplierModel) FromDomain(s *supply.Supplier) {
	m.fromRoot(s.ShopAggregateRoot)
	m.Identifier = s.Identifier
	m.Name = s.Name
	m.StockManaged = s.StockManaged
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier
func SupplierModelFromDomain(s *supply.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}

// StockCountModel is the persistence model for the StockCount aggregate root.
// There is at most one row per supplier and product.
type StockCountModel struct {
	ShopAggregateModel
	SupplierID       uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_stock_count_supplier_product,priority:1"`
	ProductID        uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_stock_count_supplier_product,priority:2"`
	LogicalCount     decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	PhysicalCount    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	AlertLimit       *decimal.Decimal     `gorm:"type:decimal(18,4)"`
	StockValueAmount decimal.Decimal      `gorm:"column:stock_value;type:decimal(18,4);not null;default:0"`
	Currency         valueobject.Currency `gorm:"type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (StockCountModel) TableName() string {
	return "stock_counts"
}

// ToDomain converts the persistence model to a domain StockCount
func (m *StockCountModel) ToDomain() *supply.StockCount {
	c := &supply.StockCount{
		SupplierID:    m.SupplierID,
		ProductID:     m.ProductID,
		LogicalCount:  m.LogicalCount,
		PhysicalCount: m.PhysicalCount,
		AlertLimit:    m.AlertLimit,
		StockValue:    valueobject.MoneyOf(m.StockValueAmount, m.Currency),
	}
	m.toRoot(&c.ShopAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain StockCount
func (m *StockCountModel) FromDomain(c *supply.StockCount) {
	m.fromRoot(c.ShopAggregateRoot)
	m.SupplierID = c.SupplierID
	m.ProductID = c.ProductID
	m.LogicalCount = c.LogicalCount
	m.PhysicalCount = c.PhysicalCount
	m.AlertLimit = c.AlertLimit
	m.StockValueAmount = c.StockValue.Amount()
	m.Currency = c.StockValue.Currency()
}

// StockCountModelFromDomain creates a new persistence model from a domain StockCount
func StockCountModelFromDomain(c *supply.StockCount) *StockCountModel {
	m := &StockCountModel{}
	m.FromDomain(c)
	return m
}

// StockAdjustmentModel records one manual stock change. Rows are never updated.
type StockAdjustmentModel struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key"`
	ShopID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	SupplierID    uuid.UUID            `gorm:"type:uuid;not null;index:idx_stock_adjustment_supplier_product,priority:1"`
	ProductID     uuid.UUID            `gorm:"type:uuid;not null;index:idx_stock_adjustment_supplier_product,priority:2"`
	Delta         decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	PurchasePrice decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null"`
	CreatedBy     string               `gorm:"type:varchar(100)"`
	CreatedAt     time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockAdjustmentModel) TableName() string {
	return "stock_adjustments"
}

// ToDomain converts the persistence model to a domain StockAdjustment
func (m *StockAdjustmentModel) ToDomain() supply.StockAdjustment {
	return supply.StockAdjustment{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.CreatedAt,
		},
		ShopID:        m.ShopID,
		SupplierID:    m.SupplierID,
		ProductID:     m.ProductID,
		Delta:         m.Delta,
		PurchasePrice: valueobject.MoneyOf(m.PurchasePrice, m.Currency),
		CreatedBy:     m.CreatedBy,
	}
}

// StockAdjustmentModelFromDomain creates a persistence model from a domain StockAdjustment
func StockAdjustmentModelFromDomain(a *supply.StockAdjustment) *StockAdjustmentModel {
	return &StockAdjustmentModel{
		ID:            a.ID,
		ShopID:        a.ShopID,
		SupplierID:    a.SupplierID,
		ProductID:     a.ProductID,
		Delta:         a.Delta,
		PurchasePrice: a.PurchasePrice.Amount(),
		Currency:      a.PurchasePrice.Currency(),
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
	}
}
