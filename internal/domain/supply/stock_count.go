package supply

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StockCount is the stock of one product at one supplier.
// LogicalCount is what can still be sold; PhysicalCount is what is on the shelf.
type StockCount struct {
	shared.ShopAggregateRoot
	SupplierID    uuid.UUID
	ProductID     uuid.UUID
	LogicalCount  decimal.Decimal
	PhysicalCount decimal.Decimal
	AlertLimit    *decimal.Decimal
	StockValue    valueobject.Money
}

// NewStockCount creates an empty stock count
func NewStockCount(shopID, supplierID, productID uuid.UUID, currency valueobject.Currency) (*StockCount, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &StockCount{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		SupplierID:        supplierID,
		ProductID:         productID,
		LogicalCount:      decimal.Zero,
		PhysicalCount:     decimal.Zero,
		StockValue:        valueobject.Zero(currency),
	}, nil
}

// StockUnitPrice is the stock value per physical unit, zero without stock
func (c *StockCount) StockUnitPrice() valueobject.Money {
	if !c.PhysicalCount.IsPositive() {
		return valueobject.Zero(c.StockValue.Currency())
	}
	unit, err := c.StockValue.Divide(c.PhysicalCount)
	if err != nil {
		return valueobject.Zero(c.StockValue.Currency())
	}
	return unit
}

// AdjustStock moves both counts by delta and books delta*purchasePrice into
// the stock value. A purchase price without currency means the current unit price.
func (c *StockCount) AdjustStock(delta decimal.Decimal, purchasePrice valueobject.Money, createdBy string) (*StockAdjustment, error) {
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment cannot be zero")
	}
	if purchasePrice.Currency() == "" {
		purchasePrice = c.StockUnitPrice()
	}
	if purchasePrice.Currency() != c.StockValue.Currency() {
		return nil, shared.ErrCurrencyMismatch
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}

	value, err := c.StockValue.Add(purchasePrice.Multiply(delta))
	if err != nil {
		return nil, err
	}
	if value.IsNegative() {
		value = valueobject.Zero(value.Currency())
	}

	c.LogicalCount = c.LogicalCount.Add(delta)
	c.PhysicalCount = c.PhysicalCount.Add(delta)
	c.StockValue = value
	c.IncrementVersion()

	adjustment := &StockAdjustment{
		BaseEntity:    shared.NewBaseEntity(),
		ShopID:        c.ShopID,
		SupplierID:    c.SupplierID,
		ProductID:     c.ProductID,
		Delta:         delta,
		PurchasePrice: purchasePrice,
		CreatedBy:     createdBy,
	}
	c.AddDomainEvent(NewStockAdjustedEvent(c, adjustment))
	return adjustment, nil
}

// SetAlertLimit sets or clears the low stock alert threshold
func (c *StockCount) SetAlertLimit(limit *decimal.Decimal) error {
	if limit != nil && limit.IsNegative() {
		return shared.NewDomainError("INVALID_ALERT_LIMIT", "Alert limit cannot be negative")
	}
	c.AlertLimit = limit
	c.IncrementVersion()
	return nil
}

// OrderPlaced reserves quantity from the logical count
func (c *StockCount) OrderPlaced(quantity decimal.Decimal) error {
	if err := requirePositive(quantity); err != nil {
		return err
	}
	c.LogicalCount = c.LogicalCount.Sub(quantity)
	c.IncrementVersion()
	return nil
}

// OrderCanceled returns reserved quantity to the logical count
func (c *StockCount) OrderCanceled(quantity decimal.Decimal) error {
	if err := requirePositive(quantity); err != nil {
		return err
	}
	c.LogicalCount = c.LogicalCount.Add(quantity)
	c.IncrementVersion()
	return nil
}

// OrderShipped removes shipped quantity from the shelf and its value from stock
func (c *StockCount) OrderShipped(quantity decimal.Decimal) error {
	if err := requirePositive(quantity); err != nil {
		return err
	}
	shippedValue := c.StockUnitPrice().Multiply(quantity)
	value, err := c.StockValue.Subtract(shippedValue)
	if err != nil {
		return err
	}
	if value.IsNegative() {
		value = valueobject.Zero(value.Currency())
	}
	c.PhysicalCount = c.PhysicalCount.Sub(quantity)
	c.StockValue = value
	c.IncrementVersion()
	return nil
}

// BelowAlertLimit reports whether the logical count dropped under the alert limit
func (c *StockCount) BelowAlertLimit() bool {
	return c.AlertLimit != nil && c.LogicalCount.LessThan(*c.AlertLimit)
}

// AlertKey identifies the count in the alert throttle store
func (c *StockCount) AlertKey() string {
	return "stock_alert:" + c.SupplierID.String() + ":" + c.ProductID.String()
}

func requirePositive(q decimal.Decimal) error {
	if !q.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}

// StockAdjustment records one manual stock change
type StockAdjustment struct {
	shared.BaseEntity
	ShopID        uuid.UUID
	SupplierID    uuid.UUID
	ProductID     uuid.UUID
	Delta         decimal.Decimal
	PurchasePrice valueobject.Money
	CreatedBy     string
}

// StockStatus is a read-only snapshot of a stock count
type StockStatus struct {
	SupplierID     uuid.UUID         `json:"supplier_id"`
	ProductID      uuid.UUID         `json:"product_id"`
	LogicalCount   decimal.Decimal   `json:"logical_count"`
	PhysicalCount  decimal.Decimal   `json:"physical_count"`
	AlertLimit     *decimal.Decimal  `json:"alert_limit,omitempty"`
	StockValue     valueobject.Money `json:"stock_value"`
	StockUnitPrice valueobject.Money `json:"stock_unit_price"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Status snapshots the count
func (c *StockCount) Status() StockStatus {
	return StockStatus{
		SupplierID:     c.SupplierID,
		ProductID:      c.ProductID,
		LogicalCount:   c.LogicalCount,
		PhysicalCount:  c.PhysicalCount,
		AlertLimit:     c.AlertLimit,
		StockValue:     c.StockValue,
		StockUnitPrice: c.StockUnitPrice(),
		UpdatedAt:      c.UpdatedAt,
	}
}
