package supply

import (
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeStockCount = "StockCount"

// Event type constants
const (
	EventTypeStockAdjusted     = "StockAdjusted"
	EventTypeAlertLimitReached = "AlertLimitReached"
)

// StockAdjustedEvent is raised on every manual stock adjustment
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	SupplierID    uuid.UUID       `json:"supplier_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Delta         decimal.Decimal `json:"delta"`
	LogicalCount  decimal.Decimal `json:"logical_count"`
	PhysicalCount decimal.Decimal `json:"physical_count"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(c *StockCount, a *StockAdjustment) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockCount, c.ID, c.ShopID),
		SupplierID:      c.SupplierID,
		ProductID:       c.ProductID,
		Delta:           a.Delta,
		LogicalCount:    c.LogicalCount,
		PhysicalCount:   c.PhysicalCount,
	}
}

// AlertLimitReachedEvent is raised when the logical count falls under the
// alert limit. DispatchedLast24Hours is true when an alert for the same
// count already went out within the throttle window.
type AlertLimitReachedEvent struct {
	shared.BaseDomainEvent
	SupplierID            uuid.UUID       `json:"supplier_id"`
	ProductID             uuid.UUID       `json:"product_id"`
	LogicalCount          decimal.Decimal `json:"logical_count"`
	AlertLimit            decimal.Decimal `json:"alert_limit"`
	DispatchedLast24Hours bool            `json:"dispatched_last_24_hours"`
}

// NewAlertLimitReachedEvent creates a new AlertLimitReachedEvent
func NewAlertLimitReachedEvent(c *StockCount, dispatchedLast24Hours bool) *AlertLimitReachedEvent {
	limit := decimal.Zero
	if c.AlertLimit != nil {
		limit = *c.AlertLimit
	}
	return &AlertLimitReachedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeAlertLimitReached, AggregateTypeStockCount, c.ID, c.ShopID),
		SupplierID:            c.SupplierID,
		ProductID:             c.ProductID,
		LogicalCount:          c.LogicalCount,
		AlertLimit:            limit,
		DispatchedLast24Hours: dispatchedLast24Hours,
	}
}
