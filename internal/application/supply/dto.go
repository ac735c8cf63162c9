package supply

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopspring/decimal"
)

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Identifier   string `json:"identifier" binding:"required,min=1,max=64"`
	Name         string `json:"name" binding:"required,min=1,max=128"`
	StockManaged bool   `json:"stock_managed"`
}

// UpdateSupplierRequest toggles stock management
type UpdateSupplierRequest struct {
	StockManaged *bool `json:"stock_managed" binding:"required"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID           uuid.UUID `json:"id"`
	Identifier   string    `json:"identifier"`
	Name         string    `json:"name"`
	StockManaged bool      `json:"stock_managed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdjustStockRequest changes the stock of a product. Without a purchase
// price the current stock unit price is used.
type AdjustStockRequest struct {
	Delta         decimal.Decimal  `json:"delta" binding:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	CreatedBy     string           `json:"created_by" binding:"max=100"`
}

// SetAlertLimitRequest sets or clears the low stock alert limit
type SetAlertLimitRequest struct {
	AlertLimit *decimal.Decimal `json:"alert_limit"`
}

// OrderStockRequest reports an order event for one product
type OrderStockRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// OrderabilityRequest asks whether a quantity can be ordered
type OrderabilityRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	ShippingMode string          `json:"shipping_mode" binding:"omitempty,oneof=shipped not_shipped"`
}

// OrderabilityResponse lists why an order cannot be filled
type OrderabilityResponse struct {
	Orderable bool                      `json:"orderable"`
	Errors    strategy.ValidationErrors `json:"errors"`
}

// StockStatusesRequest asks for the stock of several products
type StockStatusesRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids" binding:"required,min=1,max=500"`
}

// StockStatusResponse is the stock of one product at a supplier
type StockStatusResponse struct {
	SupplierID      uuid.UUID         `json:"supplier_id"`
	ProductID       uuid.UUID         `json:"product_id"`
	LogicalCount    decimal.Decimal   `json:"logical_count"`
	PhysicalCount   decimal.Decimal   `json:"physical_count"`
	AlertLimit      *decimal.Decimal  `json:"alert_limit,omitempty"`
	BelowAlertLimit bool              `json:"below_alert_limit"`
	StockValue      valueobject.Money `json:"stock_value"`
	StockUnitPrice  valueobject.Money `json:"stock_unit_price"`
	UpdatedAt       *time.Time        `json:"updated_at,omitempty"`
}

// StockAdjustmentResponse is one recorded adjustment
type StockAdjustmentResponse struct {
	ID            uuid.UUID         `json:"id"`
	Delta         decimal.Decimal   `json:"delta"`
	PurchasePrice valueobject.Money `json:"purchase_price"`
	CreatedBy     string            `json:"created_by,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ToSupplierResponse converts a domain supplier
func ToSupplierResponse(s *supply.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:           s.ID,
		Identifier:   s.Identifier,
		Name:         s.Name,
		StockManaged: s.StockManaged,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToStockStatusResponse converts a stock snapshot
func ToStockStatusResponse(s supply.StockStatus) *StockStatusResponse {
	resp := &StockStatusResponse{
		SupplierID:      s.SupplierID,
		ProductID:       s.ProductID,
		LogicalCount:    s.LogicalCount,
		PhysicalCount:   s.PhysicalCount,
		AlertLimit:      s.AlertLimit,
		BelowAlertLimit: s.AlertLimit != nil && s.LogicalCount.LessThan(*s.AlertLimit),
		StockValue:      s.StockValue,
		StockUnitPrice:  s.StockUnitPrice,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// ToStockAdjustmentResponse converts a recorded adjustment
func ToStockAdjustmentResponse(a supply.StockAdjustment) StockAdjustmentResponse {
	return StockAdjustmentResponse{
		ID:            a.ID,
		Delta:         a.Delta,
		PurchasePrice: a.PurchasePrice,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
	}
}

// emptyStatus is the stock of a product that was never counted
func emptyStatus(supplierID, productID uuid.UUID, currency valueobject.Currency) supply.StockStatus {
	return supply.StockStatus{
		SupplierID:     supplierID,
		ProductID:      productID,
		LogicalCount:   decimal.Zero,
		PhysicalCount:  decimal.Zero,
		StockValue:     valueobject.Zero(currency),
		StockUnitPrice: valueobject.Zero(currency),
	}
}
