package supply

import (
	"context"

	"github.com/google/uuid"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, shopID uuid.UUID) ([]Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
	ExistsByIdentifier(ctx context.Context, shopID uuid.UUID, identifier string) (bool, error)
}

// StockCountRepository defines the interface for stock count persistence
type StockCountRepository interface {
	// FindByProduct returns shared.ErrNotFound when the product has no count yet
	FindByProduct(ctx context.Context, shopID, supplierID, productID uuid.UUID) (*StockCount, error)
	// Save persists the count together with an optional adjustment in one transaction
	Save(ctx context.Context, count *StockCount, adjustment *StockAdjustment) error
	// FindAdjustments lists the most recent adjustments first
	FindAdjustments(ctx context.Context, shopID, supplierID, productID uuid.UUID, limit int) ([]StockAdjustment, error)
}

// StockStatusReader answers bulk stock queries without loading aggregates
type StockStatusReader interface {
	StockStatuses(ctx context.Context, shopID, supplierID uuid.UUID, productIDs []uuid.UUID) ([]StockStatus, error)
}
