package supply

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
)

// ShippingMode tells whether a product is physically shipped
type ShippingMode string

const (
	ShippingModeShipped    ShippingMode = "shipped"
	ShippingModeNotShipped ShippingMode = "not_shipped"
)

// IsValid returns true if the mode is known
func (m ShippingMode) IsValid() bool {
	return m == ShippingModeShipped || m == ShippingModeNotShipped
}

// Supplier delivers products to a shop. Stock-managed suppliers track
// counts and refuse orders beyond their logical stock.
type Supplier struct {
	shared.ShopAggregateRoot
	Identifier   string
	Name         string
	StockManaged bool
}

// NewSupplier creates a supplier
func NewSupplier(shopID uuid.UUID, identifier, name string, stockManaged bool) (*Supplier, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, shared.NewDomainError("INVALID_IDENTIFIER", "Identifier cannot be empty")
	}
	if len(identifier) > 64 {
		return nil, shared.NewDomainError("INVALID_IDENTIFIER", "Identifier cannot exceed 64 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 128 {
		return nil, shared.NewDomainError("INVALID_NAME", fmt.Sprintf("Supplier name cannot exceed %d characters", 128))
	}
	return &Supplier{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Identifier:        identifier,
		Name:              name,
		StockManaged:      stockManaged,
	}, nil
}

// SetStockManaged toggles stock management
func (s *Supplier) SetStockManaged(managed bool) {
	if s.StockManaged == managed {
		return
	}
	s.StockManaged = managed
	s.IncrementVersion()
}
