package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
)

// MethodFilter narrows method queries
type MethodFilter struct {
	shared.Filter
	Kind   MethodKind
	Status MethodStatus
}

// MethodRepository defines the interface for method persistence
type MethodRepository interface {
	// FindByID finds a method and its components within a shop
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*Method, error)

	// FindByIdentifier finds a method by its identifier within a shop and kind
	FindByIdentifier(ctx context.Context, shopID uuid.UUID, kind MethodKind, identifier string) (*Method, error)

	// FindAll finds methods matching the filter
	FindAll(ctx context.Context, shopID uuid.UUID, filter MethodFilter) ([]*Method, error)

	// Count counts methods matching the filter
	Count(ctx context.Context, shopID uuid.UUID, filter MethodFilter) (int64, error)

	// FindEnabled finds every enabled method of a kind
	FindEnabled(ctx context.Context, shopID uuid.UUID, kind MethodKind) ([]*Method, error)

	// Save creates or updates a method and replaces its components
	Save(ctx context.Context, method *Method) error

	// Delete deletes a method and its components
	Delete(ctx context.Context, shopID, id uuid.UUID) error

	// ExistsByIdentifier checks identifier uniqueness within a shop and kind
	ExistsByIdentifier(ctx context.Context, shopID uuid.UUID, kind MethodKind, identifier string) (bool, error)
}

// ProviderRepository defines the interface for service provider persistence
type ProviderRepository interface {
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*ServiceProvider, error)
	FindAll(ctx context.Context, shopID uuid.UUID, kind ProviderKind) ([]*ServiceProvider, error)
	Save(ctx context.Context, provider *ServiceProvider) error
	ExistsByIdentifier(ctx context.Context, shopID uuid.UUID, identifier string) (bool, error)
}

// ProductLimitRepository stores per-product method restrictions
type ProductLimitRepository interface {
	// FindByProducts returns the limits of the given products; products without a row are omitted
	FindByProducts(ctx context.Context, shopID uuid.UUID, productIDs []uuid.UUID) ([]ProductMethodLimit, error)

	// Save replaces the limits of one product
	Save(ctx context.Context, limit ProductMethodLimit) error
}

// PaymentOrderRepository defines the interface for payment order persistence
type PaymentOrderRepository interface {
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*PaymentOrder, error)
	ExistsByReference(ctx context.Context, shopID uuid.UUID, reference string) (bool, error)
	Save(ctx context.Context, order *PaymentOrder) error
}
