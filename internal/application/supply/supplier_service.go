package supply

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SupplierService manages suppliers
type SupplierService struct {
	supplierRepo supply.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo supply.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create creates a supplier
func (s *SupplierService) Create(ctx context.Context, shopID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByIdentifier(ctx, shopID, req.Identifier)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Supplier with identifier %q already exists", req.Identifier))
	}

	supplier, err := supply.NewSupplier(shopID, req.Identifier, req.Name, req.StockManaged)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.Bool("stock_managed", supplier.StockManaged),
	)
	return ToSupplierResponse(supplier), nil
}

// GetByID retrieves a supplier
func (s *SupplierService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}

// List lists the suppliers of a shop
func (s *SupplierService) List(ctx context.Context, shopID uuid.UUID) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx, shopID)
	if err != nil {
		return nil, err
	}
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = *ToSupplierResponse(&suppliers[i])
	}
	return responses, nil
}

// Update toggles stock management of a supplier
func (s *SupplierService) Update(ctx context.Context, shopID, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if req.StockManaged != nil {
		supplier.SetStockManaged(*req.StockManaged)
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}
