package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSupplierRepository implements supply.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by ID within a shop
func (r *GormSupplierRepository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*supply.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists the suppliers of a shop ordered by name
func (r *GormSupplierRepository) FindAll(ctx context.Context, shopID uuid.UUID) ([]supply.Supplier, error) {
	var rows []models.SupplierModel
	if err := r.db.WithContext(ctx).
		Scopes(forShop(shopID)).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	suppliers := make([]supply.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *supply.Supplier) error {
	return r.db.WithContext(ctx).Save(models.SupplierModelFromDomain(supplier)).Error
}

// ExistsByIdentifier checks if a supplier with the given identifier exists in the shop
func (r *GormSupplierRepository) ExistsByIdentifier(ctx context.Context, shopID uuid.UUID, identifier string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SupplierModel{}).
		Where("shop_id = ? AND identifier = ?", shopID, strings.TrimSpace(identifier)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
