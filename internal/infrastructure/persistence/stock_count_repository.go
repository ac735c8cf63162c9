package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockCountRepository implements supply.StockCountRepository using GORM
type GormStockCountRepository struct {
	db *gorm.DB
}

// NewGormStockCountRepository creates a new GormStockCountRepository
func NewGormStockCountRepository(db *gorm.DB) *GormStockCountRepository {
	return &GormStockCountRepository{db: db}
}

// FindByProduct finds the stock count of a product at a supplier
func (r *GormStockCountRepository) FindByProduct(ctx context.Context, shopID, supplierID, productID uuid.UUID) (*supply.StockCount, error) {
	var model models.StockCountModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND supplier_id = ? AND product_id = ?", shopID, supplierID, productID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists the count and, when given, the adjustment that produced it.
// It fails with shared.ErrConcurrencyConflict when another writer saved the
// count after it was loaded.
func (r *GormStockCountRepository) Save(ctx context.Context, count *supply.StockCount, adjustment *supply.StockAdjustment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, models.StockCountModelFromDomain(count), count.StoredVersion()); err != nil {
			return err
		}
		if adjustment == nil {
			return nil
		}
		return tx.Create(models.StockAdjustmentModelFromDomain(adjustment)).Error
	})
	if err != nil {
		return err
	}
	count.MarkStored()
	return nil
}

// FindAdjustments returns the newest adjustments first, at most limit of them
func (r *GormStockCountRepository) FindAdjustments(ctx context.Context, shopID, supplierID, productID uuid.UUID, limit int) ([]supply.StockAdjustment, error) {
	var rows []models.StockAdjustmentModel
	query := r.db.WithContext(ctx).
		Where("shop_id = ? AND supplier_id = ? AND product_id = ?", shopID, supplierID, productID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	adjustments := make([]supply.StockAdjustment, len(rows))
	for i := range rows {
		adjustments[i] = rows[i].ToDomain()
	}
	return adjustments, nil
}
