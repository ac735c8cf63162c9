package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductLimitRepository implements service.ProductLimitRepository using GORM
type GormProductLimitRepository struct {
	db *gorm.DB
}

// NewGormProductLimitRepository creates a new GormProductLimitRepository
func NewGormProductLimitRepository(db *gorm.DB) *GormProductLimitRepository {
	return &GormProductLimitRepository{db: db}
}

// FindByProducts returns the limits of the given products. Products without a row are omitted.
func (r *GormProductLimitRepository) FindByProducts(ctx context.Context, shopID uuid.UUID, productIDs []uuid.UUID) ([]service.ProductMethodLimit, error) {
	if len(productIDs) == 0 {
		return []service.ProductMethodLimit{}, nil
	}

	var rows []models.ProductMethodLimitModel
	if err := r.db.WithContext(ctx).
		Preload("Links").
		Where("shop_id = ? AND product_id IN ?", shopID, productIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	limits := make([]service.ProductMethodLimit, len(rows))
	for i := range rows {
		limits[i] = rows[i].ToDomain()
	}
	return limits, nil
}

// Save replaces the limits and links of one product
func (r *GormProductLimitRepository) Save(ctx context.Context, limit service.ProductMethodLimit) error {
	model := models.ProductMethodLimitModelFromDomain(limit)
	links := model.Links
	model.Links = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"shop_id", "limit_shipping_methods", "limit_payment_methods", "updated_at"}),
		}).Create(model).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", limit.ProductID).Delete(&models.ProductMethodLinkModel{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}
