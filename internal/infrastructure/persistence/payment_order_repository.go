package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentOrderRepository implements service.PaymentOrderRepository using GORM
type GormPaymentOrderRepository struct {
	db *gorm.DB
}

// NewGormPaymentOrderRepository creates a new GormPaymentOrderRepository
func NewGormPaymentOrderRepository(db *gorm.DB) *GormPaymentOrderRepository {
	return &GormPaymentOrderRepository{db: db}
}

// FindByID finds a payment order and its log within a shop
func (r *GormPaymentOrderRepository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*service.PaymentOrder, error) {
	var model models.PaymentOrderModel
	if err := r.db.WithContext(ctx).
		Preload("LogEntries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByReference checks reference uniqueness within a shop
func (r *GormPaymentOrderRepository) ExistsByReference(ctx context.Context, shopID uuid.UUID, reference string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentOrderModel{}).
		Where("shop_id = ? AND reference = ?", shopID, reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an order. The log is append-only, so entries are rewritten as a whole.
func (r *GormPaymentOrderRepository) Save(ctx context.Context, order *service.PaymentOrder) error {
	model := models.PaymentOrderModelFromDomain(order)
	entries := model.LogEntries
	model.LogEntries = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLogEntryModel{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}
