package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProviderRepository implements service.ProviderRepository using GORM
type GormProviderRepository struct {
	db *gorm.DB
}

// NewGormProviderRepository creates a new GormProviderRepository
func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// FindByID finds a provider within a shop
func (r *GormProviderRepository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*service.ServiceProvider, error) {
	var model models.ServiceProviderModel
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

// FindAll lists the providers of a shop; an empty kind lists every kind
func (r *GormProviderRepository) FindAll(ctx context.Context, shopID uuid.UUID, kind service.ProviderKind) ([]*service.ServiceProvider, error) {
	var rows []models.ServiceProviderModel
	query := r.db.WithContext(ctx).Scopes(forShop(shopID))
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	providers := make([]*service.ServiceProvider, len(rows))
	for i := range rows {
		providers[i] = rows[i].ToDomain()
	}
	return providers, nil
}

// Save creates or updates a provider
func (r *GormProviderRepository) Save(ctx context.Context, provider *service.ServiceProvider) error {
	model := &models.ServiceProviderModel{}
	model.FromDomain(provider)
	return r.db.WithContext(ctx).Save(model).Error
}

// ExistsByIdentifier checks identifier uniqueness within a shop
func (r *GormProviderRepository) ExistsByIdentifier(ctx context.Context, shopID uuid.UUID, identifier string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ServiceProviderModel{}).
		Where("shop_id = ? AND identifier = ?", shopID, identifier).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
