package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ComponentCodec turns behavior components into stored kind/config pairs and back
type ComponentCodec interface {
	Build(kind string, config []byte) (service.BehaviorComponent, error)
	Encode(c service.BehaviorComponent) (string, []byte, error)
}

// GormMethodRepository implements service.MethodRepository using GORM
type GormMethodRepository struct {
	db    *gorm.DB
	codec ComponentCodec
}

// NewGormMethodRepository creates a new GormMethodRepository
func NewGormMethodRepository(db *gorm.DB, codec ComponentCodec) *GormMethodRepository {
	return &GormMethodRepository{db: db, codec: codec}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormMethodRepository) WithTx(tx *gorm.DB) *GormMethodRepository {
	return &GormMethodRepository{db: tx, codec: r.codec}
}

// FindByID finds a method and its components within a shop
func (r *GormMethodRepository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*service.Method, error) {
	var model models.MethodModel
	if err := r.preloaded(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(ctx, &model)
}

// FindByIdentifier finds a method by its identifier within a shop and kind
func (r *GormMethodRepository) FindByIdentifier(ctx context.Context, shopID uuid.UUID, kind service.MethodKind, identifier string) (*service.Method, error) {
	var model models.MethodModel
	if err := r.preloaded(ctx).
		Where("shop_id = ? AND kind = ? AND identifier = ?", shopID, kind, strings.TrimSpace(identifier)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(ctx, &model)
}

// FindAll finds methods matching the filter
func (r *GormMethodRepository) FindAll(ctx context.Context, shopID uuid.UUID, filter service.MethodFilter) ([]*service.Method, error) {
	var rows []models.MethodModel
	query := r.applyFilter(r.preloaded(ctx).Scopes(forShop(shopID)), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.toDomainList(ctx, rows)
}

// Count counts methods matching the filter
func (r *GormMethodRepository) Count(ctx context.Context, shopID uuid.UUID, filter service.MethodFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.MethodModel{}).Scopes(forShop(shopID)),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindEnabled finds every enabled method of a kind, ordered by name
func (r *GormMethodRepository) FindEnabled(ctx context.Context, shopID uuid.UUID, kind service.MethodKind) ([]*service.Method, error) {
	var rows []models.MethodModel
	if err := r.preloaded(ctx).
		Where("shop_id = ? AND kind = ? AND status = ?", shopID, kind, service.MethodStatusEnabled).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.toDomainList(ctx, rows)
}

// Save creates or updates a method and replaces its components in one
// transaction. A method changed by another writer since it was loaded is
// rejected with shared.ErrConcurrencyConflict.
func (r *GormMethodRepository) Save(ctx context.Context, method *service.Method) error {
	model := &models.MethodModel{}
	model.FromDomain(method)

	components := make([]models.BehaviorComponentModel, 0, len(method.Components))
	for i, c := range method.Components {
		kind, config, err := r.codec.Encode(c)
		if err != nil {
			return fmt.Errorf("encode component %d of method %s: %w", i, method.Identifier, err)
		}
		components = append(components, models.BehaviorComponentModel{
			BaseModel: models.BaseModel{
				ID:        uuid.New(),
				CreatedAt: method.UpdatedAt,
				UpdatedAt: method.UpdatedAt,
			},
			MethodID: method.ID,
			Position: i,
			Kind:     kind,
			Config:   string(config),
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, model, method.StoredVersion()); err != nil {
			return err
		}
		if err := tx.Where("method_id = ?", method.ID).Delete(&models.BehaviorComponentModel{}).Error; err != nil {
			return err
		}
		if len(components) == 0 {
			return nil
		}
		return tx.Create(&components).Error
	})
	if err != nil {
		return err
	}
	method.MarkStored()
	return nil
}

// Delete deletes a method and its components
func (r *GormMethodRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("shop_id = ? AND id = ?", shopID, id).Delete(&models.MethodModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("method_id = ?", id).Delete(&models.BehaviorComponentModel{}).Error
	})
}

// ExistsByIdentifier checks identifier uniqueness within a shop and kind
func (r *GormMethodRepository) ExistsByIdentifier(ctx context.Context, shopID uuid.UUID, kind service.MethodKind, identifier string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MethodModel{}).
		Where("shop_id = ? AND kind = ? AND identifier = ?", shopID, kind, strings.TrimSpace(identifier)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormMethodRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Components", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *GormMethodRepository) toDomain(ctx context.Context, model *models.MethodModel) (*service.Method, error) {
	methods, err := r.toDomainList(ctx, []models.MethodModel{*model})
	if err != nil {
		return nil, err
	}
	return methods[0], nil
}

func (r *GormMethodRepository) toDomainList(ctx context.Context, rows []models.MethodModel) ([]*service.Method, error) {
	disabled, err := r.disabledProviders(ctx, rows)
	if err != nil {
		return nil, err
	}

	methods := make([]*service.Method, 0, len(rows))
	for i := range rows {
		model := &rows[i]
		components := make([]service.BehaviorComponent, 0, len(model.Components))
		for _, cm := range model.Components {
			c, err := r.codec.Build(cm.Kind, []byte(cm.Config))
			if err != nil {
				return nil, fmt.Errorf("load component %d of method %s: %w", cm.Position, model.Identifier, err)
			}
			components = append(components, c)
		}
		m := model.ToDomain(components)
		if m.ProviderID != nil {
			_, m.ProviderDisabled = disabled[*m.ProviderID]
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// disabledProviders returns the switched off providers the rows are bound to
func (r *GormMethodRepository) disabledProviders(ctx context.Context, rows []models.MethodModel) (map[uuid.UUID]struct{}, error) {
	ids := make([]uuid.UUID, 0)
	for i := range rows {
		if rows[i].ProviderID != nil {
			ids = append(ids, *rows[i].ProviderID)
		}
	}
	disabled := make(map[uuid.UUID]struct{})
	if len(ids) == 0 {
		return disabled, nil
	}

	var found []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ServiceProviderModel{}).
		Where("id IN ? AND enabled = ?", ids, false).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("load provider states: %w", err)
	}
	for _, id := range found {
		disabled[id] = struct{}{}
	}
	return disabled, nil
}

// applyFilter applies filter options to the query
func (r *GormMethodRepository) applyFilter(query *gorm.DB, filter service.MethodFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Paged() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(methodOrder.clause(filter.OrderBy, filter.Desc))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMethodRepository) applyFilterWithoutPagination(query *gorm.DB, filter service.MethodFilter) *gorm.DB {
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(identifier) LIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "provider_id":
			query = query.Where("provider_id = ?", value)
		case "tax_class_id":
			query = query.Where("tax_class_id = ?", value)
		}
	}
	return query
}
