package persistence

import (
	"github.com/shopcore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// saveVersioned inserts the row of an aggregate that was never stored, or
// updates it only while the stored version is still the one it was loaded
// at. A lost race returns shared.ErrConcurrencyConflict.
func saveVersioned(tx *gorm.DB, model any, stored int) error {
	if stored == 0 {
		return tx.Omit(clause.Associations).Create(model).Error
	}
	result := tx.Model(model).
		Where("version = ?", stored).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
