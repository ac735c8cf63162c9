package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMetricsProvider implements StockMetricsProvider over the stock_counts table.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// LowStockCounts returns the number of stock counts below their alert limit per shop.
func (p *GormStockMetricsProvider) LowStockCounts(ctx context.Context) (map[uuid.UUID]int64, error) {
	type result struct {
		ShopID uuid.UUID `gorm:"column:shop_id"`
		Total  int64     `gorm:"column:total"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("stock_counts").
		Select("shop_id, COUNT(*) AS total").
		Where("alert_limit IS NOT NULL AND logical_count < alert_limit").
		Group("shop_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.ShopID] = r.Total
	}
	return m, nil
}
