package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	tableStockCounts = "stock_counts"
	colShopID        = "shop_id"
	colSupplierID    = "supplier_id"
	colProductID     = "product_id"
)

// stockStatusRow is the flat projection read from stock_counts
type stockStatusRow struct {
	SupplierID    uuid.UUID           `db:"supplier_id"`
	ProductID     uuid.UUID           `db:"product_id"`
	LogicalCount  decimal.Decimal     `db:"logical_count"`
	PhysicalCount decimal.Decimal     `db:"physical_count"`
	AlertLimit    decimal.NullDecimal `db:"alert_limit"`
	StockValue    decimal.Decimal     `db:"stock_value"`
	Currency      string              `db:"currency"`
	UpdatedAt     time.Time           `db:"updated_at"`
}

// SQLStockStatusReader reads stock status snapshots straight from SQL.
// It bypasses the aggregate mapping so product pages can ask for many products at once.
type SQLStockStatusReader struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

// NewSQLStockStatusReader creates a reader sharing the connection pool of a GORM database
func NewSQLStockStatusReader(db *gorm.DB) (*SQLStockStatusReader, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	driver, dialect := "postgres", "postgres"
	if db.Dialector.Name() == "sqlite" {
		driver, dialect = "sqlite3", "sqlite3"
	}
	return &SQLStockStatusReader{
		db:      sqlx.NewDb(sqlDB, driver),
		dialect: goqu.Dialect(dialect),
	}, nil
}

// StockStatuses returns the status of each requested product at the supplier.
// Products without a stock count are omitted.
func (r *SQLStockStatusReader) StockStatuses(ctx context.Context, shopID, supplierID uuid.UUID, productIDs []uuid.UUID) ([]supply.StockStatus, error) {
	if len(productIDs) == 0 {
		return []supply.StockStatus{}, nil
	}

	ids := make([]any, len(productIDs))
	for i, id := range productIDs {
		ids[i] = id.String()
	}

	query, args, err := r.dialect.
		From(tableStockCounts).
		Select(
			colSupplierID, colProductID, "logical_count", "physical_count",
			"alert_limit", "stock_value", "currency", "updated_at",
		).
		Where(
			goqu.C(colShopID).Eq(shopID.String()),
			goqu.C(colSupplierID).Eq(supplierID.String()),
			goqu.C(colProductID).In(ids...),
		).
		Order(goqu.I(colProductID).Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build stock status query: %w", err)
	}

	var rows []stockStatusRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	statuses := make([]supply.StockStatus, 0, len(rows))
	for _, row := range rows {
		statuses = append(statuses, row.toStatus())
	}
	return statuses, nil
}

func (row stockStatusRow) toStatus() supply.StockStatus {
	count := supply.StockCount{
		SupplierID:    row.SupplierID,
		ProductID:     row.ProductID,
		LogicalCount:  row.LogicalCount,
		PhysicalCount: row.PhysicalCount,
		StockValue:    valueobject.MoneyOf(row.StockValue, valueobject.Currency(row.Currency)),
	}
	if row.AlertLimit.Valid {
		limit := row.AlertLimit.Decimal
		count.AlertLimit = &limit
	}
	count.UpdatedAt = row.UpdatedAt
	return count.Status()
}
