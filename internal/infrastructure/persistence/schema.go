package persistence

import (
	"fmt"

	"github.com/shopcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// SchemaModels lists every persistence model in dependency order
func SchemaModels() []any {
	return []any{
		&models.ServiceProviderModel{},
		&models.MethodModel{},
		&models.BehaviorComponentModel{},
		&models.ProductMethodLimitModel{},
		&models.ProductMethodLinkModel{},
		&models.PaymentOrderModel{},
		&models.OrderLogEntryModel{},
		&models.SupplierModel{},
		&models.StockCountModel{},
		&models.StockAdjustmentModel{},
	}
}

// shopUniqueIndexes are identifier constraints scoped to a shop. GORM tags cannot
// put the embedded shop_id column into a composite index, so they are created here.
var shopUniqueIndexes = []struct {
	name    string
	table   string
	columns string
}{
	{"idx_method_shop_kind_identifier", "service_methods", "shop_id, kind, identifier"},
	{"idx_provider_shop_identifier", "service_providers", "shop_id, identifier"},
	{"idx_payment_order_shop_reference", "payment_orders", "shop_id, reference"},
	{"idx_supplier_shop_identifier", "suppliers", "shop_id, identifier"},
}

// AutoMigrate creates or updates the tables and indexes of every model
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(SchemaModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, idx := range shopUniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
