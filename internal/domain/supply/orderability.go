package supply

import (
	"fmt"

	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// ReasonStockInsufficient is reported when a supplier cannot fill a quantity
const ReasonStockInsufficient = "stock_insufficient"

// OrderabilityErrors lists why the supplier cannot deliver quantity of a
// product. A nil count means nothing is in stock. Products that are not
// shipped and suppliers without stock management are always orderable.
func OrderabilityErrors(supplier *Supplier, count *StockCount, mode ShippingMode, quantity decimal.Decimal) strategy.ValidationErrors {
	if supplier == nil || !supplier.StockManaged || mode == ShippingModeNotShipped {
		return nil
	}
	logical := decimal.Zero
	if count != nil {
		logical = count.LogicalCount
	}
	if quantity.GreaterThan(logical) {
		return strategy.ValidationErrors{strategy.NewValidationError(
			"quantity",
			ReasonStockInsufficient,
			fmt.Sprintf("Insufficient stock: %s available, %s requested", logical.String(), quantity.String()),
		)}
	}
	return nil
}
