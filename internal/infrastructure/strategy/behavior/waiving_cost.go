package behavior

import (
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// WaivingCostConfig configures WaivingCostComponent
type WaivingCostConfig struct {
	Price       decimal.Decimal `json:"price"`
	WaiveLimit  decimal.Decimal `json:"waive_limit"`
	Description string          `json:"description,omitempty"`
}

// WaivingCostComponent charges Price unless the products total reaches
// WaiveLimit, in which case the service is free with Price as its base price.
type WaivingCostComponent struct {
	service.BaseComponent
	config WaivingCostConfig
}

// NewWaivingCostComponent creates a waiving cost component
func NewWaivingCostComponent(cfg WaivingCostConfig) (*WaivingCostComponent, error) {
	if cfg.Price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if cfg.WaiveLimit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WAIVE_LIMIT", "Waive limit cannot be negative")
	}
	return &WaivingCostComponent{
		BaseComponent: service.NewBaseComponent(KindWaivingCost, strategy.StrategyTypePricing,
			"Add cost to price of the service if total price of products is less than a waive limit"),
		config: cfg,
	}, nil
}

// Config returns the stored configuration
func (c *WaivingCostComponent) Config() any {
	return c.config
}

// GetCosts yields a zero cost when waived, the full price otherwise
func (c *WaivingCostComponent) GetCosts(_ *service.Method, source *service.Source) []service.ServiceCost {
	price := source.CreatePrice(c.config.Price)
	total := source.TotalPriceOfProducts()
	reached, err := total.GreaterThanOrEqual(source.CreatePrice(c.config.WaiveLimit))
	if err == nil && reached && total.IsPositive() {
		return []service.ServiceCost{service.NewDiscountedServiceCost(source.ZeroPrice(), price, c.config.Description)}
	}
	return []service.ServiceCost{service.NewServiceCost(price, c.config.Description)}
}
