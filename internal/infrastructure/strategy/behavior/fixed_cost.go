package behavior

import (
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// Component kinds as stored with each method
const (
	KindFixedCost          = "fixed_cost"
	KindWaivingCost        = "waiving_cost"
	KindWeightLimits       = "weight_limits"
	KindWeightBasedPricing = "weight_based_pricing"
	KindCountryPricing     = "country_pricing"
	KindDeliveryTime       = "delivery_time"
)

// FixedCostConfig configures FixedCostComponent
type FixedCostConfig struct {
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
}

// FixedCostComponent adds a constant cost to the method
type FixedCostComponent struct {
	service.BaseComponent
	config FixedCostConfig
}

// NewFixedCostComponent creates a fixed cost component
func NewFixedCostComponent(cfg FixedCostConfig) (*FixedCostComponent, error) {
	if cfg.Price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Fixed cost cannot be negative")
	}
	return &FixedCostComponent{
		BaseComponent: service.NewBaseComponent(KindFixedCost, strategy.StrategyTypePricing, "Add fixed cost to price of the service"),
		config:        cfg,
	}, nil
}

// Config returns the stored configuration
func (c *FixedCostComponent) Config() any {
	return c.config
}

// GetCosts yields the fixed price in the source currency
func (c *FixedCostComponent) GetCosts(_ *service.Method, source *service.Source) []service.ServiceCost {
	return []service.ServiceCost{service.NewServiceCost(source.CreatePrice(c.config.Price), c.config.Description)}
}
