package strategy

import (
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/infrastructure/strategy/behavior"
)

// NewRegistryWithDefaults creates a registry with every built-in component kind
func NewRegistryWithDefaults() (*ComponentRegistry, error) {
	r := NewComponentRegistry()

	registrations := []struct {
		info    ComponentInfo
		factory ComponentFactory
	}{
		{
			ComponentInfo{behavior.KindFixedCost, strategy.StrategyTypePricing, "Add fixed cost to price of the service"},
			Factory(behavior.NewFixedCostComponent),
		},
		{
			ComponentInfo{behavior.KindWaivingCost, strategy.StrategyTypePricing, "Waive the cost when the products total reaches a limit"},
			Factory(behavior.NewWaivingCostComponent),
		},
		{
			ComponentInfo{behavior.KindWeightLimits, strategy.StrategyTypeAvailability, "Limit availability by total weight"},
			Factory(behavior.NewWeightLimitsComponent),
		},
		{
			ComponentInfo{behavior.KindWeightBasedPricing, strategy.StrategyTypePricing, "Price by total weight ranges"},
			Factory(behavior.NewWeightBasedPricingComponent),
		},
		{
			ComponentInfo{behavior.KindCountryPricing, strategy.StrategyTypePricing, "Price and restrict by shipping country"},
			Factory(behavior.NewCountryPricingComponent),
		},
		{
			ComponentInfo{behavior.KindDeliveryTime, strategy.StrategyTypeDelivery, "Estimated delivery time"},
			Factory(behavior.NewDeliveryTimeComponent),
		},
	}

	for _, reg := range registrations {
		if err := r.Register(reg.info, reg.factory); err != nil {
			return nil, err
		}
	}
	return r, nil
}
