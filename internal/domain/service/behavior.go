package service

import (
	"github.com/shopcore/backend/internal/domain/shared/strategy"
)

// Reason codes produced while resolving methods
const (
	ReasonMinWeight          = "min_weight"
	ReasonMaxWeight          = "max_weight"
	ReasonWeightOutOfRange   = "weight_out_of_range"
	ReasonCountryUnavailable = "country_not_available"
	ReasonMethodDisabled     = "method_disabled"
	ReasonProviderDisabled   = "provider_disabled"
	ReasonMethodNotAvailable = "method_not_available"
	ReasonNotAllowedProducts = "products_not_allowed"
)

// BehaviorComponent is a pluggable rule attached to a method. A method's
// price, availability and delivery estimate are the combination of its
// components. Name() is the component kind used for persistence.
type BehaviorComponent interface {
	strategy.Strategy

	// GetCosts returns the cost contributions for the source
	GetCosts(method *Method, source *Source) []ServiceCost

	// GetUnavailabilityReasons returns why the method cannot serve the source
	GetUnavailabilityReasons(method *Method, source *Source) []strategy.ValidationError

	// GetDeliveryTime returns a delivery estimate, or nil when the component has none
	GetDeliveryTime(method *Method, source *Source) *DeliveryTimeRange
}

// NameProvider is implemented by components that override the method's
// display name for a source
type NameProvider interface {
	GetName(method *Method, source *Source) string
}

// BaseComponent gives components no-op defaults so each one only
// implements the hooks it needs
type BaseComponent struct {
	strategy.BaseStrategy
}

// NewBaseComponent creates a BaseComponent
func NewBaseComponent(kind string, role strategy.StrategyType, description string) BaseComponent {
	return BaseComponent{BaseStrategy: strategy.NewBaseStrategy(kind, role, description)}
}

// GetCosts returns no costs
func (BaseComponent) GetCosts(*Method, *Source) []ServiceCost {
	return nil
}

// GetUnavailabilityReasons returns no reasons
func (BaseComponent) GetUnavailabilityReasons(*Method, *Source) []strategy.ValidationError {
	return nil
}

// GetDeliveryTime returns no estimate
func (BaseComponent) GetDeliveryTime(*Method, *Source) *DeliveryTimeRange {
	return nil
}
