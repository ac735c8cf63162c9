package behavior

import (
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
)

// WeightLimitsConfig configures WeightLimitsComponent. A missing or zero
// bound is not enforced.
type WeightLimitsConfig struct {
	MinWeight *valueobject.Weight `json:"min_weight,omitempty"`
	MaxWeight *valueobject.Weight `json:"max_weight,omitempty"`
}

// WeightLimitsComponent makes the method unavailable outside a weight window
type WeightLimitsComponent struct {
	service.BaseComponent
	config WeightLimitsConfig
}

// NewWeightLimitsComponent creates a weight limits component
func NewWeightLimitsComponent(cfg WeightLimitsConfig) (*WeightLimitsComponent, error) {
	if isSet(cfg.MinWeight) && isSet(cfg.MaxWeight) && cfg.MinWeight.Cmp(*cfg.MaxWeight) > 0 {
		return nil, shared.NewDomainError("INVALID_WEIGHT_LIMITS", "Minimum weight cannot exceed maximum weight")
	}
	return &WeightLimitsComponent{
		BaseComponent: service.NewBaseComponent(KindWeightLimits, strategy.StrategyTypeAvailability,
			"Limit availability of the service based on total weight of products"),
		config: cfg,
	}, nil
}

// Config returns the stored configuration
func (c *WeightLimitsComponent) Config() any {
	return c.config
}

// GetUnavailabilityReasons reports min_weight and max_weight violations
func (c *WeightLimitsComponent) GetUnavailabilityReasons(_ *service.Method, source *service.Source) []strategy.ValidationError {
	weight := source.TotalWeight()
	var reasons []strategy.ValidationError
	if isSet(c.config.MinWeight) && weight.Cmp(*c.config.MinWeight) < 0 {
		reasons = append(reasons, strategy.NewValidationError("weight", service.ReasonMinWeight, "Minimum weight not met."))
	}
	if isSet(c.config.MaxWeight) && weight.Cmp(*c.config.MaxWeight) > 0 {
		reasons = append(reasons, strategy.NewValidationError("weight", service.ReasonMaxWeight, "Maximum weight exceeded."))
	}
	return reasons
}

func isSet(w *valueobject.Weight) bool {
	return w != nil && !w.IsZero()
}
