package behavior

import (
	"fmt"

	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OutOfRangeBehavior decides what happens when no range matches the weight
type OutOfRangeBehavior string

const (
	OutOfRangeHighestPrice    OutOfRangeBehavior = "highest_price"
	OutOfRangeMakeUnavailable OutOfRangeBehavior = "make_unavailable"
)

// WeightPriceRange prices sources whose weight lies within [Min, Max].
// A nil bound is open.
type WeightPriceRange struct {
	Min         *valueobject.Weight `json:"min,omitempty"`
	Max         *valueobject.Weight `json:"max,omitempty"`
	Price       decimal.Decimal     `json:"price"`
	Description string              `json:"description,omitempty"`
}

// Contains reports whether the weight falls within the range
func (r WeightPriceRange) Contains(w valueobject.Weight) bool {
	if r.Min != nil && w.Cmp(*r.Min) < 0 {
		return false
	}
	if r.Max != nil && w.Cmp(*r.Max) > 0 {
		return false
	}
	return true
}

// WeightBasedPricingConfig configures WeightBasedPricingComponent
type WeightBasedPricingConfig struct {
	Description        string             `json:"description,omitempty"`
	OutOfRangeBehavior OutOfRangeBehavior `json:"out_of_range_behavior"`
	Ranges             []WeightPriceRange `json:"ranges"`
}

// WeightBasedPricingComponent prices the method by the first range
// containing the source weight
type WeightBasedPricingComponent struct {
	service.BaseComponent
	config WeightBasedPricingConfig
}

// NewWeightBasedPricingComponent creates a weight based pricing component.
// An empty out of range behavior means highest_price.
func NewWeightBasedPricingComponent(cfg WeightBasedPricingConfig) (*WeightBasedPricingComponent, error) {
	if cfg.OutOfRangeBehavior == "" {
		cfg.OutOfRangeBehavior = OutOfRangeHighestPrice
	}
	if cfg.OutOfRangeBehavior != OutOfRangeHighestPrice && cfg.OutOfRangeBehavior != OutOfRangeMakeUnavailable {
		return nil, shared.NewDomainError("INVALID_OUT_OF_RANGE_BEHAVIOR",
			fmt.Sprintf("Unknown out of range behavior: %s", cfg.OutOfRangeBehavior))
	}
	for i, r := range cfg.Ranges {
		if r.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Range %d has a negative price", i))
		}
		if r.Min != nil && r.Max != nil && r.Min.Cmp(*r.Max) > 0 {
			return nil, shared.NewDomainError("INVALID_WEIGHT_RANGE", fmt.Sprintf("Range %d has min above max", i))
		}
	}
	cfg.Ranges = append([]WeightPriceRange(nil), cfg.Ranges...)
	return &WeightBasedPricingComponent{
		BaseComponent: service.NewBaseComponent(KindWeightBasedPricing, strategy.StrategyTypePricing,
			"Price the service based on total weight of products"),
		config: cfg,
	}, nil
}

// Config returns the stored configuration
func (c *WeightBasedPricingComponent) Config() any {
	return c.config
}

func (c *WeightBasedPricingComponent) match(source *service.Source) (WeightPriceRange, bool) {
	weight := source.TotalWeight()
	for _, r := range c.config.Ranges {
		if r.Contains(weight) {
			return r, true
		}
	}
	return WeightPriceRange{}, false
}

// GetCosts yields the matching range price, or the highest range price when
// configured so
func (c *WeightBasedPricingComponent) GetCosts(_ *service.Method, source *service.Source) []service.ServiceCost {
	if r, ok := c.match(source); ok {
		desc := r.Description
		if desc == "" {
			desc = c.config.Description
		}
		return []service.ServiceCost{service.NewServiceCost(source.CreatePrice(r.Price), desc)}
	}
	if c.config.OutOfRangeBehavior != OutOfRangeHighestPrice || len(c.config.Ranges) == 0 {
		return nil
	}
	highest := c.config.Ranges[0].Price
	for _, r := range c.config.Ranges[1:] {
		highest = decimal.Max(highest, r.Price)
	}
	return []service.ServiceCost{service.NewServiceCost(source.CreatePrice(highest), c.config.Description)}
}

// GetUnavailabilityReasons reports weight_out_of_range only when unmatched
// weights make the method unavailable
func (c *WeightBasedPricingComponent) GetUnavailabilityReasons(_ *service.Method, source *service.Source) []strategy.ValidationError {
	if c.config.OutOfRangeBehavior != OutOfRangeMakeUnavailable {
		return nil
	}
	if _, ok := c.match(source); ok {
		return nil
	}
	return []strategy.ValidationError{strategy.NewValidationError("weight", service.ReasonWeightOutOfRange,
		"Source weight does not match with any pricing range.")}
}
