package service

import (
	"errors"
	"fmt"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ServiceCost is one cost contribution of a behavior component.
// BasePrice is the price before any waiver or discount.
type ServiceCost struct {
	Price       valueobject.Money
	Description string
	BasePrice   valueobject.Money
}

// NewServiceCost creates a cost whose base price equals its price
func NewServiceCost(price valueobject.Money, description string) ServiceCost {
	return ServiceCost{
		Price:       price,
		Description: description,
		BasePrice:   price,
	}
}

// NewDiscountedServiceCost creates a cost charged below its base price
func NewDiscountedServiceCost(price, basePrice valueobject.Money, description string) ServiceCost {
	return ServiceCost{
		Price:       price,
		Description: description,
		BasePrice:   basePrice,
	}
}

// Discount is BasePrice minus Price
func (c ServiceCost) Discount() (valueobject.Money, error) {
	return c.BasePrice.Subtract(c.Price)
}

// PriceInfo is the aggregated price of a method for one source.
// Quantity is always one.
type PriceInfo struct {
	Price       valueobject.Money
	BasePrice   valueobject.Money
	Quantity    decimal.Decimal
	IncludesTax bool
}

// DiscountAmount is BasePrice minus Price
func (p PriceInfo) DiscountAmount() valueobject.Money {
	d, err := p.BasePrice.Subtract(p.Price)
	if err != nil {
		return valueobject.Zero(p.Price.Currency())
	}
	return d
}

// BaseUnitPrice is the base price of a single unit
func (p PriceInfo) BaseUnitPrice() valueobject.Money {
	if p.Quantity.IsZero() || p.Quantity.Equal(decimal.NewFromInt(1)) {
		return p.BasePrice
	}
	unit, err := p.BasePrice.Divide(p.Quantity)
	if err != nil {
		return p.BasePrice
	}
	return unit
}

// SumCosts aggregates costs into a PriceInfo in the given currency
func SumCosts(currency valueobject.Currency, includesTax bool, costs []ServiceCost) (PriceInfo, error) {
	prices := make([]valueobject.Money, 0, len(costs))
	bases := make([]valueobject.Money, 0, len(costs))
	for _, c := range costs {
		base := c.BasePrice
		if base.Currency() == "" {
			base = c.Price
		}
		prices = append(prices, c.Price)
		bases = append(bases, base)
	}
	price, err := valueobject.Sum(currency, prices...)
	if err != nil {
		return PriceInfo{}, sumError("service costs", err)
	}
	base, err := valueobject.Sum(currency, bases...)
	if err != nil {
		return PriceInfo{}, sumError("service base prices", err)
	}
	return PriceInfo{
		Price:       price,
		BasePrice:   base,
		Quantity:    decimal.NewFromInt(1),
		IncludesTax: includesTax,
	}, nil
}

func sumError(what string, err error) error {
	if errors.Is(err, valueobject.ErrCurrencyMismatch) {
		return shared.WrapDomainError(shared.ErrCurrencyMismatch.Code, shared.ErrCurrencyMismatch.Message, err)
	}
	return fmt.Errorf("sum %s: %w", what, err)
}

// DeliveryTimeRange is an estimated delivery window in whole days
type DeliveryTimeRange struct {
	MinDays int `json:"min_days"`
	MaxDays int `json:"max_days"`
}

// NewDeliveryTimeRange validates and builds a range. A max below min is rejected.
func NewDeliveryTimeRange(minDays, maxDays int) (DeliveryTimeRange, error) {
	if minDays < 0 {
		return DeliveryTimeRange{}, fmt.Errorf("delivery time cannot be negative: %d", minDays)
	}
	if maxDays < minDays {
		return DeliveryTimeRange{}, fmt.Errorf("max delivery time %d is below min %d", maxDays, minDays)
	}
	return DeliveryTimeRange{MinDays: minDays, MaxDays: maxDays}, nil
}

// String renders "N days" or "min--max days"
func (r DeliveryTimeRange) String() string {
	if r.MinDays == r.MaxDays {
		return fmt.Sprintf("%d days", r.MaxDays)
	}
	return fmt.Sprintf("%d--%d days", r.MinDays, r.MaxDays)
}

// MergeDeliveryTimes spans every given range: the smallest min and the largest max
func MergeDeliveryTimes(ranges ...*DeliveryTimeRange) *DeliveryTimeRange {
	var merged *DeliveryTimeRange
	for _, r := range ranges {
		if r == nil {
			continue
		}
		if merged == nil {
			cp := *r
			merged = &cp
			continue
		}
		merged.MinDays = min(merged.MinDays, r.MinDays)
		merged.MaxDays = max(merged.MaxDays, r.MaxDays)
	}
	return merged
}
