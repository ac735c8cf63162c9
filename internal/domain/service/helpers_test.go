package service

import (
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// expensiveSweden charges 5 (base 4) to Sweden, 4 elsewhere and refuses Finland.
type expensiveSweden struct {
	BaseComponent
}

func newExpensiveSweden() *expensiveSweden {
	return &expensiveSweden{BaseComponent: NewBaseComponent("expensive_sweden", strategy.StrategyTypePricing, "test")}
}

func (c *expensiveSweden) GetName(*Method, *Source) string {
	return "Expenseefe-a Svedee Sheepping"
}

func (c *expensiveSweden) GetCosts(_ *Method, source *Source) []ServiceCost {
	four := source.CreatePrice(decimal.NewFromInt(4))
	five := source.CreatePrice(decimal.NewFromInt(5))
	if source.ShippingAddress.InCountry("SE") {
		return []ServiceCost{NewDiscountedServiceCost(five, four, "")}
	}
	return []ServiceCost{NewServiceCost(four, "")}
}

func (c *expensiveSweden) GetUnavailabilityReasons(_ *Method, source *Source) []strategy.ValidationError {
	if source.ShippingAddress.InCountry("FI") {
		return []strategy.ValidationError{strategy.NewValidationError("shipping_address", "we_no_speak_finnish", "Veell nut sheep unytheeng tu Feenlund!")}
	}
	return nil
}

type flatCost struct {
	BaseComponent
	amount string
	days   *DeliveryTimeRange
}

func newFlatCost(amount string) *flatCost {
	return &flatCost{BaseComponent: NewBaseComponent("flat", strategy.StrategyTypePricing, "test"), amount: amount}
}

func (c *flatCost) GetCosts(_ *Method, source *Source) []ServiceCost {
	return []ServiceCost{NewServiceCost(source.CreatePrice(decimal.RequireFromString(c.amount)), "flat")}
}

func (c *flatCost) GetDeliveryTime(*Method, *Source) *DeliveryTimeRange {
	return c.days
}

func eur(amount string) valueobject.Money {
	return valueobject.MustMoney(amount, valueobject.EUR)
}
