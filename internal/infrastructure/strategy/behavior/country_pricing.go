package behavior

import (
	"fmt"

	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CountryPricingConfig configures CountryPricingComponent. Country codes are
// ISO 3166-1 alpha-2.
type CountryPricingConfig struct {
	DefaultPrice     decimal.Decimal            `json:"default_price"`
	Prices           map[string]decimal.Decimal `json:"prices,omitempty"`
	BlockedCountries []string                   `json:"blocked_countries,omitempty"`
	BlockedCode      string                     `json:"blocked_code,omitempty"`
	BlockedMessage   string                     `json:"blocked_message,omitempty"`
	Name             string                     `json:"name,omitempty"`
	Description      string                     `json:"description,omitempty"`
}

// CountryPricingComponent prices by shipping country. An override is charged
// with the default price as its base, so the difference shows as a discount
// or surcharge on the order line.
type CountryPricingComponent struct {
	service.BaseComponent
	config CountryPricingConfig
}

// NewCountryPricingComponent creates a country pricing component
func NewCountryPricingComponent(cfg CountryPricingConfig) (*CountryPricingComponent, error) {
	if cfg.DefaultPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Default price cannot be negative")
	}
	prices := make(map[string]decimal.Decimal, len(cfg.Prices))
	for country, price := range cfg.Prices {
		code, err := valueobject.NormalizeCountry(country)
		if err != nil {
			return nil, shared.WrapDomainError(shared.ErrInvalidInput.Code, "Invalid price country", err)
		}
		if price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Price for %s cannot be negative", code))
		}
		prices[code] = price
	}
	blocked := make([]string, 0, len(cfg.BlockedCountries))
	for _, country := range cfg.BlockedCountries {
		code, err := valueobject.NormalizeCountry(country)
		if err != nil {
			return nil, shared.WrapDomainError(shared.ErrInvalidInput.Code, "Invalid blocked country", err)
		}
		blocked = append(blocked, code)
	}
	cfg.Prices = prices
	cfg.BlockedCountries = blocked
	if cfg.BlockedCode == "" {
		cfg.BlockedCode = service.ReasonCountryUnavailable
	}
	return &CountryPricingComponent{
		BaseComponent: service.NewBaseComponent(KindCountryPricing, strategy.StrategyTypePricing,
			"Price and restrict the service by shipping country"),
		config: cfg,
	}, nil
}

// Config returns the stored configuration
func (c *CountryPricingComponent) Config() any {
	return c.config
}

// GetName overrides the method name when configured
func (c *CountryPricingComponent) GetName(*service.Method, *service.Source) string {
	return c.config.Name
}

// GetCosts yields the country price, based on the default price
func (c *CountryPricingComponent) GetCosts(_ *service.Method, source *service.Source) []service.ServiceCost {
	base := source.CreatePrice(c.config.DefaultPrice)
	if price, ok := c.config.Prices[source.ShippingAddress.Country()]; ok {
		return []service.ServiceCost{service.NewDiscountedServiceCost(source.CreatePrice(price), base, c.config.Description)}
	}
	return []service.ServiceCost{service.NewServiceCost(base, c.config.Description)}
}

// GetUnavailabilityReasons refuses blocked shipping countries
func (c *CountryPricingComponent) GetUnavailabilityReasons(_ *service.Method, source *service.Source) []strategy.ValidationError {
	if !source.ShippingAddress.InCountry(c.config.BlockedCountries...) {
		return nil
	}
	msg := c.config.BlockedMessage
	if msg == "" {
		msg = fmt.Sprintf("Not available for %s", source.ShippingAddress.Country())
	}
	return []strategy.ValidationError{strategy.NewValidationError("shipping_address", c.config.BlockedCode, msg)}
}
