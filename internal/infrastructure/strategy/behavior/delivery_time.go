package behavior

import (
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
)

// DeliveryTimeConfig configures DeliveryTimeComponent
type DeliveryTimeConfig struct {
	MinDays int `json:"min_days"`
	MaxDays int `json:"max_days"`
}

// DeliveryTimeComponent contributes a fixed delivery estimate
type DeliveryTimeComponent struct {
	service.BaseComponent
	config DeliveryTimeConfig
	window service.DeliveryTimeRange
}

// NewDeliveryTimeComponent creates a delivery time component
func NewDeliveryTimeComponent(cfg DeliveryTimeConfig) (*DeliveryTimeComponent, error) {
	window, err := service.NewDeliveryTimeRange(cfg.MinDays, cfg.MaxDays)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_DELIVERY_TIME", "Invalid delivery time", err)
	}
	return &DeliveryTimeComponent{
		BaseComponent: service.NewBaseComponent(KindDeliveryTime, strategy.StrategyTypeDelivery, "Estimated delivery time"),
		config:        cfg,
		window:        window,
	}, nil
}

// Config returns the stored configuration
func (c *DeliveryTimeComponent) Config() any {
	return c.config
}

// GetDeliveryTime returns the configured window
func (c *DeliveryTimeComponent) GetDeliveryTime(*service.Method, *service.Source) *service.DeliveryTimeRange {
	w := c.window
	return &w
}
