// Package bootstrap assembles repositories and application services over one
// database so the server and the CLI share the same wiring.
package bootstrap

import (
	"fmt"

	serviceapp "github.com/shopcore/backend/internal/application/service"
	supplyapp "github.com/shopcore/backend/internal/application/supply"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	infrastrategy "github.com/shopcore/backend/internal/infrastructure/strategy"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"gorm.io/gorm"
)

// Options carries the optional collaborators of the services
type Options struct {
	Events   shared.EventPublisher
	Throttle shared.ThrottleStore
	Metrics  *telemetry.CheckoutMetrics
}

// Services holds the application services of the shop
type Services struct {
	Registry *infrastrategy.ComponentRegistry
	Method   *serviceapp.MethodService
	Provider *serviceapp.ProviderService
	Checkout *serviceapp.CheckoutService
	Payment  *serviceapp.PaymentService
	Supplier *supplyapp.SupplierService
	Stock    *supplyapp.StockService
}

// NewServices builds every repository on db and the services on top of them
func NewServices(db *gorm.DB, cfg config.CheckoutConfig, opts Options) (*Services, error) {
	currency, err := valueobject.ParseCurrency(cfg.DefaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("checkout currency: %w", err)
	}

	registry, err := infrastrategy.NewRegistryWithDefaults()
	if err != nil {
		return nil, fmt.Errorf("component registry: %w", err)
	}

	methodRepo := persistence.NewGormMethodRepository(db, registry)
	providerRepo := persistence.NewGormProviderRepository(db)
	limitRepo := persistence.NewGormProductLimitRepository(db)
	orderRepo := persistence.NewGormPaymentOrderRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	countRepo := persistence.NewGormStockCountRepository(db)
	statusReader, err := persistence.NewSQLStockStatusReader(db)
	if err != nil {
		return nil, fmt.Errorf("stock status reader: %w", err)
	}

	return &Services{
		Registry: registry,
		Method:   serviceapp.NewMethodService(methodRepo, providerRepo, limitRepo, registry, opts.Events),
		Provider: serviceapp.NewProviderService(providerRepo),
		Checkout: serviceapp.NewCheckoutService(methodRepo, limitRepo, opts.Metrics, serviceapp.CheckoutConfig{
			DefaultCurrency:  currency,
			PricesIncludeTax: cfg.PricesIncludeTax,
		}),
		Payment:  serviceapp.NewPaymentService(orderRepo, methodRepo, opts.Events, opts.Metrics),
		Supplier: supplyapp.NewSupplierService(supplierRepo),
		Stock: supplyapp.NewStockService(supplierRepo, countRepo, statusReader, opts.Throttle, opts.Events, opts.Metrics, supplyapp.StockConfig{
			Currency:            currency,
			AlertThrottleWindow: cfg.AlertThrottleWindow,
			AdjustmentHistory:   cfg.AdjustmentHistory,
		}),
	}, nil
}
