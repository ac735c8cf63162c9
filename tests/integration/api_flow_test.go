package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	serviceapp "github.com/shopcore/backend/internal/application/service"
	supplyapp "github.com/shopcore/backend/internal/application/supply"
	"github.com/shopcore/backend/internal/bootstrap"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopcore/backend/internal/infrastructure/cache"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/event"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
	"github.com/shopcore/backend/internal/interfaces/http/handler"
	"github.com/shopcore/backend/internal/interfaces/http/middleware"
	"github.com/shopcore/backend/internal/interfaces/http/router"
	"github.com/shopcore/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// apiServer serves the full route table over PostgreSQL
type apiServer struct {
	engine *gin.Engine
	alerts *testutil.MockEventHandler
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()

	testDB := NewSharedTestDB(t)

	bus := event.NewInMemoryEventBus(zap.NewNop())
	alerts := testutil.NewMockEventHandler(supply.EventTypeAlertLimitReached)
	bus.Subscribe(alerts)

	throttle := cache.NewInMemoryThrottleStore()
	t.Cleanup(func() { _ = throttle.Close() })

	services, err := bootstrap.NewServices(testDB.DB, config.CheckoutConfig{
		DefaultCurrency:     "EUR",
		PricesIncludeTax:    true,
		AlertThrottleWindow: 24 * time.Hour,
		AdjustmentHistory:   50,
	}, bootstrap.Options{Events: bus, Throttle: throttle})
	require.NoError(t, err)

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.ShopContext(middleware.ShopConfig{SkipPaths: []string{"/api/v1/system"}}))
	router.RegisterAPI(r, router.Handlers{
		Method:   handler.NewMethodHandler(services.Method, services.Registry),
		Provider: handler.NewProviderHandler(services.Provider),
		Checkout: handler.NewCheckoutHandler(services.Checkout),
		Payment:  handler.NewPaymentHandler(services.Payment),
		Supplier: handler.NewSupplierHandler(services.Supplier, services.Stock),
		System:   handler.NewSystemHandler("shopcore", "test", testDB),
	})
	r.Setup()

	return &apiServer{engine: engine, alerts: alerts}
}

func basket(productID uuid.UUID, weight string, selected map[string]any) map[string]any {
	body := map[string]any{
		"currency": "EUR",
		"lines": []any{map[string]any{
			"product_id": productID.String(),
			"text":       "Cast iron teapot",
			"quantity":   "2",
			"unit_price": "30",
			"weight":     weight,
		}},
	}
	for k, v := range selected {
		body[k] = v
	}
	return body
}

// TestCheckoutFlow_Integration configures providers and methods and checks out a basket
func TestCheckoutFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := newAPIServer(t)
	client := testutil.NewAPIClient(t, server.engine, uuid.New())
	productID := uuid.New()

	carrier := testutil.RequireData[serviceapp.ProviderResponse](t, client.Do(http.MethodPost, "/api/v1/providers", map[string]any{
		"kind": "carrier", "identifier": "postnord", "name": "PostNord",
		"services": []any{map[string]any{"identifier": "parcel", "name": "Parcel"}},
	}), http.StatusCreated)

	parcel := testutil.RequireData[serviceapp.MethodResponse](t, client.Do(http.MethodPost, "/api/v1/methods", map[string]any{
		"kind": "shipping", "identifier": "parcel", "name": "Parcel",
		"tax_class_id":       uuid.New().String(),
		"provider_id":        carrier.ID.String(),
		"service_identifier": "parcel",
		"components": []any{
			map[string]any{"kind": "waiving_cost", "config": map[string]any{"price": "6.90", "waive_limit": "100"}},
			map[string]any{"kind": "weight_limits", "config": map[string]any{"max_weight": "20kg"}},
		},
	}), http.StatusCreated)

	pickup := testutil.RequireData[serviceapp.MethodResponse](t, client.Do(http.MethodPost, "/api/v1/methods", map[string]any{
		"kind": "shipping", "identifier": "pickup", "name": "Store pickup",
		"tax_class_id": uuid.New().String(),
		"components":   []any{map[string]any{"kind": "fixed_cost", "config": map[string]any{"price": "0"}}},
	}), http.StatusCreated)

	invoice := testutil.RequireData[serviceapp.MethodResponse](t, client.Do(http.MethodPost, "/api/v1/methods", map[string]any{
		"kind": "payment", "identifier": "invoice", "name": "Invoice",
		"tax_class_id": uuid.New().String(),
		"components":   []any{map[string]any{"kind": "fixed_cost", "config": map[string]any{"price": "2.50"}}},
	}), http.StatusCreated)

	t.Run("available shipping methods are priced and sorted", func(t *testing.T) {
		methods := testutil.RequireData[[]serviceapp.AvailableMethodResponse](t,
			client.Do(http.MethodPost, "/api/v1/checkout/methods/shipping", basket(productID, "3", nil)), http.StatusOK)
		require.Len(t, methods, 2)
		assert.Equal(t, parcel.ID, methods[0].ID)
		assert.True(t, decimal.RequireFromString("6.90").Equal(methods[0].Price.Amount()))
		assert.Equal(t, pickup.ID, methods[1].ID)
	})

	t.Run("overweight basket fails validation", func(t *testing.T) {
		result := testutil.RequireData[serviceapp.ValidationResponse](t,
			client.Do(http.MethodPost, "/api/v1/checkout/validate", basket(productID, "15", map[string]any{
				"shipping_method_id": parcel.ID.String(),
			})), http.StatusOK)
		assert.False(t, result.Valid)
		assert.Equal(t, []string{service.ReasonMethodNotAvailable, service.ReasonMaxWeight}, result.Errors.Codes())
	})

	t.Run("final lines add shipping and payment", func(t *testing.T) {
		lines := testutil.RequireData[serviceapp.LinesResponse](t,
			client.Do(http.MethodPost, "/api/v1/checkout/lines", basket(productID, "3", map[string]any{
				"shipping_method_id": parcel.ID.String(),
				"payment_method_id":  invoice.ID.String(),
			})), http.StatusOK)
		require.Len(t, lines.Lines, 3)
		assert.Equal(t, "shipping", lines.Lines[1].Type)
		assert.Equal(t, "payment", lines.Lines[2].Type)
		assert.Equal(t, "69.40 EUR", lines.Total.String())
	})

	t.Run("disabled carrier takes its methods offline", func(t *testing.T) {
		testutil.RequireData[serviceapp.ProviderResponse](t,
			client.Do(http.MethodPost, "/api/v1/providers/"+carrier.ID.String()+"/disable", nil), http.StatusOK)

		methods := testutil.RequireData[[]serviceapp.AvailableMethodResponse](t,
			client.Do(http.MethodPost, "/api/v1/checkout/methods/shipping", basket(productID, "3", nil)), http.StatusOK)
		require.Len(t, methods, 1)
		assert.Equal(t, pickup.ID, methods[0].ID)

		errInfo := testutil.RequireError(t,
			client.Do(http.MethodPost, "/api/v1/checkout/lines", basket(productID, "3", map[string]any{
				"shipping_method_id": parcel.ID.String(),
			})), http.StatusUnprocessableEntity, dto.ErrCodeMethodNotAvailable)
		require.NotEmpty(t, errInfo.Details)
	})

	t.Run("payment flow", func(t *testing.T) {
		order := testutil.RequireData[serviceapp.PaymentOrderResponse](t, client.Do(http.MethodPost, "/api/v1/payments", map[string]any{
			"reference":         "ORD-1001",
			"payment_method_id": invoice.ID.String(),
		}), http.StatusCreated)
		assert.Equal(t, "not_paid", order.PaymentStatus)

		base := "/api/v1/payments/" + order.ID.String()
		testutil.RequireData[service.PaymentProcessResponse](t, client.Do(http.MethodPost, base+"/process", map[string]any{
			"payment_url": "https://shop.example/pay",
			"return_url":  "https://shop.example/return",
			"cancel_url":  "https://shop.example/cancel",
		}), http.StatusOK)

		returned := testutil.RequireData[serviceapp.PaymentOrderResponse](t, client.Do(http.MethodPost, base+"/return", nil), http.StatusOK)
		assert.Equal(t, order.ID, returned.ID)
	})

	t.Run("other shops see nothing", func(t *testing.T) {
		other := testutil.NewAPIClient(t, server.engine, uuid.New())
		testutil.RequireError(t, other.Do(http.MethodGet, "/api/v1/methods/"+parcel.ID.String(), nil), http.StatusNotFound, dto.ErrCodeNotFound)
	})
}

// TestStockFlow_Integration follows a product through adjustments and orders
func TestStockFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := newAPIServer(t)
	client := testutil.NewAPIClient(t, server.engine, uuid.New())
	client.Actor = "warehouse-bot"
	productID := uuid.New()

	supplier := testutil.RequireData[supplyapp.SupplierResponse](t, client.Do(http.MethodPost, "/api/v1/suppliers", map[string]any{
		"identifier": "main", "name": "Main warehouse", "stock_managed": true,
	}), http.StatusCreated)
	stockPath := "/api/v1/suppliers/" + supplier.ID.String() + "/stock/" + productID.String()
	ordersPath := "/api/v1/suppliers/" + supplier.ID.String() + "/orders/"

	status := testutil.RequireData[supplyapp.StockStatusResponse](t, client.Do(http.MethodPost, stockPath+"/adjust", map[string]any{
		"delta": "12", "purchase_price": "4",
	}), http.StatusOK)
	assert.True(t, status.PhysicalCount.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, "48.00 EUR", status.StockValue.String())

	testutil.RequireData[supplyapp.StockStatusResponse](t, client.Do(http.MethodPut, stockPath+"/alert-limit", map[string]any{
		"alert_limit": "5",
	}), http.StatusOK)

	status = testutil.RequireData[supplyapp.StockStatusResponse](t, client.Do(http.MethodPost, ordersPath+"placed", map[string]any{
		"product_id": productID.String(), "quantity": "8",
	}), http.StatusOK)
	assert.True(t, status.LogicalCount.Equal(decimal.NewFromInt(4)))
	assert.True(t, status.BelowAlertLimit)

	require.True(t, testutil.WaitForEventCount(t, server.alerts, 1, time.Second))
	alert, ok := server.alerts.Handled()[0].(*supply.AlertLimitReachedEvent)
	require.True(t, ok)
	assert.Equal(t, productID, alert.ProductID)
	assert.False(t, alert.DispatchedLast24Hours)

	// A second drop inside the throttle window is flagged as already dispatched
	testutil.RequireData[supplyapp.StockStatusResponse](t, client.Do(http.MethodPost, ordersPath+"placed", map[string]any{
		"product_id": productID.String(), "quantity": "1",
	}), http.StatusOK)
	require.True(t, testutil.WaitForEventCount(t, server.alerts, 2, time.Second))
	second, ok := server.alerts.Handled()[1].(*supply.AlertLimitReachedEvent)
	require.True(t, ok)
	assert.True(t, second.DispatchedLast24Hours)

	status = testutil.RequireData[supplyapp.StockStatusResponse](t, client.Do(http.MethodPost, ordersPath+"shipped", map[string]any{
		"product_id": productID.String(), "quantity": "9",
	}), http.StatusOK)
	assert.True(t, status.PhysicalCount.Equal(decimal.NewFromInt(3)))
	assert.True(t, status.LogicalCount.Equal(decimal.NewFromInt(3)))

	adjustments := testutil.RequireData[[]supplyapp.StockAdjustmentResponse](t, client.Do(http.MethodGet, stockPath+"/adjustments", nil), http.StatusOK)
	require.Len(t, adjustments, 1)
	assert.Equal(t, "warehouse-bot", adjustments[0].CreatedBy)

	info := testutil.RequireData[handler.SystemInfoResponse](t,
		testutil.NewAPIClient(t, server.engine, uuid.Nil).Do(http.MethodGet, "/api/v1/system/info", nil), http.StatusOK)
	assert.Equal(t, "shopcore", info.Name)
}
