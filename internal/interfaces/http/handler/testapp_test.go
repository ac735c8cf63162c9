package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	serviceapp "github.com/shopcore/backend/internal/application/service"
	supplyapp "github.com/shopcore/backend/internal/application/supply"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	infrastrategy "github.com/shopcore/backend/internal/infrastructure/strategy"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
	"github.com/shopcore/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testApp serves the handlers over real services backed by an in-memory database
type testApp struct {
	router *gin.Engine
	shopID uuid.UUID
}

// apiResponse mirrors dto.Response with the data left raw for typed decoding
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	registry, err := infrastrategy.NewRegistryWithDefaults()
	require.NoError(t, err)

	methodRepo := persistence.NewGormMethodRepository(db, registry)
	providerRepo := persistence.NewGormProviderRepository(db)
	limitRepo := persistence.NewGormProductLimitRepository(db)
	orderRepo := persistence.NewGormPaymentOrderRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	countRepo := persistence.NewGormStockCountRepository(db)
	statusReader, err := persistence.NewSQLStockStatusReader(db)
	require.NoError(t, err)

	methodHandler := NewMethodHandler(
		serviceapp.NewMethodService(methodRepo, providerRepo, limitRepo, registry, nil),
		registry,
	)
	providerHandler := NewProviderHandler(serviceapp.NewProviderService(providerRepo))
	checkoutHandler := NewCheckoutHandler(serviceapp.NewCheckoutService(methodRepo, limitRepo, nil, serviceapp.CheckoutConfig{}))
	paymentHandler := NewPaymentHandler(serviceapp.NewPaymentService(orderRepo, methodRepo, nil, nil))
	supplierHandler := NewSupplierHandler(
		supplyapp.NewSupplierService(supplierRepo),
		supplyapp.NewStockService(supplierRepo, countRepo, statusReader, nil, nil, nil, supplyapp.StockConfig{}),
	)

	shopID := uuid.New()
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ShopContext(middleware.ShopConfig{DefaultShopID: shopID}))

	api := r.Group("/api/v1")
	api.GET("/component-kinds", methodHandler.ListComponentKinds)
	api.POST("/methods", methodHandler.Create)
	api.GET("/methods", methodHandler.List)
	api.GET("/methods/:id", methodHandler.GetByID)
	api.PUT("/methods/:id", methodHandler.Update)
	api.DELETE("/methods/:id", methodHandler.Delete)
	api.POST("/methods/:id/enable", methodHandler.Enable)
	api.POST("/methods/:id/disable", methodHandler.Disable)
	api.POST("/methods/:id/components", methodHandler.AddComponent)
	api.PUT("/methods/:id/components", methodHandler.ReplaceComponents)
	api.DELETE("/methods/:id/components/:position", methodHandler.RemoveComponent)
	api.PUT("/products/:id/method-limits", methodHandler.SetProductLimits)

	api.POST("/providers", providerHandler.Create)
	api.GET("/providers", providerHandler.List)
	api.GET("/providers/:id", providerHandler.GetByID)
	api.POST("/providers/:id/services", providerHandler.AddService)
	api.POST("/providers/:id/enable", providerHandler.Enable)
	api.POST("/providers/:id/disable", providerHandler.Disable)

	api.POST("/checkout/methods/:kind", checkoutHandler.AvailableMethods)
	api.POST("/checkout/validate", checkoutHandler.Validate)
	api.POST("/checkout/lines", checkoutHandler.Lines)

	api.POST("/payments", paymentHandler.CreateOrder)
	api.GET("/payments/:orderId", paymentHandler.GetOrder)
	api.POST("/payments/:orderId/process", paymentHandler.Process)
	api.POST("/payments/:orderId/return", paymentHandler.Return)

	api.POST("/suppliers", supplierHandler.Create)
	api.GET("/suppliers", supplierHandler.List)
	api.GET("/suppliers/:id", supplierHandler.GetByID)
	api.PUT("/suppliers/:id", supplierHandler.Update)
	api.POST("/suppliers/:id/stock-statuses", supplierHandler.GetStockStatuses)
	api.POST("/suppliers/:id/orderability", supplierHandler.Orderability)
	api.POST("/suppliers/:id/orders/placed", supplierHandler.OrderPlaced)
	api.POST("/suppliers/:id/orders/canceled", supplierHandler.OrderCanceled)
	api.POST("/suppliers/:id/orders/shipped", supplierHandler.OrderShipped)
	api.GET("/suppliers/:id/stock/:productId", supplierHandler.GetStockStatus)
	api.POST("/suppliers/:id/stock/:productId/adjust", supplierHandler.AdjustStock)
	api.PUT("/suppliers/:id/stock/:productId/alert-limit", supplierHandler.SetAlertLimit)
	api.GET("/suppliers/:id/stock/:productId/adjustments", supplierHandler.ListAdjustments)

	return &testApp{router: r, shopID: shopID}
}

// do sends a JSON request; extra headers come in name/value pairs
func (a *testApp) do(t *testing.T, method, path string, body any, headers ...string) (int, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

// data decodes the response payload into v
func (r apiResponse) data(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v))
}

// createMethod creates a method and returns its ID
func (a *testApp) createMethod(t *testing.T, req map[string]any) uuid.UUID {
	t.Helper()
	if _, ok := req["tax_class_id"]; !ok {
		req["tax_class_id"] = uuid.New().String()
	}
	status, resp := a.do(t, http.MethodPost, "/methods", req)
	require.Equal(t, http.StatusCreated, status, "%+v", resp.Error)

	var method serviceapp.MethodResponse
	resp.data(t, &method)
	return method.ID
}

func fixedCost(price string) map[string]any {
	return map[string]any{"kind": "fixed_cost", "config": map[string]any{"price": price}}
}

func maxWeight(weight string) map[string]any {
	return map[string]any{"kind": "weight_limits", "config": map[string]any{"max_weight": weight}}
}
