package router

import (
	"github.com/shopcore/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers mounted under the API prefix
type Handlers struct {
	Method   *handler.MethodHandler
	Provider *handler.ProviderHandler
	Checkout *handler.CheckoutHandler
	Payment  *handler.PaymentHandler
	Supplier *handler.SupplierHandler
	System   *handler.SystemHandler
}

// apiGroups builds the route groups of the service API
func apiGroups(h Handlers) []*Group {
	// Methods and their behavior components
	methods := NewGroup("methods", "/methods")
	methods.POST("", h.Method.Create).
		GET("", h.Method.List).
		GET("/:id", h.Method.GetByID).
		PUT("/:id", h.Method.Update).
		DELETE("/:id", h.Method.Delete).
		POST("/:id/enable", h.Method.Enable).
		POST("/:id/disable", h.Method.Disable).
		POST("/:id/components", h.Method.AddComponent).
		PUT("/:id/components", h.Method.ReplaceComponents).
		DELETE("/:id/components/:position", h.Method.RemoveComponent)

	catalog := NewGroup("catalog", "")
	catalog.GET("/component-kinds", h.Method.ListComponentKinds).
		PUT("/products/:id/method-limits", h.Method.SetProductLimits)

	providers := NewGroup("providers", "/providers")
	providers.POST("", h.Provider.Create).
		GET("", h.Provider.List).
		GET("/:id", h.Provider.GetByID).
		POST("/:id/services", h.Provider.AddService).
		POST("/:id/enable", h.Provider.Enable).
		POST("/:id/disable", h.Provider.Disable)

	checkout := NewGroup("checkout", "/checkout")
	checkout.POST("/methods/:kind", h.Checkout.AvailableMethods).
		POST("/validate", h.Checkout.Validate).
		POST("/lines", h.Checkout.Lines)

	payments := NewGroup("payments", "/payments")
	payments.POST("", h.Payment.CreateOrder).
		GET("/:orderId", h.Payment.GetOrder).
		POST("/:orderId/process", h.Payment.Process).
		POST("/:orderId/return", h.Payment.Return)

	suppliers := NewGroup("suppliers", "/suppliers")
	suppliers.POST("", h.Supplier.Create).
		GET("", h.Supplier.List).
		GET("/:id", h.Supplier.GetByID).
		PUT("/:id", h.Supplier.Update).
		POST("/:id/stock-statuses", h.Supplier.GetStockStatuses).
		POST("/:id/orderability", h.Supplier.Orderability)

	// Order hooks keep logical and physical counts in step with the order flow
	suppliers.Group("orders", "/:id/orders").
		POST("/placed", h.Supplier.OrderPlaced).
		POST("/canceled", h.Supplier.OrderCanceled).
		POST("/shipped", h.Supplier.OrderShipped)

	suppliers.Group("stock", "/:id/stock/:productId").
		GET("", h.Supplier.GetStockStatus).
		POST("/adjust", h.Supplier.AdjustStock).
		PUT("/alert-limit", h.Supplier.SetAlertLimit).
		GET("/adjustments", h.Supplier.ListAdjustments)

	system := NewGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	return []*Group{methods, catalog, providers, checkout, payments, suppliers, system}
}

// RegisterAPI mounts every API group on r. Call r.Setup afterwards.
func RegisterAPI(r *Router, h Handlers) {
	r.Mount(apiGroups(h)...)
}
