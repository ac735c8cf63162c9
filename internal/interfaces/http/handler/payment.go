package handler

import (
	"github.com/gin-gonic/gin"
	serviceapp "github.com/shopcore/backend/internal/application/service"
)

// PaymentHandler drives the payment flow of placed orders
type PaymentHandler struct {
	BaseHandler
	paymentService *serviceapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *serviceapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreateOrder godoc
// @ID           createPaymentOrder
// @Summary      Register an order for payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        request body serviceapp.CreatePaymentOrderRequest true "Order"
// @Success      201 {object} APIResponse[serviceapp.PaymentOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /payments [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}

	var req serviceapp.CreatePaymentOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetOrder godoc
// @ID           getPaymentOrder
// @Summary      Get a payment order
// @Tags         payments
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        orderId path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[serviceapp.PaymentOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /payments/{orderId} [get]
func (h *PaymentHandler) GetOrder(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	orderID, ok := h.uuidParam(c, "orderId", "order")
	if !ok {
		return
	}

	order, err := h.paymentService.GetOrder(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Process godoc
// @ID           processPayment
// @Summary      Start the payment of an order
// @Description  Asks the payment method where the customer goes next. The redirect URL may be empty.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        orderId path string true "Order ID" format(uuid)
// @Param        request body serviceapp.ProcessPaymentRequest true "Flow URLs"
// @Success      200 {object} APIResponse[service.PaymentProcessResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /payments/{orderId}/process [post]
func (h *PaymentHandler) Process(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	orderID, ok := h.uuidParam(c, "orderId", "order")
	if !ok {
		return
	}

	var req serviceapp.ProcessPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.Process(c.Request.Context(), shopID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Return godoc
// @ID           returnPayment
// @Summary      Handle the customer's return from payment
// @Description  Lets the payment method update the order payment status
// @Tags         payments
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        orderId path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[serviceapp.PaymentOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /payments/{orderId}/return [post]
func (h *PaymentHandler) Return(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	orderID, ok := h.uuidParam(c, "orderId", "order")
	if !ok {
		return
	}

	order, err := h.paymentService.Return(c.Request.Context(), shopID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
