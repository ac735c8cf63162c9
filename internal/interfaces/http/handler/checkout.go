package handler

import (
	"github.com/gin-gonic/gin"
	serviceapp "github.com/shopcore/backend/internal/application/service"
	"github.com/shopcore/backend/internal/domain/service"
)

// CheckoutHandler prices and validates shipping and payment methods for a basket
type CheckoutHandler struct {
	BaseHandler
	checkoutService *serviceapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *serviceapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// AvailableMethods godoc
// @ID           listAvailableCheckoutMethods
// @Summary      List available methods for a basket
// @Description  Returns the enabled methods of the kind that can serve the basket, priced and sorted by name
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        kind path string true "Method kind" Enums(shipping, payment)
// @Param        request body serviceapp.SourceRequest true "Basket"
// @Success      200 {object} APIResponse[[]serviceapp.AvailableMethodResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /checkout/methods/{kind} [post]
func (h *CheckoutHandler) AvailableMethods(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	kind := service.MethodKind(c.Param("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Method kind must be shipping or payment")
		return
	}

	var req serviceapp.SourceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	methods, err := h.checkoutService.AvailableMethods(c.Request.Context(), shopID, kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, methods)
}

// Validate godoc
// @ID           validateCheckout
// @Summary      Validate the selected methods
// @Description  Reports every reason the selected shipping and payment methods cannot serve the basket
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        request body serviceapp.SourceRequest true "Basket with selected methods"
// @Success      200 {object} APIResponse[serviceapp.ValidationResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /checkout/validate [post]
func (h *CheckoutHandler) Validate(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}

	var req serviceapp.SourceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.checkoutService.Validate(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Lines godoc
// @ID           checkoutLines
// @Summary      Build the final order lines
// @Description  Returns the basket lines followed by the priced lines of the selected methods
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        request body serviceapp.SourceRequest true "Basket with selected methods"
// @Success      200 {object} APIResponse[serviceapp.LinesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse "A selected method is not available"
// @Router       /checkout/lines [post]
func (h *CheckoutHandler) Lines(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}

	var req serviceapp.SourceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lines, err := h.checkoutService.FinalLines(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lines)
}
