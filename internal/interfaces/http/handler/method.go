package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	serviceapp "github.com/shopcore/backend/internal/application/service"
	infrastrategy "github.com/shopcore/backend/internal/infrastructure/strategy"
)

// ComponentCatalog lists the behavior component kinds a method may carry
type ComponentCatalog interface {
	Describe() []infrastrategy.ComponentInfo
}

// MethodHandler handles shipping and payment method administration
type MethodHandler struct {
	BaseHandler
	methodService *serviceapp.MethodService
	catalog       ComponentCatalog
}

// NewMethodHandler creates a new MethodHandler
func NewMethodHandler(methodService *serviceapp.MethodService, catalog ComponentCatalog) *MethodHandler {
	return &MethodHandler{
		methodService: methodService,
		catalog:       catalog,
	}
}

// Create godoc
// @ID           createMethod
// @Summary      Create a method
// @Description  Create a shipping or payment method with its behavior components
// @Tags         methods
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        request body serviceapp.CreateMethodRequest true "Method data"
// @Success      201 {object} APIResponse[serviceapp.MethodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /methods [post]
func (h *MethodHandler) Create(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}

	var req serviceapp.CreateMethodRequest
	if !h.bindJSON(c, &req) {
		return
	}

	method, err := h.methodService.Create(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, method)
}

// List godoc
// @ID           listMethods
// @Summary      List methods
// @Description  List methods of the shop with filtering and pagination
// @Tags         methods
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        kind query string false "Method kind" Enums(shipping, payment)
// @Param        status query string false "Status" Enums(enabled, disabled)
// @Param        search query string false "Search in identifier and name"
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        sort_by query string false "Sort field" default(name)
// @Param        sort_desc query bool false "Sort descending"
// @Success      200 {object} APIResponse[[]serviceapp.MethodListResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /methods [get]
func (h *MethodHandler) List(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}

	var filter serviceapp.MethodListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	methods, total, err := h.methodService.List(c.Request.Context(), shopID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, methods, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getMethodById
// @Summary      Get method by ID
// @Tags         methods
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Method ID" format(uuid)
// @Success      200 {object} APIResponse[serviceapp.MethodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /methods/{id} [get]
func (h *MethodHandler) GetByID(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "method")
	if !ok {
		return
	}

	method, err := h.methodService.GetByID(c.Request.Context(), shopID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, method)
}

// Update godoc
// @ID           updateMethod
// @Summary      Update a method
// @Description  Update descriptive fields, provider binding and delivery time. Omitted fields are unchanged.
// @Tags         methods
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Method ID" format(uuid)
// @Param        request body serviceapp.UpdateMethodRequest true "Method update"
// @Success      200 {object} APIResponse[serviceapp.MethodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /methods/{id} [put]
func (h *MethodHandler) Update(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "method")
	if !ok {
		return
	}

	var req serviceapp.UpdateMethodRequest
	if !h.bindJSON(c, &req) {
		return
	}

	method, err := h.methodService.Update(c.Request.Context(), shopID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, method)
}

// Enable godoc
// @ID           enableMethod
// @Summary      Enable a method
// @Tags         methods
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Method ID" format(uuid)
// @Success      200 {object} APIResponse[serviceapp.MethodResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /methods/{id}/enable [post]
func (h *MethodHandler) Enable(c *gin.Context) {
	h.changeStatus(c, h.methodService.Enable)
}

// Disable godoc
// @ID           disableMethod
// @Summary      Disable a method
// @Tags         methods
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Method ID" format(uuid)
// @Success      200 {object} APIResponse[serviceapp.MethodResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /methods/{id}/disable [post]
func (h *MethodHandler) Disable(c *gin.Context) {
	h.changeStatus(c, h.methodService.Disable)
}

func (h *MethodHandler) changeStatus(c *gin.Context, apply func(context.Context, uuid.UUID, uuid.UUID) (*serviceapp.MethodResponse, error)) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "method")
	if !ok {
		return
	}

	method, err := apply(c.Request.Context(), shopID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, method)
}

// AddComponent godoc
// @ID           addMethodComponent
// @Summary      Append a behavior component
// @Description  Append a component to the method. The config is validated by the component kind.
// @Tags         methods
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Method ID" format(uuid)
// @Param        request body serviceapp.ComponentRequest true "Component"
// @Success      200 {object} APIResponse[serviceapp.MethodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /methods/{id}/components [post]
func (h *MethodHandler) AddComponent(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "method")
	if !ok {
		return
	}

	var req serviceapp.ComponentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	method, err := h.methodService.AddComponent(c.Request.Context(), shopID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, method)
}

// ReplaceComponents godoc
// @ID           replaceMethodComponents
// @Summary      Replace behavior components
// @Description  Replace the whole ordered component list of the method
// @Tags         methods
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Method ID" format(uuid)
// @Param        request body serviceapp.ReplaceComponentsRequest true "Components"
// @Success      200 {object} APIResponse[serviceapp.MethodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /methods/{id}/components [put]
func (h *MethodHandler) ReplaceComponents(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "method")
	if !ok {
		return
	}

	var req serviceapp.ReplaceComponentsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	method, err := h.methodService.ReplaceComponents(c.Request.Context(), shopID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, method)
}

// RemoveComponent godoc
// @ID           removeMethodComponent
// @Summary      Remove a behavior component
// @Tags         methods
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Method ID" format(uuid)
// @Param        position path int true "Component position"
// @Success      200 {object} APIResponse[serviceapp.MethodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /methods/{id}/components/{position} [delete]
func (h *MethodHandler) RemoveComponent(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "method")
	if !ok {
		return
	}
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 0 {
		h.BadRequest(c, "Invalid component position")
		return
	}

	method, err := h.methodService.RemoveComponent(c.Request.Context(), shopID, id, position)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, method)
}

// Delete godoc
// @ID           deleteMethod
// @Summary      Delete a method
// @Tags         methods
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Method ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /methods/{id} [delete]
func (h *MethodHandler) Delete(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "method")
	if !ok {
		return
	}

	if err := h.methodService.Delete(c.Request.Context(), shopID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetProductLimits godoc
// @ID           setProductMethodLimits
// @Summary      Restrict the methods of a product
// @Description  Limit the shipping and payment methods a basket containing the product may use
// @Tags         methods
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body serviceapp.SetProductLimitsRequest true "Limits"
// @Success      200 {object} APIResponse[serviceapp.ProductLimitsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id}/method-limits [put]
func (h *MethodHandler) SetProductLimits(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}

	var req serviceapp.SetProductLimitsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	limits, err := h.methodService.SetProductLimits(c.Request.Context(), shopID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, limits)
}

// ListComponentKinds godoc
// @ID           listComponentKinds
// @Summary      List behavior component kinds
// @Description  Returns every registered component kind with its strategy type
// @Tags         methods
// @Produce      json
// @Success      200 {object} APIResponse[[]infrastrategy.ComponentInfo]
// @Router       /component-kinds [get]
func (h *MethodHandler) ListComponentKinds(c *gin.Context) {
	h.Success(c, h.catalog.Describe())
}
