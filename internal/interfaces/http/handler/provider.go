package handler

import (
	"github.com/gin-gonic/gin"
	serviceapp "github.com/shopcore/backend/internal/application/service"
)

// ProviderHandler handles carriers and payment processors
type ProviderHandler struct {
	BaseHandler
	providerService *serviceapp.ProviderService
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(providerService *serviceapp.ProviderService) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
	}
}

// Create godoc
// @ID           createProvider
// @Summary      Create a service provider
// @Description  Create a carrier or payment processor with its service offerings
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        request body serviceapp.CreateProviderRequest true "Provider data"
// @Success      201 {object} APIResponse[serviceapp.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /providers [post]
func (h *ProviderHandler) Create(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}

	var req serviceapp.CreateProviderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	provider, err := h.providerService.Create(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, provider)
}

// List godoc
// @ID           listProviders
// @Summary      List service providers
// @Tags         providers
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        kind query string false "Provider kind" Enums(carrier, payment_processor)
// @Success      200 {object} APIResponse[[]serviceapp.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}

	providers, err := h.providerService.List(c.Request.Context(), shopID, c.Query("kind"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, providers)
}

// GetByID godoc
// @ID           getProviderById
// @Summary      Get service provider by ID
// @Tags         providers
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[serviceapp.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /providers/{id} [get]
func (h *ProviderHandler) GetByID(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "provider")
	if !ok {
		return
	}

	provider, err := h.providerService.GetByID(c.Request.Context(), shopID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, provider)
}

// AddService godoc
// @ID           addProviderService
// @Summary      Add a service offering
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Provider ID" format(uuid)
// @Param        request body serviceapp.AddServiceRequest true "Service"
// @Success      200 {object} APIResponse[serviceapp.ProviderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /providers/{id}/services [post]
func (h *ProviderHandler) AddService(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "provider")
	if !ok {
		return
	}

	var req serviceapp.AddServiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	provider, err := h.providerService.AddService(c.Request.Context(), shopID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, provider)
}

// Enable godoc
// @ID           enableProvider
// @Summary      Enable a service provider
// @Tags         providers
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[serviceapp.ProviderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /providers/{id}/enable [post]
func (h *ProviderHandler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// Disable godoc
// @ID           disableProvider
// @Summary      Disable a service provider
// @Description  Methods bound to a disabled provider are never available
// @Tags         providers
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[serviceapp.ProviderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /providers/{id}/disable [post]
func (h *ProviderHandler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *ProviderHandler) setEnabled(c *gin.Context, enabled bool) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "provider")
	if !ok {
		return
	}

	provider, err := h.providerService.SetEnabled(c.Request.Context(), shopID, id, enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, provider)
}
