package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	supplyapp "github.com/shopcore/backend/internal/application/supply"
)

// SupplierHandler handles suppliers and the stock they manage
type SupplierHandler struct {
	BaseHandler
	supplierService *supplyapp.SupplierService
	stockService    *supplyapp.StockService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *supplyapp.SupplierService, stockService *supplyapp.StockService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		stockService:    stockService,
	}
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        request body supplyapp.CreateSupplierRequest true "Supplier data"
// @Success      201 {object} APIResponse[supplyapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}

	var req supplyapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, supplier)
}

// List godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Success      200 {object} APIResponse[[]supplyapp.SupplierResponse]
// @Router       /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}

	suppliers, err := h.supplierService.List(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, suppliers)
}

// GetByID godoc
// @ID           getSupplierById
// @Summary      Get supplier by ID
// @Tags         suppliers
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[supplyapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "supplier")
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetByID(c.Request.Context(), shopID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Update godoc
// @ID           updateSupplier
// @Summary      Toggle stock management of a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body supplyapp.UpdateSupplierRequest true "Supplier update"
// @Success      200 {object} APIResponse[supplyapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "supplier")
	if !ok {
		return
	}

	var req supplyapp.UpdateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), shopID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// AdjustStock godoc
// @ID           adjustSupplierStock
// @Summary      Adjust the stock of a product
// @Description  Books a positive or negative delta. Positive deltas are valued at the purchase price.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        X-Actor header string false "Who makes the adjustment"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        productId path string true "Product ID" format(uuid)
// @Param        request body supplyapp.AdjustStockRequest true "Adjustment"
// @Success      200 {object} APIResponse[supplyapp.StockStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /suppliers/{id}/stock/{productId}/adjust [post]
func (h *SupplierHandler) AdjustStock(c *gin.Context) {
	shopID, supplierID, productID, ok := h.stockKey(c)
	if !ok {
		return
	}

	var req supplyapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status, err := h.stockService.AdjustStock(c.Request.Context(), shopID, supplierID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// GetStockStatus godoc
// @ID           getSupplierStockStatus
// @Summary      Get the stock of a product
// @Description  Products never counted report zero stock
// @Tags         stock
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[supplyapp.StockStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id}/stock/{productId} [get]
func (h *SupplierHandler) GetStockStatus(c *gin.Context) {
	shopID, supplierID, productID, ok := h.stockKey(c)
	if !ok {
		return
	}

	status, err := h.stockService.GetStatus(c.Request.Context(), shopID, supplierID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// GetStockStatuses godoc
// @ID           getSupplierStockStatuses
// @Summary      Get the stock of several products
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body supplyapp.StockStatusesRequest true "Products"
// @Success      200 {object} APIResponse[[]supplyapp.StockStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id}/stock-statuses [post]
func (h *SupplierHandler) GetStockStatuses(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	supplierID, ok := h.uuidParam(c, "id", "supplier")
	if !ok {
		return
	}

	var req supplyapp.StockStatusesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	statuses, err := h.stockService.GetStatuses(c.Request.Context(), shopID, supplierID, req.ProductIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, statuses)
}

// SetAlertLimit godoc
// @ID           setSupplierStockAlertLimit
// @Summary      Set the low stock alert limit
// @Description  A null limit clears the alert
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        productId path string true "Product ID" format(uuid)
// @Param        request body supplyapp.SetAlertLimitRequest true "Alert limit"
// @Success      200 {object} APIResponse[supplyapp.StockStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id}/stock/{productId}/alert-limit [put]
func (h *SupplierHandler) SetAlertLimit(c *gin.Context) {
	shopID, supplierID, productID, ok := h.stockKey(c)
	if !ok {
		return
	}

	var req supplyapp.SetAlertLimitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status, err := h.stockService.SetAlertLimit(c.Request.Context(), shopID, supplierID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// ListAdjustments godoc
// @ID           listSupplierStockAdjustments
// @Summary      List recent stock adjustments
// @Tags         stock
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        productId path string true "Product ID" format(uuid)
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200 {object} APIResponse[[]supplyapp.StockAdjustmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id}/stock/{productId}/adjustments [get]
func (h *SupplierHandler) ListAdjustments(c *gin.Context) {
	shopID, supplierID, productID, ok := h.stockKey(c)
	if !ok {
		return
	}

	adjustments, err := h.stockService.Adjustments(c.Request.Context(), shopID, supplierID, productID, intQuery(c, "limit", 0))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustments)
}

// Orderability godoc
// @ID           checkSupplierOrderability
// @Summary      Check whether a quantity can be ordered
// @Description  Lists the reasons the supplier cannot fill the quantity. Unmanaged suppliers always can.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body supplyapp.OrderabilityRequest true "Product and quantity"
// @Success      200 {object} APIResponse[supplyapp.OrderabilityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id}/orderability [post]
func (h *SupplierHandler) Orderability(c *gin.Context) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	supplierID, ok := h.uuidParam(c, "id", "supplier")
	if !ok {
		return
	}

	var req supplyapp.OrderabilityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.stockService.Orderability(c.Request.Context(), shopID, supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// OrderPlaced godoc
// @ID           supplierOrderPlaced
// @Summary      Reserve stock for a placed order
// @Description  Lowers the logical count of the product
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body supplyapp.OrderStockRequest true "Product and quantity"
// @Success      200 {object} APIResponse[supplyapp.StockStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id}/orders/placed [post]
func (h *SupplierHandler) OrderPlaced(c *gin.Context) {
	h.orderEvent(c, h.stockService.OrderPlaced)
}

// OrderCanceled godoc
// @ID           supplierOrderCanceled
// @Summary      Release stock of a canceled order
// @Description  Raises the logical count of the product
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body supplyapp.OrderStockRequest true "Product and quantity"
// @Success      200 {object} APIResponse[supplyapp.StockStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id}/orders/canceled [post]
func (h *SupplierHandler) OrderCanceled(c *gin.Context) {
	h.orderEvent(c, h.stockService.OrderCanceled)
}

// OrderShipped godoc
// @ID           supplierOrderShipped
// @Summary      Remove shipped stock
// @Description  Lowers the physical count of the product
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Shop-ID header string false "Shop ID"
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body supplyapp.OrderStockRequest true "Product and quantity"
// @Success      200 {object} APIResponse[supplyapp.StockStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /suppliers/{id}/orders/shipped [post]
func (h *SupplierHandler) OrderShipped(c *gin.Context) {
	h.orderEvent(c, h.stockService.OrderShipped)
}

func (h *SupplierHandler) orderEvent(c *gin.Context, apply func(context.Context, uuid.UUID, uuid.UUID, supplyapp.OrderStockRequest) (*supplyapp.StockStatusResponse, error)) {
	shopID, ok := h.shopID(c)
	if !ok {
		return
	}
	supplierID, ok := h.uuidParam(c, "id", "supplier")
	if !ok {
		return
	}

	var req supplyapp.OrderStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status, err := apply(c.Request.Context(), shopID, supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// stockKey resolves the shop, supplier and product of a stock route
func (h *SupplierHandler) stockKey(c *gin.Context) (shopID, supplierID, productID uuid.UUID, ok bool) {
	if shopID, ok = h.shopID(c); !ok {
		return
	}
	if supplierID, ok = h.uuidParam(c, "id", "supplier"); !ok {
		return
	}
	productID, ok = h.uuidParam(c, "productId", "product")
	return
}
