package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
	"github.com/shopcore/backend/internal/interfaces/http/middleware"
)

// BaseHandler holds the response helpers shared by every handler
type BaseHandler struct{}

func requestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, requestID(c)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError writes err as an error envelope. Domain errors keep their code
// and status; method violations carried by err become details. Anything else
// is a 500 whose message does not leak err.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var (
		domainErr  *shared.DomainError
		violations strategy.ValidationErrors
	)
	hasViolations := errors.As(err, &violations) && len(violations) > 0

	switch {
	case errors.As(err, &domainErr):
		code := dto.NormalizeErrorCode(domainErr.Code)
		var details []dto.ValidationDetail
		if hasViolations {
			details = toDetails(violations)
		}
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithDetails(code, domainErr.Message, requestID(c), details))
	case hasViolations:
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Validation failed", requestID(c), toDetails(violations)))
	default:
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}

func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// shopID returns the shop resolved by ShopContext, answering
// ERR_SHOP_REQUIRED when there is none.
func (h *BaseHandler) shopID(c *gin.Context) (uuid.UUID, bool) {
	shopID := middleware.GetShopUUID(c)
	if shopID == uuid.Nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeShopRequired, "Shop could not be resolved")
		return uuid.Nil, false
	}
	return shopID, true
}

func (h *BaseHandler) uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// intQuery reads a positive integer query parameter
func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func toDetails(violations strategy.ValidationErrors) []dto.ValidationDetail {
	details := make([]dto.ValidationDetail, len(violations))
	for i, v := range violations {
		details[i] = dto.ValidationDetail{Field: v.Field, Message: v.Message, Tag: v.Code}
	}
	return details
}
