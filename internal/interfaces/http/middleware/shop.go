package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Shop context keys and headers
const (
	ShopIDKey      = "shop_id"
	ActorKey       = "actor"
	ShopHeaderKey  = "X-Shop-ID"
	ActorHeaderKey = "X-Actor"
	// MaxActorLength bounds the actor header copied into logs and stock history
	MaxActorLength = 128
)

// ShopConfig holds configuration for the shop middleware
type ShopConfig struct {
	// DefaultShopID is used when the request carries no X-Shop-ID header.
	// uuid.Nil makes the header mandatory.
	DefaultShopID uuid.UUID
	// SkipPaths are paths served without a shop (health checks)
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultShopConfig returns the shop middleware defaults
func DefaultShopConfig() ShopConfig {
	return ShopConfig{
		SkipPaths: []string{"/health", "/api/v1/health"},
	}
}

// ShopContext resolves the shop every API call is scoped to and stores it in
// both the gin and the request context. The optional X-Actor header names the
// operator recorded on stock adjustments.
func ShopContext(cfg ShopConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		shopID := cfg.DefaultShopID
		if header := c.GetHeader(ShopHeaderKey); header != "" {
			parsed, err := uuid.Parse(header)
			if err != nil {
				abortShop(c, dto.ErrCodeShopInvalid, "X-Shop-ID must be a UUID")
				return
			}
			shopID = parsed
		}
		if shopID == uuid.Nil {
			abortShop(c, dto.ErrCodeShopRequired, "X-Shop-ID header is required")
			return
		}

		c.Set(ShopIDKey, shopID.String())
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, log = logger.WithShopID(ctx, log, shopID.String())

		if actor := c.GetHeader(ActorHeaderKey); actor != "" {
			if len(actor) > MaxActorLength {
				actor = actor[:MaxActorLength]
			}
			c.Set(ActorKey, actor)
			ctx, _ = logger.WithActor(ctx, log, actor)
		}
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Shop identified", zap.String("shop_id", shopID.String()))
		}
		c.Next()
	}
}

func abortShop(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}

// GetShopID retrieves the shop ID from gin.Context
func GetShopID(c *gin.Context) string {
	return c.GetString(ShopIDKey)
}

// GetShopUUID retrieves the shop ID as UUID; uuid.Nil when no shop was resolved
func GetShopUUID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(GetShopID(c))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetActor returns the operator name sent with the request, if any
func GetActor(c *gin.Context) string {
	return c.GetString(ActorKey)
}
