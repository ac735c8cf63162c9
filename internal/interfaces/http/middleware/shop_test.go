package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shopCapture struct {
	ginShop  string
	ctxShop  string
	ctxActor string
	actor    string
}

func newShopRouter(cfg ShopConfig, captured *shopCapture) *gin.Engine {
	router := gin.New()
	router.Use(ShopContext(cfg))
	handler := func(c *gin.Context) {
		captured.ginShop = GetShopID(c)
		captured.ctxShop = logger.GetShopID(c.Request.Context())
		captured.ctxActor = logger.GetActor(c.Request.Context())
		captured.actor = GetActor(c)
		c.Status(http.StatusOK)
	}
	router.GET("/api/v1/methods", handler)
	router.GET("/health", handler)
	return router
}

func TestShopContext_Header(t *testing.T) {
	shopID := uuid.New()

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedCode   string
	}{
		{name: "valid shop header", header: shopID.String(), expectedStatus: http.StatusOK},
		{name: "missing header without default", expectedStatus: http.StatusBadRequest, expectedCode: dto.ErrCodeShopRequired},
		{name: "malformed header", header: "shop-1", expectedStatus: http.StatusBadRequest, expectedCode: dto.ErrCodeShopInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured shopCapture
			router := newShopRouter(DefaultShopConfig(), &captured)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/methods", nil)
			if tt.header != "" {
				req.Header.Set(ShopHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.header, captured.ginShop)
				assert.Equal(t, tt.header, captured.ctxShop)
				return
			}
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Empty(t, captured.ginShop)
		})
	}
}

func TestShopContext_DefaultShop(t *testing.T) {
	defaultShop := uuid.New()
	cfg := DefaultShopConfig()
	cfg.DefaultShopID = defaultShop

	t.Run("fills in the default", func(t *testing.T) {
		var captured shopCapture
		w := httptest.NewRecorder()
		newShopRouter(cfg, &captured).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/methods", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, defaultShop.String(), captured.ginShop)
	})

	t.Run("header wins over default", func(t *testing.T) {
		other := uuid.New()
		var captured shopCapture
		req := httptest.NewRequest(http.MethodGet, "/api/v1/methods", nil)
		req.Header.Set(ShopHeaderKey, other.String())
		w := httptest.NewRecorder()
		newShopRouter(cfg, &captured).ServeHTTP(w, req)

		assert.Equal(t, other.String(), captured.ginShop)
	})
}

func TestShopContext_SkipPaths(t *testing.T) {
	var captured shopCapture
	w := httptest.NewRecorder()
	newShopRouter(DefaultShopConfig(), &captured).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, captured.ginShop)
}

func TestShopContext_Actor(t *testing.T) {
	var captured shopCapture
	req := httptest.NewRequest(http.MethodGet, "/api/v1/methods", nil)
	req.Header.Set(ShopHeaderKey, uuid.New().String())
	req.Header.Set(ActorHeaderKey, strings.Repeat("a", MaxActorLength+10))
	w := httptest.NewRecorder()
	newShopRouter(DefaultShopConfig(), &captured).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, captured.actor, MaxActorLength)
	assert.Equal(t, captured.actor, captured.ctxActor)
}

func TestGetShopUUID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetShopUUID(c))

	id := uuid.New()
	c.Set(ShopIDKey, id.String())
	assert.Equal(t, id, GetShopUUID(c))
}
