package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func callSystem(t *testing.T, fn gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fn(c)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]interface{})
	return w, data
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		h := NewSystemHandler("shopcore", "1.0.0", stubPinger{})
		w, data := callSystem(t, h.Health)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", data["status"])
		assert.Equal(t, "up", data["database"])
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler("shopcore", "1.0.0", stubPinger{err: errors.New("connection refused")})
		w, data := callSystem(t, h.Health)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", data["status"])
		assert.Equal(t, "down", data["database"])
	})

	t.Run("no database", func(t *testing.T) {
		h := NewSystemHandler("shopcore", "1.0.0", nil)
		w, data := callSystem(t, h.Health)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "unconfigured", data["database"])
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("shopcore", "2.1.0", nil)
	assert.False(t, h.startTime.IsZero())

	w, data := callSystem(t, h.GetSystemInfo)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shopcore", data["name"])
	assert.Equal(t, "2.1.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}
