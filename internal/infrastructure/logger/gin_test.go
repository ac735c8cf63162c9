package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware_LogsByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			log, logs := observed(zapcore.InfoLevel)
			r := gin.New()
			r.Use(GinMiddleware(log))
			r.GET("/methods", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/methods?kind=shipping", nil))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, "HTTP request", entry.Message)
			fields := entry.ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, "GET", fields["method"])
			assert.Equal(t, "/methods", fields["path"])
			assert.Equal(t, "kind=shipping", fields["query"])
		})
	}
}

func TestGinMiddleware_RequestScopedLogger(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ginRequestIDKey, "req-9")
		c.Next()
	})
	r.Use(GinMiddleware(log))
	r.Use(func(c *gin.Context) {
		ctx, _ := WithShopID(c.Request.Context(), nil, "shop-1")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	var seenRequestID string
	r.GET("/quote", func(c *gin.Context) {
		seenRequestID = GetRequestID(c.Request.Context())
		L(c.Request.Context()).Info("quoting")
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/quote", nil))

	assert.Equal(t, "req-9", seenRequestID)
	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		fields := entry.ContextMap()
		assert.Equal(t, "req-9", fields["request_id"])
		assert.Equal(t, "shop-1", fields["shop_id"])
	}
}

func TestGinMiddleware_RecordsErrors(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)
	r := gin.New()
	r.Use(GinMiddleware(log))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusBadRequest)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap(), "errors")
}

func TestRecovery(t *testing.T) {
	log, logs := observed(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ginRequestIDKey, "req-p")
		c.Next()
	})
	r.Use(Recovery(log))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t,
		`{"success":false,"error":{"code":"ERR_INTERNAL","message":"internal server error","request_id":"req-p"}}`,
		w.Body.String())

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "boom", fields["panic"])
	assert.Equal(t, "req-p", fields["request_id"])
	assert.Equal(t, "/panic", fields["path"])
}

func TestRecovery_UsesRequestLogger(t *testing.T) {
	base, baseLogs := observed(zapcore.ErrorLevel)
	reqLog, reqLogs := observed(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(base))
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), reqLog))
		c.Next()
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, 0, baseLogs.Len())
	assert.Equal(t, 1, reqLogs.Len())
}
