package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
		"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetricByName(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func attrValue(dp metricdata.DataPoint[int64], key string) (string, bool) {
	for _, attr := range dp.Attributes.ToSlice() {
		if string(attr.Key) == key {
			return attr.Value.Emit(), true
		}
	}
	return "", false
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(nil, nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPMetrics_RecordsInstruments(t *testing.T) {
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetrics(mp.Meter("http.server"), nil))
	router.POST("/api/v1/checkout/validate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"valid": true})
	})

	body := `{"currency":"EUR","lines":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	rm := collectMetrics(t, reader)
	for _, name := range []string{
		"http_server_request_total",
		"http_server_request_duration_seconds",
		"http_server_request_size_bytes",
		"http_server_response_size_bytes",
		"http_server_active_requests",
	} {
		assert.NotNil(t, findMetricByName(rm, name), name)
	}

	active := findMetricByName(rm, "http_server_active_requests").Data.(metricdata.Sum[int64])
	require.Len(t, active.DataPoints, 1)
	assert.Equal(t, int64(0), active.DataPoints[0].Value)
}

func TestHTTPMetrics_ShopAndRouteAttributes(t *testing.T) {
	mp, reader := setupTestMeter(t)
	shopID := uuid.New()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ShopIDKey, shopID.String())
		c.Next()
	})
	router.Use(HTTPMetrics(mp.Meter("http.server"), nil))
	router.GET("/api/v1/methods/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/methods/"+uuid.NewString(), nil))
	}

	rm := collectMetrics(t, reader)
	total := findMetricByName(rm, "http_server_request_total")
	require.NotNil(t, total)

	sum, ok := total.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	route, _ := attrValue(sum.DataPoints[0], "http.route")
	assert.Equal(t, "/api/v1/methods/:id", route)
	shop, found := attrValue(sum.DataPoints[0], "shop_id")
	assert.True(t, found)
	assert.Equal(t, shopID.String(), shop)
}

func TestHTTPMetrics_StatusCodesSplit(t *testing.T) {
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetrics(mp.Meter("http.server"), nil))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	sum := findMetricByName(collectMetrics(t, reader), "http_server_request_total").Data.(metricdata.Sum[int64])
	assert.Len(t, sum.DataPoints, 2)
}

func TestHTTPMetrics_LatencyByStatusClass(t *testing.T) {
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetrics(mp.Meter("http.server"), nil))
	router.GET("/a", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/b", func(c *gin.Context) { c.Status(http.StatusConflict) })

	for _, path := range []string{"/a", "/b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	latency := findMetricByName(collectMetrics(t, reader), "http_server_request_duration_seconds")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)
	for _, dp := range hist.DataPoints {
		class, found := dp.Attributes.Value("http.status_class")
		assert.True(t, found)
		assert.Equal(t, "4xx", class.AsString())
		_, hasShop := dp.Attributes.Value("shop_id")
		assert.False(t, hasShop)
	}
}

func TestRoutePattern_Unmatched(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, "unknown", routePattern(c))
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{200: "2xx", 204: "2xx", 302: "3xx", 404: "4xx", 422: "4xx", 500: "5xx", 101: "1xx", 0: "other", 600: "other"}
	for code, expected := range cases {
		assert.Equal(t, expected, statusClass(code), code)
	}
}
