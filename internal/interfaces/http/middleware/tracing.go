package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds request IDs taken from headers
const MaxRequestIDLength = 128

type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing opens a server span per request through otelgin. Spans are named
// "METHOD route", e.g. "POST /api/v1/checkout/methods/:kind".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	serve := otelgin.Middleware(cfg.ServiceName)
	return func(c *gin.Context) {
		serve(c)
		annotateSpan(c)
	}
}

// TracingAttributeInjector copies request, shop and actor onto the span.
// It runs after ShopContext so the resolved shop is known.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		annotateSpan(c)
		c.Next()
	}
}

func annotateSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	attrs := make([]attribute.KeyValue, 0, 3)
	for key, value := range map[string]string{
		"request_id": getRequestID(c),
		"shop_id":    getTraceShopID(c),
		"actor":      GetActor(c),
	} {
		if value != "" {
			attrs = append(attrs, attribute.String(key, value))
		}
	}
	span.SetAttributes(attrs...)
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	id := c.GetHeader(RequestIDHeader)
	if len(id) > MaxRequestIDLength {
		id = id[:MaxRequestIDLength]
	}
	return id
}

// getTraceShopID prefers the resolved shop and only trusts a raw header that
// parses as a UUID.
func getTraceShopID(c *gin.Context) string {
	if id := GetShopID(c); id != "" {
		return id
	}
	header := c.GetHeader(ShopHeaderKey)
	if _, err := uuid.Parse(header); err != nil {
		return ""
	}
	return header
}

// SpanErrorMarker sets an error status on the spans of 4xx and 5xx
// responses. It belongs after Tracing in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		span := trace.SpanFromContext(c.Request.Context())
		if status < http.StatusBadRequest || !span.IsRecording() {
			return
		}
		span.SetStatus(codes.Error, http.StatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
