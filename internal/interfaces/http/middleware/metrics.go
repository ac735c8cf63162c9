package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

var sizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}

type httpInstruments struct {
	requests  *telemetry.Counter
	latency   *telemetry.Histogram
	reqBytes  *telemetry.Histogram
	respBytes *telemetry.Histogram
	inFlight  metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	var (
		in   httpInstruments
		err  error
		errs []error
	)
	in.requests, err = telemetry.NewCounter(meter, "http_server_request_total", "HTTP requests served", "{request}")
	errs = append(errs, err)
	in.latency, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	errs = append(errs, err)
	in.reqBytes, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_size_bytes",
		Description: "HTTP request body size",
		Unit:        "By",
		Boundaries:  sizeBuckets,
	})
	errs = append(errs, err)
	in.respBytes, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "HTTP response body size",
		Unit:        "By",
		Boundaries:  sizeBuckets,
	})
	errs = append(errs, err)
	in.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests being served"),
		metric.WithUnit("{request}"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &in, nil
}

func passThrough(c *gin.Context) {
	c.Next()
}

// HTTPMetrics counts requests per route, status and shop, and records
// latency and body sizes per route and status class. A nil meter, or one
// whose instruments cannot be created, disables the middleware.
func HTTPMetrics(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	if meter == nil {
		return passThrough
	}
	in, err := newHTTPInstruments(meter)
	if err != nil {
		if log != nil {
			log.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		in.inFlight.Add(ctx, 1)
		c.Next()
		in.inFlight.Add(ctx, -1)

		route := routePattern(c)
		status := c.Writer.Status()
		counted := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusCode.Int(status),
		}
		if shop := GetShopID(c); shop != "" {
			counted = append(counted, telemetry.AttrShopID.String(shop))
		}
		in.requests.Inc(ctx, counted...)

		// histograms skip shop and exact status to bound cardinality
		sampled := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			attrStatusClass.String(statusClass(status)),
		}
		in.latency.RecordDuration(ctx, time.Since(start), sampled...)
		if n := c.Request.ContentLength; n > 0 {
			in.reqBytes.Record(ctx, float64(n), sampled...)
		}
		if n := c.Writer.Size(); n > 0 {
			in.respBytes.Record(ctx, float64(n), sampled...)
		}
	}
}

const attrStatusClass = attribute.Key("http.status_class")

// routePattern is the matched route such as "/api/v1/methods/:id"
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}
