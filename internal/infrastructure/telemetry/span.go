package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer of application spans
const TracerName = "shopcore"

// Span attribute keys used by the application services
const (
	SpanAttrShopID         = "shop_id"
	SpanAttrMethodID       = "method_id"
	SpanAttrMethodKind     = "method_kind"
	SpanAttrPaymentOrderID = "payment_order_id"
	SpanAttrSupplierID     = "supplier_id"
	SpanAttrProductID      = "product_id"
	SpanAttrQuantity       = "quantity"
	SpanAttrAmount         = "amount"
)

// SpanOption configures a span started by StartSpan
type SpanOption func(*spanConfig)

type spanConfig struct {
	attributes []attribute.KeyValue
	kind       trace.SpanKind
}

// WithAttribute adds a start attribute to the span
func WithAttribute(key string, value any) SpanOption {
	return func(c *spanConfig) {
		c.attributes = append(c.attributes, toAttribute(key, value))
	}
}

// WithSpanKind overrides the internal span kind
func WithSpanKind(kind trace.SpanKind) SpanOption {
	return func(c *spanConfig) {
		c.kind = kind
	}
}

// StartSpan starts a span on the global tracer. The caller ends it.
func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, trace.Span) {
	cfg := spanConfig{kind: trace.SpanKindInternal}
	for _, opt := range opts {
		opt(&cfg)
	}
	start := []trace.SpanStartOption{trace.WithSpanKind(cfg.kind)}
	if len(cfg.attributes) > 0 {
		start = append(start, trace.WithAttributes(cfg.attributes...))
	}
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name, start...)
}

// StartServiceSpan starts a span named "<service>.<operation>", e.g.
// "checkout.available_methods".
func StartServiceSpan(ctx context.Context, service, operation string, opts ...SpanOption) (context.Context, trace.Span) {
	return StartSpan(ctx, service+"."+operation, opts...)
}

// SetAttributes sets alternating key/value pairs on the span. Pairs with a
// non-string key are skipped.
//
//	telemetry.SetAttributes(span, "method_id", id, "available", true)
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}
	span.SetAttributes(pairs(keyValues)...)
}

// SetAttribute sets a single attribute on the span
func SetAttribute(span trace.Span, key string, value any) {
	if span == nil {
		return
	}
	span.SetAttributes(toAttribute(key, value))
}

// AddEvent records a timestamped event with alternating key/value pairs
func AddEvent(span trace.Span, name string, keyValues ...any) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(pairs(keyValues)...))
}

// RecordError records err on the span and marks it failed
func RecordError(span trace.Span, err error, opts ...trace.EventOption) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err, opts...)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks the span successful
func SetOK(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// SpanFromContext returns the active span, or a non-recording one
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// ContextWithSpan returns ctx carrying span
func ContextWithSpan(ctx context.Context, span trace.Span) context.Context {
	return trace.ContextWithSpan(ctx, span)
}

// GetTraceID returns the hex trace id of the active span, or ""
func GetTraceID(ctx context.Context) string {
	id := trace.SpanContextFromContext(ctx).TraceID()
	if !id.IsValid() {
		return ""
	}
	return id.String()
}

// GetSpanID returns the hex span id of the active span, or ""
func GetSpanID(ctx context.Context) string {
	id := trace.SpanContextFromContext(ctx).SpanID()
	if !id.IsValid() {
		return ""
	}
	return id.String()
}

func pairs(keyValues []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	return attrs
}

// toAttribute keeps numbers and booleans typed. Ids, money amounts and
// decimals go through their String form so no precision is lost.
func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case time.Duration:
		return attribute.Int64(key, v.Milliseconds())
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	case error:
		return attribute.String(key, v.Error())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
