package logger

import (
	"context"

	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	shopIDKey
	actorKey
)

// WithContext attaches log to ctx
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok && log != nil {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in ctx and on the returned logger
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return withField(ctx, log, requestIDKey, "request_id", requestID)
}

// WithShopID stores the shop a request acts on
func WithShopID(ctx context.Context, log *zap.Logger, shopID string) (context.Context, *zap.Logger) {
	return withField(ctx, log, shopIDKey, "shop_id", shopID)
}

// WithActor stores the staff member or process performing the operation.
// Stock adjustments record it as their author.
func WithActor(ctx context.Context, log *zap.Logger, actor string) (context.Context, *zap.Logger) {
	return withField(ctx, log, actorKey, "actor", actor)
}

func withField(ctx context.Context, log *zap.Logger, key ctxKey, field, value string) (context.Context, *zap.Logger) {
	if log == nil {
		log = FromContext(ctx)
	}
	log = log.With(zap.String(field, value))
	ctx = context.WithValue(ctx, key, value)
	return WithContext(ctx, log), log
}

func GetRequestID(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

func GetShopID(ctx context.Context) string { return stringValue(ctx, shopIDKey) }

// GetActor returns "" for anonymous calls
func GetActor(ctx context.Context) string { return stringValue(ctx, actorKey) }

func stringValue(ctx context.Context, key ctxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// ContextLogger logs through the logger stored in a context and adds the
// ids of the active span, so application code only needs the context:
//
//	logger.L(ctx).Info("method created", zap.String("method_id", id))
type ContextLogger struct {
	ctx context.Context
	log *zap.Logger
}

// L returns the ContextLogger of ctx
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, log: FromContext(ctx)}
}

// With returns a child logger carrying fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, log: cl.log.With(fields...)}
}

// Zap returns the underlying logger with the span ids attached
func (cl *ContextLogger) Zap() *zap.Logger {
	traceID := telemetry.GetTraceID(cl.ctx)
	if traceID == "" {
		return cl.log
	}
	return cl.log.With(
		zap.String("trace_id", traceID),
		zap.String("span_id", telemetry.GetSpanID(cl.ctx)),
	)
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.Zap().Debug(msg, fields...) }

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) { cl.Zap().Info(msg, fields...) }

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) { cl.Zap().Warn(msg, fields...) }

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.Zap().Error(msg, fields...) }
