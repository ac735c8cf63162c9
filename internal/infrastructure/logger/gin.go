package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// gin.Context key written by the RequestID middleware
const ginRequestIDKey = "request_id"

// GinMiddleware stores a request scoped logger in the request context and
// logs one line per request once the handlers are done. 5xx log at error
// and 4xx at warn.
func GinMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLog := log.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		ctx := WithContext(c.Request.Context(), reqLog)
		if id := c.GetString(ginRequestIDKey); id != "" {
			ctx, _ = WithRequestID(ctx, reqLog, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if ua := c.Request.UserAgent(); ua != "" {
			fields = append(fields, zap.String("user_agent", ua))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		// Downstream middleware may have added the shop and actor
		done := FromContext(c.Request.Context())
		if ce := done.Check(statusLevel(status), "HTTP request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func statusLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery turns a handler panic into a logged 500
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString(ginRequestIDKey)
			// The request logger already carries the request fields
			reqLog, ok := c.Request.Context().Value(loggerKey).(*zap.Logger)
			if !ok {
				reqLog = log.With(
					zap.String("request_id", requestID),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
				)
			}
			reqLog.Error("Panic recovered", zap.Any("panic", rec), zap.Stack("stacktrace"))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "ERR_INTERNAL",
					"message":    "internal server error",
					"request_id": requestID,
				},
			})
		}()
		c.Next()
	}
}
