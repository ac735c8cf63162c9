package telemetry

import (
	"go.opentelemetry.io/contrib/bridges/otelzap"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapOTELCore returns a core that forwards entries at or above level to
// the OTLP logs pipeline. A nil provider yields a no-op core.
func NewZapOTELCore(provider *sdklog.LoggerProvider, name string, level zapcore.Level) zapcore.Core {
	if provider == nil {
		return zapcore.NewNopCore()
	}
	return &levelFilterCore{
		Core:     otelzap.NewCore(name, otelzap.WithLoggerProvider(provider)),
		minLevel: level,
	}
}

// BridgeLogger tees log into the OTLP logs pipeline so every entry still
// reaches its original output and is exported to the collector. Without an
// enabled logs provider log is returned unchanged.
func (p *Providers) BridgeLogger(log *zap.Logger, level zapcore.Level) *zap.Logger {
	if !p.LogsEnabled() {
		return log
	}
	otelCore := NewZapOTELCore(p.logs, p.config.ServiceName, level)
	return log.WithOptions(zap.WrapCore(func(base zapcore.Core) zapcore.Core {
		return zapcore.NewTee(base, otelCore)
	}))
}

// levelFilterCore drops entries below minLevel; the otelzap core has no
// level of its own.
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
