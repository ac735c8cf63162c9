package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig controls how a gorm connection is instrumented
type DBConfig struct {
	System             string        // "postgresql" or "sqlite"
	Tracing            bool          // emit otelgorm spans
	IncludeQueryVars   bool          // keep bound values in span statements, dev only
	SlowQueryThreshold time.Duration // default 200ms

	// TracerProvider overrides the global provider for otelgorm spans
	TracerProvider trace.TracerProvider
}

const queryStartKey = "telemetry:query_start"

// DBInstrumentation holds the query instruments registered on a connection
type DBInstrumentation struct {
	config DBConfig
	logger *zap.Logger

	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	pool           metric.Registration
}

// InstrumentDB registers tracing and metrics on db. A nil meter skips the
// metrics; cfg.Tracing false skips otelgorm. Slow queries are flagged on the
// active span either way.
func InstrumentDB(db *gorm.DB, meter metric.Meter, cfg DBConfig, logger *zap.Logger) (*DBInstrumentation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.System == "" {
		cfg.System = "postgresql"
	}
	d := &DBInstrumentation{config: cfg, logger: logger}

	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.System), otelgorm.WithoutMetrics()}
		if !cfg.IncludeQueryVars {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if cfg.TracerProvider != nil {
			opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, err
		}
	}

	if meter != nil {
		if err := d.createInstruments(db, meter); err != nil {
			return nil, err
		}
	}

	if err := d.registerCallbacks(db); err != nil {
		return nil, err
	}

	logger.Info("Database instrumentation registered",
		zap.String("db_system", cfg.System),
		zap.Bool("tracing", cfg.Tracing),
		zap.Bool("metrics", meter != nil),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return d, nil
}

func (d *DBInstrumentation) createInstruments(db *gorm.DB, meter metric.Meter) error {
	var err error
	if d.queryTotal, err = NewCounter(meter, "db_query_total",
		"Database queries by operation", "{query}"); err != nil {
		return err
	}
	if d.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total",
		"Database queries slower than the slow query threshold", "{query}"); err != nil {
		return err
	}
	if d.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Pooled connections by state"), metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	maxConnections, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	d.pool, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(maxConnections, int64(stats.MaxOpenConnections))
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(connections, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		return nil
	}, connections, maxConnections)
	return err
}

// registerCallbacks runs the after hooks ahead of otelgorm's so the query
// span is still recording when it gets annotated.
func (d *DBInstrumentation) registerCallbacks(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", before),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", before),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", before),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", before),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("telemetry:after_create", d.after("INSERT")),
		cb.Query().After("gorm:query").Before("otel:after:select").Register("telemetry:after_query", d.after("SELECT")),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("telemetry:after_update", d.after("UPDATE")),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("telemetry:after_delete", d.after("DELETE")),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("telemetry:after_row", d.after("")),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("telemetry:after_raw", d.after("")),
	)
}

// after builds the callback for one operation; an empty operation is read
// from the statement.
func (d *DBInstrumentation) after(operation string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		op := operation
		if op == "" {
			op = DetectOperation(tx.Statement.SQL.String())
		}
		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		var elapsed time.Duration
		if v, ok := tx.InstanceGet(queryStartKey); ok {
			if start, ok := v.(time.Time); ok {
				elapsed = time.Since(start)
			}
		}
		slow := elapsed > d.config.SlowQueryThreshold
		table := tx.Statement.Table
		if table == "" {
			table = "unknown"
		}

		if d.queryTotal != nil {
			d.queryTotal.Inc(ctx, AttrDBOperation.String(op))
			d.queryDuration.RecordDuration(ctx, elapsed, AttrDBOperation.String(op))
			if slow {
				d.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
			}
		}
		d.annotateSpan(ctx, tx, table, elapsed, slow)
	}
}

func (d *DBInstrumentation) annotateSpan(ctx context.Context, tx *gorm.DB, table string, elapsed time.Duration, slow bool) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("db.sql.table", table),
		attribute.Int64("db.rows_affected", tx.Statement.RowsAffected),
	)
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
		span.SetStatus(codes.Error, tx.Error.Error())
	}
	if slow {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", d.config.SlowQueryThreshold.Milliseconds()),
		))
	}
}

// Stop unregisters the pool observer
func (d *DBInstrumentation) Stop() {
	if d == nil || d.pool == nil {
		return
	}
	if err := d.pool.Unregister(); err != nil {
		d.logger.Debug("Failed to unregister pool metrics", zap.Error(err))
	}
	d.pool = nil
}

// DetectOperation returns the SQL verb of a raw statement
func DetectOperation(sql string) string {
	verb := strings.ToUpper(strings.TrimSpace(sql))
	if i := strings.IndexAny(verb, " \t\n("); i > 0 {
		verb = verb[:i]
	}
	switch verb {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return verb
	case "WITH":
		return "SELECT"
	default:
		return "OTHER"
	}
}
