package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CheckoutMetrics records how methods behave at checkout and how supplier
// stock evolves. Every recording method is safe on a nil receiver so callers
// can run without metrics configured.
type CheckoutMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	methodsEvaluated   *Counter
	methodsUnavailable *Counter
	costDuration       *Histogram
	paymentsDeferred   *Counter
	stockAdjustments   *Counter
	stockAlerts        *Counter

	lowStockCount *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	stockProvider StockMetricsProvider
}

// StockMetricsProvider reports stock health without the telemetry layer
// depending on the supply domain.
type StockMetricsProvider interface {
	// LowStockCounts returns, per shop, the number of stock counts whose
	// logical count is below their alert limit.
	LowStockCounts(ctx context.Context) (map[uuid.UUID]int64, error)
}

// CheckoutMetricsConfig holds configuration for checkout metrics.
type CheckoutMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StockProvider StockMetricsProvider
}

// NewCheckoutMetrics creates a new CheckoutMetrics instance.
func NewCheckoutMetrics(cfg CheckoutMetricsConfig) (*CheckoutMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cm := &CheckoutMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		stockProvider: cfg.StockProvider,
	}

	var err error
	if cm.methodsEvaluated, err = NewCounter(cfg.Meter,
		"shop_checkout_methods_evaluated_total",
		"Number of service methods evaluated for a source",
		"{methods}"); err != nil {
		return nil, err
	}
	if cm.methodsUnavailable, err = NewCounter(cfg.Meter,
		"shop_checkout_methods_unavailable_total",
		"Number of service methods rejected with an unavailability reason",
		"{methods}"); err != nil {
		return nil, err
	}
	if cm.costDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "shop_checkout_cost_duration_seconds",
		Description: "Time spent computing the costs of one method",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if cm.paymentsDeferred, err = NewCounter(cfg.Meter,
		"shop_payments_deferred_total",
		"Number of payments moved to deferred by a payment return",
		"{payments}"); err != nil {
		return nil, err
	}
	if cm.stockAdjustments, err = NewCounter(cfg.Meter,
		"shop_stock_adjustments_total",
		"Number of manual stock adjustments",
		"{adjustments}"); err != nil {
		return nil, err
	}
	if cm.stockAlerts, err = NewCounter(cfg.Meter,
		"shop_stock_alerts_total",
		"Number of stock alert limit crossings",
		"{alerts}"); err != nil {
		return nil, err
	}
	if cm.lowStockCount, err = NewGauge(cfg.Meter,
		"shop_stock_low_count",
		"Number of stock counts below their alert limit",
		"{products}"); err != nil {
		return nil, err
	}

	return cm, nil
}

// RecordMethodEvaluated counts one availability check of a method.
// reason is empty when the method was available.
func (cm *CheckoutMetrics) RecordMethodEvaluated(ctx context.Context, shopID uuid.UUID, kind, reason string) {
	if cm == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrShopID.String(shopID.String()),
		AttrMethodKind.String(kind),
	}
	cm.methodsEvaluated.Inc(ctx, attrs...)
	if reason != "" {
		cm.methodsUnavailable.Inc(ctx, append(attrs, AttrUnavailable.String(reason))...)
	}
}

// RecordCostDuration records how long one method's cost computation took.
func (cm *CheckoutMetrics) RecordCostDuration(ctx context.Context, kind string, d time.Duration) {
	if cm == nil {
		return
	}
	cm.costDuration.RecordDuration(ctx, d, AttrMethodKind.String(kind))
}

// RecordPaymentDeferred counts a payment that moved to deferred.
func (cm *CheckoutMetrics) RecordPaymentDeferred(ctx context.Context, shopID uuid.UUID) {
	if cm == nil {
		return
	}
	cm.paymentsDeferred.Inc(ctx, AttrShopID.String(shopID.String()))
}

// RecordStockAdjustment counts a manual stock adjustment.
func (cm *CheckoutMetrics) RecordStockAdjustment(ctx context.Context, shopID, supplierID uuid.UUID) {
	if cm == nil {
		return
	}
	cm.stockAdjustments.Inc(ctx,
		AttrShopID.String(shopID.String()),
		AttrSupplierID.String(supplierID.String()),
	)
}

// RecordStockAlert counts an alert crossing. throttled is true when an
// alert for the same stock count already went out inside the window.
func (cm *CheckoutMetrics) RecordStockAlert(ctx context.Context, shopID, productID uuid.UUID, throttled bool) {
	if cm == nil {
		return
	}
	cm.stockAlerts.Inc(ctx,
		AttrShopID.String(shopID.String()),
		AttrProductID.String(productID.String()),
		attribute.Bool("throttled", throttled),
	)
}

// RecordLowStockCount records the number of stock counts under their alert limit.
func (cm *CheckoutMetrics) RecordLowStockCount(ctx context.Context, shopID uuid.UUID, count int64) {
	if cm == nil {
		return
	}
	cm.lowStockCount.Record(ctx, count, AttrShopID.String(shopID.String()))
}

// StartPeriodicCollection starts collecting the low stock gauge every
// interval (default 5 minutes). It returns immediately; call Stop to end it.
func (cm *CheckoutMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if cm == nil {
		return
	}
	cm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go cm.runPeriodicCollection(ctx, interval)
	})
}

func (cm *CheckoutMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cm.CollectStockMetrics(ctx)

	for {
		select {
		case <-cm.stopChan:
			cm.logger.Info("Stopping periodic checkout metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			cm.CollectStockMetrics(ctx)
		}
	}
}

// CollectStockMetrics queries the stock provider once and records the gauges.
func (cm *CheckoutMetrics) CollectStockMetrics(ctx context.Context) {
	if cm == nil || cm.stockProvider == nil {
		return
	}

	counts, err := cm.stockProvider.LowStockCounts(ctx)
	if err != nil {
		cm.logger.Warn("Failed to collect low stock counts", zap.Error(err))
		return
	}
	for shopID, count := range counts {
		cm.RecordLowStockCount(ctx, shopID, count)
	}
}

// Stop stops the periodic collection.
func (cm *CheckoutMetrics) Stop() {
	if cm == nil {
		return
	}
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewCheckoutMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
