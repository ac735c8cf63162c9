package supply

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockConfig holds stock bookkeeping settings
type StockConfig struct {
	Currency            valueobject.Currency
	AlertThrottleWindow time.Duration
	AdjustmentHistory   int
}

// StockService keeps supplier stock counts and raises low stock alerts
type StockService struct {
	supplierRepo supply.SupplierRepository
	countRepo    supply.StockCountRepository
	statusReader supply.StockStatusReader
	throttle     shared.ThrottleStore
	events       shared.EventPublisher
	metrics      *telemetry.CheckoutMetrics
	config       StockConfig
	now          func() time.Time
}

// NewStockService creates a new StockService. throttle, events and metrics may be nil.
func NewStockService(
	supplierRepo supply.SupplierRepository,
	countRepo supply.StockCountRepository,
	statusReader supply.StockStatusReader,
	throttle shared.ThrottleStore,
	events shared.EventPublisher,
	metrics *telemetry.CheckoutMetrics,
	config StockConfig,
) *StockService {
	if config.Currency == "" {
		config.Currency = valueobject.DefaultCurrency
	}
	if config.AlertThrottleWindow <= 0 {
		config.AlertThrottleWindow = shared.DefaultThrottleWindow
	}
	if config.AdjustmentHistory <= 0 {
		config.AdjustmentHistory = 50
	}
	return &StockService{
		supplierRepo: supplierRepo,
		countRepo:    countRepo,
		statusReader: statusReader,
		throttle:     throttle,
		events:       events,
		metrics:      metrics,
		config:       config,
		now:          time.Now,
	}
}

// AdjustStock books a manual stock change and returns the new status
func (s *StockService) AdjustStock(ctx context.Context, shopID, supplierID, productID uuid.UUID, req AdjustStockRequest) (*StockStatusResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "adjust")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrShopID, shopID.String(),
		telemetry.SpanAttrSupplierID, supplierID.String(),
		telemetry.SpanAttrProductID, productID.String(),
		telemetry.SpanAttrQuantity, req.Delta.String(),
	)

	if _, err := s.supplierRepo.FindByID(ctx, shopID, supplierID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	count, err := s.loadOrCreate(ctx, shopID, supplierID, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var purchasePrice valueobject.Money
	if req.PurchasePrice != nil {
		purchasePrice = valueobject.MoneyOf(*req.PurchasePrice, count.StockValue.Currency())
	}
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = logger.GetActor(ctx)
	}
	adjustment, err := count.AdjustStock(req.Delta, purchasePrice, createdBy)
	if err != nil {
		return nil, err
	}

	if err := s.countRepo.Save(ctx, count, adjustment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.checkAlert(ctx, count)
	s.publishPending(ctx, count)
	s.metrics.RecordStockAdjustment(ctx, shopID, supplierID)

	logger.L(ctx).Info("stock adjusted",
		zap.String("supplier_id", supplierID.String()),
		zap.String("product_id", productID.String()),
		zap.String("delta", req.Delta.String()),
		zap.String("logical_count", count.LogicalCount.String()),
	)
	telemetry.SetOK(span)
	return ToStockStatusResponse(count.Status()), nil
}

// GetStatus returns the stock of one product. Products never counted report zero stock.
func (s *StockService) GetStatus(ctx context.Context, shopID, supplierID, productID uuid.UUID) (*StockStatusResponse, error) {
	count, err := s.countRepo.FindByProduct(ctx, shopID, supplierID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ToStockStatusResponse(emptyStatus(supplierID, productID, s.config.Currency)), nil
		}
		return nil, err
	}
	return ToStockStatusResponse(count.Status()), nil
}

// GetStatuses returns the stock of several products in request order
func (s *StockService) GetStatuses(ctx context.Context, shopID, supplierID uuid.UUID, productIDs []uuid.UUID) ([]StockStatusResponse, error) {
	statuses, err := s.statusReader.StockStatuses(ctx, shopID, supplierID, productIDs)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]supply.StockStatus, len(statuses))
	for _, st := range statuses {
		byProduct[st.ProductID] = st
	}

	responses := make([]StockStatusResponse, 0, len(productIDs))
	for _, id := range productIDs {
		st, ok := byProduct[id]
		if !ok {
			st = emptyStatus(supplierID, id, s.config.Currency)
		}
		responses = append(responses, *ToStockStatusResponse(st))
	}
	return responses, nil
}

// SetAlertLimit sets or clears the alert limit and alerts at once if the
// stock is already below it
func (s *StockService) SetAlertLimit(ctx context.Context, shopID, supplierID, productID uuid.UUID, req SetAlertLimitRequest) (*StockStatusResponse, error) {
	if _, err := s.supplierRepo.FindByID(ctx, shopID, supplierID); err != nil {
		return nil, err
	}
	count, err := s.loadOrCreate(ctx, shopID, supplierID, productID)
	if err != nil {
		return nil, err
	}
	if err := count.SetAlertLimit(req.AlertLimit); err != nil {
		return nil, err
	}
	if err := s.countRepo.Save(ctx, count, nil); err != nil {
		return nil, err
	}
	s.checkAlert(ctx, count)
	s.publishPending(ctx, count)
	return ToStockStatusResponse(count.Status()), nil
}

// Adjustments lists the most recent adjustments of a product. A non-positive
// limit uses the configured history length.
func (s *StockService) Adjustments(ctx context.Context, shopID, supplierID, productID uuid.UUID, limit int) ([]StockAdjustmentResponse, error) {
	if limit <= 0 || limit > s.config.AdjustmentHistory {
		limit = s.config.AdjustmentHistory
	}
	adjustments, err := s.countRepo.FindAdjustments(ctx, shopID, supplierID, productID, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]StockAdjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		responses[i] = ToStockAdjustmentResponse(a)
	}
	return responses, nil
}

// Orderability reports whether the supplier can deliver the requested quantity
func (s *StockService) Orderability(ctx context.Context, shopID, supplierID uuid.UUID, req OrderabilityRequest) (*OrderabilityResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, shopID, supplierID)
	if err != nil {
		return nil, err
	}
	count, err := s.countRepo.FindByProduct(ctx, shopID, supplierID, req.ProductID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		count = nil
	}

	mode := supply.ShippingModeShipped
	if req.ShippingMode != "" {
		mode = supply.ShippingMode(req.ShippingMode)
	}
	errs := supply.OrderabilityErrors(supplier, count, mode, req.Quantity)
	if errs == nil {
		errs = strategy.ValidationErrors{}
	}
	return &OrderabilityResponse{Orderable: len(errs) == 0, Errors: errs}, nil
}

// OrderPlaced reserves stock for an order line
func (s *StockService) OrderPlaced(ctx context.Context, shopID, supplierID uuid.UUID, req OrderStockRequest) (*StockStatusResponse, error) {
	return s.applyOrder(ctx, shopID, supplierID, req, "placed", (*supply.StockCount).OrderPlaced)
}

// OrderCanceled releases reserved stock
func (s *StockService) OrderCanceled(ctx context.Context, shopID, supplierID uuid.UUID, req OrderStockRequest) (*StockStatusResponse, error) {
	return s.applyOrder(ctx, shopID, supplierID, req, "canceled", (*supply.StockCount).OrderCanceled)
}

// OrderShipped removes shipped stock from the shelf
func (s *StockService) OrderShipped(ctx context.Context, shopID, supplierID uuid.UUID, req OrderStockRequest) (*StockStatusResponse, error) {
	return s.applyOrder(ctx, shopID, supplierID, req, "shipped", (*supply.StockCount).OrderShipped)
}

func (s *StockService) applyOrder(
	ctx context.Context,
	shopID, supplierID uuid.UUID,
	req OrderStockRequest,
	action string,
	apply func(*supply.StockCount, decimal.Decimal) error,
) (*StockStatusResponse, error) {
	if _, err := s.supplierRepo.FindByID(ctx, shopID, supplierID); err != nil {
		return nil, err
	}
	count, err := s.loadOrCreate(ctx, shopID, supplierID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := apply(count, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.countRepo.Save(ctx, count, nil); err != nil {
		return nil, err
	}
	s.checkAlert(ctx, count)
	s.publishPending(ctx, count)

	logger.L(ctx).Debug("order stock updated",
		zap.String("action", action),
		zap.String("product_id", req.ProductID.String()),
		zap.String("quantity", req.Quantity.String()),
	)
	return ToStockStatusResponse(count.Status()), nil
}

func (s *StockService) loadOrCreate(ctx context.Context, shopID, supplierID, productID uuid.UUID) (*supply.StockCount, error) {
	count, err := s.countRepo.FindByProduct(ctx, shopID, supplierID, productID)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return supply.NewStockCount(shopID, supplierID, productID, s.config.Currency)
}

// checkAlert raises AlertLimitReached when the count is below its limit.
// The event says whether an alert already went out within the throttle window.
func (s *StockService) checkAlert(ctx context.Context, count *supply.StockCount) {
	if !count.BelowAlertLimit() {
		return
	}
	now := s.now()
	dispatched := false
	if s.throttle != nil {
		key := count.AlertKey()
		last, err := s.throttle.LastRun(ctx, key)
		if err != nil {
			logger.L(ctx).Warn("failed to read alert throttle", zap.String("key", key), zap.Error(err))
		}
		dispatched = !last.IsZero() && now.Sub(last) < s.config.AlertThrottleWindow
		// every alert moves the mark so the flag always refers to the previous one
		if err := s.throttle.Mark(ctx, key, now, s.config.AlertThrottleWindow); err != nil {
			logger.L(ctx).Warn("failed to mark alert throttle", zap.String("key", key), zap.Error(err))
		}
	}
	count.AddDomainEvent(supply.NewAlertLimitReachedEvent(count, dispatched))
	s.metrics.RecordStockAlert(ctx, count.ShopID, count.ProductID, dispatched)
}

func (s *StockService) publishPending(ctx context.Context, count *supply.StockCount) {
	pending := count.GetDomainEvents()
	defer count.ClearDomainEvents()
	if s.events == nil || len(pending) == 0 {
		return
	}
	if err := s.events.Publish(ctx, pending...); err != nil {
		logger.L(ctx).Warn("failed to publish domain events", zap.Error(err))
	}
}
