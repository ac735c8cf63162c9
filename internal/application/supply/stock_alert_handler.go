package supply

import (
	"context"
	"fmt"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/supply"
	"go.uber.org/zap"
)

// StockAlertHandler handles AlertLimitReached events and notifies the shop
// staff. Alerts already dispatched within the throttle window are dropped.
type StockAlertHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// StockAlertNotifier is the interface for sending stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert represents a low stock notification
type StockAlert struct {
	ShopID       string `json:"shop_id"`
	SupplierID   string `json:"supplier_id"`
	ProductID    string `json:"product_id"`
	LogicalCount string `json:"logical_count"`
	AlertLimit   string `json:"alert_limit"`
	AlertType    string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// NewStockAlertHandler creates a new handler for AlertLimitReached events
func NewStockAlertHandler(logger *zap.Logger) *StockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockAlertHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockAlertHandler) WithNotifier(notifier StockAlertNotifier) *StockAlertHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{supply.EventTypeAlertLimitReached}
}

// Handle processes an AlertLimitReachedEvent
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	alertEvent, ok := event.(*supply.AlertLimitReachedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			supply.EventTypeAlertLimitReached, event.EventType())
	}

	if alertEvent.DispatchedLast24Hours {
		h.logger.Debug("stock alert suppressed",
			zap.String("supplier_id", alertEvent.SupplierID.String()),
			zap.String("product_id", alertEvent.ProductID.String()),
		)
		return nil
	}

	alertType := "low_stock"
	if !alertEvent.LogicalCount.IsPositive() {
		alertType = "out_of_stock"
	}
	alert := StockAlert{
		ShopID:       event.ShopID().String(),
		SupplierID:   alertEvent.SupplierID.String(),
		ProductID:    alertEvent.ProductID.String(),
		LogicalCount: alertEvent.LogicalCount.String(),
		AlertLimit:   alertEvent.AlertLimit.String(),
		AlertType:    alertType,
	}

	h.logger.Warn("stock below alert limit",
		zap.String("shop_id", alert.ShopID),
		zap.String("supplier_id", alert.SupplierID),
		zap.String("product_id", alert.ProductID),
		zap.String("logical_count", alert.LogicalCount),
		zap.String("alert_limit", alert.AlertLimit),
	)

	if h.notifier != nil {
		// Notification failure does not fail event handling
		if err := h.notifier.SendAlert(ctx, alert); err != nil {
			h.logger.Error("failed to send stock alert notification",
				zap.String("product_id", alert.ProductID),
				zap.Error(err),
			)
		}
	}
	return nil
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)

// LoggingStockAlertNotifier writes alerts to the log
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("supplier_id", alert.SupplierID),
		zap.String("product_id", alert.ProductID),
		zap.String("logical_count", alert.LogicalCount),
		zap.String("alert_limit", alert.AlertLimit),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
