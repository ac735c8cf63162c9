package event

import (
	"context"

	"github.com/shopcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogHandler writes every event it receives to the log as JSON.
// Subscribed without event types it acts as an audit trail for the bus.
type LogHandler struct {
	codec      *Codec
	logger     *zap.Logger
	eventTypes []string
}

// NewLogHandler creates a handler logging the given event types, or all events
func NewLogHandler(codec *Codec, logger *zap.Logger, eventTypes ...string) *LogHandler {
	return &LogHandler{
		codec:      codec,
		logger:     logger.Named("events"),
		eventTypes: eventTypes,
	}
}

func (h *LogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := h.codec.Encode(event)
	if err != nil {
		return err
	}
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("shop_id", event.ShopID().String()),
		zap.ByteString("payload", payload),
	)
	return nil
}

func (h *LogHandler) EventTypes() []string {
	return h.eventTypes
}

var _ shared.EventHandler = (*LogHandler)(nil)
