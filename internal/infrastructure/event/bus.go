package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopcore/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/shopcore/backend/internal/infrastructure/event"

// InMemoryEventBus dispatches domain events synchronously to subscribed handlers.
// Handler failures are logged and never abort the publishing operation.
type InMemoryEventBus struct {
	registry  *HandlerRegistry
	logger    *zap.Logger
	tracer    trace.Tracer
	running   atomic.Bool
	wg        sync.WaitGroup
	published atomic.Int64
	failed    atomic.Int64
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// Publish hands every event to the handlers registered for its type
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.wg.Add(1)
	defer b.wg.Done()

	for _, event := range events {
		b.publishOne(ctx, event)
	}
	return nil
}

// PublishPending publishes and clears the pending events of the given aggregates
func (b *InMemoryEventBus) PublishPending(ctx context.Context, aggregates ...shared.AggregateRoot) error {
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := b.Publish(ctx, events...); err != nil {
			return err
		}
		agg.ClearDomainEvents()
	}
	return nil
}

func (b *InMemoryEventBus) publishOne(ctx context.Context, event shared.DomainEvent) {
	ctx, span := b.tracer.Start(ctx, "event.publish "+event.EventType(),
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("event.type", event.EventType()),
			attribute.String("event.id", event.EventID().String()),
			attribute.String("event.aggregate_type", event.AggregateType()),
			attribute.String("shop.id", event.ShopID().String()),
		),
	)
	defer span.End()

	b.published.Add(1)
	for _, handler := range b.registry.Handlers(event.EventType()) {
		if err := b.dispatchToHandler(ctx, handler, event); err != nil {
			b.failed.Add(1)
			span.RecordError(err)
			span.SetStatus(codes.Error, "handler failed")
			b.logger.Error("handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.String("shop_id", event.ShopID().String()),
				zap.Error(err),
			)
		}
	}
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start marks the bus as running
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Strings("event_types", b.registry.EventTypes()))
	return nil
}

// Stop waits for in-flight publishes or until ctx is done
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.logger.Info("event bus stopped",
		zap.Int64("published", b.published.Load()),
		zap.Int64("handler_failures", b.failed.Load()),
	)
	return nil
}

// IsRunning reports whether Start has been called without a matching Stop
func (b *InMemoryEventBus) IsRunning() bool {
	return b.running.Load()
}

// Stats returns the number of published events and failed handler calls
func (b *InMemoryEventBus) Stats() (published, failed int64) {
	return b.published.Load(), b.failed.Load()
}

func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
