package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PaymentService drives the payment flow of placed orders
type PaymentService struct {
	orderRepo  service.PaymentOrderRepository
	methodRepo service.MethodRepository
	events     shared.EventPublisher
	metrics    *telemetry.CheckoutMetrics
}

// NewPaymentService creates a new PaymentService. events and metrics may be nil.
func NewPaymentService(
	orderRepo service.PaymentOrderRepository,
	methodRepo service.MethodRepository,
	events shared.EventPublisher,
	metrics *telemetry.CheckoutMetrics,
) *PaymentService {
	return &PaymentService{
		orderRepo:  orderRepo,
		methodRepo: methodRepo,
		events:     events,
		metrics:    metrics,
	}
}

// CreateOrder registers an unpaid order for a payment method
func (s *PaymentService) CreateOrder(ctx context.Context, shopID uuid.UUID, req CreatePaymentOrderRequest) (*PaymentOrderResponse, error) {
	exists, err := s.orderRepo.ExistsByReference(ctx, shopID, req.Reference)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Order with this reference already exists")
	}
	if _, err := s.paymentMethod(ctx, shopID, req.PaymentMethodID); err != nil {
		return nil, err
	}

	order, err := service.NewPaymentOrder(shopID, req.Reference, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("payment order created",
		zap.String("order_id", order.ID.String()),
		zap.String("reference", order.Reference),
	)
	return ToPaymentOrderResponse(order, true), nil
}

// GetOrder retrieves a payment order by ID
func (s *PaymentService) GetOrder(ctx context.Context, shopID, id uuid.UUID) (*PaymentOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	return ToPaymentOrderResponse(order, false), nil
}

// Process returns where the customer should be sent to pay the order
func (s *PaymentService) Process(ctx context.Context, shopID, orderID uuid.UUID, req ProcessPaymentRequest) (*service.PaymentProcessResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "process")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentOrderID, orderID.String())

	order, method, err := s.load(ctx, shopID, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp, err := method.PaymentProcessResponse(order, service.PaymentURLs{
		PaymentURL: req.PaymentURL,
		ReturnURL:  req.ReturnURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return &resp, nil
}

// Return handles the customer coming back from the payment flow
func (s *PaymentService) Return(ctx context.Context, shopID, orderID uuid.UUID) (*PaymentOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "return")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentOrderID, orderID.String())

	order, method, err := s.load(ctx, shopID, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	changed, err := method.ProcessPaymentReturn(order)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if changed {
		if err := s.orderRepo.Save(ctx, order); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		publishPending(ctx, s.events, order)
		s.metrics.RecordPaymentDeferred(ctx, shopID)
		logger.L(ctx).Info("payment deferred",
			zap.String("order_id", order.ID.String()),
			zap.String("method", method.Name),
		)
	}
	telemetry.SetOK(span)
	return ToPaymentOrderResponse(order, changed), nil
}

func (s *PaymentService) load(ctx context.Context, shopID, orderID uuid.UUID) (*service.PaymentOrder, *service.Method, error) {
	order, err := s.orderRepo.FindByID(ctx, shopID, orderID)
	if err != nil {
		return nil, nil, err
	}
	method, err := s.paymentMethod(ctx, shopID, order.PaymentMethodID)
	if err != nil {
		return nil, nil, err
	}
	return order, method, nil
}

func (s *PaymentService) paymentMethod(ctx context.Context, shopID, id uuid.UUID) (*service.Method, error) {
	method, err := s.methodRepo.FindByID(ctx, shopID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_METHOD", "Payment method not found")
		}
		return nil, err
	}
	if method.Kind != service.MethodKindPayment {
		return nil, shared.NewDomainError("INVALID_METHOD", "Method is not a payment method")
	}
	return method, nil
}
