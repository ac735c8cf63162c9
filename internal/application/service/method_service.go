package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ComponentCodec builds behavior components from stored (kind, config)
// pairs and encodes them back
type ComponentCodec interface {
	Build(kind string, config []byte) (service.BehaviorComponent, error)
	Encode(c service.BehaviorComponent) (string, []byte, error)
}

// MethodService handles shipping and payment method administration
type MethodService struct {
	methodRepo   service.MethodRepository
	providerRepo service.ProviderRepository
	limitRepo    service.ProductLimitRepository
	codec        ComponentCodec
	events       shared.EventPublisher
}

// NewMethodService creates a new MethodService
func NewMethodService(
	methodRepo service.MethodRepository,
	providerRepo service.ProviderRepository,
	limitRepo service.ProductLimitRepository,
	codec ComponentCodec,
	events shared.EventPublisher,
) *MethodService {
	return &MethodService{
		methodRepo:   methodRepo,
		providerRepo: providerRepo,
		limitRepo:    limitRepo,
		codec:        codec,
		events:       events,
	}
}

// Create creates a new method with its components
func (s *MethodService) Create(ctx context.Context, shopID uuid.UUID, req CreateMethodRequest) (*MethodResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "method", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrShopID, shopID.String(),
		telemetry.SpanAttrMethodKind, req.Kind,
	)

	kind := service.MethodKind(req.Kind)
	exists, err := s.methodRepo.ExistsByIdentifier(ctx, shopID, kind, req.Identifier)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("A %s method with identifier %q already exists", kind, req.Identifier))
	}

	method, err := service.NewMethod(shopID, kind, req.Identifier, req.Name, req.TaxClassID)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := method.Update(req.Name, req.Description, req.TaxClassID); err != nil {
			return nil, err
		}
	}
	if req.ProviderID != nil {
		if err := s.attachService(ctx, method, *req.ProviderID, req.ServiceIdentifier); err != nil {
			return nil, err
		}
	}
	if req.DeliveryTimeMinDays != nil || req.DeliveryTimeMaxDays != nil {
		if err := method.SetDeliveryTime(req.DeliveryTimeMinDays, req.DeliveryTimeMaxDays); err != nil {
			return nil, err
		}
	}
	components, err := s.buildComponents(req.Components)
	if err != nil {
		return nil, err
	}
	if err := method.ReplaceComponents(components); err != nil {
		return nil, err
	}
	if req.Enabled != nil && !*req.Enabled {
		if err := method.Disable(); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, method); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("method created",
		zap.String("method_id", method.ID.String()),
		zap.String("kind", string(method.Kind)),
		zap.String("identifier", method.Identifier),
		zap.Int("components", len(method.Components)),
	)
	telemetry.SetOK(span)
	return s.toResponse(method)
}

// GetByID retrieves a method with its components
func (s *MethodService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*MethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(method)
}

// List retrieves methods of a shop
func (s *MethodService) List(ctx context.Context, shopID uuid.UUID, filter MethodListFilter) ([]MethodListResponse, int64, error) {
	domainFilter := service.MethodFilter{
		Filter: shared.Filter{
			Search:  filter.Search,
			OrderBy: filter.SortBy,
			Desc:    filter.SortDesc,
			Filters: make(map[string]any),
		},
		Kind:   service.MethodKind(filter.Kind),
		Status: service.MethodStatus(filter.Status),
	}
	if filter.ProviderID != nil {
		domainFilter.Filters["provider_id"] = *filter.ProviderID
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		domainFilter.Page = filter.Page
		domainFilter.PageSize = filter.PageSize
	}

	methods, err := s.methodRepo.FindAll(ctx, shopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.methodRepo.Count(ctx, shopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MethodListResponse, len(methods))
	for i, m := range methods {
		responses[i] = ToMethodListResponse(m)
	}
	return responses, total, nil
}

// Update changes the descriptive fields, provider binding and delivery time
func (s *MethodService) Update(ctx context.Context, shopID, id uuid.UUID, req UpdateMethodRequest) (*MethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	name, description, taxClassID := method.Name, method.Description, method.TaxClassID
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.TaxClassID != nil {
		taxClassID = *req.TaxClassID
	}
	if err := method.Update(name, description, taxClassID); err != nil {
		return nil, err
	}

	if req.ProviderID != nil {
		serviceIdentifier := method.ServiceIdentifier
		if req.ServiceIdentifier != nil {
			serviceIdentifier = *req.ServiceIdentifier
		}
		if err := s.attachService(ctx, method, *req.ProviderID, serviceIdentifier); err != nil {
			return nil, err
		}
	}

	if req.DeliveryTimeMinDays != nil || req.DeliveryTimeMaxDays != nil {
		minDays, maxDays := method.DeliveryTimeMinDays, method.DeliveryTimeMaxDays
		if req.DeliveryTimeMinDays != nil {
			minDays = req.DeliveryTimeMinDays
		}
		if req.DeliveryTimeMaxDays != nil {
			maxDays = req.DeliveryTimeMaxDays
		}
		if err := method.SetDeliveryTime(minDays, maxDays); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, method); err != nil {
		return nil, err
	}
	return s.toResponse(method)
}

// Enable makes a method selectable at checkout
func (s *MethodService) Enable(ctx context.Context, shopID, id uuid.UUID) (*MethodResponse, error) {
	return s.changeStatus(ctx, shopID, id, (*service.Method).Enable)
}

// Disable hides a method from checkout
func (s *MethodService) Disable(ctx context.Context, shopID, id uuid.UUID) (*MethodResponse, error) {
	return s.changeStatus(ctx, shopID, id, (*service.Method).Disable)
}

func (s *MethodService) changeStatus(ctx context.Context, shopID, id uuid.UUID, apply func(*service.Method) error) (*MethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(method); err != nil {
		return nil, err
	}
	if err := s.save(ctx, method); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("method status changed",
		zap.String("method_id", method.ID.String()),
		zap.String("status", string(method.Status)),
	)
	return s.toResponse(method)
}

// AddComponent appends one component to a method
func (s *MethodService) AddComponent(ctx context.Context, shopID, id uuid.UUID, req ComponentRequest) (*MethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	component, err := s.codec.Build(req.Kind, req.Config)
	if err != nil {
		return nil, err
	}
	if err := method.AddComponent(component); err != nil {
		return nil, err
	}
	if err := s.save(ctx, method); err != nil {
		return nil, err
	}
	return s.toResponse(method)
}

// ReplaceComponents swaps the whole component list of a method
func (s *MethodService) ReplaceComponents(ctx context.Context, shopID, id uuid.UUID, req ReplaceComponentsRequest) (*MethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	components, err := s.buildComponents(req.Components)
	if err != nil {
		return nil, err
	}
	if err := method.ReplaceComponents(components); err != nil {
		return nil, err
	}
	if err := s.save(ctx, method); err != nil {
		return nil, err
	}
	return s.toResponse(method)
}

// RemoveComponent drops the component at position
func (s *MethodService) RemoveComponent(ctx context.Context, shopID, id uuid.UUID, position int) (*MethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if err := method.RemoveComponent(position); err != nil {
		return nil, err
	}
	if err := s.save(ctx, method); err != nil {
		return nil, err
	}
	return s.toResponse(method)
}

// Delete deletes a method and its components
func (s *MethodService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	if _, err := s.methodRepo.FindByID(ctx, shopID, id); err != nil {
		return err
	}
	if err := s.methodRepo.Delete(ctx, shopID, id); err != nil {
		return err
	}
	logger.L(ctx).Info("method deleted", zap.String("method_id", id.String()))
	return nil
}

// SetProductLimits replaces the method restrictions of a product. Every
// referenced method must exist in the shop and be of the matching kind.
func (s *MethodService) SetProductLimits(ctx context.Context, shopID, productID uuid.UUID, req SetProductLimitsRequest) (*ProductLimitsResponse, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if err := s.requireKind(ctx, shopID, service.MethodKindShipping, req.ShippingMethodIDs); err != nil {
		return nil, err
	}
	if err := s.requireKind(ctx, shopID, service.MethodKindPayment, req.PaymentMethodIDs); err != nil {
		return nil, err
	}

	limit := service.ProductMethodLimit{
		ShopID:               shopID,
		ProductID:            productID,
		LimitShippingMethods: req.LimitShippingMethods,
		LimitPaymentMethods:  req.LimitPaymentMethods,
		ShippingMethodIDs:    nonNilIDs(req.ShippingMethodIDs),
		PaymentMethodIDs:     nonNilIDs(req.PaymentMethodIDs),
	}
	if err := s.limitRepo.Save(ctx, limit); err != nil {
		return nil, err
	}
	return &ProductLimitsResponse{
		ProductID:            productID,
		LimitShippingMethods: limit.LimitShippingMethods,
		LimitPaymentMethods:  limit.LimitPaymentMethods,
		ShippingMethodIDs:    limit.ShippingMethodIDs,
		PaymentMethodIDs:     limit.PaymentMethodIDs,
	}, nil
}

func (s *MethodService) requireKind(ctx context.Context, shopID uuid.UUID, kind service.MethodKind, ids []uuid.UUID) error {
	for _, id := range ids {
		method, err := s.methodRepo.FindByID(ctx, shopID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Method %s not found", id))
			}
			return err
		}
		if method.Kind != kind {
			return shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Method %s is not a %s method", id, kind))
		}
	}
	return nil
}

func (s *MethodService) attachService(ctx context.Context, method *service.Method, providerID uuid.UUID, serviceIdentifier string) error {
	provider, err := s.providerRepo.FindByID(ctx, method.ShopID, providerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_PROVIDER", "Provider not found")
		}
		return err
	}
	return method.AttachService(provider, serviceIdentifier)
}

func (s *MethodService) buildComponents(reqs []ComponentRequest) ([]service.BehaviorComponent, error) {
	components := make([]service.BehaviorComponent, 0, len(reqs))
	for i, req := range reqs {
		c, err := s.codec.Build(req.Kind, req.Config)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		components = append(components, c)
	}
	return components, nil
}

func (s *MethodService) save(ctx context.Context, method *service.Method) error {
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return err
	}
	publishPending(ctx, s.events, method)
	return nil
}

func (s *MethodService) toResponse(method *service.Method) (*MethodResponse, error) {
	resp := ToMethodResponse(method)
	for i, c := range method.Components {
		kind, config, err := s.codec.Encode(c)
		if err != nil {
			return nil, err
		}
		resp.Components = append(resp.Components, ComponentResponse{
			Position: i,
			Kind:     kind,
			Config:   json.RawMessage(config),
		})
	}
	return resp, nil
}

// publishPending hands the aggregate's events to the publisher and clears
// them. Publishing failures are logged; the state change already happened.
func publishPending(ctx context.Context, events shared.EventPublisher, agg shared.AggregateRoot) {
	pending := agg.GetDomainEvents()
	defer agg.ClearDomainEvents()
	if events == nil || len(pending) == 0 {
		return
	}
	if err := events.Publish(ctx, pending...); err != nil {
		logger.L(ctx).Warn("failed to publish domain events", zap.Error(err))
	}
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != uuid.Nil {
			out = append(out, id)
		}
	}
	return out
}
