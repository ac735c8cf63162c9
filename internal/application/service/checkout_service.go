package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutConfig holds the shop wide pricing defaults
type CheckoutConfig struct {
	DefaultCurrency  valueobject.Currency
	PricesIncludeTax bool
}

// CheckoutService resolves which methods a basket may use and what they cost
type CheckoutService struct {
	methodRepo service.MethodRepository
	limitRepo  service.ProductLimitRepository
	metrics    *telemetry.CheckoutMetrics
	config     CheckoutConfig
}

// NewCheckoutService creates a new CheckoutService. metrics may be nil.
func NewCheckoutService(
	methodRepo service.MethodRepository,
	limitRepo service.ProductLimitRepository,
	metrics *telemetry.CheckoutMetrics,
	config CheckoutConfig,
) *CheckoutService {
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = valueobject.DefaultCurrency
	}
	return &CheckoutService{
		methodRepo: methodRepo,
		limitRepo:  limitRepo,
		metrics:    metrics,
		config:     config,
	}
}

// BuildSource turns a checkout request into a domain source
func (s *CheckoutService) BuildSource(shopID uuid.UUID, req SourceRequest) (*service.Source, error) {
	currency := s.config.DefaultCurrency
	if req.Currency != "" {
		parsed, err := valueobject.ParseCurrency(req.Currency)
		if err != nil {
			return nil, shared.WrapDomainError("INVALID_CURRENCY", err.Error(), err)
		}
		currency = parsed
	}
	includesTax := s.config.PricesIncludeTax
	if req.PricesIncludeTax != nil {
		includesTax = *req.PricesIncludeTax
	}

	source := service.NewSource(shopID, currency, includesTax)
	if req.CustomerID != nil {
		source.CustomerID = *req.CustomerID
	}
	if req.ShippingAddress != nil {
		addr, err := req.ShippingAddress.ToAddress()
		if err != nil {
			return nil, shared.WrapDomainError("INVALID_ADDRESS", "Invalid shipping address", err)
		}
		source.ShippingAddress = addr
	}
	if req.BillingAddress != nil {
		addr, err := req.BillingAddress.ToAddress()
		if err != nil {
			return nil, shared.WrapDomainError("INVALID_ADDRESS", "Invalid billing address", err)
		}
		source.BillingAddress = addr
	}
	if req.ShippingMethodID != nil {
		source.ShippingMethodID = *req.ShippingMethodID
	}
	if req.PaymentMethodID != nil {
		source.PaymentMethodID = *req.PaymentMethodID
	}

	for i, l := range req.Lines {
		line := service.SourceLine{
			Type:           service.LineType(l.Type),
			Text:           l.Text,
			Quantity:       decimal.NewFromInt(1),
			BaseUnitPrice:  valueobject.MoneyOf(l.UnitPrice, currency),
			DiscountAmount: valueobject.MoneyOf(l.DiscountAmount, currency),
		}
		if l.Quantity != nil {
			line.Quantity = *l.Quantity
		}
		if l.ProductID != nil {
			line.ProductID = *l.ProductID
		}
		if l.TaxClassID != nil {
			line.TaxClassID = *l.TaxClassID
		}
		if l.Weight != nil {
			line.Weight = *l.Weight
		}
		if err := source.AddLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
	}
	return source, nil
}

// AvailableMethods lists the enabled methods of kind the source may use,
// priced for the source and ordered by name
func (s *CheckoutService) AvailableMethods(ctx context.Context, shopID uuid.UUID, kind service.MethodKind, req SourceRequest) ([]AvailableMethodResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "available_methods")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrShopID, shopID.String(),
		telemetry.SpanAttrMethodKind, string(kind),
	)

	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD_KIND", fmt.Sprintf("Invalid method kind: %s", kind))
	}
	source, err := s.BuildSource(shopID, req)
	if err != nil {
		return nil, err
	}

	methods, err := s.availableMethods(ctx, source, kind)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	responses := make([]AvailableMethodResponse, 0, len(methods))
	for _, m := range methods {
		start := time.Now()
		info, err := m.PriceInfo(source)
		s.metrics.RecordCostDuration(ctx, string(kind), time.Since(start))
		if err != nil {
			return nil, err
		}
		resp := AvailableMethodResponse{
			ID:          m.ID,
			Kind:        string(m.Kind),
			Identifier:  m.Identifier,
			Name:        m.EffectiveName(source),
			Description: m.Description,
			Price:       info.Price,
			BasePrice:   info.BasePrice,
			Discount:    info.DiscountAmount(),
		}
		if dt := m.DeliveryTime(source); dt != nil {
			resp.DeliveryTime = &DeliveryTimeDTO{MinDays: dt.MinDays, MaxDays: dt.MaxDays, Text: dt.String()}
		}
		responses = append(responses, resp)
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Name < responses[j].Name
	})
	telemetry.SetAttributes(span, "methods.available", len(responses))
	telemetry.SetOK(span)
	return responses, nil
}

// availableMethods returns the enabled methods that pass product limits and
// have no unavailability reasons
func (s *CheckoutService) availableMethods(ctx context.Context, source *service.Source, kind service.MethodKind) ([]*service.Method, error) {
	methods, err := s.methodRepo.FindEnabled(ctx, source.ShopID, kind)
	if err != nil {
		return nil, err
	}
	allowed, err := s.allowedIDs(ctx, source, kind, methods)
	if err != nil {
		return nil, err
	}

	available := make([]*service.Method, 0, len(methods))
	for _, m := range methods {
		if _, ok := allowed[m.ID]; !ok {
			s.metrics.RecordMethodEvaluated(ctx, source.ShopID, string(kind), service.ReasonNotAllowedProducts)
			continue
		}
		reasons := m.ValidationErrors(source)
		if len(reasons) > 0 {
			s.metrics.RecordMethodEvaluated(ctx, source.ShopID, string(kind), reasons[0].Code)
			logger.L(ctx).Debug("method unavailable",
				zap.String("method_id", m.ID.String()),
				zap.String("reason", reasons[0].Code),
			)
			continue
		}
		s.metrics.RecordMethodEvaluated(ctx, source.ShopID, string(kind), "")
		available = append(available, m)
	}
	return available, nil
}

func (s *CheckoutService) allowedIDs(ctx context.Context, source *service.Source, kind service.MethodKind, methods []*service.Method) (map[uuid.UUID]struct{}, error) {
	candidates := make([]uuid.UUID, len(methods))
	for i, m := range methods {
		candidates[i] = m.ID
	}
	limits, err := s.limitRepo.FindByProducts(ctx, source.ShopID, source.ProductIDs())
	if err != nil {
		return nil, err
	}
	return service.AvailableIDs(kind, candidates, limits), nil
}

// Validate lists why the selected shipping and payment methods cannot be
// used. Kinds without a selection are not checked.
func (s *CheckoutService) Validate(ctx context.Context, shopID uuid.UUID, req SourceRequest) (*ValidationResponse, error) {
	source, err := s.BuildSource(shopID, req)
	if err != nil {
		return nil, err
	}
	errs, _, err := s.validateSelection(ctx, source)
	if err != nil {
		return nil, err
	}
	if errs == nil {
		errs = strategy.ValidationErrors{}
	}
	return &ValidationResponse{Valid: len(errs) == 0, Errors: errs}, nil
}

// validateSelection checks every selected method and returns the methods
// that passed in shipping, payment order
func (s *CheckoutService) validateSelection(ctx context.Context, source *service.Source) (strategy.ValidationErrors, []*service.Method, error) {
	var errs strategy.ValidationErrors
	selected := make([]*service.Method, 0, 2)

	for _, kind := range []service.MethodKind{service.MethodKindShipping, service.MethodKindPayment} {
		id := source.SelectedMethodID(kind)
		if id == uuid.Nil {
			continue
		}
		field := string(kind) + "_method"
		notAvailable := strategy.NewValidationError(field, service.ReasonMethodNotAvailable,
			fmt.Sprintf("The selected %s method is not available", kind))

		method, err := s.methodRepo.FindByID(ctx, source.ShopID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				errs = append(errs, notAvailable)
				continue
			}
			return nil, nil, err
		}
		if method.Kind != kind {
			errs = append(errs, notAvailable)
			continue
		}

		allowed, err := s.allowedIDs(ctx, source, kind, []*service.Method{method})
		if err != nil {
			return nil, nil, err
		}
		reasons := method.ValidationErrors(source)
		if _, ok := allowed[method.ID]; !ok {
			reasons = append(reasons, strategy.NewValidationError(field, service.ReasonNotAllowedProducts,
				fmt.Sprintf("%s cannot be used with every product in the order", method.Name)))
		}
		if len(reasons) > 0 {
			errs = append(errs, notAvailable)
			errs = append(errs, reasons...)
			continue
		}
		selected = append(selected, method)
	}
	return errs, selected, nil
}

// FinalLines returns the product lines followed by one priced line per
// selected method. Unavailable selections fail with METHOD_NOT_AVAILABLE.
func (s *CheckoutService) FinalLines(ctx context.Context, shopID uuid.UUID, req SourceRequest) (*LinesResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "final_lines")
	defer span.End()

	source, err := s.BuildSource(shopID, req)
	if err != nil {
		return nil, err
	}
	errs, methods, err := s.validateSelection(ctx, source)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(errs) > 0 {
		return nil, shared.WrapDomainError(shared.ErrMethodUnavailable.Code, shared.ErrMethodUnavailable.Message, errs)
	}

	lines := source.Lines()
	for _, m := range methods {
		methodLines, err := m.SourceLines(source)
		if err != nil {
			return nil, err
		}
		lines = append(lines, methodLines...)
	}

	total := source.ZeroPrice()
	responses := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		total, err = total.Add(l.Price())
		if err != nil {
			return nil, err
		}
		responses = append(responses, ToLineResponse(l))
	}

	telemetry.SetOK(span)
	return &LinesResponse{Lines: responses, Total: total}, nil
}
