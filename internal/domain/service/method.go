package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
)

// MethodKind distinguishes shipping methods from payment methods
type MethodKind string

const (
	MethodKindShipping MethodKind = "shipping"
	MethodKindPayment  MethodKind = "payment"
)

// IsValid returns true if the kind is known
func (k MethodKind) IsValid() bool {
	return k == MethodKindShipping || k == MethodKindPayment
}

// LineType returns the order line type produced by methods of this kind
func (k MethodKind) LineType() LineType {
	if k == MethodKindPayment {
		return LineTypePayment
	}
	return LineTypeShipping
}

// MethodStatus is the only state of a method
type MethodStatus string

const (
	MethodStatusEnabled  MethodStatus = "enabled"
	MethodStatusDisabled MethodStatus = "disabled"
)

// IsValid returns true if the status is known
func (s MethodStatus) IsValid() bool {
	return s == MethodStatusEnabled || s == MethodStatusDisabled
}

// Method is a shipping or payment method offered by a shop.
// It is the aggregate root for its behavior components.
type Method struct {
	shared.ShopAggregateRoot
	Kind                MethodKind
	Identifier          string
	Name                string
	Description         string
	Status              MethodStatus
	TaxClassID          uuid.UUID
	ProviderID          *uuid.UUID
	ServiceIdentifier   string
	DeliveryTimeMinDays *int
	DeliveryTimeMaxDays *int
	Components          []BehaviorComponent
	// ProviderDisabled is set on load when the bound provider is switched off
	ProviderDisabled    bool
}

// NewMethod creates an enabled method without components
func NewMethod(shopID uuid.UUID, kind MethodKind, identifier, name string, taxClassID uuid.UUID) (*Method, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD_KIND", fmt.Sprintf("Invalid method kind: %s", kind))
	}
	identifier = strings.TrimSpace(identifier)
	if err := validateIdentifier(identifier); err != nil {
		return nil, err
	}
	if err := validateMethodName(name); err != nil {
		return nil, err
	}
	if taxClassID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TAX_CLASS", "Tax class is required")
	}

	m := &Method{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Kind:              kind,
		Identifier:        identifier,
		Name:              strings.TrimSpace(name),
		Status:            MethodStatusEnabled,
		TaxClassID:        taxClassID,
		Components:        make([]BehaviorComponent, 0),
	}
	m.AddDomainEvent(NewMethodCreatedEvent(m))
	return m, nil
}

// Update changes the descriptive fields and tax class
func (m *Method) Update(name, description string, taxClassID uuid.UUID) error {
	if err := validateMethodName(name); err != nil {
		return err
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	if taxClassID == uuid.Nil {
		return shared.NewDomainError("INVALID_TAX_CLASS", "Tax class is required")
	}
	m.Name = strings.TrimSpace(name)
	m.Description = description
	m.TaxClassID = taxClassID
	m.IncrementVersion()
	return nil
}

// AttachService binds the method to a service of a provider
func (m *Method) AttachService(provider *ServiceProvider, serviceIdentifier string) error {
	if provider == nil {
		return shared.NewDomainError("INVALID_PROVIDER", "Provider is required")
	}
	if provider.Kind != m.Kind.ProviderKind() {
		return shared.NewDomainError("INVALID_PROVIDER", fmt.Sprintf("A %s method cannot use a %s", m.Kind, provider.Kind))
	}
	if _, ok := provider.Service(serviceIdentifier); !ok {
		return shared.NewDomainError("SERVICE_NOT_FOUND", fmt.Sprintf("Provider %s has no service %q", provider.Identifier, serviceIdentifier))
	}
	id := provider.ID
	m.ProviderID = &id
	m.ServiceIdentifier = serviceIdentifier
	m.IncrementVersion()
	return nil
}

// SetDeliveryTime sets the shipping window in days. Pass nil to clear a bound.
func (m *Method) SetDeliveryTime(minDays, maxDays *int) error {
	if m.Kind != MethodKindShipping && (minDays != nil || maxDays != nil) {
		return shared.NewDomainError("INVALID_DELIVERY_TIME", "Only shipping methods have delivery times")
	}
	if minDays != nil && *minDays < 0 || maxDays != nil && *maxDays < 0 {
		return shared.NewDomainError("INVALID_DELIVERY_TIME", "Delivery time cannot be negative")
	}
	if minDays != nil && maxDays != nil && *maxDays < *minDays {
		return shared.NewDomainError("INVALID_DELIVERY_TIME", "Maximum delivery time cannot be below the minimum")
	}
	m.DeliveryTimeMinDays = minDays
	m.DeliveryTimeMaxDays = maxDays
	m.IncrementVersion()
	return nil
}

// Enable makes the method selectable
func (m *Method) Enable() error {
	return m.setStatus(MethodStatusEnabled)
}

// Disable hides the method from checkout
func (m *Method) Disable() error {
	return m.setStatus(MethodStatusDisabled)
}

func (m *Method) setStatus(status MethodStatus) error {
	if m.Status == status {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Method is already %s", status))
	}
	old := m.Status
	m.Status = status
	m.IncrementVersion()
	m.AddDomainEvent(NewMethodStatusChangedEvent(m, old))
	return nil
}

// IsEnabled returns true for enabled methods
func (m *Method) IsEnabled() bool {
	return m.Status == MethodStatusEnabled
}

// AddComponent appends a behavior component
func (m *Method) AddComponent(c BehaviorComponent) error {
	if c == nil {
		return shared.NewDomainError("INVALID_COMPONENT", "Component cannot be nil")
	}
	m.Components = append(m.Components, c)
	m.IncrementVersion()
	return nil
}

// ReplaceComponents swaps the whole component list
func (m *Method) ReplaceComponents(components []BehaviorComponent) error {
	for _, c := range components {
		if c == nil {
			return shared.NewDomainError("INVALID_COMPONENT", "Component cannot be nil")
		}
	}
	m.Components = append(make([]BehaviorComponent, 0, len(components)), components...)
	m.IncrementVersion()
	return nil
}

// RemoveComponent drops the component at index
func (m *Method) RemoveComponent(index int) error {
	if index < 0 || index >= len(m.Components) {
		return shared.NewDomainError("COMPONENT_NOT_FOUND", fmt.Sprintf("No component at position %d", index))
	}
	m.Components = append(m.Components[:index:index], m.Components[index+1:]...)
	m.IncrementVersion()
	return nil
}

// GetCosts concatenates the costs of every component in order
func (m *Method) GetCosts(source *Source) []ServiceCost {
	costs := make([]ServiceCost, 0, len(m.Components))
	for _, c := range m.Components {
		costs = append(costs, c.GetCosts(m, source)...)
	}
	return costs
}

// PriceInfo sums every component cost. A method without costs is free.
func (m *Method) PriceInfo(source *Source) (PriceInfo, error) {
	return SumCosts(source.Currency, source.PricesIncludeTax, m.GetCosts(source))
}

// UnavailabilityReasons concatenates the reasons of every component
func (m *Method) UnavailabilityReasons(source *Source) strategy.ValidationErrors {
	var reasons strategy.ValidationErrors
	for _, c := range m.Components {
		reasons = append(reasons, c.GetUnavailabilityReasons(m, source)...)
	}
	return reasons
}

// ValidationErrors lists everything that prevents using the method for the source
func (m *Method) ValidationErrors(source *Source) strategy.ValidationErrors {
	var result strategy.ValidationResult
	if !m.IsEnabled() {
		result.AddError("method", ReasonMethodDisabled, fmt.Sprintf("%s is disabled", m.Name))
	}
	if m.ProviderDisabled {
		result.AddError("method", ReasonProviderDisabled, fmt.Sprintf("The provider of %s is disabled", m.Name))
	}
	result.Append(m.UnavailabilityReasons(source)...)
	return result.Errors
}

// IsAvailableFor returns true when the method is enabled and no component objects
func (m *Method) IsAvailableFor(source *Source) bool {
	return len(m.ValidationErrors(source)) == 0
}

// EffectiveName is the first component provided name, falling back to the method name
func (m *Method) EffectiveName(source *Source) string {
	for _, c := range m.Components {
		if np, ok := c.(NameProvider); ok {
			if name := np.GetName(m, source); name != "" {
				return name
			}
		}
	}
	return m.Name
}

// DeliveryTime spans the component estimates. Without any, the method's own
// delivery days are used.
func (m *Method) DeliveryTime(source *Source) *DeliveryTimeRange {
	ranges := make([]*DeliveryTimeRange, 0, len(m.Components))
	for _, c := range m.Components {
		ranges = append(ranges, c.GetDeliveryTime(m, source))
	}
	if merged := MergeDeliveryTimes(ranges...); merged != nil {
		return merged
	}
	if m.DeliveryTimeMinDays != nil && m.DeliveryTimeMaxDays != nil {
		return &DeliveryTimeRange{MinDays: *m.DeliveryTimeMinDays, MaxDays: *m.DeliveryTimeMaxDays}
	}
	return nil
}

// ShippingTime renders the configured delivery window, or "" when incomplete
func (m *Method) ShippingTime() string {
	if m.DeliveryTimeMinDays == nil || m.DeliveryTimeMaxDays == nil {
		return ""
	}
	return fmt.Sprintf("%d--%d days", *m.DeliveryTimeMinDays, *m.DeliveryTimeMaxDays)
}

// SourceLines returns the single order line charging this method
func (m *Method) SourceLines(source *Source) ([]SourceLine, error) {
	info, err := m.PriceInfo(source)
	if err != nil {
		return nil, err
	}
	return []SourceLine{{
		Type:           m.Kind.LineType(),
		MethodID:       m.ID,
		Text:           m.EffectiveName(source),
		Quantity:       info.Quantity,
		BaseUnitPrice:  info.BaseUnitPrice(),
		DiscountAmount: info.DiscountAmount(),
		TaxClassID:     m.TaxClassID,
	}}, nil
}

func validateIdentifier(identifier string) error {
	if identifier == "" {
		return shared.NewDomainError("INVALID_IDENTIFIER", "Identifier cannot be empty")
	}
	if len(identifier) > 64 {
		return shared.NewDomainError("INVALID_IDENTIFIER", "Identifier cannot exceed 64 characters")
	}
	for _, r := range identifier {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-' || r == '.') {
			return shared.NewDomainError("INVALID_IDENTIFIER", "Identifier may only contain letters, digits, '.', '_' and '-'")
		}
	}
	return nil
}

func validateMethodName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Method name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Method name cannot exceed 100 characters")
	}
	return nil
}
