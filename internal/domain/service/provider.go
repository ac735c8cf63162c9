package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
)

// ProviderKind is the kind of party fulfilling a method
type ProviderKind string

const (
	ProviderKindCarrier          ProviderKind = "carrier"
	ProviderKindPaymentProcessor ProviderKind = "payment_processor"
)

// IsValid returns true if the kind is known
func (k ProviderKind) IsValid() bool {
	return k == ProviderKindCarrier || k == ProviderKindPaymentProcessor
}

// ProviderKind returns the provider kind able to fulfil methods of this kind
func (k MethodKind) ProviderKind() ProviderKind {
	if k == MethodKindPayment {
		return ProviderKindPaymentProcessor
	}
	return ProviderKindCarrier
}

// Service is one offering of a provider, e.g. a carrier's express parcel
type Service struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

// ServiceProvider is a carrier or payment processor and the services it offers
type ServiceProvider struct {
	shared.ShopAggregateRoot
	Kind       ProviderKind
	Identifier string
	Name       string
	Enabled    bool
	Services   []Service
}

// NewServiceProvider creates an enabled provider without services
func NewServiceProvider(shopID uuid.UUID, kind ProviderKind, identifier, name string) (*ServiceProvider, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROVIDER_KIND", fmt.Sprintf("Invalid provider kind: %s", kind))
	}
	identifier = strings.TrimSpace(identifier)
	if err := validateIdentifier(identifier); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Provider name must be 1 to 100 characters")
	}
	return &ServiceProvider{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Kind:              kind,
		Identifier:        identifier,
		Name:              name,
		Enabled:           true,
		Services:          make([]Service, 0),
	}, nil
}

// NewCarrier creates a carrier provider
func NewCarrier(shopID uuid.UUID, identifier, name string) (*ServiceProvider, error) {
	return NewServiceProvider(shopID, ProviderKindCarrier, identifier, name)
}

// NewPaymentProcessor creates a payment processor provider
func NewPaymentProcessor(shopID uuid.UUID, identifier, name string) (*ServiceProvider, error) {
	return NewServiceProvider(shopID, ProviderKindPaymentProcessor, identifier, name)
}

// AddService registers a new service. Identifiers are unique per provider.
func (p *ServiceProvider) AddService(identifier, name string) error {
	identifier = strings.TrimSpace(identifier)
	if err := validateIdentifier(identifier); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Service name cannot be empty")
	}
	if _, exists := p.Service(identifier); exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Service %q already exists", identifier))
	}
	p.Services = append(p.Services, Service{Identifier: identifier, Name: strings.TrimSpace(name)})
	p.IncrementVersion()
	return nil
}

// Service looks up a service by identifier
func (p *ServiceProvider) Service(identifier string) (Service, bool) {
	for _, s := range p.Services {
		if s.Identifier == identifier {
			return s, true
		}
	}
	return Service{}, false
}

// SetEnabled toggles the provider
func (p *ServiceProvider) SetEnabled(enabled bool) {
	if p.Enabled == enabled {
		return
	}
	p.Enabled = enabled
	p.IncrementVersion()
}
