package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ProviderService manages carriers and payment processors
type ProviderService struct {
	providerRepo service.ProviderRepository
}

// NewProviderService creates a new ProviderService
func NewProviderService(providerRepo service.ProviderRepository) *ProviderService {
	return &ProviderService{providerRepo: providerRepo}
}

// Create creates a carrier or payment processor with its initial services
func (s *ProviderService) Create(ctx context.Context, shopID uuid.UUID, req CreateProviderRequest) (*ProviderResponse, error) {
	exists, err := s.providerRepo.ExistsByIdentifier(ctx, shopID, req.Identifier)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Provider with identifier %q already exists", req.Identifier))
	}

	provider, err := service.NewServiceProvider(shopID, service.ProviderKind(req.Kind), req.Identifier, req.Name)
	if err != nil {
		return nil, err
	}
	for _, svc := range req.Services {
		if err := provider.AddService(svc.Identifier, svc.Name); err != nil {
			return nil, err
		}
	}

	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("provider created",
		zap.String("provider_id", provider.ID.String()),
		zap.String("kind", string(provider.Kind)),
	)
	return ToProviderResponse(provider), nil
}

// GetByID retrieves a provider
func (s *ProviderService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	return ToProviderResponse(provider), nil
}

// List lists the providers of a shop. An empty kind lists every provider.
func (s *ProviderService) List(ctx context.Context, shopID uuid.UUID, kind string) ([]ProviderResponse, error) {
	if kind != "" && !service.ProviderKind(kind).IsValid() {
		return nil, shared.NewDomainError("INVALID_PROVIDER_KIND", fmt.Sprintf("Invalid provider kind: %s", kind))
	}
	providers, err := s.providerRepo.FindAll(ctx, shopID, service.ProviderKind(kind))
	if err != nil {
		return nil, err
	}
	responses := make([]ProviderResponse, len(providers))
	for i, p := range providers {
		responses[i] = *ToProviderResponse(p)
	}
	return responses, nil
}

// AddService adds a service offering to a provider
func (s *ProviderService) AddService(ctx context.Context, shopID, id uuid.UUID, req AddServiceRequest) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if err := provider.AddService(req.Identifier, req.Name); err != nil {
		return nil, err
	}
	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	return ToProviderResponse(provider), nil
}

// SetEnabled enables or disables a provider
func (s *ProviderService) SetEnabled(ctx context.Context, shopID, id uuid.UUID, enabled bool) (*ProviderResponse, error) {
	provider, err := s.providerRepo.FindByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	provider.SetEnabled(enabled)
	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	return ToProviderResponse(provider), nil
}
