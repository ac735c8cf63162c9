package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockMethodRepository is a mock implementation of service.MethodRepository
type MockMethodRepository struct {
	mock.Mock
}

func (m *MockMethodRepository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*service.Method, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Method), args.Error(1)
}

func (m *MockMethodRepository) FindByIdentifier(ctx context.Context, shopID uuid.UUID, kind service.MethodKind, identifier string) (*service.Method, error) {
	args := m.Called(ctx, shopID, kind, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Method), args.Error(1)
}

func (m *MockMethodRepository) FindAll(ctx context.Context, shopID uuid.UUID, filter service.MethodFilter) ([]*service.Method, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).([]*service.Method), args.Error(1)
}

func (m *MockMethodRepository) Count(ctx context.Context, shopID uuid.UUID, filter service.MethodFilter) (int64, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMethodRepository) FindEnabled(ctx context.Context, shopID uuid.UUID, kind service.MethodKind) ([]*service.Method, error) {
	args := m.Called(ctx, shopID, kind)
	return args.Get(0).([]*service.Method), args.Error(1)
}

func (m *MockMethodRepository) Save(ctx context.Context, method *service.Method) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockMethodRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	args := m.Called(ctx, shopID, id)
	return args.Error(0)
}

func (m *MockMethodRepository) ExistsByIdentifier(ctx context.Context, shopID uuid.UUID, kind service.MethodKind, identifier string) (bool, error) {
	args := m.Called(ctx, shopID, kind, identifier)
	return args.Bool(0), args.Error(1)
}

// MockProviderRepository is a mock implementation of service.ProviderRepository
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*service.ServiceProvider, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ServiceProvider), args.Error(1)
}

func (m *MockProviderRepository) FindAll(ctx context.Context, shopID uuid.UUID, kind service.ProviderKind) ([]*service.ServiceProvider, error) {
	args := m.Called(ctx, shopID, kind)
	return args.Get(0).([]*service.ServiceProvider), args.Error(1)
}

func (m *MockProviderRepository) Save(ctx context.Context, provider *service.ServiceProvider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) ExistsByIdentifier(ctx context.Context, shopID uuid.UUID, identifier string) (bool, error) {
	args := m.Called(ctx, shopID, identifier)
	return args.Bool(0), args.Error(1)
}

// MockProductLimitRepository is a mock implementation of service.ProductLimitRepository
type MockProductLimitRepository struct {
	mock.Mock
}

func (m *MockProductLimitRepository) FindByProducts(ctx context.Context, shopID uuid.UUID, productIDs []uuid.UUID) ([]service.ProductMethodLimit, error) {
	args := m.Called(ctx, shopID, productIDs)
	return args.Get(0).([]service.ProductMethodLimit), args.Error(1)
}

func (m *MockProductLimitRepository) Save(ctx context.Context, limit service.ProductMethodLimit) error {
	args := m.Called(ctx, limit)
	return args.Error(0)
}

// MockPaymentOrderRepository is a mock implementation of service.PaymentOrderRepository
type MockPaymentOrderRepository struct {
	mock.Mock
}

func (m *MockPaymentOrderRepository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*service.PaymentOrder, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) ExistsByReference(ctx context.Context, shopID uuid.UUID, reference string) (bool, error) {
	args := m.Called(ctx, shopID, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentOrderRepository) Save(ctx context.Context, order *service.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// Test helper functions
func newTestShopID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestTaxClassID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func newTestProductID() uuid.UUID {
	return uuid.MustParse("33333333-3333-3333-3333-333333333333")
}
