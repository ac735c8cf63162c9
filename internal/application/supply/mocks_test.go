package supply

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/stretchr/testify/mock"
)

// MockSupplierRepository is a mock implementation of supply.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*supply.Supplier, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supply.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, shopID uuid.UUID) ([]supply.Supplier, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).([]supply.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *supply.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) ExistsByIdentifier(ctx context.Context, shopID uuid.UUID, identifier string) (bool, error) {
	args := m.Called(ctx, shopID, identifier)
	return args.Bool(0), args.Error(1)
}

// MockStockCountRepository is a mock implementation of supply.StockCountRepository
type MockStockCountRepository struct {
	mock.Mock
}

func (m *MockStockCountRepository) FindByProduct(ctx context.Context, shopID, supplierID, productID uuid.UUID) (*supply.StockCount, error) {
	args := m.Called(ctx, shopID, supplierID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supply.StockCount), args.Error(1)
}

func (m *MockStockCountRepository) Save(ctx context.Context, count *supply.StockCount, adjustment *supply.StockAdjustment) error {
	args := m.Called(ctx, count, adjustment)
	return args.Error(0)
}

func (m *MockStockCountRepository) FindAdjustments(ctx context.Context, shopID, supplierID, productID uuid.UUID, limit int) ([]supply.StockAdjustment, error) {
	args := m.Called(ctx, shopID, supplierID, productID, limit)
	return args.Get(0).([]supply.StockAdjustment), args.Error(1)
}

// MockStockStatusReader is a mock implementation of supply.StockStatusReader
type MockStockStatusReader struct {
	mock.Mock
}

func (m *MockStockStatusReader) StockStatuses(ctx context.Context, shopID, supplierID uuid.UUID, productIDs []uuid.UUID) ([]supply.StockStatus, error) {
	args := m.Called(ctx, shopID, supplierID, productIDs)
	return args.Get(0).([]supply.StockStatus), args.Error(1)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Test helper functions
func newTestShopID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestProductID() uuid.UUID {
	return uuid.MustParse("33333333-3333-3333-3333-333333333333")
}
