package supply

import (
	"context"
	"testing"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()
	shopID := newTestShopID()

	t.Run("creates stock managed supplier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		repo.On("ExistsByIdentifier", ctx, shopID, "main").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*supply.Supplier")).Return(nil)

		resp, err := NewSupplierService(repo).Create(ctx, shopID, CreateSupplierRequest{
			Identifier:   "main",
			Name:         "Main warehouse",
			StockManaged: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "main", resp.Identifier)
		assert.True(t, resp.StockManaged)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate identifier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		repo.On("ExistsByIdentifier", ctx, shopID, "main").Return(true, nil)

		_, err := NewSupplierService(repo).Create(ctx, shopID, CreateSupplierRequest{Identifier: "main", Name: "Main"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		repo.On("ExistsByIdentifier", ctx, shopID, "main").Return(false, nil)

		_, err := NewSupplierService(repo).Create(ctx, shopID, CreateSupplierRequest{Identifier: "main", Name: "  "})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSupplierService_ListAndUpdate(t *testing.T) {
	ctx := context.Background()
	shopID := newTestShopID()
	supplier, err := supply.NewSupplier(shopID, "main", "Main", false)
	require.NoError(t, err)

	repo := new(MockSupplierRepository)
	repo.On("FindAll", ctx, shopID).Return([]supply.Supplier{*supplier}, nil)
	repo.On("FindByID", ctx, shopID, supplier.ID).Return(supplier, nil)
	repo.On("Save", ctx, supplier).Return(nil)
	svc := NewSupplierService(repo)

	list, err := svc.List(ctx, shopID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, supplier.ID, list[0].ID)

	managed := true
	resp, err := svc.Update(ctx, shopID, supplier.ID, UpdateSupplierRequest{StockManaged: &managed})
	require.NoError(t, err)
	assert.True(t, resp.StockManaged)
}
