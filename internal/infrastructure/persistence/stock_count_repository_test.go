package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/domain/supply"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockCountRepository(t *testing.T) {
	db := setupShopTestDB(t)
	repo := NewGormStockCountRepository(db)
	ctx := context.Background()
	shopID, supplierID, productID := uuid.New(), uuid.New(), uuid.New()

	_, err := repo.FindByProduct(ctx, shopID, supplierID, productID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	count, err := supply.NewStockCount(shopID, supplierID, productID, valueobject.EUR)
	require.NoError(t, err)

	first, err := count.AdjustStock(decimal.NewFromInt(10), valueobject.MustMoney("2", valueobject.EUR), "admin")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, count, first))

	second, err := count.AdjustStock(decimal.NewFromInt(-4), valueobject.Money{}, "admin")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, count, second))

	require.NoError(t, count.OrderPlaced(decimal.NewFromInt(1)))
	require.NoError(t, repo.Save(ctx, count, nil))

	t.Run("FindByProduct restores counts and value", func(t *testing.T) {
		found, err := repo.FindByProduct(ctx, shopID, supplierID, productID)
		require.NoError(t, err)
		assert.True(t, found.LogicalCount.Equal(decimal.NewFromInt(5)))
		assert.True(t, found.PhysicalCount.Equal(decimal.NewFromInt(6)))
		assert.True(t, found.StockValue.Equals(valueobject.MustMoney("12", valueobject.EUR)))
		assert.Nil(t, found.AlertLimit)
	})

	t.Run("FindAdjustments returns newest first", func(t *testing.T) {
		adjustments, err := repo.FindAdjustments(ctx, shopID, supplierID, productID, 10)
		require.NoError(t, err)
		require.Len(t, adjustments, 2)
		assert.True(t, adjustments[0].Delta.Equal(decimal.NewFromInt(-4)))
		assert.True(t, adjustments[1].Delta.Equal(decimal.NewFromInt(10)))

		limited, err := repo.FindAdjustments(ctx, shopID, supplierID, productID, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("StockStatuses reads the projection", func(t *testing.T) {
		limit := decimal.NewFromInt(8)
		require.NoError(t, count.SetAlertLimit(&limit))
		require.NoError(t, repo.Save(ctx, count, nil))

		reader, err := NewSQLStockStatusReader(db)
		require.NoError(t, err)

		statuses, err := reader.StockStatuses(ctx, shopID, supplierID, []uuid.UUID{productID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		status := statuses[0]
		assert.Equal(t, productID, status.ProductID)
		assert.True(t, status.LogicalCount.Equal(decimal.NewFromInt(5)))
		require.NotNil(t, status.AlertLimit)
		assert.True(t, status.AlertLimit.Equal(limit))
		assert.True(t, status.StockUnitPrice.Equals(valueobject.MustMoney("2", valueobject.EUR)))

		empty, err := reader.StockStatuses(ctx, shopID, supplierID, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestGormStockCountRepository_ConcurrentSave(t *testing.T) {
	repo := NewGormStockCountRepository(setupShopTestDB(t))
	ctx := context.Background()
	shopID, supplierID, productID := uuid.New(), uuid.New(), uuid.New()

	count, err := supply.NewStockCount(shopID, supplierID, productID, valueobject.EUR)
	require.NoError(t, err)
	adjustment, err := count.AdjustStock(decimal.NewFromInt(10), valueobject.MustMoney("1", valueobject.EUR), "admin")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, count, adjustment))

	first, err := repo.FindByProduct(ctx, shopID, supplierID, productID)
	require.NoError(t, err)
	second, err := repo.FindByProduct(ctx, shopID, supplierID, productID)
	require.NoError(t, err)

	require.NoError(t, first.OrderPlaced(decimal.NewFromInt(3)))
	require.NoError(t, second.OrderPlaced(decimal.NewFromInt(4)))

	require.NoError(t, repo.Save(ctx, first, nil))
	err = repo.Save(ctx, second, nil)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	stored, err := repo.FindByProduct(ctx, shopID, supplierID, productID)
	require.NoError(t, err)
	assert.True(t, stored.LogicalCount.Equal(decimal.NewFromInt(7)), "got %s", stored.LogicalCount)
	assert.Equal(t, first.Version, stored.Version)

	t.Run("a reloaded copy saves on top of the winner", func(t *testing.T) {
		require.NoError(t, stored.OrderPlaced(decimal.NewFromInt(4)))
		require.NoError(t, repo.Save(ctx, stored, nil))

		// saving again without changes is not a conflict
		require.NoError(t, repo.Save(ctx, stored, nil))

		final, err := repo.FindByProduct(ctx, shopID, supplierID, productID)
		require.NoError(t, err)
		assert.True(t, final.LogicalCount.Equal(decimal.NewFromInt(3)))
	})
}
