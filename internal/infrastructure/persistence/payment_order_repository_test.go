package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPaymentOrderRepository(t *testing.T) {
	repo := NewGormPaymentOrderRepository(setupShopTestDB(t))
	ctx := context.Background()
	shopID := uuid.New()

	method, err := service.NewMethod(shopID, service.MethodKindPayment, "invoice", "Invoice", uuid.New())
	require.NoError(t, err)
	order, err := service.NewPaymentOrder(shopID, "ORD-1001", method.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	t.Run("ExistsByReference", func(t *testing.T) {
		exists, err := repo.ExistsByReference(ctx, shopID, "ORD-1001")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("payment return is persisted with its log entry", func(t *testing.T) {
		changed, err := method.ProcessPaymentReturn(order)
		require.NoError(t, err)
		require.True(t, changed)
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, shopID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, service.PaymentStatusDeferred, found.PaymentStatus)
		require.Len(t, found.LogEntries, 1)
		assert.Equal(t, "Payment status set to deferred by Invoice", found.LogEntries[0].Message)
	})

	t.Run("saving twice does not duplicate log entries", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, order))
		found, err := repo.FindByID(ctx, shopID, order.ID)
		require.NoError(t, err)
		assert.Len(t, found.LogEntries, 1)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := repo.FindByID(ctx, shopID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
