package bootstrap

import (
	"context"
	"testing"

	"github.com/google/uuid"
	serviceapp "github.com/shopcore/backend/internal/application/service"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))
	return db
}

func TestNewServices(t *testing.T) {
	db := openTestDB(t)

	svcs, err := NewServices(db, config.CheckoutConfig{DefaultCurrency: "EUR"}, Options{})
	require.NoError(t, err)
	assert.NotNil(t, svcs.Method)
	assert.NotNil(t, svcs.Stock)
	assert.Contains(t, svcs.Registry.Kinds(), "fixed_cost")

	ctx := context.Background()
	shopID := uuid.New()
	methods, err := svcs.Checkout.AvailableMethods(ctx, shopID, service.MethodKindShipping, serviceapp.SourceRequest{})
	require.NoError(t, err)
	assert.Empty(t, methods)
}

func TestNewServices_InvalidCurrency(t *testing.T) {
	_, err := NewServices(openTestDB(t), config.CheckoutConfig{DefaultCurrency: "XX"}, Options{})
	assert.Error(t, err)
}
