package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopcore/backend/internal/infrastructure/strategy"
	"github.com/shopcore/backend/internal/infrastructure/strategy/behavior"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMethodRepository(t *testing.T) *GormMethodRepository {
	registry, err := strategy.NewRegistryWithDefaults()
	require.NoError(t, err)
	return NewGormMethodRepository(setupShopTestDB(t), registry)
}

func newShippingMethod(t *testing.T, shopID uuid.UUID, identifier, name string) *service.Method {
	m, err := service.NewMethod(shopID, service.MethodKindShipping, identifier, name, uuid.New())
	require.NoError(t, err)
	return m
}

func TestGormMethodRepository_SaveAndFind(t *testing.T) {
	repo := newTestMethodRepository(t)
	ctx := context.Background()
	shopID := uuid.New()

	method := newShippingMethod(t, shopID, "standard", "Standard")
	fixed, err := behavior.NewFixedCostComponent(behavior.FixedCostConfig{Price: decimal.RequireFromString("5.00"), Description: "Handling"})
	require.NoError(t, err)
	waiving, err := behavior.NewWaivingCostComponent(behavior.WaivingCostConfig{
		Price:      decimal.RequireFromString("3.75"),
		WaiveLimit: decimal.RequireFromString("100"),
	})
	require.NoError(t, err)
	require.NoError(t, method.ReplaceComponents([]service.BehaviorComponent{fixed, waiving}))

	require.NoError(t, repo.Save(ctx, method))

	t.Run("finds by id with components in order", func(t *testing.T) {
		found, err := repo.FindByID(ctx, shopID, method.ID)
		require.NoError(t, err)
		assert.Equal(t, "standard", found.Identifier)
		assert.Equal(t, method.TaxClassID, found.TaxClassID)
		require.Len(t, found.Components, 2)
		assert.Equal(t, behavior.KindFixedCost, found.Components[0].Name())
		assert.Equal(t, behavior.KindWaivingCost, found.Components[1].Name())

		source := service.NewSource(shopID, valueobject.EUR, true)
		info, err := found.PriceInfo(source)
		require.NoError(t, err)
		assert.True(t, info.Price.Equals(valueobject.MustMoney("8.75", valueobject.EUR)))
	})

	t.Run("finds by identifier", func(t *testing.T) {
		found, err := repo.FindByIdentifier(ctx, shopID, service.MethodKindShipping, "standard")
		require.NoError(t, err)
		assert.Equal(t, method.ID, found.ID)
	})

	t.Run("other shop cannot see the method", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New(), method.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save replaces components", func(t *testing.T) {
		require.NoError(t, method.RemoveComponent(0))
		require.NoError(t, repo.Save(ctx, method))

		found, err := repo.FindByID(ctx, shopID, method.ID)
		require.NoError(t, err)
		require.Len(t, found.Components, 1)
		assert.Equal(t, behavior.KindWaivingCost, found.Components[0].Name())
		assert.Equal(t, method.Version, found.Version)
	})
}

func TestGormMethodRepository_Queries(t *testing.T) {
	repo := newTestMethodRepository(t)
	ctx := context.Background()
	shopID := uuid.New()

	standard := newShippingMethod(t, shopID, "standard", "Standard")
	express := newShippingMethod(t, shopID, "express", "Express")
	require.NoError(t, express.Disable())
	invoice, err := service.NewMethod(shopID, service.MethodKindPayment, "invoice", "Invoice", uuid.New())
	require.NoError(t, err)
	for _, m := range []*service.Method{standard, express, invoice} {
		require.NoError(t, repo.Save(ctx, m))
	}

	t.Run("FindEnabled filters by kind and status", func(t *testing.T) {
		methods, err := repo.FindEnabled(ctx, shopID, service.MethodKindShipping)
		require.NoError(t, err)
		require.Len(t, methods, 1)
		assert.Equal(t, standard.ID, methods[0].ID)
	})

	t.Run("FindAll with kind filter orders by name", func(t *testing.T) {
		methods, err := repo.FindAll(ctx, shopID, service.MethodFilter{Kind: service.MethodKindShipping})
		require.NoError(t, err)
		require.Len(t, methods, 2)
		assert.Equal(t, "Express", methods[0].Name)
		assert.Equal(t, "Standard", methods[1].Name)
	})

	t.Run("FindAll sorts descending by a whitelisted column", func(t *testing.T) {
		filter := service.MethodFilter{
			Filter: shared.Filter{OrderBy: "name", Desc: true},
			Kind:   service.MethodKindShipping,
		}
		methods, err := repo.FindAll(ctx, shopID, filter)
		require.NoError(t, err)
		require.Len(t, methods, 2)
		assert.Equal(t, "Standard", methods[0].Name)
		assert.Equal(t, "Express", methods[1].Name)
	})

	t.Run("FindAll with search and pagination", func(t *testing.T) {
		filter := service.MethodFilter{Filter: shared.Filter{Page: 1, PageSize: 1, Search: "EXP"}}
		methods, err := repo.FindAll(ctx, shopID, filter)
		require.NoError(t, err)
		require.Len(t, methods, 1)
		assert.Equal(t, express.ID, methods[0].ID)
	})

	t.Run("Count applies filters", func(t *testing.T) {
		count, err := repo.Count(ctx, shopID, service.MethodFilter{Status: service.MethodStatusEnabled})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("ExistsByIdentifier is scoped by kind", func(t *testing.T) {
		exists, err := repo.ExistsByIdentifier(ctx, shopID, service.MethodKindPayment, "invoice")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByIdentifier(ctx, shopID, service.MethodKindShipping, "invoice")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete removes the method", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, shopID, express.ID))
		_, err := repo.FindByID(ctx, shopID, express.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		err = repo.Delete(ctx, shopID, express.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormMethodRepository_ConcurrentSave(t *testing.T) {
	repo := newTestMethodRepository(t)
	ctx := context.Background()
	shopID := uuid.New()

	method := newShippingMethod(t, shopID, "standard", "Standard")
	require.NoError(t, repo.Save(ctx, method))

	first, err := repo.FindByID(ctx, shopID, method.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, shopID, method.ID)
	require.NoError(t, err)

	// several changes in one unit of work bump the version more than once
	require.NoError(t, first.Update("Standard delivery", "", first.TaxClassID))
	require.NoError(t, first.Disable())
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.Update("Economy", "", second.TaxClassID))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, shopID, method.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standard delivery", stored.Name)
	assert.Equal(t, service.MethodStatusDisabled, stored.Status)
	assert.Equal(t, first.Version, stored.Version)
}

func TestGormMethodRepository_DuplicateIdentifier(t *testing.T) {
	repo := newTestMethodRepository(t)
	ctx := context.Background()
	shopID := uuid.New()

	require.NoError(t, repo.Save(ctx, newShippingMethod(t, shopID, "standard", "Standard")))
	err := repo.Save(ctx, newShippingMethod(t, shopID, "standard", "Standard again"))
	assert.Error(t, err)

	require.NoError(t, repo.Save(ctx, newShippingMethod(t, uuid.New(), "standard", "Other shop")))
}

func TestGormMethodRepository_DisabledProvider(t *testing.T) {
	db := setupShopTestDB(t)
	registry, err := strategy.NewRegistryWithDefaults()
	require.NoError(t, err)
	repo := NewGormMethodRepository(db, registry)
	providers := NewGormProviderRepository(db)
	ctx := context.Background()
	shopID := uuid.New()

	carrier, err := service.NewCarrier(shopID, "postnord", "PostNord")
	require.NoError(t, err)
	require.NoError(t, carrier.AddService("parcel", "Parcel"))
	require.NoError(t, providers.Save(ctx, carrier))

	bound := newShippingMethod(t, shopID, "parcel", "Parcel")
	require.NoError(t, bound.AttachService(carrier, "parcel"))
	require.NoError(t, repo.Save(ctx, bound))
	require.NoError(t, repo.Save(ctx, newShippingMethod(t, shopID, "pickup", "Pickup")))

	found, err := repo.FindByID(ctx, shopID, bound.ID)
	require.NoError(t, err)
	assert.False(t, found.ProviderDisabled)

	carrier.SetEnabled(false)
	require.NoError(t, providers.Save(ctx, carrier))

	found, err = repo.FindByID(ctx, shopID, bound.ID)
	require.NoError(t, err)
	assert.True(t, found.ProviderDisabled)

	methods, err := repo.FindEnabled(ctx, shopID, service.MethodKindShipping)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	for _, m := range methods {
		assert.Equal(t, m.ID == bound.ID, m.ProviderDisabled, m.Identifier)
	}
}
