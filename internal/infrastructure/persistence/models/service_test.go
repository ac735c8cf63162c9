package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceModels_TableNames(t *testing.T) {
	assert.Equal(t, "service_methods", MethodModel{}.TableName())
	assert.Equal(t, "behavior_components", BehaviorComponentModel{}.TableName())
	assert.Equal(t, "service_providers", ServiceProviderModel{}.TableName())
	assert.Equal(t, "product_method_limits", ProductMethodLimitModel{}.TableName())
	assert.Equal(t, "product_method_links", ProductMethodLinkModel{}.TableName())
	assert.Equal(t, "payment_orders", PaymentOrderModel{}.TableName())
	assert.Equal(t, "order_log_entries", OrderLogEntryModel{}.TableName())
}

func TestMethodModel_FromDomainToDomain(t *testing.T) {
	shopID := uuid.New()
	method, err := service.NewMethod(shopID, service.MethodKindShipping, "express", "Express", uuid.New())
	require.NoError(t, err)
	minDays, maxDays := 1, 3
	require.NoError(t, method.SetDeliveryTime(&minDays, &maxDays))
	require.NoError(t, method.Disable())

	model := &MethodModel{}
	model.FromDomain(method)

	assert.Equal(t, method.ID, model.ID)
	assert.Equal(t, shopID, model.ShopID)
	assert.Equal(t, method.Version, model.Version)
	assert.Equal(t, service.MethodStatusDisabled, model.Status)
	assert.Empty(t, model.Components)

	back := model.ToDomain(nil)
	assert.Equal(t, method.ID, back.ID)
	assert.Equal(t, shopID, back.ShopID)
	assert.Equal(t, "express", back.Identifier)
	assert.Equal(t, service.MethodKindShipping, back.Kind)
	assert.Equal(t, method.TaxClassID, back.TaxClassID)
	assert.Equal(t, 1, *back.DeliveryTimeMinDays)
	assert.Equal(t, 3, *back.DeliveryTimeMaxDays)
	assert.NotNil(t, back.Components)
	assert.Empty(t, back.GetDomainEvents())
}

func TestServiceProviderModel_Services(t *testing.T) {
	provider, err := service.NewCarrier(uuid.New(), "postnord", "PostNord")
	require.NoError(t, err)
	require.NoError(t, provider.AddService("parcel", "Parcel"))

	model := &ServiceProviderModel{}
	model.FromDomain(provider)
	assert.JSONEq(t, `[{"identifier":"parcel","name":"Parcel"}]`, model.ServicesJSON)

	back := model.ToDomain()
	svc, ok := back.Service("parcel")
	require.True(t, ok)
	assert.Equal(t, "Parcel", svc.Name)
	assert.Equal(t, service.ProviderKindCarrier, back.Kind)
}

func TestServiceProviderModel_ToDomain_InvalidJSON(t *testing.T) {
	model := &ServiceProviderModel{Identifier: "broken", ServicesJSON: "{not json"}
	back := model.ToDomain()
	assert.Empty(t, back.Services)
}

func TestProductMethodLimitModel_RoundTrip(t *testing.T) {
	productID := uuid.New()
	shipping, payment := uuid.New(), uuid.New()
	limit := service.ProductMethodLimit{
		ShopID:               uuid.New(),
		ProductID:            productID,
		LimitShippingMethods: true,
		ShippingMethodIDs:    []uuid.UUID{shipping, shipping},
		PaymentMethodIDs:     []uuid.UUID{payment},
	}

	model := ProductMethodLimitModelFromDomain(limit)
	require.Len(t, model.Links, 2)

	back := model.ToDomain()
	assert.True(t, back.LimitShippingMethods)
	assert.False(t, back.LimitPaymentMethods)
	assert.Equal(t, []uuid.UUID{shipping}, back.ShippingMethodIDs)
	assert.Equal(t, []uuid.UUID{payment}, back.PaymentMethodIDs)
}

func TestPaymentOrderModel_RoundTrip(t *testing.T) {
	order, err := service.NewPaymentOrder(uuid.New(), "ORD-1", uuid.New())
	require.NoError(t, err)
	order.AddLogEntry("created")

	model := PaymentOrderModelFromDomain(order)
	require.Len(t, model.LogEntries, 1)
	assert.Equal(t, order.ID, model.LogEntries[0].OrderID)

	back := model.ToDomain()
	assert.Equal(t, order.ID, back.ID)
	assert.Equal(t, service.PaymentStatusNotPaid, back.PaymentStatus)
	require.Len(t, back.LogEntries, 1)
	assert.Equal(t, "created", back.LogEntries[0].Message)
	assert.WithinDuration(t, time.Now(), back.LogEntries[0].CreatedAt, time.Minute)
}
